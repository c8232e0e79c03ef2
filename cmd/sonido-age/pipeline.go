package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/RyanBlaney/sonido-age/classifier"
	"github.com/RyanBlaney/sonido-age/config"
	"github.com/RyanBlaney/sonido-age/corpus"
	"github.com/RyanBlaney/sonido-age/features"
	"github.com/RyanBlaney/sonido-age/logging"
	"github.com/RyanBlaney/sonido-age/metrics"
	"github.com/RyanBlaney/sonido-age/report"
	"github.com/RyanBlaney/sonido-age/transcode"
)

// setupLogging installs a console logger that also writes to a run file under
// the configured log directory. The returned func closes the file and puts the
// previous global logger back.
func setupLogging(cfg *config.Config, prefix string, noColor bool) (func(), error) {
	level, err := logging.ParseLevel(cfg.Logging.LogLevel)
	if err != nil {
		return nil, err
	}

	var file *os.File
	if cfg.Logging.LogDir != "" {
		file, err = logging.OpenRunFile(cfg.Logging.LogDir, prefix, time.Now())
		if err != nil {
			return nil, fmt.Errorf("open run log: %w", err)
		}
	}

	var logger logging.Logger
	if cfg.Logging.LogFormat == "json" {
		var w io.Writer = os.Stdout
		if file != nil {
			w = io.MultiWriter(os.Stdout, file)
		}
		logger = logging.NewJSONLogger(w)
	} else {
		text := logging.NewDefaultLogger()
		if file != nil {
			text.AttachFile(file)
		}
		logger = text
	}
	logger.SetLevel(level)

	previous := logging.GetGlobalLogger()
	logging.SetGlobalLogger(logger)
	if noColor {
		logging.DisableColors()
	}

	return func() {
		logging.SetGlobalLogger(previous)
		if file != nil {
			_ = file.Close()
		}
	}, nil
}

// startMetrics serves the process metrics until ctx is done
func startMetrics(ctx context.Context, cfg *config.Config) {
	if cfg.Metrics.MetricsAddr == "" {
		return
	}
	go func() {
		if err := metrics.Observer.Serve(ctx, cfg.Metrics.MetricsAddr); err != nil {
			logging.Error(err, "Metrics endpoint stopped", logging.Fields{
				"addr": cfg.Metrics.MetricsAddr,
			})
		}
	}()
}

// buildDriver runs every stage up to classification: sampling, extraction,
// normalization and information gain.
func buildDriver(ctx context.Context, cfg *config.Config, out io.Writer) (*classifier.Driver, error) {
	logger := logging.WithFields(logging.Fields{
		"component": "pipeline",
		"samples":   cfg.Data.SamplesPath,
	})

	clips, err := corpus.Load(cfg.MetadataPath(), cfg.Data.ExcludedLabels)
	if err != nil {
		return nil, err
	}

	splitOpts := cfg.SplitOptions()
	logger.Info("Sampling clips", logging.Fields{
		"listed":    len(clips),
		"per_label": splitOpts.PerLabel,
		"seed":      splitOpts.Seed,
	})
	split, err := corpus.Stratify(clips, splitOpts)
	if err != nil {
		return nil, err
	}
	fmt.Fprintln(out, report.Split(split.Quotas))

	decoder := transcode.NewDecoder(cfg.DecoderConfig())
	if err := decoder.ValidateConfig(); err != nil {
		return nil, err
	}

	pool := features.NewPool(features.NewMFCCExtractor(decoder), cfg.FeatureParams(), cfg.Features.Workers)
	data, extraction, err := pool.Run(ctx, split.Jobs(cfg.ClipsPath()))
	if extraction != nil && extraction.SkippedCount() > 0 {
		fmt.Fprintln(out, report.Extraction(extraction))
	}
	if err != nil {
		return nil, err
	}

	policy, err := features.ParseDegeneratePolicy(cfg.Features.DegeneratePolicy)
	if err != nil {
		return nil, err
	}
	if _, err := features.NewNormalizer(policy).Normalize(data); err != nil {
		return nil, err
	}

	gain, err := classifier.InformationGain(data.Train)
	if err != nil {
		return nil, err
	}

	return classifier.NewDriver(data, gain), nil
}
