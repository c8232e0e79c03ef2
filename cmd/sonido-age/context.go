package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/RyanBlaney/sonido-age/config"
)

type commandContext struct {
	configFlag *string
	noColor    bool
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

// overrides are command line values that win over the configuration file
type overrides struct {
	samplesPath   string
	examples      int
	learnPercent  float64
	features      int
	frameMs       int
	hop           int
	k             int
	normalized    bool
	gainWeight    bool
	gainThreshold float64
	workers       int
	seed          int64
	logDir        string
	logLevel      string
	logFormat     string
	metricsAddr   string
}

func (o *overrides) register(flags *pflag.FlagSet, withClassifier bool) {
	flags.StringVarP(&o.samplesPath, "samples", "s", "", "Directory holding the metadata file and clips")
	flags.IntVarP(&o.examples, "examples", "n", 0, "Clips sampled per age bracket")
	flags.Float64Var(&o.learnPercent, "learn-percent", 0, "Share of each bracket used for training, in (0, 100)")
	flags.IntVar(&o.features, "features", 0, "MFCC coefficients per frame, in [12, 30]")
	flags.IntVar(&o.frameMs, "frame-ms", 0, "Frame duration in milliseconds")
	flags.IntVar(&o.hop, "hop", 0, "Hop as a percentage of the frame, in [1, 100]")
	flags.IntVar(&o.workers, "workers", 0, "Extraction workers")
	flags.Int64Var(&o.seed, "seed", 0, "Shuffle seed; 0 picks one from the clock")
	flags.StringVar(&o.logDir, "log-dir", "", "Directory for the run log file")
	flags.StringVar(&o.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.StringVar(&o.logFormat, "log-format", "", "Log format (text, json)")
	flags.StringVar(&o.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address during the run")

	if withClassifier {
		flags.IntVarP(&o.k, "k", "k", 0, "Neighbours voting on a label, in [1, 5]")
		flags.BoolVar(&o.normalized, "normalized", false, "Classify normalized feature vectors")
		flags.BoolVar(&o.gainWeight, "gain-weight", false, "Weight distances by information gain")
		flags.Float64Var(&o.gainThreshold, "gain-threshold", 0, "Ignore features with information gain at or below this value")
	}
}

// apply copies every flag the user actually set onto cfg
func (o *overrides) apply(flags *pflag.FlagSet, cfg *config.Config) {
	set := func(name string, fn func()) {
		if f := flags.Lookup(name); f != nil && f.Changed {
			fn()
		}
	}

	set("samples", func() { cfg.Data.SamplesPath = strings.TrimSpace(o.samplesPath) })
	set("examples", func() { cfg.Data.NumberOfExamples = o.examples })
	set("learn-percent", func() { cfg.Data.PercentToLearn = o.learnPercent })
	set("seed", func() { cfg.Data.Seed = o.seed })
	set("features", func() { cfg.Features.NumberOfFeatures = o.features })
	set("frame-ms", func() { cfg.Features.FrameDurationMs = o.frameMs })
	set("hop", func() { cfg.Features.HopDuration = o.hop })
	set("workers", func() { cfg.Features.Workers = o.workers })
	set("k", func() { cfg.Classifier.KNeighbours = o.k })
	set("normalized", func() { cfg.Classifier.NormalizedMFCC = o.normalized })
	set("gain-weight", func() { cfg.Classifier.InformationGainAsWeight = o.gainWeight })
	set("gain-threshold", func() { cfg.Classifier.InformationGainThreshold = o.gainThreshold })
	set("log-dir", func() { cfg.Logging.LogDir = o.logDir })
	set("log-level", func() { cfg.Logging.LogLevel = strings.ToLower(o.logLevel) })
	set("log-format", func() { cfg.Logging.LogFormat = strings.ToLower(o.logFormat) })
	set("metrics-addr", func() { cfg.Metrics.MetricsAddr = strings.TrimSpace(o.metricsAddr) })
}

// loadConfig reads the configuration file, applies flag overrides and
// validates the result
func (c *commandContext) loadConfig(cmd *cobra.Command, o *overrides) (*config.Config, error) {
	var path string
	if c.configFlag != nil {
		path = strings.TrimSpace(*c.configFlag)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	o.apply(cmd.Flags(), cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w (config file: %q)", err, path)
	}
	return cfg, nil
}
