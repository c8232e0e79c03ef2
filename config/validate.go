package config

import (
	"fmt"
	"strings"

	"github.com/RyanBlaney/sonido-age/features"
	"github.com/RyanBlaney/sonido-age/logging"
)

// Validate ensures the configuration is usable. Every error wraps
// ErrInvalidConfig.
func (c *Config) Validate() error {
	for _, check := range []func() error{
		c.validateData,
		c.validateFeatures,
		c.validateClassifier,
		c.validateDecoder,
		c.validateLogging,
	} {
		if err := check(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	return nil
}

func (c *Config) validateData() error {
	if c.Data.SamplesPath == "" {
		return fmt.Errorf("data.samples_path must be set (or pass --samples)")
	}
	if strings.TrimSpace(c.Data.MetadataFile) == "" {
		return fmt.Errorf("data.metadata_file must be set")
	}
	if c.Data.NumberOfExamples <= 0 {
		return fmt.Errorf("data.number_of_examples must be positive, got %d", c.Data.NumberOfExamples)
	}
	if c.Data.PercentToLearn <= 0 || c.Data.PercentToLearn >= 100 {
		return fmt.Errorf("data.percent_to_learn must be in (0, 100), got %g", c.Data.PercentToLearn)
	}
	return nil
}

func (c *Config) validateFeatures() error {
	if c.Features.NumberOfFeatures < 12 || c.Features.NumberOfFeatures > 30 {
		return fmt.Errorf("features.number_of_features must be in [12, 30], got %d", c.Features.NumberOfFeatures)
	}
	if c.Features.FrameDurationMs <= 0 {
		return fmt.Errorf("features.frame_duration_ms must be positive, got %d", c.Features.FrameDurationMs)
	}
	if c.Features.HopDuration < 1 || c.Features.HopDuration > 100 {
		return fmt.Errorf("features.hop_duration must be in [1, 100], got %d", c.Features.HopDuration)
	}
	if c.Features.TopDB <= 0 {
		return fmt.Errorf("features.top_db must be positive, got %g", c.Features.TopDB)
	}
	if c.Features.Workers < 0 {
		return fmt.Errorf("features.workers must not be negative, got %d", c.Features.Workers)
	}
	if _, err := features.ParseDegeneratePolicy(c.Features.DegeneratePolicy); err != nil {
		return fmt.Errorf("features.degenerate_policy: %w", err)
	}
	return nil
}

func (c *Config) validateClassifier() error {
	if c.Classifier.KNeighbours < 1 || c.Classifier.KNeighbours > 5 {
		return fmt.Errorf("classifier.k_neighbours must be in [1, 5], got %d", c.Classifier.KNeighbours)
	}
	if c.Classifier.InformationGainThreshold < 0 {
		return fmt.Errorf("classifier.information_gain_threshold must not be negative, got %g", c.Classifier.InformationGainThreshold)
	}
	return nil
}

func (c *Config) validateDecoder() error {
	if c.Decoder.SampleRate < 0 {
		return fmt.Errorf("decoder.sample_rate must not be negative, got %d", c.Decoder.SampleRate)
	}
	switch c.Decoder.ResampleQuality {
	case "", "fast", "medium", "high":
	default:
		return fmt.Errorf("decoder.resample_quality must be fast, medium or high, got %q", c.Decoder.ResampleQuality)
	}
	if strings.TrimSpace(c.Decoder.FFmpegPath) == "" || strings.TrimSpace(c.Decoder.FFprobePath) == "" {
		return fmt.Errorf("decoder.ffmpeg_path and decoder.ffprobe_path must be set")
	}
	if c.Decoder.TimeoutSeconds < 0 {
		return fmt.Errorf("decoder.timeout_seconds must not be negative, got %d", c.Decoder.TimeoutSeconds)
	}
	return nil
}

func (c *Config) validateLogging() error {
	if _, err := logging.ParseLevel(c.Logging.LogLevel); err != nil {
		return fmt.Errorf("logging.log_level: %w", err)
	}
	switch c.Logging.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("logging.log_format must be text or json, got %q", c.Logging.LogFormat)
	}
	return nil
}
