package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/RyanBlaney/sonido-age/classifier"
	"github.com/RyanBlaney/sonido-age/corpus"
	"github.com/RyanBlaney/sonido-age/features"
	"github.com/RyanBlaney/sonido-age/transcode"
)

//go:embed sample_config.toml
var sampleConfig string

// ErrInvalidConfig marks a configuration value outside its allowed range
var ErrInvalidConfig = errors.New("invalid configuration")

// Data locates the clip corpus and controls how it is sampled.
type Data struct {
	SamplesPath    string   `toml:"samples_path"`
	MetadataFile   string   `toml:"metadata_file"`
	ClipsDir       string   `toml:"clips_dir"`
	ExcludedLabels []string `toml:"excluded_labels"`

	// NumberOfExamples is the per-label quota
	NumberOfExamples int     `toml:"number_of_examples"`
	PercentToLearn   float64 `toml:"percent_to_learn"`

	// Seed drives the stratified shuffle; 0 picks one from the clock.
	Seed int64 `toml:"seed"`
}

// Features controls MFCC extraction and normalization.
type Features struct {
	NumberOfFeatures int     `toml:"number_of_features"`
	FrameDurationMs  int     `toml:"frame_duration_ms"`
	HopDuration      int     `toml:"hop_duration"`
	TopDB            float64 `toml:"top_db"`
	Workers          int     `toml:"workers"`
	DegeneratePolicy string  `toml:"degenerate_policy"`
}

// Classifier holds the default KNN options.
type Classifier struct {
	KNeighbours              int     `toml:"k_neighbours"`
	NormalizedMFCC           bool    `toml:"normalized_mfcc"`
	InformationGainAsWeight  bool    `toml:"information_gain_as_weight"`
	InformationGainThreshold float64 `toml:"information_gain_threshold"`
}

// Decoder configures the ffmpeg front end.
type Decoder struct {
	SampleRate      int    `toml:"sample_rate"`
	ResampleQuality string `toml:"resample_quality"`
	FFmpegPath      string `toml:"ffmpeg_path"`
	FFprobePath     string `toml:"ffprobe_path"`
	TimeoutSeconds  int    `toml:"timeout_seconds"`
}

// Logging controls console and run file output.
type Logging struct {
	LogDir   string `toml:"log_dir"`
	LogLevel string `toml:"log_level"`

	// LogFormat is "text" for colored console lines or "json" for zerolog output
	LogFormat string `toml:"log_format"`
}

// Metrics configures the optional Prometheus endpoint.
type Metrics struct {
	// MetricsAddr serves /metrics while a run is active; empty disables it.
	MetricsAddr string `toml:"metrics_addr"`
}

// Config encapsulates every setting of a classification run.
type Config struct {
	Data       Data       `toml:"data"`
	Features   Features   `toml:"features"`
	Classifier Classifier `toml:"classifier"`
	Decoder    Decoder    `toml:"decoder"`
	Logging    Logging    `toml:"logging"`
	Metrics    Metrics    `toml:"metrics"`
}

// Load parses the TOML file at path over Default(). An empty path returns the
// defaults. Callers validate after applying command line overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return &cfg, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	decoder := toml.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.normalize()
	return &cfg, nil
}

func (c *Config) normalize() {
	c.Data.SamplesPath = strings.TrimSpace(c.Data.SamplesPath)
	c.Features.DegeneratePolicy = strings.ToLower(strings.TrimSpace(c.Features.DegeneratePolicy))
	c.Logging.LogLevel = strings.ToLower(strings.TrimSpace(c.Logging.LogLevel))
	c.Logging.LogFormat = strings.ToLower(strings.TrimSpace(c.Logging.LogFormat))
	c.Metrics.MetricsAddr = strings.TrimSpace(c.Metrics.MetricsAddr)
}

// CreateSample writes the commented sample configuration to path.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// MetadataPath is the metadata file inside the samples directory
func (c *Config) MetadataPath() string {
	return filepath.Join(c.Data.SamplesPath, c.Data.MetadataFile)
}

// ClipsPath is the clips directory inside the samples directory
func (c *Config) ClipsPath() string {
	return filepath.Join(c.Data.SamplesPath, c.Data.ClipsDir)
}

// SplitOptions returns the stratified sampling settings
func (c *Config) SplitOptions() corpus.SplitOptions {
	seed := c.Data.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return corpus.SplitOptions{
		PerLabel:     c.Data.NumberOfExamples,
		LearnPercent: c.Data.PercentToLearn,
		Seed:         seed,
	}
}

// FeatureParams returns the extraction parameters
func (c *Config) FeatureParams() features.Params {
	return features.Params{
		NumFeatures:     c.Features.NumberOfFeatures,
		FrameDurationMs: c.Features.FrameDurationMs,
		HopPercent:      c.Features.HopDuration,
		TopDB:           c.Features.TopDB,
	}
}

// ClassifierOptions returns the configured KNN options
func (c *Config) ClassifierOptions() classifier.Options {
	return classifier.Options{
		K:             c.Classifier.KNeighbours,
		Normalized:    c.Classifier.NormalizedMFCC,
		UseGainWeight: c.Classifier.InformationGainAsWeight,
		GainThreshold: c.Classifier.InformationGainThreshold,
	}
}

// DecoderConfig returns the ffmpeg decoder settings
func (c *Config) DecoderConfig() *transcode.DecoderConfig {
	cfg := transcode.DefaultDecoderConfig()
	cfg.TargetSampleRate = c.Decoder.SampleRate
	cfg.ResampleQuality = c.Decoder.ResampleQuality
	cfg.FFmpegPath = c.Decoder.FFmpegPath
	cfg.FFprobePath = c.Decoder.FFprobePath
	cfg.Timeout = time.Duration(c.Decoder.TimeoutSeconds) * time.Second
	return cfg
}
