package config

import (
	"slices"

	"github.com/RyanBlaney/sonido-age/corpus"
	"github.com/RyanBlaney/sonido-age/features"
)

const (
	defaultMetadataFile     = "validated.tsv"
	defaultClipsDir         = "clips"
	defaultNumberOfExamples = 200
	defaultPercentToLearn   = 80
	defaultNumberOfFeatures = 30
	defaultFrameDurationMs  = 20
	defaultHopDuration      = 50
	defaultTopDB            = 40
	defaultKNeighbours      = 3
	defaultResampleQuality  = "medium"
	defaultFFmpegPath       = "ffmpeg"
	defaultFFprobePath      = "ffprobe"
	defaultDecodeTimeout    = 30
	defaultLogDir           = "logs"
	defaultLogLevel         = "info"
	defaultLogFormat        = "text"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Data: Data{
			MetadataFile:     defaultMetadataFile,
			ClipsDir:         defaultClipsDir,
			ExcludedLabels:   slices.Clone(corpus.DefaultExcludedLabels),
			NumberOfExamples: defaultNumberOfExamples,
			PercentToLearn:   defaultPercentToLearn,
		},
		Features: Features{
			NumberOfFeatures: defaultNumberOfFeatures,
			FrameDurationMs:  defaultFrameDurationMs,
			HopDuration:      defaultHopDuration,
			TopDB:            defaultTopDB,
			Workers:          features.DefaultWorkers,
			DegeneratePolicy: string(features.DegenerateMidpoint),
		},
		Classifier: Classifier{
			KNeighbours:             defaultKNeighbours,
			NormalizedMFCC:          true,
			InformationGainAsWeight: true,
		},
		Decoder: Decoder{
			ResampleQuality: defaultResampleQuality,
			FFmpegPath:      defaultFFmpegPath,
			FFprobePath:     defaultFFprobePath,
			TimeoutSeconds:  defaultDecodeTimeout,
		},
		Logging: Logging{
			LogDir:    defaultLogDir,
			LogLevel:  defaultLogLevel,
			LogFormat: defaultLogFormat,
		},
	}
}
