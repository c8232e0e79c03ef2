package classifier

import (
	"fmt"
	"slices"

	"github.com/RyanBlaney/sonido-age/algorithms/common"
	"github.com/RyanBlaney/sonido-age/algorithms/stats"
	"github.com/RyanBlaney/sonido-age/features"
	"github.com/RyanBlaney/sonido-age/logging"
)

const (
	// GainBins is the number of equal-width bins over [0,1]
	GainBins = 10

	// gainNoise is how far below zero a gain may fall from rounding alone
	gainNoise = -1e-12
)

// GainVector holds one information gain per feature dimension. It is frozen
// once computed; accessors never expose the backing array.
type GainVector struct {
	values []float64
}

// NewGainVector copies values into a GainVector
func NewGainVector(values []float64) GainVector {
	return GainVector{values: slices.Clone(values)}
}

// Len returns the number of dimensions
func (g GainVector) Len() int {
	return len(g.values)
}

// At returns the gain of dimension d
func (g GainVector) At(d int) float64 {
	return g.values[d]
}

// Values returns a copy of every gain, ordered by dimension
func (g GainVector) Values() []float64 {
	return slices.Clone(g.values)
}

// InformationGain scores every dimension of the normalized training vectors
// by how much binning it reduces the entropy of the labels.
func InformationGain(train *features.Store) (GainVector, error) {
	logger := logging.WithFields(logging.Fields{
		"component": "information_gain",
		"function":  "InformationGain",
		"samples":   train.Len(),
	})

	if train.Len() == 0 {
		return GainVector{}, fmt.Errorf("%w: no training samples", ErrInvalidParameter)
	}

	labels := make([]string, train.Len())
	matrix := make([][]float64, train.Len())
	for i := 0; i < train.Len(); i++ {
		sample := train.At(i)
		if sample.Normalized == nil {
			return GainVector{}, fmt.Errorf("%w: sample %s is not normalized", ErrDiscretization, sample.ID)
		}
		labels[i] = sample.Label
		matrix[i] = sample.Normalized
	}

	discretizer := stats.NewUnitDiscretizer(GainBins)
	gains := make([]float64, train.Dim())

	for d := range gains {
		gain, err := stats.InformationGain(common.Column(matrix, d), labels, discretizer)
		if err != nil {
			return GainVector{}, fmt.Errorf("dimension %d: %w", d, err)
		}
		if gain < 0 {
			if gain < gainNoise {
				return GainVector{}, fmt.Errorf("%w: dimension %d has negative gain %g", ErrDiscretization, d, gain)
			}
			gain = 0
		}
		gains[d] = gain
	}

	logger.Debug("Information gain computed", logging.Fields{
		"dimensions":    len(gains),
		"label_entropy": stats.LabelEntropy(labels),
	})

	return GainVector{values: gains}, nil
}
