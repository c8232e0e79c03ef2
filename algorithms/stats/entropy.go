package stats

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrDiscretization reports a value that cannot be placed in any bin.
var ErrDiscretization = errors.New("discretization failed")

// ShannonEntropy returns the entropy in bits of a distribution given as raw
// counts. Zero counts contribute nothing.
func ShannonEntropy(counts []float64) float64 {
	total := floats.Sum(counts)
	if total <= 0 {
		return 0
	}

	p := make([]float64, 0, len(counts))
	for _, c := range counts {
		if c > 0 {
			p = append(p, c/total)
		}
	}

	// stat.Entropy uses the natural log
	return stat.Entropy(p) / math.Ln2
}

// LabelEntropy returns H = -Σ p(label) log2 p(label) over labels
func LabelEntropy[T comparable](labels []T) float64 {
	counts := make(map[T]float64, 8)
	for _, l := range labels {
		counts[l]++
	}

	values := make([]float64, 0, len(counts))
	for _, c := range counts {
		values = append(values, c)
	}
	return ShannonEntropy(values)
}

// Discretizer maps a value in [Low, High] onto one of NumBins equal-width bins.
// High itself belongs to the last bin.
type Discretizer struct {
	NumBins   int
	Low       float64
	High      float64
	Tolerance float64
}

// NewUnitDiscretizer covers the normalized feature domain [0, 1]
func NewUnitDiscretizer(numBins int) Discretizer {
	return Discretizer{
		NumBins:   numBins,
		Low:       0,
		High:      1,
		Tolerance: 1e-9,
	}
}

// Bin returns the bin index of x. Values outside the range by more than the
// tolerance, and NaN, are rejected rather than left unbinned.
func (d Discretizer) Bin(x float64) (int, error) {
	if d.NumBins <= 0 || d.High <= d.Low {
		return 0, fmt.Errorf("%w: invalid bin layout (%d bins over [%g, %g])", ErrDiscretization, d.NumBins, d.Low, d.High)
	}
	if math.IsNaN(x) || x < d.Low-d.Tolerance || x > d.High+d.Tolerance {
		return 0, fmt.Errorf("%w: value %g outside [%g, %g]", ErrDiscretization, x, d.Low, d.High)
	}

	width := (d.High - d.Low) / float64(d.NumBins)
	bin := int(math.Floor((x - d.Low) / width))
	return min(max(bin, 0), d.NumBins-1), nil
}

// InformationGain returns H(labels) - Σ_b |b|/N H(labels in b) where the
// grouping b is the bin of each value.
func InformationGain[T comparable](values []float64, labels []T, d Discretizer) (float64, error) {
	if len(values) != len(labels) {
		return 0, fmt.Errorf("values and labels differ in length: %d != %d", len(values), len(labels))
	}
	if len(values) == 0 {
		return 0, nil
	}

	groups := make([][]T, d.NumBins)
	for i, v := range values {
		bin, err := d.Bin(v)
		if err != nil {
			return 0, fmt.Errorf("sample %d: %w", i, err)
		}
		groups[bin] = append(groups[bin], labels[i])
	}

	n := float64(len(values))
	conditional := 0.0
	for _, group := range groups {
		if len(group) == 0 {
			continue
		}
		conditional += float64(len(group)) / n * LabelEntropy(group)
	}

	return LabelEntropy(labels) - conditional, nil
}
