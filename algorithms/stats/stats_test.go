package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShannonEntropy(t *testing.T) {
	assert.InDelta(t, 1.0, ShannonEntropy([]float64{5, 5}), 1e-12)
	assert.InDelta(t, 2.0, ShannonEntropy([]float64{1, 1, 1, 1}), 1e-12)
	assert.InDelta(t, 0.0, ShannonEntropy([]float64{7, 0}), 1e-12)
	assert.Equal(t, 0.0, ShannonEntropy(nil))
}

func TestLabelEntropy(t *testing.T) {
	assert.InDelta(t, 1.0, LabelEntropy([]string{"teens", "twenties", "teens", "twenties"}), 1e-12)
	assert.InDelta(t, 0.0, LabelEntropy([]string{"x", "x"}), 1e-12)
}

func TestDiscretizer_Bin(t *testing.T) {
	d := NewUnitDiscretizer(10)

	tests := map[string]struct {
		x       float64
		want    int
		wantErr bool
	}{
		"zero":           {x: 0, want: 0},
		"just-below-0.1": {x: 0.0999, want: 0},
		"on-edge":        {x: 0.1, want: 1},
		"middle":         {x: 0.55, want: 5},
		"one":            {x: 1, want: 9},
		"rounding-above": {x: 1 + 1e-12, want: 9},
		"rounding-below": {x: -1e-12, want: 0},
		"far-above":      {x: 1.5, wantErr: true},
		"negative":       {x: -0.2, wantErr: true},
		"nan":            {x: math.NaN(), wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := d.Bin(tt.x)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrDiscretization)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Discretizer{NumBins: 0, High: 1}.Bin(0.5)
	assert.ErrorIs(t, err, ErrDiscretization)
}

func TestInformationGain(t *testing.T) {
	d := NewUnitDiscretizer(10)
	labels := []string{"a", "a", "b", "b"}

	// perfectly separating feature recovers the full label entropy
	gain, err := InformationGain([]float64{0.05, 0.1, 0.9, 1.0}, labels, d)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, gain, 1e-12)

	// constant feature carries no information
	gain, err = InformationGain([]float64{0.5, 0.5, 0.5, 0.5}, labels, d)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, gain, 1e-12)

	// mixed bins land in between and stay non-negative
	gain, err = InformationGain([]float64{0.05, 0.95, 0.95, 0.95}, labels, d)
	require.NoError(t, err)
	assert.Greater(t, gain, 0.0)
	assert.Less(t, gain, 1.0)

	_, err = InformationGain([]float64{0.1}, labels, d)
	assert.Error(t, err)

	_, err = InformationGain([]float64{0.1, 0.2, 3, 0.4}, labels, d)
	assert.ErrorIs(t, err, ErrDiscretization)
}

func TestWeightedEuclidean(t *testing.T) {
	a := []float64{1, 1, 7}
	b := []float64{0, 10, 3}

	assert.InDelta(t, math.Sqrt(82), WeightedEuclidean(a, b, []int{0, 1}, []float64{1, 1}), 1e-12)
	assert.InDelta(t, 4.0, WeightedEuclidean(a, b, []int{2}, []float64{1}), 1e-12)
	assert.InDelta(t, math.Sqrt(0.5*1+2*16), WeightedEuclidean(a, b, []int{0, 2}, []float64{0.5, 2}), 1e-12)
	assert.Equal(t, 0.0, WeightedEuclidean(a, b, nil, nil))
}

func TestNearestNeighbors(t *testing.T) {
	distances := []float64{5, 1, 3, 1, 0.5, 3}
	dist := func(i int) float64 { return distances[i] }

	got := NearestNeighbors(3, len(distances), dist)
	assert.Equal(t, []Neighbor{{4, 0.5}, {1, 1}, {3, 1}}, got)

	// ties at the cut keep the first-seen index
	got = NearestNeighbors(4, len(distances), dist)
	assert.Equal(t, []Neighbor{{4, 0.5}, {1, 1}, {3, 1}, {2, 3}}, got)

	assert.Len(t, NearestNeighbors(10, len(distances), dist), len(distances))
	assert.Empty(t, NearestNeighbors(0, len(distances), dist))
}

func TestNearestNeighbors_NaNRankedLast(t *testing.T) {
	distances := []float64{math.NaN(), 2, 1}
	got := NearestNeighbors(2, 3, func(i int) float64 { return distances[i] })
	assert.Equal(t, []Neighbor{{2, 1}, {1, 2}}, got)
}
