package classifier

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-age/features"
)

type point struct {
	id     string
	label  string
	vector []float64
}

func newStore(t *testing.T, points ...point) *features.Store {
	t.Helper()
	s := features.NewStore()
	for _, p := range points {
		require.NoError(t, s.Add(features.Sample{ID: p.id, Label: p.label, Raw: p.vector, Normalized: p.vector}))
	}
	return s
}

func threePoints(t *testing.T) *features.Store {
	return newStore(t,
		point{"A", "x", []float64{0, 0}},
		point{"B", "x", []float64{10, 10}},
		point{"C", "y", []float64{0, 10}},
	)
}

func TestClassify_ThreePointScenario(t *testing.T) {
	knn := NewKNN(threePoints(t), GainVector{})

	label, err := knn.Classify([]float64{1, 1}, Options{K: 1})
	require.NoError(t, err)
	assert.Equal(t, "x", label)
}

func TestClassify_TieBreakByDistanceSum(t *testing.T) {
	// two "far" neighbors are closest individually but farther in total
	train := newStore(t,
		point{"n1", "far", []float64{1}},
		point{"n2", "near", []float64{2}},
		point{"n3", "near", []float64{2.5}},
		point{"n4", "far", []float64{4}},
		point{"n5", "other", []float64{100}},
	)

	label, err := NewKNN(train, GainVector{}).Classify([]float64{0}, Options{K: 4})
	require.NoError(t, err)
	// far: 1 + 4 = 5, near: 2 + 2.5 = 4.5
	assert.Equal(t, "near", label)
}

func TestClassify_EqualSumsGoToNearestNeighbor(t *testing.T) {
	train := newStore(t,
		point{"a1", "b", []float64{1}},
		point{"a2", "a", []float64{2}},
		point{"a3", "a", []float64{3}},
		point{"a4", "b", []float64{4}},
	)

	label, err := NewKNN(train, GainVector{}).Classify([]float64{0}, Options{K: 4})
	require.NoError(t, err)
	assert.Equal(t, "b", label)
}

func TestClassify_MajorityWins(t *testing.T) {
	train := newStore(t,
		point{"a", "teens", []float64{0}},
		point{"b", "twenties", []float64{1}},
		point{"c", "twenties", []float64{2}},
	)

	label, err := NewKNN(train, GainVector{}).Classify([]float64{0}, Options{K: 3})
	require.NoError(t, err)
	assert.Equal(t, "twenties", label)
}

func TestClassify_EqualDistancesKeepEncounterOrder(t *testing.T) {
	train := newStore(t,
		point{"first", "x", []float64{1}},
		point{"second", "y", []float64{-1}},
	)

	label, err := NewKNN(train, GainVector{}).Classify([]float64{0}, Options{K: 1})
	require.NoError(t, err)
	assert.Equal(t, "x", label)
}

func randomStore(t *testing.T, rng *rand.Rand, n, dim int) *features.Store {
	labels := []string{"teens", "twenties", "thirties", "fourties"}
	points := make([]point, n)
	for i := range points {
		v := make([]float64, dim)
		for d := range v {
			v[d] = rng.Float64()
		}
		points[i] = point{fmt.Sprintf("clip-%d", i), labels[rng.Intn(len(labels))], v}
	}
	return newStore(t, points...)
}

func TestClassify_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	train := randomStore(t, rng, 60, 6)
	gain, err := InformationGain(train)
	require.NoError(t, err)

	knn := NewKNN(train, gain)
	trainLabels := train.LabelCounts()

	for k := 1; k <= 5; k++ {
		for _, weighted := range []bool{false, true} {
			opts := Options{K: k, Normalized: true, UseGainWeight: weighted}
			for q := 0; q < 20; q++ {
				query := make([]float64, 6)
				for d := range query {
					query[d] = rng.Float64()
				}

				label, err := knn.Classify(query, opts)
				require.NoError(t, err, "k=%d query=%d", k, q)
				assert.Contains(t, trainLabels, label)

				again, err := knn.Classify(query, opts)
				require.NoError(t, err)
				assert.Equal(t, label, again, "classification must be deterministic")

				if k == 1 {
					assert.Equal(t, bruteForceNearest(train, query, gain, weighted), label)
				}
			}
		}
	}
}

func bruteForceNearest(train *features.Store, query []float64, gain GainVector, weighted bool) string {
	best, bestDist := "", math.Inf(1)
	for i := 0; i < train.Len(); i++ {
		s := train.At(i)
		sum := 0.0
		for d := range query {
			w := 1.0
			if weighted {
				w = gain.At(d)
			}
			diff := query[d] - s.Normalized[d]
			sum += w * diff * diff
		}
		if dist := math.Sqrt(sum); dist < bestDist {
			best, bestDist = s.Label, dist
		}
	}
	return best
}

func TestClassify_GainThreshold(t *testing.T) {
	train := threePoints(t)

	// only dimension 1 survives, where A and C differ
	knn := NewKNN(train, NewGainVector([]float64{0.01, 0.5}))
	label, err := knn.Classify([]float64{0, 9}, Options{K: 1, GainThreshold: 0.1})
	require.NoError(t, err)
	assert.Equal(t, "x", label, "B at 10 on dimension 1 comes first, ahead of C")

	_, err = knn.Classify([]float64{1, 1}, Options{K: 1, GainThreshold: 10})
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestClassify_InvalidParameters(t *testing.T) {
	knn := NewKNN(threePoints(t), NewGainVector([]float64{1, 1}))

	tests := []struct {
		name  string
		query []float64
		opts  Options
	}{
		{name: "k zero", query: []float64{1, 1}, opts: Options{K: 0}},
		{name: "k above train size", query: []float64{1, 1}, opts: Options{K: 4}},
		{name: "wrong query length", query: []float64{1}, opts: Options{K: 1}},
		{name: "negative threshold", query: []float64{1, 1}, opts: Options{K: 1, GainThreshold: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := knn.Classify(tt.query, tt.opts)
			assert.ErrorIs(t, err, ErrInvalidParameter)
		})
	}

	_, err := NewKNN(threePoints(t), GainVector{}).Classify([]float64{1, 1}, Options{K: 1, UseGainWeight: true})
	assert.ErrorIs(t, err, ErrInvalidParameter, "weighting needs a gain per dimension")
}

func TestClassify_NormalizedBeforeNormalization(t *testing.T) {
	raw := features.NewStore()
	require.NoError(t, raw.Add(features.Sample{ID: "a", Label: "x", Raw: []float64{0.1, 0.2}}))
	require.NoError(t, raw.Add(features.Sample{ID: "b", Label: "y", Raw: []float64{0.9, 0.8}}))
	knn := NewKNN(raw, GainVector{})

	assert.NotPanics(t, func() {
		_, err := knn.Classify([]float64{0.1, 0.2}, Options{K: 1, Normalized: true})
		assert.ErrorIs(t, err, ErrInvalidParameter)
	})

	label, err := knn.Classify([]float64{0.1, 0.2}, Options{K: 1})
	require.NoError(t, err)
	assert.Equal(t, "x", label)
}

func TestOptions_String(t *testing.T) {
	assert.Equal(t, "k=3 raw", Options{K: 3}.String())
	assert.Equal(t, "k=1 normalized gain-weighted gain>0.07", Options{K: 1, Normalized: true, UseGainWeight: true, GainThreshold: 0.07}.String())
}
