package classifier

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-age/features"
)

func TestInformationGain_SeparatingDimension(t *testing.T) {
	// dimension 0 separates the labels perfectly, dimension 1 carries nothing
	train := newStore(t,
		point{"a", "x", []float64{0.05, 0.5}},
		point{"b", "x", []float64{0.15, 0.5}},
		point{"c", "y", []float64{0.85, 0.5}},
		point{"d", "y", []float64{1.0, 0.5}},
	)

	gain, err := InformationGain(train)
	require.NoError(t, err)
	require.Equal(t, 2, gain.Len())

	assert.InDelta(t, 1.0, gain.At(0), 1e-12)
	assert.InDelta(t, 0.0, gain.At(1), 1e-12)
}

func TestInformationGain_NonNegative(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	train := randomStore(t, rng, 200, 12)

	gain, err := InformationGain(train)
	require.NoError(t, err)

	for d, g := range gain.Values() {
		assert.GreaterOrEqual(t, g, 0.0, "dimension %d", d)
		assert.False(t, math.IsNaN(g))
	}
}

func TestInformationGain_Rejects(t *testing.T) {
	outOfRange := newStore(t,
		point{"a", "x", []float64{1.5}},
		point{"b", "y", []float64{0.5}},
	)
	_, err := InformationGain(outOfRange)
	assert.ErrorIs(t, err, ErrDiscretization)

	raw := features.NewStore()
	require.NoError(t, raw.Add(features.Sample{ID: "a", Label: "x", Raw: []float64{3}}))
	_, err = InformationGain(raw)
	assert.ErrorIs(t, err, ErrDiscretization, "raw vectors cannot be binned")

	_, err = InformationGain(features.NewStore())
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestGainVector_IsFrozen(t *testing.T) {
	src := []float64{0.1, 0.2}
	gain := NewGainVector(src)
	src[0] = 9

	values := gain.Values()
	values[1] = 9

	assert.Equal(t, []float64{0.1, 0.2}, gain.Values())
}
