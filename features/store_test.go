package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_AddAndLookup(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Add(Sample{ID: "b.mp3", Label: "twenties", Raw: []float64{1, 2}}))
	require.NoError(t, s.Add(Sample{ID: "a.mp3", Label: "teens", Raw: []float64{3, 4}}))
	require.NoError(t, s.Add(Sample{ID: "c.mp3", Label: "twenties", Raw: []float64{5, 6}}))

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 2, s.Dim())
	assert.Equal(t, "b.mp3", s.At(0).ID, "arena keeps insertion order")

	got, ok := s.Get("a.mp3")
	require.True(t, ok)
	assert.Equal(t, "teens", got.Label)

	_, ok = s.Get("missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"teens", "twenties"}, s.Labels())
	assert.Equal(t, map[string]int{"teens": 1, "twenties": 2}, s.LabelCounts())
}

func TestStore_Rejects(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Add(Sample{ID: "a", Raw: []float64{1, 2}}))

	assert.Error(t, s.Add(Sample{ID: "a", Raw: []float64{1, 2}}), "duplicate id")
	assert.Error(t, s.Add(Sample{ID: "b", Raw: []float64{1, 2, 3}}), "length mismatch")
	assert.Error(t, s.Add(Sample{ID: "c"}), "empty vector")
	assert.Equal(t, 1, s.Len())
}

func TestSample_Vector(t *testing.T) {
	s := Sample{Raw: []float64{10}, Normalized: []float64{0.5}}
	assert.Equal(t, []float64{10}, s.Vector(false))
	assert.Equal(t, []float64{0.5}, s.Vector(true))
}

func TestStore_Normalized(t *testing.T) {
	s := NewStore()
	assert.False(t, s.Normalized(), "empty store")

	require.NoError(t, s.Add(Sample{ID: "a", Raw: []float64{1, 2}}))
	require.NoError(t, s.Add(Sample{ID: "b", Raw: []float64{3, 4}}))
	assert.False(t, s.Normalized())

	s.At(0).Normalized = []float64{0, 0}
	assert.False(t, s.Normalized(), "one sample still raw")

	s.At(1).Normalized = []float64{1, 1}
	assert.True(t, s.Normalized())
}
