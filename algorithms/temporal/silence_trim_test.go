package temporal

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvelope_ComputeRMS(t *testing.T) {
	e := NewEnvelope()

	assert.Equal(t, []float64{1, 1, 1}, e.ComputeRMS([]float64{1, -1, 1, -1, 1, -1}, 2, 2))
	assert.InDeltaSlice(t, []float64{math.Sqrt(0.5)}, e.ComputeRMS([]float64{1, 0}, 4, 2), 1e-12)
	assert.Empty(t, e.ComputeRMS(nil, 4, 2))
	assert.Empty(t, e.ComputeRMS([]float64{1}, 0, 2))
}

func TestSilenceTrimmer_Trim(t *testing.T) {
	signal := make([]float64, 1000)
	for i := 400; i < 600; i++ {
		signal[i] = math.Sin(float64(i))
	}

	st := NewSilenceTrimmer(40)
	st.FrameSize = 100
	st.HopSize = 50

	trimmed := st.Trim(signal)
	assert.NotEmpty(t, trimmed)
	assert.Less(t, len(trimmed), len(signal))
	// leading/trailing frames are pure silence and must be gone
	assert.GreaterOrEqual(t, len(trimmed), 200)
	assert.LessOrEqual(t, len(trimmed), 300)
}

func TestSilenceTrimmer_AllSilent(t *testing.T) {
	st := NewSilenceTrimmer(40)
	assert.Empty(t, st.Trim(make([]float64, 5000)))
	assert.Empty(t, st.Trim(nil))
}

func TestSilenceTrimmer_ShortLoudClipKept(t *testing.T) {
	st := NewSilenceTrimmer(40)
	clip := []float64{0.5, -0.5, 0.5}
	assert.Equal(t, clip, st.Trim(clip))
}
