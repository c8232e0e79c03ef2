package spectral

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// MagnitudeSpectrum returns |FFT(frame)| for the non-negative frequencies
// (len(frame)/2 + 1 bins). go-dsp handles non power-of-two sizes.
func MagnitudeSpectrum(frame []float64) []float64 {
	if len(frame) == 0 {
		return []float64{}
	}

	spectrum := fft.FFTReal(frame)
	bins := len(frame)/2 + 1

	magnitude := make([]float64, bins)
	for i := 0; i < bins; i++ {
		magnitude[i] = cmplx.Abs(spectrum[i])
	}
	return magnitude
}
