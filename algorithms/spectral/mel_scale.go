package spectral

import (
	"math"
)

// MelScale converts between Hz and mel (HTK formula) and builds triangular
// filter banks over FFT bins.
type MelScale struct{}

// NewMelScale creates a new mel scale converter
func NewMelScale() *MelScale {
	return &MelScale{}
}

// HzToMel converts frequency in Hz to mel scale
func (ms *MelScale) HzToMel(hz float64) float64 {
	return 2595.0 * math.Log10(1.0+hz/700.0)
}

// MelToHz converts mel scale to frequency in Hz
func (ms *MelScale) MelToHz(mel float64) float64 {
	return 700.0 * (math.Pow(10.0, mel/2595.0) - 1.0)
}

// CreateMelFilterBank returns numFilters triangular filters, each with
// fftSize/2+1 weights, spaced evenly on the mel axis between lowFreq and highFreq.
func (ms *MelScale) CreateMelFilterBank(numFilters int, fftSize int, sampleRate int, lowFreq, highFreq float64) [][]float64 {
	if numFilters <= 0 || fftSize <= 0 || sampleRate <= 0 {
		return nil
	}

	lowMel := ms.HzToMel(lowFreq)
	melStep := (ms.HzToMel(highFreq) - lowMel) / float64(numFilters+1)

	// numFilters+2 edges in FFT bin units
	binPoints := make([]int, numFilters+2)
	for i := range binPoints {
		hz := ms.MelToHz(lowMel + float64(i)*melStep)
		bin := int(math.Floor((float64(fftSize)+1.0)*hz/float64(sampleRate) + 0.5))
		binPoints[i] = min(bin, fftSize/2)
	}

	numBins := fftSize/2 + 1
	filterBank := make([][]float64, numFilters)

	for m := 0; m < numFilters; m++ {
		filter := make([]float64, numBins)
		left, center, right := binPoints[m], binPoints[m+1], binPoints[m+2]

		if center != left {
			for k := left; k < center; k++ {
				filter[k] = float64(k-left) / float64(center-left)
			}
		}
		if right != center {
			for k := center; k < right; k++ {
				filter[k] = float64(right-k) / float64(right-center)
			}
		}
		filterBank[m] = filter
	}

	return filterBank
}

// ApplyFilterBank applies mel filter bank to power spectrum
func (ms *MelScale) ApplyFilterBank(powerSpectrum []float64, filterBank [][]float64) []float64 {
	if len(filterBank) == 0 || len(powerSpectrum) == 0 {
		return []float64{}
	}

	melSpectrum := make([]float64, len(filterBank))
	for i, filter := range filterBank {
		sum := 0.0
		for j := 0; j < len(filter) && j < len(powerSpectrum); j++ {
			sum += powerSpectrum[j] * filter[j]
		}
		melSpectrum[i] = sum
	}

	return melSpectrum
}
