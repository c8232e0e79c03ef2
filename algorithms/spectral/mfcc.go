package spectral

import (
	"fmt"
	"math"
)

// MFCC computes Mel-Frequency Cepstral Coefficients from magnitude spectra.
// An MFCC value caches its filter bank for one FFT size and must not be
// shared between goroutines.
type MFCC struct {
	numCoefficients int
	numMelFilters   int
	sampleRate      int
	lowFreq         float64
	highFreq        float64
	useLiftering    bool
	lifterCoeff     float64

	melScale    *MelScale
	filterBank  [][]float64
	dctMatrix   [][]float64
	fftSize     int
	initialized bool
}

// MFCCParams contains parameters for MFCC computation
type MFCCParams struct {
	NumCoefficients int     `json:"num_coefficients"` // default: 13
	NumMelFilters   int     `json:"num_mel_filters"`  // default: 40, never below NumCoefficients
	LowFreq         float64 `json:"low_freq"`         // default: 0
	HighFreq        float64 `json:"high_freq"`        // default: sampleRate/2
	UseLiftering    bool    `json:"use_liftering"`
	LifterCoeff     float64 `json:"lifter_coeff"` // default: 22
}

// NewMFCC creates a new MFCC computer with default parameters
func NewMFCC(sampleRate, numCoefficients int) *MFCC {
	return NewMFCCWithParams(sampleRate, MFCCParams{
		NumCoefficients: numCoefficients,
		UseLiftering:    true,
	})
}

// NewMFCCWithParams creates a new MFCC computer with custom parameters
func NewMFCCWithParams(sampleRate int, params MFCCParams) *MFCC {
	if params.NumCoefficients <= 0 {
		params.NumCoefficients = 13
	}
	if params.NumMelFilters <= 0 {
		params.NumMelFilters = 40
	}
	params.NumMelFilters = max(params.NumMelFilters, params.NumCoefficients)
	if params.HighFreq <= 0 {
		params.HighFreq = float64(sampleRate) / 2.0
	}
	if params.LifterCoeff <= 0 {
		params.LifterCoeff = 22.0
	}

	return &MFCC{
		numCoefficients: params.NumCoefficients,
		numMelFilters:   params.NumMelFilters,
		sampleRate:      sampleRate,
		lowFreq:         params.LowFreq,
		highFreq:        params.HighFreq,
		useLiftering:    params.UseLiftering,
		lifterCoeff:     params.LifterCoeff,
		melScale:        NewMelScale(),
	}
}

// Initialize prepares the MFCC computer for the given FFT size
func (mfcc *MFCC) Initialize(fftSize int) error {
	if fftSize <= 0 {
		return fmt.Errorf("invalid FFT size: %d", fftSize)
	}

	mfcc.filterBank = mfcc.melScale.CreateMelFilterBank(
		mfcc.numMelFilters,
		fftSize,
		mfcc.sampleRate,
		mfcc.lowFreq,
		mfcc.highFreq,
	)
	if len(mfcc.filterBank) == 0 {
		return fmt.Errorf("failed to create mel filter bank")
	}

	mfcc.createDCTMatrix()
	mfcc.fftSize = fftSize
	mfcc.initialized = true
	return nil
}

// Compute calculates MFCC coefficients from one magnitude spectrum
func (mfcc *MFCC) Compute(magnitudeSpectrum []float64) ([]float64, error) {
	if len(magnitudeSpectrum) < 2 {
		return nil, fmt.Errorf("magnitude spectrum too short: %d bins", len(magnitudeSpectrum))
	}

	fftSize := (len(magnitudeSpectrum) - 1) * 2
	if !mfcc.initialized || mfcc.fftSize != fftSize {
		if err := mfcc.Initialize(fftSize); err != nil {
			return nil, fmt.Errorf("failed to initialize MFCC: %w", err)
		}
	}

	melSpectrum := mfcc.melScale.ApplyFilterBank(PowerSpectrum(magnitudeSpectrum), mfcc.filterBank)

	// log with a floor so silent bands stay finite
	for i, mel := range melSpectrum {
		melSpectrum[i] = math.Log(math.Max(mel, 1e-10))
	}

	coeffs := mfcc.applyDCT(melSpectrum)
	if mfcc.useLiftering {
		mfcc.applyLiftering(coeffs)
	}

	return coeffs, nil
}

// ComputeFrames processes a time x frequency spectrogram into a
// time x coefficient matrix
func (mfcc *MFCC) ComputeFrames(spectrogram [][]float64) ([][]float64, error) {
	mfccFrames := make([][]float64, len(spectrogram))

	for t, magnitudeSpectrum := range spectrogram {
		coeffs, err := mfcc.Compute(magnitudeSpectrum)
		if err != nil {
			return nil, fmt.Errorf("failed to compute MFCC for frame %d: %w", t, err)
		}
		mfccFrames[t] = coeffs
	}

	return mfccFrames, nil
}

// createDCTMatrix builds an orthonormal DCT-II matrix
func (mfcc *MFCC) createDCTMatrix() {
	mfcc.dctMatrix = make([][]float64, mfcc.numCoefficients)
	n := float64(mfcc.numMelFilters)

	for k := 0; k < mfcc.numCoefficients; k++ {
		row := make([]float64, mfcc.numMelFilters)
		scale := math.Sqrt(2.0 / n)
		if k == 0 {
			scale = math.Sqrt(1.0 / n)
		}
		for i := range row {
			row[i] = scale * math.Cos(math.Pi*float64(k)*(float64(i)+0.5)/n)
		}
		mfcc.dctMatrix[k] = row
	}
}

func (mfcc *MFCC) applyDCT(logMelSpectrum []float64) []float64 {
	coeffs := make([]float64, mfcc.numCoefficients)

	for k, row := range mfcc.dctMatrix {
		sum := 0.0
		for n := 0; n < len(logMelSpectrum) && n < len(row); n++ {
			sum += logMelSpectrum[n] * row[n]
		}
		coeffs[k] = sum
	}

	return coeffs
}

// applyLiftering applies sinusoidal liftering in place; C0 is left untouched
func (mfcc *MFCC) applyLiftering(coeffs []float64) {
	for i := 1; i < len(coeffs); i++ {
		coeffs[i] *= 1.0 + (mfcc.lifterCoeff/2.0)*math.Sin(math.Pi*float64(i)/mfcc.lifterCoeff)
	}
}

// GetParams returns the current MFCC parameters
func (mfcc *MFCC) GetParams() MFCCParams {
	return MFCCParams{
		NumCoefficients: mfcc.numCoefficients,
		NumMelFilters:   mfcc.numMelFilters,
		LowFreq:         mfcc.lowFreq,
		HighFreq:        mfcc.highFreq,
		UseLiftering:    mfcc.useLiftering,
		LifterCoeff:     mfcc.lifterCoeff,
	}
}
