package spectral

import (
	"fmt"
)

// Window interface for windowing functions
type Window interface {
	ApplyInPlace(signal []float64) error
}

// STFT computes magnitude spectrograms frame by frame. It is sequential on
// purpose: extraction already runs one STFT per worker.
type STFT struct {
	windowSize int
	hopSize    int
	window     Window
}

// NewSTFT creates a new STFT calculator
func NewSTFT(windowSize, hopSize int, window Window) (*STFT, error) {
	if windowSize <= 0 {
		return nil, fmt.Errorf("window size must be positive")
	}
	if hopSize <= 0 {
		return nil, fmt.Errorf("hop size must be positive")
	}
	return &STFT{windowSize: windowSize, hopSize: hopSize, window: window}, nil
}

// FrameCount returns the number of frames Magnitude produces for n samples.
// A signal shorter than one window still yields a single zero-padded frame.
func (s *STFT) FrameCount(n int) int {
	if n <= 0 {
		return 0
	}
	if n <= s.windowSize {
		return 1
	}
	return (n-s.windowSize)/s.hopSize + 1
}

// Magnitude returns the time x frequency magnitude matrix of signal
func (s *STFT) Magnitude(signal []float64) ([][]float64, error) {
	if len(signal) == 0 {
		return nil, fmt.Errorf("empty signal")
	}

	numFrames := s.FrameCount(len(signal))
	spectrogram := make([][]float64, numFrames)
	frame := make([]float64, s.windowSize)

	for t := 0; t < numFrames; t++ {
		start := t * s.hopSize
		end := min(start+s.windowSize, len(signal))

		clear(frame)
		copy(frame, signal[start:end])

		if s.window != nil {
			if err := s.window.ApplyInPlace(frame); err != nil {
				return nil, fmt.Errorf("window frame %d: %w", t, err)
			}
		}

		spectrogram[t] = MagnitudeSpectrum(frame)
	}

	return spectrogram, nil
}
