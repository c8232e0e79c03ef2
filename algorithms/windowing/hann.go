package windowing

import (
	"fmt"
	"math"
)

// Hann is a precomputed Hann window. The periodic form (symmetric=false) is
// the one used for STFT analysis frames.
type Hann struct {
	size         int
	symmetric    bool
	coefficients []float64
}

// NewHann creates a new Hann window
func NewHann(size int, symmetric bool) *Hann {
	h := &Hann{
		size:         size,
		symmetric:    symmetric,
		coefficients: make([]float64, max(size, 0)),
	}

	denominator := float64(size)
	if symmetric {
		denominator = float64(size - 1)
	}
	if size == 1 {
		h.coefficients[0] = 1
		return h
	}

	for i := range h.coefficients {
		h.coefficients[i] = 0.5 * (1.0 - math.Cos(2*math.Pi*float64(i)/denominator))
	}
	return h
}

// ApplyInPlace multiplies frame by the window
func (h *Hann) ApplyInPlace(frame []float64) error {
	if len(frame) != h.size {
		return fmt.Errorf("signal length (%d) doesn't match window size (%d)", len(frame), h.size)
	}

	for i, c := range h.coefficients {
		frame[i] *= c
	}
	return nil
}

// Size returns the window length
func (h *Hann) Size() int {
	return h.size
}
