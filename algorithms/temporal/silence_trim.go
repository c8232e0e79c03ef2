package temporal

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// SilenceTrimmer strips leading and trailing silence from a clip. A frame is
// silent when its RMS is more than TopDB decibels below the loudest frame.
type SilenceTrimmer struct {
	TopDB     float64
	FrameSize int
	HopSize   int

	envelope *Envelope
}

// NewSilenceTrimmer returns a trimmer using 2048-sample frames with a 512 hop
func NewSilenceTrimmer(topDB float64) *SilenceTrimmer {
	return &SilenceTrimmer{
		TopDB:     topDB,
		FrameSize: 2048,
		HopSize:   512,
		envelope:  NewEnvelope(),
	}
}

// Trim returns the sub-slice of signal between the first and last non-silent
// frames. An all-zero signal trims to an empty slice.
func (st *SilenceTrimmer) Trim(signal []float64) []float64 {
	energies := st.envelope.ComputeRMS(signal, st.FrameSize, st.HopSize)
	if len(energies) == 0 {
		return signal[:0]
	}

	peak := floats.Max(energies)
	if peak <= 0 {
		return signal[:0]
	}

	first, last := -1, -1
	for i, e := range energies {
		if e <= 0 {
			continue
		}
		if 20*math.Log10(e/peak) > -st.TopDB {
			if first < 0 {
				first = i
			}
			last = i
		}
	}

	start := first * st.HopSize
	end := min(len(signal), last*st.HopSize+st.FrameSize)
	return signal[start:end]
}
