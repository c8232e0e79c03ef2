package spectral

// PowerSpectrum squares every bin of a magnitude spectrum
func PowerSpectrum(magnitudeSpectrum []float64) []float64 {
	power := make([]float64, len(magnitudeSpectrum))
	for i, mag := range magnitudeSpectrum {
		power[i] = mag * mag
	}
	return power
}
