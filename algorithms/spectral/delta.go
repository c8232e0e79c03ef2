package spectral

// Delta computes first-order regression deltas of a time x coefficient matrix
// over a window of 2*n+1 frames (n = 4 matches a width of 9). Frames past the
// edges repeat the first/last frame.
func Delta(frames [][]float64, n int) [][]float64 {
	if len(frames) == 0 {
		return [][]float64{}
	}
	if n < 1 {
		n = 1
	}

	denominator := 0.0
	for i := 1; i <= n; i++ {
		denominator += 2 * float64(i*i)
	}

	last := len(frames) - 1
	clamp := func(t int) int { return min(max(t, 0), last) }

	deltas := make([][]float64, len(frames))
	for t := range frames {
		row := make([]float64, len(frames[t]))
		for c := range row {
			sum := 0.0
			for i := 1; i <= n; i++ {
				sum += float64(i) * (frames[clamp(t+i)][c] - frames[clamp(t-i)][c])
			}
			row[c] = sum / denominator
		}
		deltas[t] = row
	}

	return deltas
}
