package stats

import (
	"math"
)

// WeightedEuclidean returns sqrt(Σ weights[j] * (a[d] - b[d])²) for d = dims[j].
// Only the listed dimensions are visited, so callers select feature subsets
// without copying vectors.
func WeightedEuclidean(a, b []float64, dims []int, weights []float64) float64 {
	sum := 0.0
	for j, d := range dims {
		diff := a[d] - b[d]
		sum += weights[j] * diff * diff
	}
	return math.Sqrt(sum)
}

// Neighbor is a candidate index with its distance to the query
type Neighbor struct {
	Index    int
	Distance float64
}

// NearestNeighbors returns the k smallest distances among indices 0..n-1 in
// ascending order. Equal distances keep encounter order: an index never
// displaces an earlier one at the same distance.
func NearestNeighbors(k, n int, distance func(i int) float64) []Neighbor {
	if k <= 0 || n <= 0 {
		return []Neighbor{}
	}
	k = min(k, n)

	best := make([]Neighbor, 0, k)
	for i := 0; i < n; i++ {
		d := distance(i)
		if math.IsNaN(d) {
			d = math.Inf(1)
		}
		if len(best) == k && d >= best[k-1].Distance {
			continue
		}

		// insert after every neighbor with distance <= d
		pos := len(best)
		for pos > 0 && best[pos-1].Distance > d {
			pos--
		}

		if len(best) < k {
			best = append(best, Neighbor{})
		}
		copy(best[pos+1:], best[pos:len(best)-1])
		best[pos] = Neighbor{Index: i, Distance: d}
	}

	return best
}
