package classifier

import (
	"fmt"
	"strings"

	"github.com/RyanBlaney/sonido-age/algorithms/stats"
	"github.com/RyanBlaney/sonido-age/features"
)

// Options configures one classification pass
type Options struct {
	K             int     `json:"k_neighbours"`
	Normalized    bool    `json:"normalized_mfcc"`
	UseGainWeight bool    `json:"information_gain_as_weight"`
	GainThreshold float64 `json:"information_gain_threshold"`
}

// String describes the options in one line for logs and tables
func (o Options) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "k=%d", o.K)
	if o.Normalized {
		b.WriteString(" normalized")
	} else {
		b.WriteString(" raw")
	}
	if o.UseGainWeight {
		b.WriteString(" gain-weighted")
	}
	if o.GainThreshold > 0 {
		fmt.Fprintf(&b, " gain>%g", o.GainThreshold)
	}
	return b.String()
}

// KNN classifies query vectors by majority vote of their nearest training
// samples. It only reads the training store and is safe for concurrent use.
type KNN struct {
	train *features.Store
	gain  GainVector
}

// NewKNN creates a classifier over train using the frozen gain vector
func NewKNN(train *features.Store, gain GainVector) *KNN {
	return &KNN{train: train, gain: gain}
}

// selection is the set of dimensions and weights a distance is computed over
type selection struct {
	dims    []int
	weights []float64
}

// selectDimensions resolves options into the active dimensions. Dimensions
// are filtered by GainThreshold whenever it is positive; weights come from
// the gain vector only when UseGainWeight is set.
func (k *KNN) selectDimensions(opts Options) (*selection, error) {
	if opts.K < 1 {
		return nil, fmt.Errorf("%w: k must be at least 1, got %d", ErrInvalidParameter, opts.K)
	}
	if opts.K > k.train.Len() {
		return nil, fmt.Errorf("%w: k=%d exceeds %d training samples", ErrInvalidParameter, opts.K, k.train.Len())
	}
	if opts.GainThreshold < 0 {
		return nil, fmt.Errorf("%w: negative gain threshold %g", ErrInvalidParameter, opts.GainThreshold)
	}

	if opts.Normalized && !k.train.Normalized() {
		return nil, fmt.Errorf("%w: normalized distances requested but training vectors are not normalized", ErrInvalidParameter)
	}

	dim := k.train.Dim()
	needGain := opts.UseGainWeight || opts.GainThreshold > 0
	if needGain && k.gain.Len() != dim {
		return nil, fmt.Errorf("%w: gain vector has %d dimensions, training vectors %d", ErrInvalidParameter, k.gain.Len(), dim)
	}

	sel := &selection{
		dims:    make([]int, 0, dim),
		weights: make([]float64, 0, dim),
	}
	for d := 0; d < dim; d++ {
		if opts.GainThreshold > 0 && k.gain.At(d) <= opts.GainThreshold {
			continue
		}
		weight := 1.0
		if opts.UseGainWeight {
			weight = k.gain.At(d)
		}
		sel.dims = append(sel.dims, d)
		sel.weights = append(sel.weights, weight)
	}

	if len(sel.dims) == 0 {
		return nil, fmt.Errorf("%w: gain threshold %g removes every dimension", ErrInvalidParameter, opts.GainThreshold)
	}
	return sel, nil
}

// Classify returns the label predicted for query
func (k *KNN) Classify(query []float64, opts Options) (string, error) {
	sel, err := k.selectDimensions(opts)
	if err != nil {
		return "", err
	}
	return k.classify(query, opts, sel)
}

func (k *KNN) classify(query []float64, opts Options, sel *selection) (string, error) {
	if len(query) != k.train.Dim() {
		return "", fmt.Errorf("%w: query has %d features, want %d", ErrInvalidParameter, len(query), k.train.Dim())
	}

	neighbors := stats.NearestNeighbors(opts.K, k.train.Len(), func(i int) float64 {
		return stats.WeightedEuclidean(query, k.train.At(i).Vector(opts.Normalized), sel.dims, sel.weights)
	})

	return k.vote(neighbors), nil
}

// vote picks the label holding most neighbors. Equal counts go to the label
// with the smaller distance sum, and equal sums to the label that owns the
// nearest neighbor.
func (k *KNN) vote(neighbors []stats.Neighbor) string {
	counts := make(map[string]int, len(neighbors))
	sums := make(map[string]float64, len(neighbors))
	for _, n := range neighbors {
		label := k.train.At(n.Index).Label
		counts[label]++
		sums[label] += n.Distance
	}

	// neighbors are sorted, so the first label seen for a given
	// (count, sum) pair is the one owning the nearest neighbor
	best := k.train.At(neighbors[0].Index).Label
	for _, n := range neighbors[1:] {
		label := k.train.At(n.Index).Label
		switch {
		case counts[label] > counts[best]:
			best = label
		case counts[label] == counts[best] && sums[label] < sums[best]:
			best = label
		}
	}

	return best
}
