package features

import (
	"fmt"

	"github.com/RyanBlaney/sonido-age/algorithms/common"
	"github.com/RyanBlaney/sonido-age/logging"
)

// DegeneratePolicy decides what happens to a feature whose min equals its max
type DegeneratePolicy string

const (
	// DegenerateMidpoint maps every value of a constant feature to 0.5
	DegenerateMidpoint DegeneratePolicy = "midpoint"

	// DegenerateFail aborts normalization with ErrNumericDegeneracy
	DegenerateFail DegeneratePolicy = "fail"
)

// ParseDegeneratePolicy validates a policy name; empty selects midpoint
func ParseDegeneratePolicy(s string) (DegeneratePolicy, error) {
	switch DegeneratePolicy(s) {
	case "", DegenerateMidpoint:
		return DegenerateMidpoint, nil
	case DegenerateFail:
		return DegenerateFail, nil
	default:
		return "", fmt.Errorf("unknown degenerate policy %q", s)
	}
}

// Bounds are per-dimension min/max over Train∪Eval
type Bounds struct {
	Min        []float64 `json:"min"`
	Max        []float64 `json:"max"`
	Degenerate []int     `json:"degenerate,omitempty"`
}

// Apply rescales raw into [0,1]. Degenerate dimensions map to 0.5.
func (b *Bounds) Apply(raw []float64) []float64 {
	out := make([]float64, len(raw))
	for i, v := range raw {
		span := b.Max[i] - b.Min[i]
		if span == 0 {
			out[i] = 0.5
			continue
		}
		// clamp guards against rounding just outside the unit interval
		out[i] = min(max((v-b.Min[i])/span, 0), 1)
	}
	return out
}

// Normalizer min-max scales every sample of a corpus
type Normalizer struct {
	policy DegeneratePolicy
	logger logging.Logger
}

// NewNormalizer creates a normalizer with the given degenerate policy
func NewNormalizer(policy DegeneratePolicy) *Normalizer {
	if policy == "" {
		policy = DegenerateMidpoint
	}
	return &Normalizer{
		policy: policy,
		logger: logging.WithFields(logging.Fields{
			"component": "normalizer",
		}),
	}
}

// Fit computes bounds over every sample of the given stores
func (n *Normalizer) Fit(stores ...*Store) (*Bounds, error) {
	dim := 0
	for _, s := range stores {
		if s.Len() == 0 {
			continue
		}
		if dim == 0 {
			dim = s.Dim()
		} else if s.Dim() != dim {
			return nil, fmt.Errorf("stores disagree on vector length: %d != %d", dim, s.Dim())
		}
	}
	if dim == 0 {
		return nil, fmt.Errorf("no samples to normalize")
	}

	bounds := &Bounds{Min: make([]float64, dim), Max: make([]float64, dim)}
	column := make([]float64, 0, 256)

	for d := 0; d < dim; d++ {
		column = column[:0]
		for _, s := range stores {
			for i := 0; i < s.Len(); i++ {
				column = append(column, s.At(i).Raw[d])
			}
		}
		bounds.Min[d], bounds.Max[d] = common.MinMax(column)
		if bounds.Min[d] == bounds.Max[d] {
			bounds.Degenerate = append(bounds.Degenerate, d)
		}
	}

	if len(bounds.Degenerate) > 0 {
		if n.policy == DegenerateFail {
			return nil, fmt.Errorf("%w: features %v have zero variance", ErrNumericDegeneracy, bounds.Degenerate)
		}
		n.logger.Warn("Constant features normalized to midpoint", logging.Fields{
			"dimensions": bounds.Degenerate,
		})
	}

	return bounds, nil
}

// Normalize fits bounds over Train∪Eval and sets Normalized on every sample.
// A corpus can only be normalized once.
func (n *Normalizer) Normalize(c *Corpus) (*Bounds, error) {
	for _, s := range []*Store{c.Train, c.Eval} {
		if s.Len() > 0 && s.At(0).Normalized != nil {
			return nil, fmt.Errorf("corpus is already normalized")
		}
	}

	n.logger.Info("Normalizing feature vectors", logging.Fields{
		"train": c.Train.Len(),
		"eval":  c.Eval.Len(),
	})

	bounds, err := n.Fit(c.Train, c.Eval)
	if err != nil {
		return nil, err
	}

	for _, s := range []*Store{c.Train, c.Eval} {
		for i := 0; i < s.Len(); i++ {
			sample := s.At(i)
			sample.Normalized = bounds.Apply(sample.Raw)
		}
	}

	return bounds, nil
}
