package features

import (
	"fmt"
	"slices"
)

// Store is arena-indexed sample storage: samples live in one slice in
// insertion order and are addressed by position. The id index only serves
// lookups and duplicate detection.
type Store struct {
	samples []Sample
	index   map[string]int
	dim     int
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{index: make(map[string]int)}
}

// Add appends a sample. The first sample fixes the vector length.
func (s *Store) Add(sample Sample) error {
	if _, ok := s.index[sample.ID]; ok {
		return fmt.Errorf("duplicate clip id %q", sample.ID)
	}
	if len(sample.Raw) == 0 {
		return fmt.Errorf("clip %q has an empty feature vector", sample.ID)
	}
	if s.dim == 0 {
		s.dim = len(sample.Raw)
	} else if len(sample.Raw) != s.dim {
		return fmt.Errorf("clip %q has %d features, store holds %d", sample.ID, len(sample.Raw), s.dim)
	}

	s.index[sample.ID] = len(s.samples)
	s.samples = append(s.samples, sample)
	return nil
}

// Len returns the number of samples
func (s *Store) Len() int {
	return len(s.samples)
}

// Dim returns the feature vector length, 0 for an empty store
func (s *Store) Dim() int {
	return s.dim
}

// Normalized reports whether every sample carries a normalized vector of the
// store's length
func (s *Store) Normalized() bool {
	if len(s.samples) == 0 {
		return false
	}
	for i := range s.samples {
		if len(s.samples[i].Normalized) != s.dim {
			return false
		}
	}
	return true
}

// At returns the sample at arena position i
func (s *Store) At(i int) *Sample {
	return &s.samples[i]
}

// Get looks a sample up by clip id
func (s *Store) Get(id string) (*Sample, bool) {
	i, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return &s.samples[i], true
}

// Labels returns the distinct labels in sorted order
func (s *Store) Labels() []string {
	seen := make(map[string]struct{})
	labels := make([]string, 0, 8)
	for i := range s.samples {
		if _, ok := seen[s.samples[i].Label]; !ok {
			seen[s.samples[i].Label] = struct{}{}
			labels = append(labels, s.samples[i].Label)
		}
	}
	slices.Sort(labels)
	return labels
}

// LabelCounts returns the number of samples per label
func (s *Store) LabelCounts() map[string]int {
	counts := make(map[string]int)
	for i := range s.samples {
		counts[s.samples[i].Label]++
	}
	return counts
}
