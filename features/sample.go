package features

// Partition names the corpus half a clip belongs to
type Partition string

const (
	Train Partition = "train"
	Eval  Partition = "eval"
)

// Job is one clip to extract
type Job struct {
	ClipID    string
	Path      string
	Label     string
	Partition Partition
}

// Sample is an extracted clip. Raw is set at extraction; Normalized is set once
// by the Normalizer and both are read-only afterwards.
type Sample struct {
	ID         string
	Label      string
	Raw        []float64
	Normalized []float64
}

// Vector returns the normalized or raw feature vector
func (s *Sample) Vector(normalized bool) []float64 {
	if normalized {
		return s.Normalized
	}
	return s.Raw
}

// Corpus holds the two partitions produced by one extraction run
type Corpus struct {
	Train *Store
	Eval  *Store
}

// Dim returns the feature vector length shared by every sample
func (c *Corpus) Dim() int {
	if c.Train.Dim() > 0 {
		return c.Train.Dim()
	}
	return c.Eval.Dim()
}
