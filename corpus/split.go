package corpus

import (
	"fmt"
	"math"
	"math/rand"
	"path/filepath"

	"github.com/RyanBlaney/sonido-age/features"
	"github.com/RyanBlaney/sonido-age/logging"
)

// SplitOptions controls stratified sampling
type SplitOptions struct {
	// PerLabel caps how many clips of each label are used
	PerLabel int

	// LearnPercent of each label's clips go to Train, the rest to Eval
	LearnPercent float64
	Seed         int64
}

// Quota is how many clips of one label went to each partition
type Quota struct {
	Label string
	Train int
	Eval  int
}

// Split holds disjoint Train and Eval clip lists
type Split struct {
	Train  []Clip
	Eval   []Clip
	Quotas []Quota
}

// Stratify shuffles the clips of every label, keeps at most PerLabel of them
// and sends round(n × LearnPercent / 100) to Train. Labels are visited in
// order of first appearance.
func Stratify(clips []Clip, opts SplitOptions) (*Split, error) {
	if opts.PerLabel <= 0 {
		return nil, fmt.Errorf("per-label quota must be positive, got %d", opts.PerLabel)
	}
	if opts.LearnPercent <= 0 || opts.LearnPercent >= 100 {
		return nil, fmt.Errorf("learn percent must be in (0, 100), got %g", opts.LearnPercent)
	}

	var order []string
	byLabel := make(map[string][]Clip)
	seen := make(map[string]struct{}, len(clips))
	for _, c := range clips {
		// a clip listed twice would land in both partitions
		if _, dup := seen[c.Path]; dup {
			continue
		}
		seen[c.Path] = struct{}{}

		if _, ok := byLabel[c.Label]; !ok {
			order = append(order, c.Label)
		}
		byLabel[c.Label] = append(byLabel[c.Label], c)
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	split := &Split{}

	for _, label := range order {
		group := byLabel[label]
		rng.Shuffle(len(group), func(i, j int) {
			group[i], group[j] = group[j], group[i]
		})
		group = group[:min(len(group), opts.PerLabel)]

		learn := int(math.RoundToEven(float64(len(group)) * opts.LearnPercent / 100))
		split.Train = append(split.Train, group[:learn]...)
		split.Eval = append(split.Eval, group[learn:]...)
		split.Quotas = append(split.Quotas, Quota{Label: label, Train: learn, Eval: len(group) - learn})
	}

	logger := logging.WithFields(logging.Fields{
		"component": "corpus",
		"function":  "Stratify",
	})
	for _, q := range split.Quotas {
		logger.Info("Clips per label", logging.Fields{
			"label": q.Label,
			"train": q.Train,
			"eval":  q.Eval,
		})
	}

	if len(split.Train) == 0 {
		return nil, fmt.Errorf("no training clips selected from %d entries", len(clips))
	}
	return split, nil
}

// Jobs turns the split into extraction jobs rooted at clipsDir. The clip path
// doubles as its id.
func (s *Split) Jobs(clipsDir string) []features.Job {
	jobs := make([]features.Job, 0, len(s.Train)+len(s.Eval))
	for _, part := range []struct {
		clips     []Clip
		partition features.Partition
	}{
		{s.Train, features.Train},
		{s.Eval, features.Eval},
	} {
		for _, c := range part.clips {
			jobs = append(jobs, features.Job{
				ClipID:    c.Path,
				Path:      filepath.Join(clipsDir, c.Path),
				Label:     c.Label,
				Partition: part.partition,
			})
		}
	}
	return jobs
}
