package classifier

import (
	"slices"

	"github.com/RyanBlaney/sonido-age/features"
	"github.com/RyanBlaney/sonido-age/logging"
	"github.com/RyanBlaney/sonido-age/metrics"
)

// QueryFailure records a query that could not be classified
type QueryFailure struct {
	ClipID string `json:"clip_id"`
	Label  string `json:"label"`
	Err    error  `json:"-"`
}

// Result summarizes one batch of classifications
type Result struct {
	Partition features.Partition `json:"partition"`
	Options   Options            `json:"options"`
	Total     int                `json:"total"`
	Correct   int                `json:"correct"`
	Failed    int                `json:"failed"`

	// Confusion counts predictions as Confusion[actual][guessed]
	Confusion map[string]map[string]int `json:"confusion"`
	Failures  []QueryFailure            `json:"failures,omitempty"`
}

// Accuracy is correct / total, 0 for an empty batch. Failed queries count
// against accuracy.
func (r *Result) Accuracy() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.Total)
}

// Labels returns every label appearing in the confusion matrix, sorted
func (r *Result) Labels() []string {
	seen := make(map[string]struct{})
	for actual, guesses := range r.Confusion {
		seen[actual] = struct{}{}
		for guess := range guesses {
			seen[guess] = struct{}{}
		}
	}
	labels := make([]string, 0, len(seen))
	for l := range seen {
		labels = append(labels, l)
	}
	slices.Sort(labels)
	return labels
}

// Evaluate classifies every sample of queries. A query that fails is recorded
// in Result.Failures and the batch continues.
func (k *KNN) Evaluate(queries *features.Store, partition features.Partition, opts Options) *Result {
	return k.evaluate(queries, partition, opts, metrics.Observer)
}

func (k *KNN) evaluate(queries *features.Store, partition features.Partition, opts Options, m *metrics.Metrics) *Result {
	logger := logging.WithFields(logging.Fields{
		"component": "knn",
		"function":  "Evaluate",
		"partition": partition,
		"options":   opts.String(),
	})

	result := &Result{
		Partition: partition,
		Options:   opts,
		Total:     queries.Len(),
		Confusion: make(map[string]map[string]int),
	}

	// options are fixed for the batch so the dimension selection is too
	sel, selErr := k.selectDimensions(opts)
	if selErr != nil {
		logger.Error(selErr, "Options rejected, every query fails")
	}

	nextProgress := 1
	for i := 0; i < queries.Len(); i++ {
		sample := queries.At(i)

		var guess string
		err := selErr
		if err == nil {
			guess, err = k.classify(sample.Vector(opts.Normalized), opts, sel)
		}

		switch {
		case err != nil:
			result.Failed++
			result.Failures = append(result.Failures, QueryFailure{ClipID: sample.ID, Label: sample.Label, Err: err})
			m.Classified(string(partition), "failed")
		case guess == sample.Label:
			result.Correct++
			m.Classified(string(partition), "correct")
		default:
			m.Classified(string(partition), "wrong")
		}

		if err == nil {
			if result.Confusion[sample.Label] == nil {
				result.Confusion[sample.Label] = make(map[string]int)
			}
			result.Confusion[sample.Label][guess]++
		}

		done := i + 1
		if done*10 >= nextProgress*queries.Len() {
			logger.Info("Classification progress", logging.Fields{
				"done":    done,
				"percent": done * 100 / queries.Len(),
			})
			nextProgress = done*10/queries.Len() + 1
		}
	}

	logger.Info("Classification finished", logging.Fields{
		"correct":  result.Correct,
		"total":    result.Total,
		"failed":   result.Failed,
		"accuracy": result.Accuracy(),
	})

	return result
}
