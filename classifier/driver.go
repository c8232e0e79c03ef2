package classifier

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/RyanBlaney/sonido-age/features"
	"github.com/RyanBlaney/sonido-age/logging"
	"github.com/RyanBlaney/sonido-age/metrics"
)

// Report is the structured outcome of one evaluation run
type Report struct {
	RunID    string        `json:"run_id"`
	Options  Options       `json:"options"`
	Started  time.Time     `json:"started"`
	Duration time.Duration `json:"duration"`
	Train    *Result       `json:"train,omitempty"`
	Eval     *Result       `json:"eval"`
}

// Variant is one combination of distance options in a sweep
type Variant struct {
	Normalized    bool    `json:"normalized_mfcc"`
	UseGainWeight bool    `json:"information_gain_as_weight"`
	GainThreshold float64 `json:"information_gain_threshold"`
}

// Options combines the variant with a neighbor count
func (v Variant) Options(k int) Options {
	return Options{
		K:             k,
		Normalized:    v.Normalized,
		UseGainWeight: v.UseGainWeight,
		GainThreshold: v.GainThreshold,
	}
}

// DefaultSweepKs are the neighbor counts swept when none are given
var DefaultSweepKs = []int{1, 2, 3, 4, 5}

// DefaultVariants is the raw/normalized × unweighted/weighted ×
// no threshold/0.07 grid
func DefaultVariants() []Variant {
	var variants []Variant
	for _, threshold := range []float64{0, 0.07} {
		for _, weighted := range []bool{false, true} {
			for _, normalized := range []bool{false, true} {
				variants = append(variants, Variant{
					Normalized:    normalized,
					UseGainWeight: weighted,
					GainThreshold: threshold,
				})
			}
		}
	}
	return variants
}

// Driver evaluates a classifier against both partitions of a corpus
type Driver struct {
	corpus  *features.Corpus
	knn     *KNN
	metrics *metrics.Metrics
	logger  logging.Logger
}

// NewDriver creates a driver classifying corpus with a KNN over its Train
// partition
func NewDriver(corpus *features.Corpus, gain GainVector) *Driver {
	return &Driver{
		corpus:  corpus,
		knn:     NewKNN(corpus.Train, gain),
		metrics: metrics.Observer,
		logger: logging.WithFields(logging.Fields{
			"component": "evaluation_driver",
		}),
	}
}

// WithMetrics replaces the metrics sink
func (d *Driver) WithMetrics(m *metrics.Metrics) *Driver {
	d.metrics = m
	return d
}

// Run classifies the Train partition, then the Eval partition
func (d *Driver) Run(ctx context.Context, opts Options) (*Report, error) {
	report := &Report{
		RunID:   uuid.NewString(),
		Options: opts,
		Started: time.Now(),
	}

	logger := d.logger.WithFields(logging.Fields{
		"function": "Run",
		"run_id":   report.RunID,
		"options":  opts.String(),
	})

	logger.Info("Evaluating training samples")
	report.Train = d.knn.evaluate(d.corpus.Train, features.Train, opts, d.metrics)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger.Info("Evaluating test samples")
	report.Eval = d.knn.evaluate(d.corpus.Eval, features.Eval, opts, d.metrics)
	report.Duration = time.Since(report.Started)

	return report, nil
}

// Sweep classifies the Eval partition once per k and variant. Reports are
// ordered by k, then by variant.
func (d *Driver) Sweep(ctx context.Context, ks []int, variants []Variant) ([]*Report, error) {
	if len(ks) == 0 {
		ks = DefaultSweepKs
	}
	if len(variants) == 0 {
		variants = DefaultVariants()
	}

	logger := d.logger.WithFields(logging.Fields{
		"function": "Sweep",
		"cells":    len(ks) * len(variants),
	})
	logger.Info("Starting parameter sweep")

	reports := make([]*Report, 0, len(ks)*len(variants))
	for _, k := range ks {
		for _, v := range variants {
			if err := ctx.Err(); err != nil {
				return reports, err
			}

			opts := v.Options(k)
			report := &Report{
				RunID:   uuid.NewString(),
				Options: opts,
				Started: time.Now(),
			}
			report.Eval = d.knn.evaluate(d.corpus.Eval, features.Eval, opts, d.metrics)
			report.Duration = time.Since(report.Started)
			reports = append(reports, report)
		}
	}

	return reports, nil
}
