package features

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/RyanBlaney/sonido-age/logging"
	"github.com/RyanBlaney/sonido-age/metrics"
)

// DefaultWorkers is the extraction pool size
const DefaultWorkers = 20

// ExtractionReport summarizes one pool run
type ExtractionReport struct {
	Submitted int           `json:"submitted"`
	Extracted int           `json:"extracted"`
	Skipped   []*ClipError  `json:"skipped,omitempty"`
	Duration  time.Duration `json:"duration"`
}

// SkippedCount returns the number of clips that produced no sample
func (r *ExtractionReport) SkippedCount() int {
	return len(r.Skipped)
}

// Pool extracts feature vectors with a fixed number of workers. Workers only
// compute; a single aggregator owns every write to the output stores.
type Pool struct {
	extractor VectorExtractor
	params    Params
	workers   int
	metrics   *metrics.Metrics
	logger    logging.Logger
}

// NewPool creates an extraction pool. workers <= 0 selects DefaultWorkers.
func NewPool(extractor VectorExtractor, params Params, workers int) *Pool {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Pool{
		extractor: extractor,
		params:    params,
		workers:   workers,
		metrics:   metrics.Observer,
		logger: logging.WithFields(logging.Fields{
			"component": "extraction_pool",
		}),
	}
}

// WithMetrics replaces the metrics sink
func (p *Pool) WithMetrics(m *metrics.Metrics) *Pool {
	p.metrics = m
	return p
}

type extractResult struct {
	job    int
	vector []float64
	took   time.Duration
	err    error
}

// Run extracts every job and returns the populated corpus. A failing clip is
// logged and reported in ExtractionReport.Skipped without stopping the others.
// Samples are stored in job order regardless of completion order.
func (p *Pool) Run(ctx context.Context, jobs []Job) (*Corpus, *ExtractionReport, error) {
	start := time.Now()
	report := &ExtractionReport{Submitted: len(jobs)}

	logger := p.logger.WithFields(logging.Fields{
		"function": "Run",
		"jobs":     len(jobs),
		"workers":  p.workers,
	})
	logger.Info("Extracting clip features")

	pending, skipped := dedupeJobs(jobs)
	for _, clipErr := range skipped {
		p.skip(logger, report, clipErr)
	}

	queue := make(chan int)
	results := make(chan extractResult, p.workers)

	var wg sync.WaitGroup
	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range queue {
				began := time.Now()
				vector, err := p.extract(ctx, jobs[idx].Path)
				results <- extractResult{job: idx, vector: vector, took: time.Since(began), err: err}
			}
		}()
	}

	go func() {
		defer close(queue)
		for _, idx := range pending {
			select {
			case queue <- idx:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	// arena of finished samples indexed by job position
	slots := make([]*Sample, len(jobs))
	expected := p.params.VectorLength()
	done := 0
	nextProgress := 1

	for res := range results {
		job := jobs[res.job]
		done++

		switch {
		case res.err != nil:
			p.skipTimed(logger, report, &ClipError{ClipID: job.ClipID, Partition: job.Partition, Err: fmt.Errorf("%w: %w", ErrExtraction, res.err)}, res.took)
		case expected > 0 && len(res.vector) != expected:
			p.skipTimed(logger, report, &ClipError{ClipID: job.ClipID, Partition: job.Partition, Err: fmt.Errorf("%w: got %d features, want %d", ErrExtraction, len(res.vector), expected)}, res.took)
		default:
			slots[res.job] = &Sample{ID: job.ClipID, Label: job.Label, Raw: res.vector}
			p.metrics.ClipDone(string(job.Partition), "ok", res.took)
		}

		if len(pending) > 0 && done*10 >= nextProgress*len(pending) {
			logger.Debug("Extraction progress", logging.Fields{
				"done":    done,
				"percent": done * 100 / len(pending),
			})
			nextProgress = done*10/len(pending) + 1
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, report, err
	}

	corpus := &Corpus{Train: NewStore(), Eval: NewStore()}
	for idx, sample := range slots {
		if sample == nil {
			continue
		}
		store := corpus.Train
		if jobs[idx].Partition == Eval {
			store = corpus.Eval
		}
		if err := store.Add(*sample); err != nil {
			p.skip(logger, report, &ClipError{ClipID: sample.ID, Partition: jobs[idx].Partition, Err: fmt.Errorf("%w: %w", ErrExtraction, err)})
			continue
		}
		report.Extracted++
	}
	report.Duration = time.Since(start)

	logger.Info("Feature extraction finished", logging.Fields{
		"train":    corpus.Train.Len(),
		"eval":     corpus.Eval.Len(),
		"skipped":  report.SkippedCount(),
		"duration": report.Duration.Round(time.Millisecond).String(),
	})

	if corpus.Train.Len() == 0 {
		return nil, report, fmt.Errorf("%w: no training samples extracted from %d jobs", ErrExtraction, len(jobs))
	}
	if corpus.Eval.Dim() != 0 && corpus.Eval.Dim() != corpus.Train.Dim() {
		return nil, report, fmt.Errorf("%w: train vectors have %d features, eval vectors %d", ErrExtraction, corpus.Train.Dim(), corpus.Eval.Dim())
	}

	return corpus, report, nil
}

// extract runs the extractor on one clip, turning a panic into an error so a
// single bad clip cannot take down the pool
func (p *Pool) extract(ctx context.Context, path string) (vector []float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			vector, err = nil, fmt.Errorf("extractor panicked: %v", r)
		}
	}()
	return p.extractor.Extract(ctx, path, p.params)
}

func (p *Pool) skip(logger logging.Logger, report *ExtractionReport, clipErr *ClipError) {
	p.skipTimed(logger, report, clipErr, 0)
}

func (p *Pool) skipTimed(logger logging.Logger, report *ExtractionReport, clipErr *ClipError, took time.Duration) {
	report.Skipped = append(report.Skipped, clipErr)
	p.metrics.ClipDone(string(clipErr.Partition), "skipped", took)
	logger.Warn("Skipping clip", logging.Fields{
		"clip_id":   clipErr.ClipID,
		"partition": clipErr.Partition,
		"error":     clipErr.Err.Error(),
	})
}

// dedupeJobs returns the indices of jobs to run; repeated clip ids are
// rejected before any work is spent on them
func dedupeJobs(jobs []Job) ([]int, []*ClipError) {
	seen := make(map[string]struct{}, len(jobs))
	pending := make([]int, 0, len(jobs))
	var skipped []*ClipError

	for i, job := range jobs {
		if _, ok := seen[job.ClipID]; ok {
			skipped = append(skipped, &ClipError{ClipID: job.ClipID, Partition: job.Partition, Err: ErrDuplicateClip})
			continue
		}
		seen[job.ClipID] = struct{}{}
		pending = append(pending, i)
	}

	return pending, skipped
}
