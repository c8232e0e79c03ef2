package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/RyanBlaney/sonido-age/logging"
)

// Observer is the process-wide metrics sink
var Observer = NewMetrics()

// Metrics groups the counters a run updates
type Metrics struct {
	Registry          *prometheus.Registry
	Clips             *prometheus.CounterVec
	ExtractionSeconds prometheus.Histogram
	Classifications   *prometheus.CounterVec
}

// NewMetrics creates a metrics set on its own registry
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Clips: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sonido_age",
			Name:      "clips_total",
			Help:      "Clips processed by the extraction pool.",
		}, []string{"partition", "status"}),
		ExtractionSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "sonido_age",
			Name:      "clip_extraction_seconds",
			Help:      "Time spent turning one clip into a feature vector.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		Classifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sonido_age",
			Name:      "classifications_total",
			Help:      "Queries classified, by outcome.",
		}, []string{"partition", "outcome"}),
	}
	m.Registry.MustRegister(m.Clips, m.ExtractionSeconds, m.Classifications)
	return m
}

// ClipDone counts one clip with status "ok" or "skipped"
func (m *Metrics) ClipDone(partition, status string, took time.Duration) {
	m.Clips.WithLabelValues(partition, status).Inc()
	m.ExtractionSeconds.Observe(took.Seconds())
}

// Classified counts one query with outcome "correct", "wrong" or "failed"
func (m *Metrics) Classified(partition, outcome string) {
	m.Classifications.WithLabelValues(partition, outcome).Inc()
}

// Serve exposes /metrics on addr until ctx is done
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	logger := logging.WithFields(logging.Fields{
		"component": "metrics",
		"addr":      addr,
	})

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info("Serving metrics")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
