package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics()

	m.ClipDone("train", "ok", 20*time.Millisecond)
	m.ClipDone("train", "ok", 30*time.Millisecond)
	m.ClipDone("eval", "skipped", time.Millisecond)
	m.Classified("eval", "correct")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Clips.WithLabelValues("train", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Clips.WithLabelValues("eval", "skipped")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Classifications.WithLabelValues("eval", "correct")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Classifications.WithLabelValues("eval", "failed")))
}
