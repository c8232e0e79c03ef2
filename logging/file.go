package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// RunFileName returns the name of the append-only narration file for a run
// started at t, e.g. "knn_20241019_153000.log".
func RunFileName(prefix string, t time.Time) string {
	if prefix == "" {
		prefix = "knn"
	}
	return fmt.Sprintf("%s_%s.log", prefix, t.Format("20060102_150405"))
}

// OpenRunFile creates dir if needed and opens the run file in append mode.
// The caller owns the returned file and must close it.
func OpenRunFile(dir, prefix string, t time.Time) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	path := filepath.Join(dir, RunFileName(prefix, t))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open run log %s: %w", path, err)
	}
	return f, nil
}
