package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]struct {
		in      string
		want    Level
		wantErr bool
	}{
		"empty-defaults-to-info": {in: "", want: InfoLevel},
		"mixed-case":             {in: "DeBuG", want: DebugLevel},
		"warning-alias":          {in: "warning", want: WarnLevel},
		"error":                  {in: "error", want: ErrorLevel},
		"unknown":                {in: "loud", want: InfoLevel, wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultLogger_RoutesByLevelAndMirrorsToFile(t *testing.T) {
	var stdout, stderr, file bytes.Buffer

	logger := NewDefaultLoggerWithWriters(&stdout, &stderr)
	logger.AttachFile(&file)
	logger.SetLevel(DebugLevel)

	child := logger.WithFields(Fields{"component": "test"})
	child.Debug("debug line")
	child.Info("info line", Fields{"count": 3})
	child.Warn("warn line")
	child.Error(errors.New("boom"), "error line")

	assert.Contains(t, stdout.String(), "[DEBUG] debug line map[component:test]")
	assert.Contains(t, stdout.String(), "[INFO] info line map[component:test count:3]")
	assert.NotContains(t, stdout.String(), "warn line")
	assert.Contains(t, stderr.String(), "[WARN] warn line")
	assert.Contains(t, stderr.String(), "[ERROR] error line: boom")

	lines := strings.Split(strings.TrimSpace(file.String()), "\n")
	assert.Len(t, lines, 4)
	assert.NotContains(t, file.String(), ColorReset)
}

func TestDisableColors(t *testing.T) {
	previous := GetGlobalLogger()
	defer SetGlobalLogger(previous)

	var stdout, stderr bytes.Buffer
	logger := NewDefaultLoggerWithWriters(&stdout, &stderr)
	logger.useColors = true
	SetGlobalLogger(logger)

	Warn("colored")
	assert.Contains(t, stderr.String(), ColorYellow)

	stderr.Reset()
	DisableColors()
	Warn("plain")
	assert.NotContains(t, stderr.String(), ColorYellow)
	assert.Contains(t, stderr.String(), "[WARN] plain")

	SetGlobalLogger(&NoOpLogger{})
	assert.NotPanics(t, DisableColors, "non-default loggers are left alone")
}

func TestDefaultLogger_LevelFilter(t *testing.T) {
	var stdout, stderr bytes.Buffer

	logger := NewDefaultLoggerWithWriters(&stdout, &stderr)
	logger.SetLevel(WarnLevel)
	logger.Info("hidden")
	logger.Warn("shown")

	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "shown")
}

func TestDefaultLogger_WithContext(t *testing.T) {
	var stdout bytes.Buffer

	logger := NewDefaultLoggerWithWriters(&stdout, &stdout)
	ctx := ContextWithFields(context.Background(), Fields{"run_id": "abc"})
	logger.WithContext(ctx).Info("hello")

	assert.Contains(t, stdout.String(), "run_id:abc")
}

func TestOpenRunFile_Appends(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	at := time.Date(2024, 10, 19, 15, 30, 0, 0, time.UTC)

	for _, line := range []string{"first\n", "second\n"} {
		f, err := OpenRunFile(dir, "knn", at)
		require.NoError(t, err)
		_, err = f.WriteString(line)
		require.NoError(t, err)
		require.NoError(t, f.Close())
	}

	data, err := os.ReadFile(filepath.Join(dir, "knn_20241019_153000.log"))
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", string(data))
}

func TestJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf)
	logger.SetLevel(InfoLevel)

	logger.Debug("hidden")
	logger.WithFields(Fields{"component": "knn"}).Error(errors.New("boom"), "Classification failed", Fields{"k": 3})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "Classification failed", entry["message"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "knn", entry["component"])
	assert.Equal(t, 3.0, entry["k"])
}
