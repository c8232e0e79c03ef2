package logging

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// JSONLogger writes one JSON object per line through zerolog. It is selected
// with log_format = "json" for runs whose narration is consumed by tools.
type JSONLogger struct {
	logger zerolog.Logger
	level  Level
}

// NewJSONLogger creates a JSON logger writing to w
func NewJSONLogger(w io.Writer) *JSONLogger {
	return &JSONLogger{
		logger: zerolog.New(w).With().Timestamp().Logger(),
		level:  InfoLevel,
	}
}

func (j *JSONLogger) log(level Level, err error, msg string, fields ...Fields) {
	if level < j.level {
		return
	}

	var event *zerolog.Event
	switch level {
	case DebugLevel:
		event = j.logger.Debug()
	case InfoLevel:
		event = j.logger.Info()
	case WarnLevel:
		event = j.logger.Warn()
	case ErrorLevel:
		event = j.logger.Error()
	default:
		event = j.logger.WithLevel(zerolog.FatalLevel)
	}

	if err != nil {
		event = event.Err(err)
	}
	for _, f := range fields {
		event = event.Fields(map[string]interface{}(f))
	}
	event.Msg(msg)

	if level == FatalLevel {
		os.Exit(1)
	}
}

func (j *JSONLogger) Debug(msg string, fields ...Fields) {
	j.log(DebugLevel, nil, msg, fields...)
}

func (j *JSONLogger) Info(msg string, fields ...Fields) {
	j.log(InfoLevel, nil, msg, fields...)
}

func (j *JSONLogger) Warn(msg string, fields ...Fields) {
	j.log(WarnLevel, nil, msg, fields...)
}

func (j *JSONLogger) Error(err error, msg string, fields ...Fields) {
	j.log(ErrorLevel, err, msg, fields...)
}

func (j *JSONLogger) Fatal(err error, msg string, fields ...Fields) {
	j.log(FatalLevel, err, msg, fields...)
}

func (j *JSONLogger) WithFields(fields Fields) Logger {
	return &JSONLogger{
		logger: j.logger.With().Fields(map[string]interface{}(fields)).Logger(),
		level:  j.level,
	}
}

func (j *JSONLogger) WithContext(ctx context.Context) Logger {
	if fields, ok := fieldsFromContext(ctx); ok {
		return j.WithFields(fields)
	}
	return j
}

func (j *JSONLogger) SetLevel(level Level) {
	j.level = level
}
