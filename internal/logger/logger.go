// Package logger provides the process-wide structured JSON logger.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/gookit/slog"
	"github.com/gookit/slog/handler"
)

// Fields are structured key/value pairs attached to a log line.
type Fields map[string]any

// Log is the global logger. It defaults to info level until Init is called.
var Log = New("info")

// Init replaces the global logger with one at the given level.
func Init(level string) {
	Log = New(level)
}

// New builds a gookit/slog logger writing JSON lines to stdout.
func New(level string) *slog.Logger {
	return NewWithWriter(os.Stdout, level)
}

// NewWithWriter builds a JSON logger writing to w. An empty level means info.
func NewWithWriter(w io.Writer, level string) *slog.Logger {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		level = "info"
	}
	logLevel := slog.LevelByName(level)

	var levels slog.Levels
	for _, lv := range slog.AllLevels {
		if lv <= logLevel {
			levels = append(levels, lv)
		}
	}

	h := handler.NewIOWriterHandler(w, levels)
	formatter := slog.NewJSONFormatter(func(f *slog.JSONFormatter) {
		f.Fields = []string{
			slog.FieldKeyDatetime,
			slog.FieldKeyLevel,
			slog.FieldKeyMessage,
		}
		f.Aliases = slog.StringMap{
			slog.FieldKeyDatetime: "datetime",
			slog.FieldKeyLevel:    "level",
			slog.FieldKeyMessage:  "message",
		}
		f.TimeFormat = "2006-01-02T15:04:05.000Z07:00"
	})
	h.SetFormatter(formatter)

	return slog.NewWithHandlers(h)
}

// InfoWithFields logs msg at info level with structured fields.
func InfoWithFields(msg string, fields Fields) {
	Log.WithFields(slog.M(fields)).Info(msg)
}

// WarnWithFields logs msg at warn level with structured fields.
func WarnWithFields(msg string, fields Fields) {
	Log.WithFields(slog.M(fields)).Warn(msg)
}

// ErrorWithFields logs msg at error level with structured fields.
func ErrorWithFields(msg string, fields Fields) {
	Log.WithFields(slog.M(fields)).Error(msg)
}

// DebugWithFields logs msg at debug level with structured fields.
func DebugWithFields(msg string, fields Fields) {
	Log.WithFields(slog.M(fields)).Debug(msg)
}
