package app

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// logSink owns the log destination. The terminal belongs to the viewer,
// so logs go to a file or nowhere.
type logSink struct {
	file   *os.File
	level  *slog.LevelVar
	logger *slog.Logger
}

// newLogSink opens path for appending, creating parent directories. An
// empty path discards everything.
func newLogSink(path string, level slog.Level) (*logSink, error) {
	sink := &logSink{level: &slog.LevelVar{}}
	sink.level.Set(level)

	var w io.Writer = io.Discard
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, err
		}
		sink.file = f
		w = f
	}

	sink.logger = slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: sink.level}))
	return sink, nil
}

// SetLevel changes the minimum level of every logger derived from the sink.
func (s *logSink) SetLevel(level slog.Level) {
	s.level.Set(level)
}

// Path returns the open log file name, "" when discarding.
func (s *logSink) Path() string {
	if s.file == nil {
		return ""
	}
	return s.file.Name()
}

func (s *logSink) Close() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}
