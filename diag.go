package jp2meta

import (
	"fmt"
	"log/slog"
)

// DiagnosticSink receives the walker's non-fatal warnings: a boundary
// behavior was accepted rather than treated as corruption, but is worth
// surfacing (a stray "Exif\0\0" prefix, an untrimmed XMP packet, a UUID box
// this walker doesn't recognize).
type DiagnosticSink interface {
	Warnf(format string, args ...any)
}

// slogSink adapts log/slog as a DiagnosticSink, the way ZanyLeonic's Exif
// reader logs recoverable decode anomalies. It is used only when a caller
// passes NewSlogDiagnostics in Settings.Diagnostics.
type slogSink struct {
	logger *slog.Logger
}

// NewSlogDiagnostics wraps logger (or the default logger, if nil) as a
// DiagnosticSink.
func NewSlogDiagnostics(logger *slog.Logger) DiagnosticSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &slogSink{logger: logger}
}

func (s *slogSink) Warnf(format string, args ...any) {
	s.logger.Warn(fmt.Sprintf(format, args...))
}

// discardSink is used when Settings.Diagnostics is left nil.
type discardSink struct{}

func (discardSink) Warnf(string, ...any) {}
