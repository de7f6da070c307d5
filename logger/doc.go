// Package logger provides structured logging for speechkit using zerolog.
//
// It supports JSON and console output, log level configuration, and
// component-scoped loggers with structured fields. A *Logger satisfies the
// small observer interfaces the providers accept (Warn/Error), so callers
// inject it instead of relying on process-wide logging state.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Named("transcription")
//	log.Warn("empty transcription", logger.Fields("path", path))
package logger
