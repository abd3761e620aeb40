package log

import (
	"time"

	"go.uber.org/zap"
)

// HTTPLogEntry represents an HTTP request/response log entry
type HTTPLogEntry struct {
	RequestID  string
	Method     string
	Path       string
	Status     int
	Duration   time.Duration
	Size       int
	RemoteAddr string
	UserAgent  string
	Files      int
}

// LogHTTPRequest writes one access-log line. Server errors are logged at
// error level, client errors at warn, everything else at info.
func LogHTTPRequest(logger *zap.SugaredLogger, e HTTPLogEntry) {
	if logger == nil {
		logger = GetSugaredLogger()
	}

	fields := []interface{}{
		"request_id", e.RequestID,
		"method", e.Method,
		"path", e.Path,
		"status", e.Status,
		"duration_ms", e.Duration.Milliseconds(),
		"size", e.Size,
		"remote_addr", e.RemoteAddr,
		"user_agent", e.UserAgent,
	}
	if e.Files > 0 {
		fields = append(fields, "files", e.Files)
	}

	switch {
	case e.Status >= 500:
		logger.Errorw("http request", fields...)
	case e.Status >= 400:
		logger.Warnw("http request", fields...)
	default:
		logger.Infow("http request", fields...)
	}
}
