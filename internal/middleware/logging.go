// Package middleware carries HTTP middleware shared by all routes.
package middleware

import (
	"net/http"
	"time"

	"score-enricher/internal/common/logging"
)

// statusRecorder captures the status code written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestLogging logs one structured line per request with method, path,
// status and latency.
func RequestLogging(next http.Handler) http.Handler {
	logger := logging.GetGlobalLogger().WithFields(logging.String("component", "http"))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		logger.Info("Request handled",
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.Int("status", recorder.status),
			logging.Duration("latency", time.Since(start)),
			logging.String("remote_addr", r.RemoteAddr),
		)
	})
}
