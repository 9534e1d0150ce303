package middleware

import (
	"net/http"

	"github.com/felixge/httpsnoop"

	"shop-catalog/internal/logger"
)

type logOptions struct {
	skips map[string]struct{}
}

// Option configures LogRequests
type Option func(*logOptions)

// WithSkips suppresses access log lines for the given exact paths
func WithSkips(paths ...string) Option {
	return func(o *logOptions) {
		for _, p := range paths {
			o.skips[p] = struct{}{}
		}
	}
}

// LogRequests writes one access log line per request with status, size and latency
func LogRequests(opts ...Option) func(http.Handler) http.Handler {
	o := &logOptions{skips: map[string]struct{}{}}
	for _, opt := range opts {
		opt(o)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, skip := o.skips[r.URL.Path]; skip {
				next.ServeHTTP(w, r)
				return
			}

			m := httpsnoop.CaptureMetrics(next, w, r)
			if m.Code >= http.StatusInternalServerError {
				logger.Warnf("%s %s -> %d (%dB) in %s", r.Method, r.URL.RequestURI(), m.Code, m.Written, m.Duration)
				return
			}
			logger.Infof("%s %s -> %d (%dB) in %s", r.Method, r.URL.RequestURI(), m.Code, m.Written, m.Duration)
		})
	}
}
