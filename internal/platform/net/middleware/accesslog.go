package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"timeslider/internal/platform/logger"
)

// AccessLogOptions configures the zerolog access log
type AccessLogOptions struct {
	// Slow lifts lines for requests at or over Slow to warn; 0 disables
	Slow time.Duration
}

// recorder remembers what the handler wrote
type recorder struct {
	http.ResponseWriter
	status  int
	written int
}

func (rw *recorder) WriteHeader(code int) {
	if rw.status == 0 {
		rw.status = code
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *recorder) Write(b []byte) (int, error) {
	if rw.status == 0 {
		rw.status = http.StatusOK
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.written += n
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer
func (rw *recorder) Unwrap() http.ResponseWriter { return rw.ResponseWriter }

func (rw *recorder) code() int {
	if rw.status == 0 {
		return http.StatusOK
	}
	return rw.status
}

// level picks error for 5xx, warn for slow requests and info otherwise
func level(status int, elapsed, slow time.Duration) zerolog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return zerolog.ErrorLevel
	case slow > 0 && elapsed >= slow:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}

// AccessLogZerolog writes one line per request on the request logger so the
// request and session ids ride along
func AccessLogZerolog(opt AccessLogOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := &recorder{ResponseWriter: w}
			start := time.Now()
			next.ServeHTTP(rw, r)
			elapsed := time.Since(start)

			status := rw.code()
			logger.C(r.Context()).WithLevel(level(status, elapsed, opt.Slow)).
				Str("method", r.Method).
				Str("route", routePattern(r)).
				Str("path", r.URL.Path).
				Int("status", status).
				Int("bytes", rw.written).
				Dur("elapsed", elapsed).
				Msg("request")
		})
	}
}
