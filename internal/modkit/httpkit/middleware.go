package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"timeslider/internal/platform/net/middleware"
)

// StackOptions tune CommonStack
type StackOptions struct {
	// CORS origins; empty allows none
	Origins []string
	// Slow marks access log lines at warn from this duration, 0 disables
	Slow time.Duration
	// Timeout cancels the request context, 0 means 30s
	Timeout time.Duration
	// Metrics records request counts and latency when set
	Metrics *middleware.HTTPMetrics
	// Session names the control session a request lands on, nil skips it
	Session func() string
	// MaxInFlight caps concurrent requests with 429 beyond it, 0 disables
	MaxInFlight int
}

// CommonStack returns the baseline API middleware slice, outermost first
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	timeout := o.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	stack := []func(http.Handler) http.Handler{
		// tracing / correlation
		middleware.RequestID(),
		middleware.RealIP(),
	}
	if o.Session != nil {
		stack = append(stack, middleware.Session(o.Session))
	}
	if o.Metrics != nil {
		stack = append(stack, middleware.Instrument(o.Metrics))
	}
	return append(stack,
		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: o.Slow}),
		middleware.RecoverJSON,
		middleware.Throttle(o.MaxInFlight),
		middleware.NoCache(),
		middleware.CORS(middleware.CORSOptions{AllowedOrigins: o.Origins}),
		middleware.Compress(flate.BestSpeed),
		middleware.StripSlashes(),
		middleware.Timeout(timeout),
	)
}
