// Package middleware adapts chi's middleware and adds the request stamping
// the API needs, without leaking chi types to modules
package middleware

import (
	"net/http"
	"time"

	pstrings "timeslider/internal/platform/strings"

	chimw "github.com/go-chi/chi/v5/middleware"
	chicors "github.com/go-chi/cors"
)

// RequestID propagates or mints X-Request-ID onto the request context
func RequestID() func(http.Handler) http.Handler { return chimw.RequestID }

// RealIP rewrites RemoteAddr from X-Forwarded-For and X-Real-IP
func RealIP() func(http.Handler) http.Handler { return chimw.RealIP }

// Timeout cancels the request context after d
func Timeout(d time.Duration) func(http.Handler) http.Handler { return chimw.Timeout(d) }

// NoCache forbids caching; control state changes under the client
func NoCache() func(http.Handler) http.Handler { return chimw.NoCache }

// StripSlashes drops a trailing slash so /timeslider/state/ routes like /timeslider/state
func StripSlashes() func(http.Handler) http.Handler { return chimw.StripSlashes }

// Compress gzips or deflates responses at level. Style documents are large
// so the API turns this on for everything.
func Compress(level int) func(http.Handler) http.Handler {
	c := chimw.NewCompressor(level)
	return c.Handler
}

// Throttle caps in-flight requests; n <= 0 disables it
func Throttle(n int) func(http.Handler) http.Handler {
	if n <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return chimw.Throttle(n)
}

// CORSOptions is the part of go-chi/cors the API configures
type CORSOptions struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

var (
	corsMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}
	corsHeaders = []string{"Accept", "Content-Type", "X-Request-ID"}
	corsExposed = []string{SessionHeader, "X-Request-ID"}
)

// CORS lets a browser map widget drive the control from another origin and
// read the session header back
func CORS(o CORSOptions) func(http.Handler) http.Handler {
	return chicors.Handler(chicors.Options{
		AllowedOrigins:   o.AllowedOrigins,
		AllowedMethods:   pstrings.IfEmpty(o.AllowedMethods, corsMethods),
		AllowedHeaders:   pstrings.IfEmpty(o.AllowedHeaders, corsHeaders),
		ExposedHeaders:   pstrings.IfEmpty(o.ExposedHeaders, corsExposed),
		AllowCredentials: o.AllowCredentials,
		MaxAge:           o.MaxAge,
	})
}
