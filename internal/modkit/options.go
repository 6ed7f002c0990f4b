package modkit

import (
	"net/http"
	"strings"

	"timeslider/internal/modkit/httpkit"
)

// Option adjusts how Build assembles a module
type Option func(*settings)

type settings struct {
	name   string
	prefix string
	mw     []func(http.Handler) http.Handler
	ports  any
	wraps  []func(httpkit.Router) httpkit.Router
	extra  []func(httpkit.Router)
}

// WithName names the module in logs and in the ports registry
func WithName(name string) Option {
	return func(s *settings) { s.name = strings.TrimSpace(name) }
}

// WithPrefix mounts the module under prefix. Slashes are normalised and an
// empty prefix mounts on the parent router.
func WithPrefix(prefix string) Option {
	return func(s *settings) { s.prefix = httpkit.CleanPrefix(prefix) }
}

// WithMiddlewares appends per module middleware, outermost first
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(s *settings) { s.mw = append(s.mw, mw...) }
}

// WithPorts sets the port bundle the module exports
func WithPorts[T any](p T) Option {
	return func(s *settings) { s.ports = p }
}

// WithSubrouter wraps the module router before any route lands on it.
// Repeated wrappers apply in the order given.
func WithSubrouter(fn func(httpkit.Router) httpkit.Router) Option {
	return func(s *settings) {
		if fn != nil {
			s.wraps = append(s.wraps, fn)
		}
	}
}

// WithRegister adds endpoints after the module's own, in the order given
func WithRegister(fn func(httpkit.Router)) Option {
	return func(s *settings) {
		if fn != nil {
			s.extra = append(s.extra, fn)
		}
	}
}
