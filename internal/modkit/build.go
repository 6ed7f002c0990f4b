package modkit

import (
	"net/http"

	"timeslider/internal/modkit/httpkit"
)

// Built is the resolved form of a module's options
type Built struct {
	Name   string
	Prefix string
	Mw     []func(http.Handler) http.Handler
	Ports  any

	// Subrouter applies every WithSubrouter wrapper; Register runs every WithRegister hook
	Subrouter func(httpkit.Router) httpkit.Router
	Register  func(httpkit.Router)
}

// Build resolves opts. Later options override name, prefix and ports; the
// rest accumulate.
func Build(opts ...Option) Built {
	var s settings
	for _, o := range opts {
		o(&s)
	}
	wraps := append(([]func(httpkit.Router) httpkit.Router)(nil), s.wraps...)
	extra := append(([]func(httpkit.Router))(nil), s.extra...)
	return Built{
		Name:   s.name,
		Prefix: s.prefix,
		Mw:     append(([]func(http.Handler) http.Handler)(nil), s.mw...),
		Ports:  s.ports,
		Subrouter: func(r httpkit.Router) httpkit.Router {
			for _, w := range wraps {
				r = w(r)
			}
			return r
		},
		Register: func(r httpkit.Router) {
			for _, fn := range extra {
				fn(r)
			}
		},
	}
}

// Mount places own routes and then any registered extras under Prefix,
// behind the module middleware
func (b Built) Mount(r httpkit.Router, own func(httpkit.Router)) {
	httpkit.MountUnder(r, b.Prefix, b.Mw, func(sub httpkit.Router) {
		sub = b.Subrouter(sub)
		if own != nil {
			own(sub)
		}
		b.Register(sub)
	})
}
