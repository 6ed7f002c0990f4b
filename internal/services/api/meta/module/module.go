// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"time"

	modkit "timeslider/internal/modkit"
	"timeslider/internal/modkit/httpkit"

	metahttp "timeslider/internal/services/api/meta/http"
)

// Check re-exports the readiness probe type
type Check = metahttp.Check

// Module implements the modkit.Module interface
type Module struct {
	b         modkit.Built
	service   string
	checks    []Check
	startedAt time.Time
}

// New constructs a meta module; checks feed /meta/ready
func New(deps modkit.Deps, service string, checks []Check, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)
	return &Module{b: b, service: service, checks: checks, startedAt: time.Now()}
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) {
		metahttp.Register(rr, metahttp.Deps{
			ServiceName: m.service,
			StartedAt:   m.startedAt,
			Checks:      m.checks,
		})
	})
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return m.b.Name }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return m.b.Ports }
