// Package module wires one timeslider session, its HTTP routes and the style
// watcher into the API
package module

import (
	"context"

	"timeslider/internal/core/filter"
	"timeslider/internal/modkit"
	"timeslider/internal/modkit/httpkit"
	"timeslider/internal/modkit/swaggerkit"
	perr "timeslider/internal/platform/errors"
	"timeslider/internal/platform/logger"
	"timeslider/internal/platform/sched"
	tshttp "timeslider/internal/services/timeslider/http"
	"timeslider/internal/services/timeslider/repo"
	"timeslider/internal/services/timeslider/service"
)

// Module defines the timeslider module
type Module struct {
	b     modkit.Built
	opts  Options
	sched sched.Scheduler
	log   *logger.Logger

	metrics *service.Metrics
	session *service.Session
	ports   Ports
}

// New constructs the module. Config defaults come first, then non-zero
// overrides; the scheduler in deps is required.
func New(deps modkit.Deps, overrides Options, opts ...modkit.Option) (*Module, error) {
	base, err := FromConfig(deps.Cfg)
	if err != nil {
		return nil, err
	}
	o := merge(base, overrides)
	if deps.Sched == nil {
		return nil, perr.InvalidOptionf("scheduler", "timeslider module needs a scheduler")
	}
	log := deps.Logger("timeslider")

	var style *repo.StyleMap
	switch {
	case len(o.Style) > 0:
		style, err = repo.New(o.Style, log)
	case o.StylePath != "":
		style, err = repo.Load(o.StylePath, log)
	default:
		return nil, perr.InvalidOptionf("style_path", "a style document is required")
	}
	if err != nil {
		return nil, err
	}

	metrics := service.NewMetrics(deps.Metrics)
	control, reader, writer := o.session()
	s, err := service.NewSession(service.SessionOptions{
		Control: control,
		Reader:  reader,
		Writer:  writer,
	}, style, service.NewFragment(o.Hash), deps.Sched, metrics, log)
	if err != nil {
		return nil, err
	}

	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("timeslider"),
		modkit.WithPrefix("/timeslider"),
	}, opts...)...)
	m := &Module{b: b, opts: o, sched: deps.Sched, log: log, metrics: metrics, session: s}
	m.ports = Ports{Session: s}
	return m, nil
}

// merge lays the non-zero fields of over on top of base
func merge(base, over Options) Options {
	if over.SourceName != "" {
		base.SourceName = over.SourceName
	}
	if over.Date != nil {
		base.Date = over.Date
	}
	if over.Range != nil {
		base.Range = over.Range
	}
	if over.Limit != nil {
		base.Limit = over.Limit
	}
	if over.AutoExpand != nil {
		base.AutoExpand = over.AutoExpand
	}
	if over.StylePath != "" {
		base.StylePath = over.StylePath
	}
	if len(over.Style) > 0 {
		base.Style = over.Style
	}
	if over.WatchStyle {
		base.WatchStyle = true
	}
	if over.Debounce != 0 {
		base.Debounce = over.Debounce
	}
	if over.StartDelay != 0 {
		base.StartDelay = over.StartDelay
	}
	if over.HideUntilReady {
		base.HideUntilReady = true
	}
	if over.ReadDelay != 0 {
		base.ReadDelay = over.ReadDelay
	}
	if over.WriteDelay != 0 {
		base.WriteDelay = over.WriteDelay
	}
	if over.WriteInterval != 0 {
		base.WriteInterval = over.WriteInterval
	}
	if over.LeafletZoomHack {
		base.LeafletZoomHack = true
	}
	if over.Attrs != (filter.Attrs{}) {
		base.Attrs = over.Attrs
	}
	if over.Hash != "" {
		base.Hash = over.Hash
	}
	return base
}

// Session returns the session the routes drive
func (m *Module) Session() *service.Session { return m.session }

// Start attaches the session on the scheduler
func (m *Module) Start(ctx context.Context) error {
	var err error
	if derr := m.sched.Do(ctx, func() { err = m.session.Start() }); derr != nil {
		return derr
	}
	return err
}

// Stop detaches the session on the scheduler, restoring the style
func (m *Module) Stop(ctx context.Context) error {
	return m.sched.Do(ctx, m.session.Stop)
}

// Watcher returns a style file watcher that reloads the session on change,
// or nil when watching is off or the style did not come from a file
func (m *Module) Watcher() (*repo.Watcher, error) {
	if !m.opts.WatchStyle || m.opts.StylePath == "" || len(m.opts.Style) > 0 {
		return nil, nil
	}
	return repo.NewWatcher(m.opts.StylePath, m.opts.Debounce, func(doc []byte) {
		m.sched.Post(func() {
			if err := m.session.ReloadStyle(doc); err != nil {
				m.log.Warn().Err(err).Str("file", m.opts.StylePath).Msg("style reload failed")
			}
		})
	}, m.log)
}

// OnPanic counts a panic recovered on the scheduler; it fits sched.LoopOptions
func (m *Module) OnPanic(v any) { m.metrics.Panic(v) }

// Ready is a readiness probe: the control has installed its gates
func (m *Module) Ready(ctx context.Context) error {
	var ready bool
	if err := m.sched.Do(ctx, func() { ready = m.session.Control().Ready() }); err != nil {
		return err
	}
	if !ready {
		return perr.Unavailablef("timeslider control is not ready")
	}
	return nil
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) {
		tshttp.Register(rr, m.session)
	})
	swaggerkit.Register(tshttp.Document(m.b.Prefix))
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return m.b.Name }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return m.ports }
