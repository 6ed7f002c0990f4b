// Package api provides the HTTP API for the application
package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"timeslider/internal/core/version"
	"timeslider/internal/platform/config"
	"timeslider/internal/platform/logger"
	phttp "timeslider/internal/platform/net/http"
	"timeslider/internal/platform/net/middleware"
	"timeslider/internal/platform/sched"

	"timeslider/internal/modkit"
	"timeslider/internal/modkit/httpkit"
	"timeslider/internal/modkit/module"
	"timeslider/internal/modkit/swaggerkit"

	metamod "timeslider/internal/services/api/meta/module"
	tsmod "timeslider/internal/services/timeslider/module"
)

// ServiceName names the API in logs, meta and docs
const ServiceName = "timeslider-api"

// Options are the API options
type Options struct {
	// Config is the API scope (TIMESLIDER_API_*), Root the module scope
	Config config.Conf
	Root   config.Conf
	Logger *logger.Logger
	Sched  sched.Scheduler
	// Registry backs /metrics; nil builds one with process and Go collectors
	Registry *prometheus.Registry
	// Timeslider overrides the TIMESLIDER_* config
	Timeslider tsmod.Options

	EnableSwagger  bool
	EnableProfiler bool
	EnableMetrics  bool
}

// NewRegistry returns a registry with the process and Go runtime collectors
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
	return reg
}

// Mount mounts the API service onto the given router and returns the
// timeslider module so the caller can start it and watch its style
func Mount(r phttp.Router, opt Options) (*tsmod.Module, error) {
	reg := opt.Registry
	if reg == nil {
		reg = NewRegistry()
	}

	// shared deps for modules
	deps := modkit.Deps{
		Log:     opt.Logger,
		Cfg:     opt.Root,
		Metrics: reg,
		Sched:   opt.Sched,
	}

	ts, err := tsmod.New(deps, opt.Timeslider)
	if err != nil {
		return nil, err
	}
	sessionID := ts.Session().ID()

	// domain modules first so their readiness feeds /meta/ready
	domain := []module.Module{ts}
	var checks []metamod.Check
	for _, m := range domain {
		if rd, ok := m.(module.Readiness); ok {
			checks = append(checks, metamod.Check{Name: m.Name(), Probe: rd.Ready})
		}
	}
	mods := append([]module.Module{metamod.New(deps, ServiceName, checks)}, domain...)

	stack := httpkit.CommonStack(httpkit.StackOptions{
		Origins: opt.Config.MayCSV("CORS_ORIGINS", nil),
		Slow:    opt.Config.MayDuration("SLOW_REQUEST", 0),
		Timeout: opt.Config.MayDuration("REQUEST_TIMEOUT", 0),
		Metrics: middleware.NewHTTPMetrics(reg),
		Session: func() string { return sessionID },

		MaxInFlight: opt.Config.MayInt("MAX_IN_FLIGHT", 0),
	})

	// versioned API with a common middleware stack
	var regErr error
	base := httpkit.MountAPIV1(r, stack, func(api httpkit.Router) {
		for _, m := range mods {
			// ports are looked up by module name
			if err := module.Register(m.Name(), m.Ports()); err != nil && regErr == nil {
				regErr = err
			}
			m.MountRoutes(api)
		}
	})
	if regErr != nil {
		return nil, regErr
	}
	log := opt.Logger
	if log == nil {
		log = logger.Named("api")
	}
	log.Info().Strs("modules", module.Names()).Str("session_id", sessionID).Msg("api mounted")

	// Swagger + profiler + metrics sit outside the API stack
	bi := version.Info(ServiceName)
	swaggerkit.Mount(r, opt.EnableSwagger, swaggerkit.Info{
		Title:       "Timeslider API",
		Version:     bi.Version,
		Description: "Date range control over a map style, one session per process",
		BaseURL:     base,
		DocsPath:    opt.Config.MayString("DOCS_PATH", "/api/docs"),
	})
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)
	if opt.EnableMetrics {
		r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true}))
	}
	phttp.Fallbacks(r)
	return ts, nil
}
