package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"timeslider/internal/modkit/module"
	"timeslider/internal/modkit/swaggerkit"
	"timeslider/internal/platform/config"
	perr "timeslider/internal/platform/errors"
	"timeslider/internal/platform/logger"
	phttp "timeslider/internal/platform/net/http"
	"timeslider/internal/platform/net/middleware"
	"timeslider/internal/platform/sched"
	kit "timeslider/internal/platform/testkit"
	"timeslider/internal/services/timeslider/domain"
	tsmod "timeslider/internal/services/timeslider/module"
)

const style = `{"version": 8, "sources": {"osm": {}}, "layers": [{"id": "roads", "source": "osm"}]}`

func mount(t *testing.T, opt Options) (r phttp.Router, ts *tsmod.Module, clock *sched.Manual) {
	t.Helper()
	kit.Serial(t, "registry")
	module.Reset()
	swaggerkit.Reset()
	t.Cleanup(func() {
		module.Reset()
		swaggerkit.Reset()
	})

	clock = sched.NewManual()
	r = phttp.AdaptChi(chi.NewRouter())
	opt.Sched = clock
	opt.Logger = logger.Nop()
	opt.Config = config.New().Prefix("API_TEST_")
	opt.Root = config.New().Prefix("API_TEST_")
	opt.Timeslider = tsmod.Options{SourceName: "osm", Style: []byte(style)}
	if opt.Registry == nil {
		opt.Registry = prometheus.NewRegistry()
	}
	ts, err := Mount(r, opt)
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	return r, ts, clock
}

func get(r phttp.Router, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestMount_Routes(t *testing.T) {
	r, ts, clock := mount(t, Options{EnableMetrics: true, EnableSwagger: true})

	if rec := get(r, "/api/v1/meta/ready"); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("ready before start = %d", rec.Code)
	}
	if err := ts.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	clock.Advance(domain.DefaultStartDelay)

	cases := []struct {
		path string
		code int
		body string
	}{
		{"/api/v1/meta/health", http.StatusOK, `"ok":true`},
		{"/api/v1/meta/ready", http.StatusOK, `"timeslider"`},
		{"/api/v1/timeslider/state", http.StatusOK, ts.Session().ID()},
		{"/api/v1/timeslider/layers", http.StatusOK, `"controlled"`},
		{"/api/docs/doc.json", http.StatusOK, `/timeslider/state`},
		{"/metrics", http.StatusOK, "timeslider_http_requests_total"},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			rec := get(r, tc.path)
			if rec.Code != tc.code {
				t.Fatalf("GET %s = %d %s", tc.path, rec.Code, rec.Body.String())
			}
			kit.MustContain(t, rec.Body.String(), tc.body)
		})
	}

	rec := get(r, "/api/v1/timeslider/state")
	if got := rec.Header().Get(middleware.SessionHeader); got != ts.Session().ID() {
		t.Fatalf("session header = %q", got)
	}

	ports, ok := module.PortsAs[tsmod.Ports]("timeslider")
	if !ok || ports.Session != ts.Session() {
		t.Fatalf("timeslider ports not registered")
	}
}

func TestMount_OptionalSurfaces(t *testing.T) {
	r, _, _ := mount(t, Options{})
	for _, p := range []string{"/metrics", "/api/docs/doc.json", "/debug/pprof/"} {
		rec := get(r, p)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("GET %s = %d, want 404 when disabled", p, rec.Code)
		}
		kit.MustContain(t, rec.Body.String(), `"status_code":404`)
	}
}

func TestMount_BadModule(t *testing.T) {
	kit.Serial(t, "registry")
	module.Reset()
	t.Cleanup(module.Reset)
	r := phttp.AdaptChi(chi.NewRouter())
	_, err := Mount(r, Options{
		Sched:      sched.NewManual(),
		Logger:     logger.Nop(),
		Registry:   prometheus.NewRegistry(),
		Timeslider: tsmod.Options{SourceName: "osm"},
		Root:       config.New().Prefix("API_BAD_"),
	})
	if !perr.IsCode(err, perr.ErrorCodeInvalidOption) {
		t.Fatalf("Mount err = %v", err)
	}
}

func TestNewRegistry(t *testing.T) {
	mfs, err := NewRegistry().Gather()
	if err != nil || len(mfs) == 0 {
		t.Fatalf("Gather = %d %v", len(mfs), err)
	}
}

func TestMount_NameClaimedTwice(t *testing.T) {
	_, _, clock := mount(t, Options{})
	_, err := Mount(phttp.AdaptChi(chi.NewRouter()), Options{
		Sched:      clock,
		Logger:     logger.Nop(),
		Registry:   prometheus.NewRegistry(),
		Timeslider: tsmod.Options{SourceName: "osm", Style: []byte(style)},
		Root:       config.New().Prefix("API_TEST_"),
	})
	if !perr.IsCode(err, perr.ErrorCodeConflict) {
		t.Fatalf("second Mount err = %v, want conflict", err)
	}
	if names := module.Names(); len(names) != 2 {
		t.Fatalf("Names = %v", names)
	}
}
