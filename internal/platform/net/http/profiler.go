package http

import (
	stdhttp "net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	pstrings "timeslider/internal/platform/strings"
)

// MountProfiler serves pprof under prefix, e.g. /debug/pprof/, when enabled
func MountProfiler(r Router, prefix string, enabled bool) {
	p := pstrings.Prefix(prefix)
	if !enabled || p == "" {
		return
	}
	h := stdhttp.StripPrefix(p, chimw.Profiler())
	r.Handle(p, h)
	r.Handle(p+"/*", h)
}
