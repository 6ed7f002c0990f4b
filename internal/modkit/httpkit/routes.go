package httpkit

import (
	"net/http"

	pstrings "timeslider/internal/platform/strings"
)

// CleanPrefix returns prefix with exactly one leading slash and no trailing
// one. Blank and "/" collapse to "".
func CleanPrefix(prefix string) string { return pstrings.Prefix(prefix) }

// MountUnder hands mount a router scoped to prefix with mw applied. An empty
// prefix scopes a group on r itself.
func MountUnder(r Router, prefix string, mw []func(http.Handler) http.Handler, mount func(Router)) {
	scoped := func(sub Router) {
		if len(mw) > 0 {
			sub.Use(mw...)
		}
		mount(sub)
	}
	if p := CleanPrefix(prefix); p != "" {
		r.Route(p, scoped)
		return
	}
	r.Group(scoped)
}
