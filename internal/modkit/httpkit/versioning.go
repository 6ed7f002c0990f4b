package httpkit

import (
	"net/http"
	"strings"
)

// APIBase is the path a version is served from, e.g. "/api/v1"
func APIBase(version string) string {
	v := strings.Trim(strings.TrimSpace(version), "/")
	if v != "" && !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return CleanPrefix("/api/" + v)
}

// MountAPI scopes mw and mount under APIBase(version) and reports that base
//
//	base := httpkit.MountAPI(r, "v1", httpkit.CommonStack(opts), func(api httpkit.Router) {
//		ts.MountRoutes(api)
//	})
func MountAPI(r Router, version string, mw []func(http.Handler) http.Handler, mount func(Router)) string {
	base := APIBase(version)
	MountUnder(r, base, mw, mount)
	return base
}

// MountAPIV1 is MountAPI for v1
func MountAPIV1(r Router, mw []func(http.Handler) http.Handler, mount func(Router)) string {
	return MountAPI(r, "v1", mw, mount)
}
