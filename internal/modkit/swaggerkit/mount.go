// Package swaggerkit serves Swagger UI over an OpenAPI document that modules
// assemble at runtime through Register
package swaggerkit

import (
	"net/http"

	phttp "timeslider/internal/platform/net/http"
	pstrings "timeslider/internal/platform/strings"

	httpSwagger "github.com/swaggo/http-swagger"
)

const defaultDocsPath = "/api/docs"

// Mount serves the UI under info.DocsPath and the document at doc.json
// beneath it. Nothing is mounted when disabled.
func Mount(r phttp.Router, enabled bool, info Info) {
	if !enabled {
		return
	}
	base := pstrings.Prefix(info.DocsPath)
	if base == "" {
		base = defaultDocsPath
	}
	doc := base + "/doc.json"

	r.Get(base, func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, base+"/", http.StatusPermanentRedirect)
	})
	r.Get(doc, serveDocJSON(info))
	r.Handle(base+"/*", httpSwagger.Handler(
		httpSwagger.InstanceName("timeslider"),
		httpSwagger.URL(doc),
	))
}
