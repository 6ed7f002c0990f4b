// Package module defines what modkit expects from a mounted module
package module

import (
	"context"

	phttp "timeslider/internal/platform/net/http"
)

// Module is mounted once under the versioned API. It lives apart from modkit
// so a module can export its own ports type without importing its composer.
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}

// Readiness is implemented by modules that can refuse traffic until they
// finish starting. The API turns each one into a /meta/ready check.
type Readiness interface {
	Ready(ctx context.Context) error
}
