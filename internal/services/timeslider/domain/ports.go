// Package domain defines the ports and DTOs of the timeslider service
package domain

import (
	"github.com/paulmach/orb"

	"timeslider/internal/core/filter"
)

// Map is the rendering collaborator the control rewrites filters on.
// Only one writer may touch a controlled layer's filter while attached.
type Map interface {
	// Filter returns the layer's filter; ok is false for an unknown layer
	Filter(layerID string) (expr filter.Expr, ok bool)
	// SetFilter replaces the layer's filter; nil clears it
	SetFilter(layerID string, expr filter.Expr)
	// Style returns a snapshot of sources and the ordered layer list
	Style() Style
	// SetLayoutProperty sets one layout key on a layer; nil removes it
	SetLayoutProperty(layerID, key string, value any)

	Center() orb.Point
	Zoom() float64
	SetCenter(p orb.Point)
	SetZoom(z float64)
}

// Location is the URL fragment holder
type Location interface {
	// Hash returns the current fragment including the leading '#'
	Hash() string
	// SetHash rewrites the fragment without notifying subscribers
	SetHash(h string)
	// Navigate changes the fragment and notifies subscribers
	Navigate(h string)
	// Subscribe registers fn for change signals; cancel unregisters it
	Subscribe(fn func(hash string)) (cancel func())
}
