package domain

import (
	"github.com/paulmach/orb"

	"timeslider/internal/core/filter"
)

// Style is a read-only projection of a style document
type Style struct {
	Sources map[string]any `json:"sources"`
	Layers  []LayerInfo    `json:"layers"`
}

// HasSource reports whether the style declares name
func (s Style) HasSource(name string) bool {
	_, ok := s.Sources[name]
	return ok
}

// LayerInfo is one style layer
type LayerInfo struct {
	ID     string         `json:"id"`
	Source string         `json:"source,omitempty"`
	Filter filter.Expr    `json:"filter,omitempty"`
	Layout map[string]any `json:"layout,omitempty"`
}

// Visible reports the layer's layout visibility, defaulting to visible
func (l LayerInfo) Visible() bool {
	v, _ := l.Layout["visibility"].(string)
	return v != "none"
}

// Viewport is a map center and zoom
type Viewport struct {
	Center orb.Point `json:"center"`
	Zoom   float64   `json:"zoom"`
}
