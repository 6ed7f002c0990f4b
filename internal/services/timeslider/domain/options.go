package domain

import (
	"time"

	"timeslider/internal/core/daterange"
	"timeslider/internal/core/filter"
)

// Icons are the cosmetic widget options
type Icons struct {
	StyleSheet   string `json:"stylesheet"`
	ClassForward string `json:"class_forward"`
	ClassBack    string `json:"class_back"`
}

// DefaultIcons match the Font Awesome 5 set the widget shipped with
func DefaultIcons() Icons {
	return Icons{
		StyleSheet:   "https://use.fontawesome.com/releases/v5.8.1/css/all.css",
		ClassForward: "fa fa-plus",
		ClassBack:    "fa fa-minus",
	}
}

// ControlOptions configure the control surface
type ControlOptions struct {
	// SourceName selects the layers to control by their style source
	SourceName string `validate:"required"`

	Date       *daterange.Year
	Range      *daterange.Range
	Limit      *daterange.Range
	AutoExpand *bool

	Attrs filter.Attrs
	Icons Icons

	// StartDelay defers install and the first date/range commit
	StartDelay time.Duration `validate:"min=0"`

	// HideUntilReady hides controlled layers from attach until ready
	HideUntilReady bool

	OnDateSelect  func(daterange.Year)
	OnRangeChange func(daterange.Range)
	OnReady       func()
}

// ReaderOptions configure the fragment reader
type ReaderOptions struct {
	Delay           time.Duration `validate:"min=0"`
	WatchHashChange bool
	LeafletZoomHack bool
}

// WriterOptions configure the fragment writer
type WriterOptions struct {
	Delay           time.Duration `validate:"min=0"`
	Interval        time.Duration `validate:"gt=0"`
	LeafletZoomHack bool
}

// Default timings and widget constants
const (
	DefaultStartDelay    = 250 * time.Millisecond
	DefaultReadDelay     = time.Second
	DefaultWriteDelay    = 2 * time.Second
	DefaultWriteInterval = time.Second
	DefaultPosition      = "top-right"
	WidgetClassName      = "mapboxgl-ctrl mbgl-control-timeslider"
)
