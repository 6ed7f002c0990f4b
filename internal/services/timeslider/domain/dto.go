package domain

import "timeslider/internal/core/daterange"

// StateView is the control state as served to clients
type StateView struct {
	SessionID  string          `json:"session_id" example:"5b0c2c8e-5a43-4d7a-9f1e-2a4f4e7e9d10"`
	Date       int             `json:"date" example:"1850"`
	Range      daterange.Range `json:"range"`
	Limit      daterange.Range `json:"limit"`
	AutoExpand bool            `json:"auto_expand" example:"true"`
	Ready      bool            `json:"ready" example:"true"`
	Hash       string          `json:"hash,omitempty" example:"#15.600/48.57240/7.81240/1850,-4000-2019"`
}

// DateInput selects a year; Input is free text as typed into the widget
type DateInput struct {
	Year  *int   `json:"year,omitempty" validate:"required_without=Input" example:"1850"`
	Input string `json:"input,omitempty" validate:"required_without=Year,max=32" example:"1850"`
}

// StepInput moves the date; Years defaults to 1
type StepInput struct {
	Years int `json:"years,omitempty" validate:"omitempty,min=1,max=100000" example:"1"`
}

// RangeInput edits the range; a missing bound is kept
type RangeInput struct {
	Lower *int `json:"lower,omitempty" validate:"required_without=Upper" example:"1800"`
	Upper *int `json:"upper,omitempty" validate:"required_without=Lower" example:"1900"`
}

// JumpInput centers a range of Span years either side of Year and selects it
type JumpInput struct {
	Year *int `json:"year" validate:"required" example:"1850"`
	Span int  `json:"span,omitempty" validate:"omitempty,min=1,max=100000" example:"10"`
}

// HashInput navigates to a fragment
type HashInput struct {
	Hash string `json:"hash" validate:"required,fragment,max=256" example:"#15.600/48.57240/7.81240/1850,-4000-2019"`
}

// HashView reports the fragment
type HashView struct {
	Hash string `json:"hash" example:"#15.600/48.57240/7.81240/1850,-4000-2019"`
}

// LayerReport is one layer's attach outcome
type LayerReport struct {
	ID     string `json:"id" example:"roads"`
	Status string `json:"status" example:"controlled"` // controlled skipped
	Error  string `json:"error,omitempty"`
}

// AttachReport summarizes the last attach
type AttachReport struct {
	Source   string        `json:"source" example:"osm"`
	Attached bool          `json:"attached"`
	Ready    bool          `json:"ready"`
	Layers   []LayerReport `json:"layers"`
}

// Layer statuses
const (
	LayerControlled = "controlled"
	LayerSkipped    = "skipped"
)

// LayerFilter is a layer's live filter
type LayerFilter struct {
	ID     string `json:"id" example:"roads"`
	Filter any    `json:"filter"`
}
