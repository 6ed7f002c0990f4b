package domain

// Widget is what the slider control would render: a slider, a date readout,
// range inputs on either side and step buttons
type Widget struct {
	Slider      SliderView  `json:"slider"`
	Readout     NumberInput `json:"readout"`
	RangeLower  NumberInput `json:"range_lower"`
	RangeUpper  NumberInput `json:"range_upper"`
	Forward     Button      `json:"forward"`
	Back        Button      `json:"back"`
	IconSheet   string      `json:"icon_stylesheet,omitempty" example:"https://use.fontawesome.com/releases/v5.8.1/css/all.css"`
	ClassName   string      `json:"class_name" example:"mapboxgl-ctrl mbgl-control-timeslider"`
	DefaultSlot string      `json:"default_position" example:"top-right"`
}

// SliderView is a range input
type SliderView struct {
	Min   int    `json:"min"`
	Max   int    `json:"max"`
	Value int    `json:"value"`
	Step  int    `json:"step"`
	Title string `json:"title"`
}

// NumberInput is a number box; Min/Max nil means unbounded
type NumberInput struct {
	Value int    `json:"value"`
	Min   *int   `json:"min,omitempty"`
	Max   *int   `json:"max,omitempty"`
	Title string `json:"title"`
}

// Button is a step button
type Button struct {
	Class string `json:"class" example:"fa fa-plus"`
	Title string `json:"title"`
}
