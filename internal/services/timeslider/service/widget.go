package service

import (
	"fmt"

	"timeslider/internal/services/timeslider/domain"
)

// Widget renders the control's read-model: what the slider, readout, range
// boxes and buttons would currently show
func (c *Control) Widget() domain.Widget {
	limit := c.state.Limit()
	rng := c.state.Range()

	bounds := limit
	if c.rangeShown {
		bounds = rng
	}

	readout := domain.NumberInput{Value: c.state.Date(), Title: "Manually enter a year to set the date filtering"}
	if !c.state.AutoExpand() && c.rangeShown {
		readout.Min, readout.Max = ptr(rng.Lower), ptr(rng.Upper)
	}

	return domain.Widget{
		Slider: domain.SliderView{
			Min:   bounds.Lower,
			Max:   bounds.Upper,
			Value: c.state.Date(),
			Step:  1,
			Title: "Adjust the slider to set the date filtering",
		},
		Readout: readout,
		RangeLower: domain.NumberInput{
			Value: rng.Lower,
			Min:   ptr(limit.Lower),
			Max:   ptr(limit.Upper),
			Title: fmt.Sprintf("Set the range and resolution of the slider, as far back as %d", limit.Lower),
		},
		RangeUpper: domain.NumberInput{
			Value: rng.Upper,
			Min:   ptr(limit.Lower),
			Max:   ptr(limit.Upper),
			Title: fmt.Sprintf("Set the range and resolution of the slider, as far forward as %d", limit.Upper),
		},
		Forward:     domain.Button{Class: c.opt.Icons.ClassForward, Title: "Shift time forward by one year"},
		Back:        domain.Button{Class: c.opt.Icons.ClassBack, Title: "Shift time backward by one year"},
		IconSheet:   c.opt.Icons.StyleSheet,
		ClassName:   domain.WidgetClassName,
		DefaultSlot: domain.DefaultPosition,
	}
}

func ptr(v int) *int { return &v }
