// Package service implements the time slider: the control surface that gates
// layer filters by year, the URL fragment reader and writer, and the session
// that owns them
package service

import (
	"strings"

	"timeslider/internal/core/daterange"
	"timeslider/internal/core/filter"
	perr "timeslider/internal/platform/errors"
	"timeslider/internal/platform/logger"
	"timeslider/internal/platform/net/http/bind"
	"timeslider/internal/platform/sched"
	"timeslider/internal/services/timeslider/domain"
)

// Control gates every layer of one style source by the selected year.
//
// While attached, the control is the only writer of its layers' filters.
// All methods must run on the scheduler thread.
type Control struct {
	opt   domain.ControlOptions
	attrs filter.Attrs
	state *daterange.State

	sched   sched.Scheduler
	metrics *Metrics
	log     *logger.Logger

	m       domain.Map
	start   sched.Task
	backups []backup
	hidden  []hiddenLayer
	report  domain.AttachReport
	ready   bool

	// the widget's slider follows the limit until the first range commit
	rangeShown bool
}

// backup is a controlled layer's filter from before install; nil means none
type backup struct {
	layerID string
	expr    filter.Expr
}

// hiddenLayer is a layer hidden until ready; prior is nil when the layout had no visibility
type hiddenLayer struct {
	layerID string
	prior   any
}

// NewControl validates opt and builds a detached control
func NewControl(opt domain.ControlOptions, s sched.Scheduler, metrics *Metrics, log *logger.Logger) (*Control, error) {
	if err := bind.Get().Validator.Struct(opt); err != nil {
		field, msg := bind.ValidationFieldAndMessage(err)
		return nil, perr.InvalidOptionf(strings.ToLower(field), "%s", msg)
	}
	if s == nil {
		return nil, perr.InvalidOptionf("scheduler", "a scheduler is required")
	}
	if log == nil {
		log = logger.Named("timeslider")
	}
	if opt.StartDelay == 0 {
		opt.StartDelay = domain.DefaultStartDelay
	}
	if opt.Icons == (domain.Icons{}) {
		opt.Icons = domain.DefaultIcons()
	}

	c := &Control{
		opt:     opt,
		attrs:   opt.Attrs.Or(),
		sched:   s,
		metrics: metrics,
		log:     log,
		start:   sched.Nop{},
	}

	st, err := daterange.New(daterange.Options{
		Date:       opt.Date,
		Range:      opt.Range,
		Limit:      opt.Limit,
		AutoExpand: opt.AutoExpand,
		OnDateSelect: func(y daterange.Year) {
			if c.opt.OnDateSelect != nil {
				c.opt.OnDateSelect(y)
			}
		},
		OnRangeChange: func(r daterange.Range) {
			c.rangeShown = true
			c.metrics.rangeChange(true)
			if c.opt.OnRangeChange != nil {
				c.opt.OnRangeChange(r)
			}
		},
		Logger: log,
	})
	if err != nil {
		return nil, err
	}
	st.SetCommitHook(c.refresh)
	c.state = st
	return c, nil
}

// Attach binds the control to m. Installing the gates and the first date and
// range commit run StartDelay later on the scheduler; layers are hidden right
// away when HideUntilReady is set.
func (c *Control) Attach(m domain.Map) error {
	if m == nil {
		return perr.InvalidArgf("attach: nil map")
	}
	if c.m != nil {
		return perr.Conflictf("control is already attached")
	}
	c.m = m
	c.ready = false
	c.report = domain.AttachReport{Source: c.opt.SourceName, Attached: true, Layers: []domain.LayerReport{}}

	if c.opt.HideUntilReady {
		for _, l := range c.layers() {
			if !l.Visible() {
				continue
			}
			// a layer the composer will refuse stays on screen
			if _, err := filter.Install(l.ID, l.Filter, c.attrs); err != nil {
				continue
			}
			m.SetLayoutProperty(l.ID, "visibility", "none")
			c.hidden = append(c.hidden, hiddenLayer{layerID: l.ID, prior: l.Layout["visibility"]})
		}
	}

	c.start = c.sched.After(c.opt.StartDelay, c.install)
	c.log.Debug().Str("source", c.opt.SourceName).Dur("delay", c.opt.StartDelay).Msg("control attached, install scheduled")
	return nil
}

// layers returns the style layers drawn from the controlled source
func (c *Control) layers() []domain.LayerInfo {
	st := c.m.Style()
	if !st.HasSource(c.opt.SourceName) {
		c.log.Debug().Str("source", c.opt.SourceName).Msg("style has no such source, no layers to control")
		return nil
	}
	out := make([]domain.LayerInfo, 0, len(st.Layers))
	for _, l := range st.Layers {
		if l.Source == c.opt.SourceName {
			out = append(out, l)
		}
	}
	return out
}

func (c *Control) install() {
	if c.m == nil {
		return
	}
	skipped := 0
	for _, l := range c.layers() {
		existing, _ := c.m.Filter(l.ID)
		composed, err := filter.Install(l.ID, existing, c.attrs)
		if err != nil {
			c.log.Error().Err(err).Str("layer", l.ID).Msg("unsupported filter, layer not controlled")
			c.report.Layers = append(c.report.Layers, domain.LayerReport{ID: l.ID, Status: domain.LayerSkipped, Error: err.Error()})
			skipped++
			continue
		}
		c.m.SetFilter(l.ID, composed)
		c.metrics.filterWrite("install")
		c.backups = append(c.backups, backup{layerID: l.ID, expr: existing})
		c.report.Layers = append(c.report.Layers, domain.LayerReport{ID: l.ID, Status: domain.LayerControlled})
	}
	c.metrics.layers(len(c.backups), skipped)
	c.log.Debug().Int("controlled", len(c.backups)).Int("skipped", skipped).Msg("date gates installed")

	c.state.SetDate(c.state.Date())
	c.state.SetRange(c.state.Range())

	c.unhide()

	c.ready = true
	c.report.Ready = true
	if c.opt.OnReady != nil {
		c.opt.OnReady()
	}
}

// unhide puts back each hidden layer's visibility as it was, absent included
func (c *Control) unhide() {
	for _, h := range c.hidden {
		c.m.SetLayoutProperty(h.layerID, "visibility", h.prior)
	}
	c.hidden = nil
}

// refresh rewrites every controlled layer's gate for year y
func (c *Control) refresh(y daterange.Year) {
	c.metrics.date(y)
	if c.m == nil {
		return
	}
	for _, b := range c.backups {
		cur, ok := c.m.Filter(b.layerID)
		if !ok {
			c.log.Warn().Str("layer", b.layerID).Msg("controlled layer vanished from style")
			continue
		}
		next, err := filter.Refresh(cur, y, c.attrs)
		if err != nil {
			c.log.Error().Err(err).Str("layer", b.layerID).Msg("layer filter was rewritten outside the control")
			continue
		}
		c.m.SetFilter(b.layerID, next)
		c.metrics.filterWrite("refresh")
	}
}

// Detach restores every controlled layer's original filter and visibility.
// It cancels a pending install, is safe after a partial attach and does
// nothing when already detached.
func (c *Control) Detach() {
	if c.m == nil {
		return
	}
	c.start.Cancel()
	c.start = sched.Nop{}

	for _, b := range c.backups {
		c.m.SetFilter(b.layerID, b.expr)
		c.metrics.filterWrite("restore")
	}
	c.unhide()
	c.log.Debug().Int("restored", len(c.backups)).Msg("control detached")

	c.backups = nil
	c.m = nil
	c.ready = false
	c.report.Attached = false
	c.report.Ready = false
	c.metrics.layers(0, 0)
}

// Attached reports whether the control holds a map
func (c *Control) Attached() bool { return c.m != nil }

// Ready reports whether the gates are installed
func (c *Control) Ready() bool { return c.ready }

// Report describes the last attach
func (c *Control) Report() domain.AttachReport {
	out := c.report
	out.Layers = append([]domain.LayerReport(nil), c.report.Layers...)
	return out
}

// LayerFilter returns the live filter of a layer of the attached map
func (c *Control) LayerFilter(layerID string) (domain.LayerFilter, error) {
	if c.m == nil {
		return domain.LayerFilter{}, perr.Unavailablef("control is not attached")
	}
	f, ok := c.m.Filter(layerID)
	if !ok {
		return domain.LayerFilter{}, perr.NotFoundf("layer %q not found", layerID)
	}
	return domain.LayerFilter{ID: layerID, Filter: f}, nil
}

// SetDate selects year y
func (c *Control) SetDate(y daterange.Year) { c.state.SetDate(y) }

// SetDateInput selects the year typed into the readout
func (c *Control) SetDateInput(in string) { c.state.SetDateInput(in) }

// YearForward steps the date n years later
func (c *Control) YearForward(n int) { c.state.YearForward(n) }

// YearBack steps the date n years earlier
func (c *Control) YearBack(n int) { c.state.YearBack(n) }

// SetRange sets the visible range; false when it was rejected
func (c *Control) SetRange(r daterange.Range) bool { return c.counted(c.state.SetRange(r)) }

// SetRangeLower sets the lower range bound
func (c *Control) SetRangeLower(y daterange.Year) bool { return c.counted(c.state.SetRangeLower(y)) }

// SetRangeUpper sets the upper range bound
func (c *Control) SetRangeUpper(y daterange.Year) bool { return c.counted(c.state.SetRangeUpper(y)) }

// SetRangeInput sets the range from the two range boxes' text
func (c *Control) SetRangeInput(lower, upper string) bool {
	return c.counted(c.state.SetRangeInput(lower, upper))
}

// DefaultJumpSpan is the half-width of the range JumpTo opens around a year
const DefaultJumpSpan = 10

// JumpTo selects y and narrows the range to y-span..y+span; span < 1 takes
// DefaultJumpSpan. The range moves first so a clamped date cannot drag it
// back; the second commit drops the old date from it.
func (c *Control) JumpTo(y daterange.Year, span int) bool {
	if span < 1 {
		span = DefaultJumpSpan
	}
	target := daterange.Range{Lower: y - span, Upper: y + span}
	c.state.SetRange(target)
	c.state.SetDate(y)
	return c.SetRange(target)
}

func (c *Control) counted(ok bool) bool {
	if !ok {
		c.metrics.rangeChange(false)
	}
	return ok
}

// Date returns the selected year
func (c *Control) Date() daterange.Year { return c.state.Date() }

// Range returns the visible range
func (c *Control) Range() daterange.Range { return c.state.Range() }

// Limit returns the outer limit
func (c *Control) Limit() daterange.Range { return c.state.Limit() }

// AutoExpand reports whether the range follows the date
func (c *Control) AutoExpand() bool { return c.state.AutoExpand() }

// IsDateWithinRange reports whether y is inside the range
func (c *Control) IsDateWithinRange(y daterange.Year) bool { return c.state.IsDateWithinRange(y) }

// IsDateWithinLimit reports whether y is inside the limit
func (c *Control) IsDateWithinLimit(y daterange.Year) bool { return c.state.IsDateWithinLimit(y) }
