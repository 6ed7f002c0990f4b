package service

import (
	"github.com/paulmach/orb"

	"timeslider/internal/core/daterange"
	"timeslider/internal/core/hashfrag"
	perr "timeslider/internal/platform/errors"
	"timeslider/internal/platform/logger"
	"timeslider/internal/platform/net/http/bind"
	"timeslider/internal/platform/sched"
	"timeslider/internal/services/timeslider/domain"
)

// DefaultReaderOptions reads once after a second and then on every fragment change
func DefaultReaderOptions() domain.ReaderOptions {
	return domain.ReaderOptions{Delay: domain.DefaultReadDelay, WatchHashChange: true}
}

// HashReader applies a "#zoom/lat/lng/year,lower-upper" fragment to the map
// viewport and the control
type HashReader struct {
	opt     domain.ReaderOptions
	ctl     *Control
	sched   sched.Scheduler
	metrics *Metrics
	log     *logger.Logger

	m     domain.Map
	loc   domain.Location
	start sched.Task
	unsub func()
}

// NewHashReader builds a detached reader driving ctl; a zero Delay takes the default
func NewHashReader(opt domain.ReaderOptions, ctl *Control, s sched.Scheduler, metrics *Metrics, log *logger.Logger) (*HashReader, error) {
	if ctl == nil {
		return nil, perr.InvalidOptionf("timeslidercontrol", "a time slider control is required")
	}
	if err := bind.Get().Validator.Struct(opt); err != nil {
		_, msg := bind.ValidationFieldAndMessage(err)
		return nil, perr.InvalidOptionf("delay", "%s", msg)
	}
	if opt.Delay == 0 {
		opt.Delay = domain.DefaultReadDelay
	}
	if log == nil {
		log = logger.Named("hash_reader")
	}
	return &HashReader{opt: opt, ctl: ctl, sched: s, metrics: metrics, log: log, start: sched.Nop{}}, nil
}

// Attach schedules the first read and, when watching, subscribes to changes
func (r *HashReader) Attach(m domain.Map, loc domain.Location) error {
	if m == nil || loc == nil {
		return perr.InvalidArgf("attach: map and location are required")
	}
	if r.m != nil {
		return perr.Conflictf("hash reader is already attached")
	}
	r.m, r.loc = m, loc
	r.start = r.sched.After(r.opt.Delay, func() {
		r.Apply(r.loc.Hash())
		if r.opt.WatchHashChange {
			r.unsub = r.loc.Subscribe(r.changed)
		}
	})
	return nil
}

// changed runs on the navigating goroutine; the apply itself is queued
func (r *HashReader) changed(hash string) {
	r.sched.Post(func() {
		if r.m == nil {
			return
		}
		r.log.Debug().Str("hash", hash).Msg("fragment changed")
		r.Apply(hash)
	})
}

// Apply parses hash and, on a match, moves the viewport and sets date and
// range. It reports whether the fragment matched.
func (r *HashReader) Apply(hash string) bool {
	if r.m == nil {
		return false
	}
	st, ok := hashfrag.Parse(hash)
	if !ok {
		r.log.Debug().Str("hash", hash).Msg("no fragment params to apply")
		r.metrics.hashRead(false)
		return false
	}
	r.log.Debug().Float64("zoom", st.Zoom).Float64("lat", st.Lat).Float64("lng", st.Lng).
		Int("year", st.Year).Int("lower", st.Lower).Int("upper", st.Upper).Msg("applying fragment params")

	zoom := st.Zoom
	if r.opt.LeafletZoomHack {
		zoom--
	}
	r.m.SetCenter(orb.Point{st.Lng, st.Lat})
	r.m.SetZoom(zoom)
	r.ctl.SetDate(st.Year)
	r.ctl.SetRange(daterange.Range{Lower: st.Lower, Upper: st.Upper})
	r.metrics.hashRead(true)
	return true
}

// Detach cancels a pending first read and stops listening
func (r *HashReader) Detach() {
	r.start.Cancel()
	r.start = sched.Nop{}
	if r.unsub != nil {
		r.unsub()
		r.unsub = nil
	}
	r.m, r.loc = nil, nil
}
