package service

import (
	"timeslider/internal/core/hashfrag"
	perr "timeslider/internal/platform/errors"
	"timeslider/internal/platform/logger"
	"timeslider/internal/platform/net/http/bind"
	"timeslider/internal/platform/sched"
	"timeslider/internal/services/timeslider/domain"
)

// DefaultWriterOptions start tracking after two seconds and write every second
func DefaultWriterOptions() domain.WriterOptions {
	return domain.WriterOptions{Delay: domain.DefaultWriteDelay, Interval: domain.DefaultWriteInterval}
}

// HashWriter keeps the fragment in step with the viewport and the control
type HashWriter struct {
	opt     domain.WriterOptions
	ctl     *Control
	sched   sched.Scheduler
	metrics *Metrics
	log     *logger.Logger

	m     domain.Map
	loc   domain.Location
	start sched.Task
	tick  sched.Task
}

// NewHashWriter builds a detached writer reading ctl; a zero Interval takes the default
func NewHashWriter(opt domain.WriterOptions, ctl *Control, s sched.Scheduler, metrics *Metrics, log *logger.Logger) (*HashWriter, error) {
	if ctl == nil {
		return nil, perr.InvalidOptionf("timeslidercontrol", "a time slider control is required")
	}
	if opt.Interval == 0 {
		opt.Interval = domain.DefaultWriteInterval
	}
	if err := bind.Get().Validator.Struct(opt); err != nil {
		field, msg := bind.ValidationFieldAndMessage(err)
		return nil, perr.InvalidOptionf(field, "%s", msg)
	}
	if log == nil {
		log = logger.Named("hash_writer")
	}
	return &HashWriter{opt: opt, ctl: ctl, sched: s, metrics: metrics, log: log, start: sched.Nop{}, tick: sched.Nop{}}, nil
}

// Attach starts tracking after Delay; the first write lands one Interval later
func (w *HashWriter) Attach(m domain.Map, loc domain.Location) error {
	if m == nil || loc == nil {
		return perr.InvalidArgf("attach: map and location are required")
	}
	if w.m != nil {
		return perr.Conflictf("hash writer is already attached")
	}
	w.m, w.loc = m, loc
	w.start = w.sched.After(w.opt.Delay, w.track)
	return nil
}

func (w *HashWriter) track() {
	if w.tick.Active() {
		return
	}
	w.tick = w.sched.Every(w.opt.Interval, w.Write)
}

// Tracking reports whether the periodic write is running
func (w *HashWriter) Tracking() bool { return w.tick.Active() }

// Write overwrites the fragment with the current viewport, date and range
func (w *HashWriter) Write() {
	if w.m == nil {
		return
	}
	zoom := w.m.Zoom()
	if w.opt.LeafletZoomHack {
		zoom++
	}
	c := w.m.Center()
	rng := w.ctl.Range()
	w.loc.SetHash(hashfrag.Format(hashfrag.State{
		View:  hashfrag.View{Zoom: zoom, Lat: c.Lat(), Lng: c.Lon()},
		Year:  w.ctl.Date(),
		Lower: rng.Lower,
		Upper: rng.Upper,
	}))
	w.metrics.hashWrite()
}

// Detach cancels the pending start and the periodic write
func (w *HashWriter) Detach() {
	w.start.Cancel()
	w.tick.Cancel()
	w.start, w.tick = sched.Nop{}, sched.Nop{}
	w.m, w.loc = nil, nil
}
