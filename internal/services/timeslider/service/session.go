package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"timeslider/internal/core/hashfrag"
	perr "timeslider/internal/platform/errors"
	"timeslider/internal/platform/logger"
	"timeslider/internal/platform/sched"
	"timeslider/internal/services/timeslider/domain"
)

// StyleStore is a Map whose whole style document can be swapped and rendered
type StyleStore interface {
	domain.Map
	Replace(doc []byte) error
	Document() ([]byte, error)
	DocumentYAML() ([]byte, error)
}

// SessionOptions configure a session; a nil Reader or Writer leaves it out
type SessionOptions struct {
	Control domain.ControlOptions
	Reader  *domain.ReaderOptions
	Writer  *domain.WriterOptions
}

// Session owns one map, its fragment and the control, reader and writer
// bound to them. Every method except Do and ID must run on the scheduler.
type Session struct {
	id    string
	m     StyleStore
	loc   domain.Location
	sched sched.Scheduler
	log   *logger.Logger

	ctl    *Control
	reader *HashReader
	writer *HashWriter

	started bool
}

// NewSession builds the components; nothing is attached until Start
func NewSession(opt SessionOptions, m StyleStore, loc domain.Location, s sched.Scheduler, metrics *Metrics, log *logger.Logger) (*Session, error) {
	if m == nil || loc == nil || s == nil {
		return nil, perr.InvalidArgf("session: map, location and scheduler are required")
	}
	id := uuid.NewString()
	if log == nil {
		log = logger.Named("timeslider")
	}
	sl := log.With().Str("session_id", id).Logger()
	log = &sl

	ctl, err := NewControl(opt.Control, s, metrics, log)
	if err != nil {
		return nil, err
	}
	ss := &Session{id: id, m: m, loc: loc, sched: s, log: log, ctl: ctl}
	if opt.Reader != nil {
		if ss.reader, err = NewHashReader(*opt.Reader, ctl, s, metrics, log); err != nil {
			return nil, err
		}
	}
	if opt.Writer != nil {
		if ss.writer, err = NewHashWriter(*opt.Writer, ctl, s, metrics, log); err != nil {
			return nil, err
		}
	}
	return ss, nil
}

// ID is the session's uuid
func (s *Session) ID() string { return s.id }

// Control returns the control surface
func (s *Session) Control() *Control { return s.ctl }

// Reader returns the fragment reader or nil
func (s *Session) Reader() *HashReader { return s.reader }

// Writer returns the fragment writer or nil
func (s *Session) Writer() *HashWriter { return s.writer }

// Location returns the fragment the session reads and writes
func (s *Session) Location() domain.Location { return s.loc }

// Map returns the style the session rewrites
func (s *Session) Map() StyleStore { return s.m }

// Start seeds the viewport from the fragment, then attaches the control,
// the reader and the writer in that order
func (s *Session) Start() error {
	if s.started {
		return perr.Conflictf("session %s already started", s.id)
	}
	if v, ok := hashfrag.ParseView(s.loc.Hash()); ok {
		s.m.SetCenter(orb.Point{v.Lng, v.Lat})
		s.m.SetZoom(v.Zoom)
		s.log.Debug().Float64("zoom", v.Zoom).Float64("lat", v.Lat).Float64("lng", v.Lng).Msg("viewport seeded from fragment")
	}
	if err := s.ctl.Attach(s.m); err != nil {
		return err
	}
	if s.reader != nil {
		if err := s.reader.Attach(s.m, s.loc); err != nil {
			s.ctl.Detach()
			return err
		}
	}
	if s.writer != nil {
		if err := s.writer.Attach(s.m, s.loc); err != nil {
			s.detach()
			return err
		}
	}
	s.started = true
	s.log.Info().Str("source", s.ctl.opt.SourceName).Msg("session started")
	return nil
}

// Stop detaches writer, reader and control; the style gets its filters back
func (s *Session) Stop() {
	if !s.started {
		return
	}
	s.detach()
	s.started = false
	s.log.Info().Msg("session stopped")
}

func (s *Session) detach() {
	if s.writer != nil {
		s.writer.Detach()
	}
	if s.reader != nil {
		s.reader.Detach()
	}
	s.ctl.Detach()
}

// Started reports whether Start has run and Stop has not
func (s *Session) Started() bool { return s.started }

// Do runs fn on the scheduler thread and waits for it
func (s *Session) Do(ctx context.Context, fn func()) error { return s.sched.Do(ctx, fn) }

// ReloadStyle swaps in a new style document: the control detaches from the
// old one and re-attaches to the new one, keeping date and range. A document
// that fails to decode leaves the old style controlled.
func (s *Session) ReloadStyle(doc []byte) error {
	if !s.started {
		return s.m.Replace(doc)
	}
	s.ctl.Detach()
	err := s.m.Replace(doc)
	if err != nil {
		s.log.Error().Err(err).Msg("style reload rejected, keeping current style")
	} else {
		s.log.Info().Msg("style reloaded")
	}
	if aerr := s.ctl.Attach(s.m); aerr != nil {
		return aerr
	}
	return err
}

// Snapshot is the state as served to clients
func (s *Session) Snapshot() domain.StateView {
	return domain.StateView{
		SessionID:  s.id,
		Date:       s.ctl.Date(),
		Range:      s.ctl.Range(),
		Limit:      s.ctl.Limit(),
		AutoExpand: s.ctl.AutoExpand(),
		Ready:      s.ctl.Ready(),
		Hash:       s.loc.Hash(),
	}
}

// Features keeps the features that pass layerID's live filter
func (s *Session) Features(layerID string, fc *geojson.FeatureCollection) (*geojson.FeatureCollection, error) {
	lf, err := s.ctl.LayerFilter(layerID)
	if err != nil {
		return nil, err
	}
	return FilterFeatures(lf.Filter, fc)
}
