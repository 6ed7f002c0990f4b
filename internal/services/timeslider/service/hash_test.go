package service

import (
	"math"
	"testing"
	"time"

	"github.com/paulmach/orb"

	"timeslider/internal/core/daterange"
	perr "timeslider/internal/platform/errors"
	"timeslider/internal/platform/logger"
	"timeslider/internal/services/timeslider/domain"
)

const bronx = "#15.600/48.57240/7.81240/1880,1700-1950"

func newReader(t *testing.T, f *fixture, opt domain.ReaderOptions) *HashReader {
	t.Helper()
	r, err := NewHashReader(opt, f.ctl, f.clock, nil, logger.Nop())
	if err != nil {
		t.Fatalf("NewHashReader: %v", err)
	}
	return r
}

func newWriter(t *testing.T, f *fixture, opt domain.WriterOptions) *HashWriter {
	t.Helper()
	w, err := NewHashWriter(opt, f.ctl, f.clock, nil, logger.Nop())
	if err != nil {
		t.Fatalf("NewHashWriter: %v", err)
	}
	return w
}

func TestHashReader_AppliesAfterDelay(t *testing.T) {
	f := newFixture(t, nil)
	f.attach(t)
	loc := NewFragment(bronx)
	r := newReader(t, f, DefaultReaderOptions())
	if err := r.Attach(f.style, loc); err != nil {
		t.Fatal(err)
	}

	f.clock.Advance(999 * time.Millisecond)
	if f.ctl.Date() != 1850 {
		t.Fatalf("applied before delay: %d", f.ctl.Date())
	}
	f.clock.Advance(time.Millisecond)

	if f.ctl.Date() != 1880 || f.ctl.Range() != (daterange.Range{Lower: 1700, Upper: 1950}) {
		t.Fatalf("date=%d range=%v", f.ctl.Date(), f.ctl.Range())
	}
	if c := f.style.Center(); c != (orb.Point{7.8124, 48.5724}) {
		t.Fatalf("center = %v", c)
	}
	if f.style.Zoom() != 15.6 {
		t.Fatalf("zoom = %v", f.style.Zoom())
	}
}

func TestHashReader_LeafletZoomHack(t *testing.T) {
	f := newFixture(t, nil)
	f.attach(t)
	r := newReader(t, f, domain.ReaderOptions{LeafletZoomHack: true})
	if err := r.Attach(f.style, NewFragment(bronx)); err != nil {
		t.Fatal(err)
	}
	f.clock.Advance(domain.DefaultReadDelay)
	if math.Abs(f.style.Zoom()-14.6) > 1e-9 {
		t.Fatalf("zoom = %v, want 14.6", f.style.Zoom())
	}
}

func TestHashReader_WatchesNavigation(t *testing.T) {
	f := newFixture(t, nil)
	f.attach(t)
	loc := NewFragment("")
	r := newReader(t, f, DefaultReaderOptions())
	if err := r.Attach(f.style, loc); err != nil {
		t.Fatal(err)
	}
	f.clock.Advance(domain.DefaultReadDelay)
	if f.ctl.Date() != 1850 {
		t.Fatalf("empty fragment changed date to %d", f.ctl.Date())
	}

	loc.Navigate("#3.000/10.00000/20.00000/1999,1990-2010")
	f.clock.Drain()
	if f.ctl.Date() != 1999 || f.ctl.Range() != (daterange.Range{Lower: 1990, Upper: 2010}) {
		t.Fatalf("after navigate date=%d range=%v", f.ctl.Date(), f.ctl.Range())
	}

	// silent rewrites and garbage are ignored
	loc.SetHash("#3.000/10.00000/20.00000/1995,1990-2010")
	loc.Navigate("#not-a-fragment")
	f.clock.Drain()
	if f.ctl.Date() != 1999 {
		t.Fatalf("date = %d, want 1999", f.ctl.Date())
	}

	r.Detach()
	loc.Navigate("#3.000/10.00000/20.00000/1995,1990-2010")
	f.clock.Drain()
	if f.ctl.Date() != 1999 {
		t.Fatalf("detached reader applied a fragment")
	}
}

func TestHashReader_NoWatch(t *testing.T) {
	f := newFixture(t, nil)
	f.attach(t)
	loc := NewFragment("")
	r := newReader(t, f, domain.ReaderOptions{Delay: time.Second})
	if err := r.Attach(f.style, loc); err != nil {
		t.Fatal(err)
	}
	f.clock.Advance(time.Second)
	loc.Navigate(bronx)
	f.clock.Drain()
	if f.ctl.Date() != 1850 {
		t.Fatalf("reader without watch followed navigation")
	}
}

func TestHashReader_DetachBeforeDelay(t *testing.T) {
	f := newFixture(t, nil)
	f.attach(t)
	r := newReader(t, f, DefaultReaderOptions())
	if err := r.Attach(f.style, NewFragment(bronx)); err != nil {
		t.Fatal(err)
	}
	r.Detach()
	f.clock.Advance(time.Minute)
	if f.ctl.Date() != 1850 {
		t.Fatalf("cancelled read applied")
	}
}

func TestHashReader_Options(t *testing.T) {
	f := newFixture(t, nil)
	if _, err := NewHashReader(DefaultReaderOptions(), nil, f.clock, nil, nil); !perr.IsCode(err, perr.ErrorCodeInvalidOption) {
		t.Fatalf("nil control err = %v", err)
	}
	if _, err := NewHashReader(domain.ReaderOptions{Delay: -time.Second}, f.ctl, f.clock, nil, nil); !perr.IsCode(err, perr.ErrorCodeInvalidOption) {
		t.Fatalf("negative delay err = %v", err)
	}
	r := newReader(t, f, domain.ReaderOptions{})
	if r.opt.Delay != domain.DefaultReadDelay {
		t.Fatalf("delay = %v", r.opt.Delay)
	}
	loc := NewFragment("")
	if err := r.Attach(f.style, loc); err != nil {
		t.Fatal(err)
	}
	if err := r.Attach(f.style, loc); !perr.IsCode(err, perr.ErrorCodeConflict) {
		t.Fatalf("second attach err = %v", err)
	}
	if r.Apply("#1.000/1.00000/1.00000/1,0-2") != true {
		t.Fatalf("Apply of a valid fragment reported no match")
	}
}

func TestHashWriter_WritesOnInterval(t *testing.T) {
	f := newFixture(t, nil)
	f.attach(t)
	loc := NewFragment("")
	w := newWriter(t, f, DefaultWriterOptions())
	if err := w.Attach(f.style, loc); err != nil {
		t.Fatal(err)
	}

	f.clock.Advance(domain.DefaultWriteDelay)
	if !w.Tracking() || loc.Hash() != "" {
		t.Fatalf("tracking=%v hash=%q at start", w.Tracking(), loc.Hash())
	}
	f.clock.Advance(time.Second)
	if want := "#15.000/48.57240/7.81240/1850,1800-1900"; loc.Hash() != want {
		t.Fatalf("hash = %q, want %q", loc.Hash(), want)
	}

	f.ctl.SetDate(1870)
	f.style.SetCenter(orb.Point{-73.9119449, 40.8217108})
	f.clock.Advance(time.Second)
	if want := "#15.000/40.82171/-73.91194/1870,1800-1900"; loc.Hash() != want {
		t.Fatalf("hash = %q, want %q", loc.Hash(), want)
	}

	// every tick overwrites, even a fragment set by hand
	loc.SetHash("#manual")
	f.clock.Advance(time.Second)
	if loc.Hash() == "#manual" {
		t.Fatalf("tick did not overwrite")
	}

	w.Detach()
	loc.SetHash("#manual")
	f.clock.Advance(5 * time.Second)
	if loc.Hash() != "#manual" || w.Tracking() {
		t.Fatalf("writes continued after detach")
	}
}

// flakyLocation panics on its first n writes
type flakyLocation struct {
	*Fragment
	fails int
}

func (l *flakyLocation) SetHash(h string) {
	if l.fails > 0 {
		l.fails--
		panic("location unavailable")
	}
	l.Fragment.SetHash(h)
}

func TestHashWriter_TickFailureRetries(t *testing.T) {
	f := newFixture(t, nil)
	f.attach(t)
	loc := &flakyLocation{Fragment: NewFragment(""), fails: 1}
	w := newWriter(t, f, DefaultWriterOptions())
	if err := w.Attach(f.style, loc); err != nil {
		t.Fatal(err)
	}

	f.clock.Advance(domain.DefaultWriteDelay + time.Second)
	if len(f.clock.Panics) != 1 || loc.Hash() != "" {
		t.Fatalf("panics=%v hash=%q after failing tick", f.clock.Panics, loc.Hash())
	}
	if !w.Tracking() {
		t.Fatalf("interval stopped after a failing tick")
	}
	f.clock.Advance(time.Second)
	if want := "#15.000/48.57240/7.81240/1850,1800-1900"; loc.Hash() != want {
		t.Fatalf("hash = %q, want %q", loc.Hash(), want)
	}
}

func TestHashWriter_LeafletZoomHack(t *testing.T) {
	f := newFixture(t, nil)
	f.attach(t)
	loc := NewFragment("")
	w := newWriter(t, f, domain.WriterOptions{Delay: time.Second, Interval: time.Second, LeafletZoomHack: true})
	if err := w.Attach(f.style, loc); err != nil {
		t.Fatal(err)
	}
	f.clock.Advance(2 * time.Second)
	if want := "#16.000/48.57240/7.81240/1850,1800-1900"; loc.Hash() != want {
		t.Fatalf("hash = %q, want %q", loc.Hash(), want)
	}
}

func TestHashWriter_StartIsIdempotent(t *testing.T) {
	f := newFixture(t, nil)
	f.attach(t)
	w := newWriter(t, f, DefaultWriterOptions())
	if err := w.Attach(f.style, NewFragment("")); err != nil {
		t.Fatal(err)
	}
	f.clock.Advance(domain.DefaultWriteDelay)
	before := f.clock.Pending()
	w.track()
	if f.clock.Pending() != before {
		t.Fatalf("second track scheduled another interval")
	}
	if err := w.Attach(f.style, NewFragment("")); !perr.IsCode(err, perr.ErrorCodeConflict) {
		t.Fatalf("second attach err = %v", err)
	}
}

func TestHashWriter_Options(t *testing.T) {
	f := newFixture(t, nil)
	if _, err := NewHashWriter(DefaultWriterOptions(), nil, f.clock, nil, nil); err == nil {
		t.Fatalf("nil control accepted")
	}
	if _, err := NewHashWriter(domain.WriterOptions{Interval: -time.Second}, f.ctl, f.clock, nil, nil); !perr.IsCode(err, perr.ErrorCodeInvalidOption) {
		t.Fatalf("negative interval err = %v", err)
	}
	w := newWriter(t, f, domain.WriterOptions{})
	if w.opt.Interval != domain.DefaultWriteInterval {
		t.Fatalf("interval = %v", w.opt.Interval)
	}
}

func TestReaderWriter_RoundTrip(t *testing.T) {
	f := newFixture(t, nil)
	f.attach(t)
	loc := NewFragment("")
	w := newWriter(t, f, domain.WriterOptions{Delay: time.Second, Interval: time.Second, LeafletZoomHack: true})
	if err := w.Attach(f.style, loc); err != nil {
		t.Fatal(err)
	}
	f.ctl.JumpTo(-400, 5)
	f.clock.Advance(2 * time.Second)
	w.Detach()

	g := newFixture(t, nil)
	g.attach(t)
	r := newReader(t, g, domain.ReaderOptions{Delay: time.Second, LeafletZoomHack: true})
	if err := r.Attach(g.style, loc); err != nil {
		t.Fatal(err)
	}
	g.clock.Advance(time.Second)
	if g.ctl.Date() != -400 || g.ctl.Range() != (daterange.Range{Lower: -405, Upper: -395}) {
		t.Fatalf("round trip date=%d range=%v via %q", g.ctl.Date(), g.ctl.Range(), loc.Hash())
	}
	if g.style.Zoom() != f.style.Zoom() {
		t.Fatalf("zoom %v != %v", g.style.Zoom(), f.style.Zoom())
	}
}
