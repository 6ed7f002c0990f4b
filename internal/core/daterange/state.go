// Package daterange holds the selected year, the visible range around it and
// the immutable limit both must stay inside.
//
// After every mutation limit.Lower <= range.Lower <= date <= range.Upper <= limit.Upper.
// A State is not safe for concurrent use.
package daterange

import (
	"time"

	perr "timeslider/internal/platform/errors"
	"timeslider/internal/platform/logger"
)

// Year is a calendar year; negative values are BCE
type Year = int

// Range is an inclusive pair of years with Lower < Upper
type Range struct {
	Lower Year `json:"lower"`
	Upper Year `json:"upper"`
}

// Contains reports whether y lies within r, bounds included
func (r Range) Contains(y Year) bool { return y >= r.Lower && y <= r.Upper }

// Valid reports whether Lower < Upper
func (r Range) Valid() bool { return r.Lower < r.Upper }

// Options configure a State; nil fields take defaults
type Options struct {
	Date       *Year
	Range      *Range
	Limit      *Range
	AutoExpand *bool

	OnDateSelect  func(Year)
	OnRangeChange func(Range)

	Logger *logger.Logger
	Now    func() time.Time
}

// State is the date/range store
type State struct {
	current    Year
	rng        Range
	limit      Range
	autoExpand bool

	onDate  func(Year)
	onRange func(Range)
	commit  func(Year)

	log *logger.Logger
}

// New validates opt and builds a State. The range defaults to the last hundred
// years, the date to the range lower bound, the limit to the range.
func New(opt Options) (*State, error) {
	now := time.Now
	if opt.Now != nil {
		now = opt.Now
	}
	thisYear := now().Year()

	rng := Range{Lower: thisYear - 100, Upper: thisYear}
	if opt.Range != nil {
		rng = *opt.Range
	}
	date := rng.Lower
	if opt.Date != nil {
		date = *opt.Date
	}
	limit := rng
	if opt.Limit != nil {
		limit = *opt.Limit
	}
	auto := true
	if opt.AutoExpand != nil {
		auto = *opt.AutoExpand
	}

	if !limit.Valid() {
		return nil, perr.InvalidOptionf("limit", "limit max year %d must be greater than min year %d", limit.Upper, limit.Lower)
	}
	if !rng.Valid() {
		return nil, perr.InvalidOptionf("range", "range max year %d must be greater than min year %d", rng.Upper, rng.Lower)
	}

	if !limit.Contains(date) {
		return nil, perr.InvalidOptionf("date", "date %d outside limit %d-%d", date, limit.Lower, limit.Upper)
	}

	log := opt.Logger
	if log == nil {
		log = logger.Named("daterange")
	}

	// same clip and stretch SetRange applies, so the invariant holds from the start
	rng.Lower = max(rng.Lower, limit.Lower)
	rng.Upper = min(rng.Upper, limit.Upper)
	rng.Lower = min(rng.Lower, date)
	rng.Upper = max(rng.Upper, date)
	if !rng.Valid() {
		return nil, perr.InvalidOptionf("range", "range collapses to %d-%d inside limit %d-%d", rng.Lower, rng.Upper, limit.Lower, limit.Upper)
	}

	return &State{
		current:    date,
		rng:        rng,
		limit:      limit,
		autoExpand: auto,
		onDate:     opt.OnDateSelect,
		onRange:    opt.OnRangeChange,
		log:        log,
	}, nil
}

// SetCommitHook registers fn to run after every committed date, before the
// OnDateSelect observer
func (s *State) SetCommitHook(fn func(Year)) { s.commit = fn }

// Date returns the selected year
func (s *State) Date() Year { return s.current }

// Range returns the visible range
func (s *State) Range() Range { return s.rng }

// Limit returns the outer limit
func (s *State) Limit() Range { return s.limit }

// AutoExpand reports whether the range grows to follow the date
func (s *State) AutoExpand() bool { return s.autoExpand }

// IsDateWithinRange reports whether y is inside the current range
func (s *State) IsDateWithinRange(y Year) bool { return s.rng.Contains(y) }

// IsDateWithinLimit reports whether y is inside the limit
func (s *State) IsDateWithinLimit(y Year) bool { return s.limit.Contains(y) }

// SetDate selects y. Years outside the limit are ignored. A year outside the
// range either stretches the range or is clamped to it, depending on
// AutoExpand. The commit hook and OnDateSelect fire even when y is unchanged.
func (s *State) SetDate(y Year) {
	if !s.IsDateWithinLimit(y) {
		s.log.Debug().Int("year", y).Int("limit_lower", s.limit.Lower).Int("limit_upper", s.limit.Upper).
			Msg("date outside limit, ignoring")
		return
	}

	switch {
	case s.autoExpand && y > s.rng.Upper:
		s.SetRangeUpper(y)
	case s.autoExpand && y < s.rng.Lower:
		s.SetRangeLower(y)
	case !s.autoExpand && y > s.rng.Upper:
		y = s.rng.Upper
	case !s.autoExpand && y < s.rng.Lower:
		y = s.rng.Lower
	}

	s.current = y
	if s.commit != nil {
		s.commit(y)
	}
	if s.onDate != nil {
		s.onDate(y)
	}
}

// SetDateInput selects the year parsed leniently from widget text
func (s *State) SetDateInput(in string) {
	y, ok := CoerceYear(in)
	if !ok {
		s.log.Debug().Str("input", in).Msg("date input is not a year, ignoring")
		return
	}
	s.SetDate(y)
}

// YearForward moves the date n years later; n < 1 counts as 1
func (s *State) YearForward(n int) { s.step(stepSize(n), "forward") }

// YearBack moves the date n years earlier; n < 1 counts as 1
func (s *State) YearBack(n int) { s.step(-stepSize(n), "back") }

func stepSize(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

func (s *State) step(delta int, dir string) {
	y := s.current + delta
	if !s.IsDateWithinLimit(y) {
		s.log.Debug().Str("dir", dir).Int("year", y).Msg("new date outside limit, ignoring")
		return
	}
	if !s.autoExpand && !s.IsDateWithinRange(y) {
		s.log.Debug().Str("dir", dir).Int("year", y).Msg("new date outside range and auto expand is off, ignoring")
		return
	}
	s.SetDate(y)
}

// SetRange clips r to the limit, then stretches whichever bound excludes the
// selected year. A range still empty after that is rejected and nothing
// changes. OnRangeChange fires on commit; date filters are not recomputed.
func (s *State) SetRange(r Range) bool {
	if r.Lower < s.limit.Lower {
		s.log.Debug().Int("lower", r.Lower).Int("limit", s.limit.Lower).Msg("range exceeds limit, adjusting min date")
		r.Lower = s.limit.Lower
	}
	if r.Upper > s.limit.Upper {
		s.log.Debug().Int("upper", r.Upper).Int("limit", s.limit.Upper).Msg("range exceeds limit, adjusting max date")
		r.Upper = s.limit.Upper
	}

	if s.current < r.Lower {
		s.log.Debug().Int("year", s.current).Msg("extending range lower bound to include current date")
		r.Lower = s.current
	} else if s.current > r.Upper {
		s.log.Debug().Int("year", s.current).Msg("extending range upper bound to include current date")
		r.Upper = s.current
	}

	if !r.Valid() {
		s.log.Warn().Int("lower", r.Lower).Int("upper", r.Upper).Msg("range max year must be greater than min year, ignoring")
		return false
	}

	s.rng = r
	if s.onRange != nil {
		s.onRange(r)
	}
	return true
}

// SetRangeUpper replaces the upper bound, keeping the lower one
func (s *State) SetRangeUpper(y Year) bool { return s.SetRange(Range{Lower: s.rng.Lower, Upper: y}) }

// SetRangeLower replaces the lower bound, keeping the upper one
func (s *State) SetRangeLower(y Year) bool { return s.SetRange(Range{Lower: y, Upper: s.rng.Upper}) }

// SetRangeInput applies leniently parsed widget text; an empty or unparsable
// side keeps its current bound
func (s *State) SetRangeInput(lower, upper string) bool {
	r := s.rng
	if y, ok := CoerceYear(lower); ok {
		r.Lower = y
	}
	if y, ok := CoerceYear(upper); ok {
		r.Upper = y
	}
	return s.SetRange(r)
}
