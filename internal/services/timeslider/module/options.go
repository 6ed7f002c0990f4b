package module

import (
	"time"

	"timeslider/internal/core/daterange"
	"timeslider/internal/core/filter"
	"timeslider/internal/platform/config"
	"timeslider/internal/services/timeslider/domain"
)

// Options configure the timeslider session served by the module
type Options struct {
	SourceName string
	Date       *int
	Range      *daterange.Range
	Limit      *daterange.Range
	AutoExpand *bool

	// StylePath is the style file; Style wins when both are set
	StylePath  string
	Style      []byte
	WatchStyle bool
	Debounce   time.Duration

	StartDelay     time.Duration
	HideUntilReady bool

	ReadHash        bool
	ReadDelay       time.Duration
	WatchHashChange bool

	WriteHash     bool
	WriteDelay    time.Duration
	WriteInterval time.Duration

	LeafletZoomHack bool
	Attrs           filter.Attrs

	// Hash seeds the fragment the session starts from
	Hash string
}

// FromConfig reads with TIMESLIDER_ prefix. DATE, RANGE and LIMIT must be
// integers; anything else is an InvalidOption.
func FromConfig(cfg config.Conf) (Options, error) {
	c := cfg.Prefix("TIMESLIDER_")
	a := c.Prefix("ATTR_")
	def := filter.DefaultAttrs()

	date, err := config.Parse(c, "DATE", func(s string) (int, error) { return daterange.ParseYear("date", s) })
	if err != nil {
		return Options{}, err
	}
	rng, err := config.Parse(c, "RANGE", func(s string) (daterange.Range, error) { return daterange.ParseRange("range", s) })
	if err != nil {
		return Options{}, err
	}
	limit, err := config.Parse(c, "LIMIT", func(s string) (daterange.Range, error) { return daterange.ParseRange("limit", s) })
	if err != nil {
		return Options{}, err
	}

	return Options{
		SourceName: c.MayString("SOURCE_NAME", ""),
		Date:       date,
		Range:      rng,
		Limit:      limit,
		AutoExpand: c.MayBoolPtr("AUTO_EXPAND"),

		StylePath:  c.MayString("STYLE_PATH", ""),
		WatchStyle: c.MayBool("WATCH_STYLE", false),
		Debounce:   c.MayDuration("WATCH_DEBOUNCE", 0),

		StartDelay:     c.MayDuration("START_DELAY", domain.DefaultStartDelay),
		HideUntilReady: c.MayBool("HIDE_UNTIL_READY", false),

		ReadHash:        c.MayBool("READ_HASH", true),
		ReadDelay:       c.MayDuration("READ_DELAY", domain.DefaultReadDelay),
		WatchHashChange: c.MayBool("WATCH_HASH_CHANGE", true),

		WriteHash:     c.MayBool("WRITE_HASH", true),
		WriteDelay:    c.MayDuration("WRITE_DELAY", domain.DefaultWriteDelay),
		WriteInterval: c.MayDuration("WRITE_INTERVAL", domain.DefaultWriteInterval),

		LeafletZoomHack: c.MayBool("LEAFLET_ZOOM_HACK", false),
		Attrs: filter.Attrs{
			ID:           a.MayString("ID", def.ID),
			StartDate:    a.MayString("START_DATE", def.StartDate),
			EndDate:      a.MayString("END_DATE", def.EndDate),
			StartDecDate: a.MayString("START_DECDATE", def.StartDecDate),
			EndDecDate:   a.MayString("END_DECDATE", def.EndDecDate),
		},

		Hash: c.MayString("HASH", ""),
	}, nil
}

func (o Options) session() (control domain.ControlOptions, reader *domain.ReaderOptions, writer *domain.WriterOptions) {
	control = domain.ControlOptions{
		SourceName:     o.SourceName,
		Date:           o.Date,
		Range:          o.Range,
		Limit:          o.Limit,
		AutoExpand:     o.AutoExpand,
		Attrs:          o.Attrs,
		StartDelay:     o.StartDelay,
		HideUntilReady: o.HideUntilReady,
	}
	if o.ReadHash {
		reader = &domain.ReaderOptions{
			Delay:           o.ReadDelay,
			WatchHashChange: o.WatchHashChange,
			LeafletZoomHack: o.LeafletZoomHack,
		}
	}
	if o.WriteHash {
		writer = &domain.WriterOptions{
			Delay:           o.WriteDelay,
			Interval:        o.WriteInterval,
			LeafletZoomHack: o.LeafletZoomHack,
		}
	}
	return control, reader, writer
}
