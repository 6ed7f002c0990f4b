package cli

import (
	"github.com/spf13/cobra"

	"timeslider/internal/core/daterange"
	"timeslider/internal/core/filter"
	perr "timeslider/internal/platform/errors"
	"timeslider/internal/platform/sched"
	"timeslider/internal/services/timeslider/domain"
	"timeslider/internal/services/timeslider/repo"
	"timeslider/internal/services/timeslider/service"
)

type composeOptions struct {
	style  string
	source string
	year   int
	rng    string
	limit  string
	format string
	attrs  filter.Attrs
}

func newComposeCmd(ro *rootOptions) *cobra.Command {
	var o composeOptions
	def := filter.DefaultAttrs()
	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Print a style with every layer of a source gated to one year",
		Long: `Attach a time slider to the style file, select the year, and print the
rewritten document. Layers whose filter cannot be composed are left as they were.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCompose(cmd, ro, o)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.style, "style", "", "Style file, JSON or YAML (required)")
	f.StringVar(&o.source, "source", "osm", "Style source whose layers are controlled")
	f.IntVar(&o.year, "year", 0, "Year to select (required)")
	f.StringVar(&o.rng, "range", "", "Slider range lo,hi")
	f.StringVar(&o.limit, "limit", "", "Outer limit lo,hi; defaults to the range")
	f.StringVar(&o.format, "format", "json", "Output format: json|yaml")
	f.StringVar(&o.attrs.ID, "attr-id", def.ID, "Feature id property")
	f.StringVar(&o.attrs.StartDate, "attr-start-date", def.StartDate, "Start date property")
	f.StringVar(&o.attrs.EndDate, "attr-end-date", def.EndDate, "End date property")
	f.StringVar(&o.attrs.StartDecDate, "attr-start-decdate", def.StartDecDate, "Decimal start date property")
	f.StringVar(&o.attrs.EndDecDate, "attr-end-decdate", def.EndDecDate, "Decimal end date property")
	_ = cmd.MarkFlagRequired("style")
	_ = cmd.MarkFlagRequired("year")
	return cmd
}

func runCompose(cmd *cobra.Command, ro *rootOptions, o composeOptions) error {
	if o.format != "json" && o.format != "yaml" {
		return perr.InvalidOptionf("format", "format must be json or yaml, got %q", o.format)
	}
	log := ro.logger(cmd)

	opt := domain.ControlOptions{SourceName: o.source, Date: &o.year, Attrs: o.attrs}
	if o.rng != "" {
		r, err := daterange.ParseRange("range", o.rng)
		if err != nil {
			return err
		}
		opt.Range = &r
	} else {
		// a one year wide range around the date keeps it reachable
		opt.Range = &daterange.Range{Lower: o.year - 1, Upper: o.year + 1}
	}
	if o.limit != "" {
		l, err := daterange.ParseRange("limit", o.limit)
		if err != nil {
			return err
		}
		opt.Limit = &l
	}

	style, err := repo.Load(o.style, log)
	if err != nil {
		return err
	}
	clock := sched.NewManual()
	s, err := service.NewSession(service.SessionOptions{Control: opt}, style, service.NewFragment(""), clock, nil, log)
	if err != nil {
		return err
	}
	if err := s.Start(); err != nil {
		return err
	}
	clock.Advance(domain.DefaultStartDelay)

	for _, l := range s.Control().Report().Layers {
		if l.Status == domain.LayerSkipped {
			cmd.PrintErrf("skipped %s: %s\n", l.ID, l.Error)
		}
	}

	var doc []byte
	if o.format == "yaml" {
		doc, err = style.DocumentYAML()
	} else {
		doc, err = style.Document()
	}
	if err != nil {
		return err
	}
	if len(doc) > 0 && doc[len(doc)-1] != '\n' {
		doc = append(doc, '\n')
	}
	_, err = cmd.OutOrStdout().Write(doc)
	return err
}
