package cli

import (
	"github.com/spf13/cobra"

	"timeslider/internal/core/filter"
)

func newGateCmd() *cobra.Command {
	var (
		year        int
		placeholder bool
		attrs       = filter.DefaultAttrs()
	)
	cmd := &cobra.Command{
		Use:   "gate",
		Short: "Print the date gate expression for a year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if placeholder {
				return printJSON(cmd, filter.Placeholder(attrs))
			}
			lo, hi := filter.Boundaries(year)
			cmd.PrintErrf("%s: %.6f .. %.6f\n", filter.YearLabel(year), lo, hi)
			return printJSON(cmd, filter.Gate(year, attrs))
		},
	}
	f := cmd.Flags()
	f.IntVar(&year, "year", 0, "Year the gate admits")
	f.BoolVar(&placeholder, "placeholder", false, "Print the gate a layer carries before the first date is set")
	f.StringVar(&attrs.ID, "attr-id", attrs.ID, "Feature id property")
	f.StringVar(&attrs.StartDate, "attr-start-date", attrs.StartDate, "Raw start date property")
	f.StringVar(&attrs.EndDate, "attr-end-date", attrs.EndDate, "Raw end date property")
	f.StringVar(&attrs.StartDecDate, "attr-start-decdate", attrs.StartDecDate, "Decimal start date property")
	f.StringVar(&attrs.EndDecDate, "attr-end-decdate", attrs.EndDecDate, "Decimal end date property")
	cmd.MarkFlagsOneRequired("year", "placeholder")
	return cmd
}
