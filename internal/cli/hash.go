package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"timeslider/internal/core/daterange"
	"timeslider/internal/core/hashfrag"
	perr "timeslider/internal/platform/errors"
)

func newHashCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hash",
		Short: "Read and write #zoom/lat/lng/year,lower-upper fragments",
	}
	cmd.AddCommand(newHashParseCmd(), newHashFormatCmd())
	return cmd
}

func newHashParseCmd() *cobra.Command {
	var viewOnly bool
	cmd := &cobra.Command{
		Use:   "parse <fragment>",
		Short: "Decode a fragment to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if viewOnly {
				v, ok := hashfrag.ParseView(args[0])
				if !ok {
					return perr.InvalidArgf("no viewport in %q", args[0])
				}
				return printJSON(cmd, v)
			}
			st, ok := hashfrag.Parse(args[0])
			if !ok {
				return perr.InvalidArgf("not a timeslider fragment: %q", args[0])
			}
			return printJSON(cmd, st)
		},
	}
	cmd.Flags().BoolVar(&viewOnly, "view", false, "Only read zoom, lat and lng")
	return cmd
}

func newHashFormatCmd() *cobra.Command {
	var (
		st  hashfrag.State
		rng string
	)
	cmd := &cobra.Command{
		Use:   "format",
		Short: "Encode viewport and slider state as a fragment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := daterange.ParseRange("range", rng)
			if err != nil {
				return err
			}
			st.Lower, st.Upper = r.Lower, r.Upper
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hashfrag.Format(st))
			return err
		},
	}
	f := cmd.Flags()
	f.Float64Var(&st.Zoom, "zoom", 0, "Map zoom")
	f.Float64Var(&st.Lat, "lat", 0, "Center latitude")
	f.Float64Var(&st.Lng, "lng", 0, "Center longitude")
	f.IntVar(&st.Year, "year", 0, "Selected year")
	f.StringVar(&rng, "range", "", "Slider range lo,hi")
	_ = cmd.MarkFlagRequired("year")
	_ = cmd.MarkFlagRequired("range")
	return cmd
}
