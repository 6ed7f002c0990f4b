package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"timeslider/internal/core/version"
)

func newVersionCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bi := version.Info("timeslider")
			if asJSON {
				return printJSON(cmd, bi)
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), bi.String())
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}
