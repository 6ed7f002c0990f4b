// Package cli is the timeslider command line: offline style rewriting and
// fragment encoding with the same code the API serves
package cli

import (
	"context"
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"timeslider/internal/platform/logger"
)

type rootOptions struct {
	verbose bool
}

// NewRootCmd builds the command tree writing to out
func NewRootCmd(out io.Writer) *cobra.Command {
	var ro rootOptions
	root := &cobra.Command{
		Use:           "timeslider",
		Short:         "Date range filtering for vector map styles",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.PersistentFlags().BoolVarP(&ro.verbose, "verbose", "v", false, "Log control diagnostics to stderr")

	root.AddCommand(
		newComposeCmd(&ro),
		newGateCmd(),
		newHashCmd(),
		newVersionCmd(),
	)
	return root
}

// Execute runs the command tree against args
func Execute(ctx context.Context, args []string, out, errOut io.Writer) error {
	root := NewRootCmd(out)
	root.SetErr(errOut)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func (ro *rootOptions) logger(cmd *cobra.Command) *logger.Logger {
	if !ro.verbose {
		return logger.Nop()
	}
	l := logger.New(logger.Options{Level: "debug", Format: "console", Writer: cmd.ErrOrStderr(), Component: "cli"})
	return &l
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
