package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ClearOptions holds flags for the clear command.
type ClearOptions struct {
	*RootOptions
	Yes bool
}

// NewClearCommand creates the clear command.
func NewClearCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ClearOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every address from the history",
		Long: `Remove every address from the history.

Requires --yes.

Example:
  addrhist clear --yes`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClear(opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Yes, "yes", false, "confirm clearing all history")

	return cmd
}

func runClear(opts *ClearOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	out := newFormatter(opts.RootOptions, cmd)

	if !opts.Yes {
		return out.Fail(WrapExitError(ExitCommandError, "refusing to clear history without --yes", errConfirmationRequired))
	}

	st, openErr := openStore(ctx, opts.RootOptions)
	if openErr != nil {
		return out.Fail(openErr)
	}
	defer st.Close()

	if err := st.ClearAll(ctx); err != nil {
		return out.Fail(classify("failed to clear history", err))
	}

	if opts.Format == "json" {
		return out.Success(map[string]bool{"cleared": true})
	}
	fmt.Fprintln(cmd.OutOrStdout(), "History cleared")
	return nil
}
