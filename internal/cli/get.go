package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/addrhist/internal/history"
)

// NewGetCommand creates the get command.
func NewGetCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <address>",
		Short: "Show the stored record for one address",
		Long: `Show the stored record for one address.

Exits with status 1 if the address has never been saved.

Example:
  addrhist get DH5yaieqoZN36fDVciNyRueRGvGLR3mr7L`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runGet(opts *RootOptions, address string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	out := newFormatter(opts, cmd)

	st, openErr := openStore(ctx, opts)
	if openErr != nil {
		return out.Fail(openErr)
	}
	defer st.Close()

	rec, found, err := st.Get(ctx, address)
	if err != nil {
		return out.Fail(classify("failed to read address", err))
	}
	if !found {
		return out.Fail(WrapExitError(ExitFailure, "no record for "+address, errNotFound))
	}

	if opts.Format == "json" {
		return out.Success(rec)
	}
	writeRecords(cmd.OutOrStdout(), []history.AddressRecord{rec})
	return nil
}
