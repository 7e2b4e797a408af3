package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <address>",
		Short: "Remove one address from the history",
		Long: `Remove one address from the history.

Deleting an address that is not stored succeeds.

Example:
  addrhist delete DH5yaieqoZN36fDVciNyRueRGvGLR3mr7L`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runDelete(opts *RootOptions, address string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	out := newFormatter(opts, cmd)

	st, openErr := openStore(ctx, opts)
	if openErr != nil {
		return out.Fail(openErr)
	}
	defer st.Close()

	if err := st.Delete(ctx, address); err != nil {
		return out.Fail(classify("failed to delete address", err))
	}

	if opts.Format == "json" {
		return out.Success(map[string]string{"deleted": address})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", address)
	return nil
}
