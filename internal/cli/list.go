package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/addrhist/internal/history"
)

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List searched addresses, most recent first",
		Long: `List every searched address with its last-known balance.

Examples:
  addrhist list
  addrhist list --db ./doge_wallet.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(rootOpts, cmd)
		},
	}

	return cmd
}

func runList(opts *RootOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	out := newFormatter(opts, cmd)

	st, openErr := openStore(ctx, opts)
	if openErr != nil {
		return out.Fail(openErr)
	}
	defer st.Close()

	records, err := st.ListAll(ctx)
	if err != nil {
		return out.Fail(classify("failed to list addresses", err))
	}
	out.VerboseLog("read %d record(s) from %s", len(records), opts.Database)

	if opts.Format == "json" {
		return out.Success(records)
	}

	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No searched addresses")
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Searched addresses: %d\n\n", len(records))
	writeRecords(cmd.OutOrStdout(), records)
	return nil
}

// writeRecords prints records as an aligned table.
func writeRecords(w io.Writer, records []history.AddressRecord) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ADDRESS\tBALANCE\tSEARCHED\tSOURCE")
	for _, rec := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			rec.Address,
			rec.FormattedBalance,
			formatTimestamp(rec.Timestamp),
			formatSourceInfo(rec.SourceInfo),
		)
	}
	tw.Flush()
}

func formatTimestamp(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}

func formatSourceInfo(info history.SourceInfo) string {
	if info == nil {
		return "-"
	}
	if chain, ok := info["chain"]; ok {
		return fmt.Sprintf("%v", chain)
	}
	return fmt.Sprintf("%v", map[string]any(info))
}
