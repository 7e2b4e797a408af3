package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/addrhist/internal/history"
	"github.com/roach88/addrhist/internal/pkg/validator"
)

// SaveOptions holds flags for the save command.
type SaveOptions struct {
	*RootOptions
	Timestamp  int64
	SourceInfo string
	AsString   bool
}

// NewSaveCommand creates the save command.
func NewSaveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SaveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "save <address> <balance>",
		Short: "Record a searched address and its balance",
		Long: `Record a searched address and its balance.

A balance that parses as a number is stored as a number unless --string
is given. Provenance already stored for the address is kept unless
--source-info supplies a new value.

Examples:
  addrhist save DH5yaieqoZN36fDVciNyRueRGvGLR3mr7L 1250.5
  addrhist save DH5yaieqoZN36fDVciNyRueRGvGLR3mr7L 10 --source-info '{"chain":"ethereum"}'`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSave(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().Int64Var(&opts.Timestamp, "timestamp", 0, "epoch milliseconds (default now)")
	cmd.Flags().StringVar(&opts.SourceInfo, "source-info", "", "provenance as a JSON object")
	cmd.Flags().BoolVar(&opts.AsString, "string", false, "store the balance as a string")

	return cmd
}

func runSave(opts *SaveOptions, address, balanceArg string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	out := newFormatter(opts.RootOptions, cmd)

	var saveOpts []history.SaveOption
	if cmd.Flags().Changed("timestamp") {
		saveOpts = append(saveOpts, history.WithTimestamp(opts.Timestamp))
	}
	if opts.SourceInfo != "" {
		var info history.SourceInfo
		if err := json.Unmarshal([]byte(opts.SourceInfo), &info); err != nil || info == nil {
			return out.Fail(WrapExitError(ExitCommandError, "invalid --source-info",
				fmt.Errorf("%w: must be a JSON object", validator.ErrValidationFailed)))
		}
		saveOpts = append(saveOpts, history.WithSourceInfo(info))
	}

	balance := history.ParseBalance(balanceArg)
	if opts.AsString {
		balance = history.StringBalance(balanceArg)
	}

	st, openErr := openStore(ctx, opts.RootOptions)
	if openErr != nil {
		return out.Fail(openErr)
	}
	defer st.Close()

	if err := st.Save(ctx, address, balance, saveOpts...); err != nil {
		return out.Fail(classify("failed to save address", err))
	}

	rec, _, err := st.Get(ctx, address)
	if err != nil {
		return out.Fail(classify("failed to read saved address", err))
	}
	out.VerboseLog("saved %s to %s", address, opts.Database)

	if opts.Format == "json" {
		return out.Success(rec)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%s)\n", rec.Address, rec.FormattedBalance)
	return nil
}
