package cli

import (
	"context"
	"errors"

	"github.com/roach88/addrhist/internal/config"
	"github.com/roach88/addrhist/internal/history"
)

var (
	// errNotFound is reported when a command targets an address with no record.
	errNotFound = errors.New("address not found")

	// errConfirmationRequired is reported when a destructive command lacks --yes.
	errConfirmationRequired = errors.New("confirmation required")
)

// storeConfig is the configuration with --db applied.
func storeConfig(opts *RootOptions) config.Config {
	cfg := opts.Config
	cfg.DBPath = opts.Database
	return cfg
}

// openStore builds the history store from configuration and initializes it
// so open failures are reported before the command runs.
func openStore(ctx context.Context, opts *RootOptions) (*history.Store, *ExitError) {
	st := history.FromConfig(storeConfig(opts))
	if err := st.Initialize(ctx); err != nil {
		return nil, classify("failed to open database", err)
	}
	return st, nil
}
