package history

import (
	"sync"

	"github.com/roach88/addrhist/internal/config"
)

var (
	defaultOnce  sync.Once
	defaultStore *Store
	defaultErr   error
)

// FromConfig returns an unopened Store for cfg.
func FromConfig(cfg config.Config) *Store {
	return New(cfg.DBPath, WithBusyTimeout(cfg.BusyTimeout))
}

// Default returns the process-wide Store, built once from the ADDRHIST_*
// environment. The database itself is still opened lazily by the first
// operation, and the handle lives for the rest of the process.
func Default() (*Store, error) {
	defaultOnce.Do(func() {
		cfg, err := config.Load()
		if err != nil {
			defaultErr = err
			return
		}
		defaultStore = FromConfig(cfg)
	})
	return defaultStore, defaultErr
}
