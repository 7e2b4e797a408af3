package history

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/addrhist/internal/pkg/logger"
	"github.com/roach88/addrhist/internal/pkg/validator"
)

// saveRequest is the validated input of Save.
type saveRequest struct {
	Address     string `validate:"required"`
	Balance     Balance
	BalanceText string `validate:"required"`
	Timestamp  int64
	SourceInfo SourceInfo
}

// SaveOption customizes a single Save call.
type SaveOption func(*saveRequest)

// WithTimestamp sets the record timestamp in epoch milliseconds instead of
// the store clock's current time.
func WithTimestamp(ms int64) SaveOption {
	return func(r *saveRequest) {
		r.Timestamp = ms
	}
}

// WithSourceInfo attaches provenance. Passing nil is the same as omitting it.
func WithSourceInfo(info SourceInfo) SaveOption {
	return func(r *saveRequest) {
		r.SourceInfo = info
	}
}

// Save upserts the record for address.
//
// The existing row is read, SourceInfo is merged (a nil SourceInfo keeps the
// stored one), FormattedBalance is derived from balance, and the row is
// written back, all in one transaction. A failed Save leaves any prior record
// untouched.
//
// Errors: validator.ErrValidationFailed for bad input (empty address, empty
// or non-finite balance), StorageOpenError, StorageReadError if the pre-read
// fails, StorageWriteError otherwise. Storage failures are also logged.
func (s *Store) Save(ctx context.Context, address string, balance Balance, opts ...SaveOption) error {
	req := saveRequest{
		Address:     address,
		Balance:     balance,
		BalanceText: balance.String(),
		Timestamp:   s.clock.Now().UnixMilli(),
	}
	for _, opt := range opts {
		opt(&req)
	}

	if err := validator.Validate(req); err != nil {
		return fmt.Errorf("save %q: %w", address, err)
	}
	if !balance.finite() {
		return fmt.Errorf("save %q: %w: balance %s is not a finite number",
			address, validator.ErrValidationFailed, balance)
	}

	if err := s.save(ctx, req); err != nil {
		logger.Error(ctx, "save searched address failed",
			"address", req.Address,
			"error", err,
		)
		return err
	}
	return nil
}

func (s *Store) save(ctx context.Context, req saveRequest) error {
	db, err := s.handle(ctx)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return writeError("save", fmt.Errorf("begin tx: %w", err))
	}
	defer tx.Rollback() // No-op if committed

	existing, found, err := getRecord(ctx, tx, req.Address)
	if err != nil {
		return readError("save", err)
	}

	var prior *AddressRecord
	if found {
		prior = &existing
	}
	rec := newRecord(req.Address, req.Balance, req.Timestamp, mergeSourceInfo(prior, req.SourceInfo))

	if err := putRecord(ctx, tx, rec); err != nil {
		return writeError("save", err)
	}

	if err := tx.Commit(); err != nil {
		return writeError("save", fmt.Errorf("commit: %w", err))
	}

	logger.Debug(ctx, "searched address saved",
		"address", rec.Address,
		"balance", rec.Balance.String(),
		"timestamp", rec.Timestamp,
		"has_source_info", rec.SourceInfo != nil,
		"updated", found,
	)
	return nil
}

// putRecord replaces the row for rec.Address.
func putRecord(ctx context.Context, tx *sql.Tx, rec AddressRecord) error {
	infoJSON, err := marshalSourceInfo(rec.SourceInfo)
	if err != nil {
		return err
	}
	balanceText, numeric := marshalBalance(rec.Balance)

	_, err = tx.ExecContext(ctx, `
		INSERT INTO searched_addresses
		(address, balance, balance_numeric, formatted_balance, timestamp, source_info)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(address) DO UPDATE SET
			balance = excluded.balance,
			balance_numeric = excluded.balance_numeric,
			formatted_balance = excluded.formatted_balance,
			timestamp = excluded.timestamp,
			source_info = excluded.source_info
	`,
		rec.Address,
		balanceText,
		numeric,
		rec.FormattedBalance,
		rec.Timestamp,
		infoJSON,
	)
	if err != nil {
		return fmt.Errorf("put record: %w", err)
	}
	return nil
}

// Delete removes the record for address. Deleting a missing address
// succeeds and changes nothing.
func (s *Store) Delete(ctx context.Context, address string) error {
	db, err := s.handle(ctx)
	if err != nil {
		return err
	}

	result, err := db.ExecContext(ctx, `
		DELETE FROM searched_addresses WHERE address = ?
	`, address)
	if err != nil {
		logger.Error(ctx, "delete searched address failed", "address", address, "error", err)
		return writeError("delete", err)
	}

	removed, _ := result.RowsAffected()
	logger.Debug(ctx, "searched address deleted",
		"address", address,
		"removed", removed,
	)
	return nil
}

// ClearAll removes every record.
func (s *Store) ClearAll(ctx context.Context) error {
	db, err := s.handle(ctx)
	if err != nil {
		return err
	}

	result, err := db.ExecContext(ctx, `DELETE FROM searched_addresses`)
	if err != nil {
		logger.Error(ctx, "clear search history failed", "error", err)
		return writeError("clear", err)
	}

	removed, _ := result.RowsAffected()
	logger.Debug(ctx, "search history cleared", "removed", removed)
	return nil
}
