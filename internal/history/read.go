package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const selectColumns = `address, balance, balance_numeric, formatted_balance, timestamp, source_info`

// ListAll returns every record, most recent timestamp first.
//
// Rows are read through the timestamp index and then sorted descending.
// Records with equal timestamps keep the order the index returned them in;
// no further tiebreak is applied.
//
// Returns an empty slice (not nil) if there are no records.
func (s *Store) ListAll(ctx context.Context) ([]AddressRecord, error) {
	db, err := s.handle(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT `+selectColumns+`
		FROM searched_addresses INDEXED BY idx_searched_addresses_timestamp
		ORDER BY timestamp ASC
	`)
	if err != nil {
		return nil, readError("list", fmt.Errorf("query records: %w", err))
	}
	defer rows.Close()

	records := []AddressRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, readError("list", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, readError("list", fmt.Errorf("iterate records: %w", err))
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp > records[j].Timestamp
	})

	return records, nil
}

// Get returns the record for address. found is false if there is none.
func (s *Store) Get(ctx context.Context, address string) (rec AddressRecord, found bool, err error) {
	db, err := s.handle(ctx)
	if err != nil {
		return AddressRecord{}, false, err
	}

	rec, found, err = getRecord(ctx, db, address)
	if err != nil {
		return AddressRecord{}, false, readError("get", err)
	}
	return rec, found, nil
}

// getRecord reads one row by primary key.
func getRecord(ctx context.Context, q queryer, address string) (AddressRecord, bool, error) {
	row := q.QueryRowContext(ctx, `
		SELECT `+selectColumns+`
		FROM searched_addresses
		WHERE address = ?
	`, address)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return AddressRecord{}, false, nil
	}
	if err != nil {
		return AddressRecord{}, false, err
	}
	return rec, true, nil
}

// scanRecord scans a row into an AddressRecord.
func scanRecord(row rowScanner) (AddressRecord, error) {
	var (
		rec         AddressRecord
		balanceText string
		numeric     int
		infoJSON    sql.NullString
	)

	err := row.Scan(
		&rec.Address,
		&balanceText,
		&numeric,
		&rec.FormattedBalance,
		&rec.Timestamp,
		&infoJSON,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return AddressRecord{}, err
		}
		return AddressRecord{}, fmt.Errorf("scan record: %w", err)
	}

	rec.Balance, err = unmarshalBalance(balanceText, numeric)
	if err != nil {
		return AddressRecord{}, fmt.Errorf("scan record %q: %w", rec.Address, err)
	}

	rec.SourceInfo, err = unmarshalSourceInfo(infoJSON)
	if err != nil {
		return AddressRecord{}, fmt.Errorf("scan record %q: %w", rec.Address, err)
	}

	return rec, nil
}
