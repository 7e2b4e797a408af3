package history

import (
	"errors"
	"fmt"
)

// StorageError reports a failure of the underlying storage engine.
//
// The engine error is kept verbatim in Err; nothing is retried.
type StorageError struct {
	// Code identifies the error category.
	Code StorageErrorCode

	// Op names the store operation that failed (e.g. "save", "list").
	Op string

	// Err is the engine error.
	Err error
}

// StorageErrorCode categorizes storage errors.
type StorageErrorCode string

const (
	// ErrCodeStorageOpen indicates the database or table could not be opened
	// or created. The store stays closed and may be initialized again later.
	ErrCodeStorageOpen StorageErrorCode = "STORAGE_OPEN"

	// ErrCodeStorageRead indicates a read transaction failed.
	ErrCodeStorageRead StorageErrorCode = "STORAGE_READ"

	// ErrCodeStorageWrite indicates a write transaction failed or aborted.
	ErrCodeStorageWrite StorageErrorCode = "STORAGE_WRITE"
)

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Op, e.Err)
}

// Unwrap exposes the engine error.
func (e *StorageError) Unwrap() error {
	return e.Err
}

func openError(op string, err error) error {
	return &StorageError{Code: ErrCodeStorageOpen, Op: op, Err: err}
}

func readError(op string, err error) error {
	return &StorageError{Code: ErrCodeStorageRead, Op: op, Err: err}
}

func writeError(op string, err error) error {
	return &StorageError{Code: ErrCodeStorageWrite, Op: op, Err: err}
}

func hasCode(err error, code StorageErrorCode) bool {
	var se *StorageError
	if errors.As(err, &se) {
		return se.Code == code
	}
	return false
}

// IsOpenError returns true if the error is a StorageOpenError.
// Uses errors.As to handle wrapped errors.
func IsOpenError(err error) bool {
	return hasCode(err, ErrCodeStorageOpen)
}

// IsReadError returns true if the error is a StorageReadError.
func IsReadError(err error) bool {
	return hasCode(err, ErrCodeStorageRead)
}

// IsWriteError returns true if the error is a StorageWriteError.
func IsWriteError(err error) bool {
	return hasCode(err, ErrCodeStorageWrite)
}
