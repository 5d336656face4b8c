package database

import (
	"errors"
	"fmt"
)

// ErrStampNotFound is returned by Get when no row has the requested id.
// Update and Delete never return it; they are no-ops on a missing id.
var ErrStampNotFound = errors.New("stamp not found")

// ErrNoInsertID means the engine accepted an insert but reported no row id
var ErrNoInsertID = errors.New("insert did not yield a row id")

// StorageError wraps any failure of the underlying store. It is always fatal
// to the operation that produced it.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("stamp store %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}
