// Package store holds what the item store backends share: their error
// types and the filter semantics every backend must honor.
package store

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is wrapped by a StoreError when a delete targets an item that
// no longer exists.
var ErrNotFound = errors.New("item not found")

// StoreError reports a read or write failure against the persistent store.
type StoreError struct {
	Op  string // "fetch", "insert", "delete", "open"
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Fail wraps err in a StoreError for op. A nil err stays nil.
func Fail(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

// IsStoreError reports whether err carries a StoreError.
func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}

// Matches reports whether name contains filter as a case-insensitive
// substring. An empty filter matches everything.
func Matches(name, filter string) bool {
	if filter == "" {
		return true
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(filter))
}
