package s3fs

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned (wrapped) when an object key does not exist in the
// backing store.
var ErrNotFound = errors.New("object not found")

// ErrSessionClosed is returned when writing to a finalized write session.
var ErrSessionClosed = errors.New("write session closed")

// StorageError conveys a backend failure during a listing, write, copy, move
// or directory-marker operation.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// MetadataError conveys a failure retrieving object metadata (such as size)
// after a write. Callers treat it as non-fatal and degrade to a zero size.
type MetadataError struct {
	Key string
	Err error
}

func (e *MetadataError) Error() string {
	return fmt.Sprintf("metadata %s: %v", e.Key, e.Err)
}

func (e *MetadataError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err represents a missing object.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
