package storage

import (
	"errors"
	"fmt"
)

// ErrAlreadyRegistered is returned when a handle is already in the registrant list
var ErrAlreadyRegistered = errors.New("handle already registered")

// PersistenceError wraps a failed document read, decode or write
type PersistenceError struct {
	Op  string
	Doc string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Doc, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
