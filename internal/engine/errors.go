package engine

import (
	"errors"
	"fmt"

	"github.com/x7ian/jstopia/internal/store"
)

// ErrInvalidRequest indicates missing or malformed input. No state changed.
type ErrInvalidRequest struct {
	Field  string
	Reason string
}

func (e *ErrInvalidRequest) Error() string {
	if e.Field == "" {
		return "invalid request: " + e.Reason
	}
	return fmt.Sprintf("invalid request: %s %s", e.Field, e.Reason)
}

// ErrNotFound indicates an unknown session, topic, question or rank. No state
// changed.
type ErrNotFound struct {
	Kind string
	Key  string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %q", e.Kind, e.Key)
}

// ErrConflict indicates the operation's transaction lost a race with a
// concurrent request for the same state and was rolled back. Callers re-read
// state; the winner's effect is already visible.
type ErrConflict struct {
	Err error
}

func (e *ErrConflict) Error() string {
	return fmt.Sprintf("conflict: %v", e.Err)
}

func (e *ErrConflict) Unwrap() error { return e.Err }

// ErrStorageUnavailable wraps a transient storage failure. The whole
// operation is safe to retry.
type ErrStorageUnavailable struct {
	Op  string
	Err error
}

func (e *ErrStorageUnavailable) Error() string {
	return fmt.Sprintf("storage unavailable (%s): %v", e.Op, e.Err)
}

func (e *ErrStorageUnavailable) Unwrap() error { return e.Err }

func invalid(field, reason string) error {
	return &ErrInvalidRequest{Field: field, Reason: reason}
}

func notFound(kind, key string) error {
	return &ErrNotFound{Kind: kind, Key: key}
}

// storageErr wraps err as ErrConflict when the store reports a lost
// transaction race, and as ErrStorageUnavailable otherwise, unless it
// already carries an engine error kind.
func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var (
		inv *ErrInvalidRequest
		nf  *ErrNotFound
		cf  *ErrConflict
		su  *ErrStorageUnavailable
	)
	if errors.As(err, &inv) || errors.As(err, &nf) || errors.As(err, &cf) || errors.As(err, &su) {
		return err
	}
	if store.IsConflict(err) {
		return &ErrConflict{Err: err}
	}
	return &ErrStorageUnavailable{Op: op, Err: err}
}
