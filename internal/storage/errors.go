package storage

import (
	"errors"
	"fmt"
)

// NotFoundError reports that a backend holds no invitation record.
type NotFoundError struct {
	Backend string
	Key     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: no record stored under %q", e.Backend, e.Key)
}

// TransportError reports that a backend could not be read or written.
type TransportError struct {
	Backend string
	Op      string
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Backend, e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a *NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsTransport reports whether err is a *TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

func asTransport(backend, op string, err error) error {
	if err == nil || IsTransport(err) || IsNotFound(err) {
		return err
	}
	return &TransportError{Backend: backend, Op: op, Err: err}
}
