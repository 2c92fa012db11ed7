// Package apperr defines the error taxonomy shared by the wortschatz
// packages: missing things, failures reported by AnkiConnect and
// transport failures of the remote services.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")
	ErrRemote   = errors.New("remote error")
)

// NetworkError wraps a transport failure of a remote service.
type NetworkError struct {
	Service string
	Err     error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Service, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Network wraps err as a NetworkError for service. A nil err stays nil.
func Network(service string, err error) error {
	if err == nil {
		return nil
	}
	return &NetworkError{Service: service, Err: err}
}

// IsNetwork reports whether err contains a NetworkError.
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}
