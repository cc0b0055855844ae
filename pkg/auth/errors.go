package auth

import (
	"errors"
	"fmt"
)

// ErrNoToken is returned by a Store when nothing has been persisted yet.
var ErrNoToken = errors.New("no persisted token")

// CredentialError is returned when the authentication exchange is rejected.
// The manager cannot continue without a token, so it stays in the Fatal state
// until new credentials are supplied with Reset.
type CredentialError struct {
	StatusCode int
	Message    string
}

func (e *CredentialError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("authentication rejected (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("authentication rejected (status %d): %s", e.StatusCode, e.Message)
}

// IsCredentialError reports whether err (or anything it wraps) is a CredentialError.
func IsCredentialError(err error) bool {
	var credErr *CredentialError
	return errors.As(err, &credErr)
}

// PersistenceError describes a failure reading or writing the persisted token.
// The manager treats it as "no cached token" when loading.
type PersistenceError struct {
	Op   string
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("token store %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("token store %s '%s': %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// TransportError wraps network level failures (DNS, connect, timeouts).
// It is never retried by this package.
type TransportError struct {
	Op  string
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
