package fetch

import (
	"errors"
	"fmt"
)

// ErrNotFound marks a well-formed "no such order" answer from the
// authority, as opposed to a transport failure.
var ErrNotFound = errors.New("order not found")

// FetchError is a transport-level failure: connection refused, timeout,
// malformed response body. Transient by nature; the poll loop absorbs it
// and retries on the next cycle.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch: %v", e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ServerRejectedError is an authoritative refusal of a request, e.g. a
// status transition that lost a race with another operator. Not retried
// automatically.
type ServerRejectedError struct {
	StatusCode int
	Reason     string
}

func (e *ServerRejectedError) Error() string {
	return fmt.Sprintf("server rejected request (%d): %s", e.StatusCode, e.Reason)
}
