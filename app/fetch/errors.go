package fetch

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	// KindTransport covers DNS, connect, TLS and timeout failures.
	KindTransport ErrorKind = iota
	// KindStatus covers non-2xx responses.
	KindStatus
	// KindEmptyBody covers 2xx responses with no payload.
	KindEmptyBody
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindEmptyBody:
		return "empty_body"
	}
	return "unknown"
}

// Error is the typed failure returned by Client.Fetch. Retry policy belongs
// to the caller, so the error carries enough detail to classify but the
// client itself never retries.
type Error struct {
	Kind       ErrorKind
	URL        string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindStatus:
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	case KindEmptyBody:
		return fmt.Sprintf("fetch %s: empty response body", e.URL)
	default:
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a fetch error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var fe *Error
	return errors.As(err, &fe) && fe.Kind == kind
}
