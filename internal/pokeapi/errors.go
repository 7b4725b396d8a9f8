package pokeapi

import (
	"errors"
	"fmt"
)

// NetworkError reports a request that failed in transport or returned a
// non-success status.
type NetworkError struct {
	Op         string
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: HTTP %d", e.Op, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ParseError reports a response body that is not in the expected shape.
type ParseError struct {
	Op  string
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s %s: malformed response: %v", e.Op, e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ErrMissingResults is wrapped in a ParseError when an index response has no results array.
var ErrMissingResults = errors.New("response has no results")

// IsFetchError reports whether err is a NetworkError or a ParseError.
func IsFetchError(err error) bool {
	var ne *NetworkError
	var pe *ParseError
	return errors.As(err, &ne) || errors.As(err, &pe)
}
