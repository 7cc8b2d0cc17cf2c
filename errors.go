package pubcache

import (
	"errors"
	"fmt"
)

// ErrNoCachedPayload is returned when the server answers 304 Not Modified but
// no local entry holds the payload the server is confirming. This indicates
// the cached record was lost externally (e.g. evicted from the durable tier)
// while the validation token survived; there is nothing to serve.
var ErrNoCachedPayload = errors.New("pubcache: 304 response with no cached payload")

// HTTPError is a non-success, non-304 response from the published-document
// endpoint. It is a hard failure; the client does not retry.
type HTTPError struct {
	StatusCode int
	Status     string
	Body       string // truncated response body, for diagnostics
}

func (e *HTTPError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("pubcache: unexpected status %s: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("pubcache: unexpected status %s", e.Status)
}

// DecodeError wraps a payload that could not be decoded into V.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("pubcache: decode payload: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
