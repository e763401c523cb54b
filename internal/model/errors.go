package model

import "fmt"

// HTTPError wraps a non-success HTTP status code so retry logic can inspect it.
type HTTPError struct {
	StatusCode int
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// MalformedPayloadError reports a response body in which the expected JSON
// substructure could not be located or decoded. Not retryable: the page was
// served fine, its content is just unusable.
type MalformedPayloadError struct {
	Reason string
}

func (e *MalformedPayloadError) Error() string {
	return "malformed payload: " + e.Reason
}

// MalformedLocationError reports a combined primary-location string that did
// not split into exactly city, state, and country. The record carrying it is
// skipped; the rest of the page proceeds.
type MalformedLocationError struct {
	Raw string
}

func (e *MalformedLocationError) Error() string {
	return fmt.Sprintf("malformed location %q: want exactly city, state, country", e.Raw)
}
