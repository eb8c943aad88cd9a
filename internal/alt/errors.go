package alt

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoEndpoints is returned when the client has no candidate endpoints.
var ErrNoEndpoints = errors.New("no upstream endpoints configured")

// Attempt records a connection-level failure against one candidate endpoint.
type Attempt struct {
	Endpoint string
	Err      error
}

// AllEndpointsFailedError is returned when every candidate endpoint failed
// before producing an HTTP response.
type AllEndpointsFailedError struct {
	Attempts []Attempt
}

func (e *AllEndpointsFailedError) Error() string {
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, fmt.Sprintf("%s → %v", a.Endpoint, a.Err))
	}
	return "all alt endpoints failed DNS/connection: " + strings.Join(parts, " | ")
}

// Unwrap exposes the per-endpoint causes to errors.Is and errors.As.
func (e *AllEndpointsFailedError) Unwrap() []error {
	errs := make([]error, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		errs = append(errs, a.Err)
	}
	return errs
}

// BadResponseError is returned when the accepted endpoint answered with a
// non-JSON body, typically a WAF block page, login splash or redirect.
type BadResponseError struct {
	Endpoint    string
	Status      int
	ContentType string
	Title       string
	Preview     string
}

func (e *BadResponseError) Error() string {
	return fmt.Sprintf(
		"bad upstream response from %s (status %d, content-type %q)",
		e.Endpoint, e.Status, e.ContentType,
	)
}

// UpstreamError is returned when the upstream answered with JSON but either
// the HTTP status is not 2xx or the GraphQL envelope carries errors.
type UpstreamError struct {
	Endpoint string
	Status   int
	Details  json.RawMessage
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream error from %s (status %d): %s", e.Endpoint, e.Status, e.Details)
}

// MalformedResponseError is returned when a successful JSON response does not
// match the expected searchCards envelope.
type MalformedResponseError struct {
	Endpoint string
	Status   int
	Reason   string
	Preview  string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed upstream response from %s: %s", e.Endpoint, e.Reason)
}
