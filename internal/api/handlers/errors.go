package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/donaldgifford/auction-proxy/internal/alt"
)

// AttemptBody describes one endpoint that could not be reached.
type AttemptBody struct {
	Endpoint string `json:"endpoint" doc:"Candidate endpoint"`
	Error    string `json:"error"    doc:"Connection-level failure"`
}

// ProxyError is the diagnostic body returned when a search fails. It
// implements huma.StatusError so Huma writes it with its own status.
type ProxyError struct {
	httpStatus int

	Endpoint    string          `json:"endpoint,omitempty"    doc:"Upstream endpoint that produced the response"`
	Message     string          `json:"error"                 doc:"Human-readable failure"`
	Status      int             `json:"status,omitempty"      doc:"Upstream HTTP status"`
	ContentType string          `json:"contentType,omitempty" doc:"Upstream Content-Type"`
	Title       string          `json:"title,omitempty"       doc:"HTML page title, when present"`
	Preview     *string         `json:"preview,omitempty"     doc:"First characters of the upstream body"`
	Details     json.RawMessage `json:"details,omitempty"     doc:"Upstream error payload"`
	Attempts    []AttemptBody   `json:"attempts,omitempty"    doc:"Per-endpoint connection failures"`
}

func (e *ProxyError) Error() string { return e.Message }

// GetStatus returns the HTTP status to respond with.
func (e *ProxyError) GetStatus() int { return e.httpStatus }

// mirrorStatus passes upstream client and server errors through and maps
// everything else to 502.
func mirrorStatus(upstream int) int {
	if upstream >= http.StatusBadRequest && upstream <= 599 {
		return upstream
	}
	return http.StatusBadGateway
}

// toProxyError maps a search failure onto its HTTP representation.
func toProxyError(err error) *ProxyError {
	var (
		badResp   *alt.BadResponseError
		upstream  *alt.UpstreamError
		malformed *alt.MalformedResponseError
		allFailed *alt.AllEndpointsFailedError
	)

	switch {
	case errors.As(err, &badResp):
		return &ProxyError{
			httpStatus:  mirrorStatus(badResp.Status),
			Endpoint:    badResp.Endpoint,
			Message:     err.Error(),
			Status:      badResp.Status,
			ContentType: badResp.ContentType,
			Title:       badResp.Title,
			Preview:     &badResp.Preview,
		}
	case errors.As(err, &upstream):
		return &ProxyError{
			httpStatus: mirrorStatus(upstream.Status),
			Endpoint:   upstream.Endpoint,
			Message:    err.Error(),
			Status:     upstream.Status,
			Details:    upstream.Details,
		}
	case errors.As(err, &malformed):
		return &ProxyError{
			httpStatus: http.StatusBadGateway,
			Endpoint:   malformed.Endpoint,
			Message:    err.Error(),
			Status:     malformed.Status,
			Preview:    &malformed.Preview,
		}
	case errors.As(err, &allFailed):
		attempts := make([]AttemptBody, 0, len(allFailed.Attempts))
		for _, a := range allFailed.Attempts {
			attempts = append(attempts, AttemptBody{Endpoint: a.Endpoint, Error: a.Err.Error()})
		}
		return &ProxyError{
			httpStatus: http.StatusBadGateway,
			Message:    err.Error(),
			Attempts:   attempts,
		}
	default:
		return &ProxyError{
			httpStatus: http.StatusInternalServerError,
			Message:    err.Error(),
		}
	}
}
