package alt

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/donaldgifford/auction-proxy/internal/metrics"
)

// post delivers body to each candidate endpoint in order and returns the
// first HTTP response of any status together with the endpoint that produced
// it. Only transport failures advance to the next candidate.
func (c *Client) post(ctx context.Context, body []byte) (*http.Response, string, error) {
	if len(c.endpoints) == 0 {
		return nil, "", ErrNoEndpoints
	}

	attempts := make([]Attempt, 0, len(c.endpoints))
	for _, endpoint := range c.endpoints {
		resp, err := c.attempt(ctx, endpoint, body)
		if err == nil {
			c.log.Debug("upstream endpoint responded",
				"endpoint", endpoint,
				"status", resp.StatusCode,
				"failed_before", len(attempts),
			)
			return resp, endpoint, nil
		}

		// Caller went away; trying the next endpoint cannot help.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, "", fmt.Errorf("posting to %s: %w", endpoint, ctxErr)
		}

		c.log.Warn("upstream endpoint unreachable",
			"endpoint", endpoint,
			"error", err,
		)
		attempts = append(attempts, Attempt{Endpoint: endpoint, Err: err})
	}

	return nil, "", &AllEndpointsFailedError{Attempts: attempts}
}

func (c *Client) attempt(ctx context.Context, endpoint string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}
	c.setHeaders(req)

	start := time.Now()
	resp, err := c.client.Do(req)
	metrics.UpstreamRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, metrics.OutcomeConnectionError).Inc()
		return nil, err
	}
	metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, metrics.OutcomeResponse).Inc()
	return resp, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if c.headers == nil {
		return
	}
	if c.headers.Origin != "" {
		req.Header.Set("Origin", c.headers.Origin)
	}
	if c.headers.Referer != "" {
		req.Header.Set("Referer", c.headers.Referer)
	}
	if c.headers.UserAgent != "" {
		req.Header.Set("User-Agent", c.headers.UserAgent)
	}
}
