package alt

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/donaldgifford/auction-proxy/internal/metrics"
	domain "github.com/donaldgifford/auction-proxy/pkg/types"
)

const tracerName = "github.com/donaldgifford/auction-proxy/internal/alt"

// Search implements Searcher by querying the first reachable endpoint for
// active auctions and normalizing the result.
func (c *Client) Search(ctx context.Context, req SearchRequest) (*domain.SearchResult, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "alt.search")
	defer span.End()
	span.SetAttributes(
		attribute.String("alt.query", req.Query),
		attribute.Int("alt.limit", req.Limit),
		attribute.Int("alt.offset", req.Offset),
	)

	result, err := c.search(ctx, req)
	metrics.SearchOutcomesTotal.WithLabelValues(outcome(err)).Inc()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.String("alt.endpoint", result.Endpoint),
		attribute.Int("alt.items", len(result.Items)),
	)
	metrics.SearchItemsReturned.Observe(float64(len(result.Items)))
	return result, nil
}

func (c *Client) search(ctx context.Context, req SearchRequest) (*domain.SearchResult, error) {
	body, err := buildRequestBody(req)
	if err != nil {
		return nil, err
	}

	resp, endpoint, err := c.post(ctx, body)
	if err != nil {
		return nil, err
	}

	raw, err := readBody(resp, c.maxBodyBytes)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", endpoint, err)
	}

	cards, err := c.classify(endpoint, resp, raw)
	if err != nil {
		return nil, err
	}

	return &domain.SearchResult{
		Endpoint: endpoint,
		Total:    cards.Total,
		Limit:    req.Limit,
		Offset:   req.Offset,
		Items:    ToListings(cards.Items, c.nowFunc()),
	}, nil
}

func outcome(err error) string {
	var (
		badResp   *BadResponseError
		upstream  *UpstreamError
		malformed *MalformedResponseError
		allFailed *AllEndpointsFailedError
	)
	switch {
	case err == nil:
		return metrics.SearchOK
	case errors.As(err, &badResp):
		return metrics.SearchBadResponse
	case errors.As(err, &upstream):
		return metrics.SearchUpstreamError
	case errors.As(err, &malformed):
		return metrics.SearchMalformed
	case errors.As(err, &allFailed):
		return metrics.SearchAllFailed
	default:
		return metrics.SearchOther
	}
}
