package client

import (
	"context"
	"net/url"
	"strconv"

	"github.com/donaldgifford/auction-proxy/internal/alt"
	domain "github.com/donaldgifford/auction-proxy/pkg/types"
)

// SearchAuctions queries GET /api/alt-auctions.
func (c *Client) SearchAuctions(
	ctx context.Context,
	query string,
	limit, offset int,
) (*domain.SearchResult, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))

	var result domain.SearchResult
	if err := c.get(ctx, "/api/alt-auctions?"+q.Encode(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Search implements alt.Searcher against a running proxy.
func (c *Client) Search(ctx context.Context, req alt.SearchRequest) (*domain.SearchResult, error) {
	return c.SearchAuctions(ctx, req.Query, req.Limit, req.Offset)
}

var _ alt.Searcher = (*Client)(nil)
