package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/auction-proxy/internal/alt"
	domain "github.com/donaldgifford/auction-proxy/pkg/types"
)

// DefaultLimit is the page size used when the caller omits limit.
const DefaultLimit = 40

// AuctionsHandler serves active auction searches.
type AuctionsHandler struct {
	searcher alt.Searcher
	log      *slog.Logger
}

// NewAuctionsHandler creates a new AuctionsHandler.
func NewAuctionsHandler(s alt.Searcher, log *slog.Logger) *AuctionsHandler {
	if log == nil {
		log = slog.Default()
	}
	return &AuctionsHandler{searcher: s, log: log}
}

// SearchAuctionsInput holds the query string of the search endpoint.
type SearchAuctionsInput struct {
	Query  string `query:"q"      doc:"Free-text search query"      example:"charizard psa 10"`
	Limit  int    `query:"limit"  doc:"Maximum listings to return"  default:"40" minimum:"0"`
	Offset int    `query:"offset" doc:"Number of listings to skip" default:"0"  minimum:"0"`
}

// SearchAuctionsOutput is the response of the search endpoint.
type SearchAuctionsOutput struct {
	Body *domain.SearchResult
}

// Search looks up active auctions upstream and returns normalized listings.
func (h *AuctionsHandler) Search(
	ctx context.Context,
	input *SearchAuctionsInput,
) (*SearchAuctionsOutput, error) {
	result, err := h.searcher.Search(ctx, alt.SearchRequest{
		Query:  input.Query,
		Limit:  input.Limit,
		Offset: input.Offset,
	})
	if err != nil {
		perr := toProxyError(err)
		h.log.Warn("alt auction search failed",
			"query", input.Query,
			"status", perr.GetStatus(),
			"error", err,
		)
		return nil, perr
	}

	return &SearchAuctionsOutput{Body: result}, nil
}

// RegisterAuctionRoutes registers the auction search endpoint with the Huma API.
func RegisterAuctionRoutes(api huma.API, h *AuctionsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "search-alt-auctions",
		Method:      http.MethodGet,
		Path:        "/api/alt-auctions",
		Summary:     "Search active Alt auctions",
		Description: "Queries the first reachable Alt GraphQL endpoint for live auction " +
			"listings and returns them with structured prices and time remaining.",
		Tags:   []string{"auctions"},
		Errors: []int{http.StatusBadGateway, http.StatusInternalServerError},
	}, h.Search)
}
