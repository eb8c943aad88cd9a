package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/auction-proxy/internal/alt"
	altMocks "github.com/donaldgifford/auction-proxy/internal/alt/mocks"
	"github.com/donaldgifford/auction-proxy/internal/api/handlers"
	"github.com/donaldgifford/auction-proxy/pkg/logger"
	domain "github.com/donaldgifford/auction-proxy/pkg/types"
)

func newAuctionsAPI(t *testing.T, s alt.Searcher) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t, handlers.APIConfig("test"))
	handlers.RegisterAuctionRoutes(api, handlers.NewAuctionsHandler(s, logger.Discard()))
	return api
}

func TestAuctionsHandler_Search(t *testing.T) {
	t.Parallel()

	result := &domain.SearchResult{
		Endpoint: "https://api.alt.xyz/graphql",
		Total:    1,
		Limit:    40,
		Offset:   0,
		Items: []domain.Listing{{
			ID:           "card-1",
			Title:        "Charizard PSA 9",
			Status:       "ACTIVE",
			ListingType:  "AUCTION",
			CurrentPrice: &domain.Price{Value: 150, Currency: domain.CurrencyUSD},
		}},
	}

	tests := []struct {
		name       string
		target     string
		setupMock  func(*altMocks.MockSearcher)
		wantStatus int
		wantBody   []string
	}{
		{
			name:   "defaults limit and offset",
			target: "/api/alt-auctions?q=charizard",
			setupMock: func(m *altMocks.MockSearcher) {
				m.EXPECT().
					Search(mock.Anything, alt.SearchRequest{Query: "charizard", Limit: 40, Offset: 0}).
					Return(result, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantBody: []string{
				`"endpoint":"https://api.alt.xyz/graphql"`,
				`"currentPrice":{"value":150,"currency":"USD"}`,
				`"timeRemainingSeconds":null`,
			},
		},
		{
			name:   "forwards explicit paging",
			target: "/api/alt-auctions?q=pikachu&limit=10&offset=20",
			setupMock: func(m *altMocks.MockSearcher) {
				m.EXPECT().
					Search(mock.Anything, mock.MatchedBy(func(r alt.SearchRequest) bool {
						return r.Query == "pikachu" && r.Limit == 10 && r.Offset == 20
					})).
					Return(&domain.SearchResult{Limit: 10, Offset: 20, Items: []domain.Listing{}}, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   []string{`"limit":10`, `"offset":20`, `"items":[]`},
		},
		{
			name:   "missing query is allowed",
			target: "/api/alt-auctions",
			setupMock: func(m *altMocks.MockSearcher) {
				m.EXPECT().
					Search(mock.Anything, alt.SearchRequest{Query: "", Limit: 40}).
					Return(&domain.SearchResult{Limit: 40, Items: []domain.Listing{}}, nil).Once()
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "non-numeric limit returns 422",
			target:     "/api/alt-auctions?q=x&limit=abc",
			setupMock:  func(_ *altMocks.MockSearcher) {},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "negative offset returns 422",
			target:     "/api/alt-auctions?q=x&offset=-1",
			setupMock:  func(_ *altMocks.MockSearcher) {},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   []string{`expected number >= 0`},
		},
		{
			name:   "bad upstream response mirrors 403",
			target: "/api/alt-auctions?q=x",
			setupMock: func(m *altMocks.MockSearcher) {
				m.EXPECT().Search(mock.Anything, mock.Anything).Return(nil, &alt.BadResponseError{
					Endpoint:    "https://api.alt.xyz/graphql",
					Status:      http.StatusForbidden,
					ContentType: "text/html",
					Title:       "Attention Required!",
					Preview:     "Sorry, you have been blocked",
				}).Once()
			},
			wantStatus: http.StatusForbidden,
			wantBody: []string{
				`"endpoint":"https://api.alt.xyz/graphql"`,
				`"status":403`,
				`"contentType":"text/html"`,
				`"title":"Attention Required!"`,
				`"preview":"Sorry, you have been blocked"`,
			},
		},
		{
			name:   "bad upstream response with 200 becomes 502",
			target: "/api/alt-auctions?q=x",
			setupMock: func(m *altMocks.MockSearcher) {
				m.EXPECT().Search(mock.Anything, mock.Anything).Return(nil, &alt.BadResponseError{
					Endpoint: "https://alt.xyz/graphql", Status: http.StatusOK, ContentType: "text/html",
				}).Once()
			},
			wantStatus: http.StatusBadGateway,
			wantBody:   []string{`"status":200`, `"preview":""`},
		},
		{
			name:   "upstream error mirrors 400 with details",
			target: "/api/alt-auctions?q=x",
			setupMock: func(m *altMocks.MockSearcher) {
				m.EXPECT().Search(mock.Anything, mock.Anything).Return(nil, &alt.UpstreamError{
					Endpoint: "https://api.alt.xyz/graphql",
					Status:   http.StatusBadRequest,
					Details:  json.RawMessage(`[{"message":"Unknown argument"}]`),
				}).Once()
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   []string{`"details":[{"message":"Unknown argument"}]`},
		},
		{
			name:   "graphql errors with 200 become 502",
			target: "/api/alt-auctions?q=x",
			setupMock: func(m *altMocks.MockSearcher) {
				m.EXPECT().Search(mock.Anything, mock.Anything).Return(nil, &alt.UpstreamError{
					Endpoint: "https://api.alt.xyz/graphql",
					Status:   http.StatusOK,
					Details:  json.RawMessage(`[{"message":"rate limited"}]`),
				}).Once()
			},
			wantStatus: http.StatusBadGateway,
			wantBody:   []string{`"status":200`, `rate limited`},
		},
		{
			name:   "malformed response returns 502",
			target: "/api/alt-auctions?q=x",
			setupMock: func(m *altMocks.MockSearcher) {
				m.EXPECT().Search(mock.Anything, mock.Anything).Return(nil, &alt.MalformedResponseError{
					Endpoint: "https://api.alt.xyz/graphql",
					Status:   http.StatusOK,
					Reason:   "missing data.searchCards",
					Preview:  `{"data":{}}`,
				}).Once()
			},
			wantStatus: http.StatusBadGateway,
			wantBody:   []string{`missing data.searchCards`, `"preview":"{\"data\":{}}"`},
		},
		{
			name:   "all endpoints failed lists attempts",
			target: "/api/alt-auctions?q=x",
			setupMock: func(m *altMocks.MockSearcher) {
				m.EXPECT().Search(mock.Anything, mock.Anything).Return(nil, &alt.AllEndpointsFailedError{
					Attempts: []alt.Attempt{
						{Endpoint: "https://api.alt.xyz/graphql", Err: errors.New("no such host")},
						{Endpoint: "https://alt.xyz/graphql", Err: errors.New("connection refused")},
					},
				}).Once()
			},
			wantStatus: http.StatusBadGateway,
			wantBody: []string{
				`all alt endpoints failed DNS/connection`,
				`{"endpoint":"https://api.alt.xyz/graphql","error":"no such host"}`,
				`{"endpoint":"https://alt.xyz/graphql","error":"connection refused"}`,
			},
		},
		{
			name:   "unexpected error returns 500",
			target: "/api/alt-auctions?q=x",
			setupMock: func(m *altMocks.MockSearcher) {
				m.EXPECT().Search(mock.Anything, mock.Anything).Return(nil, alt.ErrNoEndpoints).Once()
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   []string{`{"error":"no upstream endpoints configured"}`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := altMocks.NewMockSearcher(t)
			tt.setupMock(m)

			resp := newAuctionsAPI(t, m).Get(tt.target)
			require.Equal(t, tt.wantStatus, resp.Code, resp.Body.String())
			for _, want := range tt.wantBody {
				assert.Contains(t, resp.Body.String(), want)
			}
		})
	}
}

func TestAuctionsHandler_NoSchemaLink(t *testing.T) {
	t.Parallel()

	m := altMocks.NewMockSearcher(t)
	m.EXPECT().Search(mock.Anything, mock.Anything).
		Return(&domain.SearchResult{Limit: 40, Items: []domain.Listing{}}, nil).Once()

	resp := newAuctionsAPI(t, m).Get("/api/alt-auctions?q=x")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.NotContains(t, resp.Body.String(), "$schema")
	assert.Empty(t, resp.Header().Get("Link"))
}

// TestAuctionsHandler_EndToEnd runs the real client against a fake upstream.
func TestAuctionsHandler_EndToEnd(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"searchCards":{"total":1,"items":[` +
			`{"id":"card-1","title":"Charizard","price":99.5,"url":"https://alt.xyz/c/1",` +
			`"imageUrl":"https://img/1.jpg","status":"ACTIVE","listingType":"AUCTION",` +
			`"endAt":"2026-03-01T13:30:00Z","bidCount":2}]}}}`))
	}))
	t.Cleanup(upstream.Close)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	client := alt.NewClient([]string{upstream.URL},
		alt.WithNowFunc(func() time.Time { return now }),
		alt.WithLogger(logger.Discard()),
	)

	resp := newAuctionsAPI(t, client).Get("/api/alt-auctions?q=charizard&limit=5")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var got domain.SearchResult
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
	assert.Equal(t, upstream.URL, got.Endpoint)
	assert.Equal(t, 1, got.Total)
	assert.Equal(t, 5, got.Limit)
	require.Len(t, got.Items, 1)
	require.NotNil(t, got.Items[0].TimeRemainingSeconds)
	assert.Equal(t, int64(5400), *got.Items[0].TimeRemainingSeconds)
	assert.Equal(t, "1h 30m", *got.Items[0].TimeRemainingHuman)
}
