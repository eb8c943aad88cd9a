// Package alt provides a client for the Alt GraphQL auction search API. It
// tries an ordered list of candidate endpoints, classifies whatever the
// accepted endpoint returns, and normalizes listings into domain types.
package alt

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	domain "github.com/donaldgifford/auction-proxy/pkg/types"
)

const (
	defaultTimeout       = 15 * time.Second
	defaultPreviewLength = 400
	defaultMaxBodyBytes  = 10 << 20

	// DefaultOrigin is sent as the Origin header when browser headers are on.
	DefaultOrigin = "https://alt.xyz"
	// DefaultReferer is sent as the Referer header when browser headers are on.
	DefaultReferer = "https://alt.xyz/"
	// DefaultUserAgent is sent as the User-Agent header when browser headers are on.
	DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
)

// DefaultEndpoints lists the Alt GraphQL endpoints in priority order.
var DefaultEndpoints = []string{
	"https://api.alt.xyz/graphql",
	"https://app.alt.xyz/graphql",
	"https://alt.xyz/graphql",
}

// SearchRequest defines the parameters for an auction search.
type SearchRequest struct {
	Query  string
	Limit  int
	Offset int
}

// Searcher defines the interface for searching active auctions.
type Searcher interface {
	Search(ctx context.Context, req SearchRequest) (*domain.SearchResult, error)
}

// BrowserHeaders are sent with every upstream request to look like the Alt
// web app rather than a script.
type BrowserHeaders struct {
	Origin    string
	Referer   string
	UserAgent string
}

// Client implements Searcher against the Alt GraphQL API.
type Client struct {
	endpoints     []string
	client        *http.Client
	timeout       time.Duration
	headers       *BrowserHeaders
	previewLength int
	maxBodyBytes  int64
	nowFunc       func() time.Time
	log           *slog.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client. Redirect following is
// always disabled on the client actually used.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// WithTimeout sets the per-attempt timeout. It takes precedence over the
// timeout of a client passed with WithHTTPClient.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithBrowserHeaders overrides the browser-identifying headers. Empty fields
// are not sent.
func WithBrowserHeaders(h BrowserHeaders) Option {
	return func(c *Client) {
		c.headers = &h
	}
}

// WithoutBrowserHeaders sends only the JSON content headers.
func WithoutBrowserHeaders() Option {
	return func(c *Client) {
		c.headers = nil
	}
}

// WithPreviewLength sets how many characters of a non-JSON body are kept.
func WithPreviewLength(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.previewLength = n
		}
	}
}

// WithMaxBodyBytes caps how much of an upstream body is read.
func WithMaxBodyBytes(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBodyBytes = n
		}
	}
}

// WithNowFunc overrides the clock used for time-remaining calculations.
func WithNowFunc(f func() time.Time) Option {
	return func(c *Client) {
		c.nowFunc = f
	}
}

// WithLogger sets the logger for attempt diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// NewClient creates a client that tries endpoints in the given order.
func NewClient(endpoints []string, opts ...Option) *Client {
	c := &Client{
		endpoints: append([]string(nil), endpoints...),
		client: &http.Client{
			Timeout:   defaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		headers: &BrowserHeaders{
			Origin:    DefaultOrigin,
			Referer:   DefaultReferer,
			UserAgent: DefaultUserAgent,
		},
		previewLength: defaultPreviewLength,
		maxBodyBytes:  defaultMaxBodyBytes,
		nowFunc:       time.Now,
		log:           slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.client = c.attemptClient()
	return c
}

// Endpoints returns a copy of the candidate endpoints in priority order.
func (c *Client) Endpoints() []string {
	return append([]string(nil), c.endpoints...)
}

// attemptClient returns a shallow copy of the configured client that hands
// 3xx responses back to the caller. A redirect from the upstream usually
// points at a login or splash page, not data.
func (c *Client) attemptClient() *http.Client {
	cp := *c.client
	if c.timeout > 0 {
		cp.Timeout = c.timeout
	}
	cp.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return &cp
}
