// Package domain defines the outward-facing types returned by the auction proxy.
package domain

// CurrencyUSD is the only currency the upstream reports prices in.
const CurrencyUSD = "USD"

// Price is a structured listing price.
type Price struct {
	Value    float64 `json:"value"    doc:"Current price" example:"150"`
	Currency string  `json:"currency" doc:"ISO currency code" example:"USD"`
}

// Listing is a normalized active auction listing.
type Listing struct {
	ID          string  `json:"id"          doc:"Upstream listing ID"`
	Title       string  `json:"title"       doc:"Listing title"`
	URL         string  `json:"url"         doc:"Listing page URL"`
	ImageURL    string  `json:"imageUrl"    doc:"Primary image URL"`
	Status      string  `json:"status"      doc:"Upstream listing status" example:"ACTIVE"`
	ListingType string  `json:"listingType" doc:"Upstream listing type" example:"AUCTION"`
	EndAt       *string `json:"endAt"       doc:"Auction end time (ISO-8601)" required:"false"`
	BidCount    *int    `json:"bidCount"    doc:"Number of bids placed" required:"false"`

	// Derived fields
	CurrentPrice         *Price  `json:"currentPrice"         doc:"Current price, null when unknown" required:"false"`
	TimeRemainingSeconds *int64  `json:"timeRemainingSeconds" doc:"Seconds until the auction ends, never negative" required:"false"`
	TimeRemainingHuman   *string `json:"timeRemainingHuman"   doc:"Time remaining as \"1d 2h 3m\"" required:"false"`
}

// SearchResult is the normalized response of an auction search.
type SearchResult struct {
	Endpoint string    `json:"endpoint" doc:"Upstream endpoint that served the data" example:"https://api.alt.xyz/graphql"`
	Total    int       `json:"total"    doc:"Total matching listings as reported upstream"`
	Limit    int       `json:"limit"    doc:"Requested page size"`
	Offset   int       `json:"offset"   doc:"Requested page offset"`
	Items    []Listing `json:"items"    doc:"Normalized listings"`
}
