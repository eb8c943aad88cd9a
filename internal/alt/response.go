package alt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// RawListing is a single item as returned by the searchCards query.
type RawListing struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Price       *float64 `json:"price"`
	URL         string   `json:"url"`
	ImageURL    string   `json:"imageUrl"`
	Status      string   `json:"status"`
	ListingType string   `json:"listingType"`
	EndAt       *string  `json:"endAt"`
	BidCount    *int     `json:"bidCount"`
}

// SearchCards is the searchCards payload inside the GraphQL data object.
type SearchCards struct {
	Total int
	Items []RawListing
}

type envelope struct {
	Data   *envelopeData   `json:"data"`
	Errors json.RawMessage `json:"errors"`
}

type envelopeData struct {
	SearchCards *rawSearchCards `json:"searchCards"`
}

type rawSearchCards struct {
	Total *int         `json:"total"`
	Items []RawListing `json:"items"`
}

// readBody reads at most limit bytes of the response body and closes it.
func readBody(resp *http.Response, limit int64) ([]byte, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return body, nil
}

// classify inspects the accepted response and either returns the decoded
// searchCards payload or a typed error describing why it cannot be used.
func (c *Client) classify(endpoint string, resp *http.Response, body []byte) (*SearchCards, error) {
	contentType := resp.Header.Get("Content-Type")

	if !isJSON(contentType) {
		return nil, &BadResponseError{
			Endpoint:    endpoint,
			Status:      resp.StatusCode,
			ContentType: contentType,
			Title:       htmlTitle(body),
			Preview:     preview(body, c.previewLength),
		}
	}

	var env envelope
	decodeErr := json.Unmarshal(body, &env)

	if !isSuccess(resp.StatusCode) {
		var details json.RawMessage
		if decodeErr == nil && hasErrors(env.Errors) {
			details = env.Errors
		} else {
			details = rawOrString(body, c.previewLength)
		}
		return nil, &UpstreamError{Endpoint: endpoint, Status: resp.StatusCode, Details: details}
	}

	if decodeErr != nil {
		return nil, &MalformedResponseError{
			Endpoint: endpoint,
			Status:   resp.StatusCode,
			Reason:   "decoding GraphQL envelope: " + decodeErr.Error(),
			Preview:  preview(body, c.previewLength),
		}
	}

	if hasErrors(env.Errors) {
		return nil, &UpstreamError{Endpoint: endpoint, Status: resp.StatusCode, Details: env.Errors}
	}

	malformed := func(reason string) error {
		return &MalformedResponseError{
			Endpoint: endpoint,
			Status:   resp.StatusCode,
			Reason:   reason,
			Preview:  preview(body, c.previewLength),
		}
	}

	switch {
	case env.Data == nil:
		return nil, malformed("missing data")
	case env.Data.SearchCards == nil:
		return nil, malformed("missing data.searchCards")
	case env.Data.SearchCards.Total == nil:
		return nil, malformed("missing data.searchCards.total")
	}

	items := env.Data.SearchCards.Items
	if items == nil {
		items = []RawListing{}
	}
	return &SearchCards{Total: *env.Data.SearchCards.Total, Items: items}, nil
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

// hasErrors reports whether the envelope carried an errors member. Any value
// other than null counts, including an empty list.
func hasErrors(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// rawOrString returns body unchanged when it is valid JSON, otherwise a JSON
// string holding a preview of it.
func rawOrString(body []byte, n int) json.RawMessage {
	if json.Valid(body) {
		return json.RawMessage(body)
	}
	quoted, err := json.Marshal(preview(body, n))
	if err != nil {
		return nil
	}
	return quoted
}

// preview returns at most n characters of body.
func preview(body []byte, n int) string {
	runes := []rune(string(body))
	if len(runes) <= n {
		return string(runes)
	}
	return string(runes[:n])
}

// htmlTitle extracts the <title> of an HTML page, or "" if there is none.
func htmlTitle(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}
