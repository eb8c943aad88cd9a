package alt

import (
	"encoding/json"
	"fmt"
)

// Only live auctions are ever exposed through the proxy.
const (
	statusActive       = "ACTIVE"
	listingTypeAuction = "AUCTION"
)

// searchCardsQuery is the fixed GraphQL document sent to every endpoint.
const searchCardsQuery = `query SearchCards($input: CardSearchInput!) {
  searchCards(input: $input) {
    total
    items {
      id
      title
      price
      url
      imageUrl
      status
      listingType
      endAt
      bidCount
    }
  }
}`

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables graphQLVarsSet `json:"variables"`
}

type graphQLVarsSet struct {
	Input searchInput `json:"input"`
}

type searchInput struct {
	Query       string `json:"query"`
	Status      string `json:"status"`
	ListingType string `json:"listingType"`
	Limit       int    `json:"limit"`
	Offset      int    `json:"offset"`
}

func buildRequestBody(req SearchRequest) ([]byte, error) {
	body, err := json.Marshal(graphQLRequest{
		Query: searchCardsQuery,
		Variables: graphQLVarsSet{
			Input: searchInput{
				Query:       req.Query,
				Status:      statusActive,
				ListingType: listingTypeAuction,
				Limit:       req.Limit,
				Offset:      req.Offset,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("encoding GraphQL request: %w", err)
	}
	return body, nil
}
