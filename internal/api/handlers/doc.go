package handlers

import (
	"github.com/danielgtaylor/huma/v2"
)

// StatusResponse is the body of the probe endpoints.
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// APIConfig returns the Huma configuration for the proxy API. The $schema
// link is not added to responses so bodies match the documented shape.
func APIConfig(version string) huma.Config {
	cfg := huma.DefaultConfig("Auction Proxy", version)
	cfg.Info.Description = "Normalizing proxy in front of the Alt GraphQL auction search."
	cfg.CreateHooks = nil
	return cfg
}
