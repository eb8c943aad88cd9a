package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/donaldgifford/auction-proxy/internal/alt"
)

func TestMirrorStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		upstream int
		want     int
	}{
		{upstream: 200, want: http.StatusBadGateway},
		{upstream: 302, want: http.StatusBadGateway},
		{upstream: 400, want: 400},
		{upstream: 403, want: 403},
		{upstream: 429, want: 429},
		{upstream: 503, want: 503},
		{upstream: 0, want: http.StatusBadGateway},
		{upstream: 999, want: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.upstream), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, mirrorStatus(tt.upstream))
		})
	}
}

func TestToProxyError_Wrapped(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("searching: %w", &alt.UpstreamError{Endpoint: "https://api.alt.xyz/graphql", Status: 401})
	perr := toProxyError(err)

	assert.Equal(t, http.StatusUnauthorized, perr.GetStatus())
	assert.Equal(t, "https://api.alt.xyz/graphql", perr.Endpoint)
	assert.Equal(t, err.Error(), perr.Error())
}

func TestToProxyError_Unknown(t *testing.T) {
	t.Parallel()

	perr := toProxyError(errors.New("reading body: unexpected EOF"))

	assert.Equal(t, http.StatusInternalServerError, perr.GetStatus())
	assert.Equal(t, "reading body: unexpected EOF", perr.Message)
	assert.Empty(t, perr.Endpoint)
	assert.Nil(t, perr.Preview)
	assert.Nil(t, perr.Attempts)
}
