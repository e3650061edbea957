package collector

import (
	"testing"

	"github.com/gwalsh/redsift/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewAPIClient verifies an authenticated client can be constructed from
// resolved credentials.
func TestNewAPIClient(t *testing.T) {
	c, err := NewAPIClient(domain.Credentials{
		ClientID:     "id",
		ClientSecret: "secret",
		UserAgent:    "redsift/test",
	})
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.NotNil(t, c.client)
	assert.NotNil(t, c.limiter)
}
