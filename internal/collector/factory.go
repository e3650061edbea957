package collector

import (
	"fmt"
	"os"

	"github.com/gwalsh/redsift/internal/domain"
)

// ModeEnv overrides collector selection: "api", "public", or "mock".
const ModeEnv = "REDSIFT_COLLECTOR_MODE"

// New selects a collector implementation. With credentials present the
// authenticated API client is used; otherwise it falls back to the public
// JSON listings. REDSIFT_COLLECTOR_MODE forces a specific implementation.
func New(creds domain.Credentials) (domain.Collector, error) {
	switch mode := os.Getenv(ModeEnv); mode {
	case "api":
		return NewAPIClient(creds)
	case "public":
		return NewPublicClient(creds.UserAgent)
	case "mock":
		return NewMockClient(), nil
	case "":
		if creds.ClientID != "" && creds.ClientSecret != "" {
			return NewAPIClient(creds)
		}
		return NewPublicClient(creds.UserAgent)
	default:
		return nil, fmt.Errorf("unknown %s: %s (use 'api', 'public', or 'mock')", ModeEnv, mode)
	}
}
