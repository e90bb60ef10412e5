package vision

import (
	"context"
	"fmt"
	"strings"
)

// NewProvider builds the provider named by kind: "mock" or "google".
func NewProvider(ctx context.Context, kind, googleAPIKey string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", "mock":
		return MockProvider{}, nil
	case "google":
		return NewGoogleProvider(ctx, googleAPIKey)
	default:
		return nil, fmt.Errorf("unknown vision provider %q", kind)
	}
}
