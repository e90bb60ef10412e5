package advisor

import (
	"fmt"
	"strings"
)

// Config selects and configures a provider.
type Config struct {
	// Kind is "mock" (rule based) or "openai".
	Kind          string
	OpenAIKey     string
	OpenAIModel   string
	OpenAIBaseURL string
}

// NewProvider builds the provider named by cfg.Kind.
func NewProvider(cfg Config) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Kind)) {
	case "", "mock", "rules":
		return RuleProvider{}, nil
	case "openai":
		return NewOpenAIProvider(cfg.OpenAIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.Kind)
	}
}
