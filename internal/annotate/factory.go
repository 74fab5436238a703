package annotate

import (
	"fmt"
	"strings"
)

// NewProvider creates an annotation provider from configuration. An empty
// provider name disables annotation; inputs must then arrive pre-annotated.
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config)

	case "anthropic", "claude":
		return NewAnthropicProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	case "keyword", "offline":
		return NewKeywordProvider(), nil

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown annotator provider: %s (supported: openai, anthropic, ollama, keyword)", config.Provider)
	}
}
