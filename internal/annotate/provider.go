package annotate

import (
	"context"

	"github.com/voces-project/voces/internal/model"
)

// Provider produces the four-axis annotation for one raw turn. Providers only
// annotate - they never generate synthesis prose, which keeps the evidentiary
// chain free of model-authored claims.
type Provider interface {
	// Name returns the provider name
	Name() string

	// Model returns the model identifier used for cache keying
	Model() string

	// AnnotateTurn annotates one turn's text
	AnnotateTurn(ctx context.Context, speaker, text string) (model.TurnAnnotation, error)
}

// Config holds annotator provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", "keyword", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for hosted providers
	APIKey string

	// BaseURL for OpenAI-compatible endpoints
	BaseURL string

	// Timeout per request, seconds
	Timeout int
}

// ConfigFromModel converts the runtime config section into a provider config
func ConfigFromModel(cfg model.AnnotatorConfig) Config {
	return Config{
		Provider: cfg.Provider,
		Model:    cfg.Model,
		APIKey:   cfg.APIKey,
		BaseURL:  cfg.BaseURL,
		Timeout:  cfg.Timeout,
	}
}
