package annotate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/voces-project/voces/internal/model"
)

const annotationSystemPrompt = `You annotate community interview turns. For the given turn,
return ONLY a JSON object with exactly these fields:
{
  "functional_analysis": {"role": "<problem_statement|solution_proposal|experience_narration|evaluation|information>"},
  "content_analysis": {"topics": ["<security|health|education|employment|housing|infrastructure|environment|community>", ...]},
  "emotional_analysis": {"primary_emotion": "<fear|anger|sadness|hope|pride|frustration|neutral>", "intensity": <0.0-1.0>},
  "evidence_analysis": {"evidence_type": "<personal_experience|observation|hearsay|opinion>"}
}
Annotate only. Do not summarize, do not add fields, do not add commentary.`

// OpenAIProvider annotates turns through OpenAI's chat completions API
type OpenAIProvider struct {
	client *openai.Client
	config Config
}

// NewOpenAIProvider creates an OpenAI-backed annotator
func NewOpenAIProvider(config Config) (*OpenAIProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// Model returns the configured model, defaulting to gpt-4o-mini
func (p *OpenAIProvider) Model() string {
	if p.config.Model != "" {
		return p.config.Model
	}
	return openai.GPT4oMini
}

// AnnotateTurn asks the model for the four-axis annotation of one turn
func (p *OpenAIProvider) AnnotateTurn(ctx context.Context, speaker, text string) (model.TurnAnnotation, error) {
	timeout := time.Duration(p.config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: p.Model(),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: annotationSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Speaker: %s\nTurn: %s", speaker, text)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.1, // annotation should be as deterministic as the API allows
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return model.TurnAnnotation{}, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return model.TurnAnnotation{}, fmt.Errorf("no response from OpenAI")
	}

	var ann model.TurnAnnotation
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &ann); err != nil {
		return model.TurnAnnotation{}, fmt.Errorf("parse annotation: %w", err)
	}

	ann.Emotional.Intensity = clampIntensity(ann.Emotional.Intensity)
	return ann, nil
}

func clampIntensity(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
