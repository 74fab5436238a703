package annotate

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/voces-project/voces/internal/cache"
	"github.com/voces-project/voces/internal/model"
)

// Service wraps a provider with response caching and request rate limiting.
// The cache key binds provider, model, and turn text, so edited transcripts
// and annotator switches both miss cleanly.
type Service struct {
	provider Provider
	cache    cache.Cache
	limiter  *rate.Limiter
}

// NewService creates an annotation service. Cache may be nil (no caching);
// requestsPerSecond <= 0 disables rate limiting.
func NewService(provider Provider, c cache.Cache, requestsPerSecond float64, burst int) *Service {
	var limiter *rate.Limiter
	if requestsPerSecond > 0 {
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
	}
	return &Service{
		provider: provider,
		cache:    c,
		limiter:  limiter,
	}
}

// Provider exposes the wrapped provider (nil when annotation is disabled)
func (s *Service) Provider() Provider {
	return s.provider
}

// AnnotateTurn returns the annotation for one turn, serving from cache when
// possible and rate-limiting actual provider calls.
func (s *Service) AnnotateTurn(ctx context.Context, speaker, text string) (model.TurnAnnotation, error) {
	if s.provider == nil {
		return model.TurnAnnotation{}, fmt.Errorf("no annotation provider configured")
	}

	key := cache.AnnotationKey(s.provider.Name(), s.provider.Model(), text)
	if s.cache != nil {
		if data, found := s.cache.Get(key); found {
			var ann model.TurnAnnotation
			if err := json.Unmarshal(data, &ann); err == nil {
				return ann, nil
			}
			// Corrupt entry: fall through to a fresh call
			_ = s.cache.Delete(key)
		}
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return model.TurnAnnotation{}, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	ann, err := s.provider.AnnotateTurn(ctx, speaker, text)
	if err != nil {
		return model.TurnAnnotation{}, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(ann); err == nil {
			_ = s.cache.Set(key, data, 0)
		}
	}

	return ann, nil
}

// AnnotateInterview fills in annotations for every turn that lacks one.
// Pre-annotated turns are left untouched.
func (s *Service) AnnotateInterview(ctx context.Context, interview *model.Interview) error {
	for i := range interview.Turns {
		turn := &interview.Turns[i]
		if isAnnotated(turn.TurnAnnotation) {
			continue
		}
		ann, err := s.AnnotateTurn(ctx, turn.Speaker, turn.Text)
		if err != nil {
			return fmt.Errorf("annotate turn %d: %w", turn.ID, err)
		}
		turn.TurnAnnotation = ann
	}
	return nil
}

// isAnnotated reports whether any axis carries a value
func isAnnotated(ann model.TurnAnnotation) bool {
	return ann.Functional.Role != "" ||
		len(ann.Content.Topics) > 0 ||
		ann.Emotional.PrimaryEmotion != "" ||
		ann.Evidence.EvidenceType != ""
}
