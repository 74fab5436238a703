package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/voces-project/voces/internal/annotate"
	"github.com/voces-project/voces/internal/cache"
	"github.com/voces-project/voces/internal/cite"
	"github.com/voces-project/voces/internal/extract"
	"github.com/voces-project/voces/internal/model"
	"github.com/voces-project/voces/internal/validate"
)

// Pipeline orchestrates one interview's analysis: annotate (optional) ->
// extract tags/phrases -> build citations -> validate. Interviews are
// independent of each other; a fresh validator is created per interview so
// parallel tasks share no mutable state.
type Pipeline struct {
	tags      *extract.TagExtractor
	builder   *cite.Builder
	annotator *annotate.Service // nil when annotation is disabled
	config    *model.Config

	// generation identifies this analysis run. Citations are append-only:
	// re-running produces a new generation, never an in-place edit.
	generation string
}

// NewPipeline creates a pipeline from configuration
func NewPipeline(cfg *model.Config) (*Pipeline, error) {
	tags := extract.NewTagExtractor()

	var annotator *annotate.Service
	provider, err := annotate.NewProvider(annotate.ConfigFromModel(cfg.Annotator))
	if err != nil {
		return nil, fmt.Errorf("annotator: %w", err)
	}
	if provider != nil {
		var c cache.Cache
		if cfg.Cache.Enabled {
			dir := cfg.Cache.Dir
			if dir == "" {
				if home, err := os.UserHomeDir(); err == nil {
					dir = filepath.Join(home, ".voces", "cache")
				}
			}
			if dir != "" {
				c = cache.NewLayeredCache(cfg.Cache.MemoryTTL, dir, cfg.Cache.DiskTTL)
			}
		}
		annotator = annotate.NewService(provider, c, cfg.Annotator.RequestsPerSecond, cfg.Annotator.BurstSize)
	}

	return &Pipeline{
		tags:       tags,
		builder:    cite.NewBuilder(tags),
		annotator:  annotator,
		config:     cfg,
		generation: uuid.NewString(),
	}, nil
}

// Generation returns this run's id
func (p *Pipeline) Generation() string {
	return p.generation
}

// InterviewResult is the complete analysis output for one interview
type InterviewResult struct {
	InterviewID      string                           `json:"interview_id"`
	Generation       string                           `json:"generation"`
	TurnMetadata     []model.TurnCitationMetadata     `json:"turn_metadata"`
	InsightCitations []model.InterviewInsightCitation `json:"insight_citations"`
	Validation       model.ValidationReport           `json:"validation"`
	Issues           []model.Issue                    `json:"issues,omitempty"`
}

// AnalyzeInterview runs the full per-interview analysis. Malformed input
// (missing interview id, duplicate turn ids, an insight without a type) is the
// only fatal condition and aborts this interview alone; every quality problem
// is a recorded issue instead.
func (p *Pipeline) AnalyzeInterview(ctx context.Context, interview model.Interview) (*InterviewResult, error) {
	if interview.ID == "" {
		return nil, model.ErrMissingInterviewID
	}
	for _, insight := range interview.Insights {
		if err := insight.Validate(); err != nil {
			return nil, fmt.Errorf("interview %s: %w", interview.ID, err)
		}
	}

	// Optional annotation for turns that arrived raw
	if p.annotator != nil {
		if err := p.annotator.AnnotateInterview(ctx, &interview); err != nil {
			return nil, fmt.Errorf("interview %s: %w", interview.ID, err)
		}
	}

	turns, err := interview.TurnIndex()
	if err != nil {
		return nil, err
	}

	result := &InterviewResult{
		InterviewID: interview.ID,
		Generation:  p.generation,
	}

	// 1. Per-turn tag and phrase extraction
	for _, turn := range interview.Turns {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result.TurnMetadata = append(result.TurnMetadata, p.tags.BuildTurnMetadata(turn))
	}

	// 2. Citation construction per insight
	var citations []model.InsightCitation
	for _, insight := range interview.Insights {
		citation, issues := p.builder.Build(interview.ID, insight, turns)
		citation.Generation = p.generation
		citations = append(citations, citation)
		result.Issues = append(result.Issues, issues...)
	}

	// 3. Validation, fresh validator per interview. The validated citations
	// carry the final statuses and are what gets persisted.
	validator := validate.NewValidator(p.tags)
	report, validated := validator.ValidateInterview(interview, citations)
	result.Validation = report

	for _, citation := range validated {
		result.InsightCitations = append(result.InsightCitations, cite.StorageRecord(citation))
	}

	return result, nil
}

// Citations extracts the InsightCitations back out of a result, as the corpus
// aggregator consumes them
func (r *InterviewResult) Citations() []model.InsightCitation {
	citations := make([]model.InsightCitation, 0, len(r.InsightCitations))
	for _, record := range r.InsightCitations {
		citations = append(citations, record.CitationData)
	}
	return citations
}
