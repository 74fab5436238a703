package model

import "fmt"

// IssueKind classifies soft validation failures. All of these degrade
// confidence and are collected into reports; none of them abort processing.
type IssueKind string

const (
	IssueMissingTurn       IssueKind = "missing_turn"      // citation points to a nonexistent turn
	IssueQuoteNotFound     IssueKind = "quote_not_found"   // quote absent even under fuzzy matching
	IssueLowRelevance      IssueKind = "low_relevance"     // relevance score under the floor
	IssueSemanticMismatch  IssueKind = "semantic_mismatch" // tag overlap with the insight is weak
	IssueUncitedInsight    IssueKind = "uncited_insight"   // insight arrived with zero citations
	IssueNoPrimaryEvidence IssueKind = "no_primary"        // only supporting/contextual citations
)

// Issue is one recorded quality problem, tied back to its interview/insight/turn
type Issue struct {
	Kind        IssueKind `json:"kind"`
	InterviewID string    `json:"interview_id,omitempty"`
	InsightID   string    `json:"insight_id,omitempty"`
	TurnID      int       `json:"turn_id,omitempty"`
	Message     string    `json:"message"`
}

func (i Issue) String() string {
	if i.TurnID != 0 {
		return fmt.Sprintf("[%s] turn %d: %s", i.Kind, i.TurnID, i.Message)
	}
	return fmt.Sprintf("[%s] %s", i.Kind, i.Message)
}

// InsightQuality is the per-insight quality assessment produced during
// interview-level validation.
type InsightQuality struct {
	InsightType  string   `json:"insight_type"`
	InsightID    string   `json:"insight_id"`
	QualityScore float64  `json:"quality_score"` // 0..1
	CitedTurns   int      `json:"cited_turns"`
	HasPrimary   bool     `json:"has_primary"`
	Issues       []string `json:"issues,omitempty"`
}

// ValidationReport aggregates a validation session. Validity rate is
// valid/total across every citation checked; issues are bucketed by the fixed
// vocabulary the checks emit.
type ValidationReport struct {
	TotalCitations  int     `json:"total_citations"`
	ValidCitations  int     `json:"valid_citations"`
	ValidityRate    float64 `json:"validity_rate"`
	CitedInsights   int     `json:"cited_insights"`
	UncitedInsights int     `json:"uncited_insights"`

	MissingQuotes    int `json:"missing_quotes"`
	LowRelevance     int `json:"low_relevance"`
	SemanticMismatch int `json:"semantic_mismatch"`
	MissingCitations int `json:"missing_citations"`

	Quality []InsightQuality `json:"quality,omitempty"`
	Issues  []string         `json:"issues,omitempty"`
}
