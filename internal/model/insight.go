package model

import "fmt"

// Insight is an analytical claim derived from a whole interview, e.g. a stated
// priority or a recurring narrative, together with the annotator's raw citation
// intent (which turns it believes support the claim).
type Insight struct {
	InsightType        string        `json:"insight_type"` // "priority", "narrative", ...
	InsightID          string        `json:"insight_id"`
	Theme              string        `json:"theme"`
	Content            string        `json:"content,omitempty"`
	EmotionalIntensity float64       `json:"emotional_intensity,omitempty"`
	Citations          *RawCitations `json:"citations,omitempty"`
}

// Insight types produced upstream
const (
	InsightTypePriority  = "priority"
	InsightTypeNarrative = "narrative"
)

// Validate checks the fatal malformed-input conditions for an insight.
// Soft quality problems (no citations, weak overlap) are not errors here.
func (i *Insight) Validate() error {
	if i.InsightType == "" {
		return fmt.Errorf("insight %q: %w", i.InsightID, ErrMissingInsightType)
	}
	return nil
}

// RawCitations is the annotator's unverified citation intent for one insight
type RawCitations struct {
	TurnIDs []int            `json:"turn_ids"`
	Details []CitationDetail `json:"citation_details"`
}

// CitationDetail is one candidate turn reference as emitted by the annotator
type CitationDetail struct {
	TurnID           int              `json:"turn_id"`
	ContributionType ContributionType `json:"contribution_type"`
	Quote            string           `json:"quote,omitempty"`
	Reason           string           `json:"reason,omitempty"`
}
