package model

// SemanticTag is a string drawn from the fixed tag taxonomy. Tags are never
// independent entities; they always travel as a set attached to a turn or an
// insight.
type SemanticTag string

// Concern tags
const (
	TagSecurityConcern       SemanticTag = "security_concern"
	TagHealthConcern         SemanticTag = "health_concern"
	TagEconomicConcern       SemanticTag = "economic_concern"
	TagEducationConcern      SemanticTag = "education_concern"
	TagInfrastructureConcern SemanticTag = "infrastructure_concern"
	TagHousingConcern        SemanticTag = "housing_concern"
	TagEnvironmentConcern    SemanticTag = "environment_concern"
	TagCommunityConcern      SemanticTag = "community_concern"
)

// Emotion tags
const (
	TagFearExpression        SemanticTag = "fear_expression"
	TagAngerExpression       SemanticTag = "anger_expression"
	TagSadnessExpression     SemanticTag = "sadness_expression"
	TagHopeExpression        SemanticTag = "hope_expression"
	TagPrideExpression       SemanticTag = "pride_expression"
	TagFrustrationExpression SemanticTag = "frustration_expression"
)

// Evidence tags
const (
	TagPersonalExperience SemanticTag = "personal_experience"
	TagDirectObservation  SemanticTag = "direct_observation"
	TagSecondhandAccount  SemanticTag = "secondhand_account"
	TagOpinionStatement   SemanticTag = "opinion_statement"
)

// Solution tags
const (
	TagSolutionProposal   SemanticTag = "solution_proposal"
	TagImprovementRequest SemanticTag = "improvement_request"
)

// ContributionType classifies how a cited turn relates to its insight
type ContributionType string

const (
	ContributionPrimaryEvidence ContributionType = "primary_evidence"
	ContributionSupporting      ContributionType = "supporting"
	ContributionContextual      ContributionType = "contextual"
	ContributionContradictory   ContributionType = "contradictory"
)

// CitationStatus tracks a citation through validation. Flagged citations are
// retained so the quality trail stays auditable; there is no terminal
// "rejected" state.
type CitationStatus string

const (
	StatusUnvalidated CitationStatus = "unvalidated"
	StatusValidated   CitationStatus = "validated"
	StatusFlagged     CitationStatus = "flagged"
)

// KeyPhrase is a ranked sentence-like segment of a turn. Offsets are byte
// offsets into the original turn text.
type KeyPhrase struct {
	Text       string  `json:"text"`
	StartChar  int     `json:"start_char"`
	EndChar    int     `json:"end_char"`
	Importance float64 `json:"importance"` // 0..1
}

// TurnCitation links an insight to one turn with a quantified relevance.
// TurnID must resolve to an existing turn within the same interview.
type TurnCitation struct {
	TurnID           int              `json:"turn_id"`
	ContributionType ContributionType `json:"contribution_type"`
	RelevanceScore   float64          `json:"relevance_score"` // 0..1
	SpecificElement  string           `json:"specific_element,omitempty"`
	SemanticMatch    []SemanticTag    `json:"semantic_match,omitempty"`
	Status           CitationStatus   `json:"status,omitempty"`
}

// RejectedReference records a candidate turn reference that could not be
// resolved. Rejections never fail the whole insight; they are surfaced to the
// caller instead.
type RejectedReference struct {
	TurnID int    `json:"turn_id"`
	Reason string `json:"reason"`
}

// InsightCitation is one interview-level insight with its evidentiary backing.
// Primary citations carry relevance typically above 0.8, supporting citations
// 0.5-0.8. An insight with zero primary citations is "uncited" and must be
// flagged, never silently dropped.
type InsightCitation struct {
	InterviewID         string              `json:"interview_id"`
	InsightType         string              `json:"insight_type"`
	InsightID           string              `json:"insight_id"`
	Theme               string              `json:"theme,omitempty"`
	PrimaryCitations    []TurnCitation      `json:"primary_citations"`
	SupportingCitations []TurnCitation      `json:"supporting_citations"`
	SynthesisNote       string              `json:"synthesis_note,omitempty"`
	Confidence          float64             `json:"confidence"` // 0..1
	Rejected            []RejectedReference `json:"rejected,omitempty"`
	Generation          string              `json:"generation,omitempty"` // analysis-run id
}

// CitedTurnIDs returns the ids referenced by both citation sets, primary first
func (c *InsightCitation) CitedTurnIDs() []int {
	ids := make([]int, 0, len(c.PrimaryCitations)+len(c.SupportingCitations))
	for _, tc := range c.PrimaryCitations {
		ids = append(ids, tc.TurnID)
	}
	for _, tc := range c.SupportingCitations {
		ids = append(ids, tc.TurnID)
	}
	return ids
}

// IsUncited reports whether the insight has no citations at all
func (c *InsightCitation) IsUncited() bool {
	return len(c.PrimaryCitations) == 0 && len(c.SupportingCitations) == 0
}
