package model

// The structures in this file are the wire contract with the storage and UI
// layers. Field names and nesting must not change, or previously stored
// analysis data stops interoperating.

// TurnCitationMetadata is the per-turn derived metadata handed to storage
type TurnCitationMetadata struct {
	TurnID            int         `json:"turn_id"`
	SemanticTags      []string    `json:"semantic_tags"`
	KeyPhrases        []KeyPhrase `json:"key_phrases"`
	QuotableSegments  []string    `json:"quotable_segments"`
	ContextDependency float64     `json:"context_dependency"` // 0..1, how much the turn leans on surrounding turns
	StandaloneClarity float64     `json:"standalone_clarity"` // 0..1, how well the turn reads in isolation
}

// InterviewInsightCitation is the per-insight storage record
type InterviewInsightCitation struct {
	InterviewID       string          `json:"interview_id"`
	InsightType       string          `json:"insight_type"`
	InsightID         string          `json:"insight_id"`
	CitationData      InsightCitation `json:"citation_data"`
	PrimaryTurnIDs    []int           `json:"primary_turn_ids"`
	SupportingTurnIDs []int           `json:"supporting_turn_ids"`
	ConfidenceScore   float64         `json:"confidence_score"`
}

// CorpusInsightCitation is the corpus-level storage record with the resolved
// citation chain attached.
type CorpusInsightCitation struct {
	InsightID              string        `json:"insight_id"`
	InsightType            string        `json:"insight_type"`
	SupportingInterviewIDs []string      `json:"supporting_interview_ids"`
	Prevalence             float64       `json:"prevalence"`
	CitationChain          CitationChain `json:"citation_chain"`
}
