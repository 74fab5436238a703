package model

// InterviewCitation is the corpus-level analogue of TurnCitation: it links a
// cross-interview pattern to one interview's insight by exact ids.
type InterviewCitation struct {
	InterviewID    string  `json:"interview_id"`
	InsightID      string  `json:"insight_id"`
	Theme          string  `json:"theme,omitempty"`
	RelevanceScore float64 `json:"relevance_score"` // taken from the interview's own insight
}

// CorpusInsight is a pattern observed across many interviews. Prevalence is
// always recomputed from the interview snapshot it was derived from, never
// cached stale.
type CorpusInsight struct {
	InsightID            string              `json:"insight_id"`
	InsightType          string              `json:"insight_type"`
	Content              string              `json:"content"`
	SupportingInterviews []InterviewCitation `json:"supporting_interviews"`
	Prevalence           float64             `json:"prevalence"` // count/total_interviews
	Confidence           float64             `json:"confidence"`
}

// CitationChain is the fully resolved corpus -> interview -> turn traceability
// structure with literal turn text at the leaves.
type CitationChain struct {
	InsightID  string               `json:"insight_id"`
	Content    string               `json:"content"`
	Prevalence float64              `json:"prevalence"`
	Interviews []InterviewChainLink `json:"interviews"`
}

// InterviewChainLink is one interview's contribution to a citation chain
type InterviewChainLink struct {
	InterviewID   string          `json:"interview_id"`
	InsightID     string          `json:"insight_id"`
	SynthesisNote string          `json:"synthesis_note,omitempty"`
	Confidence    float64         `json:"confidence"`
	Turns         []TurnChainLink `json:"turns"`
}

// TurnChainLink is a leaf of the citation chain: the literal evidence
type TurnChainLink struct {
	TurnID         int     `json:"turn_id"`
	Speaker        string  `json:"speaker,omitempty"`
	Text           string  `json:"text"`
	Quote          string  `json:"quote,omitempty"`
	RelevanceScore float64 `json:"relevance_score"`
}
