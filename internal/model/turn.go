package model

import "fmt"

// Turn represents one utterance by one speaker within an interview.
// Turns and their annotations are produced upstream and are read-only here.
type Turn struct {
	ID      int    `json:"turn_id"`
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
	TurnAnnotation
}

// TurnAnnotation bundles the four independent annotation axes attached to a turn.
// Modeling each axis explicitly (rather than as nested maps) removes a whole
// class of missing-key errors at the boundary with the annotator.
type TurnAnnotation struct {
	Functional FunctionalAnalysis `json:"functional_analysis"`
	Content    ContentAnalysis    `json:"content_analysis"`
	Emotional  EmotionalAnalysis  `json:"emotional_analysis"`
	Evidence   EvidenceAnalysis   `json:"evidence_analysis"`
}

// FunctionalAnalysis describes the conversational role of a turn
type FunctionalAnalysis struct {
	Role string `json:"role,omitempty"` // e.g. "problem_statement", "solution_proposal"
}

// ContentAnalysis lists the topics a turn touches
type ContentAnalysis struct {
	Topics []string `json:"topics,omitempty"`
}

// EmotionalAnalysis captures the dominant emotion and its intensity
type EmotionalAnalysis struct {
	PrimaryEmotion string  `json:"primary_emotion,omitempty"`
	Intensity      float64 `json:"intensity,omitempty"` // 0..1
}

// EvidenceAnalysis classifies what kind of evidence a turn offers
type EvidenceAnalysis struct {
	EvidenceType string `json:"evidence_type,omitempty"` // e.g. "personal_experience"
}

// Evidence type values produced by the annotator
const (
	EvidencePersonalExperience = "personal_experience"
	EvidenceObservation        = "observation"
	EvidenceHearsay            = "hearsay"
	EvidenceOpinion            = "opinion"
)

// Interview is one annotated conversation: its turns plus the interview-level
// insights derived from them.
type Interview struct {
	ID       string    `json:"interview_id"`
	Turns    []Turn    `json:"turns"`
	Insights []Insight `json:"insights,omitempty"`
}

// TurnIndex builds a lookup from turn id to turn. Duplicate turn ids are a
// malformed input and abort processing of this interview only.
func (iv *Interview) TurnIndex() (map[int]Turn, error) {
	index := make(map[int]Turn, len(iv.Turns))
	for _, turn := range iv.Turns {
		if _, exists := index[turn.ID]; exists {
			return nil, fmt.Errorf("interview %s: %w: turn %d", iv.ID, ErrDuplicateTurnID, turn.ID)
		}
		index[turn.ID] = turn
	}
	return index, nil
}

// TurnRange returns the lowest and highest turn id in the interview.
// Used by quality scoring to measure how widely citations spread.
func (iv *Interview) TurnRange() (min, max int) {
	if len(iv.Turns) == 0 {
		return 0, 0
	}
	min, max = iv.Turns[0].ID, iv.Turns[0].ID
	for _, turn := range iv.Turns[1:] {
		if turn.ID < min {
			min = turn.ID
		}
		if turn.ID > max {
			max = turn.ID
		}
	}
	return min, max
}
