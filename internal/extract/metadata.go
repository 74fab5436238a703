package extract

import (
	"strings"

	"github.com/voces-project/voces/internal/model"
)

// Quotable segment bounds: long enough to carry meaning, short enough to quote
const (
	quotableMinChars      = 40
	quotableMaxChars      = 280
	quotableMinImportance = 0.6
)

// Leading words that signal a segment depends on surrounding context to be
// understood. Interviews in this corpus are Spanish-first with occasional
// English, so both are covered.
var contextMarkers = []string{
	"eso ", "esto ", "eso,", "esto,", "pero ", "y ", "también ", "porque ",
	"por eso ", "that ", "it ", "but ", "and ", "also ", "because ", "so ",
}

// BuildTurnMetadata produces the full per-turn metadata record handed to the
// storage layer: tags, ranked key phrases, quotable segments, and the two
// context heuristics.
func (e *TagExtractor) BuildTurnMetadata(turn model.Turn) model.TurnCitationMetadata {
	tags := e.ExtractTags(turn.TurnAnnotation)
	phrases := e.ExtractKeyPhrases(turn.Text, turn.TurnAnnotation)

	tagStrings := make([]string, len(tags))
	for i, t := range tags {
		tagStrings[i] = string(t)
	}

	dependency := contextDependency(turn.Text)

	return model.TurnCitationMetadata{
		TurnID:            turn.ID,
		SemanticTags:      tagStrings,
		KeyPhrases:        phrases,
		QuotableSegments:  quotableSegments(phrases),
		ContextDependency: dependency,
		StandaloneClarity: clamp01(1 - dependency),
	}
}

// quotableSegments keeps key phrases that can stand alone as quotes
func quotableSegments(phrases []model.KeyPhrase) []string {
	var segments []string
	for _, p := range phrases {
		n := len(p.Text)
		if n < quotableMinChars || n > quotableMaxChars {
			continue
		}
		if p.Importance < quotableMinImportance {
			continue
		}
		segments = append(segments, p.Text)
	}
	return segments
}

// contextDependency estimates how much the turn leans on surrounding turns:
// the fraction of segments that open with a context-dependent connective.
// A weak heuristic by construction; consumers treat it as a hint.
func contextDependency(text string) float64 {
	segments := splitSegments(text)
	if len(segments) == 0 {
		return 0
	}

	dependent := 0
	for _, seg := range segments {
		lower := strings.ToLower(seg.text)
		for _, marker := range contextMarkers {
			if strings.HasPrefix(lower, marker) {
				dependent++
				break
			}
		}
	}

	return float64(dependent) / float64(len(segments))
}
