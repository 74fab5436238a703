package extract

import (
	"sort"
	"strings"

	"github.com/voces-project/voces/internal/model"
)

// Key phrase scoring weights. These are heuristic, tunable parameters carried
// over from the original scoring policy - a ranking aid, not a proof of
// relevance.
const (
	phraseBaseImportance  = 0.5
	phraseIntensityWeight = 0.2 // multiplied by emotional intensity
	phraseTopicBonus      = 0.2 // segment mentions one of the turn's topics
	phraseExperienceBonus = 0.1 // turn reports personal experience

	minSegmentChars = 20
	maxKeyPhrases   = 5
)

// segment is a sentence-like slice of the turn text with its byte offsets
type segment struct {
	text  string
	start int
	end   int
}

// ExtractKeyPhrases splits the turn text into sentence-like segments, scores
// each against the turn's annotation, and returns the top 5 by descending
// importance. Ties keep original order (stable sort).
func (e *TagExtractor) ExtractKeyPhrases(text string, ann model.TurnAnnotation) []model.KeyPhrase {
	segments := splitSegments(text)
	if len(segments) == 0 {
		return nil
	}

	phrases := make([]model.KeyPhrase, 0, len(segments))
	for _, seg := range segments {
		phrases = append(phrases, model.KeyPhrase{
			Text:       seg.text,
			StartChar:  seg.start,
			EndChar:    seg.end,
			Importance: scoreSegment(seg.text, ann),
		})
	}

	sort.SliceStable(phrases, func(i, j int) bool {
		return phrases[i].Importance > phrases[j].Importance
	})

	if len(phrases) > maxKeyPhrases {
		phrases = phrases[:maxKeyPhrases]
	}
	return phrases
}

// scoreSegment applies the importance heuristic to one segment
func scoreSegment(text string, ann model.TurnAnnotation) float64 {
	score := phraseBaseImportance
	score += ann.Emotional.Intensity * phraseIntensityWeight

	lower := strings.ToLower(text)
	for _, topic := range ann.Content.Topics {
		if containsTopicKeyword(lower, topic) {
			score += phraseTopicBonus
			break
		}
	}

	if ann.Evidence.EvidenceType == model.EvidencePersonalExperience {
		score += phraseExperienceBonus
	}

	return clamp01(score)
}

// topicKeywords maps a topic to surface words that signal it in either of the
// interview languages. The topic name itself is always checked too.
var topicKeywords = map[string][]string{
	"security":       {"seguridad", "robo", "robos", "miedo", "crime", "theft", "police", "policía"},
	"health":         {"salud", "hospital", "clínica", "doctor", "enfermedad", "clinic", "illness"},
	"education":      {"educación", "escuela", "colegio", "school", "maestro", "teacher"},
	"employment":     {"trabajo", "empleo", "sueldo", "job", "wage", "salary"},
	"housing":        {"vivienda", "casa", "alquiler", "housing", "rent"},
	"infrastructure": {"calle", "camino", "agua", "luz", "road", "water", "electricity"},
	"environment":    {"basura", "contaminación", "río", "trash", "pollution", "river"},
}

// containsTopicKeyword checks the segment for the topic name or any of its
// known surface words
func containsTopicKeyword(lowerSegment, topic string) bool {
	topic = normalizeAxisValue(topic)
	if topic == "" {
		return false
	}
	if strings.Contains(lowerSegment, strings.ReplaceAll(topic, "_", " ")) {
		return true
	}
	for _, kw := range topicKeywords[topic] {
		if strings.Contains(lowerSegment, kw) {
			return true
		}
	}
	return false
}

// splitSegments splits text on sentence terminators (. ! ?), tracking byte
// offsets and discarding fragments under minSegmentChars.
func splitSegments(text string) []segment {
	var segments []segment
	start := 0

	for i, r := range text {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		seg := strings.TrimSpace(text[start : i+1])
		if len(seg) >= minSegmentChars {
			// Recompute offsets against the trimmed segment
			segStart := start + strings.Index(text[start:i+1], seg)
			segments = append(segments, segment{
				text:  seg,
				start: segStart,
				end:   segStart + len(seg),
			})
		}
		start = i + 1
	}

	// Trailing text without a terminator still counts if long enough
	if start < len(text) {
		seg := strings.TrimSpace(text[start:])
		if len(seg) >= minSegmentChars {
			segStart := start + strings.Index(text[start:], seg)
			segments = append(segments, segment{
				text:  seg,
				start: segStart,
				end:   segStart + len(seg),
			})
		}
	}

	return segments
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
