package annotate

import (
	"context"
	"strings"

	"github.com/voces-project/voces/internal/model"
)

// KeywordProvider is the deterministic offline annotator: fixed keyword tables
// per axis, no network. It exists for air-gapped runs and for tests, and its
// output shape is identical to the hosted providers'.
type KeywordProvider struct{}

// NewKeywordProvider creates the offline annotator
func NewKeywordProvider() *KeywordProvider {
	return &KeywordProvider{}
}

// Name returns the provider name
func (p *KeywordProvider) Name() string { return "keyword" }

// Model returns the rule set version, which plays the role of a model id in
// cache keys
func (p *KeywordProvider) Model() string { return "rules-v1" }

var keywordTopics = map[string][]string{
	"security":       {"robo", "robos", "seguridad", "miedo", "crime", "theft", "police", "policía", "asalto"},
	"health":         {"salud", "hospital", "clínica", "enfermedad", "doctor", "clinic", "sick"},
	"education":      {"escuela", "colegio", "educación", "maestro", "school", "teacher"},
	"employment":     {"trabajo", "empleo", "sueldo", "job", "wage"},
	"housing":        {"vivienda", "alquiler", "casa", "housing", "rent"},
	"infrastructure": {"calle", "camino", "agua", "luz", "road", "water"},
	"environment":    {"basura", "contaminación", "río", "trash", "pollution"},
}

var keywordEmotions = map[string][]string{
	"fear":        {"miedo", "temor", "asustad", "afraid", "scared"},
	"anger":       {"rabia", "enojo", "furios", "angry"},
	"sadness":     {"triste", "pena", "llorar", "sad"},
	"hope":        {"esperanza", "ojalá", "mejorar", "hope"},
	"frustration": {"harto", "cansad", "abandonad", "frustrat", "fed up"},
}

var firstPersonMarkers = []string{
	"yo ", "me ", "mi ", "nos ", "nosotros", "i ", "my ", "we ", "our ",
}

// AnnotateTurn derives the annotation from surface keywords
func (p *KeywordProvider) AnnotateTurn(_ context.Context, _, text string) (model.TurnAnnotation, error) {
	lower := " " + strings.ToLower(text) + " "

	var topics []string
	for topic, words := range keywordTopics {
		for _, w := range words {
			if strings.Contains(lower, w) {
				topics = append(topics, topic)
				break
			}
		}
	}

	emotion := ""
	intensity := 0.0
	for emo, words := range keywordEmotions {
		for _, w := range words {
			if strings.Contains(lower, w) {
				emotion = emo
				intensity = 0.6
				break
			}
		}
		if emotion != "" {
			break
		}
	}
	if strings.Contains(text, "!") && intensity > 0 {
		intensity = 0.8
	}

	evidenceType := model.EvidenceOpinion
	for _, marker := range firstPersonMarkers {
		if strings.Contains(lower, marker) {
			evidenceType = model.EvidencePersonalExperience
			break
		}
	}

	role := "information"
	switch {
	case strings.Contains(lower, "deberían") || strings.Contains(lower, "should") ||
		strings.Contains(lower, "propongo") || strings.Contains(lower, "propose"):
		role = "solution_proposal"
	case len(topics) > 0 && intensity > 0:
		role = "problem_statement"
	}

	return model.TurnAnnotation{
		Functional: model.FunctionalAnalysis{Role: role},
		Content:    model.ContentAnalysis{Topics: topics},
		Emotional:  model.EmotionalAnalysis{PrimaryEmotion: emotion, Intensity: intensity},
		Evidence:   model.EvidenceAnalysis{EvidenceType: evidenceType},
	}, nil
}
