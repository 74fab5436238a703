package validate

import (
	"math/rand"
	"strings"
	"testing"
)

func TestQuoteSimilarity_ExactSubstring(t *testing.T) {
	text := "No puedo dormir pensando en los robos que pasan cada noche."

	if sim := QuoteSimilarity("pensando en los robos", text); sim != 1.0 {
		t.Errorf("expected 1.0 for exact substring, got %f", sim)
	}
}

func TestQuoteSimilarity_NormalizationSurvivesFormatting(t *testing.T) {
	text := "Nos   Sentimos\tMUY preocupados\npor la situación."

	if sim := QuoteSimilarity("nos sentimos muy preocupados", text); sim != 1.0 {
		t.Errorf("expected 1.0 after whitespace and case normalization, got %f", sim)
	}
}

func TestQuoteSimilarity_Paraphrase(t *testing.T) {
	// Condensed paraphrase of the actual wording still clears the threshold
	quote := "estamos abandonados"
	text := "nos sentimos completamente abandonados por el estado"

	sim := QuoteSimilarity(quote, text)
	if sim < FuzzyMatchThreshold {
		t.Errorf("expected paraphrase similarity >= %.2f, got %f", FuzzyMatchThreshold, sim)
	}
	if sim >= 1.0 {
		t.Errorf("paraphrase should not score as exact match, got %f", sim)
	}
}

func TestQuoteSimilarity_UnrelatedText(t *testing.T) {
	sim := QuoteSimilarity("zzz qqq xxx www", "el clima estuvo agradable toda la semana")
	if sim >= FuzzyMatchThreshold {
		t.Errorf("unrelated quote should stay below threshold, got %f", sim)
	}
}

func TestQuoteSimilarity_EmptyInputs(t *testing.T) {
	if sim := QuoteSimilarity("", "algún texto"); sim != 0 {
		t.Errorf("empty quote: expected 0, got %f", sim)
	}
	if sim := QuoteSimilarity("algo", ""); sim != 0 {
		t.Errorf("empty text: expected 0, got %f", sim)
	}
}

func TestQuoteSimilarity_QuoteLongerThanText(t *testing.T) {
	sim := QuoteSimilarity("una cita mucho más larga que el propio turno", "una cita")
	if sim < 0 || sim > 1 {
		t.Errorf("similarity %f out of [0,1]", sim)
	}
}

// Property: a quote drawn verbatim from the text always scores 1.0
func TestQuoteSimilarity_VerbatimAlwaysPerfect(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	words := strings.Fields("los vecinos del barrio piden más seguridad y mejores calles porque nadie responde a sus reclamos desde hace años")

	for trial := 0; trial < 50; trial++ {
		start := rng.Intn(len(words) - 2)
		end := start + 2 + rng.Intn(len(words)-start-2)
		quote := strings.Join(words[start:end], " ")
		text := strings.Join(words, " ")

		if sim := QuoteSimilarity(quote, text); sim != 1.0 {
			t.Fatalf("verbatim quote %q scored %f", quote, sim)
		}
	}
}

func TestCharRatio(t *testing.T) {
	if r := charRatio([]rune("abc"), []rune("abc")); r != 1.0 {
		t.Errorf("identical runes: expected 1.0, got %f", r)
	}
	if r := charRatio([]rune("abc"), []rune("xyz")); r != 0 {
		t.Errorf("disjoint runes: expected 0, got %f", r)
	}
	// 2 shared of 4 total
	if r := charRatio([]rune("ab"), []rune("ax")); r != 0.5 {
		t.Errorf("half overlap: expected 0.5, got %f", r)
	}
}
