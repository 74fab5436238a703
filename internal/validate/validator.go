package validate

import (
	"fmt"
	"strings"
	"sync"

	"github.com/voces-project/voces/internal/extract"
	"github.com/voces-project/voces/internal/model"
)

// RelevanceFloor is the score below which a citation is flagged as weakly
// relevant. Policy constant, tunable.
const RelevanceFloor = 0.3

// Issue message templates. Report() buckets issues by matching these fixed
// prefixes, so the vocabulary must stay small and stable.
const (
	msgQuoteNotFound    = "quote not found"
	msgLowRelevance     = "low relevance"
	msgSemanticMismatch = "semantic mismatch"
	msgNoCitations      = "no citations"
)

// Validator checks citations against ground truth and keeps session-level
// tallies for the final report. Safe for concurrent use, though the usual
// deployment gives each interview task its own validator.
type Validator struct {
	tags *extract.TagExtractor

	mu      sync.Mutex
	total   int
	valid   int
	cited   int
	uncited int
	issues  []string
}

// NewValidator creates a validator sharing the builder's tag vocabulary
func NewValidator(tags *extract.TagExtractor) *Validator {
	if tags == nil {
		tags = extract.NewTagExtractor()
	}
	return &Validator{tags: tags}
}

// ValidateTurnCitation runs the three independent checks against one citation:
// quote fidelity, relevance floor, semantic alignment. No single check is
// fatal to the others; each failure appends a human-readable issue. The
// citation is valid iff no issues were raised.
func (v *Validator) ValidateTurnCitation(c model.TurnCitation, turnText string, insight model.Insight) (bool, []string) {
	var issues []string

	// 1. Existence / quote fidelity
	if c.SpecificElement != "" && !strings.Contains(turnText, c.SpecificElement) {
		if sim := QuoteSimilarity(c.SpecificElement, turnText); sim < FuzzyMatchThreshold {
			issues = append(issues, fmt.Sprintf("%s in turn %d (best similarity %.2f)",
				msgQuoteNotFound, c.TurnID, sim))
		}
	}

	// 2. Relevance floor
	if c.RelevanceScore < RelevanceFloor {
		issues = append(issues, fmt.Sprintf("%s score %.2f for turn %d",
			msgLowRelevance, c.RelevanceScore, c.TurnID))
	}

	// 3. Semantic alignment. Absence of overlap is a warning, not proof of
	// irrelevance - the check is deliberately weak.
	if !semanticallyAligned(c, insight, v.tags) {
		issues = append(issues, fmt.Sprintf("%s: turn %d shares no tags with insight %q",
			msgSemanticMismatch, c.TurnID, insight.InsightID))
	}

	v.record(len(issues) == 0, issues)
	return len(issues) == 0, issues
}

// semanticallyAligned checks for any tag overlap between the citation and the
// insight, falling back to looking for tag topic words in the insight content
func semanticallyAligned(c model.TurnCitation, insight model.Insight, tags *extract.TagExtractor) bool {
	if len(c.SemanticMatch) > 0 {
		return true
	}

	insightTags := tags.InsightTags(insight)
	if len(insightTags) == 0 {
		// Insight itself carries no taxonomy signal; nothing to misalign with
		return true
	}

	// No shared tags: accept if the quoted text at least mentions the
	// insight's theme
	theme := strings.ToLower(strings.ReplaceAll(insight.Theme, "_", " "))
	if theme != "" && strings.Contains(strings.ToLower(c.SpecificElement), theme) {
		return true
	}
	return false
}

// ValidateInsightCitation validates every citation of one insight against the
// interview's turns and returns the citation with statuses updated. Flagged
// citations are retained, never removed.
func (v *Validator) ValidateInsightCitation(c model.InsightCitation, insight model.Insight, turns map[int]model.Turn) model.InsightCitation {
	check := func(set []model.TurnCitation) []model.TurnCitation {
		out := make([]model.TurnCitation, len(set))
		for i, tc := range set {
			turnText := ""
			if turn, ok := turns[tc.TurnID]; ok {
				turnText = turn.Text
			}
			if ok, _ := v.ValidateTurnCitation(tc, turnText, insight); ok {
				tc.Status = model.StatusValidated
			} else {
				tc.Status = model.StatusFlagged
			}
			out[i] = tc
		}
		return out
	}

	c.PrimaryCitations = check(c.PrimaryCitations)
	c.SupportingCitations = check(c.SupportingCitations)
	return c
}

// record updates the session tallies
func (v *Validator) record(ok bool, issues []string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.total++
	if ok {
		v.valid++
	}
	v.issues = append(v.issues, issues...)
}

// recordInsight tallies cited vs uncited insights
func (v *Validator) recordInsight(cited bool, issues []string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if cited {
		v.cited++
	} else {
		v.uncited++
	}
	v.issues = append(v.issues, issues...)
}

// Report summarizes the validation session: overall validity rate plus issues
// bucketed by the fixed message vocabulary the checks emit.
func (v *Validator) Report() model.ValidationReport {
	v.mu.Lock()
	defer v.mu.Unlock()

	report := model.ValidationReport{
		TotalCitations:  v.total,
		ValidCitations:  v.valid,
		CitedInsights:   v.cited,
		UncitedInsights: v.uncited,
		Issues:          append([]string(nil), v.issues...),
	}
	if v.total > 0 {
		report.ValidityRate = float64(v.valid) / float64(v.total)
	}

	for _, issue := range v.issues {
		switch {
		case strings.Contains(issue, msgQuoteNotFound):
			report.MissingQuotes++
		case strings.Contains(issue, msgLowRelevance):
			report.LowRelevance++
		case strings.Contains(issue, msgSemanticMismatch):
			report.SemanticMismatch++
		case strings.Contains(issue, msgNoCitations):
			report.MissingCitations++
		}
	}

	return report
}
