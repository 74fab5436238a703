package validate

import (
	"fmt"

	"github.com/voces-project/voces/internal/model"
)

// Quality scoring weights for one insight's citation set. Primary evidence is
// a hard gate: without it the score is qualityNoPrimary regardless of how many
// supporting citations exist. The remaining bonuses are additive and capped.
const (
	qualityBase         = 0.5
	qualityNoPrimary    = 0.3
	qualityPrimaryBonus = 0.2

	// Up to +0.2 for citing more distinct turns
	qualityDiversityStep = 0.05
	qualityDiversityCap  = 0.2

	// Up to +0.1 for spreading citations across the interview's turn range
	// rather than one clustered moment
	qualitySpreadCap = 0.1
)

// ValidateInterview assesses every insight of an interview: citation validity
// per turn reference plus a quality score per cited insight. Insights with
// zero citations are recorded as issues, never silently skipped. The returned
// citations carry the post-validation statuses (validated or flagged) and are
// what must be persisted; the caller's input slice is left untouched.
func (v *Validator) ValidateInterview(interview model.Interview, citations []model.InsightCitation) (model.ValidationReport, []model.InsightCitation) {
	turns, err := interview.TurnIndex()
	if err != nil {
		// Malformed interviews are rejected upstream; an empty index here
		// just flags every reference as missing.
		turns = map[int]model.Turn{}
	}

	byID := make(map[string]model.Insight, len(interview.Insights))
	for _, insight := range interview.Insights {
		byID[insight.InsightID] = insight
	}

	minTurn, maxTurn := interview.TurnRange()

	var quality []model.InsightQuality
	validated := make([]model.InsightCitation, 0, len(citations))
	for _, c := range citations {
		insight := byID[c.InsightID]

		if c.IsUncited() {
			v.recordInsight(false, []string{
				fmt.Sprintf("%s for insight %q (%s)", msgNoCitations, c.InsightID, c.InsightType),
			})
			quality = append(quality, model.InsightQuality{
				InsightType:  c.InsightType,
				InsightID:    c.InsightID,
				QualityScore: 0,
				Issues:       []string{msgNoCitations},
			})
			validated = append(validated, c)
			continue
		}

		var insightIssues []string
		checked := v.ValidateInsightCitation(c, insight, turns)
		for _, tc := range append(checked.PrimaryCitations, checked.SupportingCitations...) {
			if tc.Status == model.StatusFlagged {
				insightIssues = append(insightIssues, fmt.Sprintf("turn %d flagged", tc.TurnID))
			}
		}
		validated = append(validated, checked)

		distinct := distinctTurns(checked)
		quality = append(quality, model.InsightQuality{
			InsightType:  checked.InsightType,
			InsightID:    checked.InsightID,
			QualityScore: qualityScore(checked, minTurn, maxTurn),
			CitedTurns:   distinct,
			HasPrimary:   len(checked.PrimaryCitations) > 0,
			Issues:       insightIssues,
		})
		v.recordInsight(true, nil)
	}

	report := v.Report()
	report.Quality = quality
	return report, validated
}

// qualityScore implements the fixed quality formula for one cited insight
func qualityScore(c model.InsightCitation, minTurn, maxTurn int) float64 {
	if len(c.PrimaryCitations) == 0 {
		return qualityNoPrimary
	}

	score := qualityBase + qualityPrimaryBonus

	diversity := float64(distinctTurns(c)) * qualityDiversityStep
	if diversity > qualityDiversityCap {
		diversity = qualityDiversityCap
	}
	score += diversity

	score += spreadBonus(c, minTurn, maxTurn)

	if score > 1 {
		score = 1
	}
	return score
}

// distinctTurns counts the unique turns cited across both sets
func distinctTurns(c model.InsightCitation) int {
	seen := make(map[int]bool)
	for _, id := range c.CitedTurnIDs() {
		seen[id] = true
	}
	return len(seen)
}

// spreadBonus rewards citing turns spread across the interview rather than a
// single clustered moment: proportional to the cited span over the full range.
func spreadBonus(c model.InsightCitation, minTurn, maxTurn int) float64 {
	ids := c.CitedTurnIDs()
	if len(ids) < 2 || maxTurn <= minTurn {
		return 0
	}

	lo, hi := ids[0], ids[0]
	for _, id := range ids[1:] {
		if id < lo {
			lo = id
		}
		if id > hi {
			hi = id
		}
	}

	return float64(hi-lo) / float64(maxTurn-minTurn) * qualitySpreadCap
}
