package cite

import (
	"fmt"
	"strings"

	"github.com/voces-project/voces/internal/extract"
	"github.com/voces-project/voces/internal/model"
)

// Relevance scoring weights. Policy constants inherited from the original
// system, preserved for behavioral comparability; tunable, not derived from
// data.
const (
	relevanceBase       = 0.5
	relevanceTagWeight  = 0.3 // multiplied by insight/turn tag overlap ratio
	relevanceQuoteBonus = 0.2 // quote is a literal substring of the turn text

	// An insight with zero primary citations is definitionally weak: its
	// confidence is capped here no matter how many supporting citations it has.
	noPrimaryConfidenceCap = 0.3

	// Supporting citations weigh half as much as primary ones in confidence
	supportingWeight = 0.5
)

// Builder constructs InsightCitations from the annotator's raw citation intent.
// It depends on the tag extractor's vocabulary for overlap scoring.
type Builder struct {
	tags *extract.TagExtractor
}

// NewBuilder creates a citation builder
func NewBuilder(tags *extract.TagExtractor) *Builder {
	if tags == nil {
		tags = extract.NewTagExtractor()
	}
	return &Builder{tags: tags}
}

// Build constructs the citation for one insight. Candidate references to
// unknown turns are skipped and recorded in the rejected list plus the issue
// slice - one bad reference never fails the whole insight. An insight with no
// citations at all is returned flagged as uncited, never dropped.
func (b *Builder) Build(interviewID string, insight model.Insight, turns map[int]model.Turn) (model.InsightCitation, []model.Issue) {
	citation := model.InsightCitation{
		InterviewID: interviewID,
		InsightType: insight.InsightType,
		InsightID:   insight.InsightID,
		Theme:       insight.Theme,
	}

	var issues []model.Issue

	if insight.Citations == nil || len(insight.Citations.Details) == 0 {
		issues = append(issues, model.Issue{
			Kind:        model.IssueUncitedInsight,
			InterviewID: interviewID,
			InsightID:   insight.InsightID,
			Message:     fmt.Sprintf("insight %q has no citations", insight.InsightID),
		})
		return citation, issues
	}

	insightTags := b.tags.InsightTags(insight)

	for _, detail := range insight.Citations.Details {
		turn, ok := turns[detail.TurnID]
		if !ok {
			citation.Rejected = append(citation.Rejected, model.RejectedReference{
				TurnID: detail.TurnID,
				Reason: "turn not found in interview",
			})
			issues = append(issues, model.Issue{
				Kind:        model.IssueMissingTurn,
				InterviewID: interviewID,
				InsightID:   insight.InsightID,
				TurnID:      detail.TurnID,
				Message:     fmt.Sprintf("cited turn %d does not exist", detail.TurnID),
			})
			continue
		}

		turnTags := b.tags.ExtractTags(turn.TurnAnnotation)
		shared, overlap := extract.TagOverlap(insightTags, turnTags)

		tc := model.TurnCitation{
			TurnID:           detail.TurnID,
			ContributionType: detail.ContributionType,
			RelevanceScore:   relevanceScore(overlap, detail.Quote, turn.Text),
			SpecificElement:  detail.Quote,
			SemanticMatch:    shared,
			Status:           model.StatusUnvalidated,
		}

		if detail.ContributionType == model.ContributionPrimaryEvidence {
			citation.PrimaryCitations = append(citation.PrimaryCitations, tc)
		} else {
			citation.SupportingCitations = append(citation.SupportingCitations, tc)
		}
	}

	if len(citation.PrimaryCitations) == 0 && !citation.IsUncited() {
		issues = append(issues, model.Issue{
			Kind:        model.IssueNoPrimaryEvidence,
			InterviewID: interviewID,
			InsightID:   insight.InsightID,
			Message:     fmt.Sprintf("insight %q has no primary evidence", insight.InsightID),
		})
	}

	citation.Confidence = confidence(citation)
	citation.SynthesisNote = synthesisNote(insight, citation)

	return citation, issues
}

// relevanceScore implements the fixed relevance formula:
// base 0.5 + 0.3 x tag overlap ratio + 0.2 literal-quote bonus, clamped to [0,1]
func relevanceScore(overlap float64, quote, turnText string) float64 {
	score := relevanceBase + relevanceTagWeight*overlap
	if quote != "" && strings.Contains(turnText, quote) {
		score += relevanceQuoteBonus
	}
	return clamp01(score)
}

// confidence derives the insight-level confidence from its citations: a
// weighted mean of relevance scores with supporting citations at half weight.
// Zero primary citations is a hard gate capping the result at 0.3.
func confidence(c model.InsightCitation) float64 {
	if c.IsUncited() {
		return 0
	}

	var sum, weight float64
	for _, tc := range c.PrimaryCitations {
		sum += tc.RelevanceScore
		weight += 1
	}
	for _, tc := range c.SupportingCitations {
		sum += tc.RelevanceScore * supportingWeight
		weight += supportingWeight
	}

	conf := clamp01(sum / weight)
	if len(c.PrimaryCitations) == 0 && conf > noPrimaryConfidenceCap {
		conf = noPrimaryConfidenceCap
	}
	return conf
}

// synthesisNote writes the default descriptive note explaining how the cited
// turns back the insight. Descriptive metadata only; never used in scoring.
func synthesisNote(insight model.Insight, c model.InsightCitation) string {
	theme := insight.Theme
	if theme == "" {
		theme = insight.InsightType
	}
	return fmt.Sprintf("%q is backed by %d primary and %d supporting turn(s)",
		theme, len(c.PrimaryCitations), len(c.SupportingCitations))
}

// ValidateReferences re-checks every turn reference in a finished citation
// against the known turn set, emitting a missing_turn issue per absent id.
func ValidateReferences(c model.InsightCitation, turns map[int]model.Turn) []model.Issue {
	var issues []model.Issue
	for _, id := range c.CitedTurnIDs() {
		if _, ok := turns[id]; !ok {
			issues = append(issues, model.Issue{
				Kind:        model.IssueMissingTurn,
				InterviewID: c.InterviewID,
				InsightID:   c.InsightID,
				TurnID:      id,
				Message:     fmt.Sprintf("cited turn %d does not exist", id),
			})
		}
	}
	return issues
}

// StorageRecord converts an InsightCitation into the flat per-insight record
// the storage layer expects.
func StorageRecord(c model.InsightCitation) model.InterviewInsightCitation {
	primary := make([]int, 0, len(c.PrimaryCitations))
	for _, tc := range c.PrimaryCitations {
		primary = append(primary, tc.TurnID)
	}
	supporting := make([]int, 0, len(c.SupportingCitations))
	for _, tc := range c.SupportingCitations {
		supporting = append(supporting, tc.TurnID)
	}

	return model.InterviewInsightCitation{
		InterviewID:       c.InterviewID,
		InsightType:       c.InsightType,
		InsightID:         c.InsightID,
		CitationData:      c,
		PrimaryTurnIDs:    primary,
		SupportingTurnIDs: supporting,
		ConfidenceScore:   c.Confidence,
	}
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
