package corpus

import (
	"fmt"
	"sort"
	"strings"

	"github.com/voces-project/voces/internal/model"
)

// corpusConfidenceCap bounds the confidence of any corpus pattern. The
// confidence function min(cap, prevalence x 2) is a deliberately simple,
// monotone, saturating policy choice, not a statistically derived estimator.
const (
	corpusConfidenceCap        = 0.9
	corpusConfidenceMultiplier = 2.0
)

// themeEntry records one interview's contribution to a theme
type themeEntry struct {
	interviewID string
	insight     model.Insight
}

// Aggregator indexes many interviews' finished citation data by normalized
// theme and derives cross-interview patterns. It is an explicit value built
// per analysis run - never shared ambient state - and must see every
// interview before prevalence means anything (the fan-in barrier).
type Aggregator struct {
	interviewIDs []string
	themes       map[string][]themeEntry
	citations    map[string]map[string]model.InsightCitation // interview id -> insight id
	turns        map[string]map[int]model.Turn               // interview id -> turn id
}

// NewAggregator creates an empty corpus aggregator
func NewAggregator() *Aggregator {
	return &Aggregator{
		themes:    make(map[string][]themeEntry),
		citations: make(map[string]map[string]model.InsightCitation),
		turns:     make(map[string]map[int]model.Turn),
	}
}

// AddInterview indexes one interview's insights and citation data. Interviews
// without an id are malformed; duplicate ids replace nothing and error out.
func (a *Aggregator) AddInterview(interview model.Interview, citations []model.InsightCitation) error {
	if interview.ID == "" {
		return model.ErrMissingInterviewID
	}
	if _, exists := a.citations[interview.ID]; exists {
		return fmt.Errorf("interview %s already indexed", interview.ID)
	}

	turnIndex, err := interview.TurnIndex()
	if err != nil {
		return err
	}

	a.interviewIDs = append(a.interviewIDs, interview.ID)
	a.turns[interview.ID] = turnIndex

	byID := make(map[string]model.InsightCitation, len(citations))
	for _, c := range citations {
		byID[c.InsightID] = c
	}
	a.citations[interview.ID] = byID

	for _, insight := range interview.Insights {
		key := NormalizeTheme(insight.Theme)
		if key == "" {
			continue
		}
		a.themes[key] = append(a.themes[key], themeEntry{
			interviewID: interview.ID,
			insight:     insight,
		})
	}

	return nil
}

// TotalInterviews returns the size of the current corpus snapshot
func (a *Aggregator) TotalInterviews() int {
	return len(a.interviewIDs)
}

// FindCommonPriorities returns a CorpusInsight for every priority theme whose
// prevalence meets minPrevalence. Prevalence is recomputed from the current
// interview count on every call; nothing is cached. Results are ordered by
// descending prevalence, then theme.
func (a *Aggregator) FindCommonPriorities(minPrevalence float64) []model.CorpusInsight {
	total := len(a.interviewIDs)
	if total == 0 {
		return nil
	}

	var insights []model.CorpusInsight
	for theme, entries := range a.themes {
		// One vote per interview, even if a theme recurs within it
		byInterview := make(map[string]themeEntry, len(entries))
		for _, entry := range entries {
			if entry.insight.InsightType != model.InsightTypePriority {
				continue
			}
			if _, seen := byInterview[entry.interviewID]; !seen {
				byInterview[entry.interviewID] = entry
			}
		}

		prevalence := float64(len(byInterview)) / float64(total)
		if len(byInterview) == 0 || prevalence < minPrevalence {
			continue
		}

		supporting := make([]model.InterviewCitation, 0, len(byInterview))
		for id, entry := range byInterview {
			supporting = append(supporting, model.InterviewCitation{
				InterviewID: id,
				InsightID:   entry.insight.InsightID,
				Theme:       entry.insight.Theme,
				// Relevance comes from the interview's own insight
				RelevanceScore: entry.insight.EmotionalIntensity,
			})
		}
		sort.Slice(supporting, func(i, j int) bool {
			return supporting[i].InterviewID < supporting[j].InterviewID
		})

		insights = append(insights, model.CorpusInsight{
			InsightID:   "corpus_priority_" + theme,
			InsightType: model.InsightTypePriority,
			Content: fmt.Sprintf("Priority %q raised in %d of %d interviews",
				theme, len(byInterview), total),
			SupportingInterviews: supporting,
			Prevalence:           prevalence,
			Confidence:           ConfidenceFromPrevalence(prevalence),
		})
	}

	sort.Slice(insights, func(i, j int) bool {
		if insights[i].Prevalence != insights[j].Prevalence {
			return insights[i].Prevalence > insights[j].Prevalence
		}
		return insights[i].InsightID < insights[j].InsightID
	})

	return insights
}

// FullCitationChain resolves a corpus insight down to the literal turn text
// that supports it: corpus -> interview -> turns. Resolution is by exact id
// join only; an unresolvable reference is an internal consistency error,
// never papered over with a fuzzy lookup.
func (a *Aggregator) FullCitationChain(ci model.CorpusInsight) (model.CitationChain, error) {
	chain := model.CitationChain{
		InsightID:  ci.InsightID,
		Content:    ci.Content,
		Prevalence: ci.Prevalence,
	}

	for _, ic := range ci.SupportingInterviews {
		interviewCitations, ok := a.citations[ic.InterviewID]
		if !ok {
			return model.CitationChain{}, fmt.Errorf("%w: %s", model.ErrUnknownInterview, ic.InterviewID)
		}
		insightCitation, ok := interviewCitations[ic.InsightID]
		if !ok {
			return model.CitationChain{}, fmt.Errorf("%w: %s/%s", model.ErrUnknownInsight, ic.InterviewID, ic.InsightID)
		}

		link := model.InterviewChainLink{
			InterviewID:   ic.InterviewID,
			InsightID:     ic.InsightID,
			SynthesisNote: insightCitation.SynthesisNote,
			Confidence:    insightCitation.Confidence,
		}

		turnIndex := a.turns[ic.InterviewID]
		for _, tc := range insightCitation.PrimaryCitations {
			turn, ok := turnIndex[tc.TurnID]
			if !ok {
				return model.CitationChain{}, fmt.Errorf("interview %s: turn %d not found in chain",
					ic.InterviewID, tc.TurnID)
			}
			link.Turns = append(link.Turns, model.TurnChainLink{
				TurnID:         turn.ID,
				Speaker:        turn.Speaker,
				Text:           turn.Text,
				Quote:          tc.SpecificElement,
				RelevanceScore: tc.RelevanceScore,
			})
		}

		chain.Interviews = append(chain.Interviews, link)
	}

	return chain, nil
}

// StorageRecord converts a corpus insight plus its resolved chain into the
// record the storage layer expects.
func StorageRecord(ci model.CorpusInsight, chain model.CitationChain) model.CorpusInsightCitation {
	ids := make([]string, 0, len(ci.SupportingInterviews))
	for _, ic := range ci.SupportingInterviews {
		ids = append(ids, ic.InterviewID)
	}
	return model.CorpusInsightCitation{
		InsightID:              ci.InsightID,
		InsightType:            ci.InsightType,
		SupportingInterviewIDs: ids,
		Prevalence:             ci.Prevalence,
		CitationChain:          chain,
	}
}

// ConfidenceFromPrevalence maps prevalence to corpus confidence:
// min(0.9, prevalence x 2). Monotone non-decreasing and capped.
func ConfidenceFromPrevalence(prevalence float64) float64 {
	conf := prevalence * corpusConfidenceMultiplier
	if conf > corpusConfidenceCap {
		conf = corpusConfidenceCap
	}
	return conf
}

// NormalizeTheme folds a free-text theme into its index key: lowercase,
// punctuation stripped, whitespace collapsed to underscores.
func NormalizeTheme(theme string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(theme)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r >= 'à' && r <= 'ÿ':
			b.WriteRune(r)
		case r == ' ' || r == '\t' || r == '-' || r == '_':
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), "_")
}
