package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/voces-project/voces/internal/model"
)

// Renderer writes analysis results as JSON artifacts and Markdown summaries
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes any result structure as indented JSON
func (r *Renderer) RenderJSON(v interface{}, path string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}

// RenderInterviewMarkdown writes a human-readable validation summary for one
// interview
func (r *Renderer) RenderInterviewMarkdown(result *InterviewResult, path string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Interview %s\n\n", result.InterviewID)
	fmt.Fprintf(&b, "Generation: `%s`\n\n", result.Generation)

	v := result.Validation
	fmt.Fprintf(&b, "## Validation\n\n")
	fmt.Fprintf(&b, "- Citations checked: %d\n", v.TotalCitations)
	fmt.Fprintf(&b, "- Valid: %d (%.0f%%)\n", v.ValidCitations, v.ValidityRate*100)
	fmt.Fprintf(&b, "- Cited insights: %d, uncited: %d\n", v.CitedInsights, v.UncitedInsights)
	fmt.Fprintf(&b, "- Missing quotes: %d, low relevance: %d, semantic mismatch: %d, missing citations: %d\n\n",
		v.MissingQuotes, v.LowRelevance, v.SemanticMismatch, v.MissingCitations)

	if len(v.Quality) > 0 {
		fmt.Fprintf(&b, "## Insight quality\n\n")
		fmt.Fprintf(&b, "| Insight | Type | Quality | Cited turns | Primary |\n")
		fmt.Fprintf(&b, "|---|---|---|---|---|\n")
		for _, q := range v.Quality {
			fmt.Fprintf(&b, "| %s | %s | %.2f | %d | %v |\n",
				q.InsightID, q.InsightType, q.QualityScore, q.CitedTurns, q.HasPrimary)
		}
		fmt.Fprintf(&b, "\n")
	}

	if len(result.Issues) > 0 {
		fmt.Fprintf(&b, "## Issues\n\n")
		for _, issue := range result.Issues {
			fmt.Fprintf(&b, "- %s\n", issue)
		}
		fmt.Fprintf(&b, "\n")
	}

	if r.includeFooter {
		fmt.Fprintf(&b, "---\n\nGenerated by voces. Issues are quality signals for a human reviewer, not data loss.\n")
	}

	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// RenderCorpusMarkdown writes the corpus pattern summary
func (r *Renderer) RenderCorpusMarkdown(records []model.CorpusInsightCitation, totalInterviews int, path string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Corpus patterns (%d interviews)\n\n", totalInterviews)

	for _, record := range records {
		fmt.Fprintf(&b, "## %s\n\n", record.InsightID)
		fmt.Fprintf(&b, "- Prevalence: %.2f (%d interviews)\n",
			record.Prevalence, len(record.SupportingInterviewIDs))
		fmt.Fprintf(&b, "- Supporting interviews: %s\n\n",
			strings.Join(record.SupportingInterviewIDs, ", "))

		for _, link := range record.CitationChain.Interviews {
			fmt.Fprintf(&b, "### %s / %s\n\n", link.InterviewID, link.InsightID)
			for _, turn := range link.Turns {
				fmt.Fprintf(&b, "> [turn %d, %s] %s\n\n", turn.TurnID, turn.Speaker, turn.Text)
			}
		}
	}

	if r.includeFooter {
		fmt.Fprintf(&b, "---\n\nGenerated by voces.\n")
	}

	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// RenderSummary prints a one-screen summary to stderr
func (r *Renderer) RenderSummary(result *InterviewResult) {
	v := result.Validation
	fmt.Fprintf(os.Stderr, "Interview %s: %d/%d citations valid (%.0f%%), %d uncited insight(s), %d issue(s)\n",
		result.InterviewID, v.ValidCitations, v.TotalCitations, v.ValidityRate*100,
		v.UncitedInsights, len(result.Issues))
}
