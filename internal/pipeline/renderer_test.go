package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/voces-project/voces/internal/model"
)

func TestRenderJSON_RoundTrip(t *testing.T) {
	p, err := NewPipeline(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	result, err := p.AnalyzeInterview(context.Background(), annotatedInterview())
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "result.json")
	if err := NewRenderer(false).RenderJSON(result, path); err != nil {
		t.Fatalf("render: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var decoded InterviewResult
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.InterviewID != result.InterviewID || decoded.Generation != result.Generation {
		t.Errorf("round trip lost identity: %+v", decoded)
	}
	if len(decoded.InsightCitations) != len(result.InsightCitations) {
		t.Errorf("round trip lost citations")
	}
}

func TestRenderInterviewMarkdown(t *testing.T) {
	p, err := NewPipeline(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	result, err := p.AnalyzeInterview(context.Background(), annotatedInterview())
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "result.md")
	if err := NewRenderer(true).RenderInterviewMarkdown(result, path); err != nil {
		t.Fatalf("render: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	md := string(data)

	for _, want := range []string{
		"# Interview iv-001",
		"## Validation",
		"priority_security",
		"Generated by voces",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestRenderInterviewMarkdown_FooterOptional(t *testing.T) {
	result := &InterviewResult{InterviewID: "iv-001", Generation: "g1"}

	path := filepath.Join(t.TempDir(), "result.md")
	if err := NewRenderer(false).RenderInterviewMarkdown(result, path); err != nil {
		t.Fatalf("render: %v", err)
	}

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "Generated by voces") {
		t.Error("footer rendered despite being disabled")
	}
}

func TestRenderCorpusMarkdown_QuotesTurnText(t *testing.T) {
	records := []model.CorpusInsightCitation{{
		InsightID:              "corpus_priority_security",
		InsightType:            model.InsightTypePriority,
		Prevalence:             0.73,
		SupportingInterviewIDs: []string{"iv-001"},
		CitationChain: model.CitationChain{
			InsightID: "corpus_priority_security",
			Interviews: []model.InterviewChainLink{{
				InterviewID: "iv-001",
				InsightID:   "priority_security",
				Turns: []model.TurnChainLink{{
					TurnID:  7,
					Speaker: "vecina",
					Text:    "No puedo dormir pensando en los robos.",
				}},
			}},
		},
	}}

	path := filepath.Join(t.TempDir(), "corpus.md")
	if err := NewRenderer(false).RenderCorpusMarkdown(records, 37, path); err != nil {
		t.Fatalf("render: %v", err)
	}

	data, _ := os.ReadFile(path)
	md := string(data)

	if !strings.Contains(md, "37 interviews") {
		t.Error("markdown missing corpus size")
	}
	if !strings.Contains(md, "No puedo dormir pensando en los robos.") {
		t.Error("markdown missing the literal turn text at the chain leaf")
	}
	if !strings.Contains(md, "[turn 7, vecina]") {
		t.Error("markdown missing turn attribution")
	}
}
