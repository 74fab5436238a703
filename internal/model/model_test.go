package model

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestTurn_JSONShapeIsFlat(t *testing.T) {
	turn := Turn{
		ID:      7,
		Speaker: "vecina",
		Text:    "No puedo dormir pensando en los robos.",
		TurnAnnotation: TurnAnnotation{
			Functional: FunctionalAnalysis{Role: "problem_statement"},
			Content:    ContentAnalysis{Topics: []string{"security"}},
		},
	}

	data, err := json.Marshal(turn)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	// Annotation axes sit next to turn_id, not nested under a wrapper key
	var flat map[string]json.RawMessage
	if err := json.Unmarshal(data, &flat); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"turn_id", "speaker", "text", "functional_analysis", "content_analysis"} {
		if _, ok := flat[key]; !ok {
			t.Errorf("expected top-level key %q, got %s", key, data)
		}
	}
	if _, ok := flat["TurnAnnotation"]; ok {
		t.Error("embedded annotation leaked as a nested object")
	}
}

func TestInterview_TurnIndex(t *testing.T) {
	iv := Interview{
		ID:    "iv-001",
		Turns: []Turn{{ID: 3}, {ID: 7}},
	}

	index, err := iv.TurnIndex()
	if err != nil {
		t.Fatalf("index: %v", err)
	}
	if len(index) != 2 {
		t.Errorf("expected 2 entries, got %d", len(index))
	}

	iv.Turns = append(iv.Turns, Turn{ID: 3})
	if _, err := iv.TurnIndex(); !errors.Is(err, ErrDuplicateTurnID) {
		t.Errorf("expected ErrDuplicateTurnID, got %v", err)
	}
}

func TestInterview_TurnRange(t *testing.T) {
	iv := Interview{Turns: []Turn{{ID: 12}, {ID: 3}, {ID: 47}}}

	min, max := iv.TurnRange()
	if min != 3 || max != 47 {
		t.Errorf("expected range 3..47, got %d..%d", min, max)
	}

	empty := Interview{}
	if min, max := empty.TurnRange(); min != 0 || max != 0 {
		t.Errorf("expected 0..0 for empty interview, got %d..%d", min, max)
	}
}

func TestInsight_Validate(t *testing.T) {
	good := Insight{InsightType: InsightTypePriority, InsightID: "priority_security"}
	if err := good.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	bad := Insight{InsightID: "mystery"}
	if err := bad.Validate(); !errors.Is(err, ErrMissingInsightType) {
		t.Errorf("expected ErrMissingInsightType, got %v", err)
	}
}

func TestIssue_String(t *testing.T) {
	withTurn := Issue{Kind: IssueMissingTurn, TurnID: 99, Message: "turn 99 does not exist"}
	if s := withTurn.String(); !strings.Contains(s, "missing_turn") || !strings.Contains(s, "99") {
		t.Errorf("unexpected rendering %q", s)
	}

	withoutTurn := Issue{Kind: IssueUncitedInsight, Message: "insight has no citations"}
	if s := withoutTurn.String(); strings.Contains(s, "turn") && !strings.Contains(s, "uncited") {
		t.Errorf("unexpected rendering %q", s)
	}
}

func TestInsightCitation_CitedTurnIDs(t *testing.T) {
	c := InsightCitation{
		PrimaryCitations:    []TurnCitation{{TurnID: 7}},
		SupportingCitations: []TurnCitation{{TurnID: 12}, {TurnID: 3}},
	}

	ids := c.CitedTurnIDs()
	if len(ids) != 3 || ids[0] != 7 {
		t.Errorf("expected primary ids first, got %v", ids)
	}
	if c.IsUncited() {
		t.Error("citation with turns reported as uncited")
	}

	empty := InsightCitation{}
	if !empty.IsUncited() {
		t.Error("empty citation not reported as uncited")
	}
}
