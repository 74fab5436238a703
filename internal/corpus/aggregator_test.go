package corpus

import (
	"errors"
	"fmt"
	"testing"

	"github.com/voces-project/voces/internal/model"
)

func priorityInterview(id string, theme string) model.Interview {
	return model.Interview{
		ID: id,
		Turns: []model.Turn{
			{ID: 1, Speaker: "vecina", Text: "Nos preocupan mucho los robos del barrio."},
		},
		Insights: []model.Insight{{
			InsightType:        model.InsightTypePriority,
			InsightID:          "priority_" + theme,
			Theme:              theme,
			EmotionalIntensity: 0.8,
		}},
	}
}

func TestAddInterview_MissingID(t *testing.T) {
	agg := NewAggregator()
	err := agg.AddInterview(model.Interview{}, nil)
	if !errors.Is(err, model.ErrMissingInterviewID) {
		t.Errorf("expected ErrMissingInterviewID, got %v", err)
	}
}

func TestAddInterview_DuplicateID(t *testing.T) {
	agg := NewAggregator()
	iv := priorityInterview("iv-001", "security")

	if err := agg.AddInterview(iv, nil); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if err := agg.AddInterview(iv, nil); err == nil {
		t.Error("expected error on duplicate interview id")
	}
	if agg.TotalInterviews() != 1 {
		t.Errorf("duplicate must not grow the corpus, got %d", agg.TotalInterviews())
	}
}

func TestAddInterview_DuplicateTurnIDsRejected(t *testing.T) {
	agg := NewAggregator()
	iv := model.Interview{
		ID: "iv-bad",
		Turns: []model.Turn{
			{ID: 3, Text: "primero"},
			{ID: 3, Text: "segundo"},
		},
	}
	if err := agg.AddInterview(iv, nil); !errors.Is(err, model.ErrDuplicateTurnID) {
		t.Errorf("expected ErrDuplicateTurnID, got %v", err)
	}
}

func TestFindCommonPriorities_PrevalenceAndConfidence(t *testing.T) {
	agg := NewAggregator()

	// 27 of 37 interviews raise security
	for i := 1; i <= 37; i++ {
		theme := "transport"
		if i <= 27 {
			theme = "security"
		}
		iv := priorityInterview(fmt.Sprintf("iv-%03d", i), theme)
		if err := agg.AddInterview(iv, nil); err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
	}

	insights := agg.FindCommonPriorities(0.5)
	if len(insights) != 1 {
		t.Fatalf("expected only security above 0.5 prevalence, got %d", len(insights))
	}

	sec := insights[0]
	if sec.InsightID != "corpus_priority_security" {
		t.Errorf("unexpected insight id %q", sec.InsightID)
	}
	want := 27.0 / 37.0
	if diff := sec.Prevalence - want; diff > 0.0001 || diff < -0.0001 {
		t.Errorf("expected prevalence %f, got %f", want, sec.Prevalence)
	}
	// 0.73 x 2 saturates the cap
	if sec.Confidence != 0.9 {
		t.Errorf("expected confidence capped at 0.9, got %f", sec.Confidence)
	}
	if len(sec.SupportingInterviews) != 27 {
		t.Errorf("expected 27 supporting interviews, got %d", len(sec.SupportingInterviews))
	}
}

func TestFindCommonPriorities_OneVotePerInterview(t *testing.T) {
	agg := NewAggregator()

	iv := priorityInterview("iv-001", "security")
	// Same theme twice inside one interview
	iv.Insights = append(iv.Insights, model.Insight{
		InsightType: model.InsightTypePriority,
		InsightID:   "priority_security_2",
		Theme:       "Security",
	})
	if err := agg.AddInterview(iv, nil); err != nil {
		t.Fatal(err)
	}
	if err := agg.AddInterview(priorityInterview("iv-002", "transport"), nil); err != nil {
		t.Fatal(err)
	}

	insights := agg.FindCommonPriorities(0.0)
	for _, ci := range insights {
		if ci.InsightID == "corpus_priority_security" && ci.Prevalence != 0.5 {
			t.Errorf("repeated theme in one interview inflated prevalence to %f", ci.Prevalence)
		}
	}
}

func TestFindCommonPriorities_NarrativesExcluded(t *testing.T) {
	agg := NewAggregator()

	iv := model.Interview{
		ID:    "iv-001",
		Turns: []model.Turn{{ID: 1, Text: "texto"}},
		Insights: []model.Insight{{
			InsightType: model.InsightTypeNarrative,
			InsightID:   "narrative_security",
			Theme:       "security",
		}},
	}
	if err := agg.AddInterview(iv, nil); err != nil {
		t.Fatal(err)
	}

	if insights := agg.FindCommonPriorities(0.0); len(insights) != 0 {
		t.Errorf("narrative insights must not form corpus priorities, got %v", insights)
	}
}

func TestFindCommonPriorities_RecomputedAfterGrowth(t *testing.T) {
	agg := NewAggregator()
	if err := agg.AddInterview(priorityInterview("iv-001", "security"), nil); err != nil {
		t.Fatal(err)
	}

	before := agg.FindCommonPriorities(0.0)
	if len(before) != 1 || before[0].Prevalence != 1.0 {
		t.Fatalf("expected prevalence 1.0 with one interview, got %v", before)
	}

	if err := agg.AddInterview(priorityInterview("iv-002", "transport"), nil); err != nil {
		t.Fatal(err)
	}

	after := agg.FindCommonPriorities(0.0)
	for _, ci := range after {
		if ci.InsightID == "corpus_priority_security" && ci.Prevalence != 0.5 {
			t.Errorf("prevalence not recomputed after corpus growth: %f", ci.Prevalence)
		}
	}
}

func TestFullCitationChain_ResolvesToTurnText(t *testing.T) {
	agg := NewAggregator()

	iv := priorityInterview("iv-001", "security")
	citations := []model.InsightCitation{{
		InterviewID:   "iv-001",
		InsightID:     "priority_security",
		SynthesisNote: "grounded in 1 primary citation",
		Confidence:    0.85,
		PrimaryCitations: []model.TurnCitation{{
			TurnID:          1,
			RelevanceScore:  0.9,
			SpecificElement: "los robos del barrio",
		}},
	}}
	if err := agg.AddInterview(iv, citations); err != nil {
		t.Fatal(err)
	}

	insights := agg.FindCommonPriorities(0.0)
	if len(insights) != 1 {
		t.Fatalf("expected one corpus insight, got %d", len(insights))
	}

	chain, err := agg.FullCitationChain(insights[0])
	if err != nil {
		t.Fatalf("chain: %v", err)
	}
	if len(chain.Interviews) != 1 {
		t.Fatalf("expected one interview link, got %d", len(chain.Interviews))
	}

	link := chain.Interviews[0]
	if link.InterviewID != "iv-001" || link.Confidence != 0.85 {
		t.Errorf("interview link lost citation data: %+v", link)
	}
	if len(link.Turns) != 1 {
		t.Fatalf("expected one turn leaf, got %d", len(link.Turns))
	}

	leaf := link.Turns[0]
	if leaf.Text != "Nos preocupan mucho los robos del barrio." {
		t.Errorf("leaf must carry the literal turn text, got %q", leaf.Text)
	}
	if leaf.Quote != "los robos del barrio" || leaf.RelevanceScore != 0.9 {
		t.Errorf("leaf lost quote or relevance: %+v", leaf)
	}
}

func TestFullCitationChain_UnknownInterview(t *testing.T) {
	agg := NewAggregator()

	ci := model.CorpusInsight{
		InsightID: "corpus_priority_security",
		SupportingInterviews: []model.InterviewCitation{
			{InterviewID: "iv-ghost", InsightID: "priority_security"},
		},
	}

	_, err := agg.FullCitationChain(ci)
	if !errors.Is(err, model.ErrUnknownInterview) {
		t.Errorf("expected ErrUnknownInterview, got %v", err)
	}
}

func TestFullCitationChain_UnknownInsight(t *testing.T) {
	agg := NewAggregator()
	if err := agg.AddInterview(priorityInterview("iv-001", "security"), nil); err != nil {
		t.Fatal(err)
	}

	ci := model.CorpusInsight{
		InsightID: "corpus_priority_security",
		SupportingInterviews: []model.InterviewCitation{
			{InterviewID: "iv-001", InsightID: "priority_ghost"},
		},
	}

	_, err := agg.FullCitationChain(ci)
	if !errors.Is(err, model.ErrUnknownInsight) {
		t.Errorf("expected ErrUnknownInsight, got %v", err)
	}
}

func TestConfidenceFromPrevalence(t *testing.T) {
	cases := []struct {
		prevalence, want float64
	}{
		{0.0, 0.0},
		{0.2, 0.4},
		{0.45, 0.9},
		{0.73, 0.9},
		{1.0, 0.9},
	}
	for _, tc := range cases {
		got := ConfidenceFromPrevalence(tc.prevalence)
		if diff := got - tc.want; diff > 0.0001 || diff < -0.0001 {
			t.Errorf("prevalence %f: expected %f, got %f", tc.prevalence, tc.want, got)
		}
	}

	// Monotone non-decreasing
	prev := 0.0
	for p := 0.0; p <= 1.0; p += 0.05 {
		got := ConfidenceFromPrevalence(p)
		if got < prev {
			t.Fatalf("confidence decreased at prevalence %f", p)
		}
		prev = got
	}
}

func TestNormalizeTheme(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Security", "security"},
		{"  Public Safety ", "public_safety"},
		{"seguridad-pública", "seguridad_pública"},
		{"¡Seguridad!", "seguridad"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeTheme(tc.in); got != tc.want {
			t.Errorf("NormalizeTheme(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestStorageRecord_Corpus(t *testing.T) {
	ci := model.CorpusInsight{
		InsightID:   "corpus_priority_security",
		InsightType: model.InsightTypePriority,
		Prevalence:  0.73,
		SupportingInterviews: []model.InterviewCitation{
			{InterviewID: "iv-001"},
			{InterviewID: "iv-002"},
		},
	}
	chain := model.CitationChain{InsightID: ci.InsightID}

	record := StorageRecord(ci, chain)
	if len(record.SupportingInterviewIDs) != 2 {
		t.Errorf("expected 2 supporting interview ids, got %v", record.SupportingInterviewIDs)
	}
	if record.Prevalence != 0.73 || record.CitationChain.InsightID != ci.InsightID {
		t.Errorf("record lost fields: %+v", record)
	}
}
