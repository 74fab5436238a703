package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"testing"
	"time"

	"github.com/voces-project/voces/internal/model"
	"github.com/voces-project/voces/internal/pipeline"
)

// fakeAnalyzer fails interviews whose id appears in failIDs
type fakeAnalyzer struct {
	failIDs map[string]bool
}

func (f *fakeAnalyzer) AnalyzeInterview(ctx context.Context, interview model.Interview) (*pipeline.InterviewResult, error) {
	if f.failIDs[interview.ID] {
		return nil, errors.New("malformed interview")
	}
	return &pipeline.InterviewResult{InterviewID: interview.ID}, nil
}

func TestBatchProcessor_AllInterviewsProcessed(t *testing.T) {
	processor := NewBatchProcessor(&fakeAnalyzer{}, 4)

	var interviews []model.Interview
	for i := 1; i <= 12; i++ {
		interviews = append(interviews, model.Interview{ID: fmt.Sprintf("iv-%03d", i)})
	}

	results := processor.ProcessInterviews(context.Background(), interviews)

	if len(results) != len(interviews) {
		t.Fatalf("expected %d results, got %d", len(interviews), len(results))
	}

	seen := make(map[string]bool)
	for _, r := range results {
		if r.Error != nil {
			t.Errorf("interview %s failed unexpectedly: %v", r.InterviewID, r.Error)
		}
		seen[r.InterviewID] = true
	}
	if len(seen) != len(interviews) {
		t.Errorf("expected every interview id exactly once, got %d distinct", len(seen))
	}
}

func TestBatchProcessor_FailureIsolatedToOneInterview(t *testing.T) {
	processor := NewBatchProcessor(&fakeAnalyzer{
		failIDs: map[string]bool{"iv-002": true},
	}, 2)

	interviews := []model.Interview{
		{ID: "iv-001"}, {ID: "iv-002"}, {ID: "iv-003"},
	}

	results := processor.ProcessInterviews(context.Background(), interviews)

	failed := 0
	for _, r := range results {
		if r.Error != nil {
			failed++
			if r.InterviewID != "iv-002" {
				t.Errorf("wrong interview failed: %s", r.InterviewID)
			}
		} else if r.Result == nil {
			t.Errorf("successful interview %s has no result", r.InterviewID)
		}
	}
	if failed != 1 {
		t.Errorf("expected exactly 1 failure, got %d", failed)
	}
}

// Repeated batches under a never-cancelled context must not accumulate
// goroutines: the cancellation watcher has to exit when the batch completes.
func TestBatchProcessor_NoGoroutineLeakPerBatch(t *testing.T) {
	processor := NewBatchProcessor(&fakeAnalyzer{}, 2)
	interviews := []model.Interview{{ID: "iv-001"}, {ID: "iv-002"}}

	// Warm up scheduler state before measuring
	processor.ProcessInterviews(context.Background(), interviews)
	time.Sleep(50 * time.Millisecond)
	base := runtime.NumGoroutine()

	for i := 0; i < 50; i++ {
		processor.ProcessInterviews(context.Background(), interviews)
	}

	// Give exiting goroutines a moment to unwind
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if runtime.NumGoroutine() <= base+5 {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Errorf("goroutines grew from %d to %d across 50 batches", base, runtime.NumGoroutine())
}

func TestBatchProcessor_EmptyInput(t *testing.T) {
	processor := NewBatchProcessor(&fakeAnalyzer{}, 4)

	results := processor.ProcessInterviews(context.Background(), nil)
	if len(results) != 0 {
		t.Errorf("expected no results for empty input, got %d", len(results))
	}
}
