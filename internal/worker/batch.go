package worker

import (
	"context"

	"github.com/voces-project/voces/internal/model"
	"github.com/voces-project/voces/internal/pipeline"
)

// Analyzer analyzes one interview. Satisfied by pipeline.Pipeline.
type Analyzer interface {
	AnalyzeInterview(ctx context.Context, interview model.Interview) (*pipeline.InterviewResult, error)
}

// InterviewJob analyzes a single interview. One interview per task keeps
// tasks free of shared mutable state.
type InterviewJob struct {
	Interview model.Interview
	Analyzer  Analyzer
}

// Execute runs the analysis
func (j *InterviewJob) Execute(ctx context.Context) Result {
	result, err := j.Analyzer.AnalyzeInterview(ctx, j.Interview)
	return &InterviewResult{
		InterviewID: j.Interview.ID,
		Interview:   j.Interview,
		Result:      result,
		Error:       err,
	}
}

// InterviewResult is the job outcome for one interview. A failed interview
// carries its error and leaves every other interview unaffected.
type InterviewResult struct {
	InterviewID string
	Interview   model.Interview
	Result      *pipeline.InterviewResult
	Error       error
}

// GetError returns the job error, if any
func (r *InterviewResult) GetError() error {
	return r.Error
}

// BatchProcessor analyzes many interviews in parallel
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
}

// NewBatchProcessor creates a batch processor
func NewBatchProcessor(analyzer Analyzer, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
	}
}

// ProcessInterviews fans interviews out across the pool and returns once all
// are done. Result order is not guaranteed; each result carries its interview
// id.
func (b *BatchProcessor) ProcessInterviews(ctx context.Context, interviews []model.Interview) []*InterviewResult {
	if len(interviews) == 0 {
		return []*InterviewResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	// The watcher exits when the batch completes, not only on cancellation
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			pool.Shutdown()
		case <-done:
		}
	}()

	// Submission runs alongside result draining: both channels are bounded,
	// so queuing everything up front would stall on a large corpus.
	go func() {
		for _, interview := range interviews {
			pool.Submit(&InterviewJob{
				Interview: interview,
				Analyzer:  b.analyzer,
			})
		}
		pool.Close()
	}()

	results := pool.Wait()

	interviewResults := make([]*InterviewResult, 0, len(results))
	for _, result := range results {
		interviewResults = append(interviewResults, result.(*InterviewResult))
	}
	return interviewResults
}
