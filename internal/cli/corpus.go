package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/voces-project/voces/internal/corpus"
	"github.com/voces-project/voces/internal/model"
	"github.com/voces-project/voces/internal/pipeline"
	"github.com/voces-project/voces/internal/worker"
)

var (
	concurrency   int
	outputDir     string
	corpusTimeout time.Duration
	minPrevalence float64
)

// corpusCmd represents the corpus command
var corpusCmd = &cobra.Command{
	Use:   "corpus <dir>",
	Short: "Analyze a directory of interviews and aggregate corpus patterns",
	Long: `Corpus processes every interview in a directory in parallel, then runs
the cross-interview aggregation over the complete set:
- One worker task per interview (tag extraction, citations, validation)
- Fan-in barrier: aggregation only sees finished citation data
- Common priorities with prevalence and confidence
- Full citation chains: corpus pattern -> interview -> literal turns

Example:
  voces corpus ./interviews
  voces corpus ./interviews --min-prevalence 0.5 --concurrency 8
  voces corpus ./interviews --output-dir ./voces-reports`,
	Args: cobra.ExactArgs(1),
	RunE: runCorpus,
}

func init() {
	rootCmd.AddCommand(corpusCmd)

	corpusCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent interview workers")
	corpusCmd.Flags().StringVar(&outputDir, "output-dir", "./voces-reports", "output directory for reports")
	corpusCmd.Flags().DurationVar(&corpusTimeout, "timeout", 30*time.Minute, "total timeout for corpus processing")
	corpusCmd.Flags().Float64Var(&minPrevalence, "min-prevalence", 0, "minimum prevalence for corpus patterns (0 = config default)")

	corpusCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable annotation cache")
	corpusCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	corpusCmd.Flags().StringVar(&annotatorProvider, "annotator", "", "annotator provider (openai, anthropic, ollama, keyword)")
	corpusCmd.Flags().StringVar(&annotatorModel, "annotator-model", "", "annotator model name")
}

func runCorpus(cmd *cobra.Command, args []string) error {
	dir := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), corpusTimeout)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	cfg.Concurrency.Workers = concurrency
	if minPrevalence > 0 {
		cfg.Corpus.MinPrevalence = minPrevalence
	}

	interviews, err := pipeline.LoadDir(dir)
	if err != nil {
		return fmt.Errorf("load interviews: %w", err)
	}
	if len(interviews) == 0 {
		return fmt.Errorf("no interviews found in %s", dir)
	}

	fmt.Fprintf(os.Stderr, "Loaded %d interviews, processing with %d workers\n",
		len(interviews), cfg.Concurrency.Workers)

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}

	// Fan-out: one task per interview
	processor := worker.NewBatchProcessor(p, cfg.Concurrency.Workers)
	results := processor.ProcessInterviews(ctx, interviews)

	// Fan-in: the aggregator must see every finished interview before
	// prevalence means anything
	aggregator := corpus.NewAggregator()
	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)

	sort.Slice(results, func(i, j int) bool {
		return results[i].InterviewID < results[j].InterviewID
	})

	successCount := 0
	failureCount := 0
	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.InterviewID, result.Error)
			continue
		}
		successCount++

		if err := aggregator.AddInterview(result.Interview, result.Result.Citations()); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: index: %v\n", result.InterviewID, err)
			continue
		}

		jsonPath := filepath.Join(outputDir, result.InterviewID+".json")
		if err := renderer.RenderJSON(result.Result, jsonPath); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: write JSON: %v\n", result.InterviewID, err)
			continue
		}

		if verbose {
			renderer.RenderSummary(result.Result)
		}
	}

	// Corpus patterns with full citation chains
	patterns := aggregator.FindCommonPriorities(cfg.Corpus.MinPrevalence)
	records := make([]model.CorpusInsightCitation, 0, len(patterns))
	for _, pattern := range patterns {
		chain, err := aggregator.FullCitationChain(pattern)
		if err != nil {
			return fmt.Errorf("citation chain for %s: %w", pattern.InsightID, err)
		}
		records = append(records, corpus.StorageRecord(pattern, chain))
	}

	corpusJSON := filepath.Join(outputDir, "corpus.json")
	if err := renderer.RenderJSON(records, corpusJSON); err != nil {
		return fmt.Errorf("write corpus JSON: %w", err)
	}
	corpusMD := filepath.Join(outputDir, "corpus.md")
	if err := renderer.RenderCorpusMarkdown(records, aggregator.TotalInterviews(), corpusMD); err != nil {
		return fmt.Errorf("write corpus Markdown: %w", err)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "Corpus complete: %d interviews ok, %d failed, %d pattern(s) at prevalence >= %.2f\n",
		successCount, failureCount, len(patterns), cfg.Corpus.MinPrevalence)
	fmt.Fprintf(os.Stderr, "Reports: %s\n", outputDir)

	return nil
}
