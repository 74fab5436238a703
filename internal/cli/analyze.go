package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/voces-project/voces/internal/model"
	"github.com/voces-project/voces/internal/pipeline"
)

var (
	outJSON           string
	outMD             string
	analyzeTimeout    time.Duration
	noCache           bool
	noFooter          bool
	annotatorProvider string
	annotatorModel    string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <interview-file>",
	Short: "Analyze a single interview and validate its citations",
	Long: `Analyze runs the full citation chain for one interview:
- Extract semantic tags and key phrases per turn
- Build structured citations per insight with relevance scores
- Validate quote fidelity, relevance, and semantic alignment
- Emit turn metadata, insight citations, and a validation report

Inputs are annotated interview JSON bundles, or raw HTML transcript
exports when an annotator provider is enabled.

Example:
  voces analyze interview_012.json
  voces analyze interview_012.json --json result.json --md report.md
  voces analyze transcript.html --annotator keyword`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&outJSON, "json", "result.json", "output JSON path")
	analyzeCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 5*time.Minute, "overall analysis timeout")
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable annotation cache")
	analyzeCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	analyzeCmd.Flags().StringVar(&annotatorProvider, "annotator", "", "annotator provider (openai, anthropic, ollama, keyword; empty = inputs must be pre-annotated)")
	analyzeCmd.Flags().StringVar(&annotatorModel, "annotator-model", "", "annotator model name")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	interview, err := pipeline.LoadInterview(path)
	if err != nil {
		return fmt.Errorf("load interview: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Analyzing: %s (%d turns, %d insights)\n",
			interview.ID, len(interview.Turns), len(interview.Insights))
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}

	result, err := p.AnalyzeInterview(ctx, interview)
	if err != nil {
		return fmt.Errorf("analyze failed: %w", err)
	}

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
	if outJSON != "" {
		if err := renderer.RenderJSON(result, outJSON); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", outJSON)
		}
	}
	if outMD != "" {
		if err := renderer.RenderInterviewMarkdown(result, outMD); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote Markdown: %s\n", outMD)
		}
	}

	renderer.RenderSummary(result)
	return nil
}

// buildConfig layers CLI flags over defaults and resolves the annotator API
// key from the environment
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = !noCache
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter

	if annotatorProvider != "" {
		cfg.Annotator.Provider = annotatorProvider
		cfg.Annotator.Model = annotatorModel

		switch annotatorProvider {
		case "openai":
			cfg.Annotator.APIKey = os.Getenv("OPENAI_API_KEY")
			if cfg.Annotator.APIKey == "" {
				return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
			}
		case "anthropic", "claude":
			cfg.Annotator.APIKey = os.Getenv("ANTHROPIC_API_KEY")
			if cfg.Annotator.APIKey == "" {
				return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
			}
		}
	}

	return cfg, nil
}
