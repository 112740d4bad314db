package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/req-consultant/internal/config"
	"github.com/jonathan/req-consultant/internal/ingest"
	"github.com/jonathan/req-consultant/internal/llm"
	"github.com/jonathan/req-consultant/internal/observability"
	"github.com/jonathan/req-consultant/internal/orchestrator"
	"github.com/jonathan/req-consultant/internal/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [requisition.json ...]",
	Short: "Run the multi-agent analysis loop over one or more requisitions",
	Long: `Runs the full clarification loop: requirements analysis -> market research -> recruiter review -> strategy validation, iterating until the fit threshold is met or the round cap is reached.

Requisitions are given as JSON file arguments, via --requisition, or fetched from a job posting with --url. Configuration can be loaded from a JSON file using --config; command-line arguments override config file values.`,
	RunE: runAnalyze,
}

var (
	analyzeConfigPath    string
	analyzeRequisition   string
	analyzeURL           string
	analyzeProvider      string
	analyzeModel         string
	analyzeAPIKey        string
	analyzeMaxIterations int
	analyzeFitThreshold  float64
	analyzeOutDir        string
	analyzeVerbose       bool
)

func init() {
	// Config file flag (processed first)
	analyzeCmd.Flags().StringVar(&analyzeConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	analyzeCmd.Flags().StringVarP(&analyzeRequisition, "requisition", "r", "", "Path to requisition JSON file (mutually exclusive with --url)")
	analyzeCmd.Flags().StringVar(&analyzeURL, "url", "", "URL to fetch a job posting from (mutually exclusive with file inputs)")
	analyzeCmd.Flags().StringVar(&analyzeProvider, "provider", "", "LLM provider: gemini or openrouter")
	analyzeCmd.Flags().StringVar(&analyzeModel, "model", "", "Model identifier")
	analyzeCmd.Flags().StringVar(&analyzeAPIKey, "api-key", "", "Provider API key (optional, defaults to GEMINI_API_KEY or OPENROUTER_API_KEY)")
	analyzeCmd.Flags().IntVar(&analyzeMaxIterations, "max-iterations", 0, "Maximum analysis rounds (0 uses the built-in default)")
	analyzeCmd.Flags().Float64Var(&analyzeFitThreshold, "fit-threshold", 0, "Overall fit score required to converge (0 uses the built-in default)")
	analyzeCmd.Flags().StringVarP(&analyzeOutDir, "out", "o", "", "Directory for analysis JSON output (defaults to stdout)")
	analyzeCmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Print formatted per-iteration progress")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	// Step 1: Load config file if provided
	var cfg config.Config
	if analyzeConfigPath != "" {
		loadedCfg, err := config.LoadConfig(analyzeConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if err := loadedCfg.Validate(); err != nil {
			return err
		}

		cfg = *loadedCfg
		if analyzeVerbose {
			_, _ = fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", analyzeConfigPath)
		}
	}

	// Step 2: Apply CLI overrides (command-line args take priority)
	if cmd.Flags().Changed("requisition") {
		cfg.Requisition = analyzeRequisition
	}
	if cmd.Flags().Changed("url") {
		cfg.RequisitionURL = analyzeURL
	}
	if cmd.Flags().Changed("provider") {
		cfg.Provider = analyzeProvider
	}
	if cmd.Flags().Changed("model") {
		cfg.Model = analyzeModel
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = analyzeAPIKey
	}
	if cmd.Flags().Changed("max-iterations") {
		cfg.MaxIterations = analyzeMaxIterations
	}
	if cmd.Flags().Changed("fit-threshold") {
		cfg.FitThreshold = analyzeFitThreshold
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = analyzeVerbose
	}

	// Step 3: Apply defaults for unset values
	defaults := config.Config{
		Provider:      string(llm.ProviderGemini),
		MaxIterations: orchestrator.DefaultMaxIterations,
		FitThreshold:  orchestrator.DefaultFitThreshold,
	}
	cfg = cfg.MergeWithDefaults(defaults)

	// Step 4: Collect requisition sources
	files := append([]string{}, args...)
	if cfg.Requisition != "" {
		files = append([]string{cfg.Requisition}, files...)
	}
	if cfg.RequisitionURL != "" && len(files) > 0 {
		return fmt.Errorf("--url and requisition files are mutually exclusive; provide only one kind of input")
	}
	if cfg.RequisitionURL == "" && len(files) == 0 {
		return fmt.Errorf("at least one requisition file, --requisition, or --url must be provided")
	}

	// Step 5: API key handling
	apiKey, err := resolveAPIKey(cfg.Provider, cfg.APIKey)
	if err != nil {
		return err
	}
	cfg.APIKey = apiKey

	if cfg.RequisitionURL != "" {
		req, err := ingest.FromURL(ctx, cfg.RequisitionURL)
		if err != nil {
			return fmt.Errorf("failed to ingest requisition from URL: %w", err)
		}
		out, err := analyzeOne(ctx, cfg, req)
		if out != nil {
			_, _ = os.Stdout.Write(out)
		}
		return err
	}

	// Each file gets its own client and orchestrator; output is buffered per
	// run so concurrent runs do not interleave.
	outputs := make([][]byte, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, path := range files {
		g.Go(func() error {
			req, err := ingest.FromFile(path)
			if err != nil {
				return fmt.Errorf("failed to load requisition %s: %w", path, err)
			}
			out, err := analyzeOne(gctx, cfg, req)
			outputs[i] = out
			if err != nil {
				return fmt.Errorf("analysis of %s failed: %w", path, err)
			}
			return nil
		})
	}
	runErr := g.Wait()

	for _, out := range outputs {
		if out != nil {
			_, _ = os.Stdout.Write(out)
		}
	}
	return runErr
}

// analyzeOne runs a single requisition through a fresh orchestrator and
// returns the buffered human-readable output. The analysis JSON is written
// to the output directory when one is configured, otherwise appended to the
// returned buffer.
func analyzeOne(ctx context.Context, cfg config.Config, req *types.Requisition) ([]byte, error) {
	llmCfg := llm.DefaultConfig(cfg.APIKey)
	if cfg.Provider != "" {
		llmCfg.Provider = llm.Provider(cfg.Provider)
	}
	if cfg.Model != "" {
		llmCfg.Model = cfg.Model
	}

	client, err := llm.NewClient(ctx, llmCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = client.Close() }()

	o := orchestrator.New(client, orchestrator.Config{
		MaxIterations: cfg.MaxIterations,
		FitThreshold:  cfg.FitThreshold,
	}, nil)

	var buf bytes.Buffer
	printer := observability.NewPrinter(&buf)
	if cfg.Verbose {
		printer.PrintRequisition(req)
	}

	result, analyzeErr := o.Analyze(ctx, req)

	if cfg.Verbose && result != nil {
		for i := range result.Iterations {
			printer.PrintIteration(&result.Iterations[i])
		}
		printer.PrintFinalOutput(result.FinalOutput)
	}
	printer.PrintUsage(o.Usage())

	if analyzeErr != nil {
		return buf.Bytes(), analyzeErr
	}

	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return buf.Bytes(), fmt.Errorf("failed to encode analysis result: %w", err)
	}
	encoded = append(encoded, '\n')

	if analyzeOutDir != "" {
		if err := os.MkdirAll(analyzeOutDir, 0o755); err != nil {
			return buf.Bytes(), fmt.Errorf("failed to create output directory: %w", err)
		}
		outPath := filepath.Join(analyzeOutDir, analysisFileName(req))
		if err := os.WriteFile(outPath, encoded, 0o644); err != nil {
			return buf.Bytes(), fmt.Errorf("failed to write analysis output: %w", err)
		}
		fmt.Fprintf(&buf, "Analysis written to: %s\n", outPath)
	} else {
		buf.Write(encoded)
	}

	return buf.Bytes(), nil
}

// analysisFileName derives an output file name from the requisition title,
// falling back to the requisition ID.
func analysisFileName(req *types.Requisition) string {
	stem := strings.ToLower(strings.TrimSpace(req.BasicInfo.Title))
	stem = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ' || r == '-' || r == '_':
			return '_'
		default:
			return -1
		}
	}, stem)
	if stem == "" {
		stem = req.ID.String()
	}
	return stem + ".analysis.json"
}
