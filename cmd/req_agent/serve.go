package main

import (
	"fmt"
	"os"

	"github.com/jonathan/req-consultant/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for submitting requisitions and running analyses.`,
	RunE:  runServe,
}

var (
	servePort          int
	serveProvider      string
	serveModel         string
	serveMaxIterations int
	serveFitThreshold  float64
	serveRequireAuth   bool
)

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().StringVar(&serveProvider, "provider", "", "LLM provider: gemini or openrouter (defaults to gemini)")
	serveCmd.Flags().StringVar(&serveModel, "model", "", "Model identifier (defaults to the provider default)")
	serveCmd.Flags().IntVar(&serveMaxIterations, "max-iterations", 0, "Maximum analysis rounds per run (0 uses the built-in default)")
	serveCmd.Flags().Float64Var(&serveFitThreshold, "fit-threshold", 0, "Overall fit score required to converge (0 uses the built-in default)")
	serveCmd.Flags().BoolVar(&serveRequireAuth, "require-auth", false, "Protect submission and analysis endpoints with JWT")

	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	// Get database URL from environment
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	apiKey, err := resolveAPIKey(serveProvider, "")
	if err != nil {
		return err
	}

	cfg := server.Config{
		Port:          servePort,
		DatabaseURL:   databaseURL,
		Provider:      serveProvider,
		Model:         serveModel,
		APIKey:        apiKey,
		MaxIterations: serveMaxIterations,
		FitThreshold:  serveFitThreshold,
		RequireAuth:   serveRequireAuth,
	}

	srv, err := server.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}

// resolveAPIKey returns the explicit key when set, otherwise reads the
// environment variable matching the provider. An empty provider means gemini.
func resolveAPIKey(provider, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	envVar := "GEMINI_API_KEY"
	if provider == "openrouter" {
		envVar = "OPENROUTER_API_KEY"
	}

	key := os.Getenv(envVar)
	if key == "" {
		return "", fmt.Errorf("%s environment variable or --api-key flag is required", envVar)
	}
	return key, nil
}
