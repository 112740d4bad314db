package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/req-consultant/internal/db"
	"github.com/jonathan/req-consultant/internal/ingest"
	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest a job posting from a URL into a requisition",
	Long:  "Fetch a job posting page, extract the title, responsibilities, and qualifications, and output a requisition JSON document ready for analysis.",
	RunE:  runIngest,
}

var (
	ingestURL   string
	ingestOut   string
	ingestDBURL string
)

func init() {
	ingestCmd.Flags().StringVarP(&ingestURL, "url", "u", "", "URL to fetch the job posting from (required)")
	ingestCmd.Flags().StringVarP(&ingestOut, "out", "o", "", "Path to output requisition JSON file (defaults to stdout)")
	ingestCmd.Flags().StringVar(&ingestDBURL, "db-url", "", "PostgreSQL connection URL to persist the requisition (optional, defaults to DATABASE_URL env var)")

	if err := ingestCmd.MarkFlagRequired("url"); err != nil {
		panic(fmt.Sprintf("failed to mark url flag as required: %v", err))
	}

	rootCmd.AddCommand(ingestCmd)
}

func runIngest(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	req, err := ingest.FromURL(ctx, ingestURL)
	if err != nil {
		return fmt.Errorf("failed to ingest from URL: %w", err)
	}

	databaseURL := ingestDBURL
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL != "" {
		database, err := db.Connect(ctx, databaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()

		saved, err := database.CreateRequisition(ctx, req)
		if err != nil {
			return fmt.Errorf("failed to persist requisition: %w", err)
		}
		req = saved
		fmt.Fprintf(os.Stdout, "Requisition persisted with ID: %s\n", req.ID)
	}

	encoded, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode requisition: %w", err)
	}
	encoded = append(encoded, '\n')

	if ingestOut == "" {
		_, _ = os.Stdout.Write(encoded)
		return nil
	}

	if err := os.WriteFile(ingestOut, encoded, 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	fmt.Fprintf(os.Stdout, "Successfully ingested job posting\n")
	fmt.Fprintf(os.Stdout, "Requisition: %s\n", ingestOut)

	return nil
}
