// Package main provides the entry point for the requisition consultant CLI and API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "req_agent",
	Short: "Recruiting Requisition Consultant",
	Long:  "Requisition consultant runs a multi-agent clarification loop over job requisitions, producing candidate profiles, clarifying questions, and sourcing strategies via CLI or REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
