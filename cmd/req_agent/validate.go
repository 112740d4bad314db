package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/jonathan/req-consultant/internal/schemas"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a JSON document against a schema",
	Long:  "Validates a requisition JSON file against the built-in requisition schema, or any JSON file against an explicit schema file.",
	RunE:  runValidate,
}

var (
	validateJSON   string
	validateSchema string
)

func init() {
	validateCmd.Flags().StringVarP(&validateJSON, "json", "j", "", "Path to JSON file to validate (required)")
	validateCmd.Flags().StringVarP(&validateSchema, "schema", "s", "", "Path to schema file (defaults to the built-in requisition schema)")

	if err := validateCmd.MarkFlagRequired("json"); err != nil {
		panic(fmt.Sprintf("failed to mark json flag as required: %v", err))
	}

	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, _ []string) error {
	var err error
	if validateSchema != "" {
		err = schemas.ValidateJSONFile(validateSchema, validateJSON)
	} else {
		content, readErr := os.ReadFile(validateJSON)
		if readErr != nil {
			return fmt.Errorf("failed to read JSON file: %w", readErr)
		}
		err = schemas.ValidateRequisition(content)
	}

	if err != nil {
		var validationErr *schemas.ValidationError
		if errors.As(err, &validationErr) {
			fmt.Fprintf(os.Stdout, "Validation failed:\n")
			for _, fieldErr := range validationErr.Errors {
				fmt.Fprintf(os.Stdout, "  - %s: %s\n", fieldErr.Field, fieldErr.Message)
			}
			return fmt.Errorf("document does not conform to schema")
		}
		return err
	}

	fmt.Fprintf(os.Stdout, "Validation passed\n")
	return nil
}
