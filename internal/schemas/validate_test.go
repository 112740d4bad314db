package schemas

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRequisition_Valid(t *testing.T) {
	payload := []byte(`{
		"basic_info": {"title": "Backend Engineer", "department": "Platform"},
		"responsibilities": "Build and operate services",
		"qualifications": "Go, PostgreSQL"
	}`)

	assert.NoError(t, ValidateRequisition(payload))
}

func TestValidateRequisition_MissingRequired(t *testing.T) {
	payload := []byte(`{
		"basic_info": {"department": "Platform"},
		"responsibilities": "Build and operate services"
	}`)

	err := ValidateRequisition(payload)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok, "error should be ValidationError type")
	assert.Greater(t, len(validationErr.Errors), 0)

	fields := make([]string, 0, len(validationErr.Errors))
	for _, fe := range validationErr.Errors {
		fields = append(fields, fe.Field)
	}
	assert.Contains(t, fields, "basic_info")
	assert.Contains(t, fields, "(root)")
}

func TestValidateRequisition_WrongType(t *testing.T) {
	payload := []byte(`{
		"basic_info": {"title": "Backend Engineer"},
		"responsibilities": "Build services",
		"qualifications": "Go",
		"additional_context": {"team_size": "five"}
	}`)

	err := ValidateRequisition(payload)
	require.Error(t, err)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Greater(t, len(validationErr.Errors), 0)
}

func TestValidateRequisition_UnknownField(t *testing.T) {
	payload := []byte(`{
		"basic_info": {"title": "Backend Engineer"},
		"responsibilities": "Build services",
		"qualifications": "Go",
		"headcount": 3
	}`)

	err := ValidateRequisition(payload)
	require.Error(t, err, "additionalProperties must be rejected")
}

func TestValidateJSONFile(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "req.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{
		"basic_info": {"title": "Analyst"},
		"responsibilities": "Analyze",
		"qualifications": "SQL"
	}`), 0o600))

	assert.NoError(t, ValidateJSONFile("requisition.schema.json", jsonPath))

	badPath := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(badPath, []byte(`{"responsibilities": "Analyze"}`), 0o600))

	err := ValidateJSONFile("requisition.schema.json", badPath)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestValidateJSONFile_MissingFiles(t *testing.T) {
	err := ValidateJSONFile("nonexistent.schema.json", "also-missing.json")
	require.Error(t, err)

	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "req.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{}`), 0o600))
	err = ValidateJSONFile("requisition.schema.json", filepath.Join(dir, "missing.json"))
	require.Error(t, err)
}
