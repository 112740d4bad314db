package main

import (
	"os/exec"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/req-consultant/internal/types"
)

func TestAnalysisFileName(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		expected string
	}{
		{"simple title", "Senior Platform Engineer", "senior_platform_engineer.analysis.json"},
		{"punctuation stripped", "Staff SRE (Remote, US)", "staff_sre_remote_us.analysis.json"},
		{"hyphens become underscores", "Front-End Developer", "front_end_developer.analysis.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &types.Requisition{ID: uuid.New()}
			req.BasicInfo.Title = tt.title
			assert.Equal(t, tt.expected, analysisFileName(req))
		})
	}
}

func TestAnalysisFileName_EmptyTitleFallsBackToID(t *testing.T) {
	req := &types.Requisition{ID: uuid.New()}
	req.BasicInfo.Title = "???"
	assert.Equal(t, req.ID.String()+".analysis.json", analysisFileName(req))
}

func TestResolveAPIKey(t *testing.T) {
	t.Run("explicit key wins", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "from-env")
		key, err := resolveAPIKey("gemini", "from-flag")
		require.NoError(t, err)
		assert.Equal(t, "from-flag", key)
	})

	t.Run("gemini falls back to env", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "gemini-key")
		key, err := resolveAPIKey("", "")
		require.NoError(t, err)
		assert.Equal(t, "gemini-key", key)
	})

	t.Run("openrouter reads its own env var", func(t *testing.T) {
		t.Setenv("OPENROUTER_API_KEY", "router-key")
		key, err := resolveAPIKey("openrouter", "")
		require.NoError(t, err)
		assert.Equal(t, "router-key", key)
	})

	t.Run("missing key is an error", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "")
		_, err := resolveAPIKey("gemini", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "GEMINI_API_KEY")
	})
}

func TestAnalyzeCommand_NoInput(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "analyze")
	output, err := cmd.CombinedOutput()

	assert.Error(t, err, "command should fail without a requisition source")
	assert.Contains(t, string(output), "at least one requisition")
}

func TestAnalyzeCommand_URLAndFileMutuallyExclusive(t *testing.T) {
	binaryPath := getBinaryPath(t)

	jsonPath := writeTempJSON(t, "requisition.json", validRequisitionJSON)

	cmd := exec.Command(binaryPath, "analyze", "--url", "https://example.com/job", jsonPath)
	output, err := cmd.CombinedOutput()

	assert.Error(t, err, "command should fail with both input kinds")
	assert.Contains(t, string(output), "mutually exclusive")
}
