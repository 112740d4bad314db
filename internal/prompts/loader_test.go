package prompts

import (
	"strings"
	"testing"
)

func TestGet_AgentPrompts(t *testing.T) {
	keys := []string{
		"analyzer-system", "analyzer-user",
		"researcher-system", "researcher-user",
		"recruiter-system", "recruiter-user",
		"strategy-system", "strategy-user",
	}

	for _, key := range keys {
		t.Run(key, func(t *testing.T) {
			prompt, err := Get("agents.json", key)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if prompt == "" {
				t.Error("Get() returned empty prompt")
			}
		})
	}
}

func TestGet_MissingKey(t *testing.T) {
	if _, err := Get("agents.json", "no-such-prompt"); err == nil {
		t.Error("Get() expected error for missing key")
	}
}

func TestGet_MissingFile(t *testing.T) {
	if _, err := Get("missing.json", "analyzer-system"); err == nil {
		t.Error("Get() expected error for missing file")
	}
}

func TestFormat(t *testing.T) {
	template := "Title: {{.Title}}, Location: {{.Location}}"
	result := Format(template, map[string]string{
		"Title":    "Data Analyst",
		"Location": "Remote",
	})
	expected := "Title: Data Analyst, Location: Remote"
	if result != expected {
		t.Errorf("Format() = %q, want %q", result, expected)
	}
}

func TestFormat_UnknownPlaceholderLeftIntact(t *testing.T) {
	result := Format("{{.Known}} and {{.Unknown}}", map[string]string{"Known": "x"})
	if !strings.Contains(result, "{{.Unknown}}") {
		t.Errorf("Format() = %q, unknown placeholder should remain", result)
	}
}

func TestUserPromptsContainPlaceholders(t *testing.T) {
	prompt := MustGet("agents.json", "recruiter-user")
	for _, placeholder := range []string{"{{.Title}}", "{{.Iteration}}", "{{.MustHaveDetailed}}"} {
		if !strings.Contains(prompt, placeholder) {
			t.Errorf("recruiter-user missing placeholder %s", placeholder)
		}
	}
}
