package agents

import (
	"context"
	"strings"
	"testing"
)

const analyzerResponse = `{
  "standardized_title": "Data Analyst",
  "technical_skills": ["SQL", "Python"],
  "soft_skills": ["communication"],
  "experience_requirements": ["3+ years analytics"],
  "clarifying_questions": [
    {"question": "Which BI tool does the team use?", "category": "technical", "priority": "high"}
  ],
  "ambiguities": ["seniority is unclear"]
}`

func TestAnalyzer_Run(t *testing.T) {
	client := &stubClient{response: analyzerResponse}
	analyzer := NewAnalyzer(client)

	output, metrics, err := analyzer.Run(context.Background(), testRequisition())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if metrics == nil {
		t.Fatal("Run() metrics should not be nil on success")
	}

	if output.StandardizedTitle != "Data Analyst" {
		t.Errorf("StandardizedTitle = %q", output.StandardizedTitle)
	}
	if len(output.ClarifyingQuestions) != 1 {
		t.Fatalf("ClarifyingQuestions len = %d, want 1", len(output.ClarifyingQuestions))
	}
	q := output.ClarifyingQuestions[0]
	if q.ID == "" {
		t.Error("question ID should be backfilled")
	}
	if q.IsAnswered {
		t.Error("analyzer questions start unanswered")
	}
}

func TestAnalyzer_Run_InterpolatesRequisition(t *testing.T) {
	client := &stubClient{response: analyzerResponse}
	analyzer := NewAnalyzer(client)

	if _, _, err := analyzer.Run(context.Background(), testRequisition()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	for _, want := range []string{"Data Analyst", "Build dashboards", "SQL, Python"} {
		if !strings.Contains(client.lastUser, want) {
			t.Errorf("user prompt missing %q", want)
		}
	}
	if strings.Contains(client.lastUser, "{{.") {
		t.Error("user prompt contains unresolved placeholders")
	}
}

func TestAnalyzer_Run_DefaultsEmptySlices(t *testing.T) {
	client := &stubClient{response: `{"standardized_title": "Data Analyst"}`}
	analyzer := NewAnalyzer(client)

	output, _, err := analyzer.Run(context.Background(), testRequisition())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if output.TechnicalSkills == nil || output.SoftSkills == nil ||
		output.ExperienceRequirements == nil || output.Ambiguities == nil ||
		output.ClarifyingQuestions == nil {
		t.Error("all slice fields must be non-nil after the ensure pass")
	}
}
