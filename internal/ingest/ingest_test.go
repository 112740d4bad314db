package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/jonathan/req-consultant/internal/types"
)

const samplePostingHTML = `<!DOCTYPE html>
<html>
<head>
	<title>Careers</title>
	<meta property="og:title" content="Senior Backend Engineer">
</head>
<body>
	<nav>Home | Jobs | About</nav>
	<main class="job-description">
		<h1>Senior Backend Engineer</h1>
		<p>Join our platform team building high-throughput services.</p>
		<h2>Responsibilities</h2>
		<ul>
			<li>Design and operate Go microservices</li>
			<li>Own the service reliability roadmap</li>
		</ul>
		<h2>Requirements</h2>
		<ul>
			<li>5+ years backend experience</li>
			<li>Production experience with PostgreSQL</li>
		</ul>
		<p>Compensation: $150,000 - $190,000 per year</p>
	</main>
	<footer>Copyright</footer>
</body>
</html>`

func TestFromHTML(t *testing.T) {
	req, err := FromHTML("https://example.com/jobs/123", samplePostingHTML)
	if err != nil {
		t.Fatalf("FromHTML() error = %v", err)
	}

	if req.BasicInfo.Title != "Senior Backend Engineer" {
		t.Errorf("Title = %q", req.BasicInfo.Title)
	}
	if req.ID == uuid.Nil {
		t.Error("ID not assigned")
	}
	if req.Status != types.RequisitionPending {
		t.Errorf("Status = %q", req.Status)
	}

	if !strings.Contains(req.Responsibilities, "Go microservices") {
		t.Errorf("Responsibilities missing list content:\n%s", req.Responsibilities)
	}
	if !strings.Contains(req.Qualifications, "PostgreSQL") {
		t.Errorf("Qualifications missing list content:\n%s", req.Qualifications)
	}
	if strings.Contains(req.Qualifications, "Go microservices") {
		t.Error("responsibility content leaked into qualifications")
	}

	if !strings.Contains(req.AdditionalContext.Salary, "$150,000") {
		t.Errorf("Salary = %q", req.AdditionalContext.Salary)
	}

	// Navigation chrome must not survive extraction
	if strings.Contains(req.Responsibilities, "Home | Jobs") {
		t.Error("nav content leaked into responsibilities")
	}
}

func TestFromHTML_NoContent(t *testing.T) {
	if _, err := FromHTML("https://example.com/empty", "<html><body></body></html>"); err == nil {
		t.Error("expected error for empty page")
	}
}

func TestFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "req.json")
	content := `{
		"basic_info": {"title": "Data Engineer", "department": "Platform"},
		"responsibilities": "Build pipelines",
		"qualifications": "SQL, Python"
	}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	req, err := FromFile(path)
	if err != nil {
		t.Fatalf("FromFile() error = %v", err)
	}
	if req.BasicInfo.Title != "Data Engineer" {
		t.Errorf("Title = %q", req.BasicInfo.Title)
	}
	if req.ID == uuid.Nil {
		t.Error("missing ID not backfilled")
	}
	if req.Status != types.RequisitionPending {
		t.Errorf("Status = %q, want pending default", req.Status)
	}
	if req.CreatedAt.IsZero() || req.UpdatedAt.IsZero() {
		t.Error("timestamps not backfilled")
	}
}

func TestFromFile_Errors(t *testing.T) {
	if _, err := FromFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.json")
	_ = os.WriteFile(path, []byte("not json"), 0o600)
	if _, err := FromFile(path); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestHeadingKind(t *testing.T) {
	tests := []struct {
		line string
		want sectionKind
		ok   bool
	}{
		{"Responsibilities", sectionResponsibilities, true},
		{"What You'll Do:", sectionResponsibilities, true},
		{"Requirements", sectionQualifications, true},
		{"Minimum Qualifications:", sectionQualifications, true},
		{"WHO YOU ARE", sectionQualifications, true},
		{"You will be responsible for building distributed systems at scale every day", sectionNone, false},
		{"Some random paragraph", sectionNone, false},
	}

	for _, tt := range tests {
		kind, ok := headingKind(tt.line)
		if kind != tt.want || ok != tt.ok {
			t.Errorf("headingKind(%q) = (%v, %v), want (%v, %v)", tt.line, kind, ok, tt.want, tt.ok)
		}
	}
}

func TestDetectSalary(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Base pay $120,000 - $150,000 per year plus equity", "$120,000 - $150,000 per year"},
		{"Salary: €80k", "€80k"},
		{"No compensation listed", ""},
	}

	for _, tt := range tests {
		if got := detectSalary(tt.text); got != tt.want {
			t.Errorf("detectSalary(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestCleanText(t *testing.T) {
	in := "Line one   with\tspaces\r\n\r\n\r\n\r\nLine two\r\n"
	got := cleanText(in)
	want := "Line one with spaces\n\nLine two"
	if got != want {
		t.Errorf("cleanText() = %q, want %q", got, want)
	}
}
