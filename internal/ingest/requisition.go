package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/req-consultant/internal/types"
)

// FromURL fetches a job posting page and converts it to a requisition
func FromURL(ctx context.Context, url string) (*types.Requisition, error) {
	page, err := FetchPage(ctx, url)
	if err != nil {
		return nil, err
	}
	return FromHTML(page.URL, page.HTML)
}

// FromHTML converts raw posting HTML to a requisition. Section headings
// split the body into responsibilities and qualifications; lines outside
// any recognized section fall into responsibilities so no content is lost.
func FromHTML(url, html string) (*types.Requisition, error) {
	title, text, err := extractContent(html)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, &FetchError{URL: url, Message: "no text content found in page"}
	}

	responsibilities, qualifications := splitSections(text)

	now := time.Now().UTC()
	req := &types.Requisition{
		ID: uuid.New(),
		BasicInfo: types.BasicInfo{
			Title: title,
		},
		Responsibilities: responsibilities,
		Qualifications:   qualifications,
		AdditionalContext: types.AdditionalContext{
			Salary:  detectSalary(text),
			Urgency: "normal",
		},
		Status:    types.RequisitionPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.BasicInfo.Title == "" {
		return nil, &FetchError{URL: url, Message: "could not determine job title"}
	}
	return req, nil
}

// FromFile reads a requisition from a JSON file
func FromFile(path string) (*types.Requisition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read requisition file %s: %w", path, err)
	}

	var req types.Requisition
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse requisition JSON: %w", err)
	}

	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	if req.Status == "" {
		req.Status = types.RequisitionPending
	}
	now := time.Now().UTC()
	if req.CreatedAt.IsZero() {
		req.CreatedAt = now
	}
	if req.UpdatedAt.IsZero() {
		req.UpdatedAt = now
	}
	return &req, nil
}

type sectionKind int

const (
	sectionNone sectionKind = iota
	sectionResponsibilities
	sectionQualifications
)

var responsibilityHeadings = []string{
	"responsibilities",
	"what you'll do",
	"what you will do",
	"the role",
	"your mission",
	"duties",
	"about the role",
}

var qualificationHeadings = []string{
	"qualifications",
	"requirements",
	"what you bring",
	"what we're looking for",
	"what we are looking for",
	"about you",
	"skills",
	"minimum qualifications",
	"preferred qualifications",
	"who you are",
}

// splitSections assigns lines to responsibilities or qualifications based
// on the most recent recognized heading.
func splitSections(text string) (responsibilities, qualifications string) {
	var resp, qual []string
	current := sectionNone

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if kind, ok := headingKind(line); ok {
			current = kind
			continue
		}

		switch current {
		case sectionQualifications:
			qual = append(qual, line)
		default:
			resp = append(resp, line)
		}
	}
	return strings.Join(resp, "\n"), strings.Join(qual, "\n")
}

// headingKind reports whether a line is a section heading. Headings are
// short lines matching a known phrase, with or without a trailing colon.
func headingKind(line string) (sectionKind, bool) {
	if len(line) > 60 {
		return sectionNone, false
	}
	normalized := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(line), ":"))

	for _, h := range qualificationHeadings {
		if normalized == h {
			return sectionQualifications, true
		}
	}
	for _, h := range responsibilityHeadings {
		if normalized == h {
			return sectionResponsibilities, true
		}
	}
	return sectionNone, false
}

var salaryRe = regexp.MustCompile(`(?i)[$€£]\s?\d[\d,.]*\s?[kK]?(?:\s*[-–]\s*[$€£]?\s?\d[\d,.]*\s?[kK]?)?(?:\s*(?:per year|per annum|annually|/yr|/year))?`)

// detectSalary returns the first salary-looking figure in the posting
func detectSalary(text string) string {
	match := salaryRe.FindString(text)
	return strings.TrimSpace(match)
}
