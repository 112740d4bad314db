// Package ingest turns job postings, fetched from a URL or read from a
// file, into requisition records ready for analysis.
package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultTimeout is the default HTTP request timeout
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests
const DefaultUserAgent = "Mozilla/5.0 (compatible; ReqConsultant/1.0)"

// FetchError represents an error during URL fetching
type FetchError struct {
	URL     string
	Message string
	Cause   error
}

func (e *FetchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// Page holds the raw and processed content of a fetched job posting
type Page struct {
	URL        string
	HTML       string
	StatusCode int
}

// FetchPage retrieves the HTML of a job posting URL
func FetchPage(ctx context.Context, urlStr string) (*Page, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, &FetchError{URL: urlStr, Message: "invalid URL", Cause: err}
	}

	client := &http.Client{Timeout: DefaultTimeout}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, &FetchError{URL: urlStr, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", DefaultUserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: urlStr, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: urlStr, Message: "failed to read response body", Cause: err}
	}

	page := &Page{URL: urlStr, HTML: string(body), StatusCode: resp.StatusCode}
	if resp.StatusCode != http.StatusOK {
		return page, &FetchError{URL: urlStr, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}
	return page, nil
}

// contentSelectors are tried in order to locate the posting body. The
// first match wins; body is the fallback.
var contentSelectors = []string{
	".job-description",
	".job-content",
	"#job-description",
	"#content .posting",
	"main",
	"article",
	".content",
	"#content",
}

// extractContent parses posting HTML and returns the page title and the
// main body text with navigation chrome stripped.
func extractContent(html string) (title, text string, err error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok && strings.TrimSpace(og) != "" {
		title = strings.TrimSpace(og)
	} else if h1 := doc.Find("h1").First(); h1.Length() > 0 {
		title = strings.TrimSpace(h1.Text())
	} else {
		title = strings.TrimSpace(doc.Find("title").Text())
	}

	doc.Find("nav, footer, header, script, style, noscript, .ad, .ads, .sidebar, .cookie-banner, .popup").Remove()

	var main *goquery.Selection
	for _, selector := range contentSelectors {
		if selection := doc.Find(selector); selection.Length() > 0 {
			main = selection.First()
			break
		}
	}
	if main == nil {
		main = doc.Find("body")
	}

	return title, cleanText(blockText(main)), nil
}

// blockText renders a selection to text with block elements separated by
// newlines, so headings and list items stay on their own lines.
func blockText(s *goquery.Selection) string {
	var b strings.Builder
	s.Find("h1, h2, h3, h4, h5, h6, p, li, div").Each(func(_ int, el *goquery.Selection) {
		if el.Children().Length() > 0 && el.Is("div") {
			return // only leaf divs contribute text directly
		}
		line := strings.TrimSpace(el.Text())
		if line != "" {
			b.WriteString(line)
			b.WriteString("\n")
		}
	})
	if b.Len() == 0 {
		return s.Text()
	}
	return b.String()
}

var (
	spaceRe     = regexp.MustCompile(`[ \t]+`)
	blankLineRe = regexp.MustCompile(`\n\n\n+`)
)

// cleanText normalizes whitespace while preserving line structure
func cleanText(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		cleaned = append(cleaned, spaceRe.ReplaceAllString(strings.TrimSpace(line), " "))
	}

	result := strings.Join(cleaned, "\n")
	result = blankLineRe.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}
