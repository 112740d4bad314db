package repair

import "fmt"

// rawPreviewLen bounds how much of the raw response is kept in error messages
const rawPreviewLen = 500

// MalformedError indicates that JSON extraction and best-effort repair did
// not yield parseable JSON. It is never retried by this package; retry
// policy belongs to the caller.
type MalformedError struct {
	Raw   string
	Cause error
}

func (e *MalformedError) Error() string {
	preview := e.Raw
	if len(preview) > rawPreviewLen {
		preview = preview[:rawPreviewLen] + "..."
	}
	if e.Cause != nil {
		return fmt.Sprintf("malformed LLM response: %v (raw: %q)", e.Cause, preview)
	}
	return fmt.Sprintf("malformed LLM response (raw: %q)", preview)
}

func (e *MalformedError) Unwrap() error {
	return e.Cause
}
