package repair

import (
	"errors"
	"reflect"
	"testing"
)

func TestRepairAndParse_Truncation(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected map[string]any
	}{
		{
			name:     "unterminated string",
			input:    `{"a":"b`,
			expected: map[string]any{"a": "b"},
		},
		{
			name:     "unterminated array",
			input:    `{"a":[1,2`,
			expected: map[string]any{"a": []any{float64(1), float64(2)}},
		},
		{
			name:     "unterminated nested object",
			input:    `{"a":{"b":1`,
			expected: map[string]any{"a": map[string]any{"b": float64(1)}},
		},
		{
			name:     "trailing comma before closer",
			input:    `{"a":1,}`,
			expected: map[string]any{"a": float64(1)},
		},
		{
			name:     "trailing comma in array",
			input:    `{"a":[1,2,]}`,
			expected: map[string]any{"a": []any{float64(1), float64(2)}},
		},
		{
			name:     "already valid",
			input:    `{"a":1}`,
			expected: map[string]any{"a": float64(1)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got map[string]any
			if err := RepairAndParse(tt.input, &got); err != nil {
				t.Fatalf("RepairAndParse() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("RepairAndParse() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRepairAndParse_Extraction(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected map[string]any
	}{
		{
			name:     "fenced json block",
			input:    "Here is the result:\n```json\n{\"a\": \"b\"}\n```\nLet me know if you need more.",
			expected: map[string]any{"a": "b"},
		},
		{
			name:     "fenced block without language tag",
			input:    "```\n{\"a\": \"b\"}\n```",
			expected: map[string]any{"a": "b"},
		},
		{
			name:     "prose before and after braces",
			input:    `Based on my analysis, {"a": "b"} covers everything.`,
			expected: map[string]any{"a": "b"},
		},
		{
			name:     "string containing literal braces",
			input:    `{"a": "use {x} and [y]"}`,
			expected: map[string]any{"a": "use {x} and [y]"},
		},
		{
			name:     "fenced block truncated mid string",
			input:    "```json\n{\"a\": \"partial",
			expected: map[string]any{"a": "partial"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got map[string]any
			if err := RepairAndParse(tt.input, &got); err != nil {
				t.Fatalf("RepairAndParse() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("RepairAndParse() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRepairAndParse_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty input", input: ""},
		{name: "no braces at all", input: "I could not produce any structured output."},
		{name: "unrecoverable garbage", input: `{"a": ,,,`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got map[string]any
			err := RepairAndParse(tt.input, &got)
			if err == nil {
				t.Fatal("RepairAndParse() expected error, got nil")
			}
			var malformed *MalformedError
			if !errors.As(err, &malformed) {
				t.Errorf("RepairAndParse() error = %T, want *MalformedError", err)
			}
		})
	}
}

func TestMalformedError_TruncatesRawPreview(t *testing.T) {
	long := make([]byte, 2000)
	for i := range long {
		long[i] = 'x'
	}
	err := &MalformedError{Raw: string(long)}
	if len(err.Error()) > rawPreviewLen+100 {
		t.Errorf("error message not truncated: %d chars", len(err.Error()))
	}
}
