package cmd

import (
	"testing"
)

func TestParseCommaSeparatedList(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: nil,
		},
		{
			name:     "single value",
			input:    "work",
			expected: []string{"work"},
		},
		{
			name:     "multiple values",
			input:    "work,personal",
			expected: []string{"work", "personal"},
		},
		{
			name:     "values with spaces around comma",
			input:    "work, personal",
			expected: []string{"work", "personal"},
		},
		{
			name:     "values with leading/trailing spaces",
			input:    "  work  ,  personal  ",
			expected: []string{"work", "personal"},
		},
		{
			name:     "trailing comma",
			input:    "work,personal,",
			expected: []string{"work", "personal"},
		},
		{
			name:     "leading comma",
			input:    ",work,personal",
			expected: []string{"work", "personal"},
		},
		{
			name:     "multiple consecutive commas",
			input:    "work,,personal",
			expected: []string{"work", "personal"},
		},
		{
			name:     "only commas and spaces",
			input:    ",  , , ",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseCommaSeparatedList(tt.input)
			if len(result) != len(tt.expected) {
				t.Fatalf("parseCommaSeparatedList(%q) = %v, expected %v", tt.input, result, tt.expected)
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("parseCommaSeparatedList(%q)[%d] = %q, expected %q", tt.input, i, result[i], tt.expected[i])
				}
			}
		})
	}
}
