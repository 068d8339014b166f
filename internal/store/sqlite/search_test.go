package sqlite

import (
	"testing"
)

func TestConvertWebsearchToFTS5(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple term",
			input:    "fox",
			expected: "fox",
		},
		{
			name:     "multiple terms",
			input:    "sun high",
			expected: "sun AND high",
		},
		{
			name:     "explicit AND",
			input:    "fox AND badger",
			expected: "fox AND badger",
		},
		{
			name:     "explicit OR",
			input:    "fox OR badger",
			expected: "fox OR badger",
		},
		{
			name:     "negation",
			input:    "fox -rogue",
			expected: "fox NOT rogue",
		},
		{
			name:     "phrase",
			input:    `"dark forest"`,
			expected: `"dark forest"`,
		},
		{
			name:     "phrase with other term",
			input:    `"dark forest" border`,
			expected: `"dark forest" AND border`,
		},
		{
			name:     "prefix search",
			input:    "fox*",
			expected: "fox*",
		},
		{
			name:     "complex query",
			input:    `"dark forest" -rogue border OR camp`,
			expected: `"dark forest" NOT rogue AND border OR camp`,
		},
		{
			name:     "empty",
			input:    "   ",
			expected: "",
		},
		{
			name:     "NOT operator",
			input:    "fox NOT rogue",
			expected: "fox NOT rogue",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := convertWebsearchToFTS5(tt.input)
			if result != tt.expected {
				t.Errorf("convertWebsearchToFTS5(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}
