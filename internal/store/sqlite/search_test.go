package sqlite

import "testing"

func TestWebsearchToFTS5(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "simple term", input: "lich", expected: `"lich"`},
		{name: "multiple terms", input: "red dragon", expected: `"red" AND "dragon"`},
		{name: "explicit OR", input: "dragon OR lich", expected: `"dragon" OR "lich"`},
		{name: "negation", input: "dragon -fire", expected: `"dragon" NOT "fire"`},
		{name: "leading negation dropped", input: "-fire", expected: `"fire"`},
		{name: "phrase with other term", input: `"sunken crypt" lich`, expected: `"sunken crypt" AND "lich"`},
		{name: "prefix search", input: "drag*", expected: `"drag"*`},
		{name: "punctuation quoted", input: "act-2 o'brien", expected: `"act-2" AND "o'brien"`},
		{name: "dangling operator", input: "OR lich", expected: `"lich"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := websearchToFTS5(tt.input)
			if result != tt.expected {
				t.Errorf("websearchToFTS5(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}
