package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "bare object",
			input:    `{"label":"no"}`,
			expected: `{"label":"no"}`,
		},
		{
			name:     "commentary before and after",
			input:    `Sure! {"label":"no"} Hope that helps.`,
			expected: `{"label":"no"}`,
		},
		{
			name:     "markdown fenced",
			input:    "```json\n{\"label\":\"match\"}\n```",
			expected: `{"label":"match"}`,
		},
		{
			name:     "nested objects",
			input:    "Output:\n{\"outer\": {\"inner\": 1}}",
			expected: `{"outer": {"inner": 1}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSONObject(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestExtractJSONObject_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "no json at all", input: "no json here"},
		{name: "empty string", input: ""},
		{name: "only open brace", input: "start { and nothing else"},
		{name: "only close brace", input: "} and nothing else"},
		{name: "close before open", input: "} backwards {"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractJSONObject(tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedResponse))
		})
	}
}
