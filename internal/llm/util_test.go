package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "json code fence",
			input: "```json\n{\"benefit\": \"skin hydration\"}\n```",
			want:  `{"benefit": "skin hydration"}`,
		},
		{
			name:  "generic code fence",
			input: "```\n{\"benefit\": \"skin hydration\"}\n```",
			want:  `{"benefit": "skin hydration"}`,
		},
		{
			name:  "fence with language identifier",
			input: "```javascript\n{\"key\": \"value\"}\n```",
			want:  `{"key": "value"}`,
		},
		{
			name:  "bare JSON passes through",
			input: `{"key": "value"}`,
			want:  `{"key": "value"}`,
		},
		{
			name:  "preamble before object",
			input: "Here is the analysis you asked for:\n{\"primary_benefit\": \"energy\"}",
			want:  `{"primary_benefit": "energy"}`,
		},
		{
			name:  "preamble before array",
			input: "The matching categories are:\n[\"food\", \"snacks\"]",
			want:  `["food", "snacks"]`,
		},
		{
			name:  "trailing chatter after object",
			input: "{\"key\": \"value\"}\n\nLet me know if you need anything else!",
			want:  `{"key": "value"}`,
		},
		{
			name:  "preamble and nested objects",
			input: "Output:\n{\"outer\": {\"inner\": [1, 2]}}",
			want:  `{"outer": {"inner": [1, 2]}}`,
		},
		{
			name:  "braces inside string literals",
			input: `{"template": "use {brand} here"}`,
			want:  `{"template": "use {brand} here"}`,
		},
		{
			name:  "escaped quotes inside strings",
			input: "Result: {\"review\": \"bola \\\"accha hai\\\"\"}",
			want:  `{"review": "bola \"accha hai\""}`,
		},
		{
			name:  "no JSON at all",
			input: "plain prose response",
			want:  "plain prose response",
		},
		{
			name:  "unterminated object left alone",
			input: "{\"key\": \"value\"",
			want:  `{"key": "value"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanJSONBlock(tt.input))
		})
	}
}
