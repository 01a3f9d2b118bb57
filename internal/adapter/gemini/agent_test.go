package gemini

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expectError bool
		expected    string
	}{
		{
			name:     "纯 JSON 原样返回",
			input:    `{"project_name": "Next.js", "total_issues": 12}`,
			expected: `{"project_name": "Next.js", "total_issues": 12}`,
		},
		{
			name: "带 Markdown 代码块标记",
			input: "```json\n" + `{"project_name": "Nuxt"}` + "\n```",
			expected: `{"project_name": "Nuxt"}`,
		},
		{
			name: "JSON 前后夹杂说明文字",
			input: `Here is the analysis:
			{"project_name": "Astro", "key_features": ["islands"]}
			Hope this helps!`,
			expected: `{"project_name": "Astro", "key_features": ["islands"]}`,
		},
		{
			name:        "完全没有 JSON",
			input:       "Sorry, I cannot help with that.",
			expectError: true,
		},
		{
			name:        "只有右花括号",
			input:       "something }",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := extractJSON(tt.input)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}
		})
	}
}
