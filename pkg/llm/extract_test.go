package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, body string) *responseEnvelope {
	t.Helper()
	var env responseEnvelope
	require.NoError(t, json.Unmarshal([]byte(body), &env))
	return &env
}

func TestExtractTextPriority(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "message blocks win over everything",
			body: `{
				"output": [
					{"type": "reasoning", "content": [{"type": "output_text", "text": "ignored"}]},
					{"type": "message", "content": [
						{"type": "output_text", "text": "Hello "},
						{"type": "refusal", "text": "no"},
						{"type": "output_text", "text": "world"}
					]}
				],
				"output_text": "fallback",
				"choices": [{"message": {"content": "legacy"}}]
			}`,
			want: "Hello world",
		},
		{
			name: "top-level output_text block",
			body: `{"output": [{"type": "output_text", "text": "  direct block  "}]}`,
			want: "direct block",
		},
		{
			name: "output_text string when blocks are empty",
			body: `{"output": [{"type": "message", "content": [{"type": "output_text", "text": "   "}]}], "output_text": "from field"}`,
			want: "from field",
		},
		{
			name: "legacy choices",
			body: `{"choices": [{"message": {"content": "legacy text\n"}}]}`,
			want: "legacy text",
		},
		{
			name: "nothing usable",
			body: `{"output": [], "choices": []}`,
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractText(decode(t, tt.body)))
		})
	}
}

func TestExtractTextNil(t *testing.T) {
	assert.Empty(t, extractText(nil))
}
