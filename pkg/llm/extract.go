package llm

import (
	"strings"
)

// responseEnvelope covers the shapes a Responses API (or compatible) server
// may use to carry generated text.
type responseEnvelope struct {
	Output     []outputBlock `json:"output"`
	OutputText string        `json:"output_text"`
	Choices    []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type outputBlock struct {
	Type    string        `json:"type"`
	Text    string        `json:"text"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// extractor pulls text out of one envelope shape. ok is false when the shape
// is absent or yields only whitespace.
type extractor func(env *responseEnvelope) (text string, ok bool)

// extractors run in priority order; the first non-empty result wins.
var extractors = []extractor{
	fromOutputBlocks,
	fromOutputText,
	fromChoices,
}

func extractText(env *responseEnvelope) string {
	if env == nil {
		return ""
	}
	for _, fn := range extractors {
		if text, ok := fn(env); ok {
			return text
		}
	}
	return ""
}

func fromOutputBlocks(env *responseEnvelope) (string, bool) {
	var parts []string
	for _, block := range env.Output {
		switch block.Type {
		case "message":
			for _, c := range block.Content {
				if c.Type == "output_text" && c.Text != "" {
					parts = append(parts, c.Text)
				}
			}
		case "output_text":
			if block.Text != "" {
				parts = append(parts, block.Text)
			}
		}
	}
	return nonEmpty(strings.Join(parts, ""))
}

func fromOutputText(env *responseEnvelope) (string, bool) {
	return nonEmpty(env.OutputText)
}

func fromChoices(env *responseEnvelope) (string, bool) {
	if len(env.Choices) == 0 {
		return "", false
	}
	return nonEmpty(env.Choices[0].Message.Content)
}

func nonEmpty(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != ""
}
