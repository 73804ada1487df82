package writer

import "strings"

// Span is a run of text that is either plain or bold.
type Span struct {
	Text string
	Bold bool
}

// SplitParagraphs returns the trimmed non-empty lines of text. A line longer
// than maxParaWords words is broken into its sentences.
func SplitParagraphs(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		t := strings.TrimSpace(line)
		if t == "" {
			continue
		}
		if len(strings.Fields(t)) <= maxParaWords {
			out = append(out, t)
			continue
		}
		for _, s := range splitSentences(t) {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// splitSentences cuts after '.', '!' or '?' when whitespace follows.
func splitSentences(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '.', '!', '?':
		default:
			continue
		}
		j := i + 1
		for j < len(s) && isSpace(s[j]) {
			j++
		}
		if j == i+1 {
			continue
		}
		out = append(out, s[start:i+1])
		start = j
		i = j - 1
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

// SplitSpans toggles bold at every "**" marker. Bold spans of more than
// maxBoldWords words are rendered plain.
func SplitSpans(line string) []Span {
	var spans []Span
	bold := false
	for i, part := range strings.Split(line, "**") {
		if i > 0 {
			bold = !bold
		}
		if part == "" {
			continue
		}
		isBold := bold && len(strings.Fields(part)) <= maxBoldWords
		spans = append(spans, Span{Text: part, Bold: isBold})
	}
	return spans
}
