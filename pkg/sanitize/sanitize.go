// Package sanitize turns raw completions into plain paragraph text.
package sanitize

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/puffgino/bookgen/pkg/prompt"
)

const (
	capsRatio  = 0.6
	capsMinLen = 8
	maxBMPRune = 0xFFFF
	boldMarker = "**"
)

var (
	headingRe = regexp.MustCompile(`(?m)^([ \t]*)#{1,6}[ \t]+`)
	bulletRe  = regexp.MustCompile(`(?m)^([ \t]*)[-*•][ \t]+`)
)

// StripBasic removes the end sentinel and characters outside the basic
// multilingual plane, then trims.
func StripBasic(raw string) string {
	text := strings.TrimSpace(strings.ReplaceAll(raw, prompt.EndMark, ""))
	text = strings.Map(func(r rune) rune {
		if r > maxBMPRune {
			return -1
		}
		return r
	}, text)
	return strings.TrimSpace(text)
}

// Clean applies every cleanup rule until the text no longer changes, so
// Clean(Clean(x)) == Clean(x).
func Clean(raw string) string {
	text := cleanOnce(raw)
	for {
		next := cleanOnce(text)
		if next == text {
			return text
		}
		text = next
	}
}

func cleanOnce(raw string) string {
	text := StripBasic(raw)
	if text == "" {
		return ""
	}
	text = headingRe.ReplaceAllString(text, "$1")
	text = bulletRe.ReplaceAllString(text, "$1")

	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		t := strings.TrimRightFunc(line, unicode.IsSpace)
		if isShouting(t) {
			continue
		}
		out = append(out, unwrapBold(t))
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// isShouting reports lines longer than capsMinLen whose ASCII letters are
// mostly upper case.
func isShouting(line string) bool {
	if utf8.RuneCountInString(line) <= capsMinLen {
		return false
	}
	letters, upper := 0, 0
	for _, r := range line {
		switch {
		case r >= 'A' && r <= 'Z':
			letters++
			upper++
		case r >= 'a' && r <= 'z':
			letters++
		}
	}
	if letters == 0 {
		return false
	}
	return float64(upper)/float64(letters) > capsRatio
}

// unwrapBold strips the markers from a line that is one bold span.
func unwrapBold(line string) string {
	indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
	body := line[len(indent):]
	if len(body) < 2*len(boldMarker)+2 || !strings.HasPrefix(body, boldMarker) || !strings.HasSuffix(body, boldMarker) {
		return line
	}
	inner := body[len(boldMarker) : len(body)-len(boldMarker)]
	if strings.Contains(inner, boldMarker) || strings.HasPrefix(inner, "*") || strings.HasSuffix(inner, "*") {
		return line
	}
	return indent + inner
}

// WordCount counts whitespace-separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
