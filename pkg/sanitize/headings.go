package sanitize

import (
	"regexp"
	"strings"
)

// Mini-heading rendering modes.
const (
	ModeBullet = "bullet"
	ModeBold   = "bold"
)

var (
	markerLineRe  = regexp.MustCompile(`(?i)^(chapter|day)\s+\d+:`)
	capitalWordRe = regexp.MustCompile(`^[A-Z][a-z]+$`)
)

// IsMiniHeading reports whether line looks like a short heading dropped into
// prose: 2 to 7 words, no closing punctuation, not a chapter or day marker,
// not starting with a digit, and mostly capitalized words.
func IsMiniHeading(line string) bool {
	t := strings.TrimSpace(line)
	words := strings.Fields(t)
	if len(words) < 2 || len(words) > 7 {
		return false
	}
	switch t[len(t)-1] {
	case '.', '!', '?':
		return false
	}
	if markerLineRe.MatchString(t) {
		return false
	}
	if t[0] >= '0' && t[0] <= '9' {
		return false
	}
	caps := 0
	for _, w := range words {
		if capitalWordRe.MatchString(w) {
			caps++
		}
	}
	return float64(caps)/float64(len(words)) >= 0.6
}

// NormalizeMiniHeadings merges each mini-heading with the line that follows it,
// so it renders as a bold lead-in instead of a stray short paragraph. Blank
// lines after a merged pair are dropped. Unknown modes render as bullets.
func NormalizeMiniHeadings(text, mode string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))

	for i := 0; i < len(lines); {
		cur := strings.TrimSpace(lines[i])
		next := ""
		if i+1 < len(lines) {
			next = strings.TrimSpace(lines[i+1])
		}
		if next != "" && IsMiniHeading(cur) && !IsMiniHeading(next) {
			if mode == ModeBold {
				out = append(out, "**"+cur+".** "+next)
			} else {
				out = append(out, "• **"+cur+"** — "+next)
			}
			i += 2
			for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
				i++
			}
			continue
		}
		out = append(out, lines[i])
		i++
	}
	return strings.Join(out, "\n")
}
