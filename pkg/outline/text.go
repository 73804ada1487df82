package outline

import (
	"regexp"
	"strings"
	"unicode"
)

// DefaultChapterTitle names the implicit chapter that collects lines appearing
// before the first recognized chapter line.
const DefaultChapterTitle = "Introduction"

var chapterMarkerRe = regexp.MustCompile(`(?i)^(chapter|day)\s+\d+[:\- ]`)

// ParseText builds an outline from a pasted plain-text table of contents.
//
// A line starts a new chapter when it is a "Chapter N"/"Day N" marker, is written
// entirely in upper case (at least 4 characters), or begins with "PART ". Every
// other line becomes a subsection of the current chapter.
func ParseText(text string) []Chapter {
	var chapters []Chapter
	var cur *Chapter

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimRight(strings.Trim(raw, " \t-•"), " \t\r")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if isChapterLine(line) {
			if cur != nil {
				chapters = append(chapters, *cur)
			}
			cur = &Chapter{Title: line}
			continue
		}
		if cur == nil {
			cur = &Chapter{Title: DefaultChapterTitle}
		}
		cur.Subsections = append(cur.Subsections, line)
	}
	if cur != nil {
		chapters = append(chapters, *cur)
	}
	return chapters
}

func isChapterLine(line string) bool {
	if chapterMarkerRe.MatchString(line) {
		return true
	}
	hasLetter := false
	for _, r := range line {
		if unicode.IsLetter(r) {
			hasLetter = true
			break
		}
	}
	if hasLetter && line == strings.ToUpper(line) && len([]rune(line)) >= 4 {
		return true
	}
	return strings.HasPrefix(strings.ToUpper(line), "PART ")
}
