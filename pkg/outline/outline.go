package outline

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedOutline is returned when a table of contents item has an unsupported shape.
var ErrMalformedOutline = errors.New("malformed outline")

// Chapter is one top-level entry of the book outline.
// An empty Subsections slice means the chapter is written as continuous prose.
type Chapter struct {
	Title       string   `json:"title" yaml:"title"`
	Subsections []string `json:"subsections,omitempty" yaml:"subsections,omitempty"`
}

// HasSubsections reports whether the chapter is split into subheadings.
func (c Chapter) HasSubsections() bool {
	return len(c.Subsections) > 0
}

// Parse converts a decoded toc value into an ordered list of chapters.
//
// Each item is either a string (a chapter without subsections) or a mapping with
// exactly one key, whose value is the list of subsection titles. A mapping whose
// value is not a list produces a chapter without subsections.
func Parse(toc []any) ([]Chapter, error) {
	chapters := make([]Chapter, 0, len(toc))
	for i, item := range toc {
		ch, err := parseItem(item)
		if err != nil {
			return nil, fmt.Errorf("toc item %d: %w", i, err)
		}
		chapters = append(chapters, ch)
	}
	return chapters, nil
}

func parseItem(item any) (Chapter, error) {
	switch v := item.(type) {
	case string:
		title := strings.TrimSpace(v)
		if title == "" {
			return Chapter{}, fmt.Errorf("%w: blank chapter title", ErrMalformedOutline)
		}
		return Chapter{Title: title}, nil
	case map[string]any:
		if len(v) != 1 {
			return Chapter{}, fmt.Errorf("%w: mapping must have exactly one key, got %d", ErrMalformedOutline, len(v))
		}
		for k, val := range v {
			return chapterFromPair(k, val)
		}
	case map[any]any:
		if len(v) != 1 {
			return Chapter{}, fmt.Errorf("%w: mapping must have exactly one key, got %d", ErrMalformedOutline, len(v))
		}
		for k, val := range v {
			key, ok := k.(string)
			if !ok {
				return Chapter{}, fmt.Errorf("%w: chapter key must be a string, got %T", ErrMalformedOutline, k)
			}
			return chapterFromPair(key, val)
		}
	}
	return Chapter{}, fmt.Errorf("%w: unsupported item type %T", ErrMalformedOutline, item)
}

func chapterFromPair(key string, value any) (Chapter, error) {
	title := strings.TrimSpace(key)
	if title == "" {
		return Chapter{}, fmt.Errorf("%w: blank chapter title", ErrMalformedOutline)
	}
	ch := Chapter{Title: title}

	list, ok := value.([]any)
	if !ok {
		return ch, nil
	}
	for j, raw := range list {
		switch s := raw.(type) {
		case nil:
			continue
		case []any, map[string]any, map[any]any:
			return Chapter{}, fmt.Errorf("%w: chapter %q subsection %d is a %T", ErrMalformedOutline, title, j, raw)
		default:
			sub := strings.TrimSpace(fmt.Sprint(s))
			if sub == "" {
				continue
			}
			ch.Subsections = append(ch.Subsections, sub)
		}
	}
	return ch, nil
}

// ToTOC converts chapters back into the toc shape used by book files.
func ToTOC(chapters []Chapter) []any {
	toc := make([]any, 0, len(chapters))
	for _, ch := range chapters {
		if !ch.HasSubsections() {
			toc = append(toc, ch.Title)
			continue
		}
		subs := make([]any, len(ch.Subsections))
		for i, s := range ch.Subsections {
			subs[i] = s
		}
		toc = append(toc, map[string]any{ch.Title: subs})
	}
	return toc
}

// Titles returns the chapter titles in outline order.
func Titles(chapters []Chapter) []string {
	titles := make([]string, len(chapters))
	for i, ch := range chapters {
		titles[i] = ch.Title
	}
	return titles
}

// UnitCount returns the number of generation units: one per subsection, or one
// for a chapter without subsections.
func UnitCount(chapters []Chapter) int {
	n := 0
	for _, ch := range chapters {
		if ch.HasSubsections() {
			n += len(ch.Subsections)
		} else {
			n++
		}
	}
	return n
}
