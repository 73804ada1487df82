// Package prompt renders the model prompts used by the generation loop.
package prompt

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"
)

// EndMark is the sentinel the model is asked to print after the payload.
const EndMark = "<<<END_OF_SUBHEADING>>>"

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Kind identifies a prompt template.
type Kind string

const (
	KindSubsection      Kind = "subsection"
	KindForcedExpansion Kind = "forced"
	KindChapter         Kind = "chapter"
	KindAngle           Kind = "angle"
	KindSummary         Kind = "summary"
	KindFix             Kind = "fix"
)

// markers are lines unique to each template, checked in order. Forced
// expansion embeds the subsection prompt, so it is checked first.
var markers = []struct {
	kind   Kind
	marker string
}{
	{KindForcedExpansion, "Previous attempt was too short."},
	{KindFix, "You are a copy editor."},
	{KindSummary, "Summarize the following section"},
	{KindAngle, "You are a content planner."},
	{KindChapter, "CURRENT CHAPTER (no subheadings):"},
	{KindSubsection, "CURRENT SUBHEADING:"},
}

var templates = template.Must(template.New("prompt").Funcs(template.FuncMap{
	"bullets":          bullets,
	"endMark":          func() string { return EndMark },
	"masterGuidelines": func() string { return MasterGuidelines },
	"styleContract":    func() string { return StyleContract },
}).ParseFS(templatesFS, "templates/*.tmpl"))

// Context is the data a generation prompt is rendered from.
type Context struct {
	Title    string
	Persona  string
	Summary  string
	Claims   []string
	Angle    string
	Chapters []string

	Chapter    string
	Subsection string

	MinWords int
	MaxWords int
}

// Subsection renders the prompt for one subheading.
func Subsection(c Context) (string, error) {
	return render(KindSubsection, c)
}

// ForcedExpansion renders the subsection prompt with the demand for full length.
func ForcedExpansion(c Context) (string, error) {
	return render(KindForcedExpansion, c)
}

// Chapter renders the prompt for a chapter written as continuous prose.
// Memory fields are not used.
func Chapter(c Context) (string, error) {
	return render(KindChapter, c)
}

// Angle renders the planner prompt for the next subsection.
func Angle(c Context) (string, error) {
	return render(KindAngle, c)
}

// Summary renders the summarization prompt over accepted text.
func Summary(text string) (string, error) {
	return render(KindSummary, struct{ Text string }{text})
}

// Fix renders the minimal-edit corrective prompt.
func Fix(issues []string, angle, text string) (string, error) {
	return render(KindFix, struct {
		Issues []string
		Angle  string
		Text   string
	}{issues, angle, text})
}

// KindOf reports which template produced a rendered prompt, or "" if none.
func KindOf(rendered string) Kind {
	for _, m := range markers {
		if strings.Contains(rendered, m.marker) {
			return m.kind
		}
	}
	return ""
}

func render(kind Kind, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, string(kind)+".tmpl", data); err != nil {
		return "", fmt.Errorf("failed to render %s prompt: %w", kind, err)
	}
	return strings.TrimSpace(buf.String()) + "\n", nil
}

// bullets renders items as "- item" lines. limit <= 0 keeps all items.
func bullets(items []string, limit int, placeholder string) string {
	var lines []string
	for _, item := range items {
		if limit > 0 && len(lines) == limit {
			break
		}
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		lines = append(lines, "- "+item)
	}
	if len(lines) == 0 {
		return placeholder
	}
	return strings.Join(lines, "\n")
}
