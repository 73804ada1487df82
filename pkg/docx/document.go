// Package docx writes minimal WordprocessingML (.docx) packages: styled
// headings and paragraphs of plain or bold runs.
package docx

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Style names a paragraph style defined in styles.xml.
type Style string

const (
	StyleNormal   Style = "Normal"
	StyleTitle    Style = "Title"
	StyleHeading1 Style = "Heading1"
	StyleHeading2 Style = "Heading2"
)

// Alignment is a paragraph justification value.
type Alignment string

const (
	AlignLeft    Alignment = "left"
	AlignCenter  Alignment = "center"
	AlignJustify Alignment = "both"
)

// Layout holds page geometry and typographic defaults. Distances are in
// twentieths of a point (twips), font sizes in half-points, line spacing in
// 240ths of a line.
type Layout struct {
	PageWidth     int
	PageHeight    int
	MarginTop     int
	MarginRight   int
	MarginBottom  int
	MarginLeft    int
	Gutter        int
	MirrorMargins bool

	Font         string
	FontSize     int
	TitleSize    int
	HeadingSize  int
	SpacingAfter int
	LineSpacing  int
	Align        Alignment
}

// Inches converts inches to twips.
func Inches(in float64) int { return int(in*1440 + 0.5) }

// Points converts points to twips.
func Points(pt float64) int { return int(pt*20 + 0.5) }

// HalfPoints converts a font size in points to half-points.
func HalfPoints(pt float64) int { return int(pt*2 + 0.5) }

// LineMultiple converts a line-spacing multiple to 240ths of a line.
func LineMultiple(m float64) int { return int(m*240 + 0.5) }

// Spacing overrides paragraph spacing. Line 0 keeps the style value.
type Spacing struct {
	Before int
	After  int
	Line   int
}

// Run is a span of text with uniform formatting.
type Run struct {
	Text string
	Bold bool
	Font string
	Size int
}

// Paragraph is one block of runs.
type Paragraph struct {
	Style   Style
	Align   Alignment
	Spacing *Spacing
	Runs    []Run
}

// AddRun appends a run to the paragraph.
func (p *Paragraph) AddRun(text string, bold bool) *Run {
	p.Runs = append(p.Runs, Run{Text: text, Bold: bold})
	return &p.Runs[len(p.Runs)-1]
}

// Text returns the concatenated run text.
func (p *Paragraph) Text() string {
	var sb strings.Builder
	for _, r := range p.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// Document is an in-memory .docx body. It is not safe for concurrent use.
type Document struct {
	Layout  Layout
	Title   string
	Creator string
	ID      string
	Created time.Time

	paragraphs []*Paragraph
}

// New returns an empty document with a fresh identifier.
func New(layout Layout) *Document {
	return &Document{
		Layout:  layout,
		Creator: "bookgen",
		ID:      uuid.NewString(),
		Created: time.Now().UTC(),
	}
}

// AddHeading appends a heading paragraph. Level 0 uses the Title style,
// level 1 Heading1, anything deeper Heading2.
func (d *Document) AddHeading(text string, level int) *Paragraph {
	style := StyleHeading2
	switch {
	case level <= 0:
		style = StyleTitle
	case level == 1:
		style = StyleHeading1
	}
	p := &Paragraph{Style: style}
	p.AddRun(text, false)
	d.paragraphs = append(d.paragraphs, p)
	return p
}

// AddParagraph appends an empty body paragraph.
func (d *Document) AddParagraph() *Paragraph {
	p := &Paragraph{Style: StyleNormal}
	d.paragraphs = append(d.paragraphs, p)
	return p
}

// Paragraphs returns the paragraphs in document order.
func (d *Document) Paragraphs() []*Paragraph {
	return d.paragraphs
}
