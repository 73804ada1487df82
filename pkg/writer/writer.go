// Package writer renders generated units into the book's .docx file.
package writer

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/puffgino/bookgen/pkg/docx"
	"github.com/sirupsen/logrus"
)

const (
	bodyFont     = "Cambria"
	bodySize     = 13
	maxParaWords = 180
	maxBoldWords = 8
)

var unsafeTitleRe = regexp.MustCompile(`[\\/:*?"<>|]+`)

// Layout is the fixed page and type setup of every book.
func Layout() docx.Layout {
	margin := docx.Inches(0.7)
	return docx.Layout{
		PageWidth:     docx.Inches(8.5),
		PageHeight:    docx.Inches(11),
		MarginTop:     margin,
		MarginRight:   margin,
		MarginBottom:  margin,
		MarginLeft:    margin,
		Gutter:        docx.Inches(0.2),
		MirrorMargins: true,
		Font:          bodyFont,
		FontSize:      docx.HalfPoints(bodySize),
		TitleSize:     docx.HalfPoints(18),
		HeadingSize:   docx.HalfPoints(16),
		SpacingAfter:  docx.Points(6),
		LineSpacing:   docx.LineMultiple(1.2),
		Align:         docx.AlignJustify,
	}
}

// SafeTitle replaces characters that are invalid in file names.
func SafeTitle(title string) string {
	safe := strings.TrimSpace(unsafeTitleRe.ReplaceAllString(title, "-"))
	if strings.Trim(safe, " -") == "" {
		return "Untitled"
	}
	return safe
}

// FileName is the output name for a title and run id.
func FileName(title, runID string) string {
	return fmt.Sprintf("BOOK - %s - %s.docx", SafeTitle(title), runID)
}

// Book is the document of one run and the file it is saved to.
type Book struct {
	doc    *docx.Document
	path   string
	logger *logrus.Logger
}

// Create makes dir if needed, starts a document with the title heading and
// saves it once so the file exists from the first moment of the run.
func Create(dir, title, runID string, logger *logrus.Logger) (*Book, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	doc := docx.New(Layout())
	doc.Title = title

	b := &Book{
		doc:    doc,
		path:   filepath.Join(dir, FileName(title, runID)),
		logger: logger,
	}
	b.AppendHeading(0, title)
	if err := b.Persist(); err != nil {
		return nil, err
	}
	return b, nil
}

// Path returns where the book is saved.
func (b *Book) Path() string { return b.path }

// Document exposes the underlying document.
func (b *Book) Document() *docx.Document { return b.doc }

// AppendHeading adds a heading: 0 title, 1 chapter, 2 subsection.
func (b *Book) AppendHeading(level int, text string) {
	b.doc.AddHeading(strings.TrimSpace(text), level).Align = docx.AlignJustify
}

// AppendBody adds one paragraph per non-empty line of text, splitting very
// long lines at sentence boundaries.
func (b *Book) AppendBody(text string) {
	for _, para := range SplitParagraphs(text) {
		p := b.doc.AddParagraph()
		p.Align = docx.AlignJustify
		p.Spacing = &docx.Spacing{Before: 0, After: docx.Points(6), Line: docx.LineMultiple(1.2)}
		for _, span := range SplitSpans(para) {
			r := p.AddRun(span.Text, span.Bold)
			r.Font = bodyFont
			r.Size = docx.HalfPoints(bodySize)
		}
	}
}

// Persist overwrites the file with the current document.
func (b *Book) Persist() error {
	if err := b.doc.Save(b.path); err != nil {
		return fmt.Errorf("failed to save %s: %w", b.path, err)
	}
	b.logger.WithField("path", b.path).Debug("Saved document")
	return nil
}
