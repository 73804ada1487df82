package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLayout() Layout {
	return Layout{
		PageWidth:     Inches(8.5),
		PageHeight:    Inches(11),
		MarginTop:     Inches(0.7),
		MarginRight:   Inches(0.7),
		MarginBottom:  Inches(0.7),
		MarginLeft:    Inches(0.7),
		Gutter:        Inches(0.2),
		MirrorMargins: true,
		Font:          "Cambria",
		FontSize:      HalfPoints(13),
		TitleSize:     HalfPoints(18),
		HeadingSize:   HalfPoints(16),
		SpacingAfter:  Points(6),
		LineSpacing:   LineMultiple(1.2),
		Align:         AlignJustify,
	}
}

func readParts(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	parts := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		body, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		parts[f.Name] = string(body)
	}
	return parts
}

func assertWellFormed(t *testing.T, name, body string) {
	t.Helper()
	dec := xml.NewDecoder(bytes.NewBufferString(body))
	for {
		_, err := dec.Token()
		if err == io.EOF {
			return
		}
		require.NoError(t, err, name)
	}
}

func TestUnitConversions(t *testing.T) {
	assert.Equal(t, 12240, Inches(8.5))
	assert.Equal(t, 1008, Inches(0.7))
	assert.Equal(t, 288, Inches(0.2))
	assert.Equal(t, 26, HalfPoints(13))
	assert.Equal(t, 120, Points(6))
	assert.Equal(t, 288, LineMultiple(1.2))
}

func TestWriteToProducesPackage(t *testing.T) {
	doc := New(testLayout())
	doc.Title = "Calm & Clear"
	doc.AddHeading("Calm & Clear", 0).Align = AlignJustify
	doc.AddHeading("Chapter <One>", 1)
	p := doc.AddParagraph()
	p.Align = AlignJustify
	p.Spacing = &Spacing{After: 120, Line: 288}
	p.AddRun("Plain ", false)
	r := p.AddRun("bold", true)
	r.Font = "Cambria"
	r.Size = 26
	p.AddRun(" bad\x00char", false)

	var buf bytes.Buffer
	n, err := doc.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)

	parts := readParts(t, buf.Bytes())
	for _, name := range []string{
		"[Content_Types].xml", "_rels/.rels", "word/_rels/document.xml.rels",
		"word/document.xml", "word/styles.xml", "word/settings.xml",
		"docProps/core.xml", "docProps/app.xml",
	} {
		require.Contains(t, parts, name)
		assertWellFormed(t, name, parts[name])
	}

	body := parts["word/document.xml"]
	assert.Contains(t, body, `<w:pStyle w:val="Title"/>`)
	assert.Contains(t, body, `<w:pStyle w:val="Heading1"/>`)
	assert.Contains(t, body, "Chapter &lt;One&gt;")
	assert.Contains(t, body, `<w:b/><w:bCs/><w:sz w:val="26"/>`)
	assert.Contains(t, body, `<w:spacing w:before="0" w:after="120" w:line="288" w:lineRule="auto"/><w:jc w:val="both"/>`)
	assert.Contains(t, body, " badchar")
	assert.Contains(t, body, `<w:pgSz w:w="12240" w:h="15840"/>`)
	assert.Contains(t, body, `w:left="1008"`)
	assert.Contains(t, body, `w:gutter="288"`)

	assert.Contains(t, parts["word/settings.xml"], "<w:mirrorMargins/>")
	assert.Contains(t, parts["word/styles.xml"], `w:ascii="Cambria"`)
	assert.Contains(t, parts["word/styles.xml"], `<w:sz w:val="36"/>`)
	assert.Contains(t, parts["docProps/core.xml"], "<dc:title>Calm &amp; Clear</dc:title>")
	assert.Contains(t, parts["docProps/core.xml"], "urn:uuid:"+doc.ID)
}

func TestHeadingLevels(t *testing.T) {
	doc := New(testLayout())
	assert.Equal(t, StyleTitle, doc.AddHeading("t", 0).Style)
	assert.Equal(t, StyleHeading1, doc.AddHeading("h1", 1).Style)
	assert.Equal(t, StyleHeading2, doc.AddHeading("h2", 2).Style)
	assert.Equal(t, StyleHeading2, doc.AddHeading("h3", 3).Style)
	assert.Len(t, doc.Paragraphs(), 4)
	assert.Equal(t, "h1", doc.Paragraphs()[1].Text())
}

func TestNoMirrorMargins(t *testing.T) {
	layout := testLayout()
	layout.MirrorMargins = false

	var buf bytes.Buffer
	_, err := New(layout).WriteTo(&buf)
	require.NoError(t, err)
	assert.NotContains(t, readParts(t, buf.Bytes())["word/settings.xml"], "mirrorMargins")
}

func TestSaveReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "book.docx")

	doc := New(testLayout())
	doc.AddHeading("First", 1)
	require.NoError(t, doc.Save(path))

	doc.AddHeading("Second", 1)
	require.NoError(t, doc.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	body := readParts(t, data)["word/document.xml"]
	assert.Contains(t, body, "First")
	assert.Contains(t, body, "Second")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestSaveMissingDirectory(t *testing.T) {
	err := New(testLayout()).Save(filepath.Join(t.TempDir(), "missing", "book.docx"))
	assert.Error(t, err)
}
