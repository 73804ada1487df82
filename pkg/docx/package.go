package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	nsW  = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsPR = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsOR = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"

	xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"
)

const contentTypesXML = xmlHeader + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
	`<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>` +
	`<Override PartName="/word/settings.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.settings+xml"/>` +
	`<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>` +
	`<Override PartName="/docProps/app.xml" ContentType="application/vnd.openxmlformats-officedocument.extended-properties+xml"/>` +
	`</Types>`

const packageRelsXML = xmlHeader + `<Relationships xmlns="` + nsPR + `">` +
	`<Relationship Id="rId1" Type="` + nsOR + `/officeDocument" Target="word/document.xml"/>` +
	`<Relationship Id="rId2" Type="` + nsPR + `/metadata/core-properties" Target="docProps/core.xml"/>` +
	`<Relationship Id="rId3" Type="` + nsOR + `/extended-properties" Target="docProps/app.xml"/>` +
	`</Relationships>`

const documentRelsXML = xmlHeader + `<Relationships xmlns="` + nsPR + `">` +
	`<Relationship Id="rId1" Type="` + nsOR + `/styles" Target="styles.xml"/>` +
	`<Relationship Id="rId2" Type="` + nsOR + `/settings" Target="settings.xml"/>` +
	`</Relationships>`

const appXML = xmlHeader + `<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties">` +
	`<Application>bookgen</Application></Properties>`

type part struct {
	name string
	body func() string
}

// WriteTo writes the complete .docx package to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	zw := zip.NewWriter(cw)

	parts := []part{
		{"[Content_Types].xml", func() string { return contentTypesXML }},
		{"_rels/.rels", func() string { return packageRelsXML }},
		{"word/_rels/document.xml.rels", func() string { return documentRelsXML }},
		{"word/document.xml", d.documentXML},
		{"word/styles.xml", d.stylesXML},
		{"word/settings.xml", d.settingsXML},
		{"docProps/core.xml", d.coreXML},
		{"docProps/app.xml", func() string { return appXML }},
	}
	for _, p := range parts {
		f, err := zw.Create(p.name)
		if err != nil {
			return cw.n, fmt.Errorf("failed to add %s: %w", p.name, err)
		}
		if _, err := io.WriteString(f, p.body()); err != nil {
			return cw.n, fmt.Errorf("failed to write %s: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return cw.n, fmt.Errorf("failed to finish package: %w", err)
	}
	return cw.n, nil
}

// Save writes the document to path through a temporary file in the same
// directory, so path always holds a complete package.
func (d *Document) Save(path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := d.WriteTo(tmp); err != nil {
		tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("failed to sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

func (d *Document) documentXML() string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<w:document xmlns:w="` + nsW + `"><w:body>`)
	for _, p := range d.paragraphs {
		writeParagraph(&b, p)
	}
	l := d.Layout
	fmt.Fprintf(&b, `<w:sectPr><w:pgSz w:w="%d" w:h="%d"/>`, l.PageWidth, l.PageHeight)
	fmt.Fprintf(&b, `<w:pgMar w:top="%d" w:right="%d" w:bottom="%d" w:left="%d" w:header="720" w:footer="720" w:gutter="%d"/>`,
		l.MarginTop, l.MarginRight, l.MarginBottom, l.MarginLeft, l.Gutter)
	b.WriteString(`</w:sectPr></w:body></w:document>`)
	return b.String()
}

func writeParagraph(b *strings.Builder, p *Paragraph) {
	b.WriteString(`<w:p><w:pPr>`)
	if p.Style != "" {
		fmt.Fprintf(b, `<w:pStyle w:val="%s"/>`, p.Style)
	}
	if s := p.Spacing; s != nil {
		fmt.Fprintf(b, `<w:spacing w:before="%d" w:after="%d"`, s.Before, s.After)
		if s.Line > 0 {
			fmt.Fprintf(b, ` w:line="%d" w:lineRule="auto"`, s.Line)
		}
		b.WriteString(`/>`)
	}
	if p.Align != "" {
		fmt.Fprintf(b, `<w:jc w:val="%s"/>`, p.Align)
	}
	b.WriteString(`</w:pPr>`)

	for _, r := range p.Runs {
		b.WriteString(`<w:r>`)
		if r.Bold || r.Font != "" || r.Size > 0 {
			b.WriteString(`<w:rPr>`)
			if r.Font != "" {
				f := escape(r.Font)
				fmt.Fprintf(b, `<w:rFonts w:ascii="%s" w:hAnsi="%s" w:cs="%s" w:eastAsia="%s"/>`, f, f, f, f)
			}
			if r.Bold {
				b.WriteString(`<w:b/><w:bCs/>`)
			}
			if r.Size > 0 {
				fmt.Fprintf(b, `<w:sz w:val="%d"/><w:szCs w:val="%d"/>`, r.Size, r.Size)
			}
			b.WriteString(`</w:rPr>`)
		}
		b.WriteString(`<w:t xml:space="preserve">`)
		b.WriteString(escape(r.Text))
		b.WriteString(`</w:t></w:r>`)
	}
	b.WriteString(`</w:p>`)
}

func (d *Document) stylesXML() string {
	l := d.Layout
	font := escape(l.Font)
	fonts := fmt.Sprintf(`<w:rFonts w:ascii="%s" w:hAnsi="%s" w:cs="%s" w:eastAsia="%s"/>`, font, font, font, font)

	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<w:styles xmlns:w="` + nsW + `">`)
	fmt.Fprintf(&b, `<w:docDefaults><w:rPrDefault><w:rPr>%s<w:sz w:val="%d"/><w:szCs w:val="%d"/></w:rPr></w:rPrDefault>`,
		fonts, l.FontSize, l.FontSize)
	fmt.Fprintf(&b, `<w:pPrDefault><w:pPr><w:spacing w:before="0" w:after="%d" w:line="%d" w:lineRule="auto"/><w:jc w:val="%s"/></w:pPr></w:pPrDefault></w:docDefaults>`,
		l.SpacingAfter, l.LineSpacing, l.Align)

	b.WriteString(`<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/><w:qFormat/></w:style>`)
	writeHeadingStyle(&b, StyleTitle, "Title", -1, fonts, l.TitleSize)
	writeHeadingStyle(&b, StyleHeading1, "heading 1", 0, fonts, l.HeadingSize)
	writeHeadingStyle(&b, StyleHeading2, "heading 2", 1, fonts, l.HeadingSize)
	b.WriteString(`</w:styles>`)
	return b.String()
}

func writeHeadingStyle(b *strings.Builder, id Style, name string, outline int, fonts string, size int) {
	fmt.Fprintf(b, `<w:style w:type="paragraph" w:styleId="%s"><w:name w:val="%s"/><w:basedOn w:val="Normal"/><w:next w:val="Normal"/><w:qFormat/>`, id, name)
	b.WriteString(`<w:pPr><w:keepNext/><w:spacing w:before="0" w:after="0"/>`)
	if outline >= 0 {
		fmt.Fprintf(b, `<w:outlineLvl w:val="%d"/>`, outline)
	}
	fmt.Fprintf(b, `</w:pPr><w:rPr>%s<w:b/><w:bCs/><w:sz w:val="%d"/><w:szCs w:val="%d"/></w:rPr></w:style>`, fonts, size, size)
}

func (d *Document) settingsXML() string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<w:settings xmlns:w="` + nsW + `">`)
	if d.Layout.MirrorMargins {
		b.WriteString(`<w:mirrorMargins/>`)
	}
	b.WriteString(`<w:defaultTabStop w:val="720"/><w:compat/></w:settings>`)
	return b.String()
}

func (d *Document) coreXML() string {
	created := d.Created
	if created.IsZero() {
		created = time.Now().UTC()
	}
	modified := time.Now().UTC()

	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties"` +
		` xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/"` +
		` xmlns:dcmitype="http://purl.org/dc/dcmitype/" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">`)
	fmt.Fprintf(&b, `<dc:title>%s</dc:title>`, escape(d.Title))
	fmt.Fprintf(&b, `<dc:creator>%s</dc:creator>`, escape(d.Creator))
	if d.ID != "" {
		fmt.Fprintf(&b, `<dc:identifier>urn:uuid:%s</dc:identifier>`, escape(d.ID))
	}
	fmt.Fprintf(&b, `<dcterms:created xsi:type="dcterms:W3CDTF">%s</dcterms:created>`, created.Format(time.RFC3339))
	fmt.Fprintf(&b, `<dcterms:modified xsi:type="dcterms:W3CDTF">%s</dcterms:modified>`, modified.Format(time.RFC3339))
	b.WriteString(`</cp:coreProperties>`)
	return b.String()
}

// escape drops characters that XML 1.0 cannot carry and escapes the rest.
func escape(s string) string {
	clean := strings.Map(func(r rune) rune {
		if isXMLChar(r) {
			return r
		}
		return -1
	}, s)
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(clean))
	return buf.String()
}

func isXMLChar(r rune) bool {
	switch {
	case r == 0x9 || r == 0xA || r == 0xD:
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	}
	return false
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
