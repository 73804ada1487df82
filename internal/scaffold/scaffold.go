package scaffold

import (
	"embed"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/puffgino/bookgen/pkg/config"
	"github.com/puffgino/bookgen/pkg/outline"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

//go:embed all:templates
var templatesFS embed.FS

const starterPath = "templates/book.yaml"

// InitOptions controls what goes into a new book file.
type InitOptions struct {
	Title    string
	Persona  string
	Chapters []outline.Chapter // nil selects the starter outline
	Force    bool
}

// Init writes a book file in dir and returns its path. Fields left empty in
// opts are taken from the embedded starter file.
func Init(dir string, opts InitOptions, logger *logrus.Logger) (string, error) {
	book, err := Starter()
	if err != nil {
		return "", err
	}
	if title := strings.TrimSpace(opts.Title); title != "" {
		book.Title = title
	}
	if persona := strings.TrimSpace(opts.Persona); persona != "" {
		book.Persona = persona
	}
	if len(opts.Chapters) > 0 {
		book.TOC = outline.ToTOC(opts.Chapters)
	}

	chapters, err := book.Chapters()
	if err != nil {
		return "", err
	}

	dest := filepath.Join(dir, config.BookFileName)
	logger.Debugf("Writing %s", dest)
	if err := config.SaveBook(dest, book, opts.Force); err != nil {
		return "", err
	}
	logger.Infof("✓ Created book file: %s (%d chapters, %d units)", dest, len(chapters), outline.UnitCount(chapters))
	logger.Info("   Next steps: 1. Edit the persona and toc to match your book.")
	logger.Info("               2. Run 'bookgen plan' to review the generation order.")
	logger.Info("               3. Run 'bookgen generate' to write the document.")
	return dest, nil
}

// Starter returns the embedded starter book.
func Starter() (*config.Book, error) {
	content, err := templatesFS.ReadFile(starterPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded file %s: %w", starterPath, err)
	}
	var book config.Book
	if err := yaml.Unmarshal(content, &book); err != nil {
		return nil, fmt.Errorf("failed to parse embedded file %s: %w", starterPath, err)
	}
	return &book, nil
}
