package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/puffgino/bookgen/pkg/outline"
	"gopkg.in/yaml.v3"
)

// BookFileName is the conventional name of the input file, relative to the working directory.
const BookFileName = "book.yaml"

// ErrInvalidBook is returned when the book file is missing a required field.
var ErrInvalidBook = errors.New("invalid book file")

// Book is the input produced by a front-end: what to write and for whom.
type Book struct {
	Title   string          `yaml:"title" json:"title" jsonschema:"required,description=Book title; also used to name the output file"`
	Persona string          `yaml:"persona,omitempty" json:"persona,omitempty" jsonschema:"description=Buyer persona: audience / tone / voice and style rules"`
	TOC     outline.Outline `yaml:"toc" json:"toc" jsonschema:"required,description=Table of contents: chapter titles or single-key chapter mappings to subsection lists"`
}

// Chapters parses the table of contents into an ordered outline.
func (b *Book) Chapters() ([]outline.Chapter, error) {
	return outline.Parse(b.TOC)
}

// LoadBook reads and validates a book file. YAML and JSON are both accepted.
func LoadBook(path string) (*Book, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("book file %s: %w", path, os.ErrNotExist)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var book Book
	if err := yaml.Unmarshal(data, &book); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	book.Title = strings.TrimSpace(book.Title)
	book.Persona = strings.TrimSpace(book.Persona)

	if book.Title == "" {
		return nil, fmt.Errorf("%w: %s has no title", ErrInvalidBook, path)
	}
	if len(book.TOC) == 0 {
		return nil, fmt.Errorf("%w: %s has an empty toc", ErrInvalidBook, path)
	}
	return &book, nil
}

// SaveBook writes a book file as YAML, refusing to replace an existing file unless overwrite is set.
func SaveBook(path string, book *Book, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("book file already exists at %s", path)
		}
	}
	data, err := yaml.Marshal(book)
	if err != nil {
		return fmt.Errorf("failed to marshal book: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
