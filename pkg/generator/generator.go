// Package generator drives a book run: one unit at a time, in outline order.
package generator

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/puffgino/bookgen/pkg/config"
	"github.com/puffgino/bookgen/pkg/llm"
	"github.com/puffgino/bookgen/pkg/memory"
	"github.com/puffgino/bookgen/pkg/outline"
	"github.com/puffgino/bookgen/pkg/sanitize"
	"github.com/puffgino/bookgen/pkg/writer"
	"github.com/sirupsen/logrus"
)

var (
	// ErrEmptyCompletion marks an attempt that produced no usable text.
	ErrEmptyCompletion = errors.New("empty completion")
	// ErrShortCompletion marks an attempt below the hard minimum word count.
	ErrShortCompletion = errors.New("completion below hard minimum")
)

// FallbackText is written under a heading when every attempt came back empty.
const FallbackText = "This section could not be generated. Revise it before publishing."

// Document receives the book as it is generated.
type Document interface {
	AppendHeading(level int, text string)
	AppendBody(text string)
	Persist() error
}

// Result describes a finished or interrupted run.
type Result struct {
	Path      string
	Chapters  int
	Units     int
	Written   int
	Retries   int
	Forced    int
	Fallbacks int
	Words     int
}

// Generator writes a book from its outline.
type Generator struct {
	client   llm.Client
	settings *config.Settings
	logger   *logrus.Logger
	tracker  *memory.Tracker
	fixer    *sanitize.Fixer
}

// New creates a Generator that sends every prompt through client.
func New(client llm.Client, settings *config.Settings, logger *logrus.Logger) *Generator {
	return &Generator{
		client:   client,
		settings: settings,
		logger:   logger,
		tracker:  memory.NewTracker(client, logger, settings.PlanningMaxTokens, settings.SummaryMaxTokens, settings.MaxClaims),
		fixer:    sanitize.NewFixer(client, logger, settings.FixMaxTokens),
	}
}

// Generate runs the whole pipeline for the book file at bookPath and returns
// where the document was written. Outline problems abort before any output.
func (g *Generator) Generate(ctx context.Context, bookPath string) (*Result, error) {
	g.removeCheckpoint()

	book, err := config.LoadBook(bookPath)
	if err != nil {
		return nil, err
	}
	if _, err := book.Chapters(); err != nil {
		return nil, err
	}

	doc, err := writer.Create(g.settings.OutputDir, book.Title, g.settings.RunID, g.logger)
	if err != nil {
		return nil, err
	}
	g.logger.Infof("Writing %q to %s", book.Title, doc.Path())

	res, err := g.Run(ctx, book, doc)
	if res != nil {
		res.Path = doc.Path()
	}
	if err != nil {
		return res, err
	}
	g.logger.WithFields(logrus.Fields{
		"path":      res.Path,
		"units":     res.Written,
		"words":     res.Words,
		"forced":    res.Forced,
		"fallbacks": res.Fallbacks,
	}).Info("Book generated")
	return res, nil
}

func (g *Generator) removeCheckpoint() {
	path := g.settings.CheckpointFile
	if path == "" {
		return
	}
	if err := os.Remove(path); err == nil {
		g.logger.WithField("path", path).Debug("Removed stale checkpoint")
	} else if !os.IsNotExist(err) {
		g.logger.WithError(err).Warnf("Could not remove checkpoint %s", path)
	}
}

// Run writes every unit of book into doc. Cancellation is checked between
// units; whatever was persisted last stays on disk.
func (g *Generator) Run(ctx context.Context, book *config.Book, doc Document) (*Result, error) {
	chapters, err := book.Chapters()
	if err != nil {
		return nil, err
	}
	r := &run{
		g:      g,
		book:   book,
		doc:    doc,
		titles: outline.Titles(chapters),
		res:    &Result{Chapters: len(chapters), Units: outline.UnitCount(chapters)},
	}

	for _, ch := range chapters {
		if err := ctx.Err(); err != nil {
			return r.res, err
		}
		g.logger.Infof("Generating chapter: %s", ch.Title)
		if err := r.heading(1, ch.Title); err != nil {
			return r.res, err
		}

		if !ch.HasSubsections() {
			if err := r.chapter(ctx, ch.Title); err != nil {
				return r.res, err
			}
			continue
		}
		for _, sub := range ch.Subsections {
			if err := ctx.Err(); err != nil {
				return r.res, err
			}
			if err := r.heading(2, sub); err != nil {
				return r.res, err
			}
			if err := r.subsection(ctx, ch.Title, sub); err != nil {
				return r.res, err
			}
		}
	}

	if err := doc.Persist(); err != nil {
		return r.res, fmt.Errorf("final save failed: %w", err)
	}
	return r.res, nil
}
