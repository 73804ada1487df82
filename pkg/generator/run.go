package generator

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/puffgino/bookgen/pkg/config"
	"github.com/puffgino/bookgen/pkg/memory"
	"github.com/puffgino/bookgen/pkg/prompt"
	"github.com/puffgino/bookgen/pkg/sanitize"
	"github.com/sirupsen/logrus"
)

// State is a step of the subsection state machine.
type State string

const (
	StatePlanning        State = "planning"
	StateGenerating      State = "generating"
	StateValidating      State = "validating"
	StateRetry           State = "retry"
	StateForcedExpansion State = "forced_expansion"
	StateAccepted        State = "accepted"
)

// echoMinWords is the line length that counts as real prose for the echo filter.
const echoMinWords = 5

var echoMarkerRe = regexp.MustCompile(`(?i)^(chapter|day)\s+\d+:`)

// run holds the mutable state of one Run call.
type run struct {
	g      *Generator
	book   *config.Book
	doc    Document
	titles []string
	mem    memory.Memory
	res    *Result
}

func (r *run) heading(level int, text string) error {
	r.doc.AppendHeading(level, text)
	return r.doc.Persist()
}

func (r *run) promptContext(chapter, subsection string, minWords, maxWords int) prompt.Context {
	return prompt.Context{
		Title:      r.book.Title,
		Persona:    r.book.Persona,
		Summary:    r.mem.Summary,
		Claims:     r.mem.Claims,
		Angle:      r.mem.Angle,
		Chapters:   r.titles,
		Chapter:    chapter,
		Subsection: subsection,
		MinWords:   minWords,
		MaxWords:   maxWords,
	}
}

// subsection walks one subheading through planning, bounded retries and
// forced expansion. Something is always written under the heading.
func (r *run) subsection(ctx context.Context, chapter, sub string) error {
	s := r.g.settings
	log := r.g.logger.WithFields(logrus.Fields{"chapter": chapter, "subsection": sub})

	log.WithField("state", StatePlanning).Debug("Deriving angle")
	angle, err := r.g.tracker.DeriveAngle(ctx, chapter, sub, r.mem)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.WithError(err).Warn("Angle planning failed, using default angle")
		angle = ""
	}
	r.mem.Angle = angle

	pc := r.promptContext(chapter, sub, s.TargetMinWords, s.TargetMaxWords)
	var accepted, longest string
	for attempt := 1; attempt <= s.MaxTries; attempt++ {
		alog := log.WithField("attempt", attempt)
		text, err := r.attempt(ctx, pc, chapter, sub)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if sanitize.WordCount(text) > sanitize.WordCount(longest) {
			longest = text
		}
		if err != nil {
			alog.WithError(err).WithField("state", StateRetry).Warn("Attempt rejected")
			r.res.Retries++
			continue
		}
		words := sanitize.WordCount(text)
		if words >= s.TargetMinWords {
			accepted = text
			alog.WithFields(logrus.Fields{"state": StateAccepted, "words": words}).Debug("Attempt accepted")
			break
		}
		alog.WithFields(logrus.Fields{"state": StateRetry, "words": words}).Warn("Attempt below target length")
		r.res.Retries++
	}

	if accepted == "" {
		accepted, err = r.forcedExpansion(ctx, pc, log)
		if err != nil {
			return err
		}
		if accepted == "" && longest != "" {
			log.Warn("Forced expansion returned nothing, using the longest attempt")
			accepted = longest
		}
	}
	return r.accept(ctx, accepted, r.mem.Angle, log)
}

// attempt runs GENERATING and VALIDATING once. The returned text is the
// filtered completion even when the attempt is rejected.
func (r *run) attempt(ctx context.Context, pc prompt.Context, chapter, sub string) (string, error) {
	s := r.g.settings
	p, err := prompt.Subsection(pc)
	if err != nil {
		return "", err
	}
	raw, err := r.g.client.Complete(ctx, p, s.SubsectionMaxTokens)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEmptyCompletion, err)
	}
	text := filterEcho(sanitize.Clean(raw), chapter, sub)
	words := sanitize.WordCount(text)
	switch {
	case words == 0:
		return "", ErrEmptyCompletion
	case words < s.HardMinWords:
		return text, fmt.Errorf("%w: %d words", ErrShortCompletion, words)
	}
	return text, nil
}

func (r *run) forcedExpansion(ctx context.Context, pc prompt.Context, log *logrus.Entry) (string, error) {
	log.WithField("state", StateForcedExpansion).Warn("Retries exhausted, forcing expansion")
	r.res.Forced++

	p, err := prompt.ForcedExpansion(pc)
	if err != nil {
		return "", err
	}
	raw, err := r.g.client.Complete(ctx, p, r.g.settings.SubsectionMaxTokens)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		log.WithError(err).Warn("Forced expansion failed")
		return "", nil
	}
	return sanitize.Clean(raw), nil
}

// chapter writes a chapter without subsections in one call.
func (r *run) chapter(ctx context.Context, chapter string) error {
	s := r.g.settings
	log := r.g.logger.WithField("chapter", chapter)
	r.mem.Angle = ""

	p, err := prompt.Chapter(r.promptContext(chapter, "", s.ChapterMinWords, s.ChapterMaxWords))
	if err != nil {
		return err
	}
	log.WithField("state", StateGenerating).Debug("Generating chapter body")
	raw, err := r.g.client.Complete(ctx, p, s.ChapterMaxTokens)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.WithError(err).Warn("Chapter generation failed")
	}
	text := sanitize.Clean(raw)
	if words := sanitize.WordCount(text); words < s.ChapterMinWords {
		log.WithField("words", words).Warn("Chapter below target length")
	}
	return r.accept(ctx, text, "", log)
}

// accept fixes, formats, writes and persists a unit, then refreshes memory.
func (r *run) accept(ctx context.Context, text, angle string, log *logrus.Entry) error {
	if strings.TrimSpace(text) == "" {
		log.Error("No text generated, writing fallback sentence")
		r.res.Fallbacks++
		r.doc.AppendBody(FallbackText)
		r.res.Written++
		return r.doc.Persist()
	}

	fixed := r.g.fixer.QuickValidateAndFix(ctx, text, r.mem.Claims, angle)
	r.doc.AppendBody(sanitize.NormalizeMiniHeadings(fixed, r.g.settings.MiniHeadingMode))
	if err := r.doc.Persist(); err != nil {
		return err
	}

	words := sanitize.WordCount(fixed)
	r.res.Written++
	r.res.Words += words
	log.WithFields(logrus.Fields{"words": words, "state": StateAccepted}).Info("Unit written")

	r.mem = r.g.tracker.Refresh(ctx, fixed, r.mem)
	return nil
}

// filterEcho drops lines that repeat the chapter or subsection title, or a
// "Chapter N:" marker, when the text also has a line of real prose.
func filterEcho(text, chapter, sub string) string {
	lines := strings.Split(text, "\n")
	hasProse := false
	for _, line := range lines {
		if len(strings.Fields(line)) > echoMinWords {
			hasProse = true
			break
		}
	}
	if !hasProse {
		return text
	}

	ch := strings.ToLower(strings.TrimSpace(chapter))
	sb := strings.ToLower(strings.TrimSpace(sub))
	kept := lines[:0]
	for _, line := range lines {
		t := strings.TrimSpace(line)
		lower := strings.ToLower(t)
		if lower == ch || lower == sb || echoMarkerRe.MatchString(t) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}
