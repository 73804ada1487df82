// Package memory tracks what the book has already said so later units can avoid repeating it.
package memory

import (
	"context"
	"regexp"
	"strings"

	"github.com/puffgino/bookgen/pkg/llm"
	"github.com/puffgino/bookgen/pkg/prompt"
	"github.com/sirupsen/logrus"
)

// DefaultMaxClaims bounds the claims list when no limit is configured.
const DefaultMaxClaims = 7

// Memory is the rolling state threaded through a run.
type Memory struct {
	Summary string
	Claims  []string
	// Angle applies to the next subsection only.
	Angle string
}

var (
	summaryRe     = regexp.MustCompile(`(?is)SUMMARY:(.*?)(?:CLAIMS:|\z)`)
	claimsSplitRe = regexp.MustCompile(`(?i)CLAIMS:\s*`)
	claimPrefixRe = regexp.MustCompile(`^(?:[-*•]+|\d+[.)](?:\s|$))\s*`)
)

// Parse reads the SUMMARY and CLAIMS blocks out of a summarization response.
// A missing or blank block keeps the corresponding value from prev.
func Parse(out string, prev Memory, maxClaims int) Memory {
	if maxClaims <= 0 {
		maxClaims = DefaultMaxClaims
	}
	next := Memory{Summary: prev.Summary, Claims: prev.Claims, Angle: prev.Angle}

	if m := summaryRe.FindStringSubmatch(out); m != nil {
		if summary := strings.TrimSpace(m[1]); summary != "" {
			next.Summary = summary
		}
	}

	if parts := claimsSplitRe.Split(out, 2); len(parts) == 2 {
		var claims []string
		for _, line := range strings.Split(parts[1], "\n") {
			claim := strings.TrimSpace(claimPrefixRe.ReplaceAllString(strings.TrimSpace(line), ""))
			if claim != "" {
				claims = append(claims, claim)
			}
		}
		if len(claims) > 0 {
			next.Claims = claims
		}
	}

	if len(next.Claims) > maxClaims {
		next.Claims = next.Claims[:maxClaims]
	}
	return next
}

// Tracker updates memory through the completion client.
type Tracker struct {
	client         llm.Client
	logger         *logrus.Logger
	planningTokens int
	summaryTokens  int
	maxClaims      int
}

// NewTracker creates a memory tracker.
func NewTracker(client llm.Client, logger *logrus.Logger, planningTokens, summaryTokens, maxClaims int) *Tracker {
	return &Tracker{
		client:         client,
		logger:         logger,
		planningTokens: planningTokens,
		summaryTokens:  summaryTokens,
		maxClaims:      maxClaims,
	}
}

// DeriveAngle asks the planner for a one-sentence directive for the next
// subsection and returns the first non-empty line of the answer.
func (t *Tracker) DeriveAngle(ctx context.Context, chapter, subsection string, mem Memory) (string, error) {
	p, err := prompt.Angle(prompt.Context{
		Chapter:    chapter,
		Subsection: subsection,
		Summary:    mem.Summary,
		Claims:     mem.Claims,
	})
	if err != nil {
		return "", err
	}
	out, err := t.client.Complete(ctx, p, t.planningTokens)
	if err != nil {
		return "", err
	}
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line, nil
		}
	}
	return "", nil
}

// Refresh summarizes newly accepted text into mem. A failed call is logged
// and leaves mem unchanged.
func (t *Tracker) Refresh(ctx context.Context, text string, mem Memory) Memory {
	p, err := prompt.Summary(text)
	if err != nil {
		t.logger.WithError(err).Warn("Memory refresh skipped")
		return mem
	}
	out, err := t.client.Complete(ctx, p, t.summaryTokens)
	if err != nil {
		t.logger.WithError(err).Warn("Memory refresh failed, keeping previous summary and claims")
		return mem
	}
	next := Parse(out, mem, t.maxClaims)
	t.logger.WithFields(logrus.Fields{
		"summary_words": len(strings.Fields(next.Summary)),
		"claims":        len(next.Claims),
	}).Debug("Memory refreshed")
	return next
}
