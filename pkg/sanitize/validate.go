package sanitize

import (
	"context"
	"regexp"
	"strings"

	"github.com/puffgino/bookgen/pkg/llm"
	"github.com/puffgino/bookgen/pkg/prompt"
	"github.com/sirupsen/logrus"
)

// Issue is a validation flag raised on cleaned text.
type Issue string

const (
	IssueMarkdownHeading Issue = "Markdown headings inside body."
	IssueAllCaps         Issue = "All-caps paragraph detected."
	IssueRepeatedClaim   Issue = "Repeats a previously stated claim too literally."
)

// minClaimLen is the shortest claim checked for literal repetition.
const minClaimLen = 8

var (
	leftoverHeadingRe = regexp.MustCompile(`(?m)^[ \t]*#{1,6}[ \t]+`)
	capsParagraphRe   = regexp.MustCompile(`(?m)^[A-Z0-9][A-Z0-9 \t.,;:!?"'()\-]{20,}$`)
)

// Validate lists the issues found in text. Each kind appears at most once.
func Validate(text string, claims []string) []Issue {
	var issues []Issue
	if leftoverHeadingRe.MatchString(text) {
		issues = append(issues, IssueMarkdownHeading)
	}
	if capsParagraphRe.MatchString(text) {
		issues = append(issues, IssueAllCaps)
	}
	lower := strings.ToLower(text)
	for _, c := range claims {
		c = strings.TrimSpace(c)
		if len(c) > minClaimLen && strings.Contains(lower, strings.ToLower(c)) {
			issues = append(issues, IssueRepeatedClaim)
			break
		}
	}
	return issues
}

// Fixer runs the corrective pass over accepted text.
type Fixer struct {
	client    llm.Client
	logger    *logrus.Logger
	maxTokens int
}

// NewFixer creates a Fixer that spends at most maxTokens on each remediation call.
func NewFixer(client llm.Client, logger *logrus.Logger, maxTokens int) *Fixer {
	return &Fixer{client: client, logger: logger, maxTokens: maxTokens}
}

// QuickValidateAndFix returns text unchanged when Validate finds nothing.
// Otherwise it asks for one minimal edit and returns the result after
// StripBasic. A failed or empty edit returns the original text.
func (f *Fixer) QuickValidateAndFix(ctx context.Context, text string, claims []string, angle string) string {
	issues := Validate(text, claims)
	if len(issues) == 0 {
		return text
	}

	descriptions := make([]string, len(issues))
	for i, issue := range issues {
		descriptions[i] = string(issue)
	}
	log := f.logger.WithField("issues", strings.Join(descriptions, " "))
	log.Warn("Validation flagged text, requesting correction")

	p, err := prompt.Fix(descriptions, angle, text)
	if err != nil {
		log.WithError(err).Warn("Correction skipped, keeping original text")
		return text
	}
	out, err := f.client.Complete(ctx, p, f.maxTokens)
	if err != nil {
		log.WithError(err).Warn("Correction failed, keeping original text")
		return text
	}
	fixed := StripBasic(out)
	if fixed == "" {
		log.Warn("Correction returned no text, keeping original text")
		return text
	}
	return fixed
}
