package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleContext() Context {
	return Context{
		Title:      "Calm Mornings",
		Persona:    "Busy parents who want simple routines.",
		Chapters:   []string{"Introduction", "Closing thoughts"},
		Chapter:    "Introduction",
		Subsection: "What is X",
		MinWords:   500,
		MaxWords:   600,
	}
}

func TestSubsectionDefaults(t *testing.T) {
	out, err := Subsection(sampleContext())
	require.NoError(t, err)

	assert.Contains(t, out, "STYLE CONTRACT (MANDATORY):")
	assert.Contains(t, out, "Busy parents who want simple routines.")
	assert.Contains(t, out, "CONTEXT SUMMARY (DO NOT OUTPUT):\n(none)")
	assert.Contains(t, out, "avoid repeating; add a new angle if similar):\n- (none)")
	assert.Contains(t, out, "Bring a new, concrete angle with specific examples.")
	assert.Contains(t, out, "GLOBAL CHAPTER LIST:\n- Introduction\n- Closing thoughts")
	assert.Contains(t, out, "CURRENT SUBHEADING: What is X")
	assert.Contains(t, out, "about 500-600 words")
	assert.True(t, strings.HasSuffix(out, EndMark+"\n"))
}

func TestSubsectionWithMemory(t *testing.T) {
	c := sampleContext()
	c.Summary = "We covered the basics."
	c.Angle = "Focus on the first five minutes."
	for i := 0; i < 9; i++ {
		c.Claims = append(c.Claims, "claim "+string(rune('a'+i)))
	}

	out, err := Subsection(c)
	require.NoError(t, err)
	assert.Contains(t, out, "We covered the basics.")
	assert.Contains(t, out, "Focus on the first five minutes.")
	assert.Contains(t, out, "- claim g")
	assert.NotContains(t, out, "- claim h", "claims are capped at seven")
	assert.NotContains(t, out, "Bring a new, concrete angle")
}

func TestForcedExpansionExtendsSubsection(t *testing.T) {
	c := sampleContext()
	base, err := Subsection(c)
	require.NoError(t, err)
	forced, err := ForcedExpansion(c)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(forced, strings.TrimSpace(base)))
	assert.Contains(t, forced, "Produce a complete 500-600 words now.")
	assert.Contains(t, forced, "Do NOT insert headings.")
}

func TestChapterPrompt(t *testing.T) {
	c := sampleContext()
	c.Chapter = "Closing thoughts"
	c.MinWords, c.MaxWords = 2000, 3000
	c.Summary = "should not appear"

	out, err := Chapter(c)
	require.NoError(t, err)
	assert.Contains(t, out, "CURRENT CHAPTER (no subheadings): Closing thoughts")
	assert.Contains(t, out, "Write 2000-3000 words")
	assert.NotContains(t, out, "should not appear")
	assert.Contains(t, out, EndMark)
}

func TestAngleSummaryFix(t *testing.T) {
	angle, err := Angle(Context{Chapter: "Intro", Subsection: "Why", Claims: []string{"X helps."}})
	require.NoError(t, err)
	assert.Contains(t, angle, "SUBHEADING: Why")
	assert.Contains(t, angle, "ROLLING SUMMARY:\n(none)")
	assert.Contains(t, angle, "- X helps.")

	summary, err := Summary("Body text.")
	require.NoError(t, err)
	assert.Contains(t, summary, "SECTION:\nBody text.")
	assert.Contains(t, summary, "CLAIMS:")

	fix, err := Fix([]string{"Markdown headings inside body."}, "", "Some text")
	require.NoError(t, err)
	assert.Contains(t, fix, "- Markdown headings inside body.")
	assert.Contains(t, fix, "(keep focus; no new topics)")
	assert.Contains(t, fix, "TEXT:\nSome text")
}

func TestKindOf(t *testing.T) {
	c := sampleContext()
	render := map[Kind]func() (string, error){
		KindSubsection:      func() (string, error) { return Subsection(c) },
		KindForcedExpansion: func() (string, error) { return ForcedExpansion(c) },
		KindChapter:         func() (string, error) { return Chapter(c) },
		KindAngle:           func() (string, error) { return Angle(c) },
		KindSummary:         func() (string, error) { return Summary("text") },
		KindFix:             func() (string, error) { return Fix(nil, "", "text") },
	}
	for kind, fn := range render {
		out, err := fn()
		require.NoError(t, err)
		assert.Equal(t, kind, KindOf(out), kind)
	}
	assert.Equal(t, Kind(""), KindOf("hello"))
}
