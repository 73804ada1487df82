package outline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseMixedItems(t *testing.T) {
	toc := []any{
		map[string]any{"Introduction": []any{"What is X", "Why it matters"}},
		"Closing thoughts",
	}

	chapters, err := Parse(toc)
	require.NoError(t, err)
	require.Len(t, chapters, 2)

	assert.Equal(t, "Introduction", chapters[0].Title)
	assert.Equal(t, []string{"What is X", "Why it matters"}, chapters[0].Subsections)
	assert.Equal(t, "Closing thoughts", chapters[1].Title)
	assert.Empty(t, chapters[1].Subsections)
	assert.Equal(t, 3, UnitCount(chapters))
}

func TestParseFromYAML(t *testing.T) {
	src := `
- Part One:
    - First steps
    - 42
    - ""
- Part Two: not a list
- Epilogue
`
	var toc []any
	require.NoError(t, yaml.Unmarshal([]byte(src), &toc))

	chapters, err := Parse(toc)
	require.NoError(t, err)
	require.Len(t, chapters, 3)
	assert.Equal(t, []string{"First steps", "42"}, chapters[0].Subsections)
	assert.Equal(t, "Part Two", chapters[1].Title)
	assert.False(t, chapters[1].HasSubsections())
	assert.Equal(t, []string{"Part One", "Part Two", "Epilogue"}, Titles(chapters))
}

func TestParseMalformed(t *testing.T) {
	cases := map[string]any{
		"number":         12,
		"nested list":    []any{"a"},
		"two keys":       map[string]any{"A": []any{}, "B": []any{}},
		"empty mapping":  map[string]any{},
		"blank title":    "   ",
		"nil":            nil,
		"nested sub":     map[string]any{"A": []any{[]any{"x"}}},
		"non-string key": map[any]any{1: []any{"x"}},
	}
	for name, item := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]any{"Fine", item})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedOutline)
			assert.Contains(t, err.Error(), "toc item 1")
		})
	}
}

func TestToTOCRoundTrip(t *testing.T) {
	chapters := []Chapter{
		{Title: "Intro", Subsections: []string{"One", "Two"}},
		{Title: "End"},
	}
	back, err := Parse(ToTOC(chapters))
	require.NoError(t, err)
	assert.Equal(t, chapters, back)
}

func TestParseText(t *testing.T) {
	text := `How to Use This Book for Real Impact
A Note on Ethics

PART I – FOUNDATIONS
Chapter 1: Understanding the Basics
- How X hides in plain sight
• The biology of Y
CLOSING
`
	chapters := ParseText(text)
	require.Len(t, chapters, 4)

	assert.Equal(t, DefaultChapterTitle, chapters[0].Title)
	assert.Equal(t, []string{"How to Use This Book for Real Impact", "A Note on Ethics"}, chapters[0].Subsections)
	assert.Equal(t, "PART I – FOUNDATIONS", chapters[1].Title)
	assert.Empty(t, chapters[1].Subsections)
	assert.Equal(t, "Chapter 1: Understanding the Basics", chapters[2].Title)
	assert.Equal(t, []string{"How X hides in plain sight", "The biology of Y"}, chapters[2].Subsections)
	assert.Equal(t, "CLOSING", chapters[3].Title)
}

func TestParseTextShortCapsIsSubsection(t *testing.T) {
	chapters := ParseText("INTRODUCTION\nFAQ\n")
	require.Len(t, chapters, 1)
	assert.Equal(t, []string{"FAQ"}, chapters[0].Subsections)
}
