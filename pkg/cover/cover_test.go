package cover

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapTitle(t *testing.T) {
	lines := WrapTitle("  The   Quiet Art of Sleeping Well Again ", 18)
	assert.Equal(t, []string{"The Quiet Art of", "Sleeping Well", "Again"}, lines)

	assert.Equal(t, []string{"Short"}, WrapTitle("Short", 18))
	assert.Empty(t, WrapTitle("   ", 18))
}

func TestFitSize(t *testing.T) {
	assert.Equal(t, 72.0, FitSize(72, 100, 150))
	assert.Equal(t, 36.0, FitSize(72, 200, 100))
	assert.Equal(t, 72.0, FitSize(72, 0, 100))
}

func TestGenerateRequiresFont(t *testing.T) {
	g := New(logrus.New())
	err := g.Generate(Config{Title: "A Book", OutputPath: filepath.Join(t.TempDir(), "cover.svg")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "font path is required")
}

func TestGenerateMissingFontFile(t *testing.T) {
	g := New(logrus.New())
	err := g.Generate(Config{
		Title:      "A Book",
		FontPath:   filepath.Join(t.TempDir(), "missing.ttf"),
		OutputPath: filepath.Join(t.TempDir(), "cover.svg"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load font")
}

func TestGenerateEmptyTitle(t *testing.T) {
	g := New(logrus.New())
	err := g.Generate(Config{Title: " ", FontPath: "any.ttf", OutputPath: filepath.Join(t.TempDir(), "cover.svg")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title is empty")
}

func TestGenerateWithSystemFont(t *testing.T) {
	font := ""
	for _, candidate := range []string{
		"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
		"/usr/share/fonts/dejavu/DejaVuSans.ttf",
		"/Library/Fonts/Arial.ttf",
	} {
		if _, err := os.Stat(candidate); err == nil {
			font = candidate
			break
		}
	}
	if font == "" {
		t.Skip("no system font available")
	}

	out := filepath.Join(t.TempDir(), "covers", "cover.svg")
	g := New(logrus.New())
	require.NoError(t, g.Generate(Config{Title: "The Quiet Art of Sleeping Well", Subtitle: "A practical guide", FontPath: font, OutputPath: out}))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	svg := string(data)
	assert.True(t, strings.Contains(svg, "<svg"))
	assert.Contains(t, svg, "<path")
	assert.NotContains(t, svg, "Quiet Art")
}
