// Package cover renders a book title as an SVG cover with the text converted to paths.
package cover

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/muesli/reflow/wordwrap"
	"github.com/sirupsen/logrus"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/svg"
)

// Generator creates cover images.
type Generator struct {
	logger *logrus.Logger
}

// New creates a new Generator instance.
func New(logger *logrus.Logger) *Generator {
	return &Generator{logger: logger}
}

// Config holds the configuration for cover generation.
type Config struct {
	Title      string
	Subtitle   string
	FontPath   string // TTF/OTF file, required for path conversion
	OutputPath string
	Width      float64 // canvas width in millimeters
	Height     float64 // canvas height in millimeters
	FontSize   float64 // title size in points before fitting
	WrapChars  int     // title wrap column
	Background string  // hex color
	TextColor  string  // hex color
	TextScale  float64 // share of the width the widest title line may use
}

// DefaultConfig returns a US letter cover with light text on a dark background.
func DefaultConfig() Config {
	return Config{
		Width:      215.9,
		Height:     279.4,
		FontSize:   72,
		WrapChars:  18,
		Background: "#1f2a44",
		TextColor:  "#f5f0e6",
		TextScale:  0.8,
	}
}

func (cfg *Config) applyDefaults() {
	def := DefaultConfig()
	if cfg.Width == 0 {
		cfg.Width = def.Width
	}
	if cfg.Height == 0 {
		cfg.Height = def.Height
	}
	if cfg.FontSize == 0 {
		cfg.FontSize = def.FontSize
	}
	if cfg.WrapChars == 0 {
		cfg.WrapChars = def.WrapChars
	}
	if cfg.Background == "" {
		cfg.Background = def.Background
	}
	if cfg.TextColor == "" {
		cfg.TextColor = def.TextColor
	}
	if cfg.TextScale == 0 {
		cfg.TextScale = def.TextScale
	}
}

// WrapTitle breaks a title into lines of at most width characters where
// word boundaries allow.
func WrapTitle(title string, width int) []string {
	var lines []string
	for _, line := range strings.Split(wordwrap.String(strings.Join(strings.Fields(title), " "), width), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// FitSize shrinks size so the widest line, measured at size, spans at most
// maxWidth.
func FitSize(size, widest, maxWidth float64) float64 {
	if widest <= 0 || widest <= maxWidth {
		return size
	}
	return size * maxWidth / widest
}

// Generate renders the cover SVG to cfg.OutputPath.
func (g *Generator) Generate(cfg Config) error {
	if cfg.FontPath == "" {
		return fmt.Errorf("font path is required for text-to-path conversion")
	}
	cfg.applyDefaults()
	lines := WrapTitle(cfg.Title, cfg.WrapChars)
	if len(lines) == 0 {
		return fmt.Errorf("cover title is empty")
	}

	fontFamily := canvas.NewFontFamily("cover")
	if err := fontFamily.LoadFontFile(cfg.FontPath, canvas.FontRegular); err != nil {
		return fmt.Errorf("failed to load font %s: %w", cfg.FontPath, err)
	}

	titlePaths, lineHeight, err := fitLines(fontFamily, lines, cfg.FontSize, cfg.Width*cfg.TextScale)
	if err != nil {
		return err
	}

	c := canvas.New(cfg.Width, cfg.Height)
	ctx := canvas.NewContext(c)
	ctx.SetFillColor(canvas.Hex(cfg.Background))
	ctx.DrawPath(0, 0, canvas.Rectangle(cfg.Width, cfg.Height))

	// Canvas y grows upward; the block is centered slightly above the middle.
	ctx.SetFillColor(canvas.Hex(cfg.TextColor))
	top := cfg.Height*0.6 + float64(len(titlePaths))*lineHeight/2
	for i, p := range titlePaths {
		x := (cfg.Width - p.Bounds().W()) / 2
		y := top - float64(i+1)*lineHeight
		ctx.DrawPath(x, y, p)
	}

	if sub := strings.TrimSpace(cfg.Subtitle); sub != "" {
		face := fontFamily.Face(cfg.FontSize/3, canvas.Hex(cfg.TextColor), canvas.FontRegular, canvas.FontNormal)
		subPath, _, err := face.ToPath(sub)
		if err != nil {
			return fmt.Errorf("failed to convert subtitle to path: %w", err)
		}
		ctx.DrawPath((cfg.Width-subPath.Bounds().W())/2, cfg.Height*0.2, subPath)
	}

	var buf bytes.Buffer
	svgRenderer := svg.New(&buf, c.W, c.H, nil)
	c.RenderTo(svgRenderer)
	if err := svgRenderer.Close(); err != nil {
		return fmt.Errorf("failed to render cover: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.OutputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(cfg.OutputPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write cover: %w", err)
	}
	g.logger.Debugf("Generated cover with %d title lines: %s", len(lines), cfg.OutputPath)
	return nil
}

// fitLines converts each line to a path at a size where the widest line fits maxWidth.
func fitLines(family *canvas.FontFamily, lines []string, size, maxWidth float64) ([]*canvas.Path, float64, error) {
	paths, widest, err := linePaths(family, lines, size)
	if err != nil {
		return nil, 0, err
	}
	if fitted := FitSize(size, widest, maxWidth); fitted != size {
		size = fitted
		if paths, _, err = linePaths(family, lines, size); err != nil {
			return nil, 0, err
		}
	}
	// Points to millimeters, with 1.25 leading.
	lineHeight := size * 25.4 / 72 * 1.25
	return paths, lineHeight, nil
}

func linePaths(family *canvas.FontFamily, lines []string, size float64) ([]*canvas.Path, float64, error) {
	face := family.Face(size, canvas.Black, canvas.FontRegular, canvas.FontNormal)
	paths := make([]*canvas.Path, 0, len(lines))
	widest := 0.0
	for _, line := range lines {
		p, _, err := face.ToPath(line)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to convert text to path: %w", err)
		}
		if w := p.Bounds().W(); w > widest {
			widest = w
		}
		paths = append(paths, p)
	}
	return paths, widest, nil
}
