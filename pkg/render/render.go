// Package render rasterizes product titles as curved text on a transparent
// canvas.
//
// Each character is placed on a circular arc whose radius follows from the
// total text width and the curve strength, then rotated to stay tangent to
// the arc. A negative curve bends the baseline downward (the standard
// OnlyOne look); zero renders an effectively straight line.
package render

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"

	"github.com/onlyonestudio/onlyone/pkg/errors"
	"github.com/onlyonestudio/onlyone/pkg/slug"
)

// Settings controls the curved text raster.
type Settings struct {
	// FontPath is the TTF file to render with. Missing files fall back to
	// a system font of the same name, then to the embedded face.
	FontPath string
	// FontSize in pixels.
	FontSize float64
	// Curve bends the baseline: negative arcs downward, positive upward,
	// zero is straight. The standard drop uses -0.60.
	Curve float64
	// Tracking adds letter spacing between glyphs as a fraction of the
	// font size.
	Tracking float64
	// Width and Height of the output canvas.
	Width, Height int
	// VerticalOffset shifts the arc center down to visually balance the
	// raster inside the canvas.
	VerticalOffset float64
}

// DefaultSettings returns the standard title raster setup: a 2400x800
// canvas with 180px glyphs on a -0.60 arc.
func DefaultSettings(fontPath string) Settings {
	return Settings{
		FontPath:       fontPath,
		FontSize:       180,
		Curve:          -0.60,
		Tracking:       0.05,
		Width:          2400,
		Height:         800,
		VerticalOffset: 50,
	}
}

// Renderer rasterizes curved titles with a resolved typeface.
type Renderer struct {
	settings Settings
	font     *truetype.Font
	source   string
}

// NewRenderer resolves the typeface and validates settings.
func NewRenderer(settings Settings) (*Renderer, error) {
	if settings.FontSize <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "font size must be positive, got %v", settings.FontSize)
	}
	if settings.Width <= 0 || settings.Height <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "canvas must have positive dimensions, got %dx%d", settings.Width, settings.Height)
	}

	f, source, err := loadFont(settings.FontPath)
	if err != nil {
		return nil, err
	}
	return &Renderer{settings: settings, font: f, source: source}, nil
}

// FontSource reports where the typeface came from: "path", "system", or
// "embedded".
func (r *Renderer) FontSource() string { return r.source }

func (r *Renderer) face() font.Face {
	return truetype.NewFace(r.font, &truetype.Options{Size: r.settings.FontSize})
}

// Draw rasterizes text along the configured arc in the given color.
// The returned image has a fully transparent background.
func (r *Renderer) Draw(text string, col color.Color) (image.Image, error) {
	if text == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "cannot render empty title")
	}

	s := r.settings
	dc := gg.NewContext(s.Width, s.Height)
	dc.SetFontFace(r.face())
	dc.SetColor(col)

	centerX := float64(s.Width) / 2
	centerY := float64(s.Height)/2 + s.VerticalOffset

	chars := []rune(text)
	widths := make([]float64, len(chars))
	var textWidth float64
	for i, c := range chars {
		w, _ := dc.MeasureString(string(c))
		widths[i] = w
		textWidth += w
	}
	if textWidth == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "title %q has no drawable glyphs", text)
	}
	spacing := s.Tracking * s.FontSize
	textWidth += spacing * float64(len(chars)-1)

	// Radius from arc length: a full circle of circumference textWidth
	// at |curve|=1. The floor keeps zero curvature finite, rendering an
	// arc so wide it reads as a straight line.
	denom := 0.01
	if abs := math.Abs(s.Curve); abs > 0 {
		denom = 2 * math.Pi * abs
	}
	radius := textWidth / denom

	sign := 1.0
	if s.Curve < 0 {
		sign = -1.0
	}

	currentX := -textWidth / 2
	for i, c := range chars {
		angle := (currentX + widths[i]/2) / radius
		x := centerX + radius*math.Sin(angle)
		y := centerY + radius*(1-math.Cos(angle))*sign

		// Negated because the arc math runs counterclockwise while gg
		// rotates clockwise in image coordinates.
		dc.Push()
		dc.RotateAbout(-angle, x, y)
		dc.DrawStringAnchored(string(c), x, y, 0.5, 0.5)
		dc.Pop()

		currentX += widths[i] + spacing
	}

	return dc.Image(), nil
}

// TitleSet holds the pair of rasters produced for one title.
type TitleSet struct {
	Title     string
	Slug      string
	DarkPath  string
	LightPath string
}

// RenderTitle rasterizes a title in both contrast colors and writes
// {slug}_title_dark.png and {slug}_title_light.png into outputDir.
func (r *Renderer) RenderTitle(title, outputDir string, dark, light color.Color) (*TitleSet, error) {
	s := slug.Generate(title)
	if err := errors.ValidateSlug(s); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "creating output dir %q", outputDir)
	}

	darkPath, lightPath := TitlePaths(s, outputDir)
	for _, out := range []struct {
		path string
		col  color.Color
	}{
		{darkPath, dark},
		{lightPath, light},
	} {
		img, err := r.Draw(title, out.col)
		if err != nil {
			return nil, err
		}
		if err := gg.SavePNG(out.path, img); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "writing %q", out.path)
		}
	}

	return &TitleSet{Title: title, Slug: s, DarkPath: darkPath, LightPath: lightPath}, nil
}

// TitlePaths returns the canonical on-disk locations of a slug's title
// rasters.
func TitlePaths(productSlug, dir string) (darkPath, lightPath string) {
	darkPath = filepath.Join(dir, fmt.Sprintf("%s_title_dark.png", productSlug))
	lightPath = filepath.Join(dir, fmt.Sprintf("%s_title_light.png", productSlug))
	return darkPath, lightPath
}

// TitleFilesExist reports whether both rasters for a slug are on disk.
func TitleFilesExist(productSlug, dir string) bool {
	darkPath, lightPath := TitlePaths(productSlug, dir)
	for _, p := range []string{darkPath, lightPath} {
		if _, err := os.Stat(p); err != nil {
			return false
		}
	}
	return true
}
