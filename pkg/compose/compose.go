// Package compose assembles print-ready canvases from artwork, title
// rasters, wordmarks, and logos.
//
// Three layouts exist: front (artwork, curved title, wordmark stacked on
// the 3600x4800 canvas), back (artwork large and vertically centered on the
// same canvas), and sleeve (logo on the narrow 900x4200 canvas). Every
// element is resized and positioned by a percentage rule, then clamped
// into the safe print margin.
package compose

import (
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/onlyonestudio/onlyone/pkg/config"
	"github.com/onlyonestudio/onlyone/pkg/errors"
)

// Layer reports how one element landed on a canvas.
type Layer struct {
	Name   string
	Source string
	// Placed is false when an optional element was missing and skipped.
	Placed bool
	Width  int
	Height int
	X      int
	Y      int
}

// Result describes one finished composition.
type Result struct {
	Path   string
	Layers []Layer
}

// Composer builds compositions using the configured canvases and layout
// rules.
type Composer struct {
	cfg *config.Config
}

// New creates a Composer.
func New(cfg *config.Config) *Composer {
	return &Composer{cfg: cfg}
}

// placeLayer resizes, positions, and clamps one element onto the canvas.
func placeLayer(canvas *image.NRGBA, name, path string, rule config.Rule, t config.Template) (*image.NRGBA, Layer) {
	layer := Layer{Name: name, Source: path}
	if path == "" {
		return canvas, layer
	}

	elem, err := imaging.Open(path)
	if err != nil {
		// Optional layers degrade to a skip, same as a missing file
		return canvas, layer
	}

	resized := resizeToRule(elem, rule, t)
	x, y := position(resized, rule, t)
	x, y = clampToSafeArea(x, y, resized, t)

	out := imaging.Overlay(canvas, resized, image.Pt(x, y), 1.0)

	b := resized.Bounds()
	layer.Placed = true
	layer.Width, layer.Height = b.Dx(), b.Dy()
	layer.X, layer.Y = x, y
	return out, layer
}

func newCanvas(t config.Template) *image.NRGBA {
	return image.NewNRGBA(image.Rect(0, 0, t.Width, t.Height))
}

func saveCanvas(canvas *image.NRGBA, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "creating output dir for %q", path)
	}
	if err := imaging.Save(canvas, path); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "writing %q", path)
	}
	return nil
}

// ComposeFront stacks artwork, curved title, and wordmark on the main
// canvas. Missing elements are skipped, not fatal: a front with only the
// artwork is still a valid draft to iterate on.
func (c *Composer) ComposeFront(artworkPath, titlePath, wordmarkPath, outputPath string) (*Result, error) {
	t := c.cfg.Canvas.Main
	layout := c.cfg.Layout.Front
	canvas := newCanvas(t)

	result := &Result{Path: outputPath}
	var layer Layer

	canvas, layer = placeLayer(canvas, "main_image", artworkPath, layout.MainImage, t)
	result.Layers = append(result.Layers, layer)

	canvas, layer = placeLayer(canvas, "title", titlePath, layout.Title, t)
	result.Layers = append(result.Layers, layer)

	canvas, layer = placeLayer(canvas, "wordmark", wordmarkPath, layout.Wordmark, t)
	result.Layers = append(result.Layers, layer)

	if err := saveCanvas(canvas, outputPath); err != nil {
		return nil, err
	}
	return result, nil
}

// ComposeBack places the artwork large and vertically centered on the main
// canvas. The artwork is required.
func (c *Composer) ComposeBack(artworkPath, outputPath string) (*Result, error) {
	if _, err := os.Stat(artworkPath); err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "back artwork %q", artworkPath)
	}

	t := c.cfg.Canvas.Main
	canvas := newCanvas(t)

	canvas, layer := placeLayer(canvas, "main_image", artworkPath, c.cfg.Layout.Back.MainImage, t)
	if !layer.Placed {
		return nil, errors.New(errors.ErrCodeInvalidImage, "back artwork %q could not be decoded", artworkPath)
	}

	if err := saveCanvas(canvas, outputPath); err != nil {
		return nil, err
	}
	return &Result{Path: outputPath, Layers: []Layer{layer}}, nil
}

// ComposeSleeve places the logo on the sleeve canvas. The logo is required.
func (c *Composer) ComposeSleeve(logoPath, outputPath string) (*Result, error) {
	if _, err := os.Stat(logoPath); err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "sleeve logo %q", logoPath)
	}

	t := c.cfg.Canvas.Sleeve
	canvas := newCanvas(t)

	canvas, layer := placeLayer(canvas, "logo", logoPath, c.cfg.Layout.Sleeve.Logo, t)
	if !layer.Placed {
		return nil, errors.New(errors.ErrCodeInvalidImage, "sleeve logo %q could not be decoded", logoPath)
	}

	if err := saveCanvas(canvas, outputPath); err != nil {
		return nil, err
	}
	return &Result{Path: outputPath, Layers: []Layer{layer}}, nil
}
