package validate

import (
	"image"

	"github.com/disintegration/imaging"

	"github.com/onlyonestudio/onlyone/pkg/errors"
)

// CleanBorder zeroes the alpha channel in a thin frame around the image,
// removing the halo artifacts upscalers leave on the outermost pixels.
// An empty outputPath overwrites the input file.
func CleanBorder(path string, threshold int, outputPath string) (string, error) {
	if outputPath == "" {
		outputPath = path
	}
	if threshold <= 0 {
		return outputPath, nil
	}

	img, err := imaging.Open(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeFileNotFound, err, "artwork %q", path)
	}

	nrgba := imaging.Clone(img)
	b := nrgba.Bounds()
	w, h := b.Dx(), b.Dy()
	if threshold*2 >= w || threshold*2 >= h {
		return "", errors.New(errors.ErrCodeInvalidImage, "border threshold %d too large for %dx%d image", threshold, w, h)
	}

	clear := func(x, y int) {
		nrgba.Pix[nrgba.PixOffset(x, y)+3] = 0
	}
	for y := 0; y < h; y++ {
		for t := 0; t < threshold; t++ {
			clear(t, y)     // left
			clear(w-1-t, y) // right
		}
	}
	for x := 0; x < w; x++ {
		for t := 0; t < threshold; t++ {
			clear(x, t)     // top
			clear(x, h-1-t) // bottom
		}
	}

	if err := imaging.Save(nrgba, outputPath); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "writing %q", outputPath)
	}
	return outputPath, nil
}

// borderOpaque reports whether any pixel in the outer frame of the image
// has alpha above the content threshold. Used by tests and QA checks.
func borderOpaque(img *image.NRGBA, frame int) bool {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	const contentThreshold = 10

	check := func(x, y int) bool {
		return img.Pix[img.PixOffset(x, y)+3] > contentThreshold
	}
	for y := 0; y < h; y++ {
		for t := 0; t < frame && t < w; t++ {
			if check(t, y) || check(w-1-t, y) {
				return true
			}
		}
	}
	for x := 0; x < w; x++ {
		for t := 0; t < frame && t < h; t++ {
			if check(x, t) || check(x, h-1-t) {
				return true
			}
		}
	}
	return false
}
