package compose

import (
	"image"

	"github.com/disintegration/imaging"

	"github.com/onlyonestudio/onlyone/pkg/config"
)

// resizeToRule scales an element to the rule's percentage of the canvas,
// preserving aspect ratio. A zero percentage on one axis lets that axis
// follow the other.
func resizeToRule(img image.Image, rule config.Rule, canvas config.Template) image.Image {
	if rule.WidthPercent > 0 {
		target := int(float64(canvas.Width) * rule.WidthPercent / 100)
		return imaging.Resize(img, target, 0, imaging.Lanczos)
	}
	if rule.HeightPercent > 0 {
		target := int(float64(canvas.Height) * rule.HeightPercent / 100)
		return imaging.Resize(img, 0, target, imaging.Lanczos)
	}
	return img
}

// position computes the top-left paste point. Horizontal placement follows
// the rule's alignment: centered by default, or inset 10% from the left or
// right canvas edge. The top edge lands at the rule's percentage of canvas
// height; a rule without one centers the element vertically.
func position(elem image.Image, rule config.Rule, canvas config.Template) (x, y int) {
	b := elem.Bounds()

	switch rule.Align {
	case config.AlignLeft:
		x = int(float64(canvas.Width) * 0.1)
	case config.AlignRight:
		x = int(float64(canvas.Width)*0.9) - b.Dx()
	default:
		x = (canvas.Width - b.Dx()) / 2
	}

	if rule.TopPercent != nil {
		y = int(float64(canvas.Height) * *rule.TopPercent / 100)
	} else {
		y = (canvas.Height - b.Dy()) / 2
	}
	return x, y
}

// clampToSafeArea pulls a position back inside the canvas safe margins.
// Elements wider than the printable area end up pinned to the leading
// margin and overflow on the trailing side; the margin side always wins.
func clampToSafeArea(x, y int, elem image.Image, canvas config.Template) (int, int) {
	b := elem.Bounds()
	x = max(canvas.SafeMargin, min(x, canvas.Width-b.Dx()-canvas.SafeMargin))
	y = max(canvas.SafeMargin, min(y, canvas.Height-b.Dy()-canvas.SafeMargin))
	return x, y
}
