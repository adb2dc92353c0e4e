package compose

import (
	"image/color"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/onlyonestudio/onlyone/pkg/config"
)

func TestPositionAlignment(t *testing.T) {
	canvas := config.Template{Width: 1000, Height: 2000, SafeMargin: 10}
	elem := imaging.New(200, 100, color.NRGBA{A: 255})
	top := 25.0

	tests := []struct {
		name  string
		rule  config.Rule
		wantX int
		wantY int
	}{
		{"centered by default", config.Rule{TopPercent: &top}, 400, 500},
		{"explicit center", config.Rule{TopPercent: &top, Align: config.AlignCenter}, 400, 500},
		{"left insets 10%", config.Rule{TopPercent: &top, Align: config.AlignLeft}, 100, 500},
		{"right insets 10%", config.Rule{TopPercent: &top, Align: config.AlignRight}, 700, 500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := position(elem, tt.rule, canvas)
			if x != tt.wantX || y != tt.wantY {
				t.Errorf("position = (%d, %d), want (%d, %d)", x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestPositionCentersVerticallyWithoutTopPercent(t *testing.T) {
	canvas := config.Template{Width: 1000, Height: 2000, SafeMargin: 10}
	elem := imaging.New(200, 100, color.NRGBA{A: 255})

	_, y := position(elem, config.Rule{}, canvas)
	if y != 950 {
		t.Errorf("y = %d, want 950 (vertically centered)", y)
	}
}

func TestResizeNativeSizeWithoutPercentages(t *testing.T) {
	canvas := config.Template{Width: 1000, Height: 2000, SafeMargin: 10}
	elem := imaging.New(200, 100, color.NRGBA{A: 255})

	out := resizeToRule(elem, config.Rule{}, canvas)
	if out.Bounds().Dx() != 200 || out.Bounds().Dy() != 100 {
		t.Errorf("resized = %dx%d, want native 200x100", out.Bounds().Dx(), out.Bounds().Dy())
	}
}
