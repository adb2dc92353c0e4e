// Package validate checks artwork and compositions against print
// requirements.
//
// Input artwork must be a transparent PNG with enough resolution for a
// 300 DPI print; compositions must match their canvas exactly. Validation
// distinguishes hard failures (wrong format, too small) from warnings
// (opaque PNG that can be converted, missing color profile).
package validate

import (
	"encoding/binary"
	"image/color"
	"image/png"
	"math"
	"os"

	"github.com/onlyonestudio/onlyone/pkg/config"
	"github.com/onlyonestudio/onlyone/pkg/errors"
)

// ImageReport is the outcome of validating one input artwork.
type ImageReport struct {
	Path            string
	Valid           bool
	Width, Height   int
	HasTransparency bool
	// NeedsConversion is set for opaque truecolor PNGs that can be
	// auto-converted to carry an alpha channel.
	NeedsConversion bool
	// DPI is zero when the file carries no physical size metadata; the
	// pixel dimension check applies instead.
	DPI      int
	FileSize int64
	Issues   []string
	Warnings []string
}

func (r *ImageReport) issue(msg string) {
	r.Valid = false
	r.Issues = append(r.Issues, msg)
}

// ValidateImage checks one artwork file against the input requirements.
// A non-nil error means the file could not be inspected at all; requirement
// failures land in the report instead.
func ValidateImage(path string, req config.ImageConfig) (*ImageReport, error) {
	report := &ImageReport{Path: path, Valid: true}

	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "artwork %q", path)
	}
	report.FileSize = info.Size()

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "artwork %q", path)
	}
	defer f.Close()

	cfg, err := png.DecodeConfig(f)
	if err != nil {
		report.issue("not a decodable PNG: " + err.Error())
		return report, nil
	}
	report.Width, report.Height = cfg.Width, cfg.Height

	hasAlpha, convertible := alphaSupport(cfg.ColorModel)
	report.HasTransparency = hasAlpha
	switch {
	case hasAlpha:
	case convertible:
		report.NeedsConversion = true
		report.Warnings = append(report.Warnings, "opaque PNG will be converted to carry an alpha channel")
	default:
		report.issue("color mode does not support transparency")
	}

	// DPI wins when present; otherwise the longest side must clear the
	// pixel minimum.
	if dpi, ok := readDPI(path); ok {
		report.DPI = dpi
		if dpi < req.MinDPI {
			report.issue("image DPI below print minimum")
		}
	} else {
		if max(cfg.Width, cfg.Height) < req.MinDimension {
			report.issue("no DPI metadata and longest side below pixel minimum")
		} else {
			report.Warnings = append(report.Warnings, "no DPI metadata, accepted on pixel dimensions")
		}
	}

	if req.MaxFileSize > 0 && report.FileSize > req.MaxFileSize {
		report.issue("file exceeds upload size limit")
	}

	return report, nil
}

// alphaSupport classifies a decoded color model: hasAlpha means the file
// already carries transparency, convertible means an opaque mode that can
// gain an alpha channel losslessly.
func alphaSupport(m color.Model) (hasAlpha, convertible bool) {
	switch m {
	case color.NRGBAModel, color.NRGBA64Model, color.AlphaModel, color.Alpha16Model:
		return true, false
	case color.RGBAModel, color.RGBA64Model:
		return false, true
	case color.GrayModel, color.Gray16Model:
		return false, true
	}
	if p, ok := m.(color.Palette); ok {
		for _, c := range p {
			if _, _, _, a := c.RGBA(); a < 0xffff {
				return true, false
			}
		}
		return false, true
	}
	return false, false
}

const metersPerInch = 0.0254

// readDPI extracts the pHYs chunk from a PNG file. The stdlib decoder
// drops physical size metadata, so the chunk is read directly.
func readDPI(path string) (int, bool) {
	data, err := os.ReadFile(path)
	if err != nil || len(data) < 8 {
		return 0, false
	}

	// Skip the signature, then walk chunks: length, type, data, CRC.
	off := 8
	for off+8 <= len(data) {
		length := int(binary.BigEndian.Uint32(data[off : off+4]))
		typ := string(data[off+4 : off+8])
		if typ == "IDAT" || typ == "IEND" {
			return 0, false
		}
		if typ == "pHYs" && length == 9 && off+8+9 <= len(data) {
			ppuX := binary.BigEndian.Uint32(data[off+8 : off+12])
			ppuY := binary.BigEndian.Uint32(data[off+12 : off+16])
			unit := data[off+16]
			if unit != 1 { // not meters, no DPI to derive
				return 0, false
			}
			avg := float64(ppuX+ppuY) / 2
			return int(math.Round(avg * metersPerInch)), true
		}
		off += 8 + length + 4
	}
	return 0, false
}
