package validate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"

	"github.com/onlyonestudio/onlyone/pkg/config"
	"github.com/onlyonestudio/onlyone/pkg/errors"
)

// Analysis captures the characteristics of an artwork that drive layout
// quality scoring.
type Analysis struct {
	Path            string  `json:"path"`
	Width           int     `json:"width"`
	Height          int     `json:"height"`
	AspectRatio     float64 `json:"aspect_ratio"`
	Orientation     string  `json:"orientation"`
	HasTransparency bool    `json:"has_transparency"`
	Complexity      string  `json:"complexity"`
	Brightness      float64 `json:"brightness"`
	FileSizeMB      float64 `json:"file_size_mb"`
}

// Analyze inspects an artwork for orientation, color complexity, and
// brightness. Complexity follows per-channel variance: flat art scores low,
// detailed art high.
func Analyze(path string) (*Analysis, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "artwork %q", path)
	}

	img, err := imaging.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidImage, err, "decoding %q", path)
	}
	nrgba := imaging.Clone(img)
	b := nrgba.Bounds()

	a := &Analysis{
		Path:       path,
		Width:      b.Dx(),
		Height:     b.Dy(),
		FileSizeMB: float64(info.Size()) / (1024 * 1024),
	}
	if a.Height > 0 {
		a.AspectRatio = float64(a.Width) / float64(a.Height)
	}
	switch {
	case a.AspectRatio > 1.3:
		a.Orientation = "horizontal"
	case a.AspectRatio < 0.7:
		a.Orientation = "vertical"
	default:
		a.Orientation = "square"
	}

	var sum, sumSq [3]float64
	n := float64(a.Width * a.Height)
	for y := 0; y < a.Height; y++ {
		for x := 0; x < a.Width; x++ {
			off := nrgba.PixOffset(x, y)
			for c := 0; c < 3; c++ {
				v := float64(nrgba.Pix[off+c])
				sum[c] += v
				sumSq[c] += v * v
			}
			if nrgba.Pix[off+3] < 255 {
				a.HasTransparency = true
			}
		}
	}

	var variance, brightness float64
	for c := 0; c < 3; c++ {
		mean := sum[c] / n
		variance += sumSq[c]/n - mean*mean
		brightness += mean
	}
	variance /= 3
	a.Brightness = brightness / 3

	switch {
	case variance < 1000:
		a.Complexity = "low"
	case variance < 5000:
		a.Complexity = "medium"
	default:
		a.Complexity = "high"
	}

	return a, nil
}

// CanvasCheck is the compliance result for one composition file.
type CanvasCheck struct {
	Path     string   `json:"path"`
	Canvas   string   `json:"canvas"`
	Valid    bool     `json:"valid"`
	Issues   []string `json:"issues,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// CheckComposition verifies that a composition matches its canvas exactly
// and stays inside upload limits. Content bleeding into the safe margin is
// a warning, not a failure: clamping already guarantees placement, so
// margin content means an oversized element that was pinned deliberately.
func CheckComposition(path, canvasName string, t config.Template) *CanvasCheck {
	check := &CanvasCheck{Path: path, Canvas: canvasName, Valid: true}

	info, err := os.Stat(path)
	if err != nil {
		check.Valid = false
		check.Issues = append(check.Issues, "composition file not found")
		return check
	}

	img, err := imaging.Open(path)
	if err != nil {
		check.Valid = false
		check.Issues = append(check.Issues, "composition not decodable: "+err.Error())
		return check
	}
	b := img.Bounds()
	if b.Dx() != t.Width || b.Dy() != t.Height {
		check.Valid = false
		check.Issues = append(check.Issues, fmt.Sprintf("canvas %dx%d, expected %dx%d", b.Dx(), b.Dy(), t.Width, t.Height))
	}

	sizeMB := float64(info.Size()) / (1024 * 1024)
	if sizeMB > 200 {
		check.Valid = false
		check.Issues = append(check.Issues, fmt.Sprintf("file %.1fMB exceeds the 200MB upload limit", sizeMB))
	} else if sizeMB > 50 {
		check.Warnings = append(check.Warnings, fmt.Sprintf("large file (%.1fMB), uploads will be slow", sizeMB))
	}

	if check.Valid && borderOpaque(imaging.Clone(img), t.SafeMargin) {
		check.Warnings = append(check.Warnings, "content detected inside the safe margin")
	}

	return check
}

// Report is the full QA outcome for one product.
type Report struct {
	Slug            string                  `json:"slug"`
	Timestamp       time.Time               `json:"timestamp"`
	Valid           bool                    `json:"valid"`
	Score           float64                 `json:"score"`
	LayoutScore     int                     `json:"layout_score"`
	Artwork         *Analysis               `json:"artwork"`
	Checks          map[string]*CanvasCheck `json:"checks"`
	Issues          int                     `json:"issues"`
	Warnings        int                     `json:"warnings"`
	Recommendations []string                `json:"recommendations,omitempty"`
}

// RunQA validates a product's artwork and every produced composition, then
// scores the layout. Compositions map variant names to file paths; empty
// paths are skipped.
func RunQA(cfg *config.Config, productSlug, artworkPath string, compositions map[string]string) *Report {
	report := &Report{
		Slug:      productSlug,
		Timestamp: time.Now(),
		Valid:     true,
		Checks:    make(map[string]*CanvasCheck),
	}

	artwork, err := Analyze(artworkPath)
	if err != nil {
		report.Valid = false
		report.Issues++
		return report
	}
	report.Artwork = artwork

	for name, path := range compositions {
		if path == "" {
			continue
		}
		canvasName, t := "main", cfg.Canvas.Main
		if strings.Contains(name, "sleeve") {
			canvasName, t = "sleeve", cfg.Canvas.Sleeve
		}
		check := CheckComposition(path, canvasName, t)
		report.Checks[name] = check
		if !check.Valid {
			report.Valid = false
		}
		report.Issues += len(check.Issues)
		report.Warnings += len(check.Warnings)
	}

	report.LayoutScore = layoutScore(artwork)
	if report.LayoutScore < 50 {
		report.Valid = false
		report.Issues++
	}
	switch {
	case artwork.AspectRatio > 2.0:
		report.Recommendations = append(report.Recommendations, "very wide artwork compresses heavily on the front, consider a center crop")
	case artwork.AspectRatio > 0 && artwork.AspectRatio < 0.3:
		report.Recommendations = append(report.Recommendations, "very tall artwork leaves empty side space, consider resizing")
	}
	if artwork.Complexity == "high" {
		report.Recommendations = append(report.Recommendations, "busy artwork can reduce title legibility")
	}

	// Overall score averages the layout score with per-composition scores
	// (100 when valid, minus 5 per warning).
	scores := []float64{float64(report.LayoutScore)}
	for _, check := range report.Checks {
		s := 0.0
		if check.Valid {
			s = 100 - float64(len(check.Warnings))*5
		}
		scores = append(scores, max(s, 0))
	}
	var total float64
	for _, s := range scores {
		total += s
	}
	report.Score = total / float64(len(scores))

	return report
}

// layoutScore rates how well an artwork suits the vertical canvas layout.
func layoutScore(a *Analysis) int {
	score := 0

	switch {
	case a.Orientation == "vertical" || a.Orientation == "square":
		score += 25
	case a.Orientation == "horizontal" && a.AspectRatio < 1.8:
		score += 15
	}

	switch a.Complexity {
	case "medium":
		score += 25
	case "low", "high":
		score += 15
	default:
		score += 5
	}

	switch {
	case a.FileSizeMB < 10:
		score += 25
	case a.FileSizeMB < 50:
		score += 15
	default:
		score += 5
	}

	if a.HasTransparency {
		score += 25
	} else {
		score += 10
	}

	return score
}

// SaveReport writes a QA report as JSON under outputDir/{slug}/.
func SaveReport(report *Report, outputDir string) (string, error) {
	dir := filepath.Join(outputDir, report.Slug)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "creating report dir %q", dir)
	}

	name := fmt.Sprintf("%s_qa_report_%s.json", report.Slug, report.Timestamp.Format("20060102_150405"))
	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "encoding QA report")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "writing %q", path)
	}
	return path, nil
}
