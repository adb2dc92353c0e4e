// Package config holds the studio configuration: canvas templates, layout
// rules, garment color mapping, fonts, asset paths, validation thresholds,
// and marketplace credentials.
//
// Configuration is layered: compiled-in defaults cover the standard OnlyOne
// drop setup, an optional TOML file overrides them, and credentials always
// come from the environment so they never land in a config file.
package config

import (
	"fmt"
	"image/color"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/onlyonestudio/onlyone/pkg/errors"
)

// Template describes a print canvas in pixels at a fixed DPI.
type Template struct {
	Width      int `toml:"width"`
	Height     int `toml:"height"`
	DPI        int `toml:"dpi"`
	SafeMargin int `toml:"safe_margin"`
}

// Horizontal alignments for layout rules.
const (
	AlignCenter = "center"
	AlignLeft   = "left"
	AlignRight  = "right"
)

// Rule positions one element on a canvas. At most one of WidthPercent or
// HeightPercent is set; the other dimension follows the element's aspect
// ratio, and neither means the element keeps its native size. TopPercent
// positions the element's top edge relative to canvas height; when unset
// the element is vertically centered. Align places the element
// horizontally: centered by default, or inset 10% from the named edge.
type Rule struct {
	WidthPercent  float64  `toml:"width_percent"`
	HeightPercent float64  `toml:"height_percent"`
	TopPercent    *float64 `toml:"top_percent"`
	Align         string   `toml:"align"`
}

// CanvasConfig holds the two print canvases.
type CanvasConfig struct {
	Main   Template `toml:"main"`
	Sleeve Template `toml:"sleeve"`
}

// LayoutConfig holds the placement rules for each print area.
type LayoutConfig struct {
	Front  FrontLayout  `toml:"front"`
	Back   BackLayout   `toml:"back"`
	Sleeve SleeveLayout `toml:"sleeve"`
}

// FrontLayout stacks artwork, curved title, and wordmark on the front canvas.
type FrontLayout struct {
	MainImage Rule `toml:"main_image"`
	Title     Rule `toml:"title"`
	Wordmark  Rule `toml:"wordmark"`
}

// BackLayout places the artwork large and centered.
type BackLayout struct {
	MainImage Rule `toml:"main_image"`
}

// SleeveLayout places the logo on the narrow sleeve canvas.
type SleeveLayout struct {
	Logo Rule `toml:"logo"`
}

// ColorConfig maps garment colors to the element set that contrasts with
// them. Light garments get dark elements and vice versa.
type ColorConfig struct {
	Light     []string `toml:"light"`
	Dark      []string `toml:"dark"`
	DarkText  string   `toml:"dark_text"`
	LightText string   `toml:"light_text"`
}

// FontConfig controls the curved title renderer. Tracking is extra letter
// spacing as a fraction of the font size; VerticalOffset shifts the arc
// center down to balance the raster inside its canvas.
type FontConfig struct {
	Path           string  `toml:"path"`
	Size           float64 `toml:"size"`
	Curve          float64 `toml:"curve"`
	Tracking       float64 `toml:"tracking"`
	VerticalOffset float64 `toml:"vertical_offset"`
}

// AssetConfig holds the directory layout for inputs and outputs.
type AssetConfig struct {
	UpscaledDir   string `toml:"upscaled_dir"`
	TitlesDir     string `toml:"titles_dir"`
	ArtifactsDir  string `toml:"artifacts_dir"`
	WordmarkDark  string `toml:"wordmark_dark"`
	WordmarkLight string `toml:"wordmark_light"`
	LogoDark      string `toml:"logo_dark"`
	LogoLight     string `toml:"logo_light"`
}

// ImageConfig holds input image requirements.
type ImageConfig struct {
	MinDPI          int   `toml:"min_dpi"`
	MinDimension    int   `toml:"min_dimension"`
	MaxFileSize     int64 `toml:"max_file_size"`
	BorderThreshold int   `toml:"border_threshold"`
}

// QAConfig holds composition quality thresholds.
type QAConfig struct {
	MaxScalingPercent  float64 `toml:"max_scaling_percent"`
	MinContrastRatio   float64 `toml:"min_contrast_ratio"`
	AlignmentTolerance int     `toml:"alignment_tolerance"`
	MinQualityScore    int     `toml:"min_quality_score"`
}

// CacheConfig selects the upload memo backend. A Redis address switches
// shared batch runs to the Redis backend; otherwise the on-disk cache is
// used. The password comes from the environment, like other credentials.
type CacheConfig struct {
	RedisAddr     string `toml:"redis_addr"`
	RedisDB       int    `toml:"redis_db"`
	RedisPassword string `toml:"-"`
}

// LedgerConfig holds the tracking ledger location.
type LedgerConfig struct {
	CSVPath  string `toml:"csv_path"`
	MongoURI string `toml:"mongo_uri"`
	MongoDB  string `toml:"mongo_db"`
}

// PrintfulConfig holds marketplace settings. The API key and store ID are
// resolved from the environment, never from TOML.
type PrintfulConfig struct {
	BaseURL   string `toml:"base_url"`
	APIKey    string `toml:"-"`
	StoreID   string `toml:"-"`
	RateLimit int    `toml:"rate_limit"`
	RatePause int    `toml:"rate_pause"`
}

// ImageHostConfig holds image host settings. The client ID comes from the
// environment.
type ImageHostConfig struct {
	BaseURL  string `toml:"base_url"`
	ClientID string `toml:"-"`
}

// BusinessConfig holds pricing and copy templates.
type BusinessConfig struct {
	Price               string   `toml:"price"`
	Brand               string   `toml:"brand"`
	Sizes               []string `toml:"sizes"`
	TitleTemplate       string   `toml:"title_template"`
	DescriptionTemplate string   `toml:"description_template"`
}

// Config is the full studio configuration.
type Config struct {
	Canvas    CanvasConfig    `toml:"canvas"`
	Layout    LayoutConfig    `toml:"layout"`
	Colors    ColorConfig     `toml:"colors"`
	Font      FontConfig      `toml:"font"`
	Assets    AssetConfig     `toml:"assets"`
	Image     ImageConfig     `toml:"image"`
	QA        QAConfig        `toml:"qa"`
	Cache     CacheConfig     `toml:"cache"`
	Ledger    LedgerConfig    `toml:"ledger"`
	Printful  PrintfulConfig  `toml:"printful"`
	ImageHost ImageHostConfig `toml:"imagehost"`
	Business  BusinessConfig  `toml:"business"`
}

// Load reads a TOML config file on top of the defaults and resolves
// credentials from the environment. An empty path returns defaults only.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "reading config file %q", path)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parsing config file %q", path)
		}
	}

	cfg.Printful.APIKey = os.Getenv("PRINTFUL_API_KEY")
	cfg.Printful.StoreID = os.Getenv("PRINTFUL_STORE_ID")
	cfg.ImageHost.ClientID = os.Getenv("IMGBB_CLIENT_ID")
	cfg.Cache.RedisPassword = os.Getenv("REDIS_PASSWORD")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks structural invariants: positive canvas dimensions, rules
// inside [0,100], and parseable contrast colors. Credentials are validated
// by the clients that need them, so offline runs work without any.
func (c *Config) Validate() error {
	for name, t := range map[string]Template{"main": c.Canvas.Main, "sleeve": c.Canvas.Sleeve} {
		if t.Width <= 0 || t.Height <= 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "canvas %q has non-positive dimensions (%dx%d)", name, t.Width, t.Height)
		}
		if t.SafeMargin < 0 || t.SafeMargin*2 >= t.Width || t.SafeMargin*2 >= t.Height {
			return errors.New(errors.ErrCodeInvalidConfig, "canvas %q safe margin %d leaves no printable area", name, t.SafeMargin)
		}
	}

	rules := map[string]Rule{
		"front.main_image": c.Layout.Front.MainImage,
		"front.title":      c.Layout.Front.Title,
		"front.wordmark":   c.Layout.Front.Wordmark,
		"back.main_image":  c.Layout.Back.MainImage,
		"sleeve.logo":      c.Layout.Sleeve.Logo,
	}
	for name, r := range rules {
		if err := validateRule(name, r); err != nil {
			return err
		}
	}

	if _, err := ParseHexColor(c.Colors.DarkText); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "colors.dark_text")
	}
	if _, err := ParseHexColor(c.Colors.LightText); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "colors.light_text")
	}

	if c.Font.Size <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "font.size must be positive, got %v", c.Font.Size)
	}

	return nil
}

func validateRule(name string, r Rule) error {
	if r.WidthPercent != 0 && r.HeightPercent != 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "layout rule %q cannot set both width_percent and height_percent", name)
	}
	fields := map[string]float64{"width_percent": r.WidthPercent, "height_percent": r.HeightPercent}
	if r.TopPercent != nil {
		fields["top_percent"] = *r.TopPercent
	}
	for field, v := range fields {
		if v < 0 || v > 100 {
			return errors.New(errors.ErrCodeInvalidConfig, "layout rule %q: %s %v outside [0, 100]", name, field, v)
		}
	}
	switch r.Align {
	case "", AlignCenter, AlignLeft, AlignRight:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "layout rule %q: unknown align %q", name, r.Align)
	}
	return nil
}

// IsLightColor reports whether a garment color name belongs to the light
// set. Matching is case-insensitive on the configured names.
func (c *Config) IsLightColor(name string) bool {
	for _, l := range c.Colors.Light {
		if strings.EqualFold(l, name) {
			return true
		}
	}
	return false
}

// IsDarkColor reports whether a garment color name belongs to the dark set.
func (c *Config) IsDarkColor(name string) bool {
	for _, d := range c.Colors.Dark {
		if strings.EqualFold(d, name) {
			return true
		}
	}
	return false
}

// ParseHexColor parses a #RRGGBB hex string into an opaque color.
func ParseHexColor(s string) (color.NRGBA, error) {
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil || len(s) != 7 {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q (want #RRGGBB)", s)
	}
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}
