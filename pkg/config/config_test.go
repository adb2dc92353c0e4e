package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default() should validate: %v", err)
	}
}

func TestDefaultCanvasDimensions(t *testing.T) {
	cfg := Default()

	if cfg.Canvas.Main.Width != 3600 || cfg.Canvas.Main.Height != 4800 {
		t.Errorf("main canvas = %dx%d, want 3600x4800", cfg.Canvas.Main.Width, cfg.Canvas.Main.Height)
	}
	if cfg.Canvas.Sleeve.Width != 900 || cfg.Canvas.Sleeve.Height != 4200 {
		t.Errorf("sleeve canvas = %dx%d, want 900x4200", cfg.Canvas.Sleeve.Width, cfg.Canvas.Sleeve.Height)
	}
	if cfg.Canvas.Main.SafeMargin != 75 {
		t.Errorf("safe margin = %d, want 75", cfg.Canvas.Main.SafeMargin)
	}
}

func TestLoadMissingFileIsError(t *testing.T) {
	_, err := Load("does/not/exist.toml")
	if err == nil {
		t.Fatal("Load should fail on missing file")
	}
}

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}
	if cfg.Business.Price != "35.00" {
		t.Errorf("price = %q, want 35.00", cfg.Business.Price)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "onlyone.toml")
	content := `
[font]
size = 200
curve = -0.4
vertical_offset = 30

[cache]
redis_addr = "localhost:6379"

[layout.front.title]
width_percent = 60.0
top_percent = 55.0
align = "left"

[business]
price = "42.00"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Font.Size != 200 {
		t.Errorf("font size = %v, want 200 (overridden)", cfg.Font.Size)
	}
	if cfg.Font.Curve != -0.4 {
		t.Errorf("font curve = %v, want -0.4 (overridden)", cfg.Font.Curve)
	}
	if cfg.Font.VerticalOffset != 30 {
		t.Errorf("vertical offset = %v, want 30 (overridden)", cfg.Font.VerticalOffset)
	}
	if cfg.Cache.RedisAddr != "localhost:6379" {
		t.Errorf("redis addr = %q, want localhost:6379", cfg.Cache.RedisAddr)
	}
	if cfg.Layout.Front.Title.Align != AlignLeft {
		t.Errorf("title align = %q, want left", cfg.Layout.Front.Title.Align)
	}
	if cfg.Layout.Front.Title.TopPercent == nil || *cfg.Layout.Front.Title.TopPercent != 55 {
		t.Errorf("title top = %v, want 55", cfg.Layout.Front.Title.TopPercent)
	}
	if cfg.Business.Price != "42.00" {
		t.Errorf("price = %q, want 42.00 (overridden)", cfg.Business.Price)
	}
	// Untouched sections keep defaults
	if cfg.Canvas.Main.Width != 3600 {
		t.Errorf("canvas width = %d, want default 3600", cfg.Canvas.Main.Width)
	}
}

func TestLoadResolvesCredentialsFromEnv(t *testing.T) {
	t.Setenv("PRINTFUL_API_KEY", "pf-key")
	t.Setenv("PRINTFUL_STORE_ID", "12345")
	t.Setenv("IMGBB_CLIENT_ID", "imgbb-id")
	t.Setenv("REDIS_PASSWORD", "redis-pw")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Printful.APIKey != "pf-key" || cfg.Printful.StoreID != "12345" {
		t.Error("Printful credentials should come from environment")
	}
	if cfg.ImageHost.ClientID != "imgbb-id" {
		t.Error("image host client ID should come from environment")
	}
	if cfg.Cache.RedisPassword != "redis-pw" {
		t.Error("redis password should come from environment")
	}
}

func TestValidateRejectsBadCanvas(t *testing.T) {
	cfg := Default()
	cfg.Canvas.Main.Width = 0
	if err := cfg.Validate(); err == nil {
		t.Error("zero-width canvas should fail validation")
	}

	cfg = Default()
	cfg.Canvas.Sleeve.SafeMargin = 500
	if err := cfg.Validate(); err == nil {
		t.Error("margin wider than half the canvas should fail validation")
	}
}

func TestValidateRejectsBadRules(t *testing.T) {
	cfg := Default()
	cfg.Layout.Back.MainImage = Rule{WidthPercent: 80, HeightPercent: 50, TopPercent: pct(50)}
	if err := cfg.Validate(); err == nil {
		t.Error("rule with both dimensions should fail validation")
	}

	cfg = Default()
	cfg.Layout.Sleeve.Logo = Rule{HeightPercent: 120, TopPercent: pct(50)}
	if err := cfg.Validate(); err == nil {
		t.Error("percentage above 100 should fail validation")
	}

	cfg = Default()
	cfg.Layout.Front.Wordmark = Rule{WidthPercent: 25, Align: "top"}
	if err := cfg.Validate(); err == nil {
		t.Error("unknown alignment should fail validation")
	}
}

func TestValidateAllowsNativeSizeRule(t *testing.T) {
	cfg := Default()
	cfg.Layout.Front.Wordmark = Rule{TopPercent: pct(75)}
	if err := cfg.Validate(); err != nil {
		t.Errorf("rule without sizing keeps the element's native size: %v", err)
	}
}

func TestIsLightIsDarkColor(t *testing.T) {
	cfg := Default()

	if !cfg.IsLightColor("White") || !cfg.IsLightColor("white") {
		t.Error("White should be a light color, case-insensitive")
	}
	if !cfg.IsDarkColor("Black") {
		t.Error("Black should be a dark color")
	}
	if cfg.IsLightColor("Black") || cfg.IsDarkColor("White") {
		t.Error("color sets should not overlap")
	}
	if cfg.IsLightColor("Mauve") || cfg.IsDarkColor("Mauve") {
		t.Error("unknown colors belong to neither set")
	}
}

func TestParseHexColor(t *testing.T) {
	got, err := ParseHexColor("#111111")
	if err != nil {
		t.Fatalf("ParseHexColor error: %v", err)
	}
	want := color.NRGBA{R: 0x11, G: 0x11, B: 0x11, A: 255}
	if got != want {
		t.Errorf("ParseHexColor(#111111) = %v, want %v", got, want)
	}

	for _, bad := range []string{"", "111111", "#11", "#GGGGGG", "#1111111"} {
		if _, err := ParseHexColor(bad); err == nil {
			t.Errorf("ParseHexColor(%q) should fail", bad)
		}
	}
}
