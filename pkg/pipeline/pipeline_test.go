package pipeline

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/onlyonestudio/onlyone/pkg/config"
	"github.com/onlyonestudio/onlyone/pkg/ledger"
	"github.com/onlyonestudio/onlyone/pkg/printful"
)

// Small canvases keep composition fast; the geometry is exercised by the
// compose package tests.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.Canvas.Main = config.Template{Width: 300, Height: 400, DPI: 300, SafeMargin: 5}
	cfg.Canvas.Sleeve = config.Template{Width: 100, Height: 400, DPI: 300, SafeMargin: 5}
	cfg.Image.MinDimension = 64
	cfg.Assets.TitlesDir = filepath.Join(dir, "titles")
	cfg.Assets.ArtifactsDir = filepath.Join(dir, "artifacts")
	cfg.Assets.WordmarkDark = writeArtwork(t, "too_dark.png", 32)
	cfg.Assets.WordmarkLight = writeArtwork(t, "too_light.png", 32)
	cfg.Ledger.CSVPath = filepath.Join(dir, "tracking.csv")
	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return cfg
}

func writeArtwork(t *testing.T, name string, size int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 7), G: uint8(y * 5), B: 90, A: 255})
		}
	}
	// A transparent corner keeps the alpha channel in the encoded file.
	img.SetNRGBA(0, 0, color.NRGBA{})

	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

type fakeUploader struct {
	mu      sync.Mutex
	uploads []string
}

func (f *fakeUploader) Upload(ctx context.Context, path, title string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads = append(f.uploads, title)
	return "https://cdn.example.com/" + title + ".png", nil
}

type fakeMarket struct {
	created    []*printful.SyncProductRequest
	published  []int64
	failCreate bool
}

func (f *fakeMarket) CatalogVariants(ctx context.Context, productID int) ([]printful.CatalogVariant, error) {
	return []printful.CatalogVariant{
		{ID: 4011, Color: "Black", Size: "S"},
		{ID: 4012, Color: "Black", Size: "M"},
		{ID: 4021, Color: "White", Size: "S"},
		{ID: 4022, Color: "White", Size: "M"},
	}, nil
}

func (f *fakeMarket) CreateSyncProduct(ctx context.Context, req *printful.SyncProductRequest) (*printful.SyncProduct, error) {
	if f.failCreate {
		return nil, fmt.Errorf("store rejected the product")
	}
	f.created = append(f.created, req)
	return &printful.SyncProduct{ID: int64(900 + len(f.created)), Name: req.SyncProduct.Name}, nil
}

func (f *fakeMarket) Publish(ctx context.Context, id int64) error {
	f.published = append(f.published, id)
	return nil
}

func newTestRunner(t *testing.T, cfg *config.Config, up Uploader, market Marketplace) (*Runner, *ledger.Ledger) {
	t.Helper()
	store, err := ledger.NewCSVStore(cfg.Ledger.CSVPath)
	if err != nil {
		t.Fatal(err)
	}
	led := ledger.New(store)
	r, err := NewRunner(cfg, led, up, market, nil)
	if err != nil {
		t.Fatalf("NewRunner error: %v", err)
	}
	return r, led
}

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	o := &Options{Mode: "deploy", Images: []string{"a.png"}}
	if err := o.ValidateAndSetDefaults(); err == nil {
		t.Error("unknown mode should fail")
	}

	o = &Options{Mode: ModeBatch}
	if err := o.ValidateAndSetDefaults(); err == nil {
		t.Error("empty image list should fail")
	}

	o = &Options{Images: []string{"a.png", "b.png"}}
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if o.Mode != ModeTest {
		t.Errorf("default mode = %q", o.Mode)
	}
	if len(o.Images) != 1 {
		t.Errorf("test mode should keep one image, got %d", len(o.Images))
	}
	if len(o.ProductTypes) != 1 || o.ProductTypes[0] != "tshirt" {
		t.Errorf("default product types = %v", o.ProductTypes)
	}
	if o.Pause != 0 {
		t.Errorf("local run should not pause, got %v", o.Pause)
	}

	o = &Options{Mode: ModeComplete, Images: []string{"a.png"}}
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if o.Pause != DefaultPause {
		t.Errorf("publishing pause = %v, want %v", o.Pause, DefaultPause)
	}

	o = &Options{Images: []string{"a.png"}}
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if o.Logger == nil {
		t.Error("logger default missing")
	}
}

func TestExecuteValidateMode(t *testing.T) {
	cfg := testConfig(t)
	r, _ := newTestRunner(t, cfg, nil, nil)

	good := writeArtwork(t, "Opera Uno.png", 128)
	small := writeArtwork(t, "Troppo Piccola.png", 16)

	result, err := r.Execute(context.Background(), Options{
		Mode:   ModeValidate,
		Images: []string{good, small},
	})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if result.Stats.Processed != 1 || result.Stats.Failed != 1 {
		t.Errorf("stats = %+v", result.Stats)
	}
	if result.Images[0].Validation == nil || !result.Images[0].Validation.Valid {
		t.Error("good image should validate")
	}
	if result.Images[0].Titles != nil {
		t.Error("validate mode should not render titles")
	}
	if !result.Images[1].Failed() {
		t.Error("undersized image should fail")
	}
}

func TestExecuteTestModeProcessesLocally(t *testing.T) {
	cfg := testConfig(t)
	r, _ := newTestRunner(t, cfg, nil, nil)

	art := writeArtwork(t, "Opera Uno.png", 128)
	result, err := r.Execute(context.Background(), Options{
		Mode:   ModeTest,
		Images: []string{art},
	})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	img := result.Images[0]
	if img.Failed() {
		t.Fatalf("image failed: %v", img.Err)
	}
	if img.Slug != "opera-uno" {
		t.Errorf("slug = %q", img.Slug)
	}
	if img.Titles == nil {
		t.Fatal("titles missing")
	}
	if _, err := os.Stat(img.Titles.DarkPath); err != nil {
		t.Errorf("dark title not on disk: %v", err)
	}
	if img.Variants == nil || img.Variants.Produced() < 3 {
		t.Errorf("variants = %+v", img.Variants)
	}
	if img.QA == nil {
		t.Error("QA report missing")
	}
	if img.QAReportPath == "" {
		t.Error("QA report not saved")
	}
	if len(img.URLs) != 0 || len(img.Products) != 0 {
		t.Error("test mode should never upload or publish")
	}
}

func TestExecuteCompleteMode(t *testing.T) {
	cfg := testConfig(t)
	up := &fakeUploader{}
	market := &fakeMarket{}
	r, led := newTestRunner(t, cfg, up, market)

	art := writeArtwork(t, "Opera Uno.png", 128)
	opts := Options{
		Mode:   ModeComplete,
		Images: []string{art},
		SkipQA: true,
	}
	result, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	img := result.Images[0]
	if img.Failed() {
		t.Fatalf("image failed: %v", img.Err)
	}
	if img.ArtworkURL == "" || len(img.URLs) < 3 {
		t.Errorf("upload URLs missing: %+v", img.URLs)
	}
	// Artwork, two titles, two wordmarks, and the produced variants
	if len(up.uploads) != len(img.URLs)+5 {
		t.Errorf("uploaded %d files, want %d", len(up.uploads), len(img.URLs)+5)
	}

	if len(img.Products) != 1 || img.Products[0].Type != "tshirt" {
		t.Fatalf("products = %+v", img.Products)
	}
	if len(market.created) != 1 || len(market.created[0].SyncVariants) != 4 {
		t.Errorf("created requests = %+v", market.created)
	}
	if len(market.published) != 1 || market.published[0] != img.Products[0].ID {
		t.Errorf("published = %v", market.published)
	}

	entry, err := led.Get(context.Background(), "opera-uno")
	if err != nil {
		t.Fatal(err)
	}
	if entry.Status != ledger.StatusPublished {
		t.Errorf("ledger status = %q", entry.Status)
	}
	if entry.ArtworkURL == "" || entry.BackURL == "" {
		t.Errorf("ledger URLs not recorded: %+v", entry)
	}
	if entry.TooDarkURL == "" || entry.TooLightURL == "" {
		t.Errorf("wordmark URLs not recorded: %+v", entry)
	}

	// A second run leaves the published product alone
	result, err = r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if result.Stats.Skipped != 1 || !result.Images[0].Skipped {
		t.Errorf("re-run stats = %+v", result.Stats)
	}
	if len(market.created) != 1 {
		t.Error("re-run should not create another product")
	}
}

func TestExecuteCompleteRequiresClients(t *testing.T) {
	cfg := testConfig(t)
	r, _ := newTestRunner(t, cfg, nil, nil)

	_, err := r.Execute(context.Background(), Options{
		Mode:   ModeComplete,
		Images: []string{"a.png"},
	})
	if err == nil {
		t.Error("complete mode without clients should fail")
	}
}

func TestExecuteContainsMarketplaceFailure(t *testing.T) {
	cfg := testConfig(t)
	up := &fakeUploader{}
	market := &fakeMarket{failCreate: true}
	r, led := newTestRunner(t, cfg, up, market)

	art := writeArtwork(t, "Opera Uno.png", 128)
	result, err := r.Execute(context.Background(), Options{
		Mode:   ModeComplete,
		Images: []string{art},
		SkipQA: true,
	})
	if err != nil {
		t.Fatalf("batch should survive a product failure: %v", err)
	}
	if result.Stats.Failed != 1 {
		t.Errorf("stats = %+v", result.Stats)
	}

	// The draft with its uploads survives for a retry
	entry, err := led.Get(context.Background(), "opera-uno")
	if err != nil {
		t.Fatal(err)
	}
	if entry.Status != ledger.StatusDraft || entry.ArtworkURL == "" {
		t.Errorf("entry after failure = %+v", entry)
	}
}
