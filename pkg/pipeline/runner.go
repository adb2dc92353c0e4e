package pipeline

import (
	"context"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/onlyonestudio/onlyone/pkg/compose"
	"github.com/onlyonestudio/onlyone/pkg/config"
	"github.com/onlyonestudio/onlyone/pkg/errors"
	"github.com/onlyonestudio/onlyone/pkg/ledger"
	"github.com/onlyonestudio/onlyone/pkg/printful"
	"github.com/onlyonestudio/onlyone/pkg/product"
	"github.com/onlyonestudio/onlyone/pkg/render"
	"github.com/onlyonestudio/onlyone/pkg/slug"
	"github.com/onlyonestudio/onlyone/pkg/validate"
)

// Uploader pushes print files to a public host.
type Uploader interface {
	Upload(ctx context.Context, path, title string) (string, error)
}

// Marketplace creates and publishes store products.
type Marketplace interface {
	CatalogVariants(ctx context.Context, productID int) ([]printful.CatalogVariant, error)
	CreateSyncProduct(ctx context.Context, req *printful.SyncProductRequest) (*printful.SyncProduct, error)
	Publish(ctx context.Context, id int64) error
}

// Runner executes the drop workflow. Uploader and Marketplace may be nil
// for runs that never publish.
type Runner struct {
	Config      *config.Config
	Ledger      *ledger.Ledger
	Uploader    Uploader
	Marketplace Marketplace
	Logger      *log.Logger

	renderer  *render.Renderer
	composer  *compose.Composer
	darkText  color.Color
	lightText color.Color
}

// NewRunner wires a runner from its collaborators. The curved-text
// renderer is built from the configured font; a missing font file falls
// back to the embedded one.
func NewRunner(cfg *config.Config, led *ledger.Ledger, up Uploader, market Marketplace, logger *log.Logger) (*Runner, error) {
	if logger == nil {
		logger = log.Default()
	}

	settings := render.DefaultSettings(cfg.Font.Path)
	settings.FontSize = cfg.Font.Size
	settings.Curve = cfg.Font.Curve
	settings.Tracking = cfg.Font.Tracking
	settings.VerticalOffset = cfg.Font.VerticalOffset
	renderer, err := render.NewRenderer(settings)
	if err != nil {
		return nil, fmt.Errorf("title renderer: %w", err)
	}
	if renderer.FontSource() != render.FontSourcePath {
		logger.Warn("configured font not found, using fallback",
			"path", cfg.Font.Path, "source", renderer.FontSource())
	}

	dark, err := config.ParseHexColor(cfg.Colors.DarkText)
	if err != nil {
		return nil, err
	}
	light, err := config.ParseHexColor(cfg.Colors.LightText)
	if err != nil {
		return nil, err
	}

	return &Runner{
		Config:      cfg,
		Ledger:      led,
		Uploader:    up,
		Marketplace: market,
		Logger:      logger,
		renderer:    renderer,
		composer:    compose.New(cfg),
		darkText:    dark,
		lightText:   light,
	}, nil
}

// Execute runs the workflow over every image in the options.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if opts.OutputDir == "" {
		opts.OutputDir = r.Config.Assets.ArtifactsDir
	}
	if opts.TitlesDir == "" {
		opts.TitlesDir = r.Config.Assets.TitlesDir
	}
	if opts.Publishes() {
		if r.Uploader == nil || r.Marketplace == nil {
			return nil, fmt.Errorf("complete mode needs an uploader and a marketplace client")
		}
		if r.Ledger == nil {
			return nil, fmt.Errorf("complete mode needs a ledger")
		}
	}

	result := &Result{}
	for i, path := range opts.Images {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if i > 0 && opts.Pause > 0 {
			select {
			case <-ctx.Done():
				return result, ctx.Err()
			case <-time.After(opts.Pause):
			}
		}

		img := r.processImage(ctx, opts, path, &result.Stats)
		result.Images = append(result.Images, img)
		switch {
		case img.Skipped:
			result.Stats.Skipped++
		case img.Failed():
			result.Stats.Failed++
			opts.Logger.Error("image failed", "path", filepath.Base(path), "err", img.Err)
		default:
			result.Stats.Processed++
		}
	}

	opts.Logger.Info("run finished",
		"mode", opts.Mode,
		"processed", result.Stats.Processed,
		"failed", result.Stats.Failed,
		"skipped", result.Stats.Skipped)
	return result, nil
}

func (r *Runner) processImage(ctx context.Context, opts Options, path string, stats *Stats) *ImageResult {
	start := time.Now()
	s := slug.Generate(filepath.Base(path))
	res := &ImageResult{
		Path:  path,
		Slug:  s,
		Title: slug.Title(s),
		URLs:  make(map[compose.Variant]string),
	}
	defer func() { res.Duration = time.Since(start) }()

	if err := errors.ValidateSlug(s); err != nil {
		res.Err = err
		return res
	}

	// Published products are final, a re-run never touches them.
	if opts.Publishes() {
		if entry, err := r.Ledger.Get(ctx, s); err == nil && entry.Status == ledger.StatusPublished {
			res.Skipped = true
			return res
		}
	}

	// Stage 1: input validation
	validateStart := time.Now()
	report, err := validate.ValidateImage(path, r.Config.Image)
	stats.ValidateTime += time.Since(validateStart)
	if err != nil {
		res.Err = err
		return res
	}
	res.Validation = report
	if !report.Valid {
		res.Err = errors.New(errors.ErrCodeInvalidImage, "input rejected: %s", strings.Join(report.Issues, "; "))
		return res
	}
	opts.Logger.Info("validated input",
		"slug", s,
		"size", fmt.Sprintf("%dx%d", report.Width, report.Height),
		"duration", time.Since(validateStart))

	if !opts.Composes() {
		return res
	}

	productDir := filepath.Join(opts.OutputDir, s)
	if err := os.MkdirAll(productDir, 0755); err != nil {
		res.Err = fmt.Errorf("creating %q: %w", productDir, err)
		return res
	}
	cleaned, err := validate.CleanBorder(path, r.Config.Image.BorderThreshold, filepath.Join(productDir, s+"_artwork.png"))
	if err != nil {
		res.Err = fmt.Errorf("border cleanup: %w", err)
		return res
	}
	res.CleanedPath = cleaned

	// Stage 2: curved titles
	renderStart := time.Now()
	titles, err := r.renderer.RenderTitle(res.Title, opts.TitlesDir, r.darkText, r.lightText)
	stats.RenderTime += time.Since(renderStart)
	if err != nil {
		res.Err = fmt.Errorf("titles: %w", err)
		return res
	}
	res.Titles = titles
	opts.Logger.Info("rendered titles", "slug", s, "duration", time.Since(renderStart))

	// Stage 3: compositions
	composeStart := time.Now()
	assets := compose.Assets{
		TitleDark:     titles.DarkPath,
		TitleLight:    titles.LightPath,
		WordmarkDark:  r.Config.Assets.WordmarkDark,
		WordmarkLight: r.Config.Assets.WordmarkLight,
		LogoDark:      r.Config.Assets.LogoDark,
		LogoLight:     r.Config.Assets.LogoLight,
	}
	variants, err := r.composer.CreateAllVariants(s, cleaned, assets, opts.OutputDir)
	stats.ComposeTime += time.Since(composeStart)
	if err != nil {
		res.Err = fmt.Errorf("compose: %w", err)
		return res
	}
	res.Variants = variants
	if variants.Produced() == 0 {
		res.Err = errors.New(errors.ErrCodeInternal, "no variants produced for %q", s)
		return res
	}
	opts.Logger.Info("composed variants",
		"slug", s,
		"produced", variants.Produced(),
		"duration", time.Since(composeStart))

	// Stage 4: QA
	if !opts.SkipQA {
		qaStart := time.Now()
		compositions := make(map[string]string, len(compose.AllVariants))
		for _, v := range compose.AllVariants {
			compositions[string(v)] = variants.Path(v)
		}
		qa := validate.RunQA(r.Config, s, cleaned, compositions)
		res.QA = qa
		if reportPath, err := validate.SaveReport(qa, opts.OutputDir); err == nil {
			res.QAReportPath = reportPath
		}
		stats.QATime += time.Since(qaStart)
		opts.Logger.Info("ran QA",
			"slug", s,
			"score", qa.Score,
			"valid", qa.Valid,
			"duration", time.Since(qaStart))

		if !qa.Valid && opts.Publishes() {
			res.Err = errors.New(errors.ErrCodeInvalidImage, "QA failed for %q (%d issues), not publishing", s, qa.Issues)
			return res
		}
	}

	if !opts.Publishes() {
		return res
	}
	if err := r.publish(ctx, opts, res, stats); err != nil {
		res.Err = err
	}
	return res
}

// uploadBrandAsset pushes a shared wordmark or logo. These are optional
// extras in the ledger, so a missing file or failed upload only warns.
func (r *Runner) uploadBrandAsset(ctx context.Context, opts Options, path, title string) string {
	if path == "" {
		return ""
	}
	url, err := r.Uploader.Upload(ctx, path, title)
	if err != nil {
		opts.Logger.Warn("brand asset upload failed", "asset", title, "err", err)
		return ""
	}
	return url
}

// publish uploads the print files and creates the marketplace products.
func (r *Runner) publish(ctx context.Context, opts Options, res *ImageResult, stats *Stats) error {
	s := res.Slug

	if _, err := r.Ledger.Get(ctx, s); errors.Is(err, errors.ErrCodeEntryNotFound) {
		if _, err := r.Ledger.CreateDraft(ctx, s, res.Title); err != nil {
			return fmt.Errorf("ledger draft: %w", err)
		}
	}

	// Stage 5: uploads
	uploadStart := time.Now()
	artworkURL, err := r.Uploader.Upload(ctx, res.CleanedPath, s+"_artwork")
	if err != nil {
		return fmt.Errorf("uploading artwork: %w", err)
	}
	res.ArtworkURL = artworkURL

	titleDarkURL, err := r.Uploader.Upload(ctx, res.Titles.DarkPath, s+"_title_dark")
	if err != nil {
		return fmt.Errorf("uploading dark title: %w", err)
	}
	titleLightURL, err := r.Uploader.Upload(ctx, res.Titles.LightPath, s+"_title_light")
	if err != nil {
		return fmt.Errorf("uploading light title: %w", err)
	}

	// Shared brand assets, same URL for every product in the drop.
	tooDarkURL := r.uploadBrandAsset(ctx, opts, r.Config.Assets.WordmarkDark, "wordmark_dark")
	tooLightURL := r.uploadBrandAsset(ctx, opts, r.Config.Assets.WordmarkLight, "wordmark_light")

	for _, v := range compose.AllVariants {
		path := res.Variants.Path(v)
		if path == "" {
			continue
		}
		url, err := r.Uploader.Upload(ctx, path, fmt.Sprintf("%s_%s", s, v))
		if err != nil {
			return fmt.Errorf("uploading %s: %w", v, err)
		}
		res.URLs[v] = url
	}
	uploaded := len(res.URLs) + 3
	for _, url := range []string{tooDarkURL, tooLightURL} {
		if url != "" {
			uploaded++
		}
	}
	stats.UploadTime += time.Since(uploadStart)
	opts.Logger.Info("uploaded print files",
		"slug", s,
		"count", uploaded,
		"duration", time.Since(uploadStart))

	if err := r.Ledger.SetAssetURLs(ctx, s, ledger.AssetURLs{
		Artwork:    artworkURL,
		TitleDark:  titleDarkURL,
		TitleLight: titleLightURL,
		TooDark:    tooDarkURL,
		TooLight:   tooLightURL,
	}); err != nil {
		return fmt.Errorf("ledger assets: %w", err)
	}
	if err := r.Ledger.SetCompositionURLs(ctx, s, ledger.CompositionURLs{
		FrontLight:  res.URLs[compose.VariantFrontLight],
		FrontDark:   res.URLs[compose.VariantFrontDark],
		Back:        res.URLs[compose.VariantBack],
		SleeveDark:  res.URLs[compose.VariantSleeveDark],
		SleeveLight: res.URLs[compose.VariantSleeveLight],
	}); err != nil {
		return fmt.Errorf("ledger compositions: %w", err)
	}

	// Stage 6: marketplace products
	publishStart := time.Now()
	files := product.Files{
		FrontLight:  res.URLs[compose.VariantFrontLight],
		FrontDark:   res.URLs[compose.VariantFrontDark],
		Back:        res.URLs[compose.VariantBack],
		SleeveDark:  res.URLs[compose.VariantSleeveDark],
		SleeveLight: res.URLs[compose.VariantSleeveLight],
	}
	for _, ptype := range opts.ProductTypes {
		builder, err := product.New(r.Config, ptype)
		if err != nil {
			return err
		}
		catalog, err := r.Marketplace.CatalogVariants(ctx, builder.Definition().CatalogID)
		if err != nil {
			return fmt.Errorf("%s catalog: %w", ptype, err)
		}
		req, err := builder.Request(res.Title, catalog, opts.Colors, files)
		if err != nil {
			return fmt.Errorf("%s request: %w", ptype, err)
		}
		created, err := r.Marketplace.CreateSyncProduct(ctx, req)
		if err != nil {
			return fmt.Errorf("creating %s: %w", ptype, err)
		}
		if err := r.Marketplace.Publish(ctx, created.ID); err != nil {
			return fmt.Errorf("publishing %s %d: %w", ptype, created.ID, err)
		}
		res.Products = append(res.Products, ProductOutcome{
			Type:     ptype,
			ID:       created.ID,
			Name:     req.SyncProduct.Name,
			Variants: len(req.SyncVariants),
		})
		opts.Logger.Info("created product",
			"slug", s,
			"type", ptype,
			"id", created.ID,
			"variants", len(req.SyncVariants))

		// The ledger records the first garment of the lineup.
		if len(res.Products) == 1 {
			pub := builder.Publication(strconv.FormatInt(created.ID, 10), opts.Colors)
			if err := r.Ledger.MarkPublished(ctx, s, pub); err != nil {
				return fmt.Errorf("ledger publish: %w", err)
			}
		}
	}
	stats.PublishTime += time.Since(publishStart)
	return nil
}
