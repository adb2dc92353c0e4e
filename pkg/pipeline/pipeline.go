// Package pipeline runs the full drop workflow for a batch of artworks.
//
// Each artwork moves through validate -> titles -> compose -> QA, and in
// complete mode continues through upload -> product creation -> ledger.
// The Runner centralizes this so the CLI and any automation share one
// implementation.
//
// Failures are contained per image: a bad artwork marks its own result
// failed and the batch moves on.
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/onlyonestudio/onlyone/pkg/compose"
	"github.com/onlyonestudio/onlyone/pkg/render"
	"github.com/onlyonestudio/onlyone/pkg/validate"
)

// Pipeline modes, ordered by how far they take each artwork.
const (
	// ModeValidate only checks input requirements.
	ModeValidate = "validate"
	// ModeTest processes a single artwork locally, without touching the
	// image host or the marketplace.
	ModeTest = "test"
	// ModeBatch processes every artwork locally.
	ModeBatch = "batch"
	// ModeComplete runs the full workflow through upload and publication.
	ModeComplete = "complete"
)

// ValidModes is the set of supported pipeline modes.
var ValidModes = map[string]bool{
	ModeValidate: true,
	ModeTest:     true,
	ModeBatch:    true,
	ModeComplete: true,
}

// DefaultProductTypes is the garment lineup for a standard drop.
var DefaultProductTypes = []string{"tshirt"}

// DefaultPause is the wait between images in publishing runs.
const DefaultPause = 2 * time.Second

// Options configures one pipeline run.
type Options struct {
	Mode   string
	Images []string

	// OutputDir and TitlesDir default to the configured asset directories.
	OutputDir string
	TitlesDir string

	// ProductTypes and Colors only matter in complete mode. Empty values
	// take the drop defaults.
	ProductTypes []string
	Colors       []string

	// SkipQA drops the scoring stage, composition checks included.
	SkipQA bool

	// Pause spaces out consecutive images. Publishing runs default to
	// DefaultPause to stay friendly with the upload host.
	Pause time.Duration

	Logger *log.Logger

	validated bool
}

// ValidateAndSetDefaults checks required fields and fills in defaults.
// Idempotent, later calls are no-ops.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Mode == "" {
		o.Mode = ModeTest
	}
	if !ValidModes[o.Mode] {
		return fmt.Errorf("invalid mode: %q (must be one of: validate, test, batch, complete)", o.Mode)
	}
	if len(o.Images) == 0 {
		return fmt.Errorf("at least one image is required")
	}
	if o.Mode == ModeTest && len(o.Images) > 1 {
		o.Images = o.Images[:1]
	}
	if len(o.ProductTypes) == 0 {
		o.ProductTypes = DefaultProductTypes
	}
	if o.Pause == 0 && o.Publishes() {
		o.Pause = DefaultPause
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Publishes reports whether this run talks to the image host and the
// marketplace.
func (o *Options) Publishes() bool {
	return o.Mode == ModeComplete
}

// Composes reports whether this run produces titles and compositions.
func (o *Options) Composes() bool {
	return o.Mode != ModeValidate
}

// ProductOutcome records one created marketplace product.
type ProductOutcome struct {
	Type     string
	ID       int64
	Name     string
	Variants int
}

// ImageResult is the full outcome of processing one artwork.
type ImageResult struct {
	Path  string
	Slug  string
	Title string

	Validation   *validate.ImageReport
	CleanedPath  string
	Titles       *render.TitleSet
	Variants     *compose.VariantSet
	QA           *validate.Report
	QAReportPath string

	// URLs maps produced variants to their public locations after upload.
	URLs       map[compose.Variant]string
	ArtworkURL string
	Products   []ProductOutcome

	// Skipped is set when the product is already published and the run
	// leaves it alone.
	Skipped bool

	Duration time.Duration
	Err      error
}

// Failed reports whether the image's workflow stopped on an error.
func (r *ImageResult) Failed() bool { return r.Err != nil }

// Stats aggregates timing and counts across a run.
type Stats struct {
	Processed int
	Failed    int
	Skipped   int

	ValidateTime time.Duration
	RenderTime   time.Duration
	ComposeTime  time.Duration
	QATime       time.Duration
	UploadTime   time.Duration
	PublishTime  time.Duration
}

// Result is the outcome of a whole run.
type Result struct {
	Images []*ImageResult
	Stats  Stats
}
