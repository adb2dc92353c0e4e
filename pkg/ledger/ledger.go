// Package ledger tracks every product through the drop lifecycle.
//
// Each product is one Entry keyed by slug, moving draft -> published ->
// archived. The Store interface abstracts persistence:
//   - csv: The flat tracking file shared with spreadsheet tooling
//   - mongo: Shared storage when several operators work the same drop
package ledger

import (
	"context"
	"time"

	"github.com/onlyonestudio/onlyone/pkg/errors"
)

// Status is a product's lifecycle state.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

// Entry is one tracked product. Field order matches the CSV schema.
type Entry struct {
	Slug           string    `bson:"slug"`
	ArtworkURL     string    `bson:"artwork_url"`
	Title          string    `bson:"title"`
	TitleDarkURL   string    `bson:"title_dark_url"`
	TitleLightURL  string    `bson:"title_light_url"`
	TooDarkURL     string    `bson:"too_dark_url"`
	TooLightURL    string    `bson:"too_light_url"`
	FrontLightURL  string    `bson:"front_light_url"`
	FrontDarkURL   string    `bson:"front_dark_url"`
	BackURL        string    `bson:"back_url"`
	SleeveDarkURL  string    `bson:"sleeve_dark_url"`
	SleeveLightURL string    `bson:"sleeve_light_url"`
	ProductType    string    `bson:"product_type"`
	ColorsLight    string    `bson:"colors_light"`
	ColorsDark     string    `bson:"colors_dark"`
	Sizes          string    `bson:"sizes"`
	Price          string    `bson:"price"`
	ProductID      string    `bson:"product_id"`
	StoreURL       string    `bson:"store_url"`
	Status         Status    `bson:"status"`
	Timestamp      time.Time `bson:"timestamp"`
}

// Store persists ledger entries. Create fails on duplicate slugs; Get and
// Update fail with an entry-not-found error for unknown slugs.
type Store interface {
	Create(ctx context.Context, e *Entry) error
	Get(ctx context.Context, slug string) (*Entry, error)
	Update(ctx context.Context, e *Entry) error
	List(ctx context.Context) ([]*Entry, error)
	Close() error
}

// AssetURLs holds the uploaded locations of a product's standalone assets.
// Empty fields leave the current value untouched.
type AssetURLs struct {
	Artwork    string
	TitleDark  string
	TitleLight string
	TooDark    string
	TooLight   string
}

// CompositionURLs holds the uploaded locations of the five print variants.
// Empty fields leave the current value untouched.
type CompositionURLs struct {
	FrontLight  string
	FrontDark   string
	Back        string
	SleeveDark  string
	SleeveLight string
}

// Publication holds the marketplace data recorded when a product goes live.
type Publication struct {
	ProductType string
	ProductID   string
	StoreURL    string
	Price       string
	ColorsLight string
	ColorsDark  string
	Sizes       string
}

// Ledger layers the lifecycle operations over a Store.
type Ledger struct {
	store Store
}

// New wraps a store.
func New(store Store) *Ledger {
	return &Ledger{store: store}
}

// CreateDraft starts tracking a product. The slug must be new.
func (l *Ledger) CreateDraft(ctx context.Context, productSlug, title string) (*Entry, error) {
	if err := errors.ValidateSlug(productSlug); err != nil {
		return nil, err
	}

	e := &Entry{
		Slug:      productSlug,
		Title:     title,
		Status:    StatusDraft,
		Timestamp: time.Now(),
	}
	if err := l.store.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// SetAssetURLs records uploaded asset locations on an entry.
func (l *Ledger) SetAssetURLs(ctx context.Context, slug string, urls AssetURLs) error {
	e, err := l.store.Get(ctx, slug)
	if err != nil {
		return err
	}

	setIf(&e.ArtworkURL, urls.Artwork)
	setIf(&e.TitleDarkURL, urls.TitleDark)
	setIf(&e.TitleLightURL, urls.TitleLight)
	setIf(&e.TooDarkURL, urls.TooDark)
	setIf(&e.TooLightURL, urls.TooLight)

	return l.store.Update(ctx, e)
}

// SetCompositionURLs records the five variant locations on an entry.
func (l *Ledger) SetCompositionURLs(ctx context.Context, slug string, urls CompositionURLs) error {
	e, err := l.store.Get(ctx, slug)
	if err != nil {
		return err
	}

	setIf(&e.FrontLightURL, urls.FrontLight)
	setIf(&e.FrontDarkURL, urls.FrontDark)
	setIf(&e.BackURL, urls.Back)
	setIf(&e.SleeveDarkURL, urls.SleeveDark)
	setIf(&e.SleeveLightURL, urls.SleeveLight)

	return l.store.Update(ctx, e)
}

// MarkPublished moves a draft to published and records marketplace data.
// Publishing a non-draft is an error: limited editions go live exactly once.
func (l *Ledger) MarkPublished(ctx context.Context, slug string, pub Publication) error {
	e, err := l.store.Get(ctx, slug)
	if err != nil {
		return err
	}
	if e.Status != StatusDraft {
		return errors.New(errors.ErrCodeInvalidInput, "cannot publish %q from status %q", slug, e.Status)
	}

	setIf(&e.ProductType, pub.ProductType)
	setIf(&e.ProductID, pub.ProductID)
	setIf(&e.StoreURL, pub.StoreURL)
	setIf(&e.Price, pub.Price)
	setIf(&e.ColorsLight, pub.ColorsLight)
	setIf(&e.ColorsDark, pub.ColorsDark)
	setIf(&e.Sizes, pub.Sizes)
	e.Status = StatusPublished
	e.Timestamp = time.Now()

	return l.store.Update(ctx, e)
}

// MarkArchived retires a published product, typically after its single
// piece sells.
func (l *Ledger) MarkArchived(ctx context.Context, slug string) error {
	e, err := l.store.Get(ctx, slug)
	if err != nil {
		return err
	}
	if e.Status != StatusPublished {
		return errors.New(errors.ErrCodeInvalidInput, "cannot archive %q from status %q", slug, e.Status)
	}

	e.Status = StatusArchived
	e.Timestamp = time.Now()
	return l.store.Update(ctx, e)
}

// Get returns one entry.
func (l *Ledger) Get(ctx context.Context, slug string) (*Entry, error) {
	return l.store.Get(ctx, slug)
}

// List returns all entries.
func (l *Ledger) List(ctx context.Context) ([]*Entry, error) {
	return l.store.List(ctx)
}

// ListByStatus returns entries in a given state.
func (l *Ledger) ListByStatus(ctx context.Context, status Status) ([]*Entry, error) {
	all, err := l.store.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []*Entry
	for _, e := range all {
		if e.Status == status {
			out = append(out, e)
		}
	}
	return out, nil
}

// Summary aggregates tracking statistics.
type Summary struct {
	Total         int
	ByStatus      map[Status]int
	ByProductType map[string]int
	// AssetsComplete counts entries with every standalone asset uploaded.
	AssetsComplete int
}

// Summarize computes tracking statistics across all entries.
func (l *Ledger) Summarize(ctx context.Context) (*Summary, error) {
	all, err := l.store.List(ctx)
	if err != nil {
		return nil, err
	}

	s := &Summary{
		Total:         len(all),
		ByStatus:      make(map[Status]int),
		ByProductType: make(map[string]int),
	}
	for _, e := range all {
		s.ByStatus[e.Status]++
		if e.ProductType != "" {
			s.ByProductType[e.ProductType]++
		}
		if e.ArtworkURL != "" && e.TitleDarkURL != "" && e.TitleLightURL != "" &&
			e.FrontLightURL != "" && e.FrontDarkURL != "" && e.BackURL != "" {
			s.AssetsComplete++
		}
	}
	return s, nil
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
