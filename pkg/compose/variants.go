package compose

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/onlyonestudio/onlyone/pkg/errors"
)

// Variant identifies one of the five print files per product.
// Light garments carry dark elements and vice versa; the back is the same
// on every color.
type Variant string

const (
	VariantFrontLight  Variant = "front_light"
	VariantFrontDark   Variant = "front_dark"
	VariantBack        Variant = "back"
	VariantSleeveDark  Variant = "sleeve_dark"
	VariantSleeveLight Variant = "sleeve_light"
)

// AllVariants lists every variant in composition order.
var AllVariants = []Variant{
	VariantFrontLight, VariantFrontDark, VariantBack,
	VariantSleeveDark, VariantSleeveLight,
}

// Assets holds the contrast element paths feeding a product's variants.
// Empty paths skip the variants that need them.
type Assets struct {
	TitleDark     string
	TitleLight    string
	WordmarkDark  string
	WordmarkLight string
	LogoDark      string
	LogoLight     string
}

// VariantSet is the outcome of composing one product.
// Every variant has an entry; a nil Result means it was skipped or failed,
// with the failure recorded in Errors.
type VariantSet struct {
	Slug    string
	Results map[Variant]*Result
	Errors  map[Variant]error
}

// Produced counts the variants that were actually written.
func (s *VariantSet) Produced() int {
	n := 0
	for _, r := range s.Results {
		if r != nil {
			n++
		}
	}
	return n
}

// Path returns the output path for a variant, or "" if it was not produced.
func (s *VariantSet) Path(v Variant) string {
	if r := s.Results[v]; r != nil {
		return r.Path
	}
	return ""
}

// CreateAllVariants composes every variant for a product into
// outputDir/{slug}/. Variants whose contrast assets are missing are
// skipped rather than failing the set; per-variant errors are collected so
// a partial set still ships the variants that worked.
func (c *Composer) CreateAllVariants(productSlug, artworkPath string, assets Assets, outputDir string) (*VariantSet, error) {
	if err := errors.ValidateSlug(productSlug); err != nil {
		return nil, err
	}

	productDir := filepath.Join(outputDir, productSlug)
	if err := os.MkdirAll(productDir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "creating product dir %q", productDir)
	}

	set := &VariantSet{
		Slug:    productSlug,
		Results: make(map[Variant]*Result, len(AllVariants)),
		Errors:  make(map[Variant]error),
	}
	for _, v := range AllVariants {
		set.Results[v] = nil
	}

	out := func(v Variant) string {
		return filepath.Join(productDir, fmt.Sprintf("%s_%s.png", productSlug, v))
	}
	record := func(v Variant, r *Result, err error) {
		if err != nil {
			set.Errors[v] = err
			return
		}
		set.Results[v] = r
	}

	// Light garments take dark elements
	if assets.TitleDark != "" && assets.WordmarkDark != "" {
		r, err := c.ComposeFront(artworkPath, assets.TitleDark, assets.WordmarkDark, out(VariantFrontLight))
		record(VariantFrontLight, r, err)
	}

	// Dark garments take light elements
	if assets.TitleLight != "" && assets.WordmarkLight != "" {
		r, err := c.ComposeFront(artworkPath, assets.TitleLight, assets.WordmarkLight, out(VariantFrontDark))
		record(VariantFrontDark, r, err)
	}

	r, err := c.ComposeBack(artworkPath, out(VariantBack))
	record(VariantBack, r, err)

	if assets.LogoDark != "" {
		r, err := c.ComposeSleeve(assets.LogoDark, out(VariantSleeveDark))
		record(VariantSleeveDark, r, err)
	}
	if assets.LogoLight != "" {
		r, err := c.ComposeSleeve(assets.LogoLight, out(VariantSleeveLight))
		record(VariantSleeveLight, r, err)
	}

	return set, nil
}
