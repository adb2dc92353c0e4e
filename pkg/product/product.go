// Package product assembles marketplace products from uploaded print files.
//
// A builder pairs a catalog garment with the drop's composition URLs and
// produces the sync-product request the store API expects. Garment color
// decides which composition goes on the front: light garments wear the
// dark-element composition and dark garments wear the light one.
package product

import (
	"strings"

	"github.com/onlyonestudio/onlyone/pkg/config"
	"github.com/onlyonestudio/onlyone/pkg/errors"
	"github.com/onlyonestudio/onlyone/pkg/ledger"
	"github.com/onlyonestudio/onlyone/pkg/printful"
)

// Definition describes one supported garment type.
type Definition struct {
	Type      string
	CatalogID int
	Model     string
	Label     string
	// SleevePlacement is empty for garments whose print areas do not
	// include sleeves.
	SleevePlacement string
	DefaultColors   []string
}

var definitions = map[string]Definition{
	"tshirt": {
		Type:            "tshirt",
		CatalogID:       71,
		Model:           "Bella + Canvas 3001",
		Label:           "T-Shirt",
		SleevePlacement: printful.PlacementLeftSleeve,
		DefaultColors:   []string{"Black", "White"},
	},
	"hoodie": {
		Type:          "hoodie",
		CatalogID:     146,
		Model:         "Gildan 18500",
		Label:         "Hoodie",
		DefaultColors: []string{"Black", "White"},
	},
}

// Types lists the supported garment types.
func Types() []string {
	return []string{"tshirt", "hoodie"}
}

// Files holds the public URLs of a drop's uploaded compositions. Empty
// fields mean the composition was skipped.
type Files struct {
	FrontLight  string
	FrontDark   string
	Back        string
	SleeveLight string
	SleeveDark  string
}

// Builder assembles sync products for one garment type.
type Builder struct {
	cfg *config.Config
	def Definition
}

// New returns a builder for the named garment type.
func New(cfg *config.Config, productType string) (*Builder, error) {
	def, ok := definitions[productType]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown product type %q (want one of %s)", productType, strings.Join(Types(), ", "))
	}
	return &Builder{cfg: cfg, def: def}, nil
}

// Definition returns the garment definition the builder works with.
func (b *Builder) Definition() Definition { return b.def }

// AssetSet maps a garment color to the element set printed on it. Light
// garments take the dark-element set and dark garments the light one.
func (b *Builder) AssetSet(color string) (string, error) {
	switch {
	case b.cfg.IsLightColor(color):
		return "light", nil
	case b.cfg.IsDarkColor(color):
		return "dark", nil
	default:
		return "", errors.New(errors.ErrCodeInvalidInput, "garment color %q is in neither the light nor the dark set", color)
	}
}

// PrintFiles builds the placement list for one garment color. The front
// file follows the color's asset set, the back is shared, and the sleeve
// carries the logo that contrasts with the garment.
func (b *Builder) PrintFiles(color string, files Files) ([]printful.File, error) {
	set, err := b.AssetSet(color)
	if err != nil {
		return nil, err
	}

	front := files.FrontDark
	sleeve := files.SleeveLight
	if set == "light" {
		front = files.FrontLight
		sleeve = files.SleeveDark
	}
	if front == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no front composition uploaded for %s garments", set)
	}
	if files.Back == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no back composition uploaded")
	}

	out := []printful.File{
		{URL: front, Placement: printful.PlacementFront},
		{URL: files.Back, Placement: printful.PlacementBack},
	}
	if b.def.SleevePlacement != "" && sleeve != "" {
		out = append(out, printful.File{URL: sleeve, Placement: b.def.SleevePlacement})
	}
	return out, nil
}

// Variants filters the catalog down to the requested colors and the
// configured size run, attaching print files and the retail price. Colors
// outside the light/dark sets are skipped rather than failing the drop.
func (b *Builder) Variants(catalog []printful.CatalogVariant, colors []string, files Files) ([]printful.SyncVariant, error) {
	if len(colors) == 0 {
		colors = b.def.DefaultColors
	}

	wantColor := make(map[string]bool, len(colors))
	for _, c := range colors {
		wantColor[strings.ToLower(c)] = true
	}
	wantSize := make(map[string]bool, len(b.cfg.Business.Sizes))
	for _, s := range b.cfg.Business.Sizes {
		wantSize[strings.ToUpper(s)] = true
	}

	printFiles := make(map[string][]printful.File)
	var variants []printful.SyncVariant
	for _, cv := range catalog {
		if !wantColor[strings.ToLower(cv.Color)] || !wantSize[strings.ToUpper(cv.Size)] {
			continue
		}

		pf, ok := printFiles[cv.Color]
		if !ok {
			if _, err := b.AssetSet(cv.Color); err != nil {
				// Unmapped catalog color, skip rather than fail the drop.
				continue
			}
			var err error
			pf, err = b.PrintFiles(cv.Color, files)
			if err != nil {
				return nil, err
			}
			printFiles[cv.Color] = pf
		}

		variants = append(variants, printful.SyncVariant{
			VariantID:   cv.ID,
			RetailPrice: b.cfg.Business.Price,
			Files:       pf,
		})
	}

	if len(variants) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no catalog variants match colors %v and sizes %v", colors, b.cfg.Business.Sizes)
	}
	return variants, nil
}

// Name renders the store listing name for a title.
func (b *Builder) Name(title string) string {
	return expand(b.cfg.Business.TitleTemplate, title) + " — " + b.def.Label
}

// Description renders the store listing description for a title.
func (b *Builder) Description(title string) string {
	return expand(b.cfg.Business.DescriptionTemplate, title)
}

func expand(template, title string) string {
	return strings.ReplaceAll(template, "{title}", title)
}

// Request assembles the full sync-product request for a drop.
func (b *Builder) Request(title string, catalog []printful.CatalogVariant, colors []string, files Files) (*printful.SyncProductRequest, error) {
	variants, err := b.Variants(catalog, colors, files)
	if err != nil {
		return nil, err
	}
	return &printful.SyncProductRequest{
		SyncProduct:  printful.SyncProductInfo{Name: b.Name(title)},
		SyncVariants: variants,
	}, nil
}

// Publication derives the ledger record for a created product. Colors are
// split into their light and dark sets so the ledger mirrors which
// composition each garment received.
func (b *Builder) Publication(productID string, colors []string) ledger.Publication {
	if len(colors) == 0 {
		colors = b.def.DefaultColors
	}
	var light, dark []string
	for _, c := range colors {
		switch {
		case b.cfg.IsLightColor(c):
			light = append(light, c)
		case b.cfg.IsDarkColor(c):
			dark = append(dark, c)
		}
	}
	return ledger.Publication{
		ProductType: b.def.Type,
		ProductID:   productID,
		Price:       b.cfg.Business.Price,
		ColorsLight: strings.Join(light, ","),
		ColorsDark:  strings.Join(dark, ","),
		Sizes:       strings.Join(b.cfg.Business.Sizes, ","),
	}
}
