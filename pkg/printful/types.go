package printful

// File attaches one print file URL to a placement on a garment.
type File struct {
	URL       string `json:"url"`
	Placement string `json:"placement"`
}

// Standard placements used by the drop layouts.
const (
	PlacementFront       = "front"
	PlacementBack        = "back"
	PlacementLeftSleeve  = "sleeve_left"
	PlacementRightSleeve = "sleeve_right"
)

// SyncVariant binds a catalog variant to its retail price and print files.
type SyncVariant struct {
	ID          int64  `json:"id,omitempty"`
	VariantID   int64  `json:"variant_id"`
	RetailPrice string `json:"retail_price"`
	Files       []File `json:"files"`
}

// SyncProductInfo is the store-facing product listing.
type SyncProductInfo struct {
	Name      string `json:"name"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

// SyncProductRequest creates or replaces a store product with all its
// variants in one call.
type SyncProductRequest struct {
	SyncProduct  SyncProductInfo `json:"sync_product"`
	SyncVariants []SyncVariant   `json:"sync_variants"`
}

// SyncProduct is a product as the store reports it.
type SyncProduct struct {
	ID           int64  `json:"id"`
	ExternalID   string `json:"external_id"`
	Name         string `json:"name"`
	Thumbnail    string `json:"thumbnail_url"`
	VariantCount int    `json:"variants"`
	Synced       int    `json:"synced"`
}

// CatalogVariant is one color/size combination of a catalog product.
type CatalogVariant struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Size  string `json:"size"`
	Color string `json:"color"`
	Price string `json:"price"`
}

// StoreInfo identifies the connected store.
type StoreInfo struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}
