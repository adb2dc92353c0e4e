package ledger

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/onlyonestudio/onlyone/pkg/errors"
)

// columns is the canonical CSV schema, one column per Entry field.
var columns = []string{
	"slug", "artwork_url", "title", "title_dark_url", "title_light_url",
	"too_dark_url", "too_light_url", "front_light_url", "front_dark_url",
	"back_url", "sleeve_dark_url", "sleeve_light_url", "product_type",
	"colors_light", "colors_dark", "sizes", "price", "product_id",
	"store_url", "status", "timestamp",
}

// CSVStore keeps the ledger in a flat CSV file, loaded fully into memory
// and rewritten on every mutation. Files written by older schema versions
// are migrated on load: known columns are read by name, missing ones start
// empty.
type CSVStore struct {
	path string

	mu      sync.Mutex
	entries []*Entry
	index   map[string]int
}

// NewCSVStore opens or creates the tracking file.
func NewCSVStore(path string) (*CSVStore, error) {
	s := &CSVStore{path: path, index: make(map[string]int)}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *CSVStore) load() error {
	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "opening ledger %q", s.path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "reading ledger %q", s.path)
	}
	if len(records) == 0 {
		return nil
	}

	// Column positions come from the file's own header, so files from
	// older schemas still load.
	pos := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		pos[name] = i
	}
	field := func(rec []string, name string) string {
		if i, ok := pos[name]; ok && i < len(rec) {
			return rec[i]
		}
		return ""
	}

	for _, rec := range records[1:] {
		e := &Entry{
			Slug:           field(rec, "slug"),
			ArtworkURL:     field(rec, "artwork_url"),
			Title:          field(rec, "title"),
			TitleDarkURL:   field(rec, "title_dark_url"),
			TitleLightURL:  field(rec, "title_light_url"),
			TooDarkURL:     field(rec, "too_dark_url"),
			TooLightURL:    field(rec, "too_light_url"),
			FrontLightURL:  field(rec, "front_light_url"),
			FrontDarkURL:   field(rec, "front_dark_url"),
			BackURL:        field(rec, "back_url"),
			SleeveDarkURL:  field(rec, "sleeve_dark_url"),
			SleeveLightURL: field(rec, "sleeve_light_url"),
			ProductType:    field(rec, "product_type"),
			ColorsLight:    field(rec, "colors_light"),
			ColorsDark:     field(rec, "colors_dark"),
			Sizes:          field(rec, "sizes"),
			Price:          field(rec, "price"),
			ProductID:      field(rec, "product_id"),
			StoreURL:       field(rec, "store_url"),
			Status:         Status(field(rec, "status")),
		}
		if e.Slug == "" {
			continue
		}
		if ts := field(rec, "timestamp"); ts != "" {
			if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
				e.Timestamp = parsed
			}
		}
		s.index[e.Slug] = len(s.entries)
		s.entries = append(s.entries, e)
	}
	return nil
}

// flush rewrites the whole file under the canonical schema.
// The caller holds the mutex.
func (s *CSVStore) flush() error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "creating ledger dir %q", dir)
		}
	}

	f, err := os.Create(s.path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "writing ledger %q", s.path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "writing ledger header")
	}
	for _, e := range s.entries {
		ts := ""
		if !e.Timestamp.IsZero() {
			ts = e.Timestamp.Format(time.RFC3339)
		}
		rec := []string{
			e.Slug, e.ArtworkURL, e.Title, e.TitleDarkURL, e.TitleLightURL,
			e.TooDarkURL, e.TooLightURL, e.FrontLightURL, e.FrontDarkURL,
			e.BackURL, e.SleeveDarkURL, e.SleeveLightURL, e.ProductType,
			e.ColorsLight, e.ColorsDark, e.Sizes, e.Price, e.ProductID,
			e.StoreURL, string(e.Status), ts,
		}
		if err := w.Write(rec); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "writing ledger row %q", e.Slug)
		}
	}
	w.Flush()
	return w.Error()
}

// Create adds a new entry. Duplicate slugs are rejected.
func (s *CSVStore) Create(ctx context.Context, e *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.index[e.Slug]; exists {
		return errors.New(errors.ErrCodeInvalidInput, "entry already exists for slug %q", e.Slug)
	}

	clone := *e
	s.index[e.Slug] = len(s.entries)
	s.entries = append(s.entries, &clone)
	return s.flush()
}

// Get returns a copy of one entry.
func (s *CSVStore) Get(ctx context.Context, slug string) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[slug]
	if !ok {
		return nil, errors.New(errors.ErrCodeEntryNotFound, "no entry for slug %q", slug)
	}
	clone := *s.entries[i]
	return &clone, nil
}

// Update replaces an existing entry.
func (s *CSVStore) Update(ctx context.Context, e *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[e.Slug]
	if !ok {
		return errors.New(errors.ErrCodeEntryNotFound, "no entry for slug %q", e.Slug)
	}
	clone := *e
	s.entries[i] = &clone
	return s.flush()
}

// List returns copies of all entries in insertion order.
func (s *CSVStore) List(ctx context.Context) ([]*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*Entry, len(s.entries))
	for i, e := range s.entries {
		clone := *e
		out[i] = &clone
	}
	return out, nil
}

// Close does nothing; every mutation already hit disk.
func (s *CSVStore) Close() error { return nil }

var _ Store = (*CSVStore)(nil)
