// Package slug converts artwork filenames into URL-safe product slugs and
// derives display titles from them.
//
// "Il Cavallo Spettrale.png" becomes "cavallo-spettrale"; the title read
// back from that slug is "Cavallo Spettrale". Leading Italian articles are
// dropped from slugs, and connecting particles stay lowercase in titles.
package slug

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/onlyonestudio/onlyone/pkg/errors"
)

// Leading articles stripped during slug generation. Trailing space keeps
// "lago" from losing its first two letters to "la ".
var articles = []string{"il ", "la ", "lo ", "gli ", "le ", "un ", "una ", "uno "}

// Particles kept lowercase inside titles (never at the start).
var particles = map[string]bool{
	"del": true, "della": true, "dell": true, "dello": true,
	"dei": true, "degli": true, "delle": true,
	"di": true, "da": true, "in": true, "con": true, "su": true,
	"per": true, "tra": true, "fra": true, "a": true, "e": true,
}

var (
	nonAlnumRE   = regexp.MustCompile(`[^a-z0-9\s]`)
	whitespaceRE = regexp.MustCompile(`\s+`)
	hyphenRunRE  = regexp.MustCompile(`-+`)
)

// stripAccents removes combining marks after NFD decomposition, so "città"
// becomes "citta".
func stripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Generate converts an artwork filename into a kebab-case slug.
// The extension, accents, leading Italian articles, and all punctuation are
// dropped; whitespace collapses to single hyphens.
func Generate(filename string) string {
	name := filename
	if i := strings.LastIndex(name, "."); i > 0 {
		name = name[:i]
	}

	name = strings.ToLower(stripAccents(name))

	for _, article := range articles {
		if strings.HasPrefix(name, article) {
			name = name[len(article):]
			break
		}
	}

	name = nonAlnumRE.ReplaceAllString(name, "")
	s := whitespaceRE.ReplaceAllString(strings.TrimSpace(name), "-")
	s = hyphenRunRE.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// maxTitleWords caps how many slug words make it into a display title.
const maxTitleWords = 4

// Title derives a display title from a slug: hyphens become spaces, each
// word is capitalized except connecting particles, and at most four words
// are kept.
func Title(s string) string {
	words := strings.Split(strings.ReplaceAll(s, "-", " "), " ")
	if len(words) > maxTitleWords {
		words = words[:maxTitleWords]
	}

	out := make([]string, 0, len(words))
	for i, w := range words {
		if w == "" {
			continue
		}
		if i > 0 && particles[strings.ToLower(w)] {
			out = append(out, strings.ToLower(w))
			continue
		}
		out = append(out, capitalize(w))
	}
	return strings.Join(out, " ")
}

func capitalize(w string) string {
	r := []rune(strings.ToLower(w))
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// Unique generates a slug that does not collide with any in taken, adding a
// numeric suffix starting at 2 when needed.
func Unique(filename string, taken map[string]bool) string {
	base := Generate(filename)
	if !taken[base] {
		return base
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s-%d", base, n)
		if !taken[candidate] {
			return candidate
		}
	}
}

// Mapping records one filename's slug assignment in a batch.
type Mapping struct {
	Filename string
	Slug     string
	// Deduped is set when a numeric suffix was added to avoid a collision.
	Deduped bool
}

// Batch generates unique slugs for a list of filenames in order.
// Filenames whose slug fails validation (empty after stripping, too short)
// are returned in the error slice rather than aborting the batch.
func Batch(filenames []string) (mappings []Mapping, invalid []error) {
	taken := make(map[string]bool, len(filenames))

	for _, f := range filenames {
		s := Unique(f, taken)
		if err := errors.ValidateSlug(s); err != nil {
			invalid = append(invalid, errors.Wrap(errors.ErrCodeInvalidSlug, err, "file %q", f))
			continue
		}
		taken[s] = true
		mappings = append(mappings, Mapping{
			Filename: f,
			Slug:     s,
			Deduped:  s != Generate(f),
		})
	}
	return mappings, invalid
}
