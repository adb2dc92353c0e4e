package errors

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

var slugRE = regexp.MustCompile(`^[a-z0-9-]+$`)

// ValidateSlug validates a product slug for safety and correctness.
//
// The validation rules match the slug generator's contract:
//   - Only lowercase letters, digits, and hyphens
//   - No consecutive, leading, or trailing hyphens
//   - Between 3 and 50 characters
func ValidateSlug(slug string) error {
	if slug == "" {
		return New(ErrCodeInvalidSlug, "slug cannot be empty")
	}

	if len(slug) < 3 {
		return New(ErrCodeInvalidSlug, "slug too short (min 3 characters): %q", slug)
	}
	if len(slug) > 50 {
		return New(ErrCodeInvalidSlug, "slug too long (max 50 characters): %q", slug)
	}

	if !slugRE.MatchString(slug) {
		return New(ErrCodeInvalidSlug, "slug contains invalid characters (only a-z, 0-9, -): %q", slug)
	}
	if strings.Contains(slug, "--") {
		return New(ErrCodeInvalidSlug, "slug cannot contain consecutive hyphens: %q", slug)
	}
	if strings.HasPrefix(slug, "-") || strings.HasSuffix(slug, "-") {
		return New(ErrCodeInvalidSlug, "slug cannot start or end with a hyphen: %q", slug)
	}

	return nil
}

// ValidateAssetPath validates a local asset path for safety.
// It prevents path traversal and rejects control characters.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidateAssetPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL parses and has a safe scheme (http or https).
func ValidateURL(raw string) error {
	if raw == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid URL: %q", raw)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return New(ErrCodeInvalidInput, "URL scheme must be http or https: %q", raw)
	}
	if u.Host == "" {
		return New(ErrCodeInvalidInput, "URL missing host: %q", raw)
	}

	return nil
}
