package render

import (
	"os"
	"path/filepath"

	"github.com/flopp/go-findfont"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/onlyonestudio/onlyone/pkg/errors"
)

// Font sources, in resolution order.
const (
	FontSourcePath     = "path"
	FontSourceSystem   = "system"
	FontSourceEmbedded = "embedded"
)

// loadFont resolves a typeface with a three-step fallback:
// the configured file, a system font with the same filename, and finally
// the embedded Go Regular face so rendering never hard-fails on a missing
// font file.
func loadFont(path string) (*truetype.Font, string, error) {
	if path != "" {
		if data, err := os.ReadFile(path); err == nil {
			f, err := truetype.Parse(data)
			if err != nil {
				return nil, "", errors.Wrap(errors.ErrCodeInvalidConfig, err, "parsing font %q", path)
			}
			return f, FontSourcePath, nil
		}

		if sysPath, err := findfont.Find(filepath.Base(path)); err == nil {
			if data, err := os.ReadFile(sysPath); err == nil {
				if f, err := truetype.Parse(data); err == nil {
					return f, FontSourceSystem, nil
				}
			}
		}
	}

	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeInternal, err, "parsing embedded font")
	}
	return f, FontSourceEmbedded, nil
}
