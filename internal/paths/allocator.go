package paths

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/amaumene/postarr/internal/models"
)

// ErrExists signals that the target file already exists and the skip mode
// forbids writing it.
var ErrExists = errors.New("file already exists")

// Allocate decides which path an artwork file should be written to, given the
// base filename (e.g. "poster.jpg") and the write mode. The directory is
// re-read on every call so repeated runs see the current disk state.
//
// In add mode the lowest free slot wins: poster.jpg first, then poster-1.jpg,
// poster-2.jpg and so on. A gap left by a deleted file is reused before a new
// number is appended, so numbering stays dense and nothing is overwritten.
func Allocate(fs afero.Fs, dir, filename string, mode models.WriteMode) (string, error) {
	base := filepath.Join(dir, filename)

	switch mode {
	case models.WriteModeOverwrite:
		return base, nil

	case models.WriteModeSkip:
		exists, err := afero.Exists(fs, base)
		if err != nil {
			return "", fmt.Errorf("failed to stat %s: %w", base, err)
		}
		if exists {
			return "", ErrExists
		}
		return base, nil

	case models.WriteModeAdd:
		exists, err := afero.Exists(fs, base)
		if err != nil {
			return "", fmt.Errorf("failed to stat %s: %w", base, err)
		}
		if !exists {
			return base, nil
		}

		ext := filepath.Ext(filename)
		name := strings.TrimSuffix(filename, ext)
		for i := 1; ; i++ {
			candidate := filepath.Join(dir, fmt.Sprintf("%s-%d%s", name, i, ext))
			exists, err := afero.Exists(fs, candidate)
			if err != nil {
				return "", fmt.Errorf("failed to stat %s: %w", candidate, err)
			}
			if !exists {
				return candidate, nil
			}
		}
	}

	return "", fmt.Errorf("unknown write mode %q", mode)
}
