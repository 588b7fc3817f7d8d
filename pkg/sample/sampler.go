package sample

import (
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/okriens/mirrormate/pkg/models"
)

// DefaultCap is the maximum file count a sample reports before the scan
// terminates early. The count is a cheap safety heuristic, not an
// inventory; the cap keeps the pre-flight check fast on huge trees.
const DefaultCap = 100

// errCapReached terminates the walk once the cap is hit
var errCapReached = errors.New("sampling cap reached")

// Sampler estimates the number of regular files under a directory
type Sampler struct {
	// Cap bounds the reported count; zero means DefaultCap
	Cap int
}

// New returns a sampler with the default cap
func New() *Sampler {
	return &Sampler{Cap: DefaultCap}
}

// Sample walks root counting regular files, stopping at the cap.
// A missing or empty root yields {0, false}: that is a legitimate
// result the caller interprets, never an error. Entries that cannot
// be read (permissions, races) are skipped silently.
func (s *Sampler) Sample(root string) models.SamplingResult {
	limit := s.Cap
	if limit <= 0 {
		limit = DefaultCap
	}

	result := models.SamplingResult{}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Unreadable entries do not affect the count
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		result.Count++
		if result.Count >= limit {
			result.Truncated = true
			return errCapReached
		}
		return nil
	})

	if err != nil && !errors.Is(err, errCapReached) {
		// Walk errors past the root callback are already swallowed above;
		// anything else means the root itself was unreadable, which
		// reports as zero files
		return models.SamplingResult{}
	}

	return result
}
