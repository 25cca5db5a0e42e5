package democatalog

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/oceanridge/coverage-engine/internal/coverage/model"
)

// Catalogue implements model.Catalogue by trawling a directory for
// *.json descriptor files, in the spirit of a directory-walking discovery
// pass over a batch of data files rather than a database-backed listing.
type Catalogue struct {
	dir string
}

// Open returns a Catalogue rooted at dir. dir is not scanned until
// Descriptors is called.
func Open(dir string) *Catalogue {
	return &Catalogue{dir: dir}
}

// Descriptors scans the catalogue directory for *.json files and parses
// each as a descriptor, sorted by ID for determinism.
func (c *Catalogue) Descriptors() ([]model.Descriptor, error) {
	matches, err := filepath.Glob(filepath.Join(c.dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("democatalog: failed to glob %q: %w", c.dir, err)
	}

	out := make([]model.Descriptor, 0, len(matches))
	for _, path := range matches {
		d, err := parseDescriptorFile(c.dir, path)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}
