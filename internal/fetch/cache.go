package fetch

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/devdiv-tools/jobdumper/internal/model"
)

// Cache stores the last-known-good raw records for each keyword on disk,
// both for replay/debugging and as the fallback when every retry for a
// keyword is exhausted.
type Cache struct {
	dir string
}

// NewCache returns a cache rooted at dir. The directory is created on first
// store.
func NewCache(dir string) *Cache {
	return &Cache{dir: dir}
}

// path returns the cache file for a keyword: the decoded keyword text, with
// quotes stripped, plus ".json".
func (c *Cache) path(keyword string) string {
	decoded, err := url.QueryUnescape(keyword)
	if err != nil {
		decoded = keyword
	}
	decoded = strings.ReplaceAll(decoded, `"`, "")
	return filepath.Join(c.dir, decoded+".json")
}

// Store writes the keyword's records as a {"jobs":[...]} document, matching
// the shape carved out of the upstream response.
func (c *Cache) Store(keyword string, records []model.RawRecord) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}

	doc := struct {
		Jobs []model.RawRecord `json:"jobs"`
	}{Jobs: records}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding cache for keyword %q: %w", keyword, err)
	}
	if err := os.WriteFile(c.path(keyword), data, 0o644); err != nil {
		return fmt.Errorf("writing cache for keyword %q: %w", keyword, err)
	}
	return nil
}

// Load reads the keyword's cached records. A missing file surfaces as an
// error so the caller can distinguish "no fallback available".
func (c *Cache) Load(keyword string) ([]model.RawRecord, error) {
	data, err := os.ReadFile(c.path(keyword))
	if err != nil {
		return nil, fmt.Errorf("reading cache for keyword %q: %w", keyword, err)
	}

	var doc struct {
		Jobs []model.RawRecord `json:"jobs"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding cache for keyword %q: %w", keyword, err)
	}
	return doc.Jobs, nil
}
