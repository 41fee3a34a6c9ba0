package source

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

//go:embed letters.toml
var defaultCatalog []byte

// CatalogEntry names one remote PDF to import.
type CatalogEntry struct {
	Year  int    `toml:"year"`
	Title string `toml:"title"`
	URL   string `toml:"url"`
}

type catalogFile struct {
	Letters []CatalogEntry `toml:"letters"`
}

// LoadCatalog reads a TOML catalog from path. An empty path returns the
// built-in list of shareholder letters.
func LoadCatalog(path string) ([]CatalogEntry, error) {
	if path == "" {
		return ParseCatalog(defaultCatalog)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	entries, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return entries, nil
}

// ParseCatalog decodes a catalog and rejects entries without a title or url.
func ParseCatalog(data []byte) ([]CatalogEntry, error) {
	var f catalogFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	for i, e := range f.Letters {
		if e.URL == "" {
			return nil, fmt.Errorf("entry %d: url is required", i+1)
		}
		if e.Title == "" {
			return nil, fmt.Errorf("entry %d: title is required", i+1)
		}
	}
	if len(f.Letters) == 0 {
		return nil, ErrNoDocuments
	}
	return f.Letters, nil
}
