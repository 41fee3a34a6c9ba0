package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultYear is used when a file name carries no four-digit year.
const DefaultYear = 2020

var yearPattern = regexp.MustCompile(`\d{4}`)

// FileReader reads every file with extension Ext (default ".txt") in Dir.
type FileReader struct {
	Dir string
	Ext string
}

// Entries creates Dir when it does not exist and lists matching regular files
// sorted by name. An empty listing returns ErrNoDocuments.
func (r *FileReader) Entries(_ context.Context) ([]Entry, error) {
	if err := os.MkdirAll(r.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", r.Dir, err)
	}

	dirEntries, err := os.ReadDir(r.Dir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", r.Dir, err)
	}

	ext := r.Ext
	if ext == "" {
		ext = ".txt"
	}

	var names []string
	for _, de := range dirEntries {
		if !de.Type().IsRegular() || filepath.Ext(de.Name()) != ext {
			continue
		}
		names = append(names, de.Name())
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no %s files in %s", ErrNoDocuments, ext, r.Dir)
	}
	sort.Strings(names)

	entries := make([]Entry, len(names))
	for i, name := range names {
		path := filepath.Join(r.Dir, name)
		entries[i] = Entry{
			ID: name,
			Load: func(_ context.Context) (Document, error) {
				data, err := os.ReadFile(path)
				if err != nil {
					return Document{}, fmt.Errorf("reading %s: %w", name, err)
				}
				return FileDocument(name, string(data)), nil
			},
		}
	}
	return entries, nil
}

// FileDocument derives document metadata from a file name: the first run of
// four digits in the stem is the year, and the stem with underscores turned
// into spaces, title-cased, is the title.
func FileDocument(name, text string) Document {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	return Document{
		Year:      yearFromName(stem),
		Title:     titleFromStem(stem),
		SourceURL: "file://" + name,
		Text:      text,
	}
}

func yearFromName(stem string) int {
	m := yearPattern.FindString(stem)
	if m == "" {
		return DefaultYear
	}
	y, err := strconv.Atoi(m)
	if err != nil {
		return DefaultYear
	}
	return y
}

func titleFromStem(stem string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(stem, "_", " "))
}
