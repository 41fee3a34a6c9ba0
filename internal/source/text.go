package source

import (
	"context"
	"fmt"
)

// TextReader wraps a single in-memory document, such as an upload.
type TextReader struct {
	Doc Document
	ID  string
}

func (r TextReader) Entries(_ context.Context) ([]Entry, error) {
	id := r.ID
	if id == "" {
		id = fmt.Sprintf("%d - %s", r.Doc.Year, r.Doc.Title)
	}
	doc := r.Doc
	return []Entry{{
		ID: id,
		Load: func(_ context.Context) (Document, error) {
			return doc, nil
		},
	}}, nil
}
