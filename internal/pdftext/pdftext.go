// Package pdftext extracts plain text from PDF documents.
package pdftext

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrEmptyInput is returned when Extract is given no bytes.
var ErrEmptyInput = errors.New("pdf data is empty")

// Extractor converts raw document bytes to text.
type Extractor interface {
	Extract(data []byte) (string, error)
}

// PDF is the default Extractor backed by github.com/ledongthuc/pdf.
type PDF struct{}

// Extract implements Extractor.
func (PDF) Extract(data []byte) (string, error) {
	return Extract(data)
}

// Extract returns the plain text of every page, each page followed by a
// newline. Pages without content are skipped.
func Extract(data []byte) (text string, err error) {
	if len(data) == 0 {
		return "", ErrEmptyInput
	}

	// The parser panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("parsing pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening pdf: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("extracting page %d: %w", i, err)
		}
		b.WriteString(pageText)
		b.WriteString("\n")
	}
	return b.String(), nil
}
