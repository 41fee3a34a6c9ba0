package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"github.com/kalambet/lettervec/internal/pdftext"
	"github.com/kalambet/lettervec/internal/source"
)

const maxUploadSize = 32 << 20 // 32MB

// DocumentImporter runs one document through chunk, embed and store.
type DocumentImporter interface {
	ImportDocument(ctx context.Context, doc source.Document) (int, error)
}

// RecordCounter reports the number of stored records.
type RecordCounter interface {
	Count(ctx context.Context) (int, error)
}

type Deps struct {
	Importer  DocumentImporter
	Counter   RecordCounter
	Extractor pdftext.Extractor // defaults to pdftext.PDF{}
	Token     string            // empty disables auth
	Logger    *slog.Logger
}

func NewHandler(deps Deps) http.Handler {
	if deps.Extractor == nil {
		deps.Extractor = pdftext.PDF{}
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		if deps.Token != "" {
			r.Use(BearerAuth(deps.Token))
		}
		r.Post("/upload", handleUpload(deps, &sync.Mutex{}))
		r.Get("/documents/count", handleCount(deps))
	})
	return r
}

// handleUpload runs at most one import at a time; concurrent requests wait
// on mu so chunks are embedded and stored strictly in sequence.
func handleUpload(deps Deps, mu *sync.Mutex) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid multipart form: %v", err)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "missing required fields")
			return
		}
		defer file.Close()

		title := strings.TrimSpace(r.FormValue("title"))
		yearStr := strings.TrimSpace(r.FormValue("year"))
		if title == "" || yearStr == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "missing required fields")
			return
		}
		year, err := strconv.Atoi(yearStr)
		if err != nil || year <= 0 {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "year must be a positive integer")
			return
		}

		text, err := readUpload(deps.Extractor, file, header)
		if err != nil {
			deps.Logger.Warn("upload extraction failed", "file", header.Filename, "error", err)
			httpError(w, http.StatusUnprocessableEntity, "invalid_request_error", "could not extract text: %v", err)
			return
		}
		if strings.TrimSpace(text) == "" {
			httpError(w, http.StatusUnprocessableEntity, "invalid_request_error", "no text could be extracted from file")
			return
		}

		doc := source.Document{
			Year:      year,
			Title:     title,
			SourceURL: strings.TrimSpace(r.FormValue("sourceUrl")),
			Text:      text,
		}
		mu.Lock()
		n, err := deps.Importer.ImportDocument(r.Context(), doc)
		mu.Unlock()
		if err != nil {
			deps.Logger.Error("upload import failed", "title", title, "stored", n, "error", err)
			httpError(w, http.StatusInternalServerError, "server_error", "failed to process document: %v", err)
			return
		}

		deps.Logger.Info("upload imported", "title", title, "chunks", n)
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "chunks": n})
	}
}

func handleCount(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := deps.Counter.Count(r.Context())
		if err != nil {
			httpError(w, http.StatusInternalServerError, "server_error", "counting documents: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"count": n})
	}
}

func isPDF(header *multipart.FileHeader) bool {
	if header.Header.Get("Content-Type") == "application/pdf" {
		return true
	}
	return strings.EqualFold(filepath.Ext(header.Filename), ".pdf")
}

func readUpload(ex pdftext.Extractor, file multipart.File, header *multipart.FileHeader) (string, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	if isPDF(header) {
		return ex.Extract(data)
	}
	if !utf8.Valid(data) {
		return "", errors.New("file is not valid UTF-8 text")
	}
	return string(data), nil
}
