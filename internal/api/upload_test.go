package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kalambet/lettervec/internal/source"
)

const testToken = "test-token-12345"

type mockImporter struct {
	importFn func(ctx context.Context, doc source.Document) (int, error)
	docs     []source.Document
}

func (m *mockImporter) ImportDocument(ctx context.Context, doc source.Document) (int, error) {
	m.docs = append(m.docs, doc)
	if m.importFn != nil {
		return m.importFn(ctx, doc)
	}
	return 3, nil
}

// serialImporter calls fn for every import and is safe for concurrent use.
type serialImporter struct {
	fn func()
}

func (s *serialImporter) ImportDocument(context.Context, source.Document) (int, error) {
	s.fn()
	return 1, nil
}

type mockCounter struct {
	n   int
	err error
}

func (m mockCounter) Count(context.Context) (int, error) { return m.n, m.err }

type mockExtractor struct {
	text string
	err  error
}

func (m mockExtractor) Extract([]byte) (string, error) { return m.text, m.err }

type uploadForm struct {
	fields      map[string]string
	fileName    string
	contentType string
	content     string
	noFile      bool
}

func buildUpload(t *testing.T, f uploadForm, token string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range f.fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("writing field: %v", err)
		}
	}
	if !f.noFile {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="file"; filename="`+f.fileName+`"`)
		ct := f.contentType
		if ct == "" {
			ct = "text/plain"
		}
		h.Set("Content-Type", ct)
		part, err := mw.CreatePart(h)
		if err != nil {
			t.Fatalf("creating part: %v", err)
		}
		io.WriteString(part, f.content)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func validFields() map[string]string {
	return map[string]string{"year": "2019", "title": "2019 Letter", "sourceUrl": "https://example.com/2019.pdf"}
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body %q: %v", rr.Body.String(), err)
	}
	return body
}

func TestHealth_NoAuth(t *testing.T) {
	h := NewHandler(Deps{Importer: &mockImporter{}, Counter: mockCounter{}, Token: testToken})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if got := decodeBody(t, rr)["status"]; got != "ok" {
		t.Errorf("status field = %v, want ok", got)
	}
}

func TestUpload_TextFile(t *testing.T) {
	imp := &mockImporter{}
	h := NewHandler(Deps{Importer: imp, Counter: mockCounter{}})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, buildUpload(t, uploadForm{
		fields:   validFields(),
		fileName: "2019.txt",
		content:  "Dear shareholders, it was a good year.",
	}, ""))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body = %s", rr.Code, rr.Body.String())
	}
	body := decodeBody(t, rr)
	if body["success"] != true || body["chunks"] != float64(3) {
		t.Errorf("body = %v", body)
	}
	if len(imp.docs) != 1 {
		t.Fatalf("imported %d docs, want 1", len(imp.docs))
	}
	doc := imp.docs[0]
	if doc.Year != 2019 || doc.Title != "2019 Letter" || doc.SourceURL != "https://example.com/2019.pdf" {
		t.Errorf("doc metadata = %+v", doc)
	}
	if doc.Text != "Dear shareholders, it was a good year." {
		t.Errorf("doc text = %q", doc.Text)
	}
}

func TestUpload_PDFUsesExtractor(t *testing.T) {
	tests := []struct {
		name        string
		fileName    string
		contentType string
	}{
		{"content type", "letter.bin", "application/pdf"},
		{"extension", "LETTER.PDF", "application/octet-stream"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			imp := &mockImporter{}
			h := NewHandler(Deps{
				Importer:  imp,
				Counter:   mockCounter{},
				Extractor: mockExtractor{text: "extracted pdf text"},
			})

			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, buildUpload(t, uploadForm{
				fields:      validFields(),
				fileName:    tt.fileName,
				contentType: tt.contentType,
				content:     "%PDF-1.4 binary",
			}, ""))

			if rr.Code != http.StatusOK {
				t.Fatalf("status = %d; body = %s", rr.Code, rr.Body.String())
			}
			if imp.docs[0].Text != "extracted pdf text" {
				t.Errorf("text = %q, want extractor output", imp.docs[0].Text)
			}
		})
	}
}

func TestUpload_MissingFields(t *testing.T) {
	tests := []struct {
		name string
		form uploadForm
	}{
		{"no file", uploadForm{fields: validFields(), noFile: true}},
		{"no title", uploadForm{fields: map[string]string{"year": "2019"}, fileName: "a.txt", content: "x"}},
		{"no year", uploadForm{fields: map[string]string{"title": "t"}, fileName: "a.txt", content: "x"}},
		{"bad year", uploadForm{fields: map[string]string{"title": "t", "year": "soon"}, fileName: "a.txt", content: "x"}},
		{"zero year", uploadForm{fields: map[string]string{"title": "t", "year": "0"}, fileName: "a.txt", content: "x"}},
		{"negative year", uploadForm{fields: map[string]string{"title": "t", "year": "-2019"}, fileName: "a.txt", content: "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			imp := &mockImporter{}
			h := NewHandler(Deps{Importer: imp, Counter: mockCounter{}})

			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, buildUpload(t, tt.form, ""))

			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rr.Code)
			}
			if len(imp.docs) != 0 {
				t.Error("importer should not be called")
			}
		})
	}
}

func TestUpload_EmptyText(t *testing.T) {
	imp := &mockImporter{}
	h := NewHandler(Deps{Importer: imp, Counter: mockCounter{}, Extractor: mockExtractor{text: "  \n"}})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, buildUpload(t, uploadForm{
		fields:      validFields(),
		fileName:    "scan.pdf",
		contentType: "application/pdf",
		content:     "%PDF",
	}, ""))

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rr.Code)
	}
	if len(imp.docs) != 0 {
		t.Error("importer should not be called")
	}
}

func TestUpload_ImportFailure(t *testing.T) {
	imp := &mockImporter{importFn: func(context.Context, source.Document) (int, error) {
		return 1, errors.New("embedding service down")
	}}
	h := NewHandler(Deps{Importer: imp, Counter: mockCounter{}})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, buildUpload(t, uploadForm{fields: validFields(), fileName: "a.txt", content: "text"}, ""))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
	errObj, _ := decodeBody(t, rr)["error"].(map[string]any)
	if errObj["type"] != "server_error" {
		t.Errorf("error = %v", errObj)
	}
}

func TestUpload_ImportsRunOneAtATime(t *testing.T) {
	var inFlight, maxInFlight atomic.Int32
	imp := &serialImporter{fn: func() {
		n := inFlight.Add(1)
		for {
			m := maxInFlight.Load()
			if n <= m || maxInFlight.CompareAndSwap(m, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		inFlight.Add(-1)
	}}
	h := NewHandler(Deps{Importer: imp, Counter: mockCounter{}})

	const uploads = 5
	var wg sync.WaitGroup
	codes := make([]int, uploads)
	for i := range uploads {
		req := buildUpload(t, uploadForm{fields: validFields(), fileName: "a.txt", content: "text"}, "")
		wg.Add(1)
		go func() {
			defer wg.Done()
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			codes[i] = rr.Code
		}()
	}
	wg.Wait()

	for i, c := range codes {
		if c != http.StatusOK {
			t.Errorf("upload %d status = %d, want 200", i, c)
		}
	}
	if got := maxInFlight.Load(); got != 1 {
		t.Errorf("max concurrent imports = %d, want 1", got)
	}
}

func TestUpload_Auth(t *testing.T) {
	h := NewHandler(Deps{Importer: &mockImporter{}, Counter: mockCounter{}, Token: testToken})

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong", "nope", http.StatusUnauthorized},
		{"valid", testToken, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, buildUpload(t, uploadForm{fields: validFields(), fileName: "a.txt", content: "text"}, tt.token))
			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d", rr.Code, tt.want)
			}
		})
	}
}

func TestCount(t *testing.T) {
	h := NewHandler(Deps{Importer: &mockImporter{}, Counter: mockCounter{n: 42}})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/documents/count", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if got := decodeBody(t, rr)["count"]; got != float64(42) {
		t.Errorf("count = %v, want 42", got)
	}
}

func TestCount_Error(t *testing.T) {
	h := NewHandler(Deps{Importer: &mockImporter{}, Counter: mockCounter{err: errors.New("db closed")}})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/documents/count", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
}
