package extract

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestExtract_CSV(t *testing.T) {
	doc, err := extractCSV(strings.NewReader("name,age\nAna,31\nBo,27\n"))
	if err != nil {
		t.Fatalf("extractCSV: %v", err)
	}
	if doc.Content != "name, age\nAna, 31\nBo, 27" {
		t.Errorf("content: got %q", doc.Content)
	}
	if doc.Metadata["rows"] != 3 || doc.Metadata["columns"] != 2 {
		t.Errorf("metadata: got %v", doc.Metadata)
	}
}

func TestExtract_CSV_RaggedRows(t *testing.T) {
	doc, err := extractCSV(strings.NewReader("a,b,c\nx\n"))
	if err != nil {
		t.Fatalf("extractCSV: %v", err)
	}
	if doc.Metadata["columns"] != 3 {
		t.Errorf("columns: got %v, want 3", doc.Metadata["columns"])
	}
}

func TestExtract_URL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><head><title>Hello Page</title>
			<script>ignored()</script></head>
			<body><h1>Hello</h1>  <p>World</p></body></html>`))
	}))
	defer srv.Close()

	e := New()
	doc, err := e.Extract(context.Background(), KindURL, srv.URL)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if doc.Metadata["title"] != "Hello Page" {
		t.Errorf("title: got %v", doc.Metadata["title"])
	}
	if !strings.Contains(doc.Content, "Hello") || !strings.Contains(doc.Content, "World") {
		t.Errorf("content missing body text: %q", doc.Content)
	}
	if strings.Contains(doc.Content, "ignored") {
		t.Errorf("script text leaked into content: %q", doc.Content)
	}
}

func TestExtract_URL_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	e := New()
	if _, err := e.Extract(context.Background(), KindURL, srv.URL); err == nil {
		t.Fatal("expected error for HTTP 404")
	}
}

func TestExtract_UnsupportedKind(t *testing.T) {
	e := New()
	if _, err := e.Extract(context.Background(), Kind("docx"), "x"); err == nil {
		t.Fatal("expected error for unsupported kind")
	}
}
