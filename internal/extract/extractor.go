// Package extract turns document sources (local files or URLs) into
// plain text for downstream nodes.
package extract

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// maxFetchSize caps how much remote content is read per document.
const maxFetchSize = 10 * 1024 * 1024 // 10 MB

type Kind string

const (
	KindPDF  Kind = "pdf"
	KindCSV  Kind = "csv"
	KindXLSX Kind = "xlsx"
	KindURL  Kind = "url"
)

// Document is the extraction result: flattened text plus
// format-specific metadata (page/row/sheet counts, page title).
type Document struct {
	Content  string
	Metadata map[string]any
}

// Extractor loads and converts documents. Safe for concurrent use.
type Extractor struct {
	client *http.Client
}

func New() *Extractor {
	return &Extractor{client: &http.Client{Timeout: 30 * time.Second}}
}

// Extract loads source (an http(s) URL or a local path) and converts
// it according to kind.
func (e *Extractor) Extract(ctx context.Context, kind Kind, source string) (*Document, error) {
	switch kind {
	case KindPDF:
		return e.withReader(ctx, source, extractPDF)
	case KindCSV:
		return e.withReader(ctx, source, extractCSV)
	case KindXLSX:
		return e.withReader(ctx, source, extractXLSX)
	case KindURL:
		return e.extractURL(ctx, source)
	default:
		return nil, fmt.Errorf("unsupported document kind: %s", kind)
	}
}

func (e *Extractor) withReader(ctx context.Context, source string, fn func(io.Reader) (*Document, error)) (*Document, error) {
	r, err := e.open(ctx, source)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return fn(r)
}

func (e *Extractor) open(ctx context.Context, source string) (io.ReadCloser, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		resp, err := e.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", source, err)
		}
		if resp.StatusCode >= 400 {
			resp.Body.Close()
			return nil, fmt.Errorf("fetch %s: HTTP %d", source, resp.StatusCode)
		}
		return newLimitedReadCloser(resp.Body, maxFetchSize), nil
	}

	f, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", source, err)
	}
	return f, nil
}

type limitedReadCloser struct {
	io.Reader
	closer io.Closer
}

func newLimitedReadCloser(rc io.ReadCloser, n int64) io.ReadCloser {
	return &limitedReadCloser{Reader: io.LimitReader(rc, n), closer: rc}
}

func (l *limitedReadCloser) Close() error { return l.closer.Close() }
