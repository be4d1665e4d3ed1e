package extract

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// maxTextOutput caps how much scraped text a single page yields.
const maxTextOutput = 100 * 1024 // 100 KB

var collapsibleWhitespace = strings.NewReplacer("\t", " ", "\r", "")

func (e *Extractor) extractURL(ctx context.Context, url string) (*Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Weft/1.0 (webpage reader)")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("fetch %s: HTTP %d", url, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(newLimitedReadCloser(resp.Body, maxFetchSize))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	doc.Find("script, style, noscript").Remove()

	text := collapseText(doc.Find("body").Text())
	if len(text) > maxTextOutput {
		text = text[:maxTextOutput] + "\n... [truncated at 100KB]"
	}

	return &Document{
		Content:  text,
		Metadata: map[string]any{"title": title, "url": url},
	}, nil
}

// collapseText squeezes runs of blank lines and trailing spaces out of
// scraped page text.
func collapseText(s string) string {
	s = collapsibleWhitespace.Replace(s)
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
