package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// WebSearchTool queries a SearXNG-compatible metasearch endpoint and
// returns title/url/snippet triples.
type WebSearchTool struct {
	BaseURL string
	Client  *http.Client
}

func (w *WebSearchTool) Name() string { return "web-search" }

func (w *WebSearchTool) Execute(ctx context.Context, input map[string]any) (any, error) {
	query, _ := input["query"].(string)
	if query == "" {
		return nil, fmt.Errorf("query is required")
	}
	if w.BaseURL == "" {
		return nil, fmt.Errorf("web search endpoint is not configured")
	}

	limit := 5
	if n, ok := input["limit"].(float64); ok && n > 0 {
		limit = int(n)
	}

	reqCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	endpoint := fmt.Sprintf("%s/search?q=%s&format=json", w.BaseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Weft/1.0")

	client := w.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search error: HTTP %d", resp.StatusCode)
	}

	var apiResp struct {
		Results []struct {
			Title   string `json:"title"`
			URL     string `json:"url"`
			Content string `json:"content"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	if len(apiResp.Results) > limit {
		apiResp.Results = apiResp.Results[:limit]
	}
	results := make([]map[string]any, 0, len(apiResp.Results))
	for _, r := range apiResp.Results {
		results = append(results, map[string]any{
			"title":   r.Title,
			"url":     r.URL,
			"snippet": r.Content,
		})
	}
	return map[string]any{"query": query, "results": results}, nil
}
