package vector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// WeaviateStore talks to a Weaviate instance with a server-side
// vectorizer module enabled, so objects are embedded on ingest.
type WeaviateStore struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewWeaviateStore(baseURL, apiKey string) *WeaviateStore {
	return &WeaviateStore{baseURL: baseURL, apiKey: apiKey, client: &http.Client{}}
}

func (s *WeaviateStore) Name() string { return "weaviate" }

// className maps an index name to a Weaviate class name, which must
// start with an uppercase letter.
func className(index string) string {
	if index == "" {
		return "Document"
	}
	return strings.ToUpper(index[:1]) + index[1:]
}

func (s *WeaviateStore) CreateIndex(ctx context.Context, index string, _ int) error {
	body := map[string]any{
		"class": className(index),
		"properties": []map[string]any{
			{"name": "text", "dataType": []string{"text"}},
		},
	}
	resp, err := s.do(ctx, http.MethodPost, "/v1/schema", body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	// 422 is returned when the class already exists.
	if resp.StatusCode >= 400 && resp.StatusCode != http.StatusUnprocessableEntity {
		return apiError("weaviate create class", resp)
	}
	return nil
}

func (s *WeaviateStore) UpsertText(ctx context.Context, index string, texts []string, metadata map[string]any) error {
	objects := make([]map[string]any, 0, len(texts))
	for _, text := range texts {
		props := map[string]any{"text": text}
		for k, v := range metadata {
			props[k] = v
		}
		objects = append(objects, map[string]any{
			"class":      className(index),
			"properties": props,
		})
	}
	resp, err := s.do(ctx, http.MethodPost, "/v1/batch/objects", map[string]any{"objects": objects})
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return apiError("weaviate batch upsert", resp)
	}
	return nil
}

func (s *WeaviateStore) Query(ctx context.Context, index string, query string, topK int) ([]Match, error) {
	gql := fmt.Sprintf(
		`{ Get { %s(nearText: {concepts: [%q]}, limit: %d) { text _additional { id distance } } } }`,
		className(index), query, topK,
	)
	resp, err := s.do(ctx, http.MethodPost, "/v1/graphql", map[string]any{"query": gql})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, apiError("weaviate query", resp)
	}

	var apiResp struct {
		Data map[string]map[string][]struct {
			Text       string `json:"text"`
			Additional struct {
				ID       string  `json:"id"`
				Distance float64 `json:"distance"`
			} `json:"_additional"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("decode weaviate response: %w", err)
	}

	var matches []Match
	for _, obj := range apiResp.Data["Get"][className(index)] {
		matches = append(matches, Match{
			ID:    obj.Additional.ID,
			Score: 1 - obj.Additional.Distance,
			Text:  obj.Text,
		})
	}
	return matches, nil
}

func (s *WeaviateStore) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	return resp, nil
}
