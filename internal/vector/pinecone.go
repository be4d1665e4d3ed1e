package vector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
)

// PineconeStore talks to Pinecone's index API with integrated
// embedding (records endpoints).
type PineconeStore struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewPineconeStore(baseURL, apiKey string) *PineconeStore {
	return &PineconeStore{baseURL: baseURL, apiKey: apiKey, client: &http.Client{}}
}

func (s *PineconeStore) Name() string { return "pinecone" }

func (s *PineconeStore) CreateIndex(ctx context.Context, index string, dimension int) error {
	body := map[string]any{
		"name":      index,
		"dimension": dimension,
		"metric":    "cosine",
	}
	resp, err := s.do(ctx, http.MethodPost, "/indexes", body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	// 409 means the index already exists, which callers treat as success.
	if resp.StatusCode >= 400 && resp.StatusCode != http.StatusConflict {
		return apiError("pinecone create index", resp)
	}
	return nil
}

func (s *PineconeStore) UpsertText(ctx context.Context, index string, texts []string, metadata map[string]any) error {
	records := make([]map[string]any, 0, len(texts))
	for _, text := range texts {
		rec := map[string]any{"_id": uuid.NewString(), "text": text}
		for k, v := range metadata {
			rec[k] = v
		}
		records = append(records, rec)
	}
	resp, err := s.do(ctx, http.MethodPost, fmt.Sprintf("/records/namespaces/%s/upsert", index), map[string]any{"records": records})
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return apiError("pinecone upsert", resp)
	}
	return nil
}

func (s *PineconeStore) Query(ctx context.Context, index string, query string, topK int) ([]Match, error) {
	body := map[string]any{
		"query": map[string]any{
			"inputs": map[string]any{"text": query},
			"top_k":  topK,
		},
	}
	resp, err := s.do(ctx, http.MethodPost, fmt.Sprintf("/records/namespaces/%s/search", index), body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, apiError("pinecone query", resp)
	}

	var apiResp struct {
		Result struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Score  float64        `json:"_score"`
				Fields map[string]any `json:"fields"`
			} `json:"hits"`
		} `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("decode pinecone response: %w", err)
	}

	matches := make([]Match, 0, len(apiResp.Result.Hits))
	for _, hit := range apiResp.Result.Hits {
		text, _ := hit.Fields["text"].(string)
		matches = append(matches, Match{ID: hit.ID, Score: hit.Score, Text: text, Metadata: hit.Fields})
	}
	return matches, nil
}

func (s *PineconeStore) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Api-Key", s.apiKey)
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	return resp, nil
}

func apiError(op string, resp *http.Response) error {
	respBody, _ := io.ReadAll(resp.Body)
	return fmt.Errorf("%s: API error (status %d): %s", op, resp.StatusCode, string(respBody))
}
