package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/weftworks/weft/internal/engine"
	"github.com/weftworks/weft/internal/repository"
	"github.com/weftworks/weft/internal/weft"
)

// maxWebhookBody caps inbound webhook payloads.
const maxWebhookBody = 1 << 20 // 1 MB

// handleWebhook receives an external HTTP POST and runs the workflow
// whose id is in the path. The JSON payload becomes the run's input.
// If the workflow has a webhook-response node its output shapes the
// HTTP reply; otherwise the caller gets the execution record.
// POST /api/webhooks/{id}
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	wf, err := s.workflows.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, "workflow not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !hasWebhookStart(wf) {
		http.Error(w, "workflow has no webhook trigger", http.StatusConflict)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	input := map[string]any{}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &input); err != nil {
			http.Error(w, "payload must be a JSON object", http.StatusBadRequest)
			return
		}
	}

	exec, err := s.engine.ExecuteWorkflow(r.Context(), wf.ID, wf.Nodes, wf.Edges, input)
	if err != nil {
		if errors.Is(err, engine.ErrExecutionFailed) {
			writeJSON(w, http.StatusUnprocessableEntity, exec)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if resp, status, ok := webhookReply(exec.Output); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]any{"response": resp})
		return
	}
	writeJSON(w, http.StatusOK, exec)
}

func hasWebhookStart(wf *weft.Workflow) bool {
	for _, n := range wf.Nodes {
		if n.Type == "webhook-trigger" {
			return true
		}
	}
	return false
}

// webhookReply extracts a webhook-response node's output from the
// final execution data.
func webhookReply(output any) (string, int, bool) {
	m, ok := output.(map[string]any)
	if !ok {
		return "", 0, false
	}
	resp, ok := m["response"].(string)
	if !ok {
		return "", 0, false
	}
	status := http.StatusOK
	switch v := m["statusCode"].(type) {
	case int:
		status = v
	case float64:
		status = int(v)
	}
	return resp, status, true
}
