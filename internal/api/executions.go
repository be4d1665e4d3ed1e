package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/weftworks/weft/internal/engine"
	"github.com/weftworks/weft/internal/repository"
	"github.com/weftworks/weft/internal/weft"
)

// executeWorkflow runs a stored workflow synchronously and returns
// the finished execution record. A workflow-level failure still
// returns the record, with HTTP 422 marking the failed run.
func (s *Server) executeWorkflow(w http.ResponseWriter, r *http.Request) {
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

	var body struct {
		Input map[string]any `json:"input"`
	}
	if r.Body != nil {
		// An empty body means an empty input set.
		_ = json.NewDecoder(r.Body).Decode(&body)
	}

	exec, err := s.engine.ExecuteWorkflow(r.Context(), wf.ID, wf.Nodes, wf.Edges, body.Input)
	if err != nil {
		if errors.Is(err, engine.ErrExecutionFailed) {
			writeJSON(w, http.StatusUnprocessableEntity, exec)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, exec)
}

func (s *Server) listExecutions(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	limit := 50
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}
	offset := 0
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v > 0 {
		offset = v
	}

	execs, total, err := s.executions.ListByWorkflow(r.Context(), id, limit, offset)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if execs == nil {
		execs = []*weft.Execution{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"executions": execs,
		"total":      total,
	})
}

func (s *Server) getExecution(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	exec, err := s.executions.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, "execution not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, exec)
}
