package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/weftworks/weft/internal/engine"
	"github.com/weftworks/weft/internal/provider"
	"github.com/weftworks/weft/internal/repository"
	"github.com/weftworks/weft/internal/weft"
)

// echoProvider replies with the prompt it was given.
type echoProvider struct{}

func (echoProvider) Name() string { return "openai" }

func (echoProvider) ChatCompletion(_ context.Context, req *provider.ChatRequest) (*provider.ChatResponse, error) {
	last := req.Messages[len(req.Messages)-1]
	return &provider.ChatResponse{Content: "echo: " + last.Content}, nil
}

func newTestServer() *Server {
	workflows := repository.NewMemoryWorkflowRepository()
	executions := repository.NewMemoryExecutionRepository()

	providers := provider.NewRegistry()
	providers.Register(echoProvider{})

	eng := engine.New(engine.Deps{
		Executions: executions,
		Providers:  providers,
	})
	return NewServer(eng, workflows, executions)
}

func createTestWorkflow(t *testing.T, srv *Server, wf weft.Workflow) weft.Workflow {
	t.Helper()
	body, _ := json.Marshal(wf)
	req := httptest.NewRequest("POST", "/api/workflows", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status: got %d, want 201 (%s)", w.Code, w.Body.String())
	}
	var created weft.Workflow
	json.Unmarshal(w.Body.Bytes(), &created)
	return created
}

func chatWorkflow() weft.Workflow {
	return weft.Workflow{
		Name: "chat",
		Nodes: []weft.Node{
			{ID: "trigger", Type: "webhook-trigger"},
			{ID: "chat", Type: "openai-chat", Data: map[string]any{"prompt": "{{message}}", "model": "m"}},
			{ID: "out", Type: "webhook-response", Data: map[string]any{"responseBody": "{{response}}"}},
		},
		Edges: []weft.Edge{
			{ID: "e1", Source: "trigger", Target: "chat"},
			{ID: "e2", Source: "chat", Target: "out"},
		},
	}
}

func TestAPI_CreateWorkflow(t *testing.T) {
	srv := newTestServer()
	created := createTestWorkflow(t, srv, chatWorkflow())
	if created.ID == "" {
		t.Error("server must assign a workflow id")
	}
	if created.Name != "chat" {
		t.Errorf("name: got %q", created.Name)
	}
	if created.CreatedAt.IsZero() {
		t.Error("created_at not set")
	}
}

func TestAPI_CreateWorkflowRequiresName(t *testing.T) {
	srv := newTestServer()
	req := httptest.NewRequest("POST", "/api/workflows", bytes.NewReader([]byte(`{"nodes":[]}`)))
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", w.Code)
	}
}

func TestAPI_ListWorkflows(t *testing.T) {
	srv := newTestServer()
	createTestWorkflow(t, srv, chatWorkflow())

	req := httptest.NewRequest("GET", "/api/workflows", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", w.Code)
	}
	var resp []map[string]any
	json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp) != 1 {
		t.Errorf("workflows: got %d, want 1", len(resp))
	}
}

func TestAPI_GetWorkflowNotFound(t *testing.T) {
	srv := newTestServer()
	req := httptest.NewRequest("GET", "/api/workflows/wf_missing", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want 404", w.Code)
	}
}

func TestAPI_UpdateWorkflowKeepsIdentity(t *testing.T) {
	srv := newTestServer()
	created := createTestWorkflow(t, srv, chatWorkflow())

	update := chatWorkflow()
	update.Name = "chat v2"
	body, _ := json.Marshal(update)
	req := httptest.NewRequest("PUT", "/api/workflows/"+created.ID, bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", w.Code)
	}

	var updated weft.Workflow
	json.Unmarshal(w.Body.Bytes(), &updated)
	if updated.ID != created.ID {
		t.Errorf("update must not change the id: %q vs %q", updated.ID, created.ID)
	}
	if updated.Name != "chat v2" {
		t.Errorf("name: got %q", updated.Name)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Error("update must preserve created_at")
	}
}

func TestAPI_DeleteWorkflow(t *testing.T) {
	srv := newTestServer()
	created := createTestWorkflow(t, srv, chatWorkflow())

	req := httptest.NewRequest("DELETE", "/api/workflows/"+created.ID, nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("status: got %d, want 204", w.Code)
	}

	req = httptest.NewRequest("GET", "/api/workflows/"+created.ID, nil)
	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status after delete: got %d, want 404", w.Code)
	}
}

func TestAPI_ExecuteWorkflow(t *testing.T) {
	srv := newTestServer()
	created := createTestWorkflow(t, srv, chatWorkflow())

	body := []byte(`{"input":{"message":"hi"}}`)
	req := httptest.NewRequest("POST", "/api/workflows/"+created.ID+"/execute", bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200 (%s)", w.Code, w.Body.String())
	}

	var exec weft.Execution
	json.Unmarshal(w.Body.Bytes(), &exec)
	if exec.Status != weft.ExecutionCompleted {
		t.Fatalf("status = %s, want completed", exec.Status)
	}
	out := exec.Output.(map[string]any)
	if out["response"] != "echo: hi" {
		t.Errorf("response = %v", out["response"])
	}
}

func TestAPI_ExecuteWorkflowFailure(t *testing.T) {
	srv := newTestServer()
	wf := weft.Workflow{
		Name:  "broken",
		Nodes: []weft.Node{{ID: "n", Type: "no-such-type"}},
	}
	created := createTestWorkflow(t, srv, wf)

	req := httptest.NewRequest("POST", "/api/workflows/"+created.ID+"/execute", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status: got %d, want 422", w.Code)
	}

	var exec weft.Execution
	json.Unmarshal(w.Body.Bytes(), &exec)
	if exec.Status != weft.ExecutionFailed {
		t.Fatalf("status = %s, want failed", exec.Status)
	}
	if exec.Error == nil || *exec.Error != "Unknown node type: no-such-type" {
		t.Errorf("error detail: %v", exec.Error)
	}
}

func TestAPI_ListExecutions(t *testing.T) {
	srv := newTestServer()
	created := createTestWorkflow(t, srv, chatWorkflow())

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("POST", "/api/workflows/"+created.ID+"/execute",
			bytes.NewReader([]byte(`{"input":{"message":"x"}}`)))
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("execute %d: status %d", i, w.Code)
		}
	}

	req := httptest.NewRequest("GET", "/api/workflows/"+created.ID+"/executions?limit=2", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", w.Code)
	}

	var resp struct {
		Executions []weft.Execution `json:"executions"`
		Total      int              `json:"total"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Total != 3 {
		t.Errorf("total = %d, want 3", resp.Total)
	}
	if len(resp.Executions) != 2 {
		t.Errorf("page size = %d, want 2", len(resp.Executions))
	}
}

func TestAPI_GetExecution(t *testing.T) {
	srv := newTestServer()
	created := createTestWorkflow(t, srv, chatWorkflow())

	req := httptest.NewRequest("POST", "/api/workflows/"+created.ID+"/execute",
		bytes.NewReader([]byte(`{"input":{"message":"hi"}}`)))
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	var exec weft.Execution
	json.Unmarshal(w.Body.Bytes(), &exec)

	req = httptest.NewRequest("GET", "/api/executions/"+exec.ID, nil)
	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", w.Code)
	}
}

func TestAPI_Webhook(t *testing.T) {
	srv := newTestServer()
	created := createTestWorkflow(t, srv, chatWorkflow())

	req := httptest.NewRequest("POST", "/api/webhooks/"+created.ID,
		bytes.NewReader([]byte(`{"message":"ping"}`)))
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200 (%s)", w.Code, w.Body.String())
	}

	var resp map[string]any
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["response"] != "echo: ping" {
		t.Errorf("response = %v", resp["response"])
	}
}

func TestAPI_WebhookRequiresWebhookTrigger(t *testing.T) {
	srv := newTestServer()
	wf := chatWorkflow()
	wf.Nodes[0].Type = "manual-trigger"
	created := createTestWorkflow(t, srv, wf)

	req := httptest.NewRequest("POST", "/api/webhooks/"+created.ID, nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusConflict {
		t.Fatalf("status: got %d, want 409", w.Code)
	}
}

func TestAPI_Templates(t *testing.T) {
	srv := newTestServer()
	req := httptest.NewRequest("GET", "/api/templates", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", w.Code)
	}
	var resp []weft.Workflow
	json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp) == 0 {
		t.Error("expected a non-empty template catalog")
	}
}

func TestAPI_NodeTypes(t *testing.T) {
	srv := newTestServer()
	req := httptest.NewRequest("GET", "/api/node-types", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", w.Code)
	}
	var resp struct {
		Types []string `json:"types"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	found := false
	for _, typ := range resp.Types {
		if typ == "openai-chat" {
			found = true
		}
	}
	if !found {
		t.Error("node type list missing openai-chat")
	}
}
