package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/weftworks/weft/internal/notify"
	"github.com/weftworks/weft/internal/sandbox"
	"github.com/weftworks/weft/internal/vector"
	"github.com/weftworks/weft/internal/weft"
)

func mustData(t *testing.T, res weft.NodeResult) map[string]any {
	t.Helper()
	if !res.Success {
		t.Fatalf("unexpected failure: %s", res.Error)
	}
	data, ok := res.Data.(map[string]any)
	if !ok {
		t.Fatalf("unexpected data shape: %#v", res.Data)
	}
	return data
}

func TestTriggerHandlerPassesVariablesThrough(t *testing.T) {
	ec := weft.NewExecutionContext("exec_1", map[string]any{"message": "hi", "n": 2})
	res := TriggerHandler()(context.Background(), &weft.Node{ID: "t", Type: "manual-trigger"}, ec)

	data := mustData(t, res)
	if data["message"] != "hi" || data["n"] != 2 {
		t.Fatalf("unexpected data: %v", data)
	}

	// The copy must not alias the live variables.
	data["message"] = "mutated"
	if ec.Variables["message"] != "hi" {
		t.Fatal("trigger data aliases execution variables")
	}
}

func TestScheduleTriggerHandlerStampsFiringTime(t *testing.T) {
	fixed := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	ec := weft.NewExecutionContext("exec_1", nil)

	res := ScheduleTriggerHandler(func() time.Time { return fixed })(
		context.Background(), &weft.Node{ID: "t", Type: "schedule-trigger"}, ec)

	data := mustData(t, res)
	if data["triggeredAt"] != "2026-03-14T09:30:00Z" {
		t.Fatalf("triggeredAt = %v", data["triggeredAt"])
	}
}

func TestConditionalHandler(t *testing.T) {
	tests := []struct {
		name      string
		condition string
		variables map[string]any
		want      bool
		wantErr   string
	}{
		{
			name:      "comparison true",
			condition: "amount > 100",
			variables: map[string]any{"amount": 250},
			want:      true,
		},
		{
			name:      "comparison false",
			condition: "amount > 100",
			variables: map[string]any{"amount": 50},
			want:      false,
		},
		{
			name:      "interpolated literal",
			condition: `"{{status}}" == "ok"`,
			variables: map[string]any{"status": "ok"},
			want:      true,
		},
		{
			name:      "missing condition",
			condition: "",
			wantErr:   "no condition configured",
		},
		{
			name:      "compile error",
			condition: "amount >",
			variables: map[string]any{"amount": 1},
			wantErr:   "compile condition",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ec := weft.NewExecutionContext("exec_1", tt.variables)
			node := &weft.Node{ID: "cond", Type: "conditional", Data: map[string]any{}}
			if tt.condition != "" {
				node.Data["condition"] = tt.condition
			}

			res := ConditionalHandler()(context.Background(), node, ec)
			if tt.wantErr != "" {
				if res.Success {
					t.Fatalf("expected failure, got %v", res.Data)
				}
				if !strings.Contains(res.Error, tt.wantErr) {
					t.Fatalf("error %q does not mention %q", res.Error, tt.wantErr)
				}
				return
			}

			data := mustData(t, res)
			if data["condition"] != tt.want {
				t.Fatalf("condition = %v, want %v", data["condition"], tt.want)
			}
			if data["originalCondition"] != tt.condition {
				t.Fatalf("originalCondition = %v", data["originalCondition"])
			}
		})
	}
}

func TestCodeHandlerJavaScript(t *testing.T) {
	runners := map[string]sandbox.Runner{"javascript": &sandbox.JSRunner{}}
	handler := CodeHandler(runners)

	ec := weft.NewExecutionContext("exec_1", map[string]any{"base": float64(40)})
	node := &weft.Node{ID: "calc", Type: "code", Data: map[string]any{
		"code": "return {total: variables.base + 2};",
	}}

	res := handler(context.Background(), node, ec)
	data := mustData(t, res)
	if data["total"] != float64(42) {
		t.Fatalf("total = %v, want 42", data["total"])
	}
}

func TestCodeHandlerUnsupportedLanguage(t *testing.T) {
	handler := CodeHandler(map[string]sandbox.Runner{})
	node := &weft.Node{ID: "calc", Type: "code", Data: map[string]any{
		"code":     "print(1)",
		"language": "cobol",
	}}

	res := handler(context.Background(), node, weft.NewExecutionContext("exec_1", nil))
	if res.Success || !strings.Contains(res.Error, "unsupported language: cobol") {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestMergeHandlerExposesAllResults(t *testing.T) {
	ec := weft.NewExecutionContext("exec_1", nil)
	ec.SetResult("a", map[string]any{"x": 1})
	ec.SetResult("b", map[string]any{"y": 2})

	res := MergeHandler()(context.Background(), &weft.Node{ID: "m", Type: "merge"}, ec)
	data := mustData(t, res)
	merged := data["merged"].(map[string]any)
	if len(merged) != 2 {
		t.Fatalf("merged = %v", merged)
	}
}

// recordingSender captures messages; fails when told to.
type recordingSender struct {
	channel string
	fail    bool
	last    *notify.Message
}

func (s *recordingSender) Name() string { return s.channel }

func (s *recordingSender) Send(_ context.Context, msg notify.Message) error {
	if s.fail {
		return errors.New("relay refused")
	}
	s.last = &msg
	return nil
}

func TestEmailHandlerInterpolatesAndSends(t *testing.T) {
	sender := &recordingSender{channel: "smtp"}
	senders := notify.NewSenderRegistry()
	senders.Register(sender)

	ec := weft.NewExecutionContext("exec_1", map[string]any{"user": "ana@example.com"})
	node := &weft.Node{ID: "mail", Type: "email", Data: map[string]any{
		"to":      "{{user}}",
		"subject": "done",
		"body":    "all good",
	}}

	res := EmailHandler(senders)(context.Background(), node, ec)
	data := mustData(t, res)
	if data["sent"] != true {
		t.Fatalf("sent = %v", data["sent"])
	}
	if sender.last == nil || sender.last.To != "ana@example.com" {
		t.Fatalf("recipient not interpolated: %+v", sender.last)
	}
}

func TestEmailHandlerDeliveryFailure(t *testing.T) {
	senders := notify.NewSenderRegistry()
	senders.Register(&recordingSender{channel: "smtp", fail: true})

	node := &weft.Node{ID: "mail", Type: "email", Data: map[string]any{
		"to": "x@example.com", "subject": "s", "body": "b",
	}}
	ec := weft.NewExecutionContext("exec_1", nil)

	// Default: delivery failure is logged, the node still succeeds.
	res := EmailHandler(senders)(context.Background(), node, ec)
	data := mustData(t, res)
	if data["sent"] != false {
		t.Fatalf("sent = %v, want false", data["sent"])
	}

	// failOnError flips it into a workflow failure.
	node.Data["failOnError"] = true
	res = EmailHandler(senders)(context.Background(), node, ec)
	if res.Success || !strings.Contains(res.Error, "send email") {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestWebhookResponseHandlerDefaults(t *testing.T) {
	ec := weft.NewExecutionContext("exec_1", nil)
	ec.SetResult("chat", map[string]any{"response": "hello back"})

	node := &weft.Node{ID: "out", Type: "webhook-response", Data: map[string]any{
		"responseBody": "{{response}}",
	}}

	res := WebhookResponseHandler()(context.Background(), node, ec)
	data := mustData(t, res)
	if data["response"] != "hello back" {
		t.Fatalf("response = %v", data["response"])
	}
	if data["statusCode"] != 200 {
		t.Fatalf("statusCode = %v, want default 200", data["statusCode"])
	}
}

// fakeStore records vector calls.
type fakeStore struct {
	created  []string
	upserted []string
	queries  []string
}

func (s *fakeStore) Name() string { return "fake" }

func (s *fakeStore) CreateIndex(_ context.Context, index string, _ int) error {
	s.created = append(s.created, index)
	return nil
}

func (s *fakeStore) UpsertText(_ context.Context, index string, texts []string, _ map[string]any) error {
	s.upserted = append(s.upserted, texts...)
	return nil
}

func (s *fakeStore) Query(_ context.Context, _ string, query string, topK int) ([]vector.Match, error) {
	s.queries = append(s.queries, query)
	return []vector.Match{{ID: "m1", Score: 0.9, Text: "match"}}, nil
}

func TestVectorStoreHandlerOperations(t *testing.T) {
	store := &fakeStore{}
	handler := VectorStoreHandler(store)
	ec := weft.NewExecutionContext("exec_1", map[string]any{"doc": "chunk text"})

	res := handler(context.Background(), &weft.Node{ID: "v", Type: "pinecone-store", Data: map[string]any{
		"operation": "create", "index": "docs",
	}}, ec)
	if data := mustData(t, res); data["created"] != true {
		t.Fatalf("create: %v", data)
	}

	res = handler(context.Background(), &weft.Node{ID: "v", Type: "pinecone-store", Data: map[string]any{
		"index": "docs", "text": "{{doc}}",
	}}, ec)
	mustData(t, res)
	if len(store.upserted) != 1 || store.upserted[0] != "chunk text" {
		t.Fatalf("upserted = %v", store.upserted)
	}

	res = handler(context.Background(), &weft.Node{ID: "v", Type: "pinecone-store", Data: map[string]any{
		"operation": "query", "index": "docs", "query": "chunk",
	}}, ec)
	data := mustData(t, res)
	matches := data["matches"].([]vector.Match)
	if len(matches) != 1 || matches[0].ID != "m1" {
		t.Fatalf("matches = %v", matches)
	}
}

func TestVectorStoreHandlerUnconfigured(t *testing.T) {
	res := VectorStoreHandler(nil)(context.Background(),
		&weft.Node{ID: "v", Type: "pinecone-store", Data: map[string]any{"index": "docs"}},
		weft.NewExecutionContext("exec_1", nil))
	if res.Success || !strings.Contains(res.Error, "no vector store configured") {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestLoaderHandlerUnconfigured(t *testing.T) {
	res := LoaderHandler(nil, "pdf")(context.Background(),
		&weft.Node{ID: "l", Type: "pdf-loader", Data: map[string]any{"source": "x.pdf"}},
		weft.NewExecutionContext("exec_1", nil))
	if res.Success || !strings.Contains(res.Error, "not configured") {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestChatHandlerMissingProvider(t *testing.T) {
	res := ChatHandler(nil, "openai")(context.Background(),
		&weft.Node{ID: "c", Type: "openai-chat", Data: map[string]any{"prompt": "hi"}},
		weft.NewExecutionContext("exec_1", nil))
	if res.Success || !strings.Contains(res.Error, "no chat providers configured") {
		t.Fatalf("unexpected result: %+v", res)
	}
}
