package engine

import (
	"context"
	"testing"

	"github.com/weftworks/weft/internal/weft"
)

func TestRegistryDispatch(t *testing.T) {
	reg := NewRegistry()
	reg.Register("echo", func(_ context.Context, node *weft.Node, _ *weft.ExecutionContext) weft.NodeResult {
		return weft.Succeed(map[string]any{"id": node.ID})
	})

	ec := weft.NewExecutionContext("exec_test", nil)
	res := reg.Execute(context.Background(), &weft.Node{ID: "n1", Type: "echo"}, ec)
	if !res.Success {
		t.Fatalf("expected success, got error %q", res.Error)
	}
	data, ok := res.Data.(map[string]any)
	if !ok || data["id"] != "n1" {
		t.Fatalf("unexpected data: %#v", res.Data)
	}
}

func TestRegistryUnknownType(t *testing.T) {
	reg := NewRegistry()
	ec := weft.NewExecutionContext("exec_test", nil)

	res := reg.Execute(context.Background(), &weft.Node{ID: "n1", Type: "does-not-exist"}, ec)
	if res.Success {
		t.Fatal("expected failure for unregistered type")
	}
	if res.Error != "Unknown node type: does-not-exist" {
		t.Fatalf("unexpected error message: %q", res.Error)
	}
}

func TestRegistryOverwrite(t *testing.T) {
	reg := NewRegistry()
	reg.Register("x", func(context.Context, *weft.Node, *weft.ExecutionContext) weft.NodeResult {
		return weft.Succeed("first")
	})
	reg.Register("x", func(context.Context, *weft.Node, *weft.ExecutionContext) weft.NodeResult {
		return weft.Succeed("second")
	})

	res := reg.Execute(context.Background(), &weft.Node{ID: "n", Type: "x"}, weft.NewExecutionContext("e", nil))
	if res.Data != "second" {
		t.Fatalf("expected later registration to win, got %v", res.Data)
	}
}

func TestRegistryTypesIncludeBuiltins(t *testing.T) {
	e := New(Deps{Executions: newFakeExecutionRepo()})

	got := make(map[string]bool)
	for _, typ := range e.Registry().Types() {
		got[typ] = true
	}
	for _, want := range []string{
		"manual-trigger", "webhook-trigger", "schedule-trigger",
		"openai-chat", "ai-agent", "conditional", "code", "merge",
		"email", "webhook-response", "pdf-loader", "csv-loader",
		"xlsx-loader", "url-scraper", "pinecone-store",
		"weaviate-store", "tool",
	} {
		if !got[want] {
			t.Errorf("built-in type %q not registered", want)
		}
	}
}
