package weft

import "testing"

func TestExecutionContext_Lookup_VariablesFirst(t *testing.T) {
	ec := NewExecutionContext("exec_1", map[string]any{"name": "Ana"})
	ec.SetResult("node-1", map[string]any{"name": "shadowed"})

	v, ok := ec.Lookup("name")
	if !ok {
		t.Fatal("expected lookup hit")
	}
	if v != "Ana" {
		t.Errorf("Lookup(name) = %v, want Ana", v)
	}
}

func TestExecutionContext_Lookup_ResultFieldsNewestFirst(t *testing.T) {
	ec := NewExecutionContext("exec_1", nil)
	ec.SetResult("chat-1", map[string]any{"response": "first"})
	ec.SetResult("chat-2", map[string]any{"response": "second"})

	v, ok := ec.Lookup("response")
	if !ok {
		t.Fatal("expected lookup hit")
	}
	if v != "second" {
		t.Errorf("Lookup(response) = %v, want second", v)
	}
}

func TestExecutionContext_Lookup_NodeIDBeforeFields(t *testing.T) {
	ec := NewExecutionContext("exec_1", nil)
	ec.SetResult("summary", "by id")
	ec.SetResult("other", map[string]any{"summary": "by field"})

	v, _ := ec.Lookup("summary")
	if v != "by id" {
		t.Errorf("Lookup(summary) = %v, want by id", v)
	}
}

func TestExecutionContext_Results_ReturnsCopy(t *testing.T) {
	ec := NewExecutionContext("exec_1", nil)
	ec.SetResult("a", 1)

	snapshot := ec.Results()
	snapshot["b"] = 2

	if _, ok := ec.Result("b"); ok {
		t.Error("mutating the snapshot leaked into the context")
	}
}

func TestExecutionContext_SetResult_KeepsOrderOnOverwrite(t *testing.T) {
	ec := NewExecutionContext("exec_1", nil)
	ec.SetResult("a", map[string]any{"v": "old"})
	ec.SetResult("b", map[string]any{"v": "newer"})
	ec.SetResult("a", map[string]any{"v": "overwritten"})

	v, _ := ec.Lookup("v")
	if v != "newer" {
		t.Errorf("Lookup(v) = %v, want newer (overwrite must not promote a)", v)
	}
}
