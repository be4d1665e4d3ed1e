package sandbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dop251/goja"
)

// JSRunner runs JavaScript in an embedded goja interpreter. Each run
// gets a fresh VM with only "variables" and "results" bound, so
// scripts cannot reach the host or each other.
type JSRunner struct {
	Timeout time.Duration
}

func (j *JSRunner) Language() string { return "javascript" }

func (j *JSRunner) Run(ctx context.Context, code string, variables, results map[string]any) (any, error) {
	timeout := j.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	vm := goja.New()
	if err := vm.Set("variables", variables); err != nil {
		return nil, fmt.Errorf("bind variables: %w", err)
	}
	if err := vm.Set("results", results); err != nil {
		return nil, fmt.Errorf("bind results: %w", err)
	}

	timer := time.AfterFunc(timeout, func() { vm.Interrupt("script timeout") })
	defer timer.Stop()
	stop := context.AfterFunc(ctx, func() { vm.Interrupt("execution cancelled") })
	defer stop()

	// Wrap in a function so scripts can use return statements.
	val, err := vm.RunString("(function(variables, results) {\n" + code + "\n})(variables, results)")
	if err != nil {
		if _, ok := err.(*goja.InterruptedError); ok {
			return nil, fmt.Errorf("script interrupted: %s", err)
		}
		return nil, fmt.Errorf("script error: %w", err)
	}

	return normalize(val.Export())
}

// normalize round-trips the exported value through JSON so handlers
// downstream see plain maps, slices, and float64s.
func normalize(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("script returned non-serializable value: %w", err)
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}
