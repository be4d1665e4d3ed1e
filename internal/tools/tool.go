// Package tools hosts the generic tool adapters that back "tool"
// workflow nodes: small, single-capability clients for external
// services.
package tools

import (
	"context"
	"fmt"
	"sync"
)

// Tool performs one external capability against a config map whose
// string fields have already been interpolated by the engine.
type Tool interface {
	Name() string
	Execute(ctx context.Context, input map[string]any) (any, error)
}

// Registry maps tool names to implementations.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

func (r *Registry) Register(t Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[t.Name()] = t
}

func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Execute dispatches to the named tool. Unknown names are an error so
// the calling handler can report a clean failure.
func (r *Registry) Execute(ctx context.Context, name string, input map[string]any) (any, error) {
	t, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
	return t.Execute(ctx, input)
}
