// Package engine executes workflow graphs: it dispatches nodes to
// registered handlers, walks edges depth-first, and owns the
// execution record lifecycle.
package engine

import (
	"context"
	"sync"

	"github.com/weftworks/weft/internal/weft"
)

// HandlerFunc executes a single node against the current execution
// context. Failures are reported in the result; a handler never
// panics past the traversal and never returns a Go error directly —
// collaborator errors are converted at this boundary.
type HandlerFunc func(ctx context.Context, node *weft.Node, ec *weft.ExecutionContext) weft.NodeResult

// Registry maps node type strings to handlers. New node types are
// added by registration, not by editing a dispatch switch.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]HandlerFunc
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]HandlerFunc)}
}

func (r *Registry) Register(nodeType string, fn HandlerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[nodeType] = fn
}

func (r *Registry) Get(nodeType string) (HandlerFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.handlers[nodeType]
	return fn, ok
}

// Types returns the registered node types.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.handlers))
	for t := range r.handlers {
		types = append(types, t)
	}
	return types
}

// Execute dispatches node to its registered handler. Unknown types
// yield a failed result so the traversal reports a clean failure
// instead of crashing.
func (r *Registry) Execute(ctx context.Context, node *weft.Node, ec *weft.ExecutionContext) weft.NodeResult {
	fn, ok := r.Get(node.Type)
	if !ok {
		return weft.Failf("Unknown node type: %s", node.Type)
	}
	return fn(ctx, node, ec)
}
