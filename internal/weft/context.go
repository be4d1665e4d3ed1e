package weft

// ExecutionContext is the mutable per-run bag of input variables and
// accumulated node results. It is owned exclusively by the single
// traversal that created it and must not be retained after the run
// completes. It is not safe for concurrent use; each execution builds
// its own instance.
type ExecutionContext struct {
	ExecutionID string
	Variables   map[string]any

	results map[string]any
	order   []string // node ids in completion order
}

// NewExecutionContext builds a context seeded with the run's input.
func NewExecutionContext(executionID string, variables map[string]any) *ExecutionContext {
	if variables == nil {
		variables = map[string]any{}
	}
	return &ExecutionContext{
		ExecutionID: executionID,
		Variables:   variables,
		results:     map[string]any{},
	}
}

// SetResult records a node's result data. Re-setting a node id
// overwrites its data but keeps its original completion position.
func (c *ExecutionContext) SetResult(nodeID string, data any) {
	if _, ok := c.results[nodeID]; !ok {
		c.order = append(c.order, nodeID)
	}
	c.results[nodeID] = data
}

// Result returns the recorded data for a node id.
func (c *ExecutionContext) Result(nodeID string) (any, bool) {
	v, ok := c.results[nodeID]
	return v, ok
}

// Results returns a copy of the accumulated result map, keyed by
// node id.
func (c *ExecutionContext) Results() map[string]any {
	out := make(map[string]any, len(c.results))
	for k, v := range c.results {
		out[k] = v
	}
	return out
}

// Lookup resolves a flat key for interpolation: input variables first,
// then node results by id, then fields inside node result maps, most
// recently completed node first.
func (c *ExecutionContext) Lookup(key string) (any, bool) {
	if v, ok := c.Variables[key]; ok {
		return v, true
	}
	if v, ok := c.results[key]; ok {
		return v, true
	}
	for i := len(c.order) - 1; i >= 0; i-- {
		if m, ok := c.results[c.order[i]].(map[string]any); ok {
			if v, ok := m[key]; ok {
				return v, true
			}
		}
	}
	return nil, false
}

// Env flattens the context into an evaluation environment for
// expression and script nodes: node results merged under their ids,
// input variables taking precedence on key collisions.
func (c *ExecutionContext) Env() map[string]any {
	env := make(map[string]any, len(c.results)+len(c.Variables))
	for k, v := range c.results {
		env[k] = v
	}
	for k, v := range c.Variables {
		env[k] = v
	}
	return env
}
