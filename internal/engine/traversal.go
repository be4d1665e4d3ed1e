package engine

import (
	"context"
	"strconv"

	"github.com/weftworks/weft/internal/weft"
)

// noStartNodeMsg is the exact failure message for graphs where every
// node has an incoming edge.
const noStartNodeMsg = "No start node found in workflow"

// StartNode returns the first node with no incoming edge, in node
// slice order. Additional in-degree-zero nodes are ignored; only one
// entry point runs per execution.
func StartNode(nodes []weft.Node, edges []weft.Edge) (*weft.Node, bool) {
	incoming := make(map[string]int, len(nodes))
	for _, e := range edges {
		incoming[e.Target]++
	}
	for i := range nodes {
		if incoming[nodes[i].ID] == 0 {
			return &nodes[i], true
		}
	}
	return nil, false
}

// ExecuteFrom walks the graph depth-first from node, invoking each
// node's handler and recording its result into the shared context.
//
// Semantics:
//   - A handler failure aborts immediately; no further nodes run.
//   - Sibling branches run sequentially in edge order; all branches
//     share one context, so later branches see earlier results.
//   - A node reached via a second incoming edge is not re-executed;
//     each node runs at most once per execution.
//   - Edges pointing at unknown node ids are skipped.
//
// The returned result is the last node's data on the walked path.
func (e *Engine) ExecuteFrom(ctx context.Context, node *weft.Node, nodes []weft.Node, edges []weft.Edge, ec *weft.ExecutionContext) weft.NodeResult {
	byID := make(map[string]*weft.Node, len(nodes))
	for i := range nodes {
		byID[nodes[i].ID] = &nodes[i]
	}
	return e.executeFrom(ctx, node, byID, edges, ec)
}

func (e *Engine) executeFrom(ctx context.Context, node *weft.Node, byID map[string]*weft.Node, edges []weft.Edge, ec *weft.ExecutionContext) weft.NodeResult {
	if err := ctx.Err(); err != nil {
		return weft.Failf("execution aborted: %v", err)
	}

	if data, ok := ec.Result(node.ID); ok {
		// Already ran via another incoming edge.
		return weft.Succeed(data)
	}

	result := e.registry.Execute(ctx, node, ec)
	if !result.Success {
		return result
	}
	ec.SetResult(node.ID, result.Data)

	final := result
	for _, edge := range outgoingEdges(edges, node.ID, result.Data) {
		target, ok := byID[edge.Target]
		if !ok {
			// Dangling edge: a validation concern, not a runtime failure.
			continue
		}
		branch := e.executeFrom(ctx, target, byID, edges, ec)
		if !branch.Success {
			return branch
		}
		final = branch
	}
	return final
}

// outgoingEdges returns a node's outgoing edges. When the node's
// result carries a boolean "condition", edges tagged with a
// "true"/"false" source handle fire only on a match; untagged edges
// always fire.
func outgoingEdges(edges []weft.Edge, nodeID string, data any) []weft.Edge {
	cond, hasCond := conditionOf(data)
	var out []weft.Edge
	for _, e := range edges {
		if e.Source != nodeID {
			continue
		}
		if hasCond && (e.SourceHandle == "true" || e.SourceHandle == "false") &&
			e.SourceHandle != strconv.FormatBool(cond) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func conditionOf(data any) (bool, bool) {
	m, ok := data.(map[string]any)
	if !ok {
		return false, false
	}
	c, ok := m["condition"].(bool)
	return c, ok
}
