// Package weft holds the domain types shared across the engine, the
// storage layer, and the API.
package weft

import "time"

// Position is the editor's canvas placement for a node. The engine
// never reads it.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is a typed unit of work in a workflow graph. Data carries
// handler-specific configuration; execution results live in the
// per-run context, never on the node.
type Node struct {
	ID       string         `json:"id"`
	Type     string         `json:"type"`
	Position Position       `json:"position"`
	Data     map[string]any `json:"data,omitempty"`
}

// StringData returns a string field from the node's data map, or ""
// when absent or not a string.
func (n *Node) StringData(key string) string {
	s, _ := n.Data[key].(string)
	return s
}

// Edge is a directed connection between two nodes. SourceHandle
// disambiguates multi-output nodes, e.g. a conditional's "true" and
// "false" branches.
type Edge struct {
	ID           string `json:"id"`
	Source       string `json:"source"`
	Target       string `json:"target"`
	SourceHandle string `json:"sourceHandle,omitempty"`
	TargetHandle string `json:"targetHandle,omitempty"`
}

// Workflow owns a set of nodes and edges plus metadata. Updates
// replace nodes and edges wholesale.
type Workflow struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Nodes       []Node    `json:"nodes"`
	Edges       []Edge    `json:"edges"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
