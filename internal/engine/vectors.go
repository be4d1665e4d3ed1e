package engine

import (
	"context"

	"github.com/weftworks/weft/internal/interp"
	"github.com/weftworks/weft/internal/vector"
	"github.com/weftworks/weft/internal/weft"
)

// VectorStoreHandler backs the vector database node types. The node's
// "operation" field selects what to do: create an index, store text
// or run a similarity query.
func VectorStoreHandler(store vector.Store) HandlerFunc {
	return func(ctx context.Context, node *weft.Node, ec *weft.ExecutionContext) weft.NodeResult {
		if store == nil {
			return weft.Failf("no vector store configured for node type %s", node.Type)
		}

		index := interp.Interpolate(firstString(node, "index", "indexName", "collection"), ec)
		if index == "" {
			return weft.Failf("%s node %q has no index configured", node.Type, node.ID)
		}

		op := node.StringData("operation")
		if op == "" {
			op = "store"
		}

		switch op {
		case "create":
			dimension := 1536
			if d, ok := intData(node, "dimension"); ok {
				dimension = d
			}
			if err := store.CreateIndex(ctx, index, dimension); err != nil {
				return weft.Failf("create index %s: %v", index, err)
			}
			return weft.Succeed(map[string]any{"index": index, "created": true})

		case "store":
			text := interp.Interpolate(firstString(node, "text", "content"), ec)
			if text == "" {
				return weft.Failf("%s node %q has no text to store", node.Type, node.ID)
			}
			metadata := map[string]any{"workflow_execution": ec.ExecutionID}
			if err := store.UpsertText(ctx, index, []string{text}, metadata); err != nil {
				return weft.Failf("store text in %s: %v", index, err)
			}
			return weft.Succeed(map[string]any{"index": index, "stored": 1})

		case "query":
			query := interp.Interpolate(firstString(node, "query", "text"), ec)
			if query == "" {
				return weft.Failf("%s node %q has no query text", node.Type, node.ID)
			}
			topK := 5
			if k, ok := intData(node, "topK"); ok {
				topK = k
			}
			matches, err := store.Query(ctx, index, query, topK)
			if err != nil {
				return weft.Failf("query %s: %v", index, err)
			}
			return weft.Succeed(map[string]any{"index": index, "matches": matches})

		default:
			return weft.Failf("unsupported vector operation: %s", op)
		}
	}
}
