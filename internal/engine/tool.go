package engine

import (
	"context"

	"github.com/weftworks/weft/internal/interp"
	"github.com/weftworks/weft/internal/tools"
	"github.com/weftworks/weft/internal/weft"
)

// ToolHandler backs generic "tool" nodes. The node's data carries a
// "type" field naming the tool; all other string fields are
// interpolated and passed through as the tool input.
func ToolHandler(reg *tools.Registry) HandlerFunc {
	return func(ctx context.Context, node *weft.Node, ec *weft.ExecutionContext) weft.NodeResult {
		if reg == nil {
			return weft.Failf("no tools configured")
		}

		name := node.StringData("type")
		if name == "" {
			return weft.Failf("tool node %q has no tool type configured", node.ID)
		}

		input := make(map[string]any, len(node.Data))
		for key, val := range node.Data {
			if key == "type" {
				continue
			}
			if s, ok := val.(string); ok {
				input[key] = interp.Interpolate(s, ec)
			} else {
				input[key] = val
			}
		}

		out, err := reg.Execute(ctx, name, input)
		if err != nil {
			return weft.Failf("tool %s: %v", name, err)
		}
		return weft.Succeed(map[string]any{"tool": name, "output": out})
	}
}
