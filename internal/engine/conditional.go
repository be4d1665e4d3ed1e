package engine

import (
	"context"

	"github.com/expr-lang/expr"

	"github.com/weftworks/weft/internal/interp"
	"github.com/weftworks/weft/internal/weft"
)

// ConditionalHandler evaluates a boolean expression against the
// accumulated context. {{key}} references resolve before compilation,
// and bare identifiers resolve against variables and node results.
// Compile and evaluation errors are handler failures, never crashes.
func ConditionalHandler() HandlerFunc {
	return func(_ context.Context, node *weft.Node, ec *weft.ExecutionContext) weft.NodeResult {
		raw := node.StringData("condition")
		if raw == "" {
			return weft.Failf("conditional node %q has no condition configured", node.ID)
		}

		resolved := interp.Interpolate(raw, ec)
		env := ec.Env()

		program, err := expr.Compile(resolved, expr.Env(env))
		if err != nil {
			return weft.Failf("compile condition %q: %v", raw, err)
		}
		out, err := expr.Run(program, env)
		if err != nil {
			return weft.Failf("evaluate condition %q: %v", raw, err)
		}

		return weft.Succeed(map[string]any{
			"condition":         isTruthy(out),
			"originalCondition": raw,
		})
	}
}

// isTruthy converts an expression result to a boolean.
func isTruthy(v any) bool {
	if v == nil {
		return false
	}
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return val != ""
	case int:
		return val != 0
	case int64:
		return val != 0
	case float64:
		return val != 0
	default:
		return true
	}
}
