package engine

import (
	"context"
	"strings"

	"github.com/weftworks/weft/internal/sandbox"
	"github.com/weftworks/weft/internal/weft"
)

// CodeHandler runs the node's script in a per-language sandbox and
// returns the script's value as the node's data. User code never runs
// unrestricted in the host process.
func CodeHandler(runners map[string]sandbox.Runner) HandlerFunc {
	return func(ctx context.Context, node *weft.Node, ec *weft.ExecutionContext) weft.NodeResult {
		code := node.StringData("code")
		if code == "" {
			return weft.Failf("code node %q has no code configured", node.ID)
		}

		lang := strings.ToLower(node.StringData("language"))
		if lang == "" {
			lang = "javascript"
		}
		runner, ok := runners[lang]
		if !ok {
			return weft.Failf("unsupported language: %s", lang)
		}

		out, err := runner.Run(ctx, code, ec.Variables, ec.Results())
		if err != nil {
			return weft.Failf("code execution: %v", err)
		}
		return weft.Succeed(out)
	}
}
