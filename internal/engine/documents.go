package engine

import (
	"context"

	"github.com/weftworks/weft/internal/extract"
	"github.com/weftworks/weft/internal/interp"
	"github.com/weftworks/weft/internal/weft"
)

// LoaderHandler backs the document loader node types. The source may
// be a local path or a URL and is interpolated before extraction.
func LoaderHandler(ex *extract.Extractor, kind extract.Kind) HandlerFunc {
	return func(ctx context.Context, node *weft.Node, ec *weft.ExecutionContext) weft.NodeResult {
		if ex == nil {
			return weft.Failf("document extraction is not configured")
		}

		source := interp.Interpolate(firstString(node, "source", "url", "path"), ec)
		if source == "" {
			return weft.Failf("%s node %q has no source configured", node.Type, node.ID)
		}

		doc, err := ex.Extract(ctx, kind, source)
		if err != nil {
			return weft.Failf("extract %s: %v", source, err)
		}

		return weft.Succeed(map[string]any{
			"content":  doc.Content,
			"source":   source,
			"metadata": doc.Metadata,
		})
	}
}
