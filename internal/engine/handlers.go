package engine

import (
	"github.com/weftworks/weft/internal/extract"
	"github.com/weftworks/weft/internal/weft"
)

// registerBuiltins wires every built-in node type against the
// engine's collaborators. Handlers for collaborators that were not
// injected still register; they fail cleanly at execution time with a
// configuration message.
func registerBuiltins(reg *Registry, deps Deps) {
	reg.Register("manual-trigger", TriggerHandler())
	reg.Register("webhook-trigger", TriggerHandler())
	reg.Register("schedule-trigger", ScheduleTriggerHandler(deps.Now))

	reg.Register("openai-chat", ChatHandler(deps.Providers, "openai"))
	reg.Register("ai-agent", AgentHandler(deps.Providers))

	reg.Register("conditional", ConditionalHandler())
	reg.Register("code", CodeHandler(deps.Sandboxes))
	reg.Register("merge", MergeHandler())

	reg.Register("email", EmailHandler(deps.Senders))
	reg.Register("webhook-response", WebhookResponseHandler())

	reg.Register("pdf-loader", LoaderHandler(deps.Extractor, extract.KindPDF))
	reg.Register("csv-loader", LoaderHandler(deps.Extractor, extract.KindCSV))
	reg.Register("xlsx-loader", LoaderHandler(deps.Extractor, extract.KindXLSX))
	reg.Register("url-scraper", LoaderHandler(deps.Extractor, extract.KindURL))

	reg.Register("pinecone-store", VectorStoreHandler(deps.Vectors["pinecone"]))
	reg.Register("weaviate-store", VectorStoreHandler(deps.Vectors["weaviate"]))

	reg.Register("tool", ToolHandler(deps.Tools))
}

// firstString returns the first non-empty string among the named data
// fields.
func firstString(node *weft.Node, keys ...string) string {
	for _, key := range keys {
		if s := node.StringData(key); s != "" {
			return s
		}
	}
	return ""
}

// intData reads a numeric data field. JSON decoding delivers float64.
func intData(node *weft.Node, key string) (int, bool) {
	switch v := node.Data[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	default:
		return 0, false
	}
}

func floatData(node *weft.Node, key string) (float64, bool) {
	switch v := node.Data[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

func boolData(node *weft.Node, key string) bool {
	b, _ := node.Data[key].(bool)
	return b
}
