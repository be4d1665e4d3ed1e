// Package templates ships a small catalog of starter workflows the
// editor offers on the blank canvas.
package templates

import "github.com/weftworks/weft/internal/weft"

// Catalog returns the built-in starter workflows. Callers receive
// fresh copies; instantiating a template must not mutate the catalog.
func Catalog() []*weft.Workflow {
	return []*weft.Workflow{
		chatbotTemplate(),
		supportRouterTemplate(),
		documentQATemplate(),
		digestTemplate(),
	}
}

func chatbotTemplate() *weft.Workflow {
	return &weft.Workflow{
		ID:          "tpl_chatbot",
		Name:        "Webhook Chatbot",
		Description: "Answer incoming webhook messages with an AI reply.",
		Nodes: []weft.Node{
			{ID: "trigger", Type: "webhook-trigger", Position: weft.Position{X: 80, Y: 200}},
			{ID: "chat", Type: "openai-chat", Position: weft.Position{X: 360, Y: 200}, Data: map[string]any{
				"model":  "gpt-4o-mini",
				"prompt": "{{message}}",
			}},
			{ID: "respond", Type: "webhook-response", Position: weft.Position{X: 640, Y: 200}, Data: map[string]any{
				"responseBody": "{{response}}",
			}},
		},
		Edges: []weft.Edge{
			{ID: "e1", Source: "trigger", Target: "chat"},
			{ID: "e2", Source: "chat", Target: "respond"},
		},
	}
}

func supportRouterTemplate() *weft.Workflow {
	return &weft.Workflow{
		ID:          "tpl_support_router",
		Name:        "Support Ticket Router",
		Description: "Classify a ticket and escalate urgent ones by email.",
		Nodes: []weft.Node{
			{ID: "trigger", Type: "webhook-trigger", Position: weft.Position{X: 80, Y: 200}},
			{ID: "classify", Type: "ai-agent", Position: weft.Position{X: 360, Y: 200}, Data: map[string]any{
				"provider":     "openai",
				"model":        "gpt-4o-mini",
				"systemPrompt": "Reply with exactly one word: urgent or routine.",
				"prompt":       "{{ticket}}",
			}},
			{ID: "gate", Type: "conditional", Position: weft.Position{X: 640, Y: 200}, Data: map[string]any{
				"condition": `"{{response}}" == "urgent"`,
			}},
			{ID: "escalate", Type: "email", Position: weft.Position{X: 920, Y: 120}, Data: map[string]any{
				"to":      "oncall@example.com",
				"subject": "Urgent ticket",
				"body":    "{{ticket}}",
			}},
			{ID: "ack", Type: "webhook-response", Position: weft.Position{X: 920, Y: 280}, Data: map[string]any{
				"responseBody": "queued",
			}},
		},
		Edges: []weft.Edge{
			{ID: "e1", Source: "trigger", Target: "classify"},
			{ID: "e2", Source: "classify", Target: "gate"},
			{ID: "e3", Source: "gate", Target: "escalate", SourceHandle: "true"},
			{ID: "e4", Source: "gate", Target: "ack", SourceHandle: "false"},
		},
	}
}

func documentQATemplate() *weft.Workflow {
	return &weft.Workflow{
		ID:          "tpl_document_qa",
		Name:        "Document Q&A",
		Description: "Load a PDF, index it, and answer a question about it.",
		Nodes: []weft.Node{
			{ID: "trigger", Type: "manual-trigger", Position: weft.Position{X: 80, Y: 200}},
			{ID: "load", Type: "pdf-loader", Position: weft.Position{X: 360, Y: 200}, Data: map[string]any{
				"source": "{{document}}",
			}},
			{ID: "index", Type: "pinecone-store", Position: weft.Position{X: 640, Y: 200}, Data: map[string]any{
				"operation": "store",
				"index":     "documents",
				"text":      "{{content}}",
			}},
			{ID: "answer", Type: "openai-chat", Position: weft.Position{X: 920, Y: 200}, Data: map[string]any{
				"model":        "gpt-4o-mini",
				"systemPrompt": "Answer using only the provided document.",
				"prompt":       "Document:\n{{content}}\n\nQuestion: {{question}}",
			}},
		},
		Edges: []weft.Edge{
			{ID: "e1", Source: "trigger", Target: "load"},
			{ID: "e2", Source: "load", Target: "index"},
			{ID: "e3", Source: "index", Target: "answer"},
		},
	}
}

func digestTemplate() *weft.Workflow {
	return &weft.Workflow{
		ID:          "tpl_daily_digest",
		Name:        "Daily Feed Digest",
		Description: "Summarize an RSS feed every morning and email the digest.",
		Nodes: []weft.Node{
			{ID: "trigger", Type: "schedule-trigger", Position: weft.Position{X: 80, Y: 200}, Data: map[string]any{
				"cron": "0 8 * * *",
			}},
			{ID: "feed", Type: "tool", Position: weft.Position{X: 360, Y: 200}, Data: map[string]any{
				"type": "rss-feed",
				"url":  "https://example.com/feed.xml",
			}},
			{ID: "summarize", Type: "openai-chat", Position: weft.Position{X: 640, Y: 200}, Data: map[string]any{
				"model":  "gpt-4o-mini",
				"prompt": "Summarize these headlines:\n{{output}}",
			}},
			{ID: "send", Type: "email", Position: weft.Position{X: 920, Y: 200}, Data: map[string]any{
				"to":      "team@example.com",
				"subject": "Daily digest",
				"body":    "{{response}}",
			}},
		},
		Edges: []weft.Edge{
			{ID: "e1", Source: "trigger", Target: "feed"},
			{ID: "e2", Source: "feed", Target: "summarize"},
			{ID: "e3", Source: "summarize", Target: "send"},
		},
	}
}
