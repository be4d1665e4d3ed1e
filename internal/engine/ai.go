package engine

import (
	"context"

	"github.com/weftworks/weft/internal/interp"
	"github.com/weftworks/weft/internal/provider"
	"github.com/weftworks/weft/internal/weft"
)

// ChatHandler calls one fixed provider with the node's interpolated
// prompt. Collaborator errors are converted into handler failures at
// this boundary.
func ChatHandler(providers *provider.Registry, name string) HandlerFunc {
	return func(ctx context.Context, node *weft.Node, ec *weft.ExecutionContext) weft.NodeResult {
		if providers == nil {
			return weft.Failf("no chat providers configured")
		}
		p, ok := providers.Get(name)
		if !ok {
			return weft.Failf("provider %q is not configured", name)
		}
		return chat(ctx, p, node, ec)
	}
}

// AgentHandler is the multi-provider variant: the node's data selects
// which provider answers.
func AgentHandler(providers *provider.Registry) HandlerFunc {
	return func(ctx context.Context, node *weft.Node, ec *weft.ExecutionContext) weft.NodeResult {
		if providers == nil {
			return weft.Failf("no chat providers configured")
		}
		name := node.StringData("provider")
		if name == "" {
			return weft.Failf("agent node %q has no provider configured", node.ID)
		}
		p, ok := providers.Get(name)
		if !ok {
			return weft.Failf("provider %q is not configured", name)
		}
		return chat(ctx, p, node, ec)
	}
}

func chat(ctx context.Context, p provider.Provider, node *weft.Node, ec *weft.ExecutionContext) weft.NodeResult {
	prompt := interp.Interpolate(firstString(node, "prompt", "userMessage", "message"), ec)
	if prompt == "" {
		return weft.Failf("chat node %q has no prompt configured", node.ID)
	}
	system := interp.Interpolate(node.StringData("systemPrompt"), ec)

	req := &provider.ChatRequest{Model: node.StringData("model")}
	if system != "" {
		req.Messages = append(req.Messages, provider.Message{Role: provider.RoleSystem, Content: system})
	}
	req.Messages = append(req.Messages, provider.Message{Role: provider.RoleUser, Content: prompt})

	if t, ok := floatData(node, "temperature"); ok {
		req.Temperature = &t
	}
	if m, ok := intData(node, "maxTokens"); ok {
		req.MaxTokens = &m
	}

	resp, err := p.ChatCompletion(ctx, req)
	if err != nil {
		return weft.Failf("chat completion: %v", err)
	}

	return weft.Succeed(map[string]any{
		"response": resp.Content,
		"model":    req.Model,
		"provider": p.Name(),
	})
}
