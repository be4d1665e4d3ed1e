package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/weftworks/weft/internal/interp"
	"github.com/weftworks/weft/internal/notify"
	"github.com/weftworks/weft/internal/weft"
)

// MergeHandler joins sibling branches by exposing every prior node
// result under "merged". It performs no filtering.
func MergeHandler() HandlerFunc {
	return func(_ context.Context, _ *weft.Node, ec *weft.ExecutionContext) weft.NodeResult {
		return weft.Succeed(map[string]any{"merged": ec.Results()})
	}
}

// EmailHandler interpolates the message fields and hands delivery to
// the sender registry. By default a delivery error is logged and the
// node still succeeds; set failOnError in the node data to abort the
// run instead.
func EmailHandler(senders *notify.SenderRegistry) HandlerFunc {
	return func(ctx context.Context, node *weft.Node, ec *weft.ExecutionContext) weft.NodeResult {
		msg := notify.Message{
			To:      interp.Interpolate(node.StringData("to"), ec),
			Subject: interp.Interpolate(node.StringData("subject"), ec),
			Body:    interp.Interpolate(node.StringData("body"), ec),
		}
		if msg.To == "" {
			return weft.Failf("email node %q has no recipient configured", node.ID)
		}

		channel := node.StringData("channel")
		if channel == "" {
			channel = "smtp"
		}

		var sendErr error
		if senders == nil {
			sendErr = fmt.Errorf("no delivery channels configured")
		} else {
			sendErr = senders.Send(ctx, channel, msg)
		}
		if sendErr != nil {
			if boolData(node, "failOnError") {
				return weft.Failf("send email: %v", sendErr)
			}
			slog.Warn("email delivery failed", "node_id", node.ID, "to", msg.To, "err", sendErr)
			return weft.Succeed(map[string]any{"sent": false, "to": msg.To, "error": sendErr.Error()})
		}

		return weft.Succeed(map[string]any{"sent": true, "to": msg.To, "subject": msg.Subject})
	}
}

// WebhookResponseHandler shapes the run's outward reply from a body
// template. The interpolated body becomes the node's "response".
func WebhookResponseHandler() HandlerFunc {
	return func(_ context.Context, node *weft.Node, ec *weft.ExecutionContext) weft.NodeResult {
		tmpl := firstString(node, "responseBody", "body")
		body := interp.Interpolate(tmpl, ec)

		status := 200
		if s, ok := intData(node, "statusCode"); ok {
			status = s
		}

		return weft.Succeed(map[string]any{
			"response":   body,
			"statusCode": status,
		})
	}
}
