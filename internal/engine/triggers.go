package engine

import (
	"context"
	"time"

	"github.com/weftworks/weft/internal/weft"
)

// TriggerHandler passes the execution's input variables through
// unchanged. Triggers are always the graph's start, so there is
// nothing to interpolate.
func TriggerHandler() HandlerFunc {
	return func(_ context.Context, _ *weft.Node, ec *weft.ExecutionContext) weft.NodeResult {
		data := make(map[string]any, len(ec.Variables))
		for k, v := range ec.Variables {
			data[k] = v
		}
		return weft.Succeed(data)
	}
}

// ScheduleTriggerHandler is TriggerHandler plus a firing timestamp.
func ScheduleTriggerHandler(now func() time.Time) HandlerFunc {
	if now == nil {
		now = time.Now
	}
	return func(_ context.Context, _ *weft.Node, ec *weft.ExecutionContext) weft.NodeResult {
		data := make(map[string]any, len(ec.Variables)+1)
		for k, v := range ec.Variables {
			data[k] = v
		}
		data["triggeredAt"] = now().UTC().Format(time.RFC3339)
		return weft.Succeed(data)
	}
}
