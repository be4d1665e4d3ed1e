package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/weftworks/weft/internal/extract"
	"github.com/weftworks/weft/internal/notify"
	"github.com/weftworks/weft/internal/provider"
	"github.com/weftworks/weft/internal/repository"
	"github.com/weftworks/weft/internal/sandbox"
	"github.com/weftworks/weft/internal/tools"
	"github.com/weftworks/weft/internal/vector"
	"github.com/weftworks/weft/internal/weft"
)

// ErrExecutionFailed marks a workflow-level failure, as opposed to a
// storage or infrastructure error. The failed execution record carries
// the detail.
var ErrExecutionFailed = errors.New("workflow execution failed")

// Deps are the collaborators an Engine needs. Every collaborator must
// be safe for concurrent use by multiple in-flight executions.
type Deps struct {
	Executions repository.ExecutionRepository
	Providers  *provider.Registry
	Extractor  *extract.Extractor
	Vectors    map[string]vector.Store   // keyed by store kind
	Tools      *tools.Registry
	Sandboxes  map[string]sandbox.Runner // keyed by language
	Senders    *notify.SenderRegistry

	// Timeout bounds one execution end to end. Zero means no deadline.
	Timeout time.Duration

	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

// Engine runs workflow graphs. Construct one per process with New and
// inject it where needed; there is no package-level instance.
type Engine struct {
	registry   *Registry
	executions repository.ExecutionRepository
	timeout    time.Duration
	now        func() time.Time
}

// New builds an Engine with all built-in handlers registered.
func New(deps Deps) *Engine {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	e := &Engine{
		registry:   NewRegistry(),
		executions: deps.Executions,
		timeout:    deps.Timeout,
		now:        deps.Now,
	}
	registerBuiltins(e.registry, deps)
	return e
}

// Registry exposes the handler registry so callers can add custom
// node types.
func (e *Engine) Registry() *Registry { return e.registry }

// ExecuteWorkflow runs a workflow graph to completion.
//
// It creates a running execution record, walks the graph from the
// start node, and transitions the record exactly once to completed or
// failed before returning. A workflow-level failure returns the
// failed record together with an error wrapping ErrExecutionFailed;
// storage errors while creating the record return a nil record.
func (e *Engine) ExecuteWorkflow(ctx context.Context, workflowID string, nodes []weft.Node, edges []weft.Edge, input map[string]any) (*weft.Execution, error) {
	if input == nil {
		input = map[string]any{}
	}

	exec := &weft.Execution{
		ID:         "exec_" + uuid.NewString(),
		WorkflowID: workflowID,
		Status:     weft.ExecutionRunning,
		Input:      input,
		StartedAt:  e.now().UTC(),
	}
	if err := e.executions.Create(ctx, exec); err != nil {
		return nil, fmt.Errorf("create execution record: %w", err)
	}

	runCtx := ctx
	if e.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	ec := weft.NewExecutionContext(exec.ID, input)

	start, ok := StartNode(nodes, edges)
	if !ok {
		return e.fail(ctx, exec, noStartNodeMsg)
	}

	slog.Info("workflow execution started",
		"workflow_id", workflowID, "execution_id", exec.ID, "start_node", start.ID)

	// The traversal is raced against the run deadline: a handler that
	// ignores cancellation cannot hold the execution record open past
	// it. The abandoned goroutine owns ec and is never rejoined.
	resultCh := make(chan weft.NodeResult, 1)
	go func() {
		resultCh <- e.ExecuteFrom(runCtx, start, nodes, edges, ec)
	}()

	var result weft.NodeResult
	select {
	case result = <-resultCh:
	case <-runCtx.Done():
		return e.fail(ctx, exec, fmt.Sprintf("execution aborted: %v", runCtx.Err()))
	}
	if !result.Success {
		return e.fail(ctx, exec, result.Error)
	}

	now := e.now().UTC()
	exec.Status = weft.ExecutionCompleted
	exec.Output = result.Data
	exec.CompletedAt = &now
	if err := e.executions.Update(context.WithoutCancel(ctx), exec); err != nil {
		return nil, fmt.Errorf("update execution record: %w", err)
	}

	slog.Info("workflow execution completed", "workflow_id", workflowID, "execution_id", exec.ID)
	return exec, nil
}

// fail transitions the record to its terminal failed state. The
// update runs on an uncancellable context so a deadline that killed
// the run cannot also strand the record in running.
func (e *Engine) fail(ctx context.Context, exec *weft.Execution, msg string) (*weft.Execution, error) {
	now := e.now().UTC()
	exec.Status = weft.ExecutionFailed
	exec.Error = &msg
	exec.CompletedAt = &now
	if err := e.executions.Update(context.WithoutCancel(ctx), exec); err != nil {
		return nil, fmt.Errorf("update execution record: %w", err)
	}

	slog.Warn("workflow execution failed",
		"workflow_id", exec.WorkflowID, "execution_id", exec.ID, "error", msg)
	return exec, fmt.Errorf("%w: %s", ErrExecutionFailed, msg)
}
