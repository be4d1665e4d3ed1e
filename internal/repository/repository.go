// Package repository defines storage interfaces for domain entities,
// with in-memory implementations for database-less deployments and
// PostgreSQL-backed ones for durable installs. The engine is agnostic
// to which is active.
package repository

import (
	"context"
	"errors"

	"github.com/weftworks/weft/internal/weft"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// WorkflowRepository abstracts workflow persistence.
type WorkflowRepository interface {
	Create(ctx context.Context, wf *weft.Workflow) error
	Get(ctx context.Context, id string) (*weft.Workflow, error)
	List(ctx context.Context) ([]*weft.Workflow, error)
	Update(ctx context.Context, id string, wf *weft.Workflow) error
	// Delete removes the workflow. Its executions are deliberately
	// left in place as orphaned history.
	Delete(ctx context.Context, id string) error
}

// ExecutionRepository abstracts persistence for execution records.
type ExecutionRepository interface {
	Create(ctx context.Context, exec *weft.Execution) error
	Get(ctx context.Context, id string) (*weft.Execution, error)
	Update(ctx context.Context, exec *weft.Execution) error
	// ListByWorkflow returns executions newest-first with the total
	// count before pagination.
	ListByWorkflow(ctx context.Context, workflowID string, limit, offset int) ([]*weft.Execution, int, error)
}
