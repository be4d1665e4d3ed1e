package repository

import (
	"context"
	"log/slog"

	"github.com/weftworks/weft/internal/db"
	"github.com/weftworks/weft/internal/weft"
)

// PersistentExecutionRepository wraps a MemoryExecutionRepository with
// a PostgreSQL backend, mirroring PersistentWorkflowRepository's
// write-through / memory-first policy.
type PersistentExecutionRepository struct {
	mem *MemoryExecutionRepository
	db  *db.DB
}

func NewPersistentExecutionRepository(mem *MemoryExecutionRepository, database *db.DB) *PersistentExecutionRepository {
	return &PersistentExecutionRepository{mem: mem, db: database}
}

func (r *PersistentExecutionRepository) Create(ctx context.Context, exec *weft.Execution) error {
	_ = r.mem.Create(ctx, exec)
	if err := r.db.CreateExecution(ctx, exec); err != nil {
		slog.Warn("db create execution failed, in-memory only", "execution_id", exec.ID, "err", err)
	}
	return nil
}

func (r *PersistentExecutionRepository) Get(ctx context.Context, id string) (*weft.Execution, error) {
	rec, err := r.mem.Get(ctx, id)
	if err == nil {
		return rec, nil
	}

	dbRec, dbErr := r.db.GetExecution(ctx, id)
	if dbErr != nil {
		return nil, err // original ErrNotFound
	}
	_ = r.mem.Create(ctx, dbRec)
	return dbRec, nil
}

func (r *PersistentExecutionRepository) Update(ctx context.Context, exec *weft.Execution) error {
	_ = r.mem.Update(ctx, exec)
	if err := r.db.UpdateExecution(ctx, exec); err != nil {
		slog.Warn("db update execution failed, in-memory only", "execution_id", exec.ID, "err", err)
	}
	return nil
}

func (r *PersistentExecutionRepository) ListByWorkflow(ctx context.Context, workflowID string, limit, offset int) ([]*weft.Execution, int, error) {
	execs, total, err := r.db.ListExecutionsByWorkflow(ctx, workflowID, limit, offset)
	if err == nil {
		return execs, total, nil
	}
	slog.Warn("db list executions failed, falling back to in-memory", "err", err)
	return r.mem.ListByWorkflow(ctx, workflowID, limit, offset)
}
