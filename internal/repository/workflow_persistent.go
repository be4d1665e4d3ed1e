package repository

import (
	"context"
	"log/slog"

	"github.com/weftworks/weft/internal/db"
	"github.com/weftworks/weft/internal/weft"
)

// PersistentWorkflowRepository wraps a MemoryWorkflowRepository with a
// PostgreSQL backend. Writes go to both stores (a DB failure is logged
// but non-fatal); reads try memory first and fall back to the
// database.
type PersistentWorkflowRepository struct {
	mem *MemoryWorkflowRepository
	db  *db.DB
}

func NewPersistentWorkflowRepository(mem *MemoryWorkflowRepository, database *db.DB) *PersistentWorkflowRepository {
	return &PersistentWorkflowRepository{mem: mem, db: database}
}

func (r *PersistentWorkflowRepository) Create(ctx context.Context, wf *weft.Workflow) error {
	_ = r.mem.Create(ctx, wf)
	if err := r.db.CreateWorkflow(ctx, wf); err != nil {
		slog.Warn("db create workflow failed, in-memory only", "workflow_id", wf.ID, "err", err)
	}
	return nil
}

func (r *PersistentWorkflowRepository) Get(ctx context.Context, id string) (*weft.Workflow, error) {
	wf, err := r.mem.Get(ctx, id)
	if err == nil {
		return wf, nil
	}

	dbWf, dbErr := r.db.GetWorkflow(ctx, id)
	if dbErr != nil {
		return nil, err // original ErrNotFound
	}
	_ = r.mem.Create(ctx, dbWf)
	return dbWf, nil
}

func (r *PersistentWorkflowRepository) List(ctx context.Context) ([]*weft.Workflow, error) {
	wfs, err := r.db.ListWorkflows(ctx)
	if err == nil {
		return wfs, nil
	}
	slog.Warn("db list workflows failed, falling back to in-memory", "err", err)
	return r.mem.List(ctx)
}

func (r *PersistentWorkflowRepository) Update(ctx context.Context, id string, wf *weft.Workflow) error {
	wf.ID = id
	if err := r.mem.Update(ctx, id, wf); err != nil {
		// Not cached yet; seed memory so later reads hit.
		_ = r.mem.Create(ctx, wf)
	}
	if err := r.db.UpdateWorkflow(ctx, wf); err != nil {
		slog.Warn("db update workflow failed, in-memory only", "workflow_id", id, "err", err)
	}
	return nil
}

func (r *PersistentWorkflowRepository) Delete(ctx context.Context, id string) error {
	memErr := r.mem.Delete(ctx, id)
	if err := r.db.DeleteWorkflow(ctx, id); err != nil {
		slog.Warn("db delete workflow failed", "workflow_id", id, "err", err)
		return memErr
	}
	return nil
}
