package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/weftworks/weft/internal/weft"
)

const maxExecutionRecords = 1000

// MemoryExecutionRepository stores execution records in memory with
// FIFO eviction once the cap is reached.
type MemoryExecutionRepository struct {
	mu      sync.RWMutex
	records map[string]*weft.Execution
	order   []string // insertion order for FIFO eviction
}

func NewMemoryExecutionRepository() *MemoryExecutionRepository {
	return &MemoryExecutionRepository{records: make(map[string]*weft.Execution)}
}

func (r *MemoryExecutionRepository) Create(_ context.Context, exec *weft.Execution) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.order) >= maxExecutionRecords {
		oldest := r.order[0]
		r.order = r.order[1:]
		delete(r.records, oldest)
	}

	r.records[exec.ID] = exec
	r.order = append(r.order, exec.ID)
	return nil
}

func (r *MemoryExecutionRepository) Get(_ context.Context, id string) (*weft.Execution, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return rec, nil
}

func (r *MemoryExecutionRepository) Update(_ context.Context, exec *weft.Execution) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[exec.ID]; !ok {
		return ErrNotFound
	}
	r.records[exec.ID] = exec
	return nil
}

func (r *MemoryExecutionRepository) ListByWorkflow(_ context.Context, workflowID string, limit, offset int) ([]*weft.Execution, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var filtered []*weft.Execution
	for _, rec := range r.records {
		if rec.WorkflowID == workflowID {
			filtered = append(filtered, rec)
		}
	}
	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].StartedAt.After(filtered[j].StartedAt)
	})

	total := len(filtered)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return filtered[offset:end], total, nil
}
