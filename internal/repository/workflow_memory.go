package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/weftworks/weft/internal/weft"
)

// MemoryWorkflowRepository stores workflows in process memory.
type MemoryWorkflowRepository struct {
	mu        sync.RWMutex
	workflows map[string]*weft.Workflow
}

func NewMemoryWorkflowRepository() *MemoryWorkflowRepository {
	return &MemoryWorkflowRepository{workflows: make(map[string]*weft.Workflow)}
}

func (r *MemoryWorkflowRepository) Create(_ context.Context, wf *weft.Workflow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.workflows[wf.ID] = copyWorkflow(wf)
	return nil
}

func (r *MemoryWorkflowRepository) Get(_ context.Context, id string) (*weft.Workflow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	wf, ok := r.workflows[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyWorkflow(wf), nil
}

func (r *MemoryWorkflowRepository) List(_ context.Context) ([]*weft.Workflow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*weft.Workflow, 0, len(r.workflows))
	for _, wf := range r.workflows {
		result = append(result, copyWorkflow(wf))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (r *MemoryWorkflowRepository) Update(_ context.Context, id string, wf *weft.Workflow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.workflows[id]; !ok {
		return ErrNotFound
	}
	cp := copyWorkflow(wf)
	cp.ID = id
	r.workflows[id] = cp
	return nil
}

// copyWorkflow detaches a workflow from the caller: nodes, edges
// and node data maps are cloned so mutating a stored or returned
// workflow never reaches the other side.
func copyWorkflow(wf *weft.Workflow) *weft.Workflow {
	cp := *wf
	if wf.Nodes != nil {
		cp.Nodes = make([]weft.Node, len(wf.Nodes))
		for i, n := range wf.Nodes {
			if n.Data != nil {
				data := make(map[string]any, len(n.Data))
				for k, v := range n.Data {
					data[k] = v
				}
				n.Data = data
			}
			cp.Nodes[i] = n
		}
	}
	if wf.Edges != nil {
		cp.Edges = append([]weft.Edge(nil), wf.Edges...)
	}
	return &cp
}

func (r *MemoryWorkflowRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.workflows[id]; !ok {
		return ErrNotFound
	}
	delete(r.workflows, id)
	return nil
}
