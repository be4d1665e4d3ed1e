// Package scheduler fires workflows whose start node is a
// schedule-trigger with a cron expression. It wraps robfig/cron and
// keeps its entries in sync with the workflow repository.
package scheduler

import (
	"context"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/weftworks/weft/internal/repository"
	"github.com/weftworks/weft/internal/weft"
)

// Executor runs one workflow graph to completion.
type Executor interface {
	ExecuteWorkflow(ctx context.Context, workflowID string, nodes []weft.Node, edges []weft.Edge, input map[string]any) (*weft.Execution, error)
}

// Scheduler manages cron entries for schedule-triggered workflows.
type Scheduler struct {
	cron      *cron.Cron
	workflows repository.WorkflowRepository
	executor  Executor
	limiter   *Limiter

	mu      sync.Mutex
	entries map[string]cron.EntryID // workflow ID → cron entry
	exprs   map[string]string       // workflow ID → registered expression
}

func New(workflows repository.WorkflowRepository, executor Executor, limiter *Limiter) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		workflows: workflows,
		executor:  executor,
		limiter:   limiter,
		entries:   make(map[string]cron.EntryID),
		exprs:     make(map[string]string),
	}
}

// Start syncs entries from the repository and begins firing.
func (s *Scheduler) Start(ctx context.Context) error {
	if err := s.Sync(ctx); err != nil {
		slog.Warn("scheduler: initial sync failed", "err", err)
	}
	s.cron.Start()
	slog.Info("scheduler: started")
	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	slog.Info("scheduler: stopped")
}

// Sync reconciles cron entries with the stored workflows: new
// schedule-triggered workflows are registered, changed expressions
// re-registered, and entries for deleted or de-scheduled workflows
// removed. Call after any workflow mutation.
func (s *Scheduler) Sync(ctx context.Context) error {
	list, err := s.workflows.List(ctx)
	if err != nil {
		return err
	}

	want := make(map[string]string) // workflow ID → cron expression
	byID := make(map[string]*weft.Workflow)
	for _, wf := range list {
		if expr, ok := scheduleExpr(wf); ok {
			want[wf.ID] = expr
			byID[wf.ID] = wf
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, entryID := range s.entries {
		if expr, ok := want[id]; ok && expr == s.exprs[id] {
			continue
		}
		s.cron.Remove(entryID)
		delete(s.entries, id)
		delete(s.exprs, id)
	}

	for id, expr := range want {
		if _, ok := s.entries[id]; ok {
			continue
		}
		wf := byID[id]
		entryID, err := s.cron.AddFunc(expr, func() { s.run(wf.ID) })
		if err != nil {
			slog.Warn("scheduler: invalid cron expression",
				"workflow_id", id, "cron", expr, "err", err)
			continue
		}
		s.entries[id] = entryID
		s.exprs[id] = expr
		slog.Info("scheduler: registered cron job", "workflow_id", id, "cron", expr)
	}
	return nil
}

// run executes one scheduled firing. The workflow is re-read at fire
// time so edits between sync and fire take effect.
func (s *Scheduler) run(workflowID string) {
	ctx := context.Background()

	if s.limiter != nil {
		if err := s.limiter.Acquire(ctx, workflowID); err != nil {
			return
		}
		defer s.limiter.Release(workflowID)
	}

	wf, err := s.workflows.Get(ctx, workflowID)
	if err != nil {
		slog.Warn("scheduler: workflow vanished", "workflow_id", workflowID, "err", err)
		return
	}

	if _, err := s.executor.ExecuteWorkflow(ctx, wf.ID, wf.Nodes, wf.Edges, nil); err != nil {
		slog.Warn("scheduler: scheduled run failed", "workflow_id", workflowID, "err", err)
	}
}

// scheduleExpr returns the cron expression of the workflow's
// schedule-trigger node, if it has one.
func scheduleExpr(wf *weft.Workflow) (string, bool) {
	for i := range wf.Nodes {
		n := &wf.Nodes[i]
		if n.Type != "schedule-trigger" {
			continue
		}
		if expr := n.StringData("cron"); expr != "" {
			return expr, true
		}
	}
	return "", false
}
