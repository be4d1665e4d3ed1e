package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
)

// Limiter controls how many scheduled runs execute simultaneously.
// It uses channel-based counting semaphores at two levels: global and
// per-workflow.
type Limiter struct {
	global      chan struct{}
	perWorkflow map[string]chan struct{}
	mu          sync.Mutex
	perMax      int
	globalMax   int
	activeCount atomic.Int64
}

// NewLimiter creates a limiter with the given limits. Non-positive
// values fall back to 10 global and 3 per workflow.
func NewLimiter(globalMax, perWorkflow int) *Limiter {
	if globalMax <= 0 {
		globalMax = 10
	}
	if perWorkflow <= 0 {
		perWorkflow = 3
	}
	return &Limiter{
		global:      make(chan struct{}, globalMax),
		perWorkflow: make(map[string]chan struct{}),
		globalMax:   globalMax,
		perMax:      perWorkflow,
	}
}

// Acquire blocks until both global and per-workflow slots are
// available, or returns an error if the context is cancelled.
func (l *Limiter) Acquire(ctx context.Context, workflowID string) error {
	select {
	case l.global <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	wfCh := l.workflowChan(workflowID)
	select {
	case wfCh <- struct{}{}:
		l.activeCount.Add(1)
		return nil
	case <-ctx.Done():
		// Release global slot since we couldn't get per-workflow.
		<-l.global
		return ctx.Err()
	}
}

// Release returns both the global and per-workflow slots.
func (l *Limiter) Release(workflowID string) {
	l.activeCount.Add(-1)

	l.mu.Lock()
	if ch, ok := l.perWorkflow[workflowID]; ok {
		select {
		case <-ch:
		default:
		}
	}
	l.mu.Unlock()

	select {
	case <-l.global:
	default:
	}
}

// Active reports how many scheduled runs hold a slot right now.
func (l *Limiter) Active() int {
	return int(l.activeCount.Load())
}

func (l *Limiter) workflowChan(id string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	ch, ok := l.perWorkflow[id]
	if !ok {
		ch = make(chan struct{}, l.perMax)
		l.perWorkflow[id] = ch
	}
	return ch
}
