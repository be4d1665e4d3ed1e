package weft

import (
	"fmt"
	"time"
)

// ExecutionStatus is the lifecycle state of a workflow run.
type ExecutionStatus string

const (
	ExecutionRunning   ExecutionStatus = "running"
	ExecutionCompleted ExecutionStatus = "completed"
	ExecutionFailed    ExecutionStatus = "failed"
)

// Execution is one persisted run of a workflow. It is created in the
// running state and transitions exactly once to completed or failed.
// Terminal states are final: a retry is a new execution with the same
// input.
type Execution struct {
	ID          string          `json:"id"`
	WorkflowID  string          `json:"workflow_id"`
	Status      ExecutionStatus `json:"status"`
	Input       map[string]any  `json:"input"`
	Output      any             `json:"output,omitempty"`
	Error       *string         `json:"error,omitempty"`
	StartedAt   time.Time       `json:"started_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

// NodeResult is the outcome of a single handler invocation. Handler
// failures are carried in Error; they never escape as panics.
type NodeResult struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Succeed builds a successful NodeResult carrying data.
func Succeed(data any) NodeResult {
	return NodeResult{Success: true, Data: data}
}

// Failf builds a failed NodeResult with a formatted message.
func Failf(format string, args ...any) NodeResult {
	return NodeResult{Success: false, Error: fmt.Sprintf(format, args...)}
}
