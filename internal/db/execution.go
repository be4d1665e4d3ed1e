package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/weftworks/weft/internal/weft"
)

// CreateExecution stores a new execution record.
func (d *DB) CreateExecution(ctx context.Context, e *weft.Execution) error {
	inputJSON, _ := json.Marshal(e.Input)
	outputJSON, _ := json.Marshal(e.Output)

	_, err := d.Pool.ExecContext(ctx,
		`INSERT INTO executions (id, workflow_id, status, input, output, error, started_at, completed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ID, e.WorkflowID, string(e.Status), inputJSON, outputJSON, e.Error, e.StartedAt, e.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("insert execution: %w", err)
	}
	return nil
}

// GetExecution retrieves an execution record by ID.
func (d *DB) GetExecution(ctx context.Context, id string) (*weft.Execution, error) {
	e := &weft.Execution{}
	var status string
	var inputJSON, outputJSON []byte

	err := d.Pool.QueryRowContext(ctx,
		`SELECT id, workflow_id, status, input, output, error, started_at, completed_at
		 FROM executions WHERE id = $1`, id,
	).Scan(&e.ID, &e.WorkflowID, &status, &inputJSON, &outputJSON, &e.Error, &e.StartedAt, &e.CompletedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("execution not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get execution: %w", err)
	}

	e.Status = weft.ExecutionStatus(status)
	json.Unmarshal(inputJSON, &e.Input)
	if len(outputJSON) > 0 {
		json.Unmarshal(outputJSON, &e.Output)
	}
	return e, nil
}

// UpdateExecution updates an execution's terminal fields.
func (d *DB) UpdateExecution(ctx context.Context, e *weft.Execution) error {
	outputJSON, _ := json.Marshal(e.Output)

	_, err := d.Pool.ExecContext(ctx,
		`UPDATE executions SET status = $1, output = $2, error = $3, completed_at = $4 WHERE id = $5`,
		string(e.Status), outputJSON, e.Error, e.CompletedAt, e.ID,
	)
	if err != nil {
		return fmt.Errorf("update execution: %w", err)
	}
	return nil
}

// ListExecutionsByWorkflow returns executions for a workflow,
// newest-first, with the total count before pagination.
func (d *DB) ListExecutionsByWorkflow(ctx context.Context, workflowID string, limit, offset int) ([]*weft.Execution, int, error) {
	var total int
	err := d.Pool.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM executions WHERE workflow_id = $1`, workflowID,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count executions: %w", err)
	}

	rows, err := d.Pool.QueryContext(ctx,
		`SELECT id, workflow_id, status, input, output, error, started_at, completed_at
		 FROM executions WHERE workflow_id = $1 ORDER BY started_at DESC LIMIT $2 OFFSET $3`,
		workflowID, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list executions: %w", err)
	}
	defer rows.Close()

	var result []*weft.Execution
	for rows.Next() {
		e := &weft.Execution{}
		var status string
		var inputJSON, outputJSON []byte
		if err := rows.Scan(&e.ID, &e.WorkflowID, &status, &inputJSON, &outputJSON, &e.Error, &e.StartedAt, &e.CompletedAt); err != nil {
			return nil, 0, fmt.Errorf("scan execution: %w", err)
		}
		e.Status = weft.ExecutionStatus(status)
		json.Unmarshal(inputJSON, &e.Input)
		if len(outputJSON) > 0 {
			json.Unmarshal(outputJSON, &e.Output)
		}
		result = append(result, e)
	}
	return result, total, rows.Err()
}
