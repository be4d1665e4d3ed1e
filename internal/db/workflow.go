package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/weftworks/weft/internal/weft"
)

// CreateWorkflow stores a new workflow definition.
func (d *DB) CreateWorkflow(ctx context.Context, wf *weft.Workflow) error {
	nodesJSON, _ := json.Marshal(wf.Nodes)
	edgesJSON, _ := json.Marshal(wf.Edges)

	_, err := d.Pool.ExecContext(ctx,
		`INSERT INTO workflows (id, name, description, nodes, edges, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		wf.ID, wf.Name, wf.Description, nodesJSON, edgesJSON, wf.CreatedAt, wf.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert workflow: %w", err)
	}
	return nil
}

// GetWorkflow retrieves a workflow by ID.
func (d *DB) GetWorkflow(ctx context.Context, id string) (*weft.Workflow, error) {
	wf := &weft.Workflow{}
	var nodesJSON, edgesJSON []byte

	err := d.Pool.QueryRowContext(ctx,
		`SELECT id, name, description, nodes, edges, created_at, updated_at
		 FROM workflows WHERE id = $1`, id,
	).Scan(&wf.ID, &wf.Name, &wf.Description, &nodesJSON, &edgesJSON, &wf.CreatedAt, &wf.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("workflow not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get workflow: %w", err)
	}

	json.Unmarshal(nodesJSON, &wf.Nodes)
	json.Unmarshal(edgesJSON, &wf.Edges)
	return wf, nil
}

// ListWorkflows returns all workflows ordered by creation time.
func (d *DB) ListWorkflows(ctx context.Context) ([]*weft.Workflow, error) {
	rows, err := d.Pool.QueryContext(ctx,
		`SELECT id, name, description, nodes, edges, created_at, updated_at
		 FROM workflows ORDER BY created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("list workflows: %w", err)
	}
	defer rows.Close()

	var result []*weft.Workflow
	for rows.Next() {
		wf := &weft.Workflow{}
		var nodesJSON, edgesJSON []byte
		if err := rows.Scan(&wf.ID, &wf.Name, &wf.Description, &nodesJSON, &edgesJSON, &wf.CreatedAt, &wf.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan workflow: %w", err)
		}
		json.Unmarshal(nodesJSON, &wf.Nodes)
		json.Unmarshal(edgesJSON, &wf.Edges)
		result = append(result, wf)
	}
	return result, rows.Err()
}

// UpdateWorkflow replaces a workflow's definition wholesale.
func (d *DB) UpdateWorkflow(ctx context.Context, wf *weft.Workflow) error {
	nodesJSON, _ := json.Marshal(wf.Nodes)
	edgesJSON, _ := json.Marshal(wf.Edges)

	_, err := d.Pool.ExecContext(ctx,
		`UPDATE workflows SET name=$1, description=$2, nodes=$3, edges=$4, updated_at=$5 WHERE id=$6`,
		wf.Name, wf.Description, nodesJSON, edgesJSON, wf.UpdatedAt, wf.ID,
	)
	if err != nil {
		return fmt.Errorf("update workflow: %w", err)
	}
	return nil
}

// DeleteWorkflow removes a workflow. Executions are left orphaned.
func (d *DB) DeleteWorkflow(ctx context.Context, id string) error {
	_, err := d.Pool.ExecContext(ctx, `DELETE FROM workflows WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete workflow: %w", err)
	}
	return nil
}
