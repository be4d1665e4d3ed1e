package extract

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

func extractCSV(r io.Reader) (*Document, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // ragged rows are common in user uploads

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	var sb strings.Builder
	columns := 0
	for _, row := range rows {
		if len(row) > columns {
			columns = len(row)
		}
		sb.WriteString(strings.Join(row, ", "))
		sb.WriteString("\n")
	}

	return &Document{
		Content:  strings.TrimSpace(sb.String()),
		Metadata: map[string]any{"rows": len(rows), "columns": columns},
	}, nil
}
