package extract

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

func extractXLSX(r io.Reader) (*Document, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse xlsx: %w", err)
	}
	defer f.Close()

	var sb strings.Builder
	sheets := f.GetSheetList()
	totalRows := 0
	for _, sheet := range sheets {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
		}
		if len(sheets) > 1 {
			sb.WriteString("## " + sheet + "\n")
		}
		for _, row := range rows {
			sb.WriteString(strings.Join(row, ", "))
			sb.WriteString("\n")
		}
		totalRows += len(rows)
	}

	return &Document{
		Content:  strings.TrimSpace(sb.String()),
		Metadata: map[string]any{"sheets": len(sheets), "rows": totalRows},
	}, nil
}
