package extract

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

func extractPDF(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}

	pdfReader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parse pdf: %w", err)
	}

	var sb strings.Builder
	pages := pdfReader.NumPage()
	for i := 1; i <= pages; i++ {
		p := pdfReader.Page(i)
		if p.V.IsNull() {
			continue
		}
		content, err := p.GetPlainText(nil)
		if err != nil {
			// Pages with unusual encodings are skipped, not fatal.
			continue
		}
		sb.WriteString(content)
		sb.WriteString("\n")
	}

	return &Document{
		Content:  strings.TrimSpace(sb.String()),
		Metadata: map[string]any{"pages": pages},
	}, nil
}
