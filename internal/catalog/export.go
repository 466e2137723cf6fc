// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pdftext/pkg/types"
)

// Format selects the export encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ExportDocument is a recorded document with its page texts.
type ExportDocument struct {
	Document `yaml:",inline"`
	Text     []types.Page `json:"text" yaml:"text"`
}

// Export writes every recorded document with its pages to w.
func (c *Catalog) Export(ctx context.Context, w io.Writer, format Format) error {
	docs, err := c.exportDocuments(ctx)
	if err != nil {
		return err
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(docs); err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
	case FormatYAML, "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(docs); err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
	default:
		return fmt.Errorf("unknown export format %q: want yaml or json", format)
	}
	return nil
}

func (c *Catalog) exportDocuments(ctx context.Context) ([]ExportDocument, error) {
	docs, err := c.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}

	out := make([]ExportDocument, len(docs))
	for i, d := range docs {
		pages, err := c.pages(ctx, d.Path)
		if err != nil {
			return nil, err
		}
		out[i] = ExportDocument{Document: d, Text: pages}
	}
	return out, nil
}

func (c *Catalog) pages(ctx context.Context, path string) ([]types.Page, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT p.page_number, p.text, p.chars
		FROM pages p JOIN documents d ON d.id = p.document_id
		WHERE d.path = ?
		ORDER BY p.page_number`, path)
	if err != nil {
		return nil, fmt.Errorf("reading pages of %s: %w", path, err)
	}
	defer rows.Close()

	var pages []types.Page
	for rows.Next() {
		var p types.Page
		if err := rows.Scan(&p.Number, &p.Text, &p.Chars); err != nil {
			return nil, fmt.Errorf("scanning page: %w", err)
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}
