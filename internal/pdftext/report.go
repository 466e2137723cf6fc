// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftext

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pdiddy/pdftext/pkg/types"
)

// pageHeader is the delimiter written before every page body.
const pageHeader = "\n=== PAGE %d ===\n\n"

// WriteReport writes one page block per page of doc to w, in document order,
// and returns the extracted pages. A page whose text is empty after
// normalization gets a header and no body.
func WriteReport(ctx context.Context, w io.Writer, doc Document) ([]types.Page, error) {
	return writeReport(ctx, w, doc, io.Discard)
}

func writeReport(ctx context.Context, w io.Writer, doc Document, log io.Writer) ([]types.Page, error) {
	n := doc.NumPages()
	pages := make([]types.Page, 0, n)

	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return pages, err
		}
		start := time.Now()
		num := i + 1

		if _, err := fmt.Fprintf(w, pageHeader, num); err != nil {
			return pages, fmt.Errorf("writing page %d header: %w", num, err)
		}

		raw, err := doc.PageText(num)
		if err != nil {
			return pages, fmt.Errorf("page %d: %w", num, err)
		}

		text := normalizeText(raw)
		if text != "" {
			if _, err := io.WriteString(w, text+"\n"); err != nil {
				return pages, fmt.Errorf("writing page %d: %w", num, err)
			}
		}

		page := types.Page{Number: num, Text: text, Chars: utf8.RuneCountInString(text)}
		pages = append(pages, page)
		fmt.Fprintf(log, "page %d/%d: %d chars in %v\n", num, n, page.Chars, time.Since(start).Round(time.Microsecond))
	}

	return pages, nil
}

// normalizeText strips trailing line and page breaks. Text made only of
// breaks becomes empty, which marks the page as having no text; spaces and
// tabs are kept.
func normalizeText(s string) string {
	return strings.TrimRight(s, "\r\n\f")
}

// RenderReport returns the report for pages as a string, in the same format
// WriteReport produces.
func RenderReport(pages []types.Page) string {
	var b strings.Builder
	for _, p := range pages {
		fmt.Fprintf(&b, pageHeader, p.Number)
		if p.Text != "" {
			b.WriteString(p.Text)
			b.WriteByte('\n')
		}
	}
	return b.String()
}
