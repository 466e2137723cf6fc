// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package testpdf builds small synthetic PDF files for tests.
package testpdf

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Page describes one page of a generated PDF. A nil Lines slice makes a
// page with no /Contents entry; an empty slice makes an empty content stream.
type Page struct {
	Lines []string
}

// Text returns a page with one text line per entry.
func Text(lines ...string) Page {
	if lines == nil {
		lines = []string{}
	}
	return Page{Lines: lines}
}

// Write builds a minimal PDF 1.4 file with a Helvetica font and one text
// line per entry into a temporary directory and returns its path.
func Write(t testing.TB, pages ...Page) string {
	t.Helper()
	return WriteTo(t, filepath.Join(t.TempDir(), "brief.pdf"), pages...)
}

// WriteTo is Write with an explicit destination path.
func WriteTo(t testing.TB, path string, pages ...Page) string {
	t.Helper()

	// Object numbers: 1 catalog, 2 page tree, 3 font, then page/content pairs.
	var objects []string
	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}
	objects = append(objects,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	)
	for i, p := range pages {
		contentRef := ""
		if p.Lines != nil {
			contentRef = fmt.Sprintf(" /Contents %d 0 R", 5+2*i)
		}
		objects = append(objects, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >>%s >>",
			contentRef))

		var stream strings.Builder
		if len(p.Lines) > 0 {
			stream.WriteString("BT /F1 12 Tf 14 TL 72 720 Td")
			for j, line := range p.Lines {
				if j > 0 {
					stream.WriteString(" T*")
				}
				fmt.Fprintf(&stream, " (%s) Tj", line)
			}
			stream.WriteString(" ET")
		}
		objects = append(objects, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", stream.Len(), stream.String()))
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}
