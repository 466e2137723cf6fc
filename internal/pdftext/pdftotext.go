// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pdiddy/pdftext/internal/container"
	"github.com/pdiddy/pdftext/pkg/types"
)

// pdftotextCommand reads the PDF from stdin and writes UTF-8 text to stdout.
// pdftotext ends every page with a form feed.
var pdftotextCommand = []string{"pdftotext", "-enc", "UTF-8", "-", "-"}

// PdftotextOpener extracts text by piping PDFs through poppler's pdftotext in
// a container.
type PdftotextOpener struct {
	runtime  container.Runtime
	image    string
	password string
}

// NewPdftotextOpener creates an opener that runs image with rt. It verifies
// that the image exists locally before returning.
func NewPdftotextOpener(rt container.Runtime, image string) (*PdftotextOpener, error) {
	if image == "" {
		image = types.DefaultImage
	}
	if err := rt.ImageExists(image); err != nil {
		return nil, fmt.Errorf("pdftotext image not available in %s: %w", rt.Name(), err)
	}
	return &PdftotextOpener{runtime: rt, image: image}, nil
}

// WithPassword returns a copy of o that passes password to pdftotext.
// pdftotext only accepts it as -upw, so it appears in the container's
// command line for the duration of the run.
func (o *PdftotextOpener) WithPassword(password string) *PdftotextOpener {
	c := *o
	c.password = password
	return &c
}

// Backend returns types.BackendPdftotext.
func (o *PdftotextOpener) Backend() types.Backend { return types.BackendPdftotext }

// Open runs pdftotext over the whole file and splits its output into pages.
func (o *PdftotextOpener) Open(ctx context.Context, path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", path, err)
	}
	defer f.Close()

	cmd := pdftotextCommand
	if o.password != "" {
		cmd = append([]string{"pdftotext", "-upw", o.password}, pdftotextCommand[1:]...)
	}

	var out bytes.Buffer
	if err := o.runtime.Run(ctx, o.image, cmd, f, &out); err != nil {
		return nil, fmt.Errorf("converting %s with pdftotext: %w", path, err)
	}
	if out.Len() == 0 {
		return nil, fmt.Errorf("pdftotext produced empty output for %s", path)
	}

	return &textDocument{pages: splitPages(out.String())}, nil
}

// splitPages splits form-feed separated output. The feed after the last page
// does not start another page.
func splitPages(s string) []string {
	pages := strings.Split(s, "\f")
	if n := len(pages); n > 1 && strings.TrimSpace(pages[n-1]) == "" {
		pages = pages[:n-1]
	}
	return pages
}

// textDocument is a Document whose page texts are already in memory.
type textDocument struct {
	pages []string
}

func (d *textDocument) NumPages() int { return len(d.pages) }

func (d *textDocument) PageText(n int) (string, error) {
	if n < 1 || n > len(d.pages) {
		return "", fmt.Errorf("page %d out of range 1..%d", n, len(d.pages))
	}
	return d.pages[n-1], nil
}

func (d *textDocument) Close() error { return nil }
