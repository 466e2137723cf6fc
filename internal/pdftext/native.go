// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftext

import (
	"context"
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"

	"github.com/pdiddy/pdftext/pkg/types"
)

// nativeOpener reads PDFs in-process with github.com/ledongthuc/pdf.
type nativeOpener struct {
	password string
}

func (o *nativeOpener) Backend() types.Backend { return types.BackendNative }

func (o *nativeOpener) Open(_ context.Context, path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("opening PDF %s: %w", path, err)
	}

	var r *pdf.Reader
	if o.password != "" {
		// The library keeps asking until the callback returns "", so offer
		// the configured password once.
		offered := false
		r, err = pdf.NewReaderEncrypted(f, info.Size(), func() string {
			if offered {
				return ""
			}
			offered = true
			return o.password
		})
	} else {
		r, err = pdf.NewReader(f, info.Size())
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("reading PDF %s: %w", path, err)
	}

	return &nativeDocument{file: f, reader: r}, nil
}

type nativeDocument struct {
	file   *os.File
	reader *pdf.Reader
}

func (d *nativeDocument) NumPages() int { return d.reader.NumPage() }

func (d *nativeDocument) PageText(n int) (string, error) {
	p := d.reader.Page(n)
	if p.V.IsNull() {
		return "", fmt.Errorf("page %d not found", n)
	}
	if p.V.Key("Contents").Kind() == pdf.Null {
		return "", nil
	}
	// Font resource names are page-scoped, so let the library build the
	// font table for each page.
	text, err := p.GetPlainText(nil)
	if err != nil {
		return "", fmt.Errorf("extracting text: %w", err)
	}
	return text, nil
}

func (d *nativeDocument) Close() error { return d.file.Close() }
