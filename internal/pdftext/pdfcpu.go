// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftext

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/pdiddy/pdftext/pkg/types"
)

// pdfcpuOpener reads PDFs with pdfcpu and recovers text from each page's
// content stream.
type pdfcpuOpener struct {
	password string
}

func (o *pdfcpuOpener) Backend() types.Backend { return types.BackendPdfcpu }

func (o *pdfcpuOpener) Open(_ context.Context, path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", path, err)
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	if o.password != "" {
		conf.UserPW = o.password
		conf.OwnerPW = o.password
	}

	ctx, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		return nil, fmt.Errorf("reading PDF %s with pdfcpu: %w", path, err)
	}
	return &pdfcpuDocument{ctx: ctx}, nil
}

// pdfcpuDocument holds the parsed context; the file is fully read on open.
type pdfcpuDocument struct {
	ctx *model.Context
}

func (d *pdfcpuDocument) NumPages() int { return d.ctx.PageCount }

func (d *pdfcpuDocument) PageText(n int) (string, error) {
	r, err := pdfcpu.ExtractPageContent(d.ctx, n)
	if err != nil {
		return "", fmt.Errorf("reading content stream: %w", err)
	}
	if r == nil {
		return "", nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading content stream: %w", err)
	}
	return contentText(data), nil
}

func (d *pdfcpuDocument) Close() error { return nil }
