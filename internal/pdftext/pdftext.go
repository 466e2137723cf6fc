// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdftext extracts per-page plain text from PDF documents and
// renders it as a page-block text report.
//
// Text extraction itself is delegated to a backend: the native backend
// (github.com/ledongthuc/pdf), pdfcpu, or a pdftotext container. The package
// owns the report format, resource scoping, and single-file and batch runs.
package pdftext

import (
	"context"
	"errors"
	"fmt"

	"github.com/pdiddy/pdftext/internal/container"
	"github.com/pdiddy/pdftext/pkg/types"
)

// ErrUnknownBackend is returned by NewOpener for an unrecognized backend name.
var ErrUnknownBackend = errors.New("unknown backend")

// Document is an opened PDF. Pages are numbered from 1 to NumPages.
type Document interface {
	// NumPages returns the number of pages in the document.
	NumPages() int

	// PageText returns the raw text of page n (1-based). An empty string
	// means the page yielded no text.
	PageText(n int) (string, error)

	// Close releases the underlying file or buffers.
	Close() error
}

// Opener opens PDF files with a specific backend.
type Opener interface {
	// Backend names the backend.
	Backend() types.Backend

	// Open reads the PDF at path. It fails when the file is missing,
	// unreadable, encrypted without a matching password, or malformed.
	Open(ctx context.Context, path string) (Document, error)
}

// NewOpener returns the Opener selected by cfg.Backend. The pdftotext
// backend detects a container runtime and verifies the image exists.
func NewOpener(cfg types.ExtractionConfig) (Opener, error) {
	cfg = cfg.WithDefaults()
	switch cfg.Backend {
	case types.BackendNative:
		return &nativeOpener{password: cfg.Password}, nil
	case types.BackendPdfcpu:
		return &pdfcpuOpener{password: cfg.Password}, nil
	case types.BackendPdftotext:
		rt, err := container.DetectRuntime()
		if err != nil {
			return nil, err
		}
		o, err := NewPdftotextOpener(rt, cfg.Image)
		if err != nil {
			return nil, err
		}
		return o.WithPassword(cfg.Password), nil
	default:
		return nil, fmt.Errorf("%w %q: want %s, %s, or %s", ErrUnknownBackend,
			cfg.Backend, types.BackendNative, types.BackendPdfcpu, types.BackendPdftotext)
	}
}
