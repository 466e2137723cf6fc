// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftext

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/pdiddy/pdftext/pkg/types"
)

// fakeDocument implements Document over canned page texts. failAt makes
// PageText fail for that page number.
type fakeDocument struct {
	pages  []string
	failAt int
	closed bool
}

func (d *fakeDocument) NumPages() int { return len(d.pages) }

func (d *fakeDocument) PageText(n int) (string, error) {
	if n == d.failAt {
		return "", fmt.Errorf("corrupt content stream")
	}
	return d.pages[n-1], nil
}

func (d *fakeDocument) Close() error {
	d.closed = true
	return nil
}

// fakeOpener returns documents by path. Paths without an entry behave like
// a real backend: a missing file is an error.
type fakeOpener struct {
	docs map[string]*fakeDocument
	errs map[string]error
}

func (o *fakeOpener) Backend() types.Backend { return types.BackendNative }

func (o *fakeOpener) Open(_ context.Context, path string) (Document, error) {
	if err, ok := o.errs[path]; ok {
		return nil, err
	}
	if doc, ok := o.docs[path]; ok {
		return doc, nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", path, err)
	}
	return nil, errors.New("unexpected path: " + path)
}

// openerFunc adapts a function to Opener.
type openerFunc func(path string) (Document, error)

func (f openerFunc) Backend() types.Backend { return types.BackendNative }

func (f openerFunc) Open(_ context.Context, path string) (Document, error) { return f(path) }
