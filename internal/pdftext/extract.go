// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftext

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/pdftext/pkg/types"
)

// HTTPClient is used to download http(s) inputs.
var HTTPClient = &http.Client{Timeout: 2 * time.Minute}

// ExtractFile reads the PDF at input and writes its page-block report to
// output. The input is opened before anything is created, so a missing or
// malformed input leaves no output behind. The report is written to a
// temporary file next to output and renamed over it once every page has been
// extracted; an existing output is replaced, never appended to.
//
// Per-page progress lines go to log.
func ExtractFile(ctx context.Context, opener Opener, input, output string, log io.Writer) (*types.Extraction, error) {
	doc, err := opener.Open(ctx, input)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	var size int64
	if info, err := os.Stat(input); err == nil {
		size = info.Size()
	}

	fmt.Fprintf(log, "extracting %d pages from %s (%s)\n", doc.NumPages(), input, opener.Backend())

	dir := filepath.Dir(output)
	tmp, err := os.CreateTemp(dir, ".pdftext-*.tmp")
	if err != nil {
		return nil, fmt.Errorf("creating output in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	bw := bufio.NewWriter(tmp)
	pages, err := writeReport(ctx, bw, doc, log)
	if err != nil {
		return nil, fmt.Errorf("extracting %s: %w", input, err)
	}
	if err := bw.Flush(); err != nil {
		return nil, fmt.Errorf("writing %s: %w", output, err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("closing %s: %w", output, err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return nil, fmt.Errorf("setting mode on %s: %w", output, err)
	}
	if err := os.Rename(tmpPath, output); err != nil {
		return nil, fmt.Errorf("replacing %s: %w", output, err)
	}
	committed = true

	return &types.Extraction{
		Input:       input,
		Output:      output,
		Backend:     opener.Backend(),
		Size:        size,
		Pages:       pages,
		ExtractedAt: time.Now().UTC(),
	}, nil
}

// Run performs a single-file extraction for cfg. Remote inputs are downloaded
// to a temporary file first and removed afterwards; the returned Extraction
// keeps the original URL as its Input.
func Run(ctx context.Context, opener Opener, cfg types.ExtractionConfig, log io.Writer) (*types.Extraction, error) {
	cfg = cfg.WithDefaults()
	if !IsRemote(cfg.Input) {
		return ExtractFile(ctx, opener, cfg.Input, cfg.Output, log)
	}

	fmt.Fprintf(log, "downloading %s\n", cfg.Input)
	local, err := Fetch(ctx, HTTPClient, cfg.Input, "")
	if err != nil {
		return nil, err
	}
	defer os.Remove(local)

	ext, err := ExtractFile(ctx, opener, local, cfg.Output, log)
	if err != nil {
		return nil, err
	}
	ext.Input = cfg.Input
	return ext, nil
}

// BatchResult holds the outcome of a batch extraction run.
type BatchResult struct {
	Extracted   int
	Failed      int
	Extractions []*types.Extraction
}

// Total returns the total number of inputs processed.
func (r BatchResult) Total() int {
	return r.Extracted + r.Failed
}

// HasFailures reports whether any input failed extraction.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// ExtractBatch extracts each input into outDir/<base>.txt, printing per-file
// status to w and returning a summary. Inputs sharing a base name get
// <base>-2.txt, <base>-3.txt, and so on in input order. A failed input does
// not stop the batch.
func ExtractBatch(ctx context.Context, opener Opener, inputs []string, outDir string, w io.Writer) BatchResult {
	var result BatchResult

	mkErr := os.MkdirAll(outDir, 0o755)
	claimed := make(map[string]bool)

	for _, in := range inputs {
		base := claimName(strings.TrimSuffix(filepath.Base(in), filepath.Ext(in)), claimed)
		if mkErr != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", base, mkErr)
			result.Failed++
			continue
		}
		if err := ctx.Err(); err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", base, err)
			result.Failed++
			continue
		}

		out := filepath.Join(outDir, base+".txt")
		ext, err := ExtractFile(ctx, opener, in, out, io.Discard)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", base, err)
			result.Failed++
			continue
		}

		fmt.Fprintf(w, "extracted: %s (%d pages)\n", base, len(ext.Pages))
		result.Extracted++
		result.Extractions = append(result.Extractions, ext)
	}

	fmt.Fprintf(w, "\nBatch summary: %d extracted, %d failed (total: %d)\n",
		result.Extracted, result.Failed, result.Total())
	return result
}

// claimName returns base, or the first of base-2, base-3, ... not yet in
// claimed, and marks it claimed. Names are compared case-insensitively so
// outputs stay distinct on case-insensitive filesystems.
func claimName(base string, claimed map[string]bool) string {
	name := base
	for i := 2; claimed[strings.ToLower(name)]; i++ {
		name = fmt.Sprintf("%s-%d", base, i)
	}
	claimed[strings.ToLower(name)] = true
	return name
}
