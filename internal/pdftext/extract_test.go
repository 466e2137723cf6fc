// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftext

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pdftext/pkg/types"
)

const twoPageReport = "\n=== PAGE 1 ===\n\nHello\n\n=== PAGE 2 ===\n\n"

func TestExtractFile_WritesReport(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "pdf_content.txt")
	doc := &fakeDocument{pages: []string{"Hello", ""}}
	opener := &fakeOpener{docs: map[string]*fakeDocument{"brief.pdf": doc}}

	ext, err := ExtractFile(context.Background(), opener, "brief.pdf", out, io.Discard)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, twoPageReport, string(data))

	assert.True(t, doc.closed, "document should be closed")
	assert.Equal(t, "brief.pdf", ext.Input)
	assert.Equal(t, out, ext.Output)
	assert.Equal(t, types.BackendNative, ext.Backend)
	require.Len(t, ext.Pages, 2)
	assert.Equal(t, "Hello", ext.Pages[0].Text)
	assert.Equal(t, 1, ext.EmptyPages())
	assert.False(t, ext.ExtractedAt.IsZero())

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestExtractFile_OverwritesExistingOutput(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "pdf_content.txt")
	require.NoError(t, os.WriteFile(out, []byte("stale content from an earlier run\n"), 0o644))

	opener := &fakeOpener{docs: map[string]*fakeDocument{
		"brief.pdf": {pages: []string{"Hello", ""}},
	}}

	for run := 0; run < 2; run++ {
		_, err := ExtractFile(context.Background(), opener, "brief.pdf", out, io.Discard)
		require.NoError(t, err)

		data, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.Equal(t, twoPageReport, string(data), "run %d", run+1)
	}
}

func TestExtractFile_MissingInput(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "pdf_content.txt")

	_, err := ExtractFile(context.Background(), &nativeOpener{}, filepath.Join(dir, "AI Agency Brief.pdf"), out, io.Discard)
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, statErr := os.Stat(out)
	assert.ErrorIs(t, statErr, fs.ErrNotExist, "no output file should be created")
}

func TestExtractFile_PageFailureLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "pdf_content.txt")
	doc := &fakeDocument{pages: []string{"one", "two", "three"}, failAt: 3}
	opener := &fakeOpener{docs: map[string]*fakeDocument{"brief.pdf": doc}}

	_, err := ExtractFile(context.Background(), opener, "brief.pdf", out, io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page 3")
	assert.True(t, doc.closed, "document should be closed on failure")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "neither output nor temp file should remain")
}

func TestExtractFile_PageFailureKeepsPreviousOutput(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "pdf_content.txt")
	require.NoError(t, os.WriteFile(out, []byte("previous"), 0o644))

	opener := &fakeOpener{docs: map[string]*fakeDocument{
		"brief.pdf": {pages: []string{"one"}, failAt: 1},
	}}

	_, err := ExtractFile(context.Background(), opener, "brief.pdf", out, io.Discard)
	require.Error(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(data))
}

func TestExtractFile_OpenError(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "pdf_content.txt")
	opener := &fakeOpener{errs: map[string]error{"locked.pdf": errors.New("pdf: encrypted")}}

	_, err := ExtractFile(context.Background(), opener, "locked.pdf", out, io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "encrypted")

	_, statErr := os.Stat(out)
	assert.ErrorIs(t, statErr, fs.ErrNotExist)
}

func TestExtractFile_LogsProgress(t *testing.T) {
	dir := t.TempDir()
	opener := &fakeOpener{docs: map[string]*fakeDocument{
		"brief.pdf": {pages: []string{"Hello", ""}},
	}}

	var log bytes.Buffer
	_, err := ExtractFile(context.Background(), opener, "brief.pdf", filepath.Join(dir, "out.txt"), &log)
	require.NoError(t, err)

	assert.Contains(t, log.String(), "extracting 2 pages from brief.pdf (native)")
	assert.Contains(t, log.String(), "page 1/2: 5 chars")
	assert.Contains(t, log.String(), "page 2/2: 0 chars")
}

func TestRun_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	opener := &fakeOpener{docs: map[string]*fakeDocument{
		types.DefaultInput: {pages: []string{"Hello"}},
	}}

	ext, err := Run(context.Background(), opener, types.ExtractionConfig{}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, types.DefaultOutput, ext.Output)

	data, err := os.ReadFile(filepath.Join(dir, types.DefaultOutput))
	require.NoError(t, err)
	assert.Equal(t, "\n=== PAGE 1 ===\n\nHello\n", string(data))
}

func TestRun_RemoteInput(t *testing.T) {
	body := []byte("%PDF-1.4 remote bytes")
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write(body)
	}))
	defer ts.Close()

	old := HTTPClient
	HTTPClient = ts.Client()
	defer func() { HTTPClient = old }()

	var fetched string
	opener := openerFunc(func(path string) (Document, error) {
		fetched = path
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if !bytes.Equal(data, body) {
			return nil, errors.New("downloaded bytes differ")
		}
		return &fakeDocument{pages: []string{"Remote"}}, nil
	})

	out := filepath.Join(t.TempDir(), "remote.txt")
	url := ts.URL + "/brief.pdf"
	ext, err := Run(context.Background(), opener, types.ExtractionConfig{Input: url, Output: out}, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, url, ext.Input)
	assert.Equal(t, int64(len(body)), ext.Size)
	_, statErr := os.Stat(fetched)
	assert.ErrorIs(t, statErr, fs.ErrNotExist, "downloaded file should be removed")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "\n=== PAGE 1 ===\n\nRemote\n", string(data))
}

func TestExtractBatch(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "text")
	opener := &fakeOpener{
		docs: map[string]*fakeDocument{
			"raw/a.pdf": {pages: []string{"Paper A"}},
			"raw/b.pdf": {pages: []string{"", "Paper B"}},
		},
		errs: map[string]error{
			"raw/c.pdf": errors.New("malformed PDF file: missing final startxref"),
		},
	}

	var log bytes.Buffer
	result := ExtractBatch(context.Background(), opener, []string{"raw/a.pdf", "raw/b.pdf", "raw/c.pdf"}, outDir, &log)

	assert.Equal(t, 2, result.Extracted)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 3, result.Total())
	assert.True(t, result.HasFailures())
	assert.Len(t, result.Extractions, 2)

	a, err := os.ReadFile(filepath.Join(outDir, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "\n=== PAGE 1 ===\n\nPaper A\n", string(a))

	b, err := os.ReadFile(filepath.Join(outDir, "b.txt"))
	require.NoError(t, err)
	assert.Equal(t, "\n=== PAGE 1 ===\n\n\n=== PAGE 2 ===\n\nPaper B\n", string(b))

	_, err = os.Stat(filepath.Join(outDir, "c.txt"))
	assert.ErrorIs(t, err, fs.ErrNotExist)

	out := log.String()
	assert.Contains(t, out, "extracted: a (1 pages)")
	assert.Contains(t, out, "extracted: b (2 pages)")
	assert.Contains(t, out, "failed:  c (malformed PDF file")
	assert.Contains(t, out, "Batch summary: 2 extracted, 1 failed (total: 3)")
}

func TestExtractBatch_SameBaseName(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "text")
	opener := &fakeOpener{
		docs: map[string]*fakeDocument{
			"a/report.pdf": {pages: []string{"From A"}},
			"b/report.pdf": {pages: []string{"From B"}},
			"c/report.PDF": {pages: []string{"From C"}},
		},
	}

	var log bytes.Buffer
	result := ExtractBatch(context.Background(), opener, []string{"a/report.pdf", "b/report.pdf", "c/report.PDF"}, outDir, &log)

	assert.Equal(t, 3, result.Extracted)
	assert.Zero(t, result.Failed)
	require.Len(t, result.Extractions, 3)

	outputs := map[string]bool{}
	for _, e := range result.Extractions {
		outputs[e.Output] = true
	}
	assert.Len(t, outputs, 3, "each input needs its own output file")

	for name, want := range map[string]string{
		"report.txt":   "From A",
		"report-2.txt": "From B",
		"report-3.txt": "From C",
	} {
		data, err := os.ReadFile(filepath.Join(outDir, name))
		require.NoError(t, err, name)
		assert.Equal(t, "\n=== PAGE 1 ===\n\n"+want+"\n", string(data), name)
	}
	assert.Contains(t, log.String(), "extracted: report-2 (1 pages)")
}

func TestClaimName(t *testing.T) {
	claimed := map[string]bool{}
	assert.Equal(t, "brief", claimName("brief", claimed))
	assert.Equal(t, "brief-2", claimName("brief", claimed))
	assert.Equal(t, "brief-3", claimName("brief", claimed))
	assert.Equal(t, "brief-2-2", claimName("brief-2", claimed))
	assert.Equal(t, "Brief-4", claimName("Brief", claimed))
	assert.Equal(t, "notes", claimName("notes", claimed))
}

func TestExtractBatch_Empty(t *testing.T) {
	var log bytes.Buffer
	result := ExtractBatch(context.Background(), &fakeOpener{}, nil, t.TempDir(), &log)

	assert.Equal(t, 0, result.Total())
	assert.False(t, result.HasFailures())
	assert.Contains(t, log.String(), "Batch summary: 0 extracted, 0 failed (total: 0)")
}
