// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data structures for pdftext extraction runs.
package types

import "time"

// Page holds the text extracted from one page of a PDF.
type Page struct {
	// Number is the 1-based position of the page in the document.
	Number int `json:"number" yaml:"number"`

	// Text is the normalized page text. Empty when the page yielded no text
	// (image-only pages, blank pages).
	Text string `json:"text" yaml:"text"`

	// Chars is the rune count of Text.
	Chars int `json:"chars" yaml:"chars"`
}

// Empty reports whether extraction produced no text for the page.
func (p Page) Empty() bool {
	return p.Text == ""
}

// Extraction is the outcome of one successful single-file run.
type Extraction struct {
	// Input is the path of the PDF that was read. For remote inputs this is
	// the original URL.
	Input string `json:"input" yaml:"input"`

	// Output is the path of the text report that was written.
	Output string `json:"output" yaml:"output"`

	// Backend names the extraction backend used (native, pdfcpu, pdftotext).
	Backend Backend `json:"backend" yaml:"backend"`

	// Size is the input file size in bytes.
	Size int64 `json:"size" yaml:"size"`

	// Pages lists every page in document order.
	Pages []Page `json:"pages" yaml:"pages"`

	// ExtractedAt is when the report was completed.
	ExtractedAt time.Time `json:"extracted_at" yaml:"extracted_at"`
}

// EmptyPages returns the number of pages without text.
func (e *Extraction) EmptyPages() int {
	n := 0
	for _, p := range e.Pages {
		if p.Empty() {
			n++
		}
	}
	return n
}
