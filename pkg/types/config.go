// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Backend identifies the library or tool used to pull text out of a PDF.
type Backend string

const (
	// BackendNative uses github.com/ledongthuc/pdf in-process.
	BackendNative Backend = "native"
	// BackendPdfcpu uses github.com/pdfcpu/pdfcpu in-process.
	BackendPdfcpu Backend = "pdfcpu"
	// BackendPdftotext pipes the PDF through a poppler container image.
	BackendPdftotext Backend = "pdftotext"
)

const (
	// DefaultInput is the PDF read when no input is configured.
	DefaultInput = "AI Agency Brief.pdf"
	// DefaultOutput is the report written when no output is configured.
	DefaultOutput = "pdf_content.txt"
	// DefaultImage is the container image used by the pdftotext backend.
	DefaultImage = "pdftotext:latest"
)

// ExtractionConfig holds settings for a single-file or batch run.
type ExtractionConfig struct {
	// Input is the PDF path or http(s) URL (default DefaultInput).
	Input string `json:"input" yaml:"input"`

	// Output is the report path (default DefaultOutput).
	Output string `json:"output" yaml:"output"`

	// OutDir is the directory for batch reports, one <base>.txt per input.
	OutDir string `json:"out_dir" yaml:"out_dir"`

	// Backend selects the extraction backend (default native).
	Backend Backend `json:"backend" yaml:"backend"`

	// Password opens encrypted PDFs. Falls back to the pdf-password secret.
	Password string `json:"password,omitempty" yaml:"password,omitempty"`

	// Image is the container image for the pdftotext backend.
	Image string `json:"image" yaml:"image"`

	// Catalog is an optional SQLite path; when set, runs are recorded there.
	Catalog string `json:"catalog,omitempty" yaml:"catalog,omitempty"`
}

// WithDefaults returns a copy of c with empty fields set to their defaults.
func (c ExtractionConfig) WithDefaults() ExtractionConfig {
	if c.Input == "" {
		c.Input = DefaultInput
	}
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	if c.Backend == "" {
		c.Backend = BackendNative
	}
	if c.Image == "" {
		c.Image = DefaultImage
	}
	return c
}
