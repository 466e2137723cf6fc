// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package toolserver exposes page-text extraction and catalog search as
// Model Context Protocol tools.
package toolserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pdiddy/pdftext/internal/catalog"
	"github.com/pdiddy/pdftext/internal/pdftext"
	"github.com/pdiddy/pdftext/pkg/types"
)

const (
	toolExtract = "pdftext_extract"
	toolSearch  = "pdftext_search"
)

// Server holds the dependencies shared by the tools.
type Server struct {
	opener  pdftext.Opener
	catalog *catalog.Catalog
}

// New returns a Server extracting with opener. cat may be nil, in which case
// the search tool is not registered.
func New(opener pdftext.Opener, cat *catalog.Catalog) *Server {
	return &Server{opener: opener, catalog: cat}
}

// Register adds the tools to srv.
func (s *Server) Register(srv *mcp.Server) {
	srv.AddTool(&mcp.Tool{
		Name:        toolExtract,
		Description: "Extract plain text from every page of a PDF file. Returns the pages and the page-block report.",
		InputSchema: inputSchema(map[string]any{
			"path": map[string]any{"type": "string", "description": "Path of the PDF file"},
		}, []string{"path"}),
	}, s.handleExtract)

	if s.catalog == nil {
		return
	}
	srv.AddTool(&mcp.Tool{
		Name:        toolSearch,
		Description: "Search recorded page text for a phrase. Matching ignores ASCII case.",
		InputSchema: inputSchema(map[string]any{
			"query": map[string]any{"type": "string", "description": "Text to find"},
			"limit": map[string]any{"type": "integer", "description": "Maximum hits (default 20)"},
		}, []string{"query"}),
	}, s.handleSearch)
}

// Run serves the tools over transport until ctx is done or the client
// disconnects.
func (s *Server) Run(ctx context.Context, version string, transport mcp.Transport) error {
	srv := mcp.NewServer(&mcp.Implementation{Name: "pdftext", Version: version}, nil)
	s.Register(srv)
	return srv.Run(ctx, transport)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}

type extractArgs struct {
	Path string `json:"path"`
}

// ExtractResult is the payload of the extract tool.
type ExtractResult struct {
	Pages  []types.Page `json:"pages"`
	Report string       `json:"report"`
}

func (s *Server) handleExtract(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args extractArgs
	if err := decodeArgs(req, &args); err != nil {
		return toolError(err), nil
	}
	if args.Path == "" {
		return toolError(errors.New("path is required")), nil
	}

	doc, err := s.opener.Open(ctx, args.Path)
	if err != nil {
		return toolError(err), nil
	}
	defer doc.Close()

	var report bytes.Buffer
	pages, err := pdftext.WriteReport(ctx, &report, doc)
	if err != nil {
		return toolError(fmt.Errorf("extracting %s: %w", args.Path, err)), nil
	}
	return jsonResult(ExtractResult{Pages: pages, Report: report.String()})
}

type searchArgs struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

func (s *Server) handleSearch(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args searchArgs
	if err := decodeArgs(req, &args); err != nil {
		return toolError(err), nil
	}

	hits, err := s.catalog.Search(ctx, args.Query, args.Limit)
	if err != nil {
		return toolError(err), nil
	}
	if hits == nil {
		hits = []catalog.Hit{}
	}
	return jsonResult(map[string]any{"hits": hits})
}

func decodeArgs(req *mcp.CallToolRequest, v any) error {
	if len(req.Params.Arguments) == 0 {
		return nil
	}
	if err := json.Unmarshal(req.Params.Arguments, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

func toolError(err error) *mcp.CallToolResult {
	var res mcp.CallToolResult
	res.SetError(err)
	return &res
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return toolError(fmt.Errorf("marshal: %w", err)), nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil
}
