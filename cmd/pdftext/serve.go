package main

import (
	"fmt"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/pdiddy/pdftext/internal/catalog"
	"github.com/pdiddy/pdftext/internal/pdftext"
	"github.com/pdiddy/pdftext/internal/toolserver"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve extraction as MCP tools over stdio",
	Long: `Serve runs a Model Context Protocol server on stdin/stdout exposing the
pdftext_extract tool, and pdftext_search when --catalog is set.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := extractionConfig()

		opener, err := pdftext.NewOpener(cfg)
		if err != nil {
			return err
		}

		var cat *catalog.Catalog
		if cfg.Catalog != "" {
			cat, err = catalog.Open(cfg.Catalog)
			if err != nil {
				return err
			}
			defer cat.Close()
		}

		fmt.Fprintf(os.Stderr, "pdftext %s serving MCP on stdio (backend %s)\n", version, opener.Backend())
		return toolserver.New(opener, cat).Run(cmd.Context(), version, &mcp.StdioTransport{})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
