// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pdftext CLI.
//
// Run without arguments it reads "AI Agency Brief.pdf" and writes the
// page-by-page text to "pdf_content.txt".
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pdftext/internal/catalog"
	"github.com/pdiddy/pdftext/internal/pdftext"
	"github.com/pdiddy/pdftext/internal/secrets"
	"github.com/pdiddy/pdftext/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback if it is set, or the secret value for key.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd extracts a single PDF. Subcommands cover batches, the catalog,
// and the MCP server.
var rootCmd = &cobra.Command{
	Use:   "pdftext",
	Short: "Extract page-by-page plain text from PDF files",
	Long: `pdftext reads a PDF, extracts the plain text of every page in order, and
writes it to a text file with a "=== PAGE n ===" header before each page.

With no flags it reads "AI Agency Brief.pdf" from the working directory and
writes "pdf_content.txt", replacing any earlier output.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	RunE:          runExtractOne,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(secrets.DefaultDir, os.Stderr)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./pdftext.yaml or ~/.config/pdftext/config.yaml)")
	pf.String("backend", string(types.BackendNative), "extraction backend: native, pdfcpu, or pdftotext")
	pf.String("password", "", "password for encrypted PDFs (default: .secrets/pdf-password); "+
		"the pdftotext backend passes it on the container command line, where ps and docker inspect can see it")
	pf.String("image", types.DefaultImage, "container image for the pdftotext backend")
	pf.String("catalog", "", "SQLite catalog to record extractions in")
	pf.BoolP("verbose", "v", false, "print per-page progress to stderr")

	f := rootCmd.Flags()
	f.StringP("input", "i", types.DefaultInput, "PDF file or http(s) URL to read")
	f.StringP("output", "o", types.DefaultOutput, "text file to write")

	for _, name := range []string{"backend", "password", "image", "catalog", "verbose"} {
		viper.BindPFlag(name, pf.Lookup(name))
	}
	viper.BindPFlag("input", f.Lookup("input"))
	viper.BindPFlag("output", f.Lookup("output"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pdftext")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pdftext"))
		}
	}

	viper.SetEnvPrefix("PDFTEXT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// extractionConfig assembles the run configuration from flags, config file,
// environment, and secrets.
func extractionConfig() types.ExtractionConfig {
	cfg := types.ExtractionConfig{
		Input:    viper.GetString("input"),
		Output:   viper.GetString("output"),
		OutDir:   viper.GetString("out_dir"),
		Backend:  types.Backend(viper.GetString("backend")),
		Password: secretDefault(secrets.PDFPassword, viper.GetString("password")),
		Image:    viper.GetString("image"),
		Catalog:  viper.GetString("catalog"),
	}
	return cfg.WithDefaults()
}

// progress returns the writer for per-page progress lines.
func progress() io.Writer {
	if viper.GetBool("verbose") {
		return os.Stderr
	}
	return io.Discard
}

func runExtractOne(cmd *cobra.Command, args []string) error {
	cfg := extractionConfig()

	opener, err := pdftext.NewOpener(cfg)
	if err != nil {
		return err
	}

	ext, err := pdftext.Run(cmd.Context(), opener, cfg, progress())
	if err != nil {
		return err
	}

	if cfg.Catalog != "" {
		if err := recordExtractions(cmd.Context(), cfg.Catalog, ext); err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Content saved to %s\n", ext.Output)
	return nil
}

func recordExtractions(ctx context.Context, path string, exts ...*types.Extraction) error {
	cat, err := catalog.Open(path)
	if err != nil {
		return err
	}
	defer cat.Close()

	for _, e := range exts {
		if err := cat.Record(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
