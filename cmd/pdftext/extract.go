package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pdftext/internal/pdftext"
)

var extractCmd = &cobra.Command{
	Use:   "extract <pdf>...",
	Short: "Extract text from several PDF files into a directory",
	Long: `Extract writes the page-by-page text of each PDF to <out-dir>/<name>.txt.
A file that fails is reported and skipped; the command exits non-zero when
any file failed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := extractionConfig()

		opener, err := pdftext.NewOpener(cfg)
		if err != nil {
			return err
		}

		result := pdftext.ExtractBatch(cmd.Context(), opener, args, cfg.OutDir, cmd.OutOrStdout())

		if cfg.Catalog != "" && len(result.Extractions) > 0 {
			if err := recordExtractions(cmd.Context(), cfg.Catalog, result.Extractions...); err != nil {
				return err
			}
		}

		if result.HasFailures() {
			return fmt.Errorf("%d of %d files failed", result.Failed, result.Total())
		}
		return nil
	},
}

func init() {
	extractCmd.Flags().String("out-dir", "text", "directory for the extracted text files")
	viper.BindPFlag("out_dir", extractCmd.Flags().Lookup("out-dir"))

	rootCmd.AddCommand(extractCmd)
}
