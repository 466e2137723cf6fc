package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pdftext/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the extraction catalog",
	Long: `Catalog reads the SQLite database that extractions are recorded in when
--catalog is set. Without --catalog it uses ` + catalog.DefaultPath + `.`,
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded documents",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := openCatalog()
		if err != nil {
			return err
		}
		defer cat.Close()

		docs, err := cat.List(cmd.Context())
		if err != nil {
			return err
		}
		if len(docs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No documents recorded.")
			return nil
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "PATH\tBACKEND\tPAGES\tEMPTY\tEXTRACTED")
		for _, d := range docs {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n",
				d.Path, d.Backend, d.Pages, d.EmptyPages, d.ExtractedAt.Format("2006-01-02 15:04"))
		}
		return tw.Flush()
	},
}

var catalogSearchCmd = &cobra.Command{
	Use:   "search <query>...",
	Short: "Search recorded page text",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		cat, err := openCatalog()
		if err != nil {
			return err
		}
		defer cat.Close()

		hits, err := cat.Search(cmd.Context(), strings.Join(args, " "), limit)
		if err != nil {
			return err
		}
		if len(hits) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No matches.")
			return nil
		}
		for _, h := range hits {
			fmt.Fprintf(cmd.OutOrStdout(), "%s:%d: %s\n", h.Path, h.Page, h.Snippet)
		}
		return nil
	},
}

var catalogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export recorded documents and their pages as YAML or JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		cat, err := openCatalog()
		if err != nil {
			return err
		}
		defer cat.Close()

		return cat.Export(cmd.Context(), cmd.OutOrStdout(), catalog.Format(format))
	},
}

func openCatalog() (*catalog.Catalog, error) {
	path := viper.GetString("catalog")
	if path == "" {
		path = catalog.DefaultPath
	}
	return catalog.Open(path)
}

func init() {
	catalogSearchCmd.Flags().Int("limit", 20, "maximum number of hits")
	catalogExportCmd.Flags().String("format", string(catalog.FormatYAML), "output format: yaml or json")

	catalogCmd.AddCommand(catalogListCmd, catalogSearchCmd, catalogExportCmd)
	rootCmd.AddCommand(catalogCmd)
}
