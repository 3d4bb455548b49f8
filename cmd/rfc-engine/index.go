// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/rfc-engine/internal/knowledge"
	"github.com/pdiddy/rfc-engine/pkg/types"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the cross-RFC requirement index (store, search, export)",
	Long: `Index keeps a local SQLite database of requirements extracted from many
RFCs so they can be searched together. Use subcommands to index RFCs, query
the index, or export it.`,
}

// --- store subcommand ---

var indexStoreCmd = &cobra.Command{
	Use:   "store [rfc...]",
	Short: "Extract requirements from RFCs and add them to the index",
	Long: `Store parses each RFC, extracts its requirements with subject and action
components, and replaces whatever the index held for that RFC.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIndexStore,
}

func runIndexStore(cmd *cobra.Command, args []string) error {
	numbers, err := parseNumbers(args)
	if err != nil {
		return err
	}

	e, err := newEngine()
	if err != nil {
		return err
	}
	defer e.close()

	store, err := knowledge.NewStore(e.cfg.Index)
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.IngestBatch(cmd.Context(), e.svc, numbers, os.Stdout)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d RFC(s) failed indexing", summary.Failed)
	}
	return nil
}

// --- search subcommand ---

var indexSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed requirements by text and filters",
	Long: `Search matches every word of the query as a prefix of the requirement text
or its section title, optionally filtered by level, RFC and section.`,
	RunE: runIndexSearch,
}

func runIndexSearch(cmd *cobra.Command, args []string) error {
	opts, err := queryOptsFromFlags(cmd, args)
	if err != nil {
		return err
	}
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide a search query, --level, --rfc, or --section")
	}

	store, err := knowledge.NewStore(loadConfig().Index)
	if err != nil {
		return err
	}
	defer store.Close()

	results, err := store.Search(cmd.Context(), opts)
	if err != nil {
		return err
	}

	table, _ := cmd.Flags().GetBool("table")
	if !table {
		if results == nil {
			results = []knowledge.QueryResult{}
		}
		return printResult(cmd.OutOrStdout(), results)
	}
	printSearchTable(cmd.OutOrStdout(), results)
	return nil
}

func printSearchTable(w io.Writer, results []knowledge.QueryResult) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-6s  %-15s  %-10s  %s\n", "Rank", "RFC", "Level", "Section", "Requirement")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for i, r := range results {
		text := r.Text
		if len(text) > 60 {
			text = text[:57] + "..."
		}
		fmt.Fprintf(w, "%-4d  %-6d  %-15s  %-10s  %s\n", i+1, r.RFC, r.Level, r.Section, text)
	}
	fmt.Fprintf(w, "\n%d results\n", len(results))
}

// --- export subcommand ---

var indexExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the index to YAML or JSON",
	Long: `Export writes the full index (or a filtered subset) to
<index-dir>/export.yaml or export.json. Supports the same filter flags as
search.`,
	RunE: runIndexExport,
}

func runIndexExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	opts, err := queryOptsFromFlags(cmd, args)
	if err != nil {
		return err
	}

	store, err := knowledge.NewStore(loadConfig().Index)
	if err != nil {
		return err
	}
	defer store.Close()

	var path string
	switch format {
	case "yaml", "":
		path, err = store.ExportYAML(cmd.Context(), opts)
	case "json":
		path, err = store.ExportJSON(cmd.Context(), opts)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}
	fmt.Println("Exported to", path)
	return nil
}

// --- shared helpers ---

func queryOptsFromFlags(cmd *cobra.Command, args []string) (knowledge.QueryOptions, error) {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}
	levelFlag, _ := cmd.Flags().GetString("level")
	rfc, _ := cmd.Flags().GetInt("rfc")
	section, _ := cmd.Flags().GetString("section")
	limit, _ := cmd.Flags().GetInt("limit")

	level, err := types.ParseLevel(levelFlag)
	if err != nil {
		return knowledge.QueryOptions{}, err
	}
	return knowledge.QueryOptions{
		Query:      queryText,
		Level:      level,
		RFC:        rfc,
		Section:    section,
		MaxResults: limit,
	}, nil
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("query", "", "full-text query")
	cmd.Flags().String("level", "", "filter by requirement level")
	cmd.Flags().Int("rfc", 0, "filter by RFC number")
	cmd.Flags().String("section", "", "filter by section, subsections included")
	cmd.Flags().Int("limit", 0, "maximum results (0 = default, or all for export)")
}

func init() {
	indexCmd.PersistentFlags().String("index-dir", defaultIndexDir, "directory holding the requirement database")
	_ = viper.BindPFlag(keyIndexDir, indexCmd.PersistentFlags().Lookup("index-dir"))

	addFilterFlags(indexSearchCmd)
	indexSearchCmd.Flags().Bool("table", false, "print a text table instead of structured output")

	addFilterFlags(indexExportCmd)
	indexExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	indexCmd.AddCommand(indexStoreCmd)
	indexCmd.AddCommand(indexSearchCmd)
	indexCmd.AddCommand(indexExportCmd)

	rootCmd.AddCommand(indexCmd)
}
