// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/rfc-engine/internal/convert"
)

var convertCmd = &cobra.Command{
	Use:   "convert [rfc...]",
	Short: "Render RFCs as Markdown with YAML frontmatter",
	Long: `Convert parses each RFC and writes <data-dir>/markdown/rfcN.md. Existing
Markdown files are skipped unless --force is given.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().Bool("force", false, "overwrite existing Markdown files")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	numbers, err := parseNumbers(args)
	if err != nil {
		return err
	}

	e, err := newEngine()
	if err != nil {
		return err
	}
	defer e.close()

	result := convert.ConvertBatch(cmd.Context(), e.svc, numbers, e.cfg.Fetch.DataDir, force, os.Stdout)
	if result.HasFailures() {
		return fmt.Errorf("%d RFC(s) failed conversion", result.Failed)
	}
	return nil
}
