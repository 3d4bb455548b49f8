// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [rfc...]",
	Short: "Download RFCs into the local mirror",
	Long: `Fetch downloads each RFC into the data directory, XML first and plain text
when no XML source exists, and writes a metadata record from the RFC Editor
index. RFCs already mirrored are skipped.

Identifiers may be numbers, "RFC6455", or rfc-editor.org / datatracker URLs.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	numbers, err := parseNumbers(args)
	if err != nil {
		return err
	}

	e, err := newEngine()
	if err != nil {
		return err
	}
	defer e.close()

	result := e.fetcher.FetchBatch(cmd.Context(), numbers, os.Stdout)
	if result.HasFailures() {
		return fmt.Errorf("%d RFC(s) failed to fetch", result.Failed)
	}
	return nil
}
