// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the rfc-engine CLI.
// Implements: the command-line surface over fetching, parsing, requirement
// extraction, checklists, statement validation, Markdown export, the
// requirement index and the stdio tool server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the rfc-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "rfc-engine",
	Short: "Parse RFCs, extract requirements and validate statements against them",
	Long: `rfc-engine fetches IETF RFCs (XML first, plain text as a fallback), parses
them into a section tree, and answers questions about them: structure,
normative requirements, definitions, dependencies, related sections,
implementation checklists and whether a statement contradicts the RFC.

Results print as JSON or YAML. The serve command exposes the same queries as
tools over stdio.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return checkOutputFormat()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./rfc-engine.yaml or ~/.config/rfc-engine/rfc-engine.yaml)")
	pf.String("data-dir", defaultDataDir, "raw mirror directory (contains raw/, metadata/, markdown/)")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.StringP("output", "o", outputJSON, "result format: json or yaml")

	_ = viper.BindPFlag(keyDataDir, pf.Lookup("data-dir"))
	_ = viper.BindPFlag(keyLogLevel, pf.Lookup("log-level"))
	_ = viper.BindPFlag(keyOutput, pf.Lookup("output"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("rfc-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "rfc-engine"))
		}
	}

	viper.SetEnvPrefix("RFC_ENGINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
