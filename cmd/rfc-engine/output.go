// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"
)

const (
	outputJSON = "json"
	outputYAML = "yaml"
)

func checkOutputFormat() error {
	switch f := viper.GetString(keyOutput); f {
	case outputJSON, outputYAML:
		return nil
	default:
		return fmt.Errorf("unsupported output format %q: use json or yaml", f)
	}
}

// printResult writes v to w in the configured output format.
func printResult(w io.Writer, v any) error {
	if viper.GetString(keyOutput) == outputYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
