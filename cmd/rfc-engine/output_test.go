// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func TestPrintResult(t *testing.T) {
	v := struct {
		RFC   int    `json:"rfc" yaml:"rfc"`
		Title string `json:"title" yaml:"title"`
	}{RFC: 6455, Title: "The WebSocket Protocol"}

	tests := []struct {
		format string
		want   string
	}{
		{outputJSON, "{\n  \"rfc\": 6455,\n  \"title\": \"The WebSocket Protocol\"\n}\n"},
		{outputYAML, "rfc: 6455\ntitle: The WebSocket Protocol\n"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			viper.Set(keyOutput, tt.format)
			defer viper.Set(keyOutput, outputJSON)

			var buf bytes.Buffer
			if err := printResult(&buf, v); err != nil {
				t.Fatalf("printResult: %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("got %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestCheckOutputFormat(t *testing.T) {
	viper.Set(keyOutput, "xml")
	defer viper.Set(keyOutput, outputJSON)

	err := checkOutputFormat()
	if err == nil || !strings.Contains(err.Error(), `"xml"`) {
		t.Errorf("checkOutputFormat() = %v, want unsupported format error", err)
	}
}

func TestParseNumbers(t *testing.T) {
	got, err := parseNumbers([]string{"6455", "RFC9110"})
	if err != nil {
		t.Fatalf("parseNumbers: %v", err)
	}
	if len(got) != 2 || got[0] != 6455 || got[1] != 9110 {
		t.Errorf("parseNumbers = %v, want [6455 9110]", got)
	}

	if _, err := parseNumbers([]string{"6455", "not-an-rfc"}); err == nil {
		t.Error("expected error for invalid identifier")
	}
}
