// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package knowledge

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// ExportEntry is one requirement in an export file.
type ExportEntry struct {
	ID        string `json:"id" yaml:"id"`
	RFC       int    `json:"rfc" yaml:"rfc"`
	RFCTitle  string `json:"rfc_title,omitempty" yaml:"rfc_title,omitempty"`
	Level     string `json:"level" yaml:"level"`
	Text      string `json:"text" yaml:"text"`
	Section   string `json:"section" yaml:"section"`
	Subject   string `json:"subject,omitempty" yaml:"subject,omitempty"`
	Action    string `json:"action,omitempty" yaml:"action,omitempty"`
	Condition string `json:"condition,omitempty" yaml:"condition,omitempty"`
	Exception string `json:"exception,omitempty" yaml:"exception,omitempty"`
}

const exportLimit = 1000000

// ExportYAML writes matching requirements to <index dir>/export.yaml and
// returns the path.
func (s *Store) ExportYAML(ctx context.Context, opts QueryOptions) (string, error) {
	entries, err := s.exportEntries(ctx, opts)
	if err != nil {
		return "", err
	}
	data, err := yaml.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	path := filepath.Join(s.indexDir, "export.yaml")
	return path, os.WriteFile(path, data, 0o644)
}

// ExportJSON writes matching requirements to <index dir>/export.json and
// returns the path.
func (s *Store) ExportJSON(ctx context.Context, opts QueryOptions) (string, error) {
	entries, err := s.exportEntries(ctx, opts)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	path := filepath.Join(s.indexDir, "export.json")
	return path, os.WriteFile(path, data, 0o644)
}

func (s *Store) exportEntries(ctx context.Context, opts QueryOptions) ([]ExportEntry, error) {
	opts.MaxResults = exportLimit
	results, err := s.Search(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}

	entries := make([]ExportEntry, len(results))
	for i, r := range results {
		entries[i] = ExportEntry{
			ID:        r.ID,
			RFC:       r.RFC,
			RFCTitle:  r.RFCTitle,
			Level:     string(r.Level),
			Text:      r.Text,
			Section:   r.Section,
			Subject:   r.Subject,
			Action:    r.Action,
			Condition: r.Condition,
			Exception: r.Exception,
		}
	}
	return entries, nil
}
