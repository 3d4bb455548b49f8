// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert renders parsed RFCs as Markdown files.
// Implements: Markdown rendering of the section tree, lists, code, artwork,
// tables, references and definitions with YAML frontmatter, and the batch
// conversion loop writing <data dir>/markdown/rfcN.md.
package convert

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/rfc-engine/internal/acquire"
	"github.com/pdiddy/rfc-engine/internal/service"
	"github.com/pdiddy/rfc-engine/pkg/types"
)

// markdownDir is the subdirectory under the data dir for Markdown output.
const markdownDir = "markdown"

// Source supplies parsed RFCs. *service.Service satisfies it.
type Source interface {
	Document(ctx context.Context, n int) (*service.Parsed, error)
}

// Status is the outcome of converting one RFC.
type Status int

const (
	StatusConverted Status = iota
	StatusSkipped
	StatusFailed
)

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Skipped   int
	Failed    int
}

// Total returns the total number of RFCs processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

// HasFailures reports whether any RFC failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// MarkdownPath returns where the Markdown rendering of RFC n is written.
func MarkdownPath(dataDir string, n int) string {
	return filepath.Join(dataDir, markdownDir, acquire.Slug(n)+".md")
}

// ConvertRFC renders RFC n to Markdown under dataDir. An existing file is
// left alone unless force is set.
func ConvertRFC(ctx context.Context, src Source, n int, dataDir string, force bool, w io.Writer) Status {
	slug := acquire.Slug(n)
	mdPath := MarkdownPath(dataDir, n)

	if !force {
		if _, err := os.Stat(mdPath); err == nil {
			fmt.Fprintf(w, "skipped: %s (already exists)\n", slug)
			return StatusSkipped
		}
	}

	if err := os.MkdirAll(filepath.Dir(mdPath), 0o755); err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", slug, err)
		return StatusFailed
	}

	p, err := src.Document(ctx, n)
	if err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", slug, err)
		return StatusFailed
	}

	content, err := Render(p, time.Now())
	if err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", slug, err)
		return StatusFailed
	}

	if err := os.WriteFile(mdPath, []byte(content), 0o644); err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", slug, err)
		return StatusFailed
	}

	fmt.Fprintf(w, "converted: %s (%s)\n", slug, p.Source)
	return StatusConverted
}

// ConvertBatch converts each RFC, printing per-RFC status to w and
// returning a summary.
func ConvertBatch(ctx context.Context, src Source, numbers []int, dataDir string, force bool, w io.Writer) BatchResult {
	var result BatchResult
	for _, n := range numbers {
		switch ConvertRFC(ctx, src, n, dataDir, force, w) {
		case StatusConverted:
			result.Converted++
		case StatusSkipped:
			result.Skipped++
		case StatusFailed:
			result.Failed++
		}
	}
	fmt.Fprintf(w, "\nBatch summary: %d converted, %d skipped, %d failed (total: %d)\n",
		result.Converted, result.Skipped, result.Failed, result.Total())
	return result
}

// frontmatter is the YAML header of a rendered RFC.
type frontmatter struct {
	RFC         int                `yaml:"rfc"`
	Title       string             `yaml:"title"`
	DocName     string             `yaml:"doc_name,omitempty"`
	Source      types.SourceFormat `yaml:"source"`
	SourceNote  string             `yaml:"source_note,omitempty"`
	Origin      string             `yaml:"origin,omitempty"`
	ConvertedAt string             `yaml:"converted_at"`
}

// addFrontmatter prepends YAML frontmatter to the rendered Markdown body.
func addFrontmatter(p *service.Parsed, body string, now time.Time) (string, error) {
	fm := frontmatter{
		RFC:         p.Number,
		Title:       p.Document.Metadata.Title,
		DocName:     p.Document.Metadata.DocName,
		Source:      p.Source,
		SourceNote:  p.SourceNote,
		Origin:      p.Origin,
		ConvertedAt: now.UTC().Format(time.RFC3339),
	}
	data, err := yaml.Marshal(&fm)
	if err != nil {
		return "", fmt.Errorf("marshaling frontmatter: %w", err)
	}
	return "---\n" + string(data) + "---\n\n" + body, nil
}
