// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/rfc-engine/internal/service"
	"github.com/pdiddy/rfc-engine/pkg/types"
)

// maxHeading is the deepest Markdown heading level.
const maxHeading = 6

// Render returns the Markdown rendering of p with YAML frontmatter.
func Render(p *service.Parsed, now time.Time) (string, error) {
	var b strings.Builder
	doc := p.Document

	fmt.Fprintf(&b, "# RFC %d: %s\n", p.Number, doc.Metadata.Title)
	if p.SourceNote != "" {
		fmt.Fprintf(&b, "\n> %s\n", p.SourceNote)
	}
	for i := range doc.Sections {
		renderSection(&b, &doc.Sections[i], 2)
	}
	renderReferences(&b, doc.References)
	renderDefinitions(&b, doc.Definitions)

	return addFrontmatter(p, b.String(), now)
}

func renderSection(b *strings.Builder, s *types.Section, depth int) {
	level := min(depth, maxHeading)
	heading := s.Title
	if s.Number != "" {
		heading = s.Number + ". " + s.Title
	}
	fmt.Fprintf(b, "\n%s %s\n", strings.Repeat("#", level), heading)

	for _, blk := range s.Content {
		b.WriteString("\n")
		renderBlock(b, blk)
	}
	for i := range s.Subsections {
		renderSection(b, &s.Subsections[i], depth+1)
	}
}

func renderBlock(b *strings.Builder, blk types.ContentBlock) {
	switch blk.Type {
	case types.BlockText:
		b.WriteString(blk.Content)
		b.WriteString("\n")
	case types.BlockList:
		for i, it := range blk.Items {
			if blk.Style == "numbers" {
				fmt.Fprintf(b, "%d. %s\n", i+1, it.Content)
			} else {
				fmt.Fprintf(b, "- %s\n", it.Content)
			}
		}
	case types.BlockSourceCode:
		fence(b, blk.Language, blk.Content)
	default:
		// Artwork and tables keep their layout.
		fence(b, "", blk.Content)
	}
}

func fence(b *strings.Builder, lang, content string) {
	marker := "```"
	for strings.Contains(content, marker) {
		marker += "`"
	}
	fmt.Fprintf(b, "%s%s\n%s\n%s\n", marker, lang, strings.TrimRight(content, "\n"), marker)
}

func renderReferences(b *strings.Builder, refs types.References) {
	if len(refs.Normative) == 0 && len(refs.Informative) == 0 {
		return
	}
	b.WriteString("\n## References\n")
	for _, group := range []struct {
		title string
		refs  []types.Reference
	}{
		{"Normative References", refs.Normative},
		{"Informative References", refs.Informative},
	} {
		if len(group.refs) == 0 {
			continue
		}
		fmt.Fprintf(b, "\n### %s\n\n", group.title)
		for _, r := range group.refs {
			line := fmt.Sprintf("- [%s] %s", r.Anchor, r.Title)
			if r.RFCNumber != 0 {
				line += fmt.Sprintf(" (RFC %d)", r.RFCNumber)
			}
			if r.Target != "" {
				line += " <" + r.Target + ">"
			}
			b.WriteString(line + "\n")
		}
	}
}

func renderDefinitions(b *strings.Builder, defs []types.Definition) {
	if len(defs) == 0 {
		return
	}
	b.WriteString("\n## Definitions\n\n")
	for _, d := range defs {
		if d.Section != "" {
			fmt.Fprintf(b, "- **%s**: %s (Section %s)\n", d.Term, d.Definition, d.Section)
			continue
		}
		fmt.Fprintf(b, "- **%s**: %s\n", d.Term, d.Definition)
	}
}
