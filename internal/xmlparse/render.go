// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package xmlparse

import (
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/pdiddy/rfc-engine/internal/keywords"
)

var tableRowExpr = xpath.MustCompile(`.//tr`)

// blockElements are padded with spaces when flattened into inline text so
// adjacent paragraphs of a list item do not run together.
var blockElements = map[string]bool{
	"t": true, "li": true, "dt": true, "dd": true, "ul": true, "ol": true,
	"dl": true, "list": true, "figure": true, "artwork": true, "sourcecode": true,
	"blockquote": true, "aside": true,
}

// renderInline flattens n to text. Empty xrefs are rendered from their
// derived content or as "[target]" so citations stay visible.
func renderInline(n *xmlquery.Node) string {
	var b strings.Builder
	writeInline(&b, n)
	return b.String()
}

func writeInline(b *strings.Builder, n *xmlquery.Node) {
	switch n.Type {
	case xmlquery.TextNode, xmlquery.CharDataNode:
		b.WriteString(n.Data)
		return
	case xmlquery.CommentNode, xmlquery.ProcessingInstruction:
		return
	case xmlquery.ElementNode:
	default:
		writeChildren(b, n)
		return
	}

	switch n.Data {
	case "iref", "cref":
	case "br":
		b.WriteString(" ")
	case "xref":
		writeXref(b, n)
	case "eref":
		if text := strings.TrimSpace(n.InnerText()); text != "" {
			writeChildren(b, n)
		} else {
			b.WriteString(n.SelectAttr("target"))
		}
	default:
		if blockElements[n.Data] {
			b.WriteString(" ")
			writeChildren(b, n)
			b.WriteString(" ")
			return
		}
		writeChildren(b, n)
	}
}

func writeChildren(b *strings.Builder, n *xmlquery.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeInline(b, c)
	}
}

func writeXref(b *strings.Builder, n *xmlquery.Node) {
	target := n.SelectAttr("target")
	hasText := strings.TrimSpace(n.InnerText()) != ""
	label := n.SelectAttr("derivedContent")
	if label == "" {
		label = target
	}

	if sec := n.SelectAttr("section"); sec != "" && !hasText {
		switch n.SelectAttr("sectionFormat") {
		case "comma":
			b.WriteString("[" + label + "], Section " + sec)
		case "parens":
			b.WriteString("[" + label + "] (Section " + sec + ")")
		case "bare":
			b.WriteString(sec)
		default:
			b.WriteString("Section " + sec + " of [" + label + "]")
		}
		return
	}
	if hasText {
		writeChildren(b, n)
		return
	}
	if dc := n.SelectAttr("derivedContent"); dc != "" && isSectionAnchor(target) {
		b.WriteString(dc)
		return
	}
	b.WriteString("[" + label + "]")
}

func isSectionAnchor(target string) bool {
	return strings.HasPrefix(target, "section-") || strings.HasPrefix(target, "appendix-")
}

// renderTable lays a table out one row per line with cells separated by
// " | ". texttable cells are grouped by the number of ttcol headers.
func renderTable(n *xmlquery.Node) string {
	var rows []string
	if n.Data == "texttable" {
		cols := childElements(n, "ttcol")
		var header []string
		for _, c := range cols {
			header = append(header, keywords.CollapseSpace(renderInline(c)))
		}
		if len(header) > 0 {
			rows = append(rows, strings.Join(header, " | "))
		}
		cells := childElements(n, "c")
		width := len(cols)
		if width == 0 {
			width = 1
		}
		for i := 0; i < len(cells); i += width {
			var row []string
			for j := i; j < i+width && j < len(cells); j++ {
				row = append(row, keywords.CollapseSpace(renderInline(cells[j])))
			}
			rows = append(rows, strings.Join(row, " | "))
		}
		return strings.Join(rows, "\n")
	}

	for _, tr := range xmlquery.QuerySelectorAll(n, tableRowExpr) {
		var row []string
		for c := tr.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == xmlquery.ElementNode && (c.Data == "th" || c.Data == "td") {
				row = append(row, keywords.CollapseSpace(renderInline(c)))
			}
		}
		rows = append(rows, strings.Join(row, " | "))
	}
	return strings.Join(rows, "\n")
}
