// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package xmlparse converts RFC XML (v2 and v3 vocabularies) into the
// shared Document Model.
// Implements: keyword pre-normalization, metadata, section tree with
// appendices, content blocks in document order, explicit and pattern
// cross-references, recursive reference flattening, and definition lists.
//
// Parse never fails. Malformed input degrades to placeholders.
package xmlparse

import (
	"encoding/xml"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
	"golang.org/x/net/html/charset"

	"github.com/pdiddy/rfc-engine/internal/keywords"
	"github.com/pdiddy/rfc-engine/pkg/types"
)

const (
	untitled        = "Untitled"
	untitledSection = "Untitled Section"
)

var (
	rfcExpr           = xpath.MustCompile(`//rfc`)
	frontTitleExpr    = xpath.MustCompile(`front/title`)
	frontSeriesExpr   = xpath.MustCompile(`front/seriesInfo[@name='RFC']`)
	middleSectionExpr = xpath.MustCompile(`middle/section`)
	backSectionExpr   = xpath.MustCompile(`back/section`)
	backRefsExpr      = xpath.MustCompile(`back/references`)
	refSeriesExpr     = xpath.MustCompile(`.//seriesInfo[@name='RFC']`)
	refTitleExpr      = xpath.MustCompile(`front/title`)
	dlExpr            = xpath.MustCompile(`//dl`)
	hangingExpr       = xpath.MustCompile(`//list/t[@hangText]`)
)

var (
	bcp14Pattern     = regexp.MustCompile(`(?s)<bcp14>\s*(.*?)\s*</bcp14>`)
	emphasisPatterns = emphasisWrappers("em", "strong", "b", "i", "spanx", "tt")
	rfcAnchorPattern = regexp.MustCompile(`^RFC0*(\d+)$`)
	sectionNumber    = regexp.MustCompile(`^(?:\d+|[A-Z])(?:\.\d+)*$`)
)

// emphasisWrappers builds one pattern per inline tag that matches the tag
// wrapped around a single normative keyword.
func emphasisWrappers(tags ...string) []*regexp.Regexp {
	alts := make([]string, len(keywords.Levels))
	for i, l := range keywords.Levels {
		alts[i] = strings.ReplaceAll(string(l), " ", `\s+`)
	}
	kw := strings.Join(alts, "|")
	out := make([]*regexp.Regexp, len(tags))
	for i, tag := range tags {
		out[i] = regexp.MustCompile(`<` + tag + `(?:\s[^>]*)?>\s*(` + kw + `)\s*</` + tag + `>`)
	}
	return out
}

// Normalize flattens markup that wraps a normative keyword into plain text so
// the keyword survives as inline text in the parsed tree.
func Normalize(raw string) string {
	out := bcp14Pattern.ReplaceAllString(raw, "$1")
	for _, re := range emphasisPatterns {
		out = re.ReplaceAllString(out, "$1")
	}
	return out
}

type parser struct {
	numbers        map[*xmlquery.Node]string
	sectionAnchors map[string]string
	refRFC         map[string]int
}

// Parse converts RFC XML text into a Document. Input that is not XML at all
// yields an empty document titled "Untitled".
func Parse(raw string) *types.Document {
	doc := emptyDocument()

	root, err := xmlquery.ParseWithOptions(strings.NewReader(Normalize(raw)), xmlquery.ParserOptions{
		Decoder: &xmlquery.DecoderOptions{
			Entity:        xml.HTMLEntity,
			CharsetReader: charset.NewReaderLabel,
		},
	})
	if err != nil || root == nil {
		return doc
	}

	rfc := xmlquery.QuerySelector(root, rfcExpr)
	if rfc == nil {
		rfc = root
	}

	p := &parser{
		numbers:        make(map[*xmlquery.Node]string),
		sectionAnchors: make(map[string]string),
		refRFC:         make(map[string]int),
	}

	doc.Metadata = metadata(rfc)
	doc.References = p.references(rfc)

	middle := xmlquery.QuerySelectorAll(rfc, middleSectionExpr)
	back := xmlquery.QuerySelectorAll(rfc, backSectionExpr)
	p.index(middle, "", false)
	p.index(back, "", true)

	doc.Sections = append(doc.Sections, p.sections(middle)...)
	doc.Sections = append(doc.Sections, p.sections(back)...)
	doc.Definitions = p.definitions(rfc)
	return doc
}

func emptyDocument() *types.Document {
	return &types.Document{
		Metadata:    types.Metadata{Title: untitled},
		Sections:    []types.Section{},
		References:  types.References{Normative: []types.Reference{}, Informative: []types.Reference{}},
		Definitions: []types.Definition{},
	}
}

func metadata(rfc *xmlquery.Node) types.Metadata {
	md := types.Metadata{Title: untitled, DocName: rfc.SelectAttr("docName")}
	if t := xmlquery.QuerySelector(rfc, frontTitleExpr); t != nil {
		if s := keywords.CollapseSpace(t.InnerText()); s != "" {
			md.Title = s
		}
	}
	if n, err := strconv.Atoi(strings.TrimSpace(rfc.SelectAttr("number"))); err == nil {
		md.Number = n
	} else if si := xmlquery.QuerySelector(rfc, frontSeriesExpr); si != nil {
		if n, err := strconv.Atoi(strings.TrimSpace(si.SelectAttr("value"))); err == nil {
			md.Number = n
		}
	}
	return md
}

// index assigns a number to every section node before content extraction so
// that xrefs can resolve forward references to later sections.
func (p *parser) index(nodes []*xmlquery.Node, parent string, appendix bool) {
	for i, n := range nodes {
		num := p.numberFor(n, i, parent, appendix)
		p.numbers[n] = num
		if a := n.SelectAttr("anchor"); a != "" {
			p.sectionAnchors[a] = num
		}
		if pn := n.SelectAttr("pn"); pn != "" {
			p.sectionAnchors[pn] = num
		}
		p.index(childElements(n, "section"), num, false)
	}
}

// numberFor prefers the prepped pn attribute ("section-5.3", "appendix-A.1")
// when it is consistent with the nesting, and otherwise derives the number
// from the node position.
func (p *parser) numberFor(n *xmlquery.Node, i int, parent string, appendix bool) string {
	var derived string
	switch {
	case parent != "":
		derived = fmt.Sprintf("%s.%d", parent, i+1)
	case appendix:
		derived = appendixLetter(i)
	default:
		derived = strconv.Itoa(i + 1)
	}

	pn := n.SelectAttr("pn")
	for _, prefix := range []string{"section-", "appendix-"} {
		pn = strings.TrimPrefix(pn, prefix)
	}
	if !sectionNumber.MatchString(pn) || keywords.Depth(pn) != keywords.Depth(derived) {
		return derived
	}
	if parent != "" && !strings.HasPrefix(pn, parent+".") {
		return derived
	}
	return pn
}

func appendixLetter(i int) string {
	if i < 26 {
		return string(rune('A' + i))
	}
	return fmt.Sprintf("A%d", i)
}

func (p *parser) sections(nodes []*xmlquery.Node) []types.Section {
	var out []types.Section
	for _, n := range nodes {
		s := types.Section{
			Anchor: n.SelectAttr("anchor"),
			Number: p.numbers[n],
			Title:  sectionTitle(n),
		}
		if s.Anchor == "" {
			s.Anchor = n.SelectAttr("pn")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != xmlquery.ElementNode {
				continue
			}
			if c.Data == "section" {
				continue
			}
			s.Content = append(s.Content, p.blocks(c)...)
		}
		s.Subsections = p.sections(childElements(n, "section"))
		out = append(out, s)
	}
	return out
}

func sectionTitle(n *xmlquery.Node) string {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && c.Data == "name" {
			if t := keywords.CollapseSpace(renderInline(c)); t != "" {
				return t
			}
		}
	}
	if t := keywords.CollapseSpace(n.SelectAttr("title")); t != "" {
		return t
	}
	return untitledSection
}

// blocks converts one body element into zero or more content blocks.
func (p *parser) blocks(n *xmlquery.Node) []types.ContentBlock {
	switch n.Data {
	case "name", "iref", "cref":
		return nil
	case "t", "preamble", "postamble":
		return p.paragraph(n)
	case "ul", "ol", "dl", "list":
		if b, ok := p.list(n); ok {
			return []types.ContentBlock{b}
		}
		return nil
	case "sourcecode":
		return []types.ContentBlock{{
			Type:     types.BlockSourceCode,
			Content:  strings.Trim(n.InnerText(), "\n"),
			Language: n.SelectAttr("type"),
		}}
	case "artwork":
		return []types.ContentBlock{{Type: types.BlockArtwork, Content: strings.Trim(n.InnerText(), "\n")}}
	case "table", "texttable":
		return []types.ContentBlock{{Type: types.BlockTable, Content: renderTable(n)}}
	default:
		// figure, blockquote, aside, note and unknown wrappers: flatten.
		var out []types.ContentBlock
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == xmlquery.ElementNode {
				out = append(out, p.blocks(c)...)
			}
		}
		return out
	}
}

// paragraph renders a t element. A v2 paragraph may embed lists and
// figures; it is split around them so each keeps its own block.
func (p *parser) paragraph(n *xmlquery.Node) []types.ContentBlock {
	var out []types.ContentBlock
	var inline []*xmlquery.Node
	flush := func() {
		if b, ok := p.textBlock(inline); ok {
			out = append(out, b)
		}
		inline = nil
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			switch c.Data {
			case "list", "figure", "artwork", "sourcecode":
				flush()
				out = append(out, p.blocks(c)...)
				continue
			}
		}
		inline = append(inline, c)
	}
	flush()
	return out
}

func (p *parser) textBlock(nodes []*xmlquery.Node) (types.ContentBlock, bool) {
	var b strings.Builder
	for _, n := range nodes {
		b.WriteString(renderInline(n))
	}
	text := keywords.CollapseSpace(b.String())
	if text == "" {
		return types.ContentBlock{}, false
	}
	return types.ContentBlock{
		Type:            types.BlockText,
		Content:         text,
		Requirements:    keywords.ScanMarkers(text),
		CrossReferences: p.crossReferences(nodes, text),
	}, true
}

func (p *parser) list(n *xmlquery.Node) (types.ContentBlock, bool) {
	b := types.ContentBlock{Type: types.BlockList}
	switch n.Data {
	case "ul":
		b.Style = "symbols"
	case "ol":
		b.Style = "numbers"
	case "dl":
		b.Style = "definition"
	default:
		b.Style = n.SelectAttr("style")
		if b.Style == "" {
			b.Style = "empty"
		}
	}

	addItem := func(label string, nodes ...*xmlquery.Node) {
		var sb strings.Builder
		sb.WriteString(label)
		for _, c := range nodes {
			sb.WriteString(renderInline(c))
			sb.WriteString(" ")
		}
		text := keywords.CollapseSpace(sb.String())
		if text == "" {
			return
		}
		b.Items = append(b.Items, types.ListItem{
			Content:         text,
			Requirements:    keywords.ScanMarkers(text),
			CrossReferences: p.crossReferences(nodes, text),
		})
	}

	switch n.Data {
	case "dl":
		var term *xmlquery.Node
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != xmlquery.ElementNode {
				continue
			}
			switch c.Data {
			case "dt":
				term = c
			case "dd":
				if term != nil {
					addItem(keywords.CollapseSpace(renderInline(term))+": ", c)
				} else {
					addItem("", c)
				}
				term = nil
			}
		}
	case "list":
		for _, c := range childElements(n, "t") {
			if hang := keywords.CollapseSpace(c.SelectAttr("hangText")); hang != "" {
				addItem(hang+": ", c)
			} else {
				addItem("", c)
			}
		}
	default:
		for _, c := range childElements(n, "li") {
			addItem("", c)
		}
	}
	return b, len(b.Items) > 0
}

// crossReferences collects explicit xref/eref targets first, then merges
// pattern-based references whose target is not already present.
func (p *parser) crossReferences(nodes []*xmlquery.Node, text string) []types.CrossReference {
	var refs []types.CrossReference
	seen := make(map[string]bool)
	add := func(r types.CrossReference) {
		if r.Target == "" || seen[r.Target] {
			return
		}
		seen[r.Target] = true
		refs = append(refs, r)
	}

	var visit func(n *xmlquery.Node)
	visit = func(n *xmlquery.Node) {
		if n.Type == xmlquery.ElementNode {
			switch n.Data {
			case "xref":
				add(p.resolveXref(n))
			case "eref":
				add(types.CrossReference{Target: n.SelectAttr("target"), Type: types.CrossRefExternal})
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	for _, n := range nodes {
		visit(n)
	}

	for _, r := range keywords.ScanCrossReferences(text) {
		add(r)
	}
	return refs
}

func (p *parser) resolveXref(n *xmlquery.Node) types.CrossReference {
	target := n.SelectAttr("target")
	if sec := n.SelectAttr("section"); sec != "" {
		if num, ok := p.refRFC[target]; ok {
			return types.CrossReference{Target: "RFC" + strconv.Itoa(num), Type: types.CrossRefRFC, Section: sec}
		}
		return types.CrossReference{Target: target, Type: types.CrossRefReference, Section: sec}
	}
	if num, ok := p.sectionAnchors[target]; ok {
		return types.CrossReference{Target: "section-" + num, Type: types.CrossRefSection, Section: num}
	}
	if num, ok := p.refRFC[target]; ok {
		return types.CrossReference{Target: "RFC" + strconv.Itoa(num), Type: types.CrossRefRFC}
	}
	return types.CrossReference{Target: target, Type: types.CrossRefReference}
}

// references flattens every references container, however deeply nested.
func (p *parser) references(rfc *xmlquery.Node) types.References {
	refs := types.References{Normative: []types.Reference{}, Informative: []types.Reference{}}
	for _, container := range xmlquery.QuerySelectorAll(rfc, backRefsExpr) {
		p.collectReferences(container, types.ReferenceInformative, &refs)
	}
	return refs
}

func (p *parser) collectReferences(container *xmlquery.Node, inherited types.ReferenceType, refs *types.References) {
	kind := classify(container, inherited)
	for c := container.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != xmlquery.ElementNode {
			continue
		}
		switch c.Data {
		case "references":
			p.collectReferences(c, kind, refs)
		case "referencegroup":
			for _, r := range childElements(c, "reference") {
				p.addReference(r, kind, refs)
			}
		case "reference":
			p.addReference(c, kind, refs)
		}
	}
}

// classify reads the container title, anchor and name. Containers that
// name neither kind inherit from their parent.
func classify(container *xmlquery.Node, inherited types.ReferenceType) types.ReferenceType {
	label := container.SelectAttr("title") + " " + container.SelectAttr("anchor")
	for _, name := range childElements(container, "name") {
		label += " " + name.InnerText()
	}
	label = strings.ToLower(label)
	switch {
	case strings.Contains(label, "normative"):
		return types.ReferenceNormative
	case strings.Contains(label, "informative"):
		return types.ReferenceInformative
	}
	return inherited
}

func (p *parser) addReference(n *xmlquery.Node, kind types.ReferenceType, refs *types.References) {
	r := types.Reference{
		Anchor: n.SelectAttr("anchor"),
		Type:   kind,
		Target: n.SelectAttr("target"),
	}
	if t := xmlquery.QuerySelector(n, refTitleExpr); t != nil {
		r.Title = keywords.CollapseSpace(t.InnerText())
	}
	if si := xmlquery.QuerySelector(n, refSeriesExpr); si != nil {
		if num, err := strconv.Atoi(strings.TrimSpace(si.SelectAttr("value"))); err == nil {
			r.RFCNumber = num
		}
	}
	if r.RFCNumber == 0 {
		if m := rfcAnchorPattern.FindStringSubmatch(r.Anchor); m != nil {
			r.RFCNumber, _ = strconv.Atoi(m[1])
		}
	}
	if r.Anchor != "" && r.RFCNumber > 0 {
		p.refRFC[r.Anchor] = r.RFCNumber
	}
	if kind == types.ReferenceNormative {
		refs.Normative = append(refs.Normative, r)
	} else {
		refs.Informative = append(refs.Informative, r)
	}
}

// definitions scans the whole tree for v3 definition lists and v2 hanging
// lists, tagging each term with its nearest enclosing section number.
func (p *parser) definitions(rfc *xmlquery.Node) []types.Definition {
	defs := []types.Definition{}
	for _, dl := range xmlquery.QuerySelectorAll(rfc, dlExpr) {
		section := p.enclosingSection(dl)
		var term string
		for c := dl.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != xmlquery.ElementNode {
				continue
			}
			switch c.Data {
			case "dt":
				term = keywords.CollapseSpace(renderInline(c))
			case "dd":
				def := keywords.CollapseSpace(renderInline(c))
				if term != "" && def != "" {
					defs = append(defs, types.Definition{Term: term, Definition: def, Section: section})
				}
				term = ""
			}
		}
	}
	for _, t := range xmlquery.QuerySelectorAll(rfc, hangingExpr) {
		term := keywords.CollapseSpace(t.SelectAttr("hangText"))
		def := keywords.CollapseSpace(renderInline(t))
		if term != "" && def != "" {
			defs = append(defs, types.Definition{Term: term, Definition: def, Section: p.enclosingSection(t)})
		}
	}
	return defs
}

func (p *parser) enclosingSection(n *xmlquery.Node) string {
	for a := n.Parent; a != nil; a = a.Parent {
		if num, ok := p.numbers[a]; ok {
			return num
		}
	}
	return ""
}

func childElements(n *xmlquery.Node, name string) []*xmlquery.Node {
	var out []*xmlquery.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && c.Data == name {
			out = append(out, c)
		}
	}
	return out
}
