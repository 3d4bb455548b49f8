// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package textparse converts plain-text RFCs into the shared Document Model
// using line heuristics.
// Implements: page artifact removal, title detection, validated section
// header recognition, stack-based hierarchy construction, paragraph
// splitting, informative reference extraction, and term definitions.
//
// Plain text carries no markup, so every result is best effort. References
// are all reported as informative because the text cannot reliably tell the
// two kinds apart.
package textparse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/pdiddy/rfc-engine/internal/keywords"
	"github.com/pdiddy/rfc-engine/pkg/types"
)

const (
	titleScanLines = 30
	minTitleLen    = 10
	maxTitleLen    = 120
	maxHeaderDepth = 5
	maxTopSection  = 99
	shortTitleLen  = 20
	untitledNode   = "Untitled Section"
)

var (
	pageFooterPattern  = regexp.MustCompile(`\[Page \d+\]\s*$`)
	pageHeaderPattern  = regexp.MustCompile(`^RFC \d+\s{2,}.*\s{2,}(January|February|March|April|May|June|July|August|September|October|November|December) \d{4}\s*$`)
	dateLinePattern    = regexp.MustCompile(`^(January|February|March|April|May|June|July|August|September|October|November|December)( \d{1,2},)? \d{4}$`)
	appendixPattern    = regexp.MustCompile(`^Appendix\s+([A-Z])\.?\s+(\S.*?)\s*$`)
	appendixSubPattern = regexp.MustCompile(`^([A-Z](?:\.\d+)+)\.?\s+(\S.*?)\s*$`)
	bibEntryPattern    = regexp.MustCompile(`\[RFC\s*(\d+)\]\s+[^"\[]{0,300}?"([^"]+)"`)
	dashDefPattern     = regexp.MustCompile(`^([A-Za-z][\w\-/()' ]*?)\s+-{1,2}\s+(.+)$`)
	colonDefPattern    = regexp.MustCompile(`^([A-Z][\w\-/()' ]*?):\s+(.+)$`)
)

// sectionKeywords mark a header title as a genuine RFC section.
var sectionKeywords = []string{
	"introduction", "abstract", "overview", "terminology", "conventions",
	"definitions", "background", "security considerations", "iana considerations",
	"privacy considerations", "considerations", "references", "acknowledg",
	"appendix", "requirements", "protocol", "summary", "example", "scope",
	"motivation", "status", "copyright", "contributors", "notation",
}

// bodyTerminators end the section body; their text is not part of any section.
var bodyTerminators = map[string]bool{
	"Author's Address":         true,
	"Authors' Addresses":       true,
	"Full Copyright Statement": true,
	"Intellectual Property":    true,
}

// definitionStopTerms are colon or dash prefixes that are never definitions.
var definitionStopTerms = map[string]bool{
	"note": true, "example": true, "examples": true, "see": true, "e.g": true,
	"category": true, "issn": true, "obsoletes": true, "updates": true,
	"email": true, "phone": true, "uri": true, "status": true,
}

type node struct {
	section  types.Section
	lines    []string
	children []*node
}

// Parse converts RFC plain text into a Document. number is the RFC number
// the text was fetched for; it names the document when no title is found
// and is excluded from the reference list.
func Parse(text string, number int) *types.Document {
	lines := cleanLines(text)

	doc := &types.Document{
		Metadata:    types.Metadata{Title: findTitle(lines, number), Number: number},
		Sections:    []types.Section{},
		References:  types.References{Normative: []types.Reference{}, Informative: references(text, number)},
		Definitions: []types.Definition{},
	}

	roots, defs := segment(lines)
	for _, r := range roots {
		doc.Sections = append(doc.Sections, r.build())
	}
	doc.Definitions = append(doc.Definitions, defs...)
	return doc
}

// cleanLines normalizes line endings and removes page footers, running page
// headers and form feeds.
func cleanLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	raw := strings.Split(text, "\n")
	out := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimRight(strings.ReplaceAll(l, "\f", ""), " \t\r")
		if pageFooterPattern.MatchString(l) || pageHeaderPattern.MatchString(l) {
			continue
		}
		out = append(out, l)
	}
	return out
}

func findTitle(lines []string, number int) string {
	limit := min(len(lines), titleScanLines)
	for _, l := range lines[:limit] {
		if isTitle(strings.TrimSpace(l)) {
			return strings.TrimSpace(l)
		}
	}
	return fmt.Sprintf("RFC %d", number)
}

func isTitle(l string) bool {
	if len(l) < minTitleLen || len(l) > maxTitleLen {
		return false
	}
	if strings.Contains(l, ":") || strings.Contains(l, "   ") {
		return false
	}
	if unicode.IsDigit(rune(l[0])) || strings.Contains(l, "Request for Comments") {
		return false
	}
	return !dateLinePattern.MatchString(l)
}

// validHeader decides whether a candidate "<number> <title>" line is a real
// section boundary rather than a status code or numbered list item.
func validHeader(number, title string) bool {
	depth := keywords.Depth(number)
	if depth > maxHeaderDepth {
		return false
	}
	first, _, _ := strings.Cut(number, ".")
	if n, err := strconv.Atoi(first); err != nil || n > maxTopSection {
		return false
	}
	r := []rune(title)
	if len(r) < shortTitleLen && unicode.IsLower(r[0]) {
		return false
	}
	lower := strings.ToLower(title)
	for _, kw := range sectionKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	if unicode.IsUpper(r[0]) && len(r) >= 3 {
		return true
	}
	return depth >= 2
}

// header recognizes numbered and appendix section headings in column 0.
func header(line string, inAppendix string) (number, title string, ok bool) {
	if num, t, ok := keywords.ParseHeader(line); ok && validHeader(num, t) {
		return num, t, true
	}
	if m := appendixPattern.FindStringSubmatch(line); m != nil {
		return m[1], m[2], true
	}
	if inAppendix != "" {
		if m := appendixSubPattern.FindStringSubmatch(line); m != nil && strings.HasPrefix(m[1], inAppendix+".") {
			if keywords.Depth(m[1]) <= maxHeaderDepth {
				return m[1], m[2], true
			}
		}
	}
	return "", "", false
}

// segment walks the lines, building the section forest with a stack of
// open sections. A new section pops every open section that is not its
// ancestor; missing intermediate levels get placeholder sections so each
// node's depth always equals its number's depth.
func segment(lines []string) ([]*node, []types.Definition) {
	var (
		roots   []*node
		stack   []*node
		current *node
		defs    []types.Definition
		appx    string
	)

	attach := func(n *node) {
		if len(stack) == 0 {
			roots = append(roots, n)
		} else {
			top := stack[len(stack)-1]
			top.children = append(top.children, n)
		}
		stack = append(stack, n)
	}

	for _, line := range lines {
		if num, title, ok := header(line, appx); ok {
			depth := keywords.Depth(num)
			for len(stack) > 0 {
				top := stack[len(stack)-1]
				if keywords.Depth(top.section.Number) < depth && strings.HasPrefix(num, top.section.Number+".") {
					break
				}
				stack = stack[:len(stack)-1]
			}
			parts := strings.Split(num, ".")
			for d := len(stack) + 1; d < depth; d++ {
				attach(&node{section: types.Section{
					Number: strings.Join(parts[:d], "."),
					Title:  untitledNode,
				}})
			}
			current = &node{section: types.Section{
				Anchor: anchorFor(num),
				Number: num,
				Title:  title,
			}}
			attach(current)
			if unicode.IsLetter(rune(num[0])) {
				appx = num[:1]
			} else {
				appx = ""
			}
			continue
		}

		if bodyTerminators[strings.TrimSpace(line)] && !strings.HasPrefix(line, " ") {
			current = nil
			stack = nil
			continue
		}
		if current == nil {
			continue
		}
		current.lines = append(current.lines, line)
		if d, ok := definition(line, current.section.Number); ok {
			defs = append(defs, d)
		}
	}
	return roots, defs
}

func anchorFor(number string) string {
	if unicode.IsLetter(rune(number[0])) {
		return "appendix-" + number
	}
	return "section-" + number
}

// build converts the node tree into Sections, splitting each body into
// paragraphs on blank lines.
func (n *node) build() types.Section {
	s := n.section
	for _, p := range paragraphs(n.lines) {
		s.Content = append(s.Content, types.ContentBlock{
			Type:            types.BlockText,
			Content:         p,
			Requirements:    keywords.ScanMarkers(p),
			CrossReferences: keywords.ScanCrossReferences(p),
		})
	}
	for _, c := range n.children {
		s.Subsections = append(s.Subsections, c.build())
	}
	return s
}

func paragraphs(lines []string) []string {
	var out []string
	var cur []string
	flush := func() {
		if len(cur) > 0 {
			out = append(out, keywords.CollapseSpace(strings.Join(cur, " ")))
			cur = nil
		}
	}
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			flush()
			continue
		}
		cur = append(cur, strings.TrimSpace(l))
	}
	flush()
	return out
}

// references lists every RFC mentioned in the text except the document
// itself. Titles come from the bibliography entry when one is present.
func references(text string, self int) []types.Reference {
	titles := make(map[int]string)
	for _, m := range bibEntryPattern.FindAllStringSubmatch(keywords.CollapseSpace(text), -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if _, ok := titles[n]; !ok {
			titles[n] = strings.TrimRight(strings.TrimSpace(m[2]), ",")
		}
	}

	refs := []types.Reference{}
	for _, n := range keywords.RFCNumbers(text) {
		if n == self {
			continue
		}
		title, ok := titles[n]
		if !ok {
			title = fmt.Sprintf("RFC %d", n)
		}
		refs = append(refs, types.Reference{
			Anchor:    fmt.Sprintf("RFC%d", n),
			Type:      types.ReferenceInformative,
			RFCNumber: n,
			Title:     title,
		})
	}
	return refs
}

const (
	minTermLen       = 2
	maxTermWords     = 5
	minDefinitionLen = 10
)

// definition recognizes "term - definition" and "Term: definition" lines.
func definition(line, section string) (types.Definition, bool) {
	l := strings.TrimSpace(line)
	m := dashDefPattern.FindStringSubmatch(l)
	if m == nil {
		m = colonDefPattern.FindStringSubmatch(l)
	}
	if m == nil {
		return types.Definition{}, false
	}
	term := strings.TrimSpace(m[1])
	def := strings.TrimSpace(m[2])
	if len(term) < minTermLen || len(def) < minDefinitionLen {
		return types.Definition{}, false
	}
	if len(strings.Fields(term)) > maxTermWords || definitionStopTerms[strings.ToLower(term)] {
		return types.Definition{}, false
	}
	return types.Definition{Term: term, Definition: def, Section: section}, true
}
