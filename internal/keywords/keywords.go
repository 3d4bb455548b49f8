// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package keywords holds the normative keyword registry and the text
// patterns shared by both parsers and the statement matcher.
// Implements: BCP 14 keyword scanning (RFC 2119, RFC 8174), RFC and
// section cross-reference patterns, and section header recognition.
//
// All patterns are compiled once at package init. A *regexp.Regexp keeps no
// match cursor between calls, so every scan starts from the beginning of its
// input and concurrent use is safe.
package keywords

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/rfc-engine/pkg/types"
)

// Levels lists every requirement level, longest first within shared
// prefixes so that alternation never stops at "MUST" when "MUST NOT" is
// present.
var Levels = []types.RequirementLevel{
	types.LevelMustNot,
	types.LevelMust,
	types.LevelRequired,
	types.LevelShallNot,
	types.LevelShall,
	types.LevelShouldNot,
	types.LevelShould,
	types.LevelNotRecommended,
	types.LevelRecommended,
	types.LevelMay,
	types.LevelOptional,
}

var (
	documentPattern  = regexp.MustCompile(levelAlternation(false))
	statementPattern = regexp.MustCompile(levelAlternation(true))

	rfcRefPattern       = regexp.MustCompile(`\bRFC\s*(\d+)`)
	sectionOfRFCPattern = regexp.MustCompile(`\b[Ss]ection\s+(\d+(?:\.\d+)*)\.?\s+of\s+\[?RFC\s*(\d+)\]?`)
	sectionRefPattern   = regexp.MustCompile(`\b[Ss]ection\s+(\d+(?:\.\d+)*)`)
	headerPattern       = regexp.MustCompile(`^(\d+(?:\.\d+)*)\.?[ \t]+(\S.*?)\s*$`)
)

// levelAlternation builds `\b(?:MUST\s+NOT|MUST|...)\b`. Multi-word
// keywords tolerate any whitespace, including line breaks, between words.
func levelAlternation(caseInsensitive bool) string {
	alts := make([]string, len(Levels))
	for i, l := range Levels {
		alts[i] = strings.ReplaceAll(string(l), " ", `\s+`)
	}
	expr := `\b(?:` + strings.Join(alts, "|") + `)\b`
	if caseInsensitive {
		expr = `(?i)` + expr
	}
	return expr
}

// RequirementPattern returns the keyword pattern used for document scanning
// (case-sensitive, only uppercase keywords are normative) or for statement
// analysis (case-insensitive).
func RequirementPattern(caseInsensitive bool) *regexp.Regexp {
	if caseInsensitive {
		return statementPattern
	}
	return documentPattern
}

// LevelOf maps a matched keyword, in any case and with any internal
// whitespace, to its RequirementLevel. It returns "" for non-keywords.
func LevelOf(match string) types.RequirementLevel {
	l := types.RequirementLevel(strings.ToUpper(CollapseSpace(match)))
	if l.Valid() {
		return l
	}
	return ""
}

// ScanMarkers returns one marker per normative keyword in text, in order.
// Position is the byte offset of the keyword.
func ScanMarkers(text string) []types.RequirementMarker {
	var markers []types.RequirementMarker
	for _, loc := range documentPattern.FindAllStringIndex(text, -1) {
		markers = append(markers, types.RequirementMarker{
			Level:    LevelOf(text[loc[0]:loc[1]]),
			Position: loc[0],
		})
	}
	return markers
}

// DetectLevel returns the first requirement level found in a free-text
// statement, ignoring case, or "" when there is none.
func DetectLevel(statement string) types.RequirementLevel {
	m := statementPattern.FindString(statement)
	if m == "" {
		return ""
	}
	return LevelOf(m)
}

// ScanCrossReferences returns the RFC and section references found in text
// by pattern. "Section 5.2 of RFC 6455" yields a single RFC reference
// qualified with the section rather than a local section reference.
// Duplicates are dropped, keeping the first occurrence.
func ScanCrossReferences(text string) []types.CrossReference {
	var refs []types.CrossReference
	seen := make(map[string]bool)
	add := func(r types.CrossReference) {
		key := string(r.Type) + "|" + r.Target + "|" + r.Section
		if seen[key] {
			return
		}
		seen[key] = true
		refs = append(refs, r)
	}

	qualified := make(map[int]bool)
	for _, m := range sectionOfRFCPattern.FindAllStringSubmatchIndex(text, -1) {
		qualified[m[2]] = true
		add(types.CrossReference{
			Target:  "RFC" + text[m[4]:m[5]],
			Type:    types.CrossRefRFC,
			Section: text[m[2]:m[3]],
		})
	}
	for _, m := range rfcRefPattern.FindAllStringSubmatch(text, -1) {
		add(types.CrossReference{Target: "RFC" + m[1], Type: types.CrossRefRFC})
	}
	for _, m := range sectionRefPattern.FindAllStringSubmatchIndex(text, -1) {
		if qualified[m[2]] {
			continue
		}
		num := text[m[2]:m[3]]
		add(types.CrossReference{
			Target:  "section-" + num,
			Type:    types.CrossRefSection,
			Section: num,
		})
	}
	return refs
}

// RFCNumbers returns the distinct RFC numbers mentioned in text, in order
// of first appearance.
func RFCNumbers(text string) []int {
	var nums []int
	seen := make(map[int]bool)
	for _, m := range rfcRefPattern.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil || n == 0 || seen[n] {
			continue
		}
		seen[n] = true
		nums = append(nums, n)
	}
	return nums
}

// ParseHeader reports whether line has the shape of a numbered section
// heading ("3.5.1. Title" or "3.5.1  Title") starting in column 0, and
// returns its number and title.
func ParseHeader(line string) (number, title string, ok bool) {
	m := headerPattern.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// Depth returns the number of dotted segments in a section number.
func Depth(number string) int {
	if number == "" {
		return 0
	}
	return strings.Count(number, ".") + 1
}

// CollapseSpace replaces every whitespace run, including non-breaking
// spaces, with a single space and trims.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
