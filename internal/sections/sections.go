// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sections provides section-tree helpers shared by the parsers, the
// requirement extractor and relationship queries.
// Implements: section id normalization, filter matching, depth-first walk,
// lookup by number or anchor, related-section discovery, and content
// stripping for structure-only results.
package sections

import (
	"fmt"
	"strings"

	"github.com/pdiddy/rfc-engine/pkg/types"
)

var structuralPrefixes = []string{"section-", "appendix-"}

// Normalize strips a structural anchor prefix ("section-", "appendix-")
// and any trailing period, so "section-3.5", "3.5." and "3.5" compare equal.
func Normalize(id string) string {
	id = strings.TrimSpace(id)
	lower := strings.ToLower(id)
	for _, p := range structuralPrefixes {
		if strings.HasPrefix(lower, p) {
			id = id[len(p):]
			break
		}
	}
	return strings.TrimSuffix(id, ".")
}

// ID returns the normalized identifier of s: its number when present,
// otherwise its normalized anchor.
func ID(s *types.Section) string {
	if s.Number != "" {
		return Normalize(s.Number)
	}
	return Normalize(s.Anchor)
}

// Matches reports whether a section id satisfies a filter id. Both sides are
// normalized first. With includeSubsections, descendants match too; the
// comparison is segment-aware, so "3.5" covers "3.5.1" but not "3.50".
func Matches(id, filter string, includeSubsections bool) bool {
	id, filter = Normalize(id), Normalize(filter)
	if filter == "" {
		return false
	}
	if id == filter {
		return true
	}
	return includeSubsections && strings.HasPrefix(id, filter+".")
}

// Visit is called once per section during Walk. Parent is nil for roots.
type Visit func(s *types.Section, parent *types.Section, depth int)

// Walk visits every section depth-first, pre-order.
func Walk(secs []types.Section, fn Visit) {
	walk(secs, nil, 1, fn)
}

func walk(secs []types.Section, parent *types.Section, depth int, fn Visit) {
	for i := range secs {
		s := &secs[i]
		fn(s, parent, depth)
		walk(s.Subsections, s, depth+1, fn)
	}
}

// Find returns the first section whose number or anchor matches id after
// normalization.
func Find(secs []types.Section, id string) (*types.Section, bool) {
	want := Normalize(id)
	if want == "" {
		return nil, false
	}
	var found *types.Section
	Walk(secs, func(s *types.Section, _ *types.Section, _ int) {
		if found != nil {
			return
		}
		if ID(s) == want || (s.Anchor != "" && (s.Anchor == id || Normalize(s.Anchor) == want)) {
			found = s
		}
	})
	return found, found != nil
}

// StripContent returns a deep copy of the tree with every content block
// removed, keeping anchors, numbers and titles.
func StripContent(secs []types.Section) []types.Section {
	if secs == nil {
		return nil
	}
	out := make([]types.Section, len(secs))
	for i, s := range secs {
		out[i] = types.Section{
			Anchor:      s.Anchor,
			Number:      s.Number,
			Title:       s.Title,
			Subsections: StripContent(s.Subsections),
		}
	}
	return out
}

// CrossReferences returns every cross-reference in the section's own
// content blocks and list items, excluding subsections.
func CrossReferences(s *types.Section) []types.CrossReference {
	var refs []types.CrossReference
	for _, b := range s.Content {
		refs = append(refs, b.CrossReferences...)
		for _, it := range b.Items {
			refs = append(refs, it.CrossReferences...)
		}
	}
	return refs
}

// Related lists the sections connected to id: its parent, its direct
// children, the local sections it references and the sections that
// reference it. A missing section yields a result with Error set.
func Related(secs []types.Section, id string) types.RelatedSectionsResult {
	target, ok := Find(secs, id)
	if !ok {
		return types.RelatedSectionsResult{Error: fmt.Sprintf("Section %s not found", id)}
	}

	result := types.RelatedSectionsResult{
		Section: displayID(target),
		Title:   target.Title,
	}
	seen := make(map[string]bool)
	add := func(s *types.Section, rel types.Relation) {
		key := displayID(s) + "|" + string(rel)
		if s == target || seen[key] {
			return
		}
		seen[key] = true
		result.RelatedSections = append(result.RelatedSections, types.RelatedSection{
			Section:  displayID(s),
			Title:    s.Title,
			Relation: rel,
		})
	}

	Walk(secs, func(s *types.Section, parent *types.Section, _ int) {
		if s == target && parent != nil {
			add(parent, types.RelationParent)
		}
	})
	for i := range target.Subsections {
		add(&target.Subsections[i], types.RelationChild)
	}
	for _, ref := range CrossReferences(target) {
		if local, ok := resolveLocal(secs, ref); ok {
			add(local, types.RelationReferences)
		}
	}
	Walk(secs, func(s *types.Section, _ *types.Section, _ int) {
		if s == target {
			return
		}
		for _, ref := range CrossReferences(s) {
			if local, ok := resolveLocal(secs, ref); ok && local == target {
				add(s, types.RelationReferencedBy)
				return
			}
		}
	})
	return result
}

// resolveLocal maps a cross-reference to a section of this document.
// References into other RFCs never resolve.
func resolveLocal(secs []types.Section, ref types.CrossReference) (*types.Section, bool) {
	switch ref.Type {
	case types.CrossRefSection:
		if ref.Section != "" {
			if s, ok := Find(secs, ref.Section); ok {
				return s, true
			}
		}
		return Find(secs, ref.Target)
	case types.CrossRefReference:
		// Explicit xrefs to custom section anchors land here.
		return Find(secs, ref.Target)
	}
	return nil, false
}

func displayID(s *types.Section) string {
	if s.Number != "" {
		return s.Number
	}
	return s.Anchor
}
