// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract turns requirement markers in a parsed section tree into
// Requirement records.
// Implements: section and level filtering, sentence extraction around each
// keyword occurrence, per-call requirement ids, optional subject, action,
// condition and exception heuristics, requirement statistics, and
// definition search.
package extract

import (
	"fmt"
	"strings"

	"github.com/pdiddy/rfc-engine/internal/keywords"
	"github.com/pdiddy/rfc-engine/internal/sections"
	"github.com/pdiddy/rfc-engine/pkg/types"
)

// Filter restricts which requirements are returned. The zero value keeps
// everything. Section and Sections accept either bare numbers ("3.5") or
// anchors ("section-3.5"); descendants are included unless
// ExcludeSubsections is set.
type Filter struct {
	Section            string
	Sections           []string
	ExcludeSubsections bool
	Level              types.RequirementLevel
}

// Options configures one extraction call.
type Options struct {
	Filter

	// ParseComponents fills Subject, Action, Condition and Exception.
	ParseComponents bool
}

// Requirements walks secs depth-first and returns one Requirement per
// keyword occurrence that passes the filter. Ids are "R-<section>-<n>" where
// n counts up from 1 within this call.
func Requirements(secs []types.Section, opts Options) []types.Requirement {
	var out []types.Requirement
	ordinal := 0

	sections.Walk(secs, func(s *types.Section, _ *types.Section, _ int) {
		id := sections.ID(s)
		if !opts.Filter.matches(id) {
			return
		}
		emit := func(content string, markers []types.RequirementMarker) {
			for _, m := range markers {
				if opts.Level != "" && m.Level != opts.Level {
					continue
				}
				ordinal++
				r := types.Requirement{
					ID:           fmt.Sprintf("R-%s-%d", id, ordinal),
					Level:        m.Level,
					Text:         Sentence(content, m.Position),
					Section:      id,
					SectionTitle: s.Title,
					FullContext:  content,
				}
				if opts.ParseComponents {
					c := ParseComponents(r.Text, r.Level)
					r.Subject, r.Action, r.Condition, r.Exception = c.Subject, c.Action, c.Condition, c.Exception
				}
				out = append(out, r)
			}
		}
		for _, b := range s.Content {
			switch b.Type {
			case types.BlockText:
				emit(b.Content, b.Requirements)
			case types.BlockList:
				for _, it := range b.Items {
					emit(it.Content, it.Requirements)
				}
			}
		}
	})
	return out
}

func (f Filter) matches(id string) bool {
	if f.Section == "" && len(f.Sections) == 0 {
		return true
	}
	include := !f.ExcludeSubsections
	if f.Section != "" && sections.Matches(id, f.Section, include) {
		return true
	}
	for _, want := range f.Sections {
		if sections.Matches(id, want, include) {
			return true
		}
	}
	return false
}

// Stats counts requirements per level.
func Stats(reqs []types.Requirement) types.RequirementStats {
	st := types.RequirementStats{Total: len(reqs), ByLevel: make(map[types.RequirementLevel]int)}
	for _, r := range reqs {
		st.ByLevel[r.Level]++
	}
	return st
}

// protectedAbbreviations end in a period that does not end a sentence.
var protectedAbbreviations = []string{"e.g.", "i.e.", "et al.", "cf.", "vs.", "viz."}

// Sentence returns the whitespace-collapsed sentence of text that contains
// the byte offset pos. Sentences end at '.', '!' or '?' followed by
// whitespace or the end of the text.
func Sentence(text string, pos int) string {
	if pos < 0 || pos > len(text) {
		return keywords.CollapseSpace(text)
	}
	start := 0
	for i := pos - 1; i >= 0; i-- {
		if isTerminator(text, i) {
			start = i + 1
			break
		}
	}
	end := len(text)
	for i := pos; i < len(text); i++ {
		if isTerminator(text, i) {
			end = i + 1
			break
		}
	}
	return keywords.CollapseSpace(text[start:end])
}

func isTerminator(text string, i int) bool {
	switch text[i] {
	case '.', '!', '?':
	default:
		return false
	}
	if i+1 < len(text) && !isSpace(text[i+1]) {
		return false
	}
	if text[i] == '.' {
		lower := strings.ToLower(text[:i+1])
		for _, abbr := range protectedAbbreviations {
			if !strings.HasSuffix(lower, abbr) {
				continue
			}
			j := len(lower) - len(abbr)
			if j == 0 || isSpace(lower[j-1]) || lower[j-1] == '(' {
				return false
			}
		}
	}
	return true
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

// FindDefinitions returns the definitions whose term contains term, ignoring
// case. An empty term returns every definition. A term with no match yields a
// result with Error set rather than an error value.
func FindDefinitions(defs []types.Definition, term string) types.DefinitionsResult {
	term = strings.TrimSpace(term)
	if term == "" {
		all := append([]types.Definition{}, defs...)
		return types.DefinitionsResult{Count: len(all), Definitions: all}
	}

	want := strings.ToLower(term)
	var exact, partial []types.Definition
	for _, d := range defs {
		t := strings.ToLower(d.Term)
		switch {
		case t == want:
			exact = append(exact, d)
		case strings.Contains(t, want):
			partial = append(partial, d)
		}
	}
	found := append(exact, partial...)
	if len(found) == 0 {
		return types.DefinitionsResult{
			SearchTerm:  term,
			Definitions: []types.Definition{},
			Error:       fmt.Sprintf("No definition found for %q", term),
		}
	}
	return types.DefinitionsResult{SearchTerm: term, Count: len(found), Definitions: found}
}
