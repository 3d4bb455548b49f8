// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package validate checks a free-form implementation statement against the
// requirements of an RFC.
// Implements: weighted keyword matching, subject and level bonuses,
// level-conflict detection, and negation-pair semantic conflict detection.
package validate

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/pdiddy/rfc-engine/internal/extract"
	"github.com/pdiddy/rfc-engine/internal/keywords"
	"github.com/pdiddy/rfc-engine/pkg/types"
)

const (
	// DefaultMaxResults caps MatchingRequirements when the caller passes zero.
	DefaultMaxResults = 10

	subjectBonus = 5
	levelBonus   = 3

	minConflictOverlap     = 2
	shortStatementKeywords = 3

	// forbiddenWindow bounds how far into a MUST NOT action the forbidden
	// verb may appear.
	forbiddenWindow = 20
)

// Keyword is a statement token with its accumulated weight.
type Keyword struct {
	Token  string
	Weight int
}

// Keywords tokenizes a statement. Tokens shorter than three characters and
// stop words are dropped; plurals are folded so "clients" and "client" are
// the same token. Order follows first appearance.
func Keywords(statement string) []Keyword {
	var out []Keyword
	index := make(map[string]int)
	for _, tok := range tokenize(statement) {
		w := weightGeneric
		switch {
		case actorTerms[tok]:
			w = weightActor
		case domainTerms[tok]:
			w = weightDomain
		}
		if i, ok := index[tok]; ok {
			out[i].Weight += w
			continue
		}
		index[tok] = len(out)
		out = append(out, Keyword{Token: tok, Weight: w})
	}
	return out
}

func tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '\''
	})
	var out []string
	for _, f := range fields {
		f = strings.Trim(f, "-'")
		if len(f) < 3 || stopWords[f] {
			continue
		}
		out = append(out, singular(f))
	}
	return out
}

func singular(w string) string {
	switch {
	case len(w) > 4 && strings.HasSuffix(w, "ies"):
		return strings.TrimSuffix(w, "ies") + "y"
	case len(w) > 3 && strings.HasSuffix(w, "s") &&
		!strings.HasSuffix(w, "ss") && !strings.HasSuffix(w, "us") && !strings.HasSuffix(w, "is"):
		return strings.TrimSuffix(w, "s")
	}
	return w
}

// DetectSubject returns the first actor named in the statement, or "".
func DetectSubject(statement string) string {
	for _, tok := range tokenize(statement) {
		if actorTerms[tok] {
			return tok
		}
	}
	return ""
}

// actorOf reduces a subject phrase to its actor term, falling back to the
// whole phrase lowercased.
func actorOf(subject string) string {
	toks := tokenize(subject)
	for i := len(toks) - 1; i >= 0; i-- {
		if actorTerms[toks[i]] {
			return toks[i]
		}
	}
	return strings.ToLower(strings.TrimSpace(subject))
}

// view is the derived subject and action of a requirement.
type view struct {
	actor  string
	action string
	hay    string
}

func viewOf(r types.Requirement) view {
	subject, action := r.Subject, r.Action
	if subject == "" || action == "" {
		c := extract.ParseComponents(r.Text, r.Level)
		if subject == "" {
			subject = c.Subject
		}
		if action == "" {
			action = c.Action
		}
	}
	return view{
		actor:  actorOf(subject),
		action: action,
		hay:    strings.ToLower(r.Text + " " + r.FullContext + " " + r.Subject + " " + r.Action),
	}
}

// Validate scores every requirement against statement and reports level
// and semantic conflicts. maxResults <= 0 selects DefaultMaxResults.
func Validate(statement string, reqs []types.Requirement, maxResults int) types.ValidationResult {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	kws := Keywords(statement)
	analysis := types.StatementAnalysis{
		DetectedLevel:   keywords.DetectLevel(statement),
		DetectedSubject: DetectSubject(statement),
	}

	views := make([]view, len(reqs))
	for i, r := range reqs {
		views[i] = viewOf(r)
	}

	matches := score(kws, analysis, reqs, views)
	if len(matches) > maxResults {
		matches = matches[:maxResults]
	}

	var conflicts []types.Conflict
	if analysis.DetectedSubject != "" {
		for i, r := range reqs {
			if views[i].actor != analysis.DetectedSubject {
				continue
			}
			if c, ok := levelConflict(kws, analysis.DetectedLevel, r, views[i]); ok {
				conflicts = append(conflicts, c)
			}
			if c, ok := semanticConflict(statement, r, views[i]); ok {
				conflicts = append(conflicts, c)
			}
		}
	}

	if matches == nil {
		matches = []types.RequirementMatch{}
	}
	if conflicts == nil {
		conflicts = []types.Conflict{}
	}
	return types.ValidationResult{
		Analysis:             analysis,
		IsValid:              len(conflicts) == 0,
		MatchingRequirements: matches,
		Conflicts:            conflicts,
		Suggestions:          suggestions(analysis, matches, conflicts),
	}
}

func score(kws []Keyword, analysis types.StatementAnalysis, reqs []types.Requirement, views []view) []types.RequirementMatch {
	var out []types.RequirementMatch
	for i, r := range reqs {
		total := 0
		var matched []string
		for _, k := range kws {
			if strings.Contains(views[i].hay, k.Token) {
				total += k.Weight
				matched = append(matched, k.Token)
			}
		}
		if analysis.DetectedSubject != "" && views[i].actor == analysis.DetectedSubject {
			total += subjectBonus
		}
		if analysis.DetectedLevel != "" && analysis.DetectedLevel == r.Level {
			total += levelBonus
		}
		if total == 0 {
			continue
		}
		if matched == nil {
			matched = []string{}
		}
		out = append(out, types.RequirementMatch{Requirement: r, Score: total, MatchedKeywords: matched})
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Score > out[b].Score })
	return out
}

func overlap(kws []Keyword, hay string) int {
	n := 0
	for _, k := range kws {
		if strings.Contains(hay, k.Token) {
			n++
		}
	}
	return n
}

func levelConflict(kws []Keyword, level types.RequirementLevel, r types.Requirement, v view) (types.Conflict, bool) {
	if level == "" {
		return types.Conflict{}, false
	}
	contradicts := false
	for _, l := range levelConflicts[level] {
		if l == r.Level {
			contradicts = true
			break
		}
	}
	if !contradicts {
		return types.Conflict{}, false
	}
	if overlap(kws, v.hay) < minConflictOverlap && len(kws) > shortStatementKeywords {
		return types.Conflict{}, false
	}
	return types.Conflict{
		Type:        types.ConflictLevel,
		Requirement: r,
		Reason:      fmt.Sprintf("Statement uses %s but Section %s requires %s", level, r.Section, r.Level),
	}, true
}

func semanticConflict(statement string, r types.Requirement, v view) (types.Conflict, bool) {
	switch r.Level {
	case types.LevelMust, types.LevelShall, types.LevelRequired:
		vp, ok := earliestVerb(v.action, len(v.action))
		if !ok || !negated(vp, statement) {
			return types.Conflict{}, false
		}
		return types.Conflict{
			Type:        types.ConflictSemantic,
			Requirement: r,
			Reason:      fmt.Sprintf("Section %s requires the %s to %s, but the statement negates it", r.Section, v.actor, vp.name),
		}, true
	case types.LevelMustNot, types.LevelShallNot:
		vp, ok := earliestVerb(v.action, forbiddenWindow)
		if !ok || !vp.positive.MatchString(statement) || negated(vp, statement) {
			return types.Conflict{}, false
		}
		return types.Conflict{
			Type:        types.ConflictSemantic,
			Requirement: r,
			Reason:      fmt.Sprintf("Section %s forbids the %s to %s, but the statement does so", r.Section, v.actor, vp.name),
		}, true
	}
	return types.Conflict{}, false
}

// earliestVerb finds the verb pair whose positive form starts first in
// action, considering only matches that start before limit.
func earliestVerb(action string, limit int) (verbPair, bool) {
	best, at := -1, limit
	for i, vp := range verbPairs {
		loc := vp.positive.FindStringIndex(action)
		if loc != nil && loc[0] < at {
			best, at = i, loc[0]
		}
	}
	if best < 0 {
		return verbPair{}, false
	}
	return verbPairs[best], true
}

func negated(vp verbPair, statement string) bool {
	for _, n := range vp.negatives {
		if n.MatchString(statement) {
			return true
		}
	}
	return false
}

func suggestions(analysis types.StatementAnalysis, matches []types.RequirementMatch, conflicts []types.Conflict) []string {
	out := []string{}
	if len(matches) == 0 {
		out = append(out, "No matching requirements found. Use the RFC's own terms for the actor and the action.")
	}
	if analysis.DetectedLevel != "" && analysis.DetectedSubject == "" {
		out = append(out, fmt.Sprintf("Statement uses %s but names no actor. Say which party it binds (client, server, sender, receiver).", analysis.DetectedLevel))
	}
	if len(conflicts) > 0 {
		var secs []string
		seen := make(map[string]bool)
		for _, c := range conflicts {
			if !seen[c.Requirement.Section] {
				seen[c.Requirement.Section] = true
				secs = append(secs, c.Requirement.Section)
			}
		}
		out = append(out, fmt.Sprintf("Review Section %s: the statement contradicts %d requirement(s).", strings.Join(secs, ", "), len(conflicts)))
	}
	return out
}
