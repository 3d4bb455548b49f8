// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strings"

	"github.com/pdiddy/rfc-engine/internal/keywords"
	"github.com/pdiddy/rfc-engine/pkg/types"
)

const maxSubjectWords = 3

var (
	conditionPattern = regexp.MustCompile(`(?i)\b(?:if|when|unless|where|in case)\b\s+` + clause)
	exceptionPattern = regexp.MustCompile(`(?i)\b(?:unless|except|excluding)\b\s+` + clause)
	actionPattern    = regexp.MustCompile(`^\s*` + clause)
)

// clause runs to the next comma or sentence-ending period. A period inside
// a number such as "5.3" does not end it.
const clause = `([^,]+?)(?:,|\.(?:\s|$)|$)`

// subjectStops end the backward scan for a subject noun phrase.
var subjectStops = map[string]bool{
	"the": true, "a": true, "an": true, "this": true, "that": true, "these": true,
	"those": true, "it": true, "they": true, "which": true, "who": true, "and": true,
	"or": true, "but": true, "then": true, "if": true, "when": true, "where": true,
	"unless": true, "also": true, "still": true, "therefore": true, "thus": true,
	"each": true, "every": true, "any": true, "all": true, "so": true, "to": true,
	"of": true, "in": true, "on": true, "for": true, "with": true, "by": true,
}

// Components is the heuristic decomposition of a requirement sentence.
type Components struct {
	Subject   string
	Action    string
	Condition string
	Exception string
}

// ParseComponents extracts the subject (the noun phrase just before the
// keyword), the action (text after the keyword up to the next comma or
// period), and any condition or exception clause. Fields that cannot be
// found are left empty.
func ParseComponents(sentence string, level types.RequirementLevel) Components {
	var c Components
	start, end := keywordSpan(sentence, level)
	if start < 0 {
		return c
	}
	c.Subject = subjectBefore(sentence[:start])
	if m := actionPattern.FindStringSubmatch(sentence[end:]); m != nil {
		c.Action = strings.TrimSpace(m[1])
	}
	if m := conditionPattern.FindStringSubmatch(sentence); m != nil {
		c.Condition = strings.TrimSpace(m[1])
	}
	if m := exceptionPattern.FindStringSubmatch(sentence); m != nil {
		c.Exception = strings.TrimSpace(m[1])
	}
	return c
}

// keywordSpan locates the first occurrence of level in sentence.
func keywordSpan(sentence string, level types.RequirementLevel) (int, int) {
	for _, loc := range keywords.RequirementPattern(false).FindAllStringIndex(sentence, -1) {
		if keywords.LevelOf(sentence[loc[0]:loc[1]]) == level {
			return loc[0], loc[1]
		}
	}
	return -1, -1
}

// SubjectBefore returns up to three words immediately preceding a keyword,
// stopping at determiners, pronouns and clause boundaries.
func SubjectBefore(text string) string {
	return subjectBefore(text)
}

func subjectBefore(text string) string {
	words := strings.Fields(text)
	var picked []string
	for i := len(words) - 1; i >= 0 && len(picked) < maxSubjectWords; i-- {
		w := words[i]
		if strings.HasSuffix(w, ",") || strings.HasSuffix(w, ";") || strings.HasSuffix(w, ":") {
			break
		}
		w = strings.Trim(w, `"'()[]`)
		if w == "" || subjectStops[strings.ToLower(w)] {
			break
		}
		picked = append([]string{w}, picked...)
	}
	return strings.Join(picked, " ")
}
