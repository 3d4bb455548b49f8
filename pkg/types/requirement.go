// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strings"
)

// RequirementLevel is one of the eleven BCP 14 keywords (RFC 2119, RFC 8174).
type RequirementLevel string

const (
	LevelMust           RequirementLevel = "MUST"
	LevelMustNot        RequirementLevel = "MUST NOT"
	LevelRequired       RequirementLevel = "REQUIRED"
	LevelShall          RequirementLevel = "SHALL"
	LevelShallNot       RequirementLevel = "SHALL NOT"
	LevelShould         RequirementLevel = "SHOULD"
	LevelShouldNot      RequirementLevel = "SHOULD NOT"
	LevelRecommended    RequirementLevel = "RECOMMENDED"
	LevelNotRecommended RequirementLevel = "NOT RECOMMENDED"
	LevelMay            RequirementLevel = "MAY"
	LevelOptional       RequirementLevel = "OPTIONAL"
)

// Valid reports whether l is one of the eleven keywords.
func (l RequirementLevel) Valid() bool {
	switch l {
	case LevelMust, LevelMustNot, LevelRequired, LevelShall, LevelShallNot,
		LevelShould, LevelShouldNot, LevelRecommended, LevelNotRecommended,
		LevelMay, LevelOptional:
		return true
	}
	return false
}

// ParseLevel reads a level name case-insensitively ("must not", "MUST NOT").
// The empty string yields the empty level.
func ParseLevel(s string) (RequirementLevel, error) {
	l := RequirementLevel(strings.ToUpper(strings.Join(strings.Fields(s), " ")))
	if l == "" || l.Valid() {
		return l, nil
	}
	return "", fmt.Errorf("unknown requirement level %q", s)
}

// Requirement is a normative statement extracted from a section.
type Requirement struct {
	// ID is "R-<section>-<ordinal>", unique within one extraction call.
	ID    string           `json:"id" yaml:"id"`
	Level RequirementLevel `json:"level" yaml:"level"`

	// Text is the whitespace-collapsed sentence containing the keyword.
	Text string `json:"text" yaml:"text"`

	// Subject, Action, Condition and Exception are best-effort heuristics
	// filled only when component parsing is requested.
	Subject   string `json:"subject,omitempty" yaml:"subject,omitempty"`
	Action    string `json:"action,omitempty" yaml:"action,omitempty"`
	Condition string `json:"condition,omitempty" yaml:"condition,omitempty"`
	Exception string `json:"exception,omitempty" yaml:"exception,omitempty"`

	Section      string `json:"section" yaml:"section"`
	SectionTitle string `json:"sectionTitle" yaml:"section_title"`

	// FullContext is the complete paragraph or list item the sentence came from.
	FullContext string `json:"fullContext" yaml:"full_context"`
}
