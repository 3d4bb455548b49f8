// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/rfc-engine/internal/keywords"
	"github.com/pdiddy/rfc-engine/pkg/types"
)

func textBlock(s string) types.ContentBlock {
	return types.ContentBlock{Type: types.BlockText, Content: s, Requirements: keywords.ScanMarkers(s)}
}

func testSections() []types.Section {
	return []types.Section{
		{Number: "1", Title: "Introduction", Content: []types.ContentBlock{
			textBlock("This document is informational, e.g. for readers. Nothing here is normative."),
		}},
		{Number: "3", Title: "Framing", Subsections: []types.Section{
			{Number: "3.5", Anchor: "section-3.5", Title: "Masking", Content: []types.ContentBlock{
				textBlock("A client MUST mask all frames that it sends to the server. A server MUST NOT mask any frames that it sends to the client."),
				{Type: types.BlockList, Items: []types.ListItem{
					{Content: "The masking key SHOULD be unpredictable.", Requirements: keywords.ScanMarkers("The masking key SHOULD be unpredictable.")},
				}},
			}, Subsections: []types.Section{
				{Number: "3.5.1", Title: "Key", Content: []types.ContentBlock{
					textBlock("If the key is reused, the server MAY close the connection, unless the extension allows it."),
				}},
			}},
			{Number: "3.50", Title: "Other", Content: []types.ContentBlock{
				textBlock("Endpoints SHALL ignore unknown opcodes."),
			}},
		}},
	}
}

func ids(reqs []types.Requirement) []string {
	var out []string
	for _, r := range reqs {
		out = append(out, r.ID)
	}
	return out
}

func TestRequirements_All(t *testing.T) {
	reqs := Requirements(testSections(), Options{})
	require.Len(t, reqs, 5)
	assert.Equal(t, []string{"R-3.5-1", "R-3.5-2", "R-3.5-3", "R-3.5.1-4", "R-3.50-5"}, ids(reqs))

	assert.Equal(t, types.LevelMust, reqs[0].Level)
	assert.Equal(t, "A client MUST mask all frames that it sends to the server.", reqs[0].Text)
	assert.Equal(t, "Masking", reqs[0].SectionTitle)
	assert.Equal(t, "3.5", reqs[0].Section)
	assert.Contains(t, reqs[0].FullContext, "A server MUST NOT")

	assert.Equal(t, types.LevelMustNot, reqs[1].Level)
	assert.Equal(t, "A server MUST NOT mask any frames that it sends to the client.", reqs[1].Text)

	assert.Equal(t, "The masking key SHOULD be unpredictable.", reqs[2].Text)
	assert.Empty(t, reqs[0].Subject, "components only when requested")
}

func TestRequirements_TextContainsLevel(t *testing.T) {
	for _, r := range Requirements(testSections(), Options{}) {
		assert.True(t, strings.Contains(r.Text, string(r.Level)), "%s: %q", r.Level, r.Text)
	}
}

func TestRequirements_SectionFilter(t *testing.T) {
	secs := testSections()
	withSubs := Requirements(secs, Options{Filter: Filter{Section: "3.5"}})
	assert.Len(t, withSubs, 4, "3.5 and 3.5.1 but not 3.50")

	prefixed := Requirements(secs, Options{Filter: Filter{Section: "section-3.5"}})
	assert.Equal(t, withSubs, prefixed)

	only := Requirements(secs, Options{Filter: Filter{Section: "3.5", ExcludeSubsections: true}})
	assert.Len(t, only, 3)
	for _, r := range only {
		assert.Equal(t, "3.5", r.Section)
	}

	multi := Requirements(secs, Options{Filter: Filter{Sections: []string{"3.5.1", "3.50"}}})
	assert.Equal(t, []string{"R-3.5.1-1", "R-3.50-2"}, ids(multi))
}

func TestRequirements_LevelFilter(t *testing.T) {
	reqs := Requirements(testSections(), Options{Filter: Filter{Level: types.LevelMust}})
	require.Len(t, reqs, 1)
	assert.Equal(t, "R-3.5-1", reqs[0].ID)
}

func TestRequirements_OrdinalResetsPerCall(t *testing.T) {
	first := Requirements(testSections(), Options{})
	second := Requirements(testSections(), Options{})
	assert.Equal(t, ids(first), ids(second))
}

func TestRequirements_Components(t *testing.T) {
	reqs := Requirements(testSections(), Options{ParseComponents: true})
	require.Len(t, reqs, 5)

	assert.Equal(t, "client", reqs[0].Subject)
	assert.Equal(t, "mask all frames that it sends to the server", reqs[0].Action)
	assert.Equal(t, "server", reqs[1].Subject)

	key := reqs[3]
	assert.Equal(t, "server", key.Subject)
	assert.Equal(t, "close the connection", key.Action)
	assert.Equal(t, "the key is reused", key.Condition)
	assert.Equal(t, "the extension allows it", key.Exception)

	assert.Equal(t, "Endpoints", reqs[4].Subject)
}

func TestSentence(t *testing.T) {
	tests := []struct {
		name string
		text string
		kw   string
		want string
	}{
		{"middle", "First one. Clients MUST retry. Last one.", "MUST", "Clients MUST retry."},
		{"abbreviation", "Use a nonce, e.g. a counter. Peers MUST NOT reuse it, i.e. never.", "MUST NOT", "Peers MUST NOT reuse it, i.e. never."},
		{"no terminator", "servers SHOULD log", "SHOULD", "servers SHOULD log"},
		{"line breaks", "A\n   client MUST\n   NOT do this.  Next.", "MUST", "A client MUST NOT do this."},
		{"version numbers", "Version 1.1 clients MAY skip it. Done.", "MAY", "Version 1.1 clients MAY skip it."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := strings.Index(tt.text, tt.kw)
			require.GreaterOrEqual(t, pos, 0)
			assert.Equal(t, tt.want, Sentence(tt.text, pos))
		})
	}
}

func TestParseComponents(t *testing.T) {
	tests := []struct {
		name     string
		sentence string
		level    types.RequirementLevel
		want     Components
	}{
		{"determiner", "The WebSocket client MUST send a Host header.", types.LevelMust,
			Components{Subject: "WebSocket client", Action: "send a Host header"}},
		{"pronoun", "It MUST be ignored.", types.LevelMust,
			Components{Action: "be ignored"}},
		{"condition", "When a frame arrives, the recipient SHOULD validate it.", types.LevelShould,
			Components{Subject: "recipient", Action: "validate it", Condition: "a frame arrives"}},
		{"absent level", "Nothing to see.", types.LevelMay, Components{}},
		{"section number in action", "A client MUST mask all frames that it sends to the server (see Section 5.3 for further details).", types.LevelMust,
			Components{Subject: "client", Action: "mask all frames that it sends to the server (see Section 5.3 for further details)"}},
		{"section number in condition", "If Section 4.1 applies, the server MUST close the connection.", types.LevelMust,
			Components{Subject: "server", Action: "close the connection", Condition: "Section 4.1 applies"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseComponents(tt.sentence, tt.level))
		})
	}
}

func TestStats(t *testing.T) {
	st := Stats(Requirements(testSections(), Options{}))
	assert.Equal(t, 5, st.Total)
	assert.Equal(t, 1, st.ByLevel[types.LevelMust])
	assert.Equal(t, 1, st.ByLevel[types.LevelMustNot])
	assert.Equal(t, 1, st.ByLevel[types.LevelShall])
}

func TestFindDefinitions(t *testing.T) {
	defs := []types.Definition{
		{Term: "Frame", Definition: "A unit of data.", Section: "1.2"},
		{Term: "Control Frame", Definition: "A frame carrying control data.", Section: "5.5"},
		{Term: "Endpoint", Definition: "Either side.", Section: "1.2"},
	}

	all := FindDefinitions(defs, "")
	assert.Equal(t, 3, all.Count)
	assert.Empty(t, all.SearchTerm)

	frame := FindDefinitions(defs, "frame")
	assert.Equal(t, "frame", frame.SearchTerm)
	require.Equal(t, 2, frame.Count)
	assert.Equal(t, "Frame", frame.Definitions[0].Term, "exact match first")

	missing := FindDefinitions(defs, "opcode")
	assert.Equal(t, 0, missing.Count)
	assert.Equal(t, `No definition found for "opcode"`, missing.Error)
}
