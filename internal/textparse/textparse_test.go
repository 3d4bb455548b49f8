// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package textparse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/rfc-engine/internal/keywords"
	"github.com/pdiddy/rfc-engine/internal/sections"
	"github.com/pdiddy/rfc-engine/pkg/types"
)

const sampleRFC = `Internet Engineering Task Force (IETF)                          I. Fette
Request for Comments: 6455                                  Google, Inc.
Category: Standards Track                                    A. Melnikov
ISSN: 2070-1721                                               Isode Ltd.
                                                           December 2011


                         The WebSocket Protocol

Abstract

   The WebSocket Protocol enables two-way communication.

1.  Introduction

   This section is non-normative.  See RFC 2616 for HTTP.

1.1.  Background

   Historically, creating web applications has required an abuse
   of HTTP.

1.2.  Terminology

   Endpoint - Either side of a WebSocket connection.

   Frame: The unit of data sent on a connection.

2.  Conformance Requirements

   A client MUST mask all frames that it sends to the server.  A
   server MUST NOT mask any frames that it sends to the client.

   Status codes are listed below:

1001 Connection refused
   the endpoint is going away.

   Clients SHOULD NOT send data after closing, as described in
   Section 5.5.1.

Fette & Melnikov             Standards Track                    [Page 5]

RFC 6455                 The WebSocket Protocol            December 2011


   Servers MAY close the connection at any time.

2.1.1.  Deeply Nested

   Intermediaries SHALL
   NOT modify frames.

3.  References

   [RFC2119]  Bradner, S., "Key words for use in RFCs to Indicate
              Requirement Levels", BCP 14, RFC 2119, March 1997.

   [RFC6455]  Self reference.

Appendix A.  Examples

   Example text.

A.1.  Ping

   A ping MAY carry application data.

Authors' Addresses

   Ian Fette
   EMail: ifette+ietf@google.com
`

func TestParse_Title(t *testing.T) {
	doc := Parse(sampleRFC, 6455)
	assert.Equal(t, "The WebSocket Protocol", doc.Metadata.Title)
	assert.Equal(t, 6455, doc.Metadata.Number)
}

func TestParse_TitleFallback(t *testing.T) {
	doc := Parse("1.  Introduction\n\n   Text.\n", 42)
	assert.Equal(t, "RFC 42", doc.Metadata.Title)
}

func TestParse_Sections(t *testing.T) {
	doc := Parse(sampleRFC, 6455)
	var numbers []string
	sections.Walk(doc.Sections, func(s *types.Section, _ *types.Section, _ int) {
		numbers = append(numbers, s.Number)
	})
	assert.Equal(t, []string{"1", "1.1", "1.2", "2", "2.1", "2.1.1", "3", "A", "A.1"}, numbers)

	// The skipped level gets a placeholder so depth equals nesting depth.
	placeholder := doc.Sections[1].Subsections[0]
	assert.Equal(t, "Untitled Section", placeholder.Title)
	assert.Equal(t, "Deeply Nested", placeholder.Subsections[0].Title)

	assert.Equal(t, "appendix-A", doc.Sections[3].Anchor)
	assert.Equal(t, "section-1.2", doc.Sections[0].Subsections[1].Anchor)
}

func TestParse_HierarchyInvariant(t *testing.T) {
	doc := Parse(sampleRFC, 6455)
	sections.Walk(doc.Sections, func(s *types.Section, _ *types.Section, depth int) {
		assert.Equal(t, depth, keywords.Depth(s.Number), s.Number)
	})
}

func TestParse_StatusCodeNotASection(t *testing.T) {
	doc := Parse(sampleRFC, 6455)
	conformance := doc.Sections[1]
	require.Equal(t, "2", conformance.Number)

	var joined []string
	for _, b := range conformance.Content {
		joined = append(joined, b.Content)
	}
	body := strings.Join(joined, "\n")
	assert.Contains(t, body, "1001 Connection refused the endpoint is going away.")
	assert.Contains(t, body, "Servers MAY close the connection at any time.")
	assert.NotContains(t, body, "[Page 5]")
	assert.NotContains(t, body, "December 2011")
}

func TestParse_Paragraphs(t *testing.T) {
	doc := Parse(sampleRFC, 6455)
	conformance := doc.Sections[1]
	require.NotEmpty(t, conformance.Content)

	first := conformance.Content[0]
	assert.Equal(t, types.BlockText, first.Type)
	assert.Equal(t, "A client MUST mask all frames that it sends to the server. A server MUST NOT mask any frames that it sends to the client.", first.Content)
	require.Len(t, first.Requirements, 2)
	assert.Equal(t, types.LevelMust, first.Requirements[0].Level)
	assert.Equal(t, types.LevelMustNot, first.Requirements[1].Level)

	// A keyword split across lines is still one marker.
	nested := conformance.Subsections[0].Subsections[0]
	require.Len(t, nested.Content, 1)
	assert.Equal(t, "Intermediaries SHALL NOT modify frames.", nested.Content[0].Content)
	require.Len(t, nested.Content[0].Requirements, 1)
	assert.Equal(t, types.LevelShallNot, nested.Content[0].Requirements[0].Level)
}

func TestParse_CrossReferences(t *testing.T) {
	doc := Parse(sampleRFC, 6455)
	intro := doc.Sections[0]
	require.Len(t, intro.Content, 1)
	assert.Equal(t, []types.CrossReference{{Target: "RFC2616", Type: types.CrossRefRFC}}, intro.Content[0].CrossReferences)
}

func TestParse_References(t *testing.T) {
	doc := Parse(sampleRFC, 6455)
	assert.Empty(t, doc.References.Normative)

	var nums []int
	for _, r := range doc.References.Informative {
		assert.Equal(t, types.ReferenceInformative, r.Type)
		nums = append(nums, r.RFCNumber)
	}
	assert.Equal(t, []int{2616, 2119}, nums)
	assert.Equal(t, "Key words for use in RFCs to Indicate Requirement Levels", doc.References.Informative[1].Title)
	assert.Equal(t, "RFC 2616", doc.References.Informative[0].Title)
}

func TestParse_Definitions(t *testing.T) {
	doc := Parse(sampleRFC, 6455)
	assert.Contains(t, doc.Definitions, types.Definition{
		Term: "Endpoint", Definition: "Either side of a WebSocket connection.", Section: "1.2",
	})
	assert.Contains(t, doc.Definitions, types.Definition{
		Term: "Frame", Definition: "The unit of data sent on a connection.", Section: "1.2",
	})
	for _, d := range doc.Definitions {
		assert.NotEqual(t, "EMail", d.Term)
	}
}

func TestParse_Empty(t *testing.T) {
	doc := Parse("", 1)
	assert.Equal(t, "RFC 1", doc.Metadata.Title)
	assert.Empty(t, doc.Sections)
	assert.Empty(t, doc.References.Informative)
}

func TestParse_Idempotent(t *testing.T) {
	assert.Equal(t, Parse(sampleRFC, 6455), Parse(sampleRFC, 6455))
}

func TestValidHeader(t *testing.T) {
	tests := []struct {
		name   string
		number string
		title  string
		want   bool
	}{
		{"keyword", "7", "Security Considerations", true},
		{"uppercase", "4", "Opening Handshake", true},
		{"status code", "1001", "Connection refused", false},
		{"too deep", "1.2.3.4.5.6", "Deep", false},
		{"short lowercase", "3", "send the frame", false},
		{"long lowercase", "3", "the following list applies to all frames", false},
		{"lowercase subsection", "3.2", "the following list applies to all frames", true},
		{"top limit", "99", "Last", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := validHeader(tt.number, tt.title); got != tt.want {
				t.Errorf("validHeader(%q, %q) = %v, want %v", tt.number, tt.title, got, tt.want)
			}
		})
	}
}

func TestIsTitle(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"The WebSocket Protocol", true},
		{"December 2011", false},
		{"Request for Comments: 6455", false},
		{"Abstract", false},
		{"1.  Introduction to things", false},
		{"Internet Engineering Task Force (IETF)          I. Fette", false},
	}
	for _, tt := range tests {
		if got := isTitle(tt.line); got != tt.want {
			t.Errorf("isTitle(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}
