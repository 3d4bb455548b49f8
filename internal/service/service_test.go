// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/rfc-engine/internal/acquire"
	"github.com/pdiddy/rfc-engine/internal/extract"
	"github.com/pdiddy/rfc-engine/pkg/types"
)

const websocketXML = `<?xml version="1.0" encoding="UTF-8"?>
<rfc number="6455" docName="draft-ietf-hybi-thewebsocketprotocol-17">
<front><title>The WebSocket Protocol</title></front>
<middle>
<section anchor="intro" pn="section-1"><name>Introduction</name>
<t>This document defines the protocol. See <xref target="masking"/>.</t>
<dl><dt>Frame</dt><dd>A unit of data on the wire.</dd></dl>
</section>
<section anchor="framing" pn="section-5"><name>Data Framing</name>
<section anchor="masking" pn="section-5.3"><name>Client-to-Server Masking</name>
<t>A client <bcp14>MUST</bcp14> mask all frames that it sends to the server. A server <bcp14>MUST NOT</bcp14> mask any frames that it sends to the client.</t>
</section>
</section>
</middle>
<back>
<references><name>References</name>
<references><name>Normative References</name>
<reference anchor="RFC2119"><front><title>Key words for use in RFCs to Indicate Requirement Levels</title></front><seriesInfo name="RFC" value="2119"/></reference>
</references>
<references><name>Informative References</name>
<reference anchor="RFC6202"><front><title>Known Issues and Best Practices for the Use of Long Polling</title></front><seriesInfo name="RFC" value="6202"/></reference>
</references>
</references>
</back>
</rfc>`

const exampleText = `Internet Engineering Task Force (IETF)                        A. Author
Request for Comments: 1000                                     Example
Category: Standards Track                                   August 1987

                   The Example Protocol Specification

1.  Introduction

   Hosts MUST respond to every probe.  See RFC 793 for details.

2.  Security Considerations

   Implementations SHOULD log failures.
`

// fakeFetcher serves fixed documents and counts calls per format.
type fakeFetcher struct {
	mu    sync.Mutex
	docs  map[types.SourceFormat]map[int]string
	calls map[types.SourceFormat]int
	err   error
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		docs: map[types.SourceFormat]map[int]string{
			types.SourceXML:  {6455: websocketXML},
			types.SourceText: {6455: exampleText, 1000: exampleText},
		},
		calls: make(map[types.SourceFormat]int),
	}
}

func (f *fakeFetcher) Fetch(_ context.Context, n int, format types.SourceFormat) (acquire.RawDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[format]++
	if f.err != nil {
		return acquire.RawDocument{}, f.err
	}
	text, ok := f.docs[format][n]
	if !ok {
		return acquire.RawDocument{}, &acquire.NotAvailableError{
			Number:            n,
			Format:            format,
			BelowXMLThreshold: n < acquire.DefaultXMLThreshold,
			Err:               acquire.ErrNotFound,
		}
	}
	return acquire.RawDocument{Number: n, Format: format, Text: text, Source: fmt.Sprintf("fake:%d", n)}, nil
}

func (f *fakeFetcher) count(format types.SourceFormat) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[format]
}

func newService(t *testing.T, f Fetcher) *Service {
	t.Helper()
	s, err := New(f, WithCacheSize(4))
	require.NoError(t, err)
	return s
}

func TestStructure_XML(t *testing.T) {
	s := newService(t, newFakeFetcher())
	res, err := s.Structure(context.Background(), 6455, StructureOptions{})
	require.NoError(t, err)

	assert.Equal(t, types.SourceXML, res.Source)
	assert.Empty(t, res.SourceNote)
	assert.Equal(t, "The WebSocket Protocol", res.Metadata.Title)
	assert.Equal(t, 6455, res.Metadata.Number)
	require.Len(t, res.Sections, 2)
	assert.Empty(t, res.Sections[0].Content, "content stripped by default")
	require.NotNil(t, res.ReferenceCount)
	assert.Equal(t, types.ReferenceCount{Normative: 1, Informative: 1}, *res.ReferenceCount)
	assert.Nil(t, res.References)

	full, err := s.Structure(context.Background(), 6455, StructureOptions{IncludeContent: true, IncludeReferences: true})
	require.NoError(t, err)
	assert.NotEmpty(t, full.Sections[0].Content)
	require.NotNil(t, full.References)
	assert.Nil(t, full.ReferenceCount)
}

func TestDocument_TextFallback(t *testing.T) {
	f := newFakeFetcher()
	s := newService(t, f)
	res, err := s.Structure(context.Background(), 1000, StructureOptions{})
	require.NoError(t, err)

	assert.Equal(t, types.SourceText, res.Source)
	assert.Equal(t, TextSourceNote, res.SourceNote)
	assert.Equal(t, "The Example Protocol Specification", res.Metadata.Title)
	assert.Equal(t, 1, f.count(types.SourceXML))
	assert.Equal(t, 1, f.count(types.SourceText))

	reqs, err := s.Requirements(context.Background(), 1000, RequirementsQuery{})
	require.NoError(t, err)
	assert.Equal(t, TextSourceNote, reqs.SourceNote)
	assert.Equal(t, 2, reqs.Stats.Total)
}

func TestDocument_BothFormatsFail(t *testing.T) {
	s := newService(t, newFakeFetcher())
	_, err := s.Document(context.Background(), 4242)
	require.Error(t, err)

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, 4242, fe.Number)
	assert.ErrorIs(t, err, acquire.ErrNotFound)

	var na *acquire.NotAvailableError
	require.True(t, errors.As(err, &na))
	assert.Equal(t, types.SourceXML, na.Format)
	assert.Contains(t, err.Error(), "XML:")
	assert.Contains(t, err.Error(), "text:")
}

func TestDocument_NoFallbackOnOtherErrors(t *testing.T) {
	f := newFakeFetcher()
	f.err = context.Canceled
	s := newService(t, f)

	_, err := s.Document(context.Background(), 6455)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, f.count(types.SourceText))
}

func TestDocument_InvalidNumber(t *testing.T) {
	f := newFakeFetcher()
	s := newService(t, f)
	_, err := s.Document(context.Background(), 0)
	assert.ErrorIs(t, err, acquire.ErrInvalidNumber)
	assert.Equal(t, 0, f.count(types.SourceXML))
}

func TestDocument_FetchedOncePerEpoch(t *testing.T) {
	f := newFakeFetcher()
	s := newService(t, f)

	for i := 0; i < 2; i++ {
		_, err := s.Requirements(context.Background(), 6455, RequirementsQuery{})
		require.NoError(t, err)
	}
	assert.Equal(t, 1, f.count(types.SourceXML))

	s.Purge()
	_, err := s.Requirements(context.Background(), 6455, RequirementsQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2, f.count(types.SourceXML))
}

func TestRequirements(t *testing.T) {
	s := newService(t, newFakeFetcher())
	res, err := s.Requirements(context.Background(), 6455, RequirementsQuery{
		Filter:          extract.Filter{Section: "section-5"},
		ParseComponents: true,
	})
	require.NoError(t, err)

	assert.Equal(t, 6455, res.RFC)
	assert.Equal(t, "section-5", res.Filter.Section)
	require.Len(t, res.Requirements, 2)
	assert.Equal(t, "R-5.3-1", res.Requirements[0].ID)
	assert.Equal(t, types.LevelMust, res.Requirements[0].Level)
	assert.Equal(t, "client", res.Requirements[0].Subject)
	assert.Equal(t, types.LevelMustNot, res.Requirements[1].Level)
	assert.Equal(t, 1, res.Stats.ByLevel[types.LevelMustNot])

	none, err := s.Requirements(context.Background(), 6455, RequirementsQuery{Filter: extract.Filter{Section: "1"}})
	require.NoError(t, err)
	assert.NotNil(t, none.Requirements)
	assert.Empty(t, none.Requirements)
}

func TestDefinitions(t *testing.T) {
	s := newService(t, newFakeFetcher())
	res, err := s.Definitions(context.Background(), 6455, "frame")
	require.NoError(t, err)
	require.Equal(t, 1, res.Count)
	assert.Equal(t, "Frame", res.Definitions[0].Term)

	missing, err := s.Definitions(context.Background(), 6455, "opcode")
	require.NoError(t, err)
	assert.NotEmpty(t, missing.Error)
}

func TestDependencies(t *testing.T) {
	s := newService(t, newFakeFetcher())
	res, err := s.Dependencies(context.Background(), 6455, true)
	require.NoError(t, err)

	require.Len(t, res.Normative, 1)
	assert.Equal(t, 2119, res.Normative[0].RFCNumber)
	require.Len(t, res.Informative, 1)
	assert.Equal(t, 6202, res.Informative[0].RFCNumber)
	assert.Equal(t, ReferencedByMarker, res.ReferencedBy)

	plain, err := s.Dependencies(context.Background(), 6455, false)
	require.NoError(t, err)
	assert.Empty(t, plain.ReferencedBy)
}

func TestRelated(t *testing.T) {
	s := newService(t, newFakeFetcher())
	res, err := s.Related(context.Background(), 6455, "5.3")
	require.NoError(t, err)
	assert.Equal(t, "Client-to-Server Masking", res.Title)
	assert.Contains(t, res.RelatedSections, types.RelatedSection{Section: "5", Title: "Data Framing", Relation: types.RelationParent})
	assert.Contains(t, res.RelatedSections, types.RelatedSection{Section: "1", Title: "Introduction", Relation: types.RelationReferencedBy})

	missing, err := s.Related(context.Background(), 6455, "9.9")
	require.NoError(t, err)
	assert.Equal(t, "Section 9.9 not found", missing.Error)
}

func TestChecklist(t *testing.T) {
	s := newService(t, newFakeFetcher())
	res, err := s.Checklist(context.Background(), 6455, types.RoleClient, nil)
	require.NoError(t, err)
	assert.Equal(t, types.ChecklistStats{Must: 1, Total: 1}, res.Stats)
	assert.Contains(t, res.Markdown, "_The WebSocket Protocol_")

	_, err = s.Checklist(context.Background(), 6455, "proxy", nil)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	s := newService(t, newFakeFetcher())
	res, err := s.Validate(context.Background(), 6455, "A WebSocket client sends unmasked frames to the server", "", 0)
	require.NoError(t, err)
	assert.False(t, res.IsValid)
	require.Len(t, res.Conflicts, 1)
	assert.Equal(t, "R-5.3-1", res.Conflicts[0].Requirement.ID)

	ok, err := s.Validate(context.Background(), 6455, "The client masks all frames before sending", "5.3", 0)
	require.NoError(t, err)
	assert.True(t, ok.IsValid)
}
