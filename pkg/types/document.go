// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the rfc-engine pipeline.
// Implements: the Document Model produced by both parsers (Document, Section,
// ContentBlock, Reference, Definition), the requirement types consumed by the
// checklist and validation stages, and the result shapes returned to callers.
//
// Every type carries json and yaml tags. JSON names follow the result
// contract exposed to tool clients; YAML names follow the on-disk files.
package types

// SourceFormat tags raw document text with the format it was fetched in.
type SourceFormat string

const (
	SourceXML  SourceFormat = "xml"
	SourceText SourceFormat = "text"
)

// Ext returns the file extension used for the format in the raw mirror.
func (f SourceFormat) Ext() string {
	if f == SourceXML {
		return ".xml"
	}
	return ".txt"
}

// Metadata holds the front-matter fields of an RFC.
type Metadata struct {
	// Title is the document title. Parsers substitute "Untitled" when absent.
	Title string `json:"title" yaml:"title"`

	// DocName is the Internet-Draft name the RFC was published from
	// (e.g. "draft-ietf-hybi-thewebsocketprotocol-17").
	DocName string `json:"docName,omitempty" yaml:"doc_name,omitempty"`

	// Number is the RFC number, zero when unknown.
	Number int `json:"number,omitempty" yaml:"number,omitempty"`
}

// Document is the common intermediate representation produced by both the
// structured-markup parser and the plain-text parser. It is not mutated after
// a parser returns it.
type Document struct {
	Metadata    Metadata     `json:"metadata" yaml:"metadata"`
	Sections    []Section    `json:"sections" yaml:"sections"`
	References  References   `json:"references" yaml:"references"`
	Definitions []Definition `json:"definitions" yaml:"definitions"`
}

// Section is one node of the section tree. A section owns its subsections.
type Section struct {
	// Anchor is the markup anchor (e.g. "section-5.3" or "ws-masking").
	Anchor string `json:"anchor,omitempty" yaml:"anchor,omitempty"`

	// Number is the dotted-decimal section number (e.g. "3.5.1"), or a
	// lettered appendix number (e.g. "A.1").
	Number string `json:"number,omitempty" yaml:"number,omitempty"`

	// Title is the section heading. Parsers substitute "Untitled Section".
	Title string `json:"title" yaml:"title"`

	Content     []ContentBlock `json:"content,omitempty" yaml:"content,omitempty"`
	Subsections []Section      `json:"subsections,omitempty" yaml:"subsections,omitempty"`
}

// BlockType discriminates the ContentBlock union.
type BlockType string

const (
	BlockText       BlockType = "text"
	BlockList       BlockType = "list"
	BlockSourceCode BlockType = "sourcecode"
	BlockArtwork    BlockType = "artwork"
	BlockTable      BlockType = "table"
)

// ContentBlock is a tagged union over the block kinds a section body holds.
// Text blocks use Content, Requirements and CrossReferences; list blocks use
// Style and Items; source code, artwork and table blocks use Content (and
// Language for source code).
type ContentBlock struct {
	Type BlockType `json:"type" yaml:"type"`

	Content         string              `json:"content,omitempty" yaml:"content,omitempty"`
	Requirements    []RequirementMarker `json:"requirements,omitempty" yaml:"requirements,omitempty"`
	CrossReferences []CrossReference    `json:"crossReferences,omitempty" yaml:"cross_references,omitempty"`

	// Style is the list style: "symbols", "numbers", "definition", "hanging", etc.
	Style string     `json:"style,omitempty" yaml:"style,omitempty"`
	Items []ListItem `json:"items,omitempty" yaml:"items,omitempty"`

	// Language is the source code type attribute (e.g. "abnf").
	Language string `json:"language,omitempty" yaml:"language,omitempty"`
}

// ListItem is one entry of a list block, scanned like a paragraph.
type ListItem struct {
	Content         string              `json:"content" yaml:"content"`
	Requirements    []RequirementMarker `json:"requirements,omitempty" yaml:"requirements,omitempty"`
	CrossReferences []CrossReference    `json:"crossReferences,omitempty" yaml:"cross_references,omitempty"`
}

// RequirementMarker is a raw normative-keyword occurrence. Position is the
// byte offset of the keyword within the enclosing block or item content.
type RequirementMarker struct {
	Level    RequirementLevel `json:"level" yaml:"level"`
	Position int              `json:"position" yaml:"position"`
}

// CrossReferenceType classifies an in-document reference.
type CrossReferenceType string

const (
	CrossRefRFC       CrossReferenceType = "rfc"
	CrossRefSection   CrossReferenceType = "section"
	CrossRefReference CrossReferenceType = "reference"
	CrossRefExternal  CrossReferenceType = "external"
)

// CrossReference points from a paragraph to another section, RFC, or
// bibliographic entry.
type CrossReference struct {
	// Target is the normalized target: "RFC6455", "section-5.3", an anchor, or a URL.
	Target string             `json:"target" yaml:"target"`
	Type   CrossReferenceType `json:"type" yaml:"type"`

	// Section is the section number the reference points at, when known.
	Section string `json:"section,omitempty" yaml:"section,omitempty"`
}

// ReferenceType splits the bibliography.
type ReferenceType string

const (
	ReferenceNormative   ReferenceType = "normative"
	ReferenceInformative ReferenceType = "informative"
)

// Reference is a bibliographic entry from the back matter.
type Reference struct {
	Anchor    string        `json:"anchor" yaml:"anchor"`
	Type      ReferenceType `json:"type" yaml:"type"`
	RFCNumber int           `json:"rfcNumber,omitempty" yaml:"rfc_number,omitempty"`
	Title     string        `json:"title" yaml:"title"`
	Target    string        `json:"target,omitempty" yaml:"target,omitempty"`
}

// References holds the bibliography split by type. The plain-text parser
// places everything under Informative.
type References struct {
	Normative   []Reference `json:"normative" yaml:"normative"`
	Informative []Reference `json:"informative" yaml:"informative"`
}

// Definition is a term defined in the document, tagged with the section it
// was found in.
type Definition struct {
	Term       string `json:"term" yaml:"term"`
	Definition string `json:"definition" yaml:"definition"`
	Section    string `json:"section" yaml:"section"`
}
