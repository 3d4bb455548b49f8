// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// RFCRecord is the metadata file written next to a mirrored RFC.
type RFCRecord struct {
	// Number is the RFC number.
	Number int `json:"number" yaml:"number"`

	// Title is the document title from the RFC Editor index.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// Authors lists author names as published.
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty"`

	// Published is the publication month and year (e.g. "December 2011").
	Published string `json:"published,omitempty" yaml:"published,omitempty"`

	// Status is the publication status (e.g. "PROPOSED STANDARD").
	Status string `json:"status,omitempty" yaml:"status,omitempty"`

	// Abstract is the document abstract.
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`

	// DOI is the Digital Object Identifier.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	Obsoletes   []string `json:"obsoletes,omitempty" yaml:"obsoletes,omitempty"`
	ObsoletedBy []string `json:"obsoleted_by,omitempty" yaml:"obsoleted_by,omitempty"`
	Updates     []string `json:"updates,omitempty" yaml:"updates,omitempty"`
	UpdatedBy   []string `json:"updated_by,omitempty" yaml:"updated_by,omitempty"`

	// Format is the rendering stored in the raw mirror.
	Format SourceFormat `json:"format" yaml:"format"`

	// SourceURL is where the raw document was downloaded from.
	SourceURL string `json:"source_url" yaml:"source_url"`

	// RawPath is the path of the mirrored document.
	RawPath string `json:"raw_path" yaml:"raw_path"`

	// FetchedAt is when the document was downloaded.
	FetchedAt time.Time `json:"fetched_at" yaml:"fetched_at"`
}
