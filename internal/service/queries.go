// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package service

import (
	"context"
	"fmt"

	"github.com/pdiddy/rfc-engine/internal/checklist"
	"github.com/pdiddy/rfc-engine/internal/extract"
	"github.com/pdiddy/rfc-engine/internal/sections"
	"github.com/pdiddy/rfc-engine/internal/validate"
	"github.com/pdiddy/rfc-engine/pkg/types"
)

// ReferencedByMarker is returned when reverse dependencies are requested.
// Answering it needs every RFC parsed, which a single-document query
// cannot do; the requirement index covers part of that need.
const ReferencedByMarker = "not implemented: reverse dependency lookup requires a full RFC corpus index"

// StructureOptions selects how much of the document a structure query
// returns.
type StructureOptions struct {
	IncludeContent    bool
	IncludeReferences bool
}

// Structure returns the metadata and section tree of RFC n. Section
// content is stripped unless requested; references are summarized by
// count unless requested.
func (s *Service) Structure(ctx context.Context, n int, opts StructureOptions) (types.StructureResult, error) {
	p, err := s.Document(ctx, n)
	if err != nil {
		return types.StructureResult{}, err
	}
	doc := p.Document
	res := types.StructureResult{
		Metadata:   doc.Metadata,
		Sections:   doc.Sections,
		Source:     p.Source,
		SourceNote: p.SourceNote,
	}
	if !opts.IncludeContent {
		res.Sections = sections.StripContent(doc.Sections)
	}
	if opts.IncludeReferences {
		refs := doc.References
		res.References = &refs
	} else {
		res.ReferenceCount = &types.ReferenceCount{
			Normative:   len(doc.References.Normative),
			Informative: len(doc.References.Informative),
		}
	}
	return res, nil
}

// RequirementsQuery selects requirements from one RFC.
type RequirementsQuery struct {
	extract.Filter
	ParseComponents bool
}

// Requirements extracts the requirements of RFC n that pass q.
func (s *Service) Requirements(ctx context.Context, n int, q RequirementsQuery) (types.RequirementsResult, error) {
	p, err := s.Document(ctx, n)
	if err != nil {
		return types.RequirementsResult{}, err
	}
	reqs := extract.Requirements(p.Document.Sections, extract.Options{Filter: q.Filter, ParseComponents: q.ParseComponents})
	if reqs == nil {
		reqs = []types.Requirement{}
	}
	return types.RequirementsResult{
		RFC: n,
		Filter: types.RequirementFilter{
			Section:            q.Section,
			Sections:           q.Sections,
			Level:              q.Level,
			ExcludeSubsections: q.ExcludeSubsections,
		},
		Stats:        extract.Stats(reqs),
		Requirements: reqs,
		Source:       p.Source,
		SourceNote:   p.SourceNote,
	}, nil
}

// Definitions searches the terminology of RFC n. An empty term lists all
// definitions.
func (s *Service) Definitions(ctx context.Context, n int, term string) (types.DefinitionsResult, error) {
	p, err := s.Document(ctx, n)
	if err != nil {
		return types.DefinitionsResult{}, err
	}
	return extract.FindDefinitions(p.Document.Definitions, term), nil
}

// Dependencies lists the documents RFC n cites, split by reference type.
func (s *Service) Dependencies(ctx context.Context, n int, includeReferencedBy bool) (types.DependenciesResult, error) {
	p, err := s.Document(ctx, n)
	if err != nil {
		return types.DependenciesResult{}, err
	}
	res := types.DependenciesResult{
		RFC:         n,
		Normative:   dependencies(p.Document.References.Normative),
		Informative: dependencies(p.Document.References.Informative),
		Source:      p.Source,
		SourceNote:  p.SourceNote,
	}
	if includeReferencedBy {
		res.ReferencedBy = ReferencedByMarker
	}
	return res, nil
}

func dependencies(refs []types.Reference) []types.Dependency {
	out := make([]types.Dependency, 0, len(refs))
	for _, r := range refs {
		out = append(out, types.Dependency{Anchor: r.Anchor, RFCNumber: r.RFCNumber, Title: r.Title})
	}
	return out
}

// Related lists the sections connected to section in RFC n.
func (s *Service) Related(ctx context.Context, n int, section string) (types.RelatedSectionsResult, error) {
	p, err := s.Document(ctx, n)
	if err != nil {
		return types.RelatedSectionsResult{}, err
	}
	return sections.Related(p.Document.Sections, section), nil
}

// Checklist builds the implementation checklist of RFC n for role,
// optionally limited to some sections.
func (s *Service) Checklist(ctx context.Context, n int, role types.Role, secs []string) (types.ChecklistResult, error) {
	switch role {
	case "", types.RoleClient, types.RoleServer, types.RoleBoth:
	default:
		return types.ChecklistResult{}, fmt.Errorf("invalid role %q (want client, server or both)", role)
	}
	p, err := s.Document(ctx, n)
	if err != nil {
		return types.ChecklistResult{}, err
	}
	reqs := extract.Requirements(p.Document.Sections, extract.Options{
		Filter:          extract.Filter{Sections: secs},
		ParseComponents: true,
	})
	return checklist.Generate(n, p.Document.Metadata.Title, reqs, role), nil
}

// Validate checks statement against the requirements of RFC n, optionally
// limited to one section.
func (s *Service) Validate(ctx context.Context, n int, statement, section string, maxResults int) (types.ValidationResult, error) {
	p, err := s.Document(ctx, n)
	if err != nil {
		return types.ValidationResult{}, err
	}
	reqs := extract.Requirements(p.Document.Sections, extract.Options{
		Filter:          extract.Filter{Section: section},
		ParseComponents: true,
	})
	return validate.Validate(statement, reqs, maxResults), nil
}
