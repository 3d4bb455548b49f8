// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/pdiddy/rfc-engine/internal/acquire"
	"github.com/pdiddy/rfc-engine/internal/extract"
	"github.com/pdiddy/rfc-engine/internal/service"
	"github.com/pdiddy/rfc-engine/pkg/types"
)

// Tool names.
const (
	ToolStructure    = "get_rfc_structure"
	ToolRequirements = "get_requirements"
	ToolDefinitions  = "get_definitions"
	ToolDependencies = "get_rfc_dependencies"
	ToolRelated      = "get_related_sections"
	ToolChecklist    = "generate_checklist"
	ToolValidate     = "validate_statement"
)

type structureInput struct {
	RFC               int  `json:"rfc" jsonschema:"RFC number (1-99999)"`
	IncludeContent    bool `json:"include_content,omitempty" jsonschema:"Include section content blocks"`
	IncludeReferences bool `json:"include_references,omitempty" jsonschema:"Include the full reference lists instead of counts"`
}

type requirementsInput struct {
	RFC                int      `json:"rfc" jsonschema:"RFC number (1-99999)"`
	Section            string   `json:"section,omitempty" jsonschema:"Section number or anchor, e.g. 5.3 or section-5.3"`
	Sections           []string `json:"sections,omitempty" jsonschema:"Several sections to include"`
	Level              string   `json:"level,omitempty" jsonschema:"Requirement level, e.g. MUST or SHOULD NOT"`
	ExcludeSubsections bool     `json:"exclude_subsections,omitempty" jsonschema:"Match the section itself but not its subsections"`
	ParseComponents    bool     `json:"parse_components,omitempty" jsonschema:"Fill subject, action, condition and exception"`
}

type definitionsInput struct {
	RFC  int    `json:"rfc" jsonschema:"RFC number (1-99999)"`
	Term string `json:"term,omitempty" jsonschema:"Term to search for; empty lists all definitions"`
}

type dependenciesInput struct {
	RFC                 int  `json:"rfc" jsonschema:"RFC number (1-99999)"`
	IncludeReferencedBy bool `json:"include_referenced_by,omitempty" jsonschema:"Also ask for RFCs that cite this one"`
}

type relatedInput struct {
	RFC     int    `json:"rfc" jsonschema:"RFC number (1-99999)"`
	Section string `json:"section" jsonschema:"Section number or anchor"`
}

type checklistInput struct {
	RFC      int      `json:"rfc" jsonschema:"RFC number (1-99999)"`
	Role     string   `json:"role,omitempty" jsonschema:"client, server or both (default both)"`
	Sections []string `json:"sections,omitempty" jsonschema:"Limit the checklist to these sections"`
}

type validateInput struct {
	RFC        int    `json:"rfc" jsonschema:"RFC number (1-99999)"`
	Statement  string `json:"statement" jsonschema:"Statement describing implementation behavior"`
	Section    string `json:"section,omitempty" jsonschema:"Only check requirements in this section"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"Maximum matching requirements returned (default 10)"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        ToolStructure,
		Description: "Parse an RFC and return its metadata and section tree",
	}, s.handleStructure)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        ToolRequirements,
		Description: "Extract normative requirements (MUST, SHOULD, MAY, ...) from an RFC",
	}, s.handleRequirements)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        ToolDefinitions,
		Description: "Look up terms defined in an RFC",
	}, s.handleDefinitions)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        ToolDependencies,
		Description: "List the normative and informative references of an RFC",
	}, s.handleDependencies)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        ToolRelated,
		Description: "Find the parent, children and cross-referenced sections of an RFC section",
	}, s.handleRelated)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        ToolChecklist,
		Description: "Generate a Markdown implementation checklist for a client or server role",
	}, s.handleChecklist)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        ToolValidate,
		Description: "Check a statement about implementation behavior against an RFC's requirements",
	}, s.handleValidate)
}

func (s *Server) handleStructure(ctx context.Context, _ *mcp.CallToolRequest, args structureInput) (res *mcp.CallToolResult, _ any, err error) {
	defer s.observe(ToolStructure, args.RFC, time.Now(), &err)
	if err = acquire.ValidNumber(args.RFC); err != nil {
		return nil, nil, err
	}
	out, err := s.svc.Structure(ctx, args.RFC, service.StructureOptions{
		IncludeContent:    args.IncludeContent,
		IncludeReferences: args.IncludeReferences,
	})
	if err != nil {
		return nil, nil, err
	}
	res, err = jsonResult(out)
	return res, nil, err
}

func (s *Server) handleRequirements(ctx context.Context, _ *mcp.CallToolRequest, args requirementsInput) (res *mcp.CallToolResult, _ any, err error) {
	defer s.observe(ToolRequirements, args.RFC, time.Now(), &err)
	if err = acquire.ValidNumber(args.RFC); err != nil {
		return nil, nil, err
	}
	level, err := types.ParseLevel(args.Level)
	if err != nil {
		return nil, nil, err
	}
	out, err := s.svc.Requirements(ctx, args.RFC, service.RequirementsQuery{
		Filter: extract.Filter{
			Section:            args.Section,
			Sections:           args.Sections,
			ExcludeSubsections: args.ExcludeSubsections,
			Level:              level,
		},
		ParseComponents: args.ParseComponents,
	})
	if err != nil {
		return nil, nil, err
	}
	res, err = jsonResult(out)
	return res, nil, err
}

func (s *Server) handleDefinitions(ctx context.Context, _ *mcp.CallToolRequest, args definitionsInput) (res *mcp.CallToolResult, _ any, err error) {
	defer s.observe(ToolDefinitions, args.RFC, time.Now(), &err)
	if err = acquire.ValidNumber(args.RFC); err != nil {
		return nil, nil, err
	}
	out, err := s.svc.Definitions(ctx, args.RFC, args.Term)
	if err != nil {
		return nil, nil, err
	}
	res, err = jsonResult(out)
	return res, nil, err
}

func (s *Server) handleDependencies(ctx context.Context, _ *mcp.CallToolRequest, args dependenciesInput) (res *mcp.CallToolResult, _ any, err error) {
	defer s.observe(ToolDependencies, args.RFC, time.Now(), &err)
	if err = acquire.ValidNumber(args.RFC); err != nil {
		return nil, nil, err
	}
	out, err := s.svc.Dependencies(ctx, args.RFC, args.IncludeReferencedBy)
	if err != nil {
		return nil, nil, err
	}
	res, err = jsonResult(out)
	return res, nil, err
}

func (s *Server) handleRelated(ctx context.Context, _ *mcp.CallToolRequest, args relatedInput) (res *mcp.CallToolResult, _ any, err error) {
	defer s.observe(ToolRelated, args.RFC, time.Now(), &err)
	if err = acquire.ValidNumber(args.RFC); err != nil {
		return nil, nil, err
	}
	if args.Section == "" {
		err = fmt.Errorf("section is required")
		return nil, nil, err
	}
	out, err := s.svc.Related(ctx, args.RFC, args.Section)
	if err != nil {
		return nil, nil, err
	}
	res, err = jsonResult(out)
	return res, nil, err
}

func (s *Server) handleChecklist(ctx context.Context, _ *mcp.CallToolRequest, args checklistInput) (res *mcp.CallToolResult, _ any, err error) {
	defer s.observe(ToolChecklist, args.RFC, time.Now(), &err)
	if err = acquire.ValidNumber(args.RFC); err != nil {
		return nil, nil, err
	}
	out, err := s.svc.Checklist(ctx, args.RFC, types.Role(args.Role), args.Sections)
	if err != nil {
		return nil, nil, err
	}
	res, err = jsonResult(out)
	return res, nil, err
}

func (s *Server) handleValidate(ctx context.Context, _ *mcp.CallToolRequest, args validateInput) (res *mcp.CallToolResult, _ any, err error) {
	defer s.observe(ToolValidate, args.RFC, time.Now(), &err)
	if err = acquire.ValidNumber(args.RFC); err != nil {
		return nil, nil, err
	}
	if args.Statement == "" {
		err = fmt.Errorf("statement is required")
		return nil, nil, err
	}
	out, err := s.svc.Validate(ctx, args.RFC, args.Statement, args.Section, args.MaxResults)
	if err != nil {
		return nil, nil, err
	}
	res, err = jsonResult(out)
	return res, nil, err
}

func (s *Server) observe(tool string, rfc int, start time.Time, errp *error) {
	s.metrics.record(tool, start, *errp)
	if *errp != nil {
		s.logger.Warn("tool call failed", zap.String("tool", tool), zap.Int("rfc", rfc), zap.Error(*errp))
		return
	}
	s.logger.Debug("tool call", zap.String("tool", tool), zap.Int("rfc", rfc), zap.Duration("elapsed", time.Since(start)))
}

// jsonResult wraps v as indented JSON text content.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil
}
