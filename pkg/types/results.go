// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// StructureResult is the parse result returned for an RFC.
type StructureResult struct {
	Metadata Metadata  `json:"metadata" yaml:"metadata"`
	Sections []Section `json:"sections" yaml:"sections"`

	// Exactly one of ReferenceCount and References is set, depending on
	// whether the caller asked for full references.
	ReferenceCount *ReferenceCount `json:"referenceCount,omitempty" yaml:"reference_count,omitempty"`
	References     *References     `json:"references,omitempty" yaml:"references,omitempty"`

	Source     SourceFormat `json:"_source" yaml:"source"`
	SourceNote string       `json:"_sourceNote,omitempty" yaml:"source_note,omitempty"`
}

// ReferenceCount summarizes the bibliography size.
type ReferenceCount struct {
	Normative   int `json:"normative" yaml:"normative"`
	Informative int `json:"informative" yaml:"informative"`
}

// RequirementFilter echoes the filter applied to a requirement query.
type RequirementFilter struct {
	Section            string           `json:"section,omitempty" yaml:"section,omitempty"`
	Sections           []string         `json:"sections,omitempty" yaml:"sections,omitempty"`
	Level              RequirementLevel `json:"level,omitempty" yaml:"level,omitempty"`
	ExcludeSubsections bool             `json:"excludeSubsections,omitempty" yaml:"exclude_subsections,omitempty"`
}

// RequirementStats counts requirements in a query result.
type RequirementStats struct {
	Total   int                      `json:"total" yaml:"total"`
	ByLevel map[RequirementLevel]int `json:"byLevel" yaml:"by_level"`
}

// RequirementsResult is the requirement query result.
type RequirementsResult struct {
	RFC          int               `json:"rfc" yaml:"rfc"`
	Filter       RequirementFilter `json:"filter" yaml:"filter"`
	Stats        RequirementStats  `json:"stats" yaml:"stats"`
	Requirements []Requirement     `json:"requirements" yaml:"requirements"`
	Source       SourceFormat      `json:"_source" yaml:"source"`
	SourceNote   string            `json:"_sourceNote,omitempty" yaml:"source_note,omitempty"`
}

// DefinitionsResult is the definition query result. Error is set when a
// search term matched nothing.
type DefinitionsResult struct {
	SearchTerm  string       `json:"searchTerm,omitempty" yaml:"search_term,omitempty"`
	Count       int          `json:"count" yaml:"count"`
	Definitions []Definition `json:"definitions" yaml:"definitions"`
	Error       string       `json:"error,omitempty" yaml:"error,omitempty"`
}

// Dependency is one referenced document in a dependency result.
type Dependency struct {
	Anchor    string `json:"anchor" yaml:"anchor"`
	RFCNumber int    `json:"rfcNumber,omitempty" yaml:"rfc_number,omitempty"`
	Title     string `json:"title" yaml:"title"`
}

// DependenciesResult lists what an RFC depends on. ReferencedBy is a marker
// string because reverse lookups need an index of every RFC.
type DependenciesResult struct {
	RFC          int          `json:"rfc" yaml:"rfc"`
	Normative    []Dependency `json:"normative" yaml:"normative"`
	Informative  []Dependency `json:"informative" yaml:"informative"`
	ReferencedBy string       `json:"referencedBy,omitempty" yaml:"referenced_by,omitempty"`
	Source       SourceFormat `json:"_source" yaml:"source"`
	SourceNote   string       `json:"_sourceNote,omitempty" yaml:"source_note,omitempty"`
}

// Relation names how a related section connects to the queried one.
type Relation string

const (
	RelationParent       Relation = "parent"
	RelationChild        Relation = "child"
	RelationReferences   Relation = "references"
	RelationReferencedBy Relation = "referenced_by"
)

// RelatedSection is one entry of a related-sections result.
type RelatedSection struct {
	Section  string   `json:"section" yaml:"section"`
	Title    string   `json:"title" yaml:"title"`
	Relation Relation `json:"relation" yaml:"relation"`
}

// RelatedSectionsResult is returned by the related-sections query. Error is
// set (and the other fields empty) when the section does not exist.
type RelatedSectionsResult struct {
	Section         string           `json:"section,omitempty" yaml:"section,omitempty"`
	Title           string           `json:"title,omitempty" yaml:"title,omitempty"`
	RelatedSections []RelatedSection `json:"relatedSections,omitempty" yaml:"related_sections,omitempty"`
	Error           string           `json:"error,omitempty" yaml:"error,omitempty"`
}

// Role selects the actor a checklist is generated for.
type Role string

const (
	RoleClient Role = "client"
	RoleServer Role = "server"
	RoleBoth   Role = "both"
)

// ChecklistStats counts checklist items per tier. Total is always
// Must + Should + May.
type ChecklistStats struct {
	Must   int `json:"must" yaml:"must"`
	Should int `json:"should" yaml:"should"`
	May    int `json:"may" yaml:"may"`
	Total  int `json:"total" yaml:"total"`
}

// ChecklistResult is the generated implementation checklist.
type ChecklistResult struct {
	RFC      int            `json:"rfc" yaml:"rfc"`
	Role     Role           `json:"role" yaml:"role"`
	Stats    ChecklistStats `json:"stats" yaml:"stats"`
	Markdown string         `json:"markdown" yaml:"markdown"`
}

// StatementAnalysis is what the matcher detected in a free-text statement.
type StatementAnalysis struct {
	DetectedLevel   RequirementLevel `json:"detectedLevel,omitempty" yaml:"detected_level,omitempty"`
	DetectedSubject string           `json:"detectedSubject,omitempty" yaml:"detected_subject,omitempty"`
}

// RequirementMatch is a scored requirement.
type RequirementMatch struct {
	Requirement     Requirement `json:"requirement" yaml:"requirement"`
	Score           int         `json:"score" yaml:"score"`
	MatchedKeywords []string    `json:"matchedKeywords" yaml:"matched_keywords"`
}

// ConflictType distinguishes the two conflict detectors.
type ConflictType string

const (
	ConflictLevel    ConflictType = "level"
	ConflictSemantic ConflictType = "semantic"
)

// Conflict records a contradiction between a statement and a requirement.
type Conflict struct {
	Type        ConflictType `json:"type" yaml:"type"`
	Requirement Requirement  `json:"requirement" yaml:"requirement"`
	Reason      string       `json:"reason" yaml:"reason"`
}

// ValidationResult is returned by statement validation. IsValid is true
// exactly when Conflicts is empty.
type ValidationResult struct {
	Analysis             StatementAnalysis  `json:"analysis" yaml:"analysis"`
	IsValid              bool               `json:"isValid" yaml:"is_valid"`
	MatchingRequirements []RequirementMatch `json:"matchingRequirements" yaml:"matching_requirements"`
	Conflicts            []Conflict         `json:"conflicts" yaml:"conflicts"`
	Suggestions          []string           `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
}
