// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/rfc-engine/internal/acquire"
	"github.com/pdiddy/rfc-engine/internal/extract"
	"github.com/pdiddy/rfc-engine/internal/service"
	"github.com/pdiddy/rfc-engine/pkg/types"
)

// --- structure ---

var structureCmd = &cobra.Command{
	Use:   "structure <rfc>",
	Short: "Print the metadata and section tree of an RFC",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, _ := cmd.Flags().GetBool("content")
		refs, _ := cmd.Flags().GetBool("references")
		return runQuery(cmd, args[0], func(e *engine, n int) (any, error) {
			return e.svc.Structure(cmd.Context(), n, service.StructureOptions{
				IncludeContent:    content,
				IncludeReferences: refs,
			})
		})
	},
}

// --- requirements ---

var requirementsCmd = &cobra.Command{
	Use:   "requirements <rfc>",
	Short: "Extract normative requirements from an RFC",
	Long: `Requirements lists every sentence carrying an RFC 2119 / RFC 8174 keyword.
Filter by section (subsections included unless --exclude-subsections) and by
level. --components adds heuristic subject, action, condition and exception
fields.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		section, _ := cmd.Flags().GetString("section")
		secs, _ := cmd.Flags().GetStringSlice("sections")
		levelFlag, _ := cmd.Flags().GetString("level")
		exclude, _ := cmd.Flags().GetBool("exclude-subsections")
		components, _ := cmd.Flags().GetBool("components")

		level, err := types.ParseLevel(levelFlag)
		if err != nil {
			return err
		}
		return runQuery(cmd, args[0], func(e *engine, n int) (any, error) {
			return e.svc.Requirements(cmd.Context(), n, service.RequirementsQuery{
				Filter: extract.Filter{
					Section:            section,
					Sections:           secs,
					ExcludeSubsections: exclude,
					Level:              level,
				},
				ParseComponents: components,
			})
		})
	},
}

// --- definitions ---

var definitionsCmd = &cobra.Command{
	Use:   "definitions <rfc> [term]",
	Short: "Look up terms defined in an RFC",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		term := ""
		if len(args) > 1 {
			term = args[1]
		}
		return runQuery(cmd, args[0], func(e *engine, n int) (any, error) {
			return e.svc.Definitions(cmd.Context(), n, term)
		})
	},
}

// --- deps ---

var depsCmd = &cobra.Command{
	Use:   "deps <rfc>",
	Short: "List the normative and informative references of an RFC",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		referencedBy, _ := cmd.Flags().GetBool("referenced-by")
		return runQuery(cmd, args[0], func(e *engine, n int) (any, error) {
			return e.svc.Dependencies(cmd.Context(), n, referencedBy)
		})
	},
}

// --- related ---

var relatedCmd = &cobra.Command{
	Use:   "related <rfc> <section>",
	Short: "Find sections related to a section by nesting or cross-reference",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuery(cmd, args[0], func(e *engine, n int) (any, error) {
			return e.svc.Related(cmd.Context(), n, args[1])
		})
	},
}

// --- checklist ---

var checklistCmd = &cobra.Command{
	Use:   "checklist <rfc>",
	Short: "Generate an implementation checklist for a client or server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		role, _ := cmd.Flags().GetString("role")
		secs, _ := cmd.Flags().GetStringSlice("sections")
		markdown, _ := cmd.Flags().GetBool("markdown")

		n, err := acquire.ParseNumber(args[0])
		if err != nil {
			return err
		}
		e, err := newEngine()
		if err != nil {
			return err
		}
		defer e.close()

		res, err := e.svc.Checklist(cmd.Context(), n, types.Role(role), secs)
		if err != nil {
			return err
		}
		if markdown {
			_, err := fmt.Fprint(cmd.OutOrStdout(), res.Markdown)
			return err
		}
		return printResult(cmd.OutOrStdout(), res)
	},
}

// --- validate ---

var validateCmd = &cobra.Command{
	Use:   "validate <rfc> <statement...>",
	Short: "Check a statement against the requirements of an RFC",
	Long: `Validate scores the RFC's requirements against a free-text statement about
implementation behavior and reports requirements it contradicts, either by
requirement level ("MAY" against "MUST") or by negating a required action.
The command exits non-zero when conflicts are found.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		section, _ := cmd.Flags().GetString("section")
		maxResults, _ := cmd.Flags().GetInt("max-results")
		statement := strings.Join(args[1:], " ")

		var conflicts int
		err := runQuery(cmd, args[0], func(e *engine, n int) (any, error) {
			res, err := e.svc.Validate(cmd.Context(), n, statement, section, maxResults)
			conflicts = len(res.Conflicts)
			return res, err
		})
		if err != nil {
			return err
		}
		if conflicts > 0 {
			return fmt.Errorf("statement conflicts with %d requirement(s)", conflicts)
		}
		return nil
	},
}

// runQuery resolves the RFC identifier, builds an engine, runs q and prints
// its result.
func runQuery(cmd *cobra.Command, identifier string, q func(e *engine, n int) (any, error)) error {
	n, err := acquire.ParseNumber(identifier)
	if err != nil {
		return err
	}
	e, err := newEngine()
	if err != nil {
		return err
	}
	defer e.close()

	res, err := q(e, n)
	if err != nil {
		return err
	}
	return printResult(cmd.OutOrStdout(), res)
}

func init() {
	structureCmd.Flags().Bool("content", false, "include section content blocks")
	structureCmd.Flags().Bool("references", false, "include full reference lists instead of counts")

	requirementsCmd.Flags().String("section", "", "section number or anchor (e.g. 5.3 or section-5.3)")
	requirementsCmd.Flags().StringSlice("sections", nil, "several sections (comma-separated)")
	requirementsCmd.Flags().String("level", "", `requirement level (e.g. MUST, "SHOULD NOT")`)
	requirementsCmd.Flags().Bool("exclude-subsections", false, "match the section itself but not its subsections")
	requirementsCmd.Flags().Bool("components", false, "fill subject, action, condition and exception")

	depsCmd.Flags().Bool("referenced-by", false, "also ask for RFCs citing this one")

	checklistCmd.Flags().String("role", string(types.RoleBoth), "client, server or both")
	checklistCmd.Flags().StringSlice("sections", nil, "limit the checklist to these sections")
	checklistCmd.Flags().Bool("markdown", false, "print only the Markdown checklist")

	validateCmd.Flags().String("section", "", "only check requirements in this section")
	validateCmd.Flags().Int("max-results", 0, "maximum matching requirements (0 = default 10)")

	rootCmd.AddCommand(structureCmd, requirementsCmd, definitionsCmd, depsCmd, relatedCmd, checklistCmd, validateCmd)
}
