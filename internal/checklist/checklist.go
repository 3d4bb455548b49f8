// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package checklist renders extracted requirements as an implementation
// checklist.
// Implements: MUST/SHOULD/MAY tier classification, client/server role
// filtering, and Markdown rendering with per-tier statistics.
package checklist

import (
	"fmt"
	"strings"

	"github.com/pdiddy/rfc-engine/pkg/types"
)

// Tier groups requirement levels for the checklist.
type Tier int

const (
	TierMust Tier = iota
	TierShould
	TierMay
)

var tierHeadings = map[Tier]string{
	TierMust:   "MUST (Required)",
	TierShould: "SHOULD (Recommended)",
	TierMay:    "MAY (Optional)",
}

// TierOf classifies a level.
func TierOf(level types.RequirementLevel) Tier {
	switch level {
	case types.LevelShould, types.LevelShouldNot, types.LevelRecommended, types.LevelNotRecommended:
		return TierShould
	case types.LevelMay, types.LevelOptional:
		return TierMay
	default:
		return TierMust
	}
}

// ForRole keeps requirements that apply to role. A requirement applies when
// its subject names the role, or when it does not name the opposite role,
// so role-neutral requirements appear for both client and server.
func ForRole(reqs []types.Requirement, role types.Role) []types.Requirement {
	var other types.Role
	switch role {
	case types.RoleClient:
		other = types.RoleServer
	case types.RoleServer:
		other = types.RoleClient
	default:
		return reqs
	}
	var out []types.Requirement
	for _, r := range reqs {
		subject := strings.ToLower(r.Subject)
		if strings.Contains(subject, string(role)) || !strings.Contains(subject, string(other)) {
			out = append(out, r)
		}
	}
	return out
}

// Generate builds the checklist for one RFC. title may be empty.
func Generate(rfc int, title string, reqs []types.Requirement, role types.Role) types.ChecklistResult {
	if role == "" {
		role = types.RoleBoth
	}
	kept := ForRole(reqs, role)

	tiers := make(map[Tier][]types.Requirement)
	for _, r := range kept {
		t := TierOf(r.Level)
		tiers[t] = append(tiers[t], r)
	}

	stats := types.ChecklistStats{
		Must:   len(tiers[TierMust]),
		Should: len(tiers[TierShould]),
		May:    len(tiers[TierMay]),
	}
	stats.Total = stats.Must + stats.Should + stats.May

	var b strings.Builder
	fmt.Fprintf(&b, "# RFC %d Implementation Checklist\n\n", rfc)
	if title != "" {
		fmt.Fprintf(&b, "_%s_\n\n", title)
	}
	fmt.Fprintf(&b, "**Role:** %s\n", role)
	for _, t := range []Tier{TierMust, TierShould, TierMay} {
		items := tiers[t]
		if len(items) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n## %s\n\n", tierHeadings[t])
		for _, r := range items {
			fmt.Fprintf(&b, "- [ ] %s (Section %s)\n", r.Text, r.Section)
		}
	}

	return types.ChecklistResult{RFC: rfc, Role: role, Stats: stats, Markdown: b.String()}
}
