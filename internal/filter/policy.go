// Package filter holds the keyword policy that decides whether a scraped or
// submitted posting is kept. It has no dependency on any transport so the
// scrapers and the ingest path share one implementation.
package filter

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"jobfinder-engine/internal/domain"
)

// Policy is a strict conjunction of three keyword tests. Each list holds plain
// substrings matched case-insensitively.
type Policy struct {
	Tech          []string
	RolePrimary   []string
	RoleSecondary []string
	Clearance     []string
}

// Match reports the outcome of each component test.
type Match struct {
	Role      bool
	Tech      bool
	Clearance bool
}

func (m Match) Eligible() bool {
	return m.Role && m.Tech && m.Clearance
}

func DefaultPolicy() Policy {
	return Policy{
		Tech:          []string{"c#", ".net", "azure"},
		RolePrimary:   []string{"full"},
		RoleSecondary: []string{"stack"},
		Clearance: []string{
			"security clearance",
			"secret clearance",
			"top secret",
			"ts/sci",
			"tssci",
			"clearance required",
			"must have clearance",
			"active clearance",
			"government security clearance",
			"dod clearance",
			"public trust",
			"clearable",
		},
	}
}

// Evaluate runs the three tests against text.
func (p Policy) Evaluate(text string) Match {
	t := fold(text)
	return Match{
		// "full" and "stack" are matched separately so "Full Stack",
		// "full-stack" and "Full-Stack" all qualify.
		Role:      containsAny(t, p.RolePrimary) && containsAny(t, p.RoleSecondary),
		Tech:      containsAny(t, p.Tech),
		Clearance: containsAny(t, p.Clearance),
	}
}

func (p Policy) IsRoleMatch(text string) bool {
	t := fold(text)
	return containsAny(t, p.RolePrimary) && containsAny(t, p.RoleSecondary)
}

func (p Policy) HasTechMatch(text string) bool {
	return containsAny(fold(text), p.Tech)
}

func (p Policy) HasClearanceMatch(text string) bool {
	return containsAny(fold(text), p.Clearance)
}

// IsEligible evaluates the candidate's title and description.
func (p Policy) IsEligible(c domain.Candidate) bool {
	return p.Evaluate(c.Text()).Eligible()
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		n = fold(strings.TrimSpace(n))
		if n == "" {
			continue
		}
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}

// fold normalizes width/compatibility forms and case. A Caser is stateful, so
// one is built per call.
func fold(s string) string {
	return cases.Fold().String(norm.NFKC.String(s))
}
