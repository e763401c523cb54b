// Package classify derives discipline and career-stage labels from listing
// titles. It is intentionally a small ordered rule list, not a learned
// classifier: the patterns below are the only ones recognized, and titles
// matching none of them keep the defaults.
package classify

import "strings"

// Career stages, the only values CareerStage ever returns.
const (
	StageEntry     = "Entry Level"
	StageSenior    = "Senior"
	StagePrincipal = "Principal"
)

// DisciplineOverride returns a discipline derived from the title, or false
// when the upstream discipline should be used instead. Applied only while
// building output rows; the canonical record keeps the upstream value.
func DisciplineOverride(title string) (string, bool) {
	// "Manage" matches both "Manager" and "Management", and covers TPM roles.
	if strings.Contains(title, "Product Manage") || strings.Contains(title, "Program Manage") {
		return "Program Management", true
	}
	// "Research Scien" matches both "Research Science" and "Research Scientist";
	// both are reconciled under the general Data Science discipline.
	if strings.Contains(title, "Research Scien") {
		return "Data Science", true
	}
	return "", false
}

// CareerStage maps a title to a career stage. Rules are evaluated in order
// and the last match wins; prefix checks are case-insensitive.
func CareerStage(title string) string {
	stage := StageEntry
	if strings.Contains(title, "Lead") {
		// Leads are assumed Senior unless they match the Principal rule below.
		stage = StageSenior
	}
	if hasPrefixFold(title, "Senior") || hasPrefixFold(title, "Sr") {
		stage = StageSenior
	}
	if hasPrefixFold(title, "Principal") {
		stage = StagePrincipal
	}
	return stage
}

// hasPrefixFold reports whether s starts with prefix, ignoring case.
func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
