package state

import (
	"strings"

	"golang.org/x/text/cases"
)

// fold returns the case-folded form used for case-insensitive matching.
func fold(s string) string {
	return cases.Fold().String(s)
}

// containsFold reports whether sub occurs in s ignoring case.
func containsFold(s, sub string) bool {
	return strings.Contains(fold(s), fold(sub))
}

// DisplayName turns a wire spawn name such as "a_rat00" into "a rat".
func DisplayName(raw string) string {
	name := strings.TrimRight(raw, "0123456789")
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.TrimSpace(name)
	if name == "" {
		return raw
	}
	return name
}
