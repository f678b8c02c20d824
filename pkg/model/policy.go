package model

import (
	"fmt"
	"strings"
)

// Policy selects the ready-queue ordering used by the scheduling engine.
type Policy string

const (
	// PolicyAscending runs shorter tasks first (source term "MIN").
	PolicyAscending Policy = "ASCENDING"
	// PolicyDescending runs longer tasks first (source term "MAX").
	PolicyDescending Policy = "DESCENDING"
)

// String returns the string representation of the policy.
func (p Policy) String() string {
	return string(p)
}

// ParsePolicy converts a user-supplied policy name to a Policy.
// The legacy spellings "min" and "max" are accepted as aliases.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ASCENDING", "ASC", "MIN":
		return PolicyAscending, nil
	case "DESCENDING", "DESC", "MAX":
		return PolicyDescending, nil
	default:
		return "", fmt.Errorf("unknown policy %q (want ascending or descending)", s)
	}
}

// Verdict names the winning policy of a comparison run.
type Verdict string

const (
	VerdictAscending  Verdict = "ASCENDING"
	VerdictDescending Verdict = "DESCENDING"
	VerdictTie        Verdict = "TIE"
)

// String returns the string representation of the verdict.
func (v Verdict) String() string {
	return string(v)
}
