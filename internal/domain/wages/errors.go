package wages

import (
	"errors"
	"strings"
)

var (
	ErrInvalidPolicy  = errors.New("invalid wage policy")
	ErrInvalidRule    = errors.New("invalid eligibility rule")
	ErrRuleEvaluation = errors.New("eligibility rule evaluation failed")
	ErrEmptyBatch     = errors.New("batch contains no rows")
)

type Issue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError is returned by ParseInput when any field is rejected.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Issues) == 0 {
		return "wage input invalid"
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.Field+": "+issue.Reason)
	}
	return "wage input invalid: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, reason string) {
	e.Issues = append(e.Issues, Issue{Field: field, Reason: reason})
}
