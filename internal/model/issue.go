package model

import "fmt"

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Issue is a single validation finding. Issues are recomputed on every
// validation call, never persisted.
type Issue struct {
	Code     string         `json:"code"`
	Severity Severity       `json:"severity"`
	Message  string         `json:"message"`
	Meta     map[string]any `json:"meta,omitempty"`
}

// ValidationResult is the full outcome of one validation run.
// CanPublish holds iff no issue is high severity; this predicate is
// computed here and nowhere else.
type ValidationResult struct {
	DraftID    int64   `json:"draft_id"`
	Issues     []Issue `json:"issues"`
	CanPublish bool    `json:"can_publish"`
}

// ValidationError blocks a publish and carries the full issue list so
// callers can render remediation guidance.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %d issue(s)", len(e.Issues))
}

func (e *ValidationError) Unwrap() error { return ErrValidationFailed }
