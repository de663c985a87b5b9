package entity

import "strings"

const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// AuditResult is the structured assessment of a lead's website produced by
// the audit collaborator.
type AuditResult struct {
	PainPoints      []string `json:"pain_points"`
	Recommendations []string `json:"recommendations"`
	Severity        string   `json:"severity"`
}

// JoinedPainPoints flattens the pain point list into the single text column
// stored on the lead.
func (a AuditResult) JoinedPainPoints() string {
	return strings.Join(a.PainPoints, ", ")
}
