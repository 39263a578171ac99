package domain

import "time"

// IssueRecord is one issue as returned by the jira-mcp-snowflake source.
// ResolutionRaw carries the source's composite timestamp encoding
// ("<epoch-seconds> <marker>"); ResolvedAt is only set once that string
// has been parsed successfully. An issue without ResolvedAt is treated
// as not yet resolved.
type IssueRecord struct {
	ID            string     `json:"id,omitempty"`
	Key           string     `json:"key"`
	Project       string     `json:"project"`
	IssueType     string     `json:"issue_type,omitempty"`
	Summary       string     `json:"summary"`
	Description   string     `json:"description,omitempty"`
	Priority      string     `json:"priority"`
	Status        string     `json:"status"`
	Resolution    string     `json:"resolution,omitempty"`
	CreatedRaw    string     `json:"created,omitempty"`
	UpdatedRaw    string     `json:"updated,omitempty"`
	ResolutionRaw string     `json:"resolution_date,omitempty"`
	ResolvedAt    *time.Time `json:"resolved_at,omitempty"`
}

// ReportRun records one report generation, surfaced via /admin/last-run.
type ReportRun struct {
	ID          int64      `json:"id"`
	StartedAt   time.Time  `json:"started_at"`
	FinishedAt  *time.Time `json:"finished_at"`
	Projects    string     `json:"projects"`
	IssuesTotal int        `json:"issues_total"`
	Success     bool       `json:"success"`
	Error       string     `json:"error"`
}
