package collector

import (
	"context"
	"fmt"

	"github.com/redhat-ai-tools/jira-report-agent/internal/domain"
)

// Collector fetches raw issue records for one project. Zero matching
// issues is a normal empty result, never an error; only transport and
// decode failures produce a *Error.
type Collector interface {
	FetchIssues(ctx context.Context, project, status string, limit int) ([]domain.IssueRecord, error)
	Name() string
}

// Error wraps a fetch failure with the project it concerned.
type Error struct {
	Project string
	Err     error
}

func (e *Error) Error() string { return fmt.Sprintf("collector: project %s: %v", e.Project, e.Err) }
func (e *Error) Unwrap() error { return e.Err }
