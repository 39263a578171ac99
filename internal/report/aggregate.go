package report

import (
	"fmt"
	"time"

	"github.com/redhat-ai-tools/jira-report-agent/internal/domain"
)

// ProjectGroup is one project's slice of a report.
type ProjectGroup struct {
	Project string               `json:"project"`
	Count   int                  `json:"count"`
	Issues  []domain.IssueRecord `json:"issues"`
}

// Aggregate is the grouped, counted form of a filtered issue set.
// Projects keeps first-seen order; only observed projects appear (the
// renderer owns "no issues this period" for requested-but-absent ones).
type Aggregate struct {
	Projects    []ProjectGroup `json:"projects"`
	TotalCount  int            `json:"total_count"`
	Window      FilterWindow   `json:"window"`
	GeneratedAt time.Time      `json:"generated_at"`
}

// Group returns the group for a project, or nil if the project had no
// issues in the window.
func (a Aggregate) Group(project string) *ProjectGroup {
	for i := range a.Projects {
		if a.Projects[i].Project == project {
			return &a.Projects[i]
		}
	}
	return nil
}

// BuildAggregate groups filtered records by project in first-seen order,
// preserving each group's relative input order. GeneratedAt comes from
// the supplied clock so report generation stays deterministic under test.
func BuildAggregate(records []domain.IssueRecord, w FilterWindow, now func() time.Time) (Aggregate, error) {
	if records == nil {
		return Aggregate{}, fmt.Errorf("%w: nil record sequence", ErrInvalidArgument)
	}
	if now == nil {
		return Aggregate{}, fmt.Errorf("%w: nil clock", ErrInvalidArgument)
	}
	if w.LookbackDays <= 0 {
		return Aggregate{}, fmt.Errorf("%w: filter window has non-positive lookback", ErrInvalidArgument)
	}
	agg := Aggregate{Window: w, GeneratedAt: now()}
	index := map[string]int{}
	for _, r := range records {
		i, seen := index[r.Project]
		if !seen {
			i = len(agg.Projects)
			index[r.Project] = i
			agg.Projects = append(agg.Projects, ProjectGroup{Project: r.Project})
		}
		agg.Projects[i].Issues = append(agg.Projects[i].Issues, r)
		agg.Projects[i].Count++
		agg.TotalCount++
	}
	return agg, nil
}
