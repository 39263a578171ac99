package collector

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/redhat-ai-tools/jira-report-agent/internal/domain"
	"github.com/rs/zerolog"
)

//go:embed sampledata.json
var sampleData []byte

// Static serves a fixed snapshot of jira-mcp-snowflake responses. It is
// the collector of last resort: used when no MCP endpoint is configured,
// and by tests.
type Static struct {
	log  zerolog.Logger
	data map[string][]domain.IssueRecord
}

func NewStatic(log zerolog.Logger) (*Static, error) {
	var data map[string][]domain.IssueRecord
	if err := json.Unmarshal(sampleData, &data); err != nil {
		return nil, fmt.Errorf("static collector: decode sample data: %w", err)
	}
	return &Static{log: log, data: data}, nil
}

func (s *Static) Name() string { return "static-sample" }

func (s *Static) FetchIssues(ctx context.Context, project, status string, limit int) ([]domain.IssueRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, &Error{Project: project, Err: err}
	}
	issues, ok := s.data[project]
	if !ok {
		// Unknown project is an empty result, not a failure.
		s.log.Debug().Str("project", project).Msg("static collector: no data for project")
		return []domain.IssueRecord{}, nil
	}
	out := make([]domain.IssueRecord, 0, len(issues))
	for _, is := range issues {
		if status != "" && is.Status != status {
			continue
		}
		out = append(out, is)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}
