package report

import (
	"fmt"
	"strings"
)

// RenderInput is everything the Markdown renderer needs. Projects is the
// caller's requested project list, used to emit "no issues" sections for
// projects absent from the aggregate.
type RenderInput struct {
	Agg      Aggregate
	Projects []string
	Source   string
	Summary  string
	Diags    []Diagnostic
}

// RenderMarkdown turns an aggregate into the monthly closed-issues report.
func RenderMarkdown(in RenderInput) string {
	b := &strings.Builder{}
	fmt.Fprintf(b, "# Monthly JIRA Closed Issues Report\n\n")
	fmt.Fprintf(b, "**Report Period:** Last %d Days\n", in.Agg.Window.LookbackDays)
	fmt.Fprintf(b, "**Generated:** %s\n", in.Agg.GeneratedAt.Format("2006-01-02 15:04 MST"))
	if in.Source != "" {
		fmt.Fprintf(b, "**Data Source:** %s\n", in.Source)
	}

	fmt.Fprintf(b, "\n## Executive Summary\n\n")
	if in.Summary != "" {
		fmt.Fprintf(b, "%s\n\n", strings.TrimSpace(in.Summary))
	}
	fmt.Fprintf(b, "- Total issues closed: %d\n", in.Agg.TotalCount)
	for _, p := range projectOrder(in) {
		count := 0
		if g := in.Agg.Group(p); g != nil {
			count = g.Count
		}
		fmt.Fprintf(b, "- %s: %d\n", p, count)
	}

	fmt.Fprintf(b, "\n## Project Details\n")
	for _, p := range projectOrder(in) {
		fmt.Fprintf(b, "\n### %s\n\n", p)
		g := in.Agg.Group(p)
		if g == nil || g.Count == 0 {
			fmt.Fprintf(b, "No issues closed this period.\n")
			continue
		}
		fmt.Fprintf(b, "| Issue Key | Summary | Resolution Date |\n")
		fmt.Fprintf(b, "|-----------|---------|-----------------|\n")
		for _, is := range g.Issues {
			resolved := ""
			if is.ResolvedAt != nil {
				resolved = is.ResolvedAt.Format("2006-01-02")
			}
			fmt.Fprintf(b, "| %s | %s | %s |\n", is.Key, escapeCell(is.Summary), resolved)
		}
	}

	if len(in.Diags) > 0 {
		fmt.Fprintf(b, "\n## Data Quality\n\n")
		fmt.Fprintf(b, "%d record(s) had unparseable resolution timestamps and were excluded:\n\n", len(in.Diags))
		for _, d := range in.Diags {
			fmt.Fprintf(b, "- %s: %q (%s)\n", d.RecordKey, d.RawValue, d.Reason)
		}
	}
	return b.String()
}

// projectOrder merges the requested list with any observed-but-unrequested
// projects, keeping the caller's order first.
func projectOrder(in RenderInput) []string {
	if len(in.Projects) == 0 {
		out := make([]string, 0, len(in.Agg.Projects))
		for _, g := range in.Agg.Projects {
			out = append(out, g.Project)
		}
		return out
	}
	seen := map[string]bool{}
	out := make([]string, 0, len(in.Projects))
	for _, p := range in.Projects {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	for _, g := range in.Agg.Projects {
		if !seen[g.Project] {
			seen[g.Project] = true
			out = append(out, g.Project)
		}
	}
	return out
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}
