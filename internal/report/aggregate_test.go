package report

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/redhat-ai-tools/jira-report-agent/internal/domain"
)

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func TestBuildAggregate_CountInvariant(t *testing.T) {
	ref := time.Unix(1700000000, 0).UTC()
	w, _ := NewFilterWindow(ref, 30)
	records := []domain.IssueRecord{
		{Key: "A-1", Project: "A"}, {Key: "B-1", Project: "B"}, {Key: "A-2", Project: "A"},
		{Key: "C-1", Project: "C"}, {Key: "B-2", Project: "B"}, {Key: "A-3", Project: "A"},
	}
	agg, err := BuildAggregate(records, w, fixedClock(ref))
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	sum := 0
	for _, g := range agg.Projects {
		if g.Count != len(g.Issues) {
			t.Fatalf("project %s: count %d != issues %d", g.Project, g.Count, len(g.Issues))
		}
		sum += g.Count
	}
	if sum != agg.TotalCount || agg.TotalCount != len(records) {
		t.Fatalf("count invariant broken: sum=%d total=%d n=%d", sum, agg.TotalCount, len(records))
	}
}

func TestBuildAggregate_FirstSeenProjectOrder(t *testing.T) {
	ref := time.Unix(1700000000, 0).UTC()
	w, _ := NewFilterWindow(ref, 30)
	records := []domain.IssueRecord{
		{Key: "ZED-1", Project: "ZED"},
		{Key: "ALPHA-1", Project: "ALPHA"},
		{Key: "ZED-2", Project: "ZED"},
		{Key: "MID-1", Project: "MID"},
	}
	agg, err := BuildAggregate(records, w, fixedClock(ref))
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	var order []string
	for _, g := range agg.Projects {
		order = append(order, g.Project)
	}
	want := []string{"ZED", "ALPHA", "MID"}
	if !reflect.DeepEqual(order, want) {
		t.Fatalf("expected first-seen order %v, got %v", want, order)
	}
	if g := agg.Group("ZED"); g == nil || g.Issues[0].Key != "ZED-1" || g.Issues[1].Key != "ZED-2" {
		t.Fatalf("in-group order not preserved: %+v", g)
	}
	if agg.Group("ABSENT") != nil {
		t.Fatalf("absent project must not be synthesized")
	}
}

func TestBuildAggregate_GeneratedAtFromCallerClock(t *testing.T) {
	ref := time.Unix(1700000000, 0).UTC()
	stamp := time.Unix(1234567890, 0).UTC()
	w, _ := NewFilterWindow(ref, 7)
	agg, err := BuildAggregate([]domain.IssueRecord{}, w, fixedClock(stamp))
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if !agg.GeneratedAt.Equal(stamp) {
		t.Fatalf("expected generated_at %v, got %v", stamp, agg.GeneratedAt)
	}
}

func TestBuildAggregate_InvalidArguments(t *testing.T) {
	ref := time.Unix(1700000000, 0).UTC()
	w, _ := NewFilterWindow(ref, 7)
	if _, err := BuildAggregate(nil, w, fixedClock(ref)); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("nil records: expected ErrInvalidArgument, got %v", err)
	}
	if _, err := BuildAggregate([]domain.IssueRecord{}, w, nil); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("nil clock: expected ErrInvalidArgument, got %v", err)
	}
	if _, err := BuildAggregate([]domain.IssueRecord{}, FilterWindow{}, fixedClock(ref)); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("zero window: expected ErrInvalidArgument, got %v", err)
	}
}

// End-to-end over the three stages with the documented sample inputs.
func TestPipeline_SevenDayScenario(t *testing.T) {
	records := []domain.IssueRecord{
		{Key: "A-1", Project: "A", ResolutionRaw: "1700000000.0 1440"},
		{Key: "A-2", Project: "A", ResolutionRaw: "1650000000.0 1440"},
		{Key: "B-1", Project: "B", ResolutionRaw: "1695000000.0 1440"},
	}
	normalized, diags := NormalizeTimestamps(records)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", diags)
	}
	ref := time.Unix(1700000000, 0).UTC()
	w, err := NewFilterWindow(ref, 7)
	if err != nil {
		t.Fatalf("window: %v", err)
	}
	filtered, err := FilterRecent(normalized, w)
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	agg, err := BuildAggregate(filtered, w, fixedClock(ref))
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	// A-1 resolved exactly at the reference (delta 0) is included; A-2
	// and B-1 are weeks out of the window.
	if agg.TotalCount != 1 {
		t.Fatalf("expected total 1, got %d", agg.TotalCount)
	}
	g := agg.Group("A")
	if g == nil || g.Count != 1 || g.Issues[0].Key != "A-1" {
		t.Fatalf("expected project A with only A-1, got %+v", agg.Projects)
	}
	if agg.Group("B") != nil {
		t.Fatalf("project B had no in-window issues and must be absent")
	}
}
