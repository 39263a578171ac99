package report

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/redhat-ai-tools/jira-report-agent/internal/domain"
)

func tptr(t time.Time) *time.Time { return &t }

func TestNewFilterWindow_RejectsNonPositiveLookback(t *testing.T) {
	for _, days := range []int{0, -1, -30} {
		if _, err := NewFilterWindow(time.Unix(1700000000, 0), days); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("lookback %d: expected ErrInvalidArgument, got %v", days, err)
		}
	}
}

func TestFilterRecent_BoundaryInclusion(t *testing.T) {
	ref := time.Unix(1700000000, 0).UTC()
	w, err := NewFilterWindow(ref, 7)
	if err != nil {
		t.Fatalf("window: %v", err)
	}
	lower := ref.Add(-7 * 24 * time.Hour)
	records := []domain.IssueRecord{
		{Key: "AT-LOWER", ResolvedAt: tptr(lower)},
		{Key: "BELOW-LOWER", ResolvedAt: tptr(lower.Add(-time.Second))},
		{Key: "AT-REF", ResolvedAt: tptr(ref)},
		{Key: "ABOVE-REF", ResolvedAt: tptr(ref.Add(time.Second))},
		{Key: "INSIDE", ResolvedAt: tptr(ref.Add(-3 * 24 * time.Hour))},
	}
	out, err := FilterRecent(records, w)
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	var keys []string
	for _, r := range out {
		keys = append(keys, r.Key)
	}
	want := []string{"AT-LOWER", "AT-REF", "INSIDE"}
	if !reflect.DeepEqual(keys, want) {
		t.Fatalf("expected %v, got %v", want, keys)
	}
}

func TestFilterRecent_PureAndOrderPreserving(t *testing.T) {
	ref := time.Unix(1700000000, 0).UTC()
	w, _ := NewFilterWindow(ref, 30)
	records := []domain.IssueRecord{
		{Key: "C-3", Project: "C", ResolvedAt: tptr(ref.Add(-time.Hour))},
		{Key: "A-1", Project: "A", ResolvedAt: tptr(ref.Add(-2 * time.Hour))},
		{Key: "B-9", Project: "B"},
		{Key: "A-2", Project: "A", ResolvedAt: tptr(ref.Add(-3 * time.Hour))},
	}
	before := make([]domain.IssueRecord, len(records))
	copy(before, records)

	first, err := FilterRecent(records, w)
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	second, err := FilterRecent(records, w)
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("same inputs produced different outputs:\n%v\n%v", first, second)
	}
	if !reflect.DeepEqual(records, before) {
		t.Fatalf("input records were mutated")
	}
	var keys []string
	for _, r := range first {
		keys = append(keys, r.Key)
	}
	want := []string{"C-3", "A-1", "A-2"}
	if !reflect.DeepEqual(keys, want) {
		t.Fatalf("order not preserved: expected %v, got %v", want, keys)
	}
}

func TestFilterRecent_NilInput(t *testing.T) {
	w, _ := NewFilterWindow(time.Unix(1700000000, 0), 7)
	if _, err := FilterRecent(nil, w); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for nil input, got %v", err)
	}
}

func TestFilterRecent_UnresolvedExcludedSilently(t *testing.T) {
	w, _ := NewFilterWindow(time.Unix(1700000000, 0).UTC(), 7)
	out, err := FilterRecent([]domain.IssueRecord{{Key: "A-1", Project: "A"}}, w)
	if err != nil {
		t.Fatalf("unresolved record must not be a filter error: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("unresolved record must be excluded, got %v", out)
	}
}
