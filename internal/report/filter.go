package report

import (
	"errors"
	"fmt"
	"time"

	"github.com/redhat-ai-tools/jira-report-agent/internal/domain"
)

// ErrInvalidArgument marks caller errors: the call fails as a whole and
// nothing is partially executed.
var ErrInvalidArgument = errors.New("invalid argument")

// FilterWindow is the trailing interval [Reference - LookbackDays*24h,
// Reference], inclusive of both bounds. Immutable once constructed.
type FilterWindow struct {
	Reference    time.Time `json:"reference"`
	LookbackDays int       `json:"lookback_days"`
}

func NewFilterWindow(reference time.Time, lookbackDays int) (FilterWindow, error) {
	if lookbackDays <= 0 {
		return FilterWindow{}, fmt.Errorf("%w: lookback days must be positive, got %d", ErrInvalidArgument, lookbackDays)
	}
	return FilterWindow{Reference: reference, LookbackDays: lookbackDays}, nil
}

// Start is the inclusive lower bound of the window.
func (w FilterWindow) Start() time.Time {
	return w.Reference.Add(-time.Duration(w.LookbackDays) * 24 * time.Hour)
}

func (w FilterWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start()) && !t.After(w.Reference)
}

// FilterRecent returns the subsequence of records whose ResolvedAt falls
// inside the window, preserving the input's relative order. Records
// without a parsed resolution time are skipped silently. The filter is
// pure: input records are never mutated.
func FilterRecent(records []domain.IssueRecord, w FilterWindow) ([]domain.IssueRecord, error) {
	if records == nil {
		return nil, fmt.Errorf("%w: nil record sequence", ErrInvalidArgument)
	}
	if w.LookbackDays <= 0 {
		return nil, fmt.Errorf("%w: filter window has non-positive lookback", ErrInvalidArgument)
	}
	out := make([]domain.IssueRecord, 0, len(records))
	for _, r := range records {
		if r.ResolvedAt == nil {
			continue
		}
		if w.Contains(*r.ResolvedAt) {
			out = append(out, r)
		}
	}
	return out, nil
}
