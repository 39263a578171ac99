package report

import (
	"fmt"
	"testing"
	"time"

	"github.com/redhat-ai-tools/jira-report-agent/internal/domain"
)

func TestParseResolutionStamp_RoundTrip(t *testing.T) {
	cases := []struct {
		epoch  float64
		marker string
	}{
		{1700000000, "1440"},
		{1749986095.300000000, "1440"},
		{1700000000.25, "1440"},
		{0, "1440"},
		{-86400, "60"},
		{-0.5, "0"},
	}
	for _, tc := range cases {
		raw := fmt.Sprintf("%.9f %s", tc.epoch, tc.marker)
		got, err := ParseResolutionStamp(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		want := time.Unix(0, int64(tc.epoch*1e9))
		delta := got.Sub(want)
		if delta < 0 {
			delta = -delta
		}
		if delta > time.Millisecond {
			t.Fatalf("parse %q: got %v, want %v (delta %v)", raw, got, want, delta)
		}
		if got.Location() != time.UTC {
			t.Fatalf("parse %q: expected UTC, got %v", raw, got.Location())
		}
	}
}

func TestParseResolutionStamp_TrailingMarkerIgnored(t *testing.T) {
	a, err := ParseResolutionStamp("1700000000.0 1440")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := ParseResolutionStamp("1700000000.0 9999 extra tokens")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !a.Equal(b) {
		t.Fatalf("marker should not affect result: %v vs %v", a, b)
	}
	// A missing marker still parses; only the leading token matters
	c, err := ParseResolutionStamp("1700000000.0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !a.Equal(c) {
		t.Fatalf("expected %v, got %v", a, c)
	}
}

func TestParseResolutionStamp_Failures(t *testing.T) {
	for _, raw := range []string{"", "   ", "not-a-number 1440", "NaN 1440", "+Inf 1440", "-Inf 1440"} {
		if _, err := ParseResolutionStamp(raw); err == nil {
			t.Fatalf("expected parse failure for %q", raw)
		}
	}
}

func TestNormalizeTimestamps_MalformedRecordIsolated(t *testing.T) {
	batch := []domain.IssueRecord{
		{Key: "A-1", Project: "A", ResolutionRaw: "1700000000.0 1440"},
		{Key: "A-2", Project: "A", ResolutionRaw: "1700000100.0 1440"},
		{Key: "A-3", Project: "A", ResolutionRaw: "not-a-number 1440"},
		{Key: "B-1", Project: "B", ResolutionRaw: "1700000200.0 1440"},
		{Key: "B-2", Project: "B", ResolutionRaw: "1700000300.0 1440"},
	}
	out, diags := NormalizeTimestamps(batch)
	if len(out) != 5 {
		t.Fatalf("expected all 5 records back, got %d", len(out))
	}
	stamped := 0
	for _, r := range out {
		if r.ResolvedAt != nil {
			stamped++
		}
	}
	if stamped != 4 {
		t.Fatalf("expected 4 stamped records, got %d", stamped)
	}
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(diags))
	}
	if diags[0].RecordKey != "A-3" || diags[0].RawValue != "not-a-number 1440" || diags[0].Reason == "" {
		t.Fatalf("unexpected diagnostic: %+v", diags[0])
	}
	// Input untouched
	for i, r := range batch {
		if r.ResolvedAt != nil {
			t.Fatalf("input record %d was mutated", i)
		}
	}
}

func TestNormalizeTimestamps_MissingRawIsNotADiagnostic(t *testing.T) {
	out, diags := NormalizeTimestamps([]domain.IssueRecord{{Key: "A-1", Project: "A"}})
	if len(diags) != 0 {
		t.Fatalf("unresolved issue must not produce a diagnostic: %+v", diags)
	}
	if out[0].ResolvedAt != nil {
		t.Fatalf("record without raw stamp must stay unresolved")
	}
}
