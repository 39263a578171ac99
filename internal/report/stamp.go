package report

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/redhat-ai-tools/jira-report-agent/internal/domain"
)

// ParseResolutionStamp parses the source's composite timestamp encoding:
// "<epoch-seconds-with-fraction> <marker>". The leading token is seconds
// since the Unix epoch; the trailing marker (1440 in all observed data,
// likely a timezone-offset-minutes field) carries no meaning here and is
// ignored. Negative and zero epochs are valid.
func ParseResolutionStamp(raw string) (time.Time, error) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return time.Time{}, errors.New("empty timestamp")
	}
	secs, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("leading token %q is not a number", fields[0])
	}
	if math.IsNaN(secs) || math.IsInf(secs, 0) {
		return time.Time{}, fmt.Errorf("leading token %q is not a finite number", fields[0])
	}
	sec, frac := math.Modf(secs)
	return time.Unix(int64(sec), int64(frac*1e9)).UTC(), nil
}

// Diagnostic reports one record whose resolution timestamp could not be
// parsed. Diagnostics travel alongside the normalized batch, never
// instead of it.
type Diagnostic struct {
	RecordKey string `json:"record_key"`
	RawValue  string `json:"raw_value"`
	Reason    string `json:"reason"`
}

// NormalizeTimestamps returns a copy of records with ResolvedAt populated
// from ResolutionRaw where it parses, plus a diagnostic per record whose
// raw value is present but malformed. Records with no raw value pass
// through untouched (not resolved, not an error). The input is never
// mutated.
func NormalizeTimestamps(records []domain.IssueRecord) ([]domain.IssueRecord, []Diagnostic) {
	out := make([]domain.IssueRecord, 0, len(records))
	var diags []Diagnostic
	for _, r := range records {
		if r.ResolutionRaw == "" {
			out = append(out, r)
			continue
		}
		t, err := ParseResolutionStamp(r.ResolutionRaw)
		if err != nil {
			diags = append(diags, Diagnostic{RecordKey: r.Key, RawValue: r.ResolutionRaw, Reason: err.Error()})
			r.ResolvedAt = nil
			out = append(out, r)
			continue
		}
		r.ResolvedAt = &t
		out = append(out, r)
	}
	return out, diags
}
