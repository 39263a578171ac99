package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/redhat-ai-tools/jira-report-agent/internal/config"
)

type fakeService struct{ runs int }

func (f *fakeService) RunMonthlyReport(ctx context.Context) error {
	f.runs++
	return nil
}

func TestLocation_FallsBackToUTC(t *testing.T) {
	if loc := location("Not/AZone"); loc != time.UTC {
		t.Fatalf("expected UTC fallback, got %v", loc)
	}
	if loc := location("Europe/Berlin"); loc == nil || loc == time.UTC {
		t.Fatalf("valid zone must load, got %v", loc)
	}
}

func TestMonthly_RunsWithoutLock(t *testing.T) {
	cfg := config.Config{TZ: "Not/AZone", ReportCron: "0 9 1 * *"}
	svc := &fakeService{}
	cr := New(cfg, zerolog.Nop(), svc, nil)
	cr.monthly()
	if svc.runs != 1 {
		t.Fatalf("expected one run, got %d", svc.runs)
	}
}
