package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/redhat-ai-tools/jira-report-agent/internal/config"
)

type service interface {
	RunMonthlyReport(ctx context.Context) error
}

type locker interface {
	TryAdvisoryLock(ctx context.Context, key int64) (bool, error)
	AdvisoryUnlock(ctx context.Context, key int64) error
}

type Cron struct {
	cfg  config.Config
	log  zerolog.Logger
	svc  service
	lock locker
	c    *cron.Cron
}

// New schedules the monthly report run. lock may be nil (no database);
// then the run is unguarded, which is fine for a single instance.
func New(cfg config.Config, log zerolog.Logger, svc service, lock locker) *Cron {
	c := cron.New(cron.WithLocation(location(cfg.TZ)), cron.WithParser(cron.NewParser(cron.Minute|cron.Hour|cron.Dom|cron.Month|cron.Dow)))
	cr := &Cron{cfg: cfg, log: log, svc: svc, lock: lock, c: c}
	_, _ = c.AddFunc(cfg.ReportCron, cr.monthly)
	return cr
}

// location never returns nil; the scheduler panics on a nil location.
func location(tz string) *time.Location {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (cr *Cron) Start() { cr.c.Start() }
func (cr *Cron) Stop()  { cr.c.Stop() }

func (cr *Cron) monthly() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	const lockKey int64 = 732901
	if cr.lock != nil {
		ok, err := cr.lock.TryAdvisoryLock(ctx, lockKey)
		if err != nil {
			cr.log.Error().Err(err).Msg("cron: lock error")
			return
		}
		if !ok {
			cr.log.Info().Msg("cron: already running elsewhere")
			return
		}
		defer func() { _ = cr.lock.AdvisoryUnlock(context.Background(), lockKey) }()
	}
	cr.log.Info().Msg("cron: monthly report")
	if err := cr.svc.RunMonthlyReport(ctx); err != nil {
		cr.log.Error().Err(err).Msg("cron: report failed")
	}
}
