package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/redhat-ai-tools/jira-report-agent/internal/collector"
	"github.com/redhat-ai-tools/jira-report-agent/internal/config"
	"github.com/redhat-ai-tools/jira-report-agent/internal/domain"
	"github.com/redhat-ai-tools/jira-report-agent/internal/report"
)

type LLM interface {
	Name() string
	Summarize(ctx context.Context, agg report.Aggregate) (string, error)
}

type Notifier interface {
	SendMessagePlain(ctx context.Context, chatID int64, text string) error
}

// Store is the optional persistence surface; the service runs stateless
// when it is nil.
type Store interface {
	UpsertSnapshots(ctx context.Context, issues []domain.IssueRecord) error
	ListSnapshots(ctx context.Context, project string, limit int) ([]domain.IssueRecord, error)
	StartReportRun(ctx context.Context, projects string) (int64, error)
	FinishReportRun(ctx context.Context, id int64, issuesTotal int, success bool, errStr string) error
	GetLastRun(ctx context.Context) (*domain.ReportRun, error)
}

type Service struct {
	cfg   config.Config
	log   zerolog.Logger
	src   collector.Collector
	llm   LLM
	tg    Notifier
	store Store
	now   func() time.Time
}

func New(cfg config.Config, log zerolog.Logger, src collector.Collector, llm LLM, tg Notifier, store Store) *Service {
	return &Service{cfg: cfg, log: log, src: src, llm: llm, tg: tg, store: store, now: time.Now}
}

// WithClock replaces the service clock; report generation itself never
// reads the system clock directly.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// ErrAllFetchesFailed reports a collection where no project could be
// fetched and no cached snapshots were available to fall back on. The
// run must not produce a report claiming zero closed issues.
var ErrAllFetchesFailed = errors.New("all project fetches failed")

// collectIssues fetches raw records for every configured project in
// order. A failed fetch falls back to cached snapshots when a store is
// available; a project with no data contributes nothing, not an error.
func (s *Service) collectIssues(ctx context.Context) ([]domain.IssueRecord, int) {
	var all []domain.IssueRecord
	failed := 0
	for _, project := range s.cfg.Projects {
		issues, err := s.src.FetchIssues(ctx, project, s.cfg.ClosedStatus, s.cfg.FetchLimit)
		if err != nil {
			failed++
			s.log.Error().Err(err).Str("project", project).Msg("fetch failed")
			if s.store != nil {
				cached, cerr := s.store.ListSnapshots(ctx, project, s.cfg.FetchLimit)
				if cerr != nil {
					s.log.Error().Err(cerr).Str("project", project).Msg("snapshot fallback failed")
					continue
				}
				s.log.Info().Str("project", project).Int("cached", len(cached)).Msg("using cached snapshots")
				all = append(all, cached...)
			}
			continue
		}
		s.log.Info().Str("project", project).Int("issues", len(issues)).Msg("fetched issues")
		all = append(all, issues...)
	}
	return all, failed
}

// BuildReport runs the synchronous pipeline: collect, normalize
// timestamps, filter by the lookback window, aggregate per project.
func (s *Service) BuildReport(ctx context.Context, days int) (report.Aggregate, []report.Diagnostic, error) {
	window, err := report.NewFilterWindow(s.now().UTC(), days)
	if err != nil {
		return report.Aggregate{}, nil, err
	}
	raw, failed := s.collectIssues(ctx)
	if failed > 0 && failed == len(s.cfg.Projects) && len(raw) == 0 {
		return report.Aggregate{}, nil, fmt.Errorf("%w: %d project(s)", ErrAllFetchesFailed, failed)
	}
	if raw == nil {
		raw = []domain.IssueRecord{}
	}
	normalized, diags := report.NormalizeTimestamps(raw)
	for _, d := range diags {
		s.log.Warn().Str("key", d.RecordKey).Str("raw", d.RawValue).Str("reason", d.Reason).Msg("unparseable resolution timestamp")
	}
	filtered, err := report.FilterRecent(normalized, window)
	if err != nil {
		return report.Aggregate{}, nil, err
	}
	agg, err := report.BuildAggregate(filtered, window, s.now)
	if err != nil {
		return report.Aggregate{}, nil, err
	}
	if s.store != nil {
		if err := s.store.UpsertSnapshots(ctx, normalized); err != nil {
			s.log.Error().Err(err).Msg("snapshot upsert failed")
		}
	}
	return agg, diags, nil
}

// RunMonthlyReport is the full job: build the aggregate, render Markdown
// (with an LLM executive summary when a provider is configured), write
// the report file, and deliver to Telegram.
func (s *Service) RunMonthlyReport(ctx context.Context) error {
	var runID int64
	if s.store != nil {
		id, err := s.store.StartReportRun(ctx, strings.Join(s.cfg.Projects, ","))
		if err != nil {
			s.log.Error().Err(err).Msg("start report run failed")
		} else {
			runID = id
		}
	}
	total := 0
	var runErr error
	defer func() {
		if s.store != nil && runID != 0 {
			errStr := ""
			if runErr != nil {
				errStr = runErr.Error()
			}
			_ = s.store.FinishReportRun(context.WithoutCancel(ctx), runID, total, runErr == nil, errStr)
		}
	}()

	agg, diags, err := s.BuildReport(ctx, s.cfg.LookbackDays)
	if err != nil {
		runErr = err
		return err
	}
	total = agg.TotalCount

	md := report.RenderMarkdown(report.RenderInput{
		Agg:      agg,
		Projects: s.cfg.Projects,
		Source:   s.sourceLabel(),
		Summary:  s.summarize(ctx, agg),
		Diags:    diags,
	})

	path, err := s.writeReport(md, agg.GeneratedAt)
	if err != nil {
		runErr = err
		return err
	}
	s.log.Info().Str("path", path).Int("issues", total).Msg("report written")

	if s.tg != nil {
		for _, chat := range s.cfg.TelegramChatIDs {
			for _, part := range chunkText(md, 3500) {
				if err := s.tg.SendMessagePlain(ctx, chat, part); err != nil {
					s.log.Error().Err(err).Int64("chat", chat).Msg("telegram send failed")
				}
			}
		}
	}
	return nil
}

// summarize asks the configured LLM for the executive-summary prose. A
// provider failure degrades to the deterministic renderer output.
func (s *Service) summarize(ctx context.Context, agg report.Aggregate) string {
	if s.llm == nil {
		return ""
	}
	ctx2, cancel := context.WithTimeout(ctx, s.cfg.LLMTimeout)
	defer cancel()
	out, err := s.llm.Summarize(ctx2, agg)
	if err != nil {
		s.log.Error().Err(err).Str("provider", s.llm.Name()).Msg("llm summary failed; using counts only")
		return ""
	}
	return out
}

func (s *Service) sourceLabel() string {
	if s.cfg.SourceLabel != "" {
		return s.cfg.SourceLabel
	}
	return s.src.Name()
}

func (s *Service) writeReport(md string, generatedAt time.Time) (string, error) {
	if err := os.MkdirAll(s.cfg.ReportsDir, 0o755); err != nil {
		return "", err
	}
	name := fmt.Sprintf("monthly_jira_report_%s.md", generatedAt.Format("2006-01-02"))
	path := filepath.Join(s.cfg.ReportsDir, name)
	if err := os.WriteFile(path, []byte(md), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func (s *Service) GetLastRun(ctx context.Context) (*domain.ReportRun, error) {
	if s.store == nil {
		return nil, errors.New("no database configured")
	}
	return s.store.GetLastRun(ctx)
}

// chunkText splits text into pieces that fit a Telegram message.
func chunkText(text string, max int) []string {
	if max <= 0 || len(text) <= max {
		return []string{text}
	}
	var parts []string
	for len(text) > max {
		cut := strings.LastIndex(text[:max], "\n")
		if cut <= 0 {
			cut = max
		}
		parts = append(parts, text[:cut])
		text = strings.TrimPrefix(text[cut:], "\n")
	}
	if text != "" {
		parts = append(parts, text)
	}
	return parts
}
