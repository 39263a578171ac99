package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redhat-ai-tools/jira-report-agent/internal/adapters/gemini"
	"github.com/redhat-ai-tools/jira-report-agent/internal/adapters/mcpjira"
	"github.com/redhat-ai-tools/jira-report-agent/internal/adapters/openai"
	"github.com/redhat-ai-tools/jira-report-agent/internal/adapters/telegram"
	"github.com/redhat-ai-tools/jira-report-agent/internal/collector"
	"github.com/redhat-ai-tools/jira-report-agent/internal/config"
	httpapi "github.com/redhat-ai-tools/jira-report-agent/internal/http"
	"github.com/redhat-ai-tools/jira-report-agent/internal/jobs"
	"github.com/redhat-ai-tools/jira-report-agent/internal/logger"
	"github.com/redhat-ai-tools/jira-report-agent/internal/repo"
	"github.com/redhat-ai-tools/jira-report-agent/internal/services"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB is optional; without it the service runs stateless.
	var store services.Store
	var lock *repo.Repository
	if cfg.DBDSN != "" {
		db, err := repo.Open(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("db connect failed")
		}
		defer db.Close()
		r := repo.NewRepository(db, log)
		store = r
		lock = r
	}

	// Issue source: live MCP server when configured, embedded sample
	// data otherwise.
	var src collector.Collector
	if cfg.MCPBaseURL != "" {
		mc := mcpjira.NewClient(cfg, log)
		defer mc.Close()
		src = mc
	} else {
		st, err := collector.NewStatic(log)
		if err != nil {
			log.Fatal().Err(err).Msg("static collector init failed")
		}
		log.Warn().Msg("no MCP_BASE_URL configured; using embedded sample data")
		src = st
	}

	var llm services.LLM
	switch cfg.LLMProvider {
	case "openai":
		llm = openai.NewClient(cfg, log)
	case "gemini":
		llm = gemini.NewClient(cfg, log)
	case "none", "":
		log.Info().Msg("no LLM provider configured; reports use counts only")
	default:
		log.Fatal().Str("provider", cfg.LLMProvider).Msg("unsupported LLM provider")
	}

	var tg services.Notifier
	if cfg.TelegramToken != "" {
		tg = telegram.NewClient(cfg, log)
	}

	svc := services.New(cfg, log, src, llm, tg, store)

	router := httpapi.NewRouter(cfg, log, svc)

	var cr *jobs.Cron
	if lock != nil {
		cr = jobs.New(cfg, log, svc, lock)
	} else {
		cr = jobs.New(cfg, log, svc, nil)
	}
	cr.Start()
	defer cr.Stop()

	errCh := make(chan error, 1)
	go func() { errCh <- router.Run(cfg.HTTPAddr) }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		log.Info().Msg("shutting down...")
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("http server error")
		}
	}

	time.Sleep(500 * time.Millisecond)
}
