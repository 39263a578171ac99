package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/redhat-ai-tools/jira-report-agent/internal/config"
	"github.com/redhat-ai-tools/jira-report-agent/internal/domain"
	"github.com/redhat-ai-tools/jira-report-agent/internal/report"
)

type service interface {
	RunMonthlyReport(ctx context.Context) error
	BuildReport(ctx context.Context, days int) (report.Aggregate, []report.Diagnostic, error)
	GetLastRun(ctx context.Context) (*domain.ReportRun, error)
}

type Handlers struct {
	cfg config.Config
	log zerolog.Logger
	svc service
}

func NewHandlers(cfg config.Config, log zerolog.Logger, svc service) *Handlers {
	return &Handlers{cfg: cfg, log: log, svc: svc}
}

func (h *Handlers) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handlers) LastRun(c *gin.Context) {
	run, err := h.svc.GetLastRun(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, run)
}

func (h *Handlers) RunNow(c *gin.Context) {
	// Detached from the request context so the run survives the response
	go func() { _ = h.svc.RunMonthlyReport(context.Background()) }()
	c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}

// Preview returns the JSON aggregate (plus any data-quality diagnostics)
// without rendering or delivering a report.
func (h *Handlers) Preview(c *gin.Context) {
	days := h.cfg.LookbackDays
	if q := c.Query("days"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be an integer"})
			return
		}
		days = n
	}
	agg, diags, err := h.svc.BuildReport(c.Request.Context(), days)
	if err != nil {
		if errors.Is(err, report.ErrInvalidArgument) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"aggregate": agg, "diagnostics": diags})
}
