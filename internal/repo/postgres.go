package repo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/redhat-ai-tools/jira-report-agent/internal/config"
	"github.com/redhat-ai-tools/jira-report-agent/internal/domain"
)

type DB struct {
	Pool *pgxpool.Pool
	log  zerolog.Logger
}

func Open(ctx context.Context, cfg config.Config, log zerolog.Logger) (*DB, error) {
	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		return nil, err
	}
	ctx2, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := pool.Ping(ctx2); err != nil {
		pool.Close()
		return nil, err
	}
	return &DB{Pool: pool, log: log}, nil
}

func (d *DB) Close() { d.Pool.Close() }

type Repository struct {
	db  *DB
	log zerolog.Logger
}

func NewRepository(d *DB, log zerolog.Logger) *Repository { return &Repository{db: d, log: log} }

func (r *Repository) TryAdvisoryLock(ctx context.Context, key int64) (bool, error) {
	var ok bool
	err := r.db.Pool.QueryRow(ctx, "SELECT pg_try_advisory_lock($1)", key).Scan(&ok)
	return ok, err
}

func (r *Repository) AdvisoryUnlock(ctx context.Context, key int64) error {
	var ok bool
	err := r.db.Pool.QueryRow(ctx, "SELECT pg_advisory_unlock($1)", key).Scan(&ok)
	if !ok && err == nil {
		return errors.New("advisory unlock returned false")
	}
	return err
}

// UpsertSnapshots stores the raw fetched issues so a report can be
// re-rendered (or previewed) when the MCP source is unreachable.
func (r *Repository) UpsertSnapshots(ctx context.Context, issues []domain.IssueRecord) error {
	if len(issues) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	const q = `
        INSERT INTO issue_snapshots(key, project, issue_type, summary, description, priority,
            status, resolution, created_raw, updated_raw, resolution_raw, resolved_at, fetched_at)
        VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,now())
        ON CONFLICT(key) DO UPDATE SET
            project=EXCLUDED.project,
            issue_type=EXCLUDED.issue_type,
            summary=EXCLUDED.summary,
            description=EXCLUDED.description,
            priority=EXCLUDED.priority,
            status=EXCLUDED.status,
            resolution=EXCLUDED.resolution,
            created_raw=EXCLUDED.created_raw,
            updated_raw=EXCLUDED.updated_raw,
            resolution_raw=EXCLUDED.resolution_raw,
            resolved_at=EXCLUDED.resolved_at,
            fetched_at=now()`
	for _, is := range issues {
		batch.Queue(q, is.Key, is.Project, is.IssueType, is.Summary, is.Description, is.Priority,
			is.Status, is.Resolution, is.CreatedRaw, is.UpdatedRaw, is.ResolutionRaw, is.ResolvedAt)
	}
	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for range issues {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// ListSnapshots returns the cached issues for a project, newest first.
func (r *Repository) ListSnapshots(ctx context.Context, project string, limit int) ([]domain.IssueRecord, error) {
	const q = `SELECT key, project, coalesce(issue_type,''), coalesce(summary,''), coalesce(description,''),
        coalesce(priority,''), coalesce(status,''), coalesce(resolution,''),
        coalesce(created_raw,''), coalesce(updated_raw,''), coalesce(resolution_raw,''), resolved_at
        FROM issue_snapshots WHERE project=$1 ORDER BY resolved_at DESC NULLS LAST LIMIT $2`
	rows, err := r.db.Pool.Query(ctx, q, project, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.IssueRecord
	for rows.Next() {
		var is domain.IssueRecord
		if err := rows.Scan(&is.Key, &is.Project, &is.IssueType, &is.Summary, &is.Description,
			&is.Priority, &is.Status, &is.Resolution,
			&is.CreatedRaw, &is.UpdatedRaw, &is.ResolutionRaw, &is.ResolvedAt); err != nil {
			return nil, err
		}
		out = append(out, is)
	}
	return out, rows.Err()
}

// Report runs
func (r *Repository) StartReportRun(ctx context.Context, projects string) (int64, error) {
	const q = `INSERT INTO report_runs(started_at, projects, success) VALUES(now(), $1, false) RETURNING id`
	var id int64
	if err := r.db.Pool.QueryRow(ctx, q, projects).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *Repository) FinishReportRun(ctx context.Context, id int64, issuesTotal int, success bool, errStr string) error {
	const q = `UPDATE report_runs SET finished_at=now(), issues_total=$2, success=$3, error=$4 WHERE id=$1`
	_, err := r.db.Pool.Exec(ctx, q, id, issuesTotal, success, errStr)
	return err
}

func (r *Repository) GetLastRun(ctx context.Context) (*domain.ReportRun, error) {
	const q = `SELECT id, started_at, finished_at, projects,
        coalesce(issues_total,0), coalesce(success,false), coalesce(error,'')
        FROM report_runs ORDER BY id DESC LIMIT 1`
	row := r.db.Pool.QueryRow(ctx, q)
	run := &domain.ReportRun{}
	if err := row.Scan(&run.ID, &run.StartedAt, &run.FinishedAt, &run.Projects, &run.IssuesTotal, &run.Success, &run.Error); err != nil {
		return nil, err
	}
	return run, nil
}
