package dbwriter

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonmartinstorm/reposjekk/internal/models"
	"github.com/lib/pq"
)

const createScoresTable = `
CREATE TABLE IF NOT EXISTS repo_scores (
    repo                 TEXT        NOT NULL,
    hentet_dato          TIMESTAMPTZ NOT NULL,
    url                  TEXT        NOT NULL,
    language             TEXT        NOT NULL DEFAULT '',
    contributors         TEXT[]      NOT NULL DEFAULT '{}',
    overall_score        DOUBLE PRECISION NOT NULL,
    normalized_score     DOUBLE PRECISION NOT NULL,
    setup_score          DOUBLE PRECISION NOT NULL,
    readme_score         DOUBLE PRECISION NOT NULL,
    license_score        DOUBLE PRECISION NOT NULL,
    api_docs_score       DOUBLE PRECISION NOT NULL,
    code_comments_score  DOUBLE PRECISION NOT NULL,
    has_license          BOOLEAN     NOT NULL,
    license_bsd3         BOOLEAN     NOT NULL,
    license_hhmi         BOOLEAN     NOT NULL,
    license_current_year BOOLEAN     NOT NULL,
    last_commit_date     TIMESTAMPTZ,
    stars                INTEGER     NOT NULL,
    forks                INTEGER     NOT NULL,
    PRIMARY KEY (repo, hentet_dato)
)`

const upsertScore = `
INSERT INTO repo_scores (
    repo, hentet_dato, url, language, contributors,
    overall_score, normalized_score, setup_score, readme_score, license_score, api_docs_score, code_comments_score,
    has_license, license_bsd3, license_hhmi, license_current_year,
    last_commit_date, stars, forks
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
ON CONFLICT (repo, hentet_dato) DO UPDATE SET
    url = EXCLUDED.url,
    language = EXCLUDED.language,
    contributors = EXCLUDED.contributors,
    overall_score = EXCLUDED.overall_score,
    normalized_score = EXCLUDED.normalized_score,
    setup_score = EXCLUDED.setup_score,
    readme_score = EXCLUDED.readme_score,
    license_score = EXCLUDED.license_score,
    api_docs_score = EXCLUDED.api_docs_score,
    code_comments_score = EXCLUDED.code_comments_score,
    has_license = EXCLUDED.has_license,
    license_bsd3 = EXCLUDED.license_bsd3,
    license_hhmi = EXCLUDED.license_hhmi,
    license_current_year = EXCLUDED.license_current_year,
    last_commit_date = EXCLUDED.last_commit_date,
    stars = EXCLUDED.stars,
    forks = EXCLUDED.forks`

type PostgresWriter struct {
	DB *sql.DB
}

func NewPostgresWriter(postgresdsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", postgresdsn)
	if err != nil {
		slog.Error("Kunne ikke åpne PostgreSQL-database", "error", err)
		return nil, fmt.Errorf("kunne ikke åpne PostgreSQL-database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(10 * time.Minute)

	return &PostgresWriter{DB: db}, nil
}

func (p *PostgresWriter) EnsureSchema(ctx context.Context) error {
	if _, err := p.DB.ExecContext(ctx, createScoresTable); err != nil {
		return fmt.Errorf("kunne ikke opprette repo_scores: %w", err)
	}
	return nil
}

// ImportRows skriver hver rad for seg. Feil på enkeltrader logges og hoppes over.
func (p *PostgresWriter) ImportRows(ctx context.Context, rows []models.ReportRow, snapshotDate time.Time) error {
	if err := p.EnsureSchema(ctx); err != nil {
		return err
	}

	written := 0
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := p.DB.ExecContext(ctx, upsertScore, ScoreArgs(row, snapshotDate)...); err != nil {
			slog.Warn("Kunne ikke skrive score", "repo", row.Repo, "error", err)
			continue
		}
		written++
	}

	slog.Info("Scorer skrevet til PostgreSQL", "rader", written, "totalt", len(rows))
	if written == 0 && len(rows) > 0 {
		return fmt.Errorf("ingen av %d rader ble skrevet", len(rows))
	}
	return nil
}

func (p *PostgresWriter) Close() error {
	return p.DB.Close()
}

// ScoreArgs er argumentene til upsert i samme rekkefølge som kolonnene.
func ScoreArgs(row models.ReportRow, snapshotDate time.Time) []any {
	return []any{
		row.Repo,
		snapshotDate,
		row.URL,
		row.Language,
		pq.Array(nonNil(row.Contributors)),
		row.OverallScore,
		row.NormalizedScore,
		row.SetupScore,
		row.ReadmeScore,
		row.LicenseScore,
		row.APIDocsScore,
		row.CodeCommentsScore,
		row.HasLicense,
		row.LicenseIsBSD3Clause,
		row.LicenseIsHHMI,
		row.LicenseIsCurrent,
		nullTime(row.LastCommitDate),
		row.Stars,
		row.Forks,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
