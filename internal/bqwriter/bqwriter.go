package bqwriter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/jonmartinstorm/reposjekk/internal/config"
	"github.com/jonmartinstorm/reposjekk/internal/models"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

type BigQueryWriter struct {
	Client  *bigquery.Client
	Dataset string
	Table   string
}

func NewBigQueryWriter(ctx context.Context, cfg config.Config) (*BigQueryWriter, error) {
	var opts []option.ClientOption
	if cfg.BQCredentials != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.BQCredentials))
	}

	client, err := bigquery.NewClient(ctx, cfg.BQProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("kan ikke opprette BigQuery-klient: %w", err)
	}

	if err := ensureTableExists(ctx, client, cfg.BQDataset, cfg.BQTable, BGScoreRow{}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("kunne ikke sikre tabell %s: %w", cfg.BQTable, err)
	}

	return &BigQueryWriter{
		Client:  client,
		Dataset: cfg.BQDataset,
		Table:   cfg.BQTable,
	}, nil
}

func (w *BigQueryWriter) ImportRows(ctx context.Context, rows []models.ReportRow, snapshot time.Time) error {
	bg := ConvertRows(rows, snapshot)
	if err := insert(ctx, w.Client, w.Dataset, w.Table, bg); err != nil {
		return fmt.Errorf("%s insert failed: %w", w.Table, err)
	}
	slog.Info("Scorer skrevet til BigQuery", "tabell", w.Dataset+"."+w.Table, "rader", len(bg))
	return nil
}

func (w *BigQueryWriter) Close() error {
	return w.Client.Close()
}

func insert[T any](ctx context.Context, client *bigquery.Client, dataset, table string, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	inserter := client.Dataset(dataset).Table(table).Inserter()
	return inserter.Put(ctx, rows)
}

type BGScoreRow struct {
	Repo               string    `bigquery:"repo"`
	WhenCollected      time.Time `bigquery:"when_collected"`
	URL                string    `bigquery:"url"`
	Language           string    `bigquery:"language"`
	Contributors       []string  `bigquery:"contributors"`
	OverallScore       float64   `bigquery:"overall_score"`
	NormalizedScore    float64   `bigquery:"normalized_score"`
	SetupScore         float64   `bigquery:"setup_score"`
	ReadmeScore        float64   `bigquery:"readme_score"`
	LicenseScore       float64   `bigquery:"license_score"`
	APIDocsScore       float64   `bigquery:"api_docs_score"`
	CodeCommentsScore  float64   `bigquery:"code_comments_score"`
	HasLicense         bool      `bigquery:"has_license"`
	LicenseBSD3        bool      `bigquery:"license_bsd3"`
	LicenseHHMI        bool      `bigquery:"license_hhmi"`
	LicenseCurrentYear bool      `bigquery:"license_current_year"`
	LastCommitDate     time.Time `bigquery:"last_commit_date"`
	Stars              int64     `bigquery:"stars"`
	Forks              int64     `bigquery:"forks"`
}

func ConvertToBG(r models.ReportRow, snapshot time.Time) BGScoreRow {
	return BGScoreRow{
		Repo:               r.Repo,
		WhenCollected:      snapshot,
		URL:                r.URL,
		Language:           r.Language,
		Contributors:       r.Contributors,
		OverallScore:       r.OverallScore,
		NormalizedScore:    r.NormalizedScore,
		SetupScore:         r.SetupScore,
		ReadmeScore:        r.ReadmeScore,
		LicenseScore:       r.LicenseScore,
		APIDocsScore:       r.APIDocsScore,
		CodeCommentsScore:  r.CodeCommentsScore,
		HasLicense:         r.HasLicense,
		LicenseBSD3:        r.LicenseIsBSD3Clause,
		LicenseHHMI:        r.LicenseIsHHMI,
		LicenseCurrentYear: r.LicenseIsCurrent,
		LastCommitDate:     r.LastCommitDate,
		Stars:              int64(r.Stars),
		Forks:              int64(r.Forks),
	}
}

func ConvertRows(rows []models.ReportRow, snapshot time.Time) []BGScoreRow {
	out := make([]BGScoreRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, ConvertToBG(r, snapshot))
	}
	return out
}

func ensureTableExists(ctx context.Context, client *bigquery.Client, dataset, table string, exampleStruct any) error {
	tbl := client.Dataset(dataset).Table(table)
	_, err := tbl.Metadata(ctx)
	if err == nil {
		return nil // tabellen finnes
	}

	var gErr *googleapi.Error
	if !errors.As(err, &gErr) || gErr.Code != 404 {
		return fmt.Errorf("feil ved henting av tabell-metadata: %w", err)
	}

	schema, err := bigquery.InferSchema(exampleStruct)
	if err != nil {
		return fmt.Errorf("klarte ikke å generere schema for %s: %w", table, err)
	}

	if err := tbl.Create(ctx, &bigquery.TableMetadata{Schema: schema}); err != nil {
		return fmt.Errorf("klarte ikke å opprette tabell %s: %w", table, err)
	}

	slog.Info("Opprettet BigQuery-tabell", "tabell", dataset+"."+table)
	return nil
}
