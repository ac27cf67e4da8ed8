package report

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/jonmartinstorm/reposjekk/internal/models"
	"golang.org/x/sync/errgroup"
)

const IndexFile = "index.html"

//go:embed templates/*.html.tmpl
var templateFS embed.FS

var funcs = template.FuncMap{
	"scoreColor": func(v float64) template.CSS { return template.CSS(ScoreColor(v)) },
	"score":      formatScore,
	"date":       formatDate,
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"join": strings.Join,
}

// scoreColumns er kolonnene på skalaen 0–5 som fargelegges i indeksen.
var scoreColumns = map[string]bool{
	"Normalized Score":    true,
	"Setup Score":         true,
	"README Score":        true,
	"License Score":       true,
	"API Docs Score":      true,
	"Code Comments Score": true,
}

type HTMLWriter struct {
	index   *template.Template
	repo    *template.Template
	workers int
	now     func() time.Time
}

func NewHTMLWriter() (*HTMLWriter, error) {
	index, err := template.New("index.html.tmpl").Funcs(funcs).ParseFS(templateFS, "templates/index.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("kunne ikke lese indeksmal: %w", err)
	}
	repo, err := template.New("repo.html.tmpl").Funcs(funcs).ParseFS(templateFS, "templates/repo.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("kunne ikke lese repomal: %w", err)
	}
	return &HTMLWriter{index: index, repo: repo, workers: runtime.NumCPU(), now: time.Now}, nil
}

// PageName er filnavnet til detaljsiden, f.eks. owner_repo.html.
func PageName(repoName string) string {
	return strings.ReplaceAll(repoName, "/", "_") + ".html"
}

type cell struct {
	Text   string
	Values []string
	Link   string
	Color  template.CSS
}

type filter struct {
	Column string
	Values []string
}

type indexPage struct {
	Columns   []string
	Filters   []filter
	Rows      [][]cell
	Generated string
}

type repoPage struct {
	Analysis models.ProjectAnalysis
	Row      models.ReportRow
}

// Write skriver én side per repo parallelt og deretter index.html.
func (h *HTMLWriter) Write(ctx context.Context, outputDir string, analyses []models.ProjectAnalysis) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(h.workers, 1))

	for _, a := range analyses {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			path := filepath.Join(outputDir, PageName(a.GithubMetadata.RepoName))
			if err := h.render(h.repo, path, repoPage{Analysis: a, Row: BuildRow(a)}); err != nil {
				return err
			}
			slog.Debug("Skrev rapport for repo", "repo", a.GithubMetadata.RepoName, "fil", path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	rows := make([]models.ReportRow, 0, len(analyses))
	for _, a := range analyses {
		rows = append(rows, BuildRow(a))
	}
	page := buildIndex(rows)
	page.Generated = h.now().Format(time.DateTime)

	path := filepath.Join(outputDir, IndexFile)
	if err := h.render(h.index, path, page); err != nil {
		return err
	}
	slog.Info("HTML-rapport skrevet", "fil", path, "repos", len(rows))
	return nil
}

func (h *HTMLWriter) render(t *template.Template, path string, data any) error {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return fmt.Errorf("kunne ikke rendre %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, []byte(StripEmptyLines(buf.String())), 0o644); err != nil {
		return fmt.Errorf("kunne ikke skrive %s: %w", path, err)
	}
	return nil
}

func buildIndex(rows []models.ReportRow) indexPage {
	page := indexPage{Columns: Columns}

	for _, r := range rows {
		record := Record(r)
		values := cellValues(r)
		cells := make([]cell, len(Columns))
		for i, col := range Columns {
			c := cell{Text: record[i], Values: values[i]}
			switch {
			case col == "Repo":
				c.Link = PageName(r.Repo)
			case col == "URL":
				c.Link = r.URL
			case col == "Contributors":
				c.Text = strings.Join(r.Contributors, ", ")
			case scoreColumns[col]:
				c.Color = template.CSS(ScoreColor(scoreValue(r, col)))
			}
			cells[i] = c
		}
		page.Rows = append(page.Rows, cells)
	}

	distinct := DistinctValues(rows)
	for _, col := range Columns {
		page.Filters = append(page.Filters, filter{Column: col, Values: distinct[col]})
	}
	return page
}

func scoreValue(r models.ReportRow, col string) float64 {
	switch col {
	case "Normalized Score":
		return r.NormalizedScore
	case "Setup Score":
		return r.SetupScore
	case "README Score":
		return r.ReadmeScore
	case "License Score":
		return r.LicenseScore
	case "API Docs Score":
		return r.APIDocsScore
	default:
		return r.CodeCommentsScore
	}
}

// DistinctValues gir per kolonne en tom verdi først og deretter sorterte unike verdier.
// Bidragsytere telles hver for seg.
func DistinctValues(rows []models.ReportRow) map[string][]string {
	seen := make([]map[string]bool, len(Columns))
	for i := range seen {
		seen[i] = map[string]bool{}
	}
	for _, r := range rows {
		for i, values := range cellValues(r) {
			for _, v := range values {
				if v != "" {
					seen[i][v] = true
				}
			}
		}
	}

	out := make(map[string][]string, len(Columns))
	for i, col := range Columns {
		values := make([]string, 0, len(seen[i]))
		for v := range seen[i] {
			values = append(values, v)
		}
		slices.Sort(values)
		out[col] = append([]string{""}, values...)
	}
	return out
}

func cellValues(r models.ReportRow) [][]string {
	record := Record(r)
	out := make([][]string, len(record))
	for i, col := range Columns {
		if col == "Contributors" {
			out[i] = r.Contributors
			continue
		}
		out[i] = []string{record[i]}
	}
	return out
}

func StripEmptyLines(s string) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
