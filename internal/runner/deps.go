package runner

import (
	"context"
	"time"

	"github.com/jonmartinstorm/reposjekk/internal/analyzer"
	"github.com/jonmartinstorm/reposjekk/internal/collector"
	"github.com/jonmartinstorm/reposjekk/internal/models"
)

// RepoProvider gir metadata fra GitHub.
type RepoProvider interface {
	ListOrgRepos(ctx context.Context, org string) ([]models.RepoMeta, error)
	GetRepo(ctx context.Context, owner, name string) (models.RepoMeta, error)
	Contributors(ctx context.Context, owner, name string) ([]string, error)
}

// Project er cachekatalogen til ett repo, se projectcache.Project.
type Project interface {
	analyzer.SourceControl
	CloneOrUpdate(ctx context.Context, url string) (bool, error)
	LastCommitDate(ctx context.Context) (time.Time, error)
	RepoPath() string
	ShouldSkip(changed, force bool) bool
	Save(analysis models.ProjectAnalysis) error
	Remove() error
}

type ProjectFactory func(fullName string) Project

type ContentCollector interface {
	Collect(root string) (collector.Content, error)
}

type Analyzers interface {
	AnalyzeReadme(ctx context.Context, scm analyzer.SourceControl, readme *collector.File) (models.ReadmeAnalysis, float64)
	AnalyzeLicense(ctx context.Context, scm analyzer.SourceControl, license *collector.File) models.LicenseAnalysis
	AnalyzeCode(ctx context.Context, scm analyzer.SourceControl, files []collector.File) ([]models.CodeDocumentationAnalysis, float64)
}

type Scorer interface {
	Score(readme models.ReadmeAnalysis, license models.LicenseAnalysis, code []models.CodeDocumentationAnalysis) models.GlobalQualityScores
}

// RowWriter eksporterer rapportradene til en database.
type RowWriter interface {
	ImportRows(ctx context.Context, rows []models.ReportRow, snapshot time.Time) error
	Close() error
}

type Deps struct {
	Repos     RepoProvider
	Projects  ProjectFactory
	Collector ContentCollector
	Analyzers Analyzers
	Scorer    Scorer
}
