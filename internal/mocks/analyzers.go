package mocks

import (
	"context"

	"github.com/jonmartinstorm/reposjekk/internal/analyzer"
	"github.com/jonmartinstorm/reposjekk/internal/collector"
	"github.com/jonmartinstorm/reposjekk/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockAnalyzers struct {
	mock.Mock
}

func (m *MockAnalyzers) AnalyzeReadme(ctx context.Context, scm analyzer.SourceControl, readme *collector.File) (models.ReadmeAnalysis, float64) {
	args := m.Called(ctx, scm, readme)
	return args.Get(0).(models.ReadmeAnalysis), args.Get(1).(float64)
}

func (m *MockAnalyzers) AnalyzeLicense(ctx context.Context, scm analyzer.SourceControl, license *collector.File) models.LicenseAnalysis {
	args := m.Called(ctx, scm, license)
	return args.Get(0).(models.LicenseAnalysis)
}

func (m *MockAnalyzers) AnalyzeCode(ctx context.Context, scm analyzer.SourceControl, files []collector.File) ([]models.CodeDocumentationAnalysis, float64) {
	args := m.Called(ctx, scm, files)
	return args.Get(0).([]models.CodeDocumentationAnalysis), args.Get(1).(float64)
}
