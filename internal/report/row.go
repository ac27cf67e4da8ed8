// Package report lager CSV- og HTML-rapporter fra lagrede analyser.
package report

import (
	"strconv"
	"strings"
	"time"

	"github.com/jonmartinstorm/reposjekk/internal/models"
)

var Columns = []string{
	"Repo",
	"URL",
	"Language",
	"Contributors",
	"Overall Score",
	"Normalized Score",
	"Setup Score",
	"README Score",
	"License Score",
	"API Docs Score",
	"Code Comments Score",
	"Has License",
	"License is BSD 3-clause",
	"License is Copyright HHMI",
	"License is Current Year",
	"Last Commit Date",
	"Stars",
	"Forks",
}

// BuildRow leser scorene slik de ble lagret; ingenting regnes ut på nytt.
func BuildRow(a models.ProjectAnalysis) models.ReportRow {
	meta := a.GithubMetadata
	scores := a.GlobalScores
	license := a.LicenseAnalysis
	has := license.HasLicense()

	row := models.ReportRow{
		Repo:              meta.RepoName,
		URL:               meta.RepoURL,
		Contributors:      meta.Contributors,
		OverallScore:      scores.Overall,
		NormalizedScore:   scores.Normalized,
		SetupScore:        scores.SetupCompleteness,
		ReadmeScore:       scores.ReadmeQuality,
		LicenseScore:      scores.License,
		APIDocsScore:      scores.APIDocumentation,
		CodeCommentsScore: scores.CodeComments,
		HasLicense:        has,
		LastCommitDate:    a.LastCommitDate,
		Stars:             meta.Stars,
		Forks:             meta.Forks,
	}
	if meta.Language != nil {
		row.Language = *meta.Language
	}
	if has {
		row.LicenseIsBSD3Clause = license.IsBSD3Clause
		row.LicenseIsHHMI = license.IsCopyrightHHMI
		row.LicenseIsCurrent = license.IsCurrentYear
	}
	return row
}

// Record er raden som tekst i samme rekkefølge som Columns.
func Record(r models.ReportRow) []string {
	return []string{
		r.Repo,
		r.URL,
		r.Language,
		strings.Join(r.Contributors, ","),
		formatScore(r.OverallScore),
		formatScore(r.NormalizedScore),
		formatScore(r.SetupScore),
		formatScore(r.ReadmeScore),
		formatScore(r.LicenseScore),
		formatScore(r.APIDocsScore),
		formatScore(r.CodeCommentsScore),
		strconv.FormatBool(r.HasLicense),
		strconv.FormatBool(r.LicenseIsBSD3Clause),
		strconv.FormatBool(r.LicenseIsHHMI),
		strconv.FormatBool(r.LicenseIsCurrent),
		formatDate(r.LastCommitDate),
		strconv.Itoa(r.Stars),
		strconv.Itoa(r.Forks),
	}
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}

// ScoreColor: grønn fra 4, oransje fra 2, ellers rød.
func ScoreColor(score float64) string {
	switch {
	case score >= 4:
		return "green"
	case score >= 2:
		return "#F88017"
	default:
		return "red"
	}
}
