package analyzer

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/jonmartinstorm/reposjekk/internal/collector"
	"github.com/jonmartinstorm/reposjekk/internal/models"
)

var hhmiToken = regexp.MustCompile(`\bHHMI\b`)

// AnalyzeLicense vurderer lisensen lokalt uten modellkall.
func (a *Analyzer) AnalyzeLicense(ctx context.Context, scm SourceControl, license *collector.File) models.LicenseAnalysis {
	if license == nil {
		return models.LicenseAnalysis{}
	}

	text := license.Content
	return models.LicenseAnalysis{
		GithubCommitHash: commitHash(ctx, scm, license.Path),
		IsBSD3Clause:     containsAny(text, a.licensePhrases),
		IsCopyrightHHMI:  hasHHMICopyright(text),
		IsCurrentYear:    strings.Contains(text, strconv.Itoa(a.now().Year())),
	}
}

func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if p != "" && strings.Contains(text, p) {
			return true
		}
	}
	return false
}

func hasHHMICopyright(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "Copyright") {
			continue
		}
		if hhmiToken.MatchString(line) || strings.Contains(line, "Howard Hughes Medical Institute") {
			return true
		}
	}
	return false
}
