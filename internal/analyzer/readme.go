package analyzer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jonmartinstorm/reposjekk/internal/collector"
	"github.com/jonmartinstorm/reposjekk/internal/extraction"
	"github.com/jonmartinstorm/reposjekk/internal/models"
)

const readmeSystemPrompt = `You are an expert at analyzing README files from GitHub repositories and extracting structured information about the project.
Given the content of a README file, you extract the shell commands which are necessary to set up the project and run a basic example.
Break multi-line commands into separate steps.
Do not include commands which are optional, only needed for testing or development, or not relevant to setting up the project for a minimal example.
If a command is repeated with different example arguments, output it only once, choosing the best example.
If you can't find any setup commands, output an empty list.
List the prerequisites that must be installed before the setup commands can run, with a link to their installation instructions.

Rate setup_completeness from 0 to 5:
0 - no setup instructions at all
1 - only a vague hint of how to install
3 - installation is described but running an example is not
5 - a new user can install the project and run an example by following the steps

Rate readme_quality from 0 to 5:
0 - empty or placeholder README
1 - one line description only
3 - describes the purpose and usage but lacks structure or detail
5 - clear purpose, usage, examples, and links to further documentation

Leave github_commit_hash blank.`

// AnalyzeReadme gir alltid en analyse; mangler README eller feiler modellen blir den null.
func (a *Analyzer) AnalyzeReadme(ctx context.Context, scm SourceControl, readme *collector.File) (models.ReadmeAnalysis, float64) {
	if readme == nil {
		slog.Info("Fant ingen README")
		return models.ZeroReadmeAnalysis(), 0
	}

	content := a.client.Truncate(readme.Path, readme.Content)
	res := extraction.Extract[models.ReadmeAnalysis](ctx, a.client, readme.Path, extraction.Request{
		Name:        "readme_analysis",
		Description: "Record the setup steps, prerequisites and ratings extracted from the README.",
		System:      readmeSystemPrompt,
		User:        fmt.Sprintf("Given the README content below, extract only the shell commands which are necessary to set up the project and run a basic example:\n\n%s", content),
	})

	if !res.OK() {
		if res.Outcome == extraction.Refused {
			slog.Warn("Modellen nektet å analysere README", "fil", readme.Path)
		}
		return models.ZeroReadmeAnalysis(), res.Cost
	}

	analysis := res.Value
	warnModelHash(readme.Path, analysis.GithubCommitHash)
	analysis.GithubCommitHash = commitHash(ctx, scm, readme.Path)
	if analysis.Prerequisites == nil {
		analysis.Prerequisites = []models.Prerequisite{}
	}
	if analysis.SetupSteps == nil {
		analysis.SetupSteps = []models.ShellCommand{}
	}

	if len(analysis.SetupSteps) == 0 {
		slog.Info("Fant ingen oppsettsteg")
	}
	for _, step := range analysis.SetupSteps {
		slog.Debug("Oppsettsteg", "kommando", step.Command)
	}
	slog.Info("README analysert",
		"readme_quality", analysis.ReadmeQuality,
		"setup_completeness", analysis.SetupCompleteness)

	return analysis, res.Cost
}
