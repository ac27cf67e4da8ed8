package analyzer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jonmartinstorm/reposjekk/internal/collector"
	"github.com/jonmartinstorm/reposjekk/internal/extraction"
	"github.com/jonmartinstorm/reposjekk/internal/models"
)

const codeSystemPrompt = `You are an expert in evaluating Python code for API documentation and internal comments.
You will be given the content of a single Python file (notebooks are converted to scripts, with markdown cells as comments).

Ignore boilerplate: imports, trivial getters and setters, auto-generated code, and functions of three lines or fewer.

For the file:
- high_level_documentation is true if the file starts with a module docstring or comment block that explains what the file is for.
- code_factored is true if the logic is split into functions or classes rather than one long script body.

For each non-trivial function or method, rate:
- clear_name: true if the name says what the function does without reading the body.
- type_annotations: true only if every parameter and the return value are annotated.
- api_documentation: true only if a docstring describes the purpose, every parameter and the return value.
- code_comments: true if non-obvious steps in the body are explained by comments; a function with no non-obvious steps counts as true.
- explanation: at most two short sentences justifying the ratings.

Leave github_commit_hash blank.`

// AnalyzeCode analyserer filene én etter én. Filer uten resultat utelates.
func (a *Analyzer) AnalyzeCode(ctx context.Context, scm SourceControl, files []collector.File) ([]models.CodeDocumentationAnalysis, float64) {
	results := []models.CodeDocumentationAnalysis{}
	var total float64
	analyzed := 0

	for _, file := range files {
		if ctx.Err() != nil {
			break
		}

		content := a.client.Truncate(file.Path, file.Content)
		res := extraction.Extract[models.CodeDocumentationAnalysis](ctx, a.client, file.Path, extraction.Request{
			Name:        "code_documentation_analysis",
			Description: "Record the documentation ratings for the file and each of its functions.",
			System:      codeSystemPrompt,
			User:        fmt.Sprintf("Analyze the following Python file (%s):\n\n%s", file.Path, content),
		})
		total += res.Cost

		if !res.OK() {
			if res.Outcome == extraction.Refused {
				slog.Warn("Modellen nektet å analysere kildefil", "fil", file.Path)
			}
			continue
		}

		analysis := res.Value
		warnModelHash(file.Path, analysis.GithubCommitHash)
		analysis.FilePath = file.Path
		analysis.GithubCommitHash = commitHash(ctx, scm, file.Path)
		if analysis.FunctionAnalysis == nil {
			analysis.FunctionAnalysis = []models.FunctionAnalysis{}
		}
		results = append(results, analysis)
		analyzed++

		if a.maxCodeFiles > 0 && analyzed >= a.maxCodeFiles {
			slog.Info("Nådde maks antall analyserte kildefiler", "antall", analyzed)
			break
		}
	}

	slog.Info("Kildefiler analysert", "antall", analyzed, "kandidater", len(files))
	return results, total
}
