package report

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jonmartinstorm/reposjekk/internal/models"
)

const (
	AnalysisCSV   = "analysis.csv"
	CodeScoresCSV = "code_scores.csv"
)

var codeColumns = []string{"Repo", "File", "Function", "Clear Name", "Type Annotations", "API Documentation", "Code Comments", "Explanation"}

// WriteCSV skriver analysis.csv med én rad per repo og code_scores.csv med én rad per funksjon.
func WriteCSV(outputDir string, analyses []models.ProjectAnalysis) error {
	rows := make([][]string, 0, len(analyses))
	for _, a := range analyses {
		rows = append(rows, Record(BuildRow(a)))
	}
	if err := writeCSVFile(filepath.Join(outputDir, AnalysisCSV), Columns, rows); err != nil {
		return err
	}

	var codeRows [][]string
	for _, a := range analyses {
		for _, file := range a.CodeAnalysis {
			for _, fn := range file.FunctionAnalysis {
				codeRows = append(codeRows, []string{
					a.GithubMetadata.RepoName,
					file.FilePath,
					fn.FunctionName,
					strconv.FormatBool(fn.ClearName),
					strconv.FormatBool(fn.TypeAnnotations),
					strconv.FormatBool(fn.APIDocumentation),
					strconv.FormatBool(fn.CodeComments),
					fn.Explanation,
				})
			}
		}
	}
	return writeCSVFile(filepath.Join(outputDir, CodeScoresCSV), codeColumns, codeRows)
}

func writeCSVFile(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("kunne ikke opprette %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("kunne ikke skrive header til %s: %w", path, err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("kunne ikke skrive %s: %w", path, err)
	}

	slog.Info("CSV skrevet", "fil", path, "rader", len(rows))
	return f.Close()
}
