package projectcache

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/jonmartinstorm/reposjekk/internal/models"
)

var validate = validator.New()

func readAnalysis(path string) (models.ProjectAnalysis, error) {
	var analysis models.ProjectAnalysis

	data, err := os.ReadFile(path)
	if err != nil {
		return analysis, err
	}
	if err := json.Unmarshal(data, &analysis); err != nil {
		return analysis, fmt.Errorf("ugyldig JSON i %s: %w", path, err)
	}
	if err := validate.Struct(analysis); err != nil {
		return analysis, fmt.Errorf("ugyldig analyse i %s: %w", path, err)
	}
	return analysis, nil
}

// LoadAll leser alle <cacheDir>/<owner>/<repo>/analysis.json. Ødelagte dokumenter logges og hoppes over.
func LoadAll(cacheDir string) ([]models.ProjectAnalysis, error) {
	paths, err := filepath.Glob(filepath.Join(cacheDir, "*", "*", AnalysisFile))
	if err != nil {
		return nil, fmt.Errorf("kunne ikke søke i %s: %w", cacheDir, err)
	}

	analyses := make([]models.ProjectAnalysis, 0, len(paths))
	for _, path := range paths {
		analysis, err := readAnalysis(path)
		if err != nil {
			slog.Warn("Hopper over analyse som ikke kunne leses", "fil", path, "error", err)
			continue
		}
		analyses = append(analyses, analysis)
	}

	sort.SliceStable(analyses, func(i, j int) bool {
		return analyses[i].GithubMetadata.RepoName < analyses[j].GithubMetadata.RepoName
	})

	slog.Info("Lastet analyser fra cache", "antall", len(analyses), "filer", len(paths))
	return analyses, nil
}
