// Package scoring samler analyseresultatene til én normalisert kvalitetsscore.
package scoring

import (
	"github.com/jonmartinstorm/reposjekk/internal/config"
	"github.com/jonmartinstorm/reposjekk/internal/models"
)

const (
	MinRating = 0.0
	MaxRating = 5.0

	// Poeng for å ha en lisensfil i det hele tatt.
	licenseBase = 2
)

// Aggregator er ren: samme input gir alltid samme scorer.
type Aggregator struct {
	weights config.Weights
}

func NewAggregator(weights config.Weights) Aggregator {
	return Aggregator{weights: weights}
}

func (a Aggregator) Weights() config.Weights {
	return a.weights
}

func (a Aggregator) Score(readme models.ReadmeAnalysis, license models.LicenseAnalysis, code []models.CodeDocumentationAnalysis) models.GlobalQualityScores {
	scores := models.GlobalQualityScores{
		SetupCompleteness: float64(readme.SetupCompleteness),
		ReadmeQuality:     float64(readme.ReadmeQuality),
		License:           LicenseScore(license),
		APIDocumentation:  APIDocumentationScore(code),
		CodeComments:      CodeCommentsScore(code),
	}
	scores.Overall = a.Overall(scores)
	scores.Normalized = a.Normalize(scores.Overall)
	return scores
}

// LicenseScore gir 0 uten lisens, ellers 2 pluss ett poeng per oppfylt krav.
func LicenseScore(l models.LicenseAnalysis) float64 {
	if !l.HasLicense() {
		return 0
	}
	score := licenseBase
	for _, ok := range []bool{l.IsBSD3Clause, l.IsCopyrightHHMI, l.IsCurrentYear} {
		if ok {
			score++
		}
	}
	return float64(score)
}

// APIDocumentationScore teller én stemme per fil (high-level doc) og én per funksjon.
func APIDocumentationScore(code []models.CodeDocumentationAnalysis) float64 {
	var votes []bool
	for _, file := range code {
		votes = append(votes, file.HighLevelDocumentation)
		for _, fn := range file.FunctionAnalysis {
			votes = append(votes, fn.APIDocumentation)
		}
	}
	return scaled(votes)
}

func CodeCommentsScore(code []models.CodeDocumentationAnalysis) float64 {
	var votes []bool
	for _, file := range code {
		for _, fn := range file.FunctionAnalysis {
			votes = append(votes, fn.CodeComments)
		}
	}
	return scaled(votes)
}

// scaled gir andelen sanne stemmer skalert til [0, 5], og 0 for tom pool.
func scaled(votes []bool) float64 {
	if len(votes) == 0 {
		return 0
	}
	passed := 0
	for _, v := range votes {
		if v {
			passed++
		}
	}
	return MaxRating * float64(passed) / float64(len(votes))
}

func (a Aggregator) Overall(s models.GlobalQualityScores) float64 {
	w := a.weights
	return w.SetupCompleteness*s.SetupCompleteness +
		w.ReadmeQuality*s.ReadmeQuality +
		w.APIDocumentation*s.APIDocumentation +
		w.CodeComments*s.CodeComments +
		w.License*s.License
}

// Bounds er teoretisk min og maks for den vektede summen, der alle komponenter er 1 eller 5.
func (a Aggregator) Bounds() (lo, hi float64) {
	w := a.weights
	sum := w.SetupCompleteness + w.ReadmeQuality + w.APIDocumentation + w.CodeComments + w.License
	return sum * 1, sum * MaxRating
}

// Normalize avbilder overall lineært fra de teoretiske grensene til [0, 5].
func (a Aggregator) Normalize(overall float64) float64 {
	lo, hi := a.Bounds()
	if hi <= lo {
		return 0
	}
	return clamp((overall-lo)/(hi-lo)*MaxRating, MinRating, MaxRating)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
