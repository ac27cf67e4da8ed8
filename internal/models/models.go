package models

import "time"

// Prerequisite er en avhengighet som må være på plass før oppsettsstegene kjøres.
type Prerequisite struct {
	Description string `json:"description" jsonschema:"required" jsonschema_description:"A brief description of the prerequisite"`
	URL         string `json:"url" jsonschema:"required" jsonschema_description:"The URL to the full documentation for installing the prerequisite"`
}

type ShellCommand struct {
	Description string `json:"description" jsonschema:"required" jsonschema_description:"A brief description of the command"`
	Command     string `json:"command" jsonschema:"required" jsonschema_description:"The shell command, as it would be typed in the terminal"`
}

type ReadmeAnalysis struct {
	GithubCommitHash  *string        `json:"github_commit_hash" jsonschema_description:"The commit hash for the code (leave this blank)"`
	ProjectName       string         `json:"project_name" jsonschema:"required" jsonschema_description:"The full name of the project"`
	Prerequisites     []Prerequisite `json:"prerequisites" jsonschema:"required" jsonschema_description:"The prerequisites for running the setup steps"`
	SetupSteps        []ShellCommand `json:"setup_steps" jsonschema:"required" jsonschema_description:"The shell commands which build, install and run the project"`
	SetupCompleteness int            `json:"setup_completeness" jsonschema:"required,minimum=0,maximum=5" jsonschema_description:"Score from 0 to 5 for how complete the setup steps are" validate:"min=0,max=5"`
	ReadmeQuality     int            `json:"readme_quality" jsonschema:"required,minimum=0,maximum=5" jsonschema_description:"Score from 0 to 5 for how well the README is written" validate:"min=0,max=5"`
	DocsURL           *string        `json:"docs_url" jsonschema_description:"The URL to the full documentation for the project. Blank if it doesn't exist."`
}

// ZeroReadmeAnalysis brukes når repoet mangler README eller analysen ikke ga resultat.
func ZeroReadmeAnalysis() ReadmeAnalysis {
	return ReadmeAnalysis{
		Prerequisites: []Prerequisite{},
		SetupSteps:    []ShellCommand{},
	}
}

// LicenseAnalysis utledes lokalt fra lisensteksten. GithubCommitHash == nil betyr at repoet ikke har lisensfil.
type LicenseAnalysis struct {
	GithubCommitHash *string `json:"github_commit_hash"`
	IsBSD3Clause     bool    `json:"is_bsd3clause"`
	IsCopyrightHHMI  bool    `json:"is_copyright_hhmi"`
	IsCurrentYear    bool    `json:"is_current_year"`
}

func (l LicenseAnalysis) HasLicense() bool {
	return l.GithubCommitHash != nil
}

type FunctionAnalysis struct {
	FunctionName     string `json:"function_name" jsonschema:"required" jsonschema_description:"The function or method being analyzed"`
	ClearName        bool   `json:"clear_name" jsonschema:"required" jsonschema_description:"Does the function have a clear and descriptive name?"`
	TypeAnnotations  bool   `json:"type_annotations" jsonschema:"required" jsonschema_description:"Are all parameters and the return value type annotated?"`
	APIDocumentation bool   `json:"api_documentation" jsonschema:"required" jsonschema_description:"Does the function have complete API documentation?"`
	CodeComments     bool   `json:"code_comments" jsonschema:"required" jsonschema_description:"Does the function have adequate inline comments?"`
	Explanation      string `json:"explanation" jsonschema:"required" jsonschema_description:"A very brief explanation for the ratings"`
}

type CodeDocumentationAnalysis struct {
	FilePath               string             `json:"filepath" jsonschema:"required" jsonschema_description:"The relative path to the file in the codebase that is being analyzed"`
	GithubCommitHash       *string            `json:"github_commit_hash" jsonschema_description:"The commit hash for the code (leave this blank)"`
	HighLevelDocumentation bool               `json:"high_level_documentation" jsonschema:"required" jsonschema_description:"Does the file have high-level documentation?"`
	CodeFactored           bool               `json:"code_factored" jsonschema:"required" jsonschema_description:"Is the code appropriately factored into multiple functions?"`
	FunctionAnalysis       []FunctionAnalysis `json:"function_analysis" jsonschema:"required" jsonschema_description:"The analysis of each non-trivial function in the file" validate:"dive"`
}

// GlobalQualityScores beregnes alltid av scoring-pakken, aldri av modellen.
type GlobalQualityScores struct {
	SetupCompleteness float64 `json:"setup_completeness" validate:"min=0,max=5"`
	ReadmeQuality     float64 `json:"readme_quality" validate:"min=0,max=5"`
	License           float64 `json:"license" validate:"min=0,max=5"`
	APIDocumentation  float64 `json:"api_documentation" validate:"min=0,max=5"`
	CodeComments      float64 `json:"code_comments" validate:"min=0,max=5"`
	Overall           float64 `json:"overall" validate:"min=0"`
	Normalized        float64 `json:"normalized" validate:"min=0,max=5"`
}

type GithubMetadata struct {
	RepoName     string   `json:"repo_name" validate:"required"`
	RepoURL      string   `json:"repo_url"`
	Description  *string  `json:"description"`
	Stars        int      `json:"stars"`
	Forks        int      `json:"forks"`
	Language     *string  `json:"language"`
	Contributors []string `json:"contributors"`
}

// ProjectAnalysis er dokumentet som lagres som analysis.json per repo.
type ProjectAnalysis struct {
	GithubMetadata  GithubMetadata              `json:"github_metadata"`
	LastCommitDate  time.Time                   `json:"last_commit_date"`
	AnalysisDate    time.Time                   `json:"analysis_date"`
	ReadmeAnalysis  ReadmeAnalysis              `json:"readme_analysis"`
	LicenseAnalysis LicenseAnalysis             `json:"license_analysis"`
	CodeAnalysis    []CodeDocumentationAnalysis `json:"code_analysis" validate:"dive"`
	GlobalScores    GlobalQualityScores         `json:"global_scores"`
}
