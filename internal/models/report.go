package models

import "time"

// ReportRow er den flate raden som brukes i CSV, HTML-indeksen og eksport til database.
type ReportRow struct {
	Repo                string
	URL                 string
	Language            string
	Contributors        []string
	OverallScore        float64
	NormalizedScore     float64
	SetupScore          float64
	ReadmeScore         float64
	LicenseScore        float64
	APIDocsScore        float64
	CodeCommentsScore   float64
	HasLicense          bool
	LicenseIsBSD3Clause bool
	LicenseIsHHMI       bool
	LicenseIsCurrent    bool
	LastCommitDate      time.Time
	Stars               int
	Forks               int
}
