// Package analyzer vurderer README, LICENSE og kildefiler i ett repo.
package analyzer

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonmartinstorm/reposjekk/internal/config"
	"github.com/jonmartinstorm/reposjekk/internal/extraction"
)

// SourceControl slår opp siste commit som endret en fil i checkouten.
type SourceControl interface {
	CommitHash(ctx context.Context, relPath string) (string, error)
}

type Analyzer struct {
	client         *extraction.Client
	licensePhrases []string
	maxCodeFiles   int
	now            func() time.Time
}

func New(client *extraction.Client, cfg config.Config) *Analyzer {
	return &Analyzer{
		client:         client,
		licensePhrases: cfg.LicensePhrases,
		maxCodeFiles:   cfg.Collector.MaxCodeFiles,
		now:            time.Now,
	}
}

// WithClock brukes i tester for å styre hva som regnes som inneværende år.
func (a *Analyzer) WithClock(now func() time.Time) *Analyzer {
	a.now = now
	return a
}

// commitHash gir alltid en peker; oppslagsfeil logges og gir tom hash.
func commitHash(ctx context.Context, scm SourceControl, relPath string) *string {
	hash, err := scm.CommitHash(ctx, relPath)
	if err != nil {
		slog.Warn("Kunne ikke slå opp commit for fil", "fil", relPath, "error", err)
	}
	return &hash
}

func warnModelHash(label string, hash *string) {
	if hash != nil && *hash != "" {
		slog.Warn("Modellen returnerte en commit-hash, overskriver", "fil", label, "hash", *hash)
	}
}
