package cli

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jonmartinstorm/reposjekk/internal/analyzer"
	"github.com/jonmartinstorm/reposjekk/internal/collector"
	"github.com/jonmartinstorm/reposjekk/internal/config"
	"github.com/jonmartinstorm/reposjekk/internal/extraction"
	"github.com/jonmartinstorm/reposjekk/internal/fetcher"
	"github.com/jonmartinstorm/reposjekk/internal/gitcli"
	"github.com/jonmartinstorm/reposjekk/internal/projectcache"
	"github.com/jonmartinstorm/reposjekk/internal/runner"
	"github.com/jonmartinstorm/reposjekk/internal/scoring"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var ErrNoTargets = errors.New("minst én --repo eller --org må oppgis")

func newAnalyzeCommand(v *viper.Viper, cfgFile *string) *cobra.Command {
	var (
		targets  runner.Targets
		skipCode bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Kloner og analyserer repos, og lagrer analysis.json per repo",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(targets.Repos) == 0 && len(targets.Orgs) == 0 {
				return ErrNoTargets
			}
			if skipCode {
				v.Set("analyze_code", false)
			}

			cfg, err := loadConfig(v, *cfgFile)
			if err != nil {
				return err
			}
			if err := config.ValidateAnalyze(cfg); err != nil {
				return err
			}

			app, err := newApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			return app.Analyze(cmd.Context(), targets)
		},
	}

	flags := cmd.Flags()
	flags.StringArrayVar(&targets.Repos, "repo", nil, "repo som URL eller owner/name (kan gjentas)")
	flags.StringArrayVar(&targets.Orgs, "org", nil, "analyser alle repos i organisasjonen (kan gjentas)")
	flags.StringVar(&targets.ResumeFrom, "resume-from", "", "hopp over repos fram til dette")
	flags.BoolVar(&targets.Force, "force", false, "analyser selv om repoet er uendret")
	flags.BoolVar(&skipCode, "skip-code", false, "hopp over analyse av kildefiler")
	flags.String("provider", string(config.ProviderAnthropic), "anthropic eller gemini")
	flags.String("model", "", "modellnavn (standard avhenger av provider)")
	flags.Bool("ssh", false, "klon over SSH i stedet for HTTPS")
	bindFlags(v, flags, map[string]string{
		"provider": "provider",
		"model":    "model",
		"ssh":      "ssh",
	})
	return cmd
}

func newApp(ctx context.Context, cfg config.Config) (*runner.App, error) {
	repos, err := fetcher.NewRepoFetcher(ctx, cfg)
	if err != nil {
		return nil, err
	}
	git := gitcli.New(gitcli.WithTokenSource(repos.GitToken), gitcli.WithHost(cfg.GitHubBaseURL))

	backend, err := extraction.NewBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}
	client := extraction.NewClient(backend, cfg)
	slog.Info("Bruker modell", "provider", cfg.Provider, "modell", client.Model())

	return runner.NewApp(cfg, runner.Deps{
		Repos: repos,
		Projects: func(fullName string) runner.Project {
			return projectcache.New(cfg.CacheDir, fullName, git)
		},
		Collector: collector.New(cfg.Collector),
		Analyzers: analyzer.New(client, cfg),
		Scorer:    scoring.NewAggregator(cfg.Weights),
	}), nil
}
