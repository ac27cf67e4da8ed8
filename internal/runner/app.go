package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jonmartinstorm/reposjekk/internal/config"
	"github.com/jonmartinstorm/reposjekk/internal/fetcher"
	"github.com/jonmartinstorm/reposjekk/internal/logger"
	"github.com/jonmartinstorm/reposjekk/internal/models"
)

var ErrResumeNotFound = errors.New("fant ikke repoet det skulle fortsettes fra")

// Targets er repoene som skal analyseres i én kjøring.
type Targets struct {
	Repos      []string
	Orgs       []string
	ResumeFrom string
	Force      bool
}

type App struct {
	Cfg  config.Config
	Deps Deps
	now  func() time.Time
}

func NewApp(cfg config.Config, deps Deps) *App {
	return &App{Cfg: cfg, Deps: deps, now: time.Now}
}

// WithClock brukes i tester for å styre analysedatoen.
func (a *App) WithClock(now func() time.Time) *App {
	a.now = now
	return a
}

// Analyze analyserer repoene ett etter ett. Bare lagringsfeil og ugyldige mål stopper kjøringen.
func (a *App) Analyze(ctx context.Context, t Targets) error {
	start := time.Now()

	repos, err := a.resolveTargets(ctx, t)
	if err != nil {
		return err
	}
	repos, err = resumeFrom(repos, t.ResumeFrom)
	if err != nil {
		return err
	}

	slog.Info("Starter analyse", "repos", len(repos), "analyser_kode", a.Cfg.AnalyzeCode)

	var total float64
	analyzed := 0
	for i, repo := range repos {
		if err := ctx.Err(); err != nil {
			return err
		}
		slog.Info("Behandler repo", "repo", repo.FullName, "nr", i+1, "av", len(repos))

		cost, done, err := a.analyzeRepo(ctx, repo, t.Force)
		if err != nil {
			return err
		}
		if done {
			analyzed++
		}
		total += cost
	}

	LogMemoryStats()
	slog.Info("Analyse ferdig",
		"analysert", analyzed,
		"repos", len(repos),
		"kostnad_usd", fmt.Sprintf("%.4f", total),
		"varighet", time.Since(start).String())
	return nil
}

func (a *App) resolveTargets(ctx context.Context, t Targets) ([]models.RepoMeta, error) {
	var repos []models.RepoMeta
	seen := map[string]bool{}
	add := func(r models.RepoMeta) {
		key := strings.ToLower(r.FullName)
		if seen[key] {
			return
		}
		seen[key] = true
		repos = append(repos, r)
	}

	for _, ref := range t.Repos {
		owner, name, err := fetcher.ParseRepoRef(ref)
		if err != nil {
			return nil, err
		}
		repo, err := a.Deps.Repos.GetRepo(ctx, owner, name)
		if err != nil {
			return nil, err
		}
		add(repo)
	}

	for _, org := range t.Orgs {
		orgRepos, err := a.Deps.Repos.ListOrgRepos(ctx, org)
		if err != nil {
			return nil, err
		}
		for _, repo := range orgRepos {
			if a.Cfg.SkipForksAndArchived && (repo.IsFork || repo.Archived) {
				slog.Info("Hopper over fork eller arkivert repo", "repo", repo.FullName, "fork", repo.IsFork, "arkivert", repo.Archived)
				if err := a.Deps.Projects(repo.FullName).Remove(); err != nil {
					slog.Warn("Kunne ikke slette analyse for repo", "repo", repo.FullName, "error", err)
				}
				continue
			}
			if repo.Private && !a.Cfg.IncludePrivate {
				slog.Info("Hopper over privat repo", "repo", repo.FullName)
				if err := a.Deps.Projects(repo.FullName).Remove(); err != nil {
					slog.Warn("Kunne ikke slette analyse for repo", "repo", repo.FullName, "error", err)
				}
				continue
			}
			add(repo)
		}
	}
	return repos, nil
}

// resumeFrom dropper repoene foran det navngitte. Både owner/name og bare name godtas.
func resumeFrom(repos []models.RepoMeta, name string) ([]models.RepoMeta, error) {
	if name == "" {
		return repos, nil
	}
	for i, r := range repos {
		if strings.EqualFold(r.FullName, name) || strings.EqualFold(r.Name, name) {
			if i > 0 {
				slog.Info("Fortsetter fra repo", "repo", r.FullName, "hoppet_over", i)
			}
			return repos[i:], nil
		}
	}
	return nil, fmt.Errorf("%s: %w", name, ErrResumeNotFound)
}

func (a *App) cloneURL(repo models.RepoMeta) string {
	if a.Cfg.UseSSH && repo.SSHURL != "" {
		return repo.SSHURL
	}
	if repo.CloneURL != "" {
		return repo.CloneURL
	}
	return "https://github.com/" + repo.FullName + ".git"
}

// analyzeRepo returnerer kostnaden og om en ny analyse ble lagret.
func (a *App) analyzeRepo(ctx context.Context, repo models.RepoMeta, force bool) (float64, bool, error) {
	log := logger.ForRepo(repo.FullName)
	project := a.Deps.Projects(repo.FullName)

	changed, err := project.CloneOrUpdate(ctx, a.cloneURL(repo))
	if err != nil {
		log.Warn("Kunne ikke klone eller oppdatere repo, hopper over", "error", err)
		return 0, false, nil
	}
	if project.ShouldSkip(changed, force) {
		log.Info("Ingen endringer siden forrige analyse, hopper over")
		return 0, false, nil
	}

	content, err := a.Deps.Collector.Collect(project.RepoPath())
	if err != nil {
		log.Warn("Kunne ikke samle innhold fra repo", "error", err)
		return 0, false, nil
	}
	log.Debug("Innhold samlet",
		"readme", content.Readme != nil,
		"lisens", content.License != nil,
		"kodefiler", len(content.Code),
		"kandidater", content.Candidates)

	readme, readmeCost := a.Deps.Analyzers.AnalyzeReadme(ctx, project, content.Readme)
	license := a.Deps.Analyzers.AnalyzeLicense(ctx, project, content.License)

	code := []models.CodeDocumentationAnalysis{}
	var codeCost float64
	if a.Cfg.AnalyzeCode {
		code, codeCost = a.Deps.Analyzers.AnalyzeCode(ctx, project, content.Code)
	}
	cost := readmeCost + codeCost

	// En avbrutt kjøring skal ikke etterlate et halvferdig dokument.
	if err := ctx.Err(); err != nil {
		return cost, false, err
	}

	scores := a.Deps.Scorer.Score(readme, license, code)

	contributors, err := a.Deps.Repos.Contributors(ctx, repo.Owner, repo.Name)
	if err != nil {
		log.Warn("Kunne ikke hente bidragsytere", "error", err)
	}
	if contributors == nil {
		contributors = []string{}
	}

	lastCommit, err := project.LastCommitDate(ctx)
	if err != nil {
		log.Warn("Kunne ikke lese dato for siste commit", "error", err)
	}

	analysis := models.ProjectAnalysis{
		GithubMetadata:  repo.Metadata(contributors),
		LastCommitDate:  lastCommit,
		AnalysisDate:    a.now().UTC(),
		ReadmeAnalysis:  readme,
		LicenseAnalysis: license,
		CodeAnalysis:    code,
		GlobalScores:    scores,
	}
	if err := project.Save(analysis); err != nil {
		return cost, false, fmt.Errorf("kunne ikke lagre analyse for %s: %w", repo.FullName, err)
	}

	log.Info("Repo analysert",
		"samlet", fmt.Sprintf("%.2f", scores.Overall),
		"normalisert", fmt.Sprintf("%.2f", scores.Normalized),
		"kostnad_usd", fmt.Sprintf("%.4f", cost))
	return cost, true, nil
}
