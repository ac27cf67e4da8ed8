package fetcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v75/github"
	"github.com/jonmartinstorm/reposjekk/internal/config"
	"github.com/jonmartinstorm/reposjekk/internal/models"
	"golang.org/x/oauth2"
)

const perPage = 100

// Sleep venter d eller til konteksten avsluttes. Kan byttes ut i tester.
var Sleep = func(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type RepoFetcher struct {
	gh             *github.Client
	token          string
	appToken       *ghinstallation.Transport
	includePrivate bool
}

// NewRepoFetcher bruker GitHub App-autentisering hvis den er konfigurert, ellers token.
func NewRepoFetcher(ctx context.Context, cfg config.Config) (*RepoFetcher, error) {
	r := &RepoFetcher{token: cfg.Token, includePrivate: cfg.IncludePrivate}

	var httpClient *http.Client
	if cfg.HasAppAuth() {
		itr, err := ghinstallation.NewKeyFromFile(http.DefaultTransport, cfg.AppID, cfg.AppInstallationID, cfg.AppPrivateKeyPath)
		if err != nil {
			return nil, fmt.Errorf("kunne ikke lese GitHub App-nøkkel: %w", err)
		}
		if cfg.GitHubBaseURL != "" {
			itr.BaseURL = cfg.GitHubBaseURL
		}
		r.appToken = itr
		httpClient = &http.Client{Transport: itr}
	} else {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		httpClient = oauth2.NewClient(ctx, ts)
	}

	gh := github.NewClient(httpClient)
	if cfg.GitHubBaseURL != "" {
		var err error
		gh, err = gh.WithEnterpriseURLs(cfg.GitHubBaseURL, cfg.GitHubBaseURL)
		if err != nil {
			return nil, fmt.Errorf("ugyldig github_base_url: %w", err)
		}
	}
	r.gh = gh
	return r, nil
}

// NewFromClient brukes når klienten allerede er satt opp, f.eks. mot en testserver.
func NewFromClient(gh *github.Client, token string) *RepoFetcher {
	return &RepoFetcher{gh: gh, token: token}
}

// WithPrivate lar ListOrgRepos ta med private repos.
func (r *RepoFetcher) WithPrivate(include bool) *RepoFetcher {
	r.includePrivate = include
	return r
}

// GitToken er tokenet git skal bruke ved HTTPS-kloning.
func (r *RepoFetcher) GitToken(ctx context.Context) (string, error) {
	if r.appToken != nil {
		return r.appToken.Token(ctx)
	}
	return r.token, nil
}

func (r *RepoFetcher) ListOrgRepos(ctx context.Context, org string) ([]models.RepoMeta, error) {
	listType := "public"
	if r.includePrivate {
		listType = "all"
	}
	opts := &github.RepositoryListByOrgOptions{
		Type:        listType,
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	var repos []models.RepoMeta
	for {
		slog.Info("Henter repos", "org", org, "page", max(opts.Page, 1))
		page, resp, err := withRateLimit(ctx, func() ([]*github.Repository, *github.Response, error) {
			return r.gh.Repositories.ListByOrg(ctx, org, opts)
		})
		if err != nil {
			return nil, fmt.Errorf("kunne ikke liste repos for %s: %w", org, err)
		}
		for _, repo := range page {
			repos = append(repos, toMeta(repo))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return repos, nil
}

func (r *RepoFetcher) GetRepo(ctx context.Context, owner, name string) (models.RepoMeta, error) {
	repo, _, err := withRateLimit(ctx, func() (*github.Repository, *github.Response, error) {
		return r.gh.Repositories.Get(ctx, owner, name)
	})
	if err != nil {
		return models.RepoMeta{}, fmt.Errorf("kunne ikke hente %s/%s: %w", owner, name, err)
	}
	return toMeta(repo), nil
}

// Contributors returnerer sorterte, unike innlogginger.
func (r *RepoFetcher) Contributors(ctx context.Context, owner, name string) ([]string, error) {
	opts := &github.ListContributorsOptions{ListOptions: github.ListOptions{PerPage: perPage}}

	logins := []string{}
	for {
		page, resp, err := withRateLimit(ctx, func() ([]*github.Contributor, *github.Response, error) {
			return r.gh.Repositories.ListContributors(ctx, owner, name, opts)
		})
		if err != nil {
			return nil, fmt.Errorf("kunne ikke hente bidragsytere for %s/%s: %w", owner, name, err)
		}
		for _, c := range page {
			if login := c.GetLogin(); login != "" {
				logins = append(logins, login)
			}
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	slices.Sort(logins)
	return slices.Compact(logins), nil
}

// withRateLimit venter til rate limit nullstilles og prøver igjen, som for REST-kallene tidligere.
func withRateLimit[T any](ctx context.Context, call func() (T, *github.Response, error)) (T, *github.Response, error) {
	for {
		out, resp, err := call()

		var wait time.Duration
		var rateErr *github.RateLimitError
		var abuseErr *github.AbuseRateLimitError
		switch {
		case errors.As(err, &rateErr):
			wait = time.Until(rateErr.Rate.Reset.Time) + time.Second
		case errors.As(err, &abuseErr):
			wait = abuseErr.GetRetryAfter()
			if wait <= 0 {
				wait = time.Minute
			}
		default:
			return out, resp, err
		}

		slog.Warn("Rate limit nådd", "venter", wait.Truncate(time.Second))
		if err := Sleep(ctx, max(wait, 0)); err != nil {
			var zero T
			return zero, resp, err
		}
	}
}

func toMeta(r *github.Repository) models.RepoMeta {
	return models.RepoMeta{
		Owner:       r.GetOwner().GetLogin(),
		Name:        r.GetName(),
		FullName:    r.GetFullName(),
		HtmlUrl:     r.GetHTMLURL(),
		CloneURL:    r.GetCloneURL(),
		SSHURL:      r.GetSSHURL(),
		Description: r.GetDescription(),
		Stars:       r.GetStargazersCount(),
		Forks:       r.GetForksCount(),
		Language:    r.GetLanguage(),
		Archived:    r.GetArchived(),
		IsFork:      r.GetFork(),
		Private:     r.GetPrivate(),
	}
}
