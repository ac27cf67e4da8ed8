// Package gitcli kjører git som underprosess for kloning og commit-oppslag.
package gitcli

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"strings"
	"time"
)

const defaultHost = "https://github.com/"

// TokenSource gir et gyldig token. Kalles før hver kloning og pull, så token som utløper blir fornyet.
type TokenSource func(ctx context.Context) (string, error)

type Git struct {
	binary string
	env    []string
	token  TokenSource
	host   string
}

type Option func(*Git)

// WithToken bruker et fast token.
func WithToken(token string) Option {
	return WithTokenSource(func(context.Context) (string, error) {
		return token, nil
	})
}

// WithTokenSource henter tokenet på nytt for hver kommando som går mot remote.
func WithTokenSource(src TokenSource) Option {
	return func(g *Git) { g.token = src }
}

// WithHost setter hvilken vert tokenet sendes til. baseURL er API-adressen til GitHub Enterprise; tom betyr github.com.
func WithHost(baseURL string) Option {
	return func(g *Git) { g.host = HostPrefix(baseURL) }
}

func WithBinary(path string) Option {
	return func(g *Git) { g.binary = path }
}

func New(opts ...Option) *Git {
	g := &Git{
		binary: "git",
		env:    []string{"GIT_TERMINAL_PROMPT=0"},
		host:   defaultHost,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// HostPrefix gjør en API-adresse om til scheme://vert/, som er nøkkelen git bruker for extraheader.
func HostPrefix(baseURL string) string {
	if strings.TrimSpace(baseURL) == "" {
		return defaultHost
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return defaultHost
	}
	host := u.Host
	if strings.EqualFold(host, "api.github.com") {
		host = "github.com"
	}
	scheme := u.Scheme
	if scheme == "" {
		scheme = "https"
	}
	return scheme + "://" + host + "/"
}

// authEnv sender tokenet som HTTP-header via miljøet, så det ikke havner i argumentlisten.
func (g *Git) authEnv(ctx context.Context) ([]string, error) {
	if g.token == nil {
		return nil, nil
	}
	token, err := g.token(ctx)
	if err != nil {
		return nil, fmt.Errorf("kunne ikke hente token for git: %w", err)
	}
	if token == "" {
		return nil, nil
	}
	cred := base64.StdEncoding.EncodeToString([]byte("x-access-token:" + token))
	return []string{
		"GIT_CONFIG_COUNT=1",
		"GIT_CONFIG_KEY_0=http." + g.host + ".extraheader",
		"GIT_CONFIG_VALUE_0=AUTHORIZATION: basic " + cred,
	}, nil
}

func (g *Git) run(ctx context.Context, dir string, args ...string) (string, error) {
	return g.command(ctx, dir, nil, args...)
}

// runRemote er for kommandoer som snakker med GitHub og trenger autentisering.
func (g *Git) runRemote(ctx context.Context, dir string, args ...string) (string, error) {
	auth, err := g.authEnv(ctx)
	if err != nil {
		return "", err
	}
	return g.command(ctx, dir, auth, args...)
}

func (g *Git) command(ctx context.Context, dir string, extraEnv []string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, g.binary, args...)
	cmd.Dir = dir
	cmd.Env = append(append(os.Environ(), g.env...), extraEnv...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("git %s: %w: %s", args[0], err, strings.TrimSpace(stderr.String()))
		}
		return "", fmt.Errorf("git %s: %w", args[0], err)
	}
	return strings.TrimSpace(stdout.String()), nil
}

func (g *Git) Clone(ctx context.Context, url, dir string) error {
	_, err := g.runRemote(ctx, "", "clone", "--quiet", url, dir)
	return err
}

func (g *Git) Pull(ctx context.Context, dir string) error {
	_, err := g.runRemote(ctx, dir, "pull", "--quiet", "--ff-only")
	return err
}

func (g *Git) HeadCommit(ctx context.Context, dir string) (string, error) {
	return g.run(ctx, dir, "rev-parse", "HEAD")
}

// HeadCommitTime er committer-tidspunktet til HEAD.
func (g *Git) HeadCommitTime(ctx context.Context, dir string) (time.Time, error) {
	out, err := g.run(ctx, dir, "log", "-1", "--format=%cI", "HEAD")
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339, out)
	if err != nil {
		return time.Time{}, fmt.Errorf("ugyldig commit-tidspunkt %q: %w", out, err)
	}
	return t, nil
}

// LastCommit er siste commit på HEAD som endret path. Tom streng hvis filen ikke er sporet.
func (g *Git) LastCommit(ctx context.Context, dir, path string) (string, error) {
	return g.run(ctx, dir, "rev-list", "-1", "HEAD", "--", path)
}
