// Package projectcache eier katalogen per repo: checkout under repo/ og analysis.json ved siden av.
package projectcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jonmartinstorm/reposjekk/internal/models"
)

const (
	AnalysisFile = "analysis.json"
	RepoDir      = "repo"
)

var ErrNoAnalysis = errors.New("ingen lagret analyse")

type SourceControl interface {
	Clone(ctx context.Context, url, dir string) error
	Pull(ctx context.Context, dir string) error
	HeadCommit(ctx context.Context, dir string) (string, error)
	HeadCommitTime(ctx context.Context, dir string) (time.Time, error)
	LastCommit(ctx context.Context, dir, path string) (string, error)
}

type Project struct {
	fullName string
	dir      string
	scm      SourceControl
}

// New lager cachen for fullName (owner/repo) under cacheDir.
func New(cacheDir, fullName string, scm SourceControl) *Project {
	return &Project{
		fullName: fullName,
		dir:      filepath.Join(cacheDir, filepath.FromSlash(fullName)),
		scm:      scm,
	}
}

func (p *Project) Dir() string {
	return p.dir
}

func (p *Project) RepoPath() string {
	return filepath.Join(p.dir, RepoDir)
}

func (p *Project) AnalysisPath() string {
	return filepath.Join(p.dir, AnalysisFile)
}

// CloneOrUpdate kloner ved første kjøring og puller ellers. changed er true når HEAD flyttet seg.
// En checkout uten lesbar HEAD, f.eks. etter en avbrutt kloning, slettes og klones på nytt.
func (p *Project) CloneOrUpdate(ctx context.Context, url string) (bool, error) {
	repoPath := p.RepoPath()

	if _, err := os.Stat(repoPath); errors.Is(err, os.ErrNotExist) {
		return true, p.clone(ctx, url)
	} else if err != nil {
		return false, err
	}

	before, err := p.scm.HeadCommit(ctx, repoPath)
	if err != nil {
		slog.Warn("Ødelagt checkout, kloner på nytt", "repo", p.fullName, "error", err)
		if err := os.RemoveAll(repoPath); err != nil {
			return false, fmt.Errorf("kunne ikke slette %s: %w", repoPath, err)
		}
		return true, p.clone(ctx, url)
	}
	slog.Debug("Oppdaterer repo", "repo", p.fullName)
	if err := p.scm.Pull(ctx, repoPath); err != nil {
		return false, fmt.Errorf("pull av %s feilet: %w", p.fullName, err)
	}
	after, err := p.scm.HeadCommit(ctx, repoPath)
	if err != nil {
		return false, fmt.Errorf("kunne ikke lese HEAD for %s: %w", p.fullName, err)
	}
	return before != after, nil
}

func (p *Project) clone(ctx context.Context, url string) error {
	repoPath := p.RepoPath()
	slog.Debug("Kloner repo", "repo", p.fullName, "sti", repoPath)
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return fmt.Errorf("kunne ikke opprette %s: %w", p.dir, err)
	}
	if err := p.scm.Clone(ctx, url, repoPath); err != nil {
		_ = os.RemoveAll(repoPath)
		return fmt.Errorf("kloning av %s feilet: %w", p.fullName, err)
	}
	return nil
}

func (p *Project) CommitHash(ctx context.Context, relPath string) (string, error) {
	return p.scm.LastCommit(ctx, p.RepoPath(), relPath)
}

func (p *Project) LastCommitDate(ctx context.Context) (time.Time, error) {
	return p.scm.HeadCommitTime(ctx, p.RepoPath())
}

// Save skriver til en midlertidig fil og gir den nytt navn, så en avbrutt kjøring ikke etterlater halve dokumenter.
func (p *Project) Save(analysis models.ProjectAnalysis) error {
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return fmt.Errorf("kunne ikke opprette %s: %w", p.dir, err)
	}

	data, err := json.MarshalIndent(analysis, "", "    ")
	if err != nil {
		return fmt.Errorf("kunne ikke serialisere analyse for %s: %w", p.fullName, err)
	}

	tmp, err := os.CreateTemp(p.dir, AnalysisFile+".*.tmp")
	if err != nil {
		return fmt.Errorf("kunne ikke opprette midlertidig fil: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("kunne ikke skrive analyse: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("kunne ikke lukke midlertidig fil: %w", err)
	}
	if err := os.Rename(tmp.Name(), p.AnalysisPath()); err != nil {
		return fmt.Errorf("kunne ikke lagre %s: %w", p.AnalysisPath(), err)
	}

	slog.Info("Analyse lagret", "repo", p.fullName, "fil", p.AnalysisPath())
	return nil
}

func (p *Project) Exists() bool {
	_, err := os.Stat(p.AnalysisPath())
	return err == nil
}

// Remove sletter analysis.json men lar checkouten ligge.
func (p *Project) Remove() error {
	err := os.Remove(p.AnalysisPath())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("kunne ikke slette analyse for %s: %w", p.fullName, err)
	}
	slog.Info("Slettet eksisterende analyse", "repo", p.fullName)
	return nil
}

func (p *Project) Load() (models.ProjectAnalysis, error) {
	analysis, err := readAnalysis(p.AnalysisPath())
	if errors.Is(err, os.ErrNotExist) {
		return models.ProjectAnalysis{}, fmt.Errorf("%s: %w", p.fullName, ErrNoAnalysis)
	}
	return analysis, err
}

// ShouldSkip er sann kun når repoet er uendret, allerede analysert og force ikke er satt.
func (p *Project) ShouldSkip(changed, force bool) bool {
	return !changed && !force && p.Exists()
}
