// Package collector henter README, LICENSE og et utvalg kildefiler fra en lokal checkout.
package collector

import (
	"fmt"
	"io/fs"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/jonmartinstorm/reposjekk/internal/config"
	"golang.org/x/text/encoding/charmap"
)

// File er en innlest fil med sti relativt til checkouten (alltid med /).
type File struct {
	Path    string
	Content string
}

type Content struct {
	Readme  *File
	License *File
	Code    []File
	// Candidates er antall kildefiler før sampling.
	Candidates int
}

type Collector struct {
	cfg config.Collector
}

func New(cfg config.Collector) *Collector {
	return &Collector{cfg: cfg}
}

func (c *Collector) Collect(root string) (Content, error) {
	var content Content
	var candidates []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			slog.Warn("Kunne ikke lese", "fil", path, "error", err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		name := d.Name()

		if !strings.Contains(rel, "/") {
			switch {
			case matchesAny(name, c.cfg.ReadmeNames):
				content.Readme = c.readRoot(path, rel, content.Readme)
				return nil
			case matchesAny(name, c.cfg.LicenseNames):
				content.License = c.readRoot(path, rel, content.License)
				return nil
			}
		}

		if c.isCandidate(name) {
			candidates = append(candidates, rel)
		}
		return nil
	})
	if err != nil {
		return Content{}, fmt.Errorf("kunne ikke gå gjennom %s: %w", root, err)
	}

	for _, rel := range candidates {
		text, err := readSource(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			slog.Warn("Hopper over kildefil", "fil", rel, "error", err)
			continue
		}
		content.Code = append(content.Code, File{Path: rel, Content: text})
	}
	content.Candidates = len(content.Code)

	if n := c.cfg.MaxCodeFiles; n > 0 && len(content.Code) > n {
		content.Code = Sample(content.Code, n, c.cfg.SampleSeed)
		slog.Warn("For mange kildefiler, analyserer et tilfeldig utvalg",
			"kandidater", content.Candidates,
			"utvalg", len(content.Code))
	}

	return content, nil
}

// readRoot beholder første treff; WalkDir går i leksikografisk rekkefølge.
func (c *Collector) readRoot(path, rel string, current *File) *File {
	if current != nil {
		return current
	}
	text, err := readText(path)
	if err != nil {
		slog.Warn("Kunne ikke lese fil", "fil", rel, "error", err)
		return nil
	}
	slog.Debug("Fant fil i rotkatalog", "fil", rel)
	return &File{Path: rel, Content: text}
}

func (c *Collector) isCandidate(name string) bool {
	lower := strings.ToLower(name)
	if lower == "__init__.py" || strings.Contains(lower, "test") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(name))
	return slices.ContainsFunc(c.cfg.CodeExtensions, func(e string) bool {
		return strings.EqualFold(e, ext)
	})
}

func matchesAny(name string, allowed []string) bool {
	return slices.ContainsFunc(allowed, func(a string) bool {
		return strings.EqualFold(a, name)
	})
}

// Sample velger n filer uniformt med fast seed og bevarer rekkefølgen i files.
func Sample(files []File, n int, seed uint64) []File {
	if n >= len(files) {
		return files
	}
	rng := rand.New(rand.NewPCG(seed, seed))
	picked := rng.Perm(len(files))[:n]
	slices.Sort(picked)

	out := make([]File, 0, n)
	for _, i := range picked {
		out = append(out, files[i])
	}
	return out
}

func readSource(path string) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".ipynb") {
		raw, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return NotebookToScript(raw)
	}
	return readText(path)
}

// readText leser UTF-8 og faller tilbake til ISO-8859-1.
func readText(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("kunne ikke dekode %s: %w", path, err)
	}
	return string(decoded), nil
}
