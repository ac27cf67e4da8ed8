package runner

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/jonmartinstorm/reposjekk/internal/models"
	"github.com/jonmartinstorm/reposjekk/internal/projectcache"
	"github.com/jonmartinstorm/reposjekk/internal/report"
)

type ReportOptions struct {
	CacheDir  string
	OutputDir string
	CSV       bool
	HTML      bool
}

// Report leser alle lagrede analyser og skriver rapportene. export kan være nil.
func Report(ctx context.Context, opts ReportOptions, export RowWriter) error {
	start := time.Now()

	analyses, err := projectcache.LoadAll(opts.CacheDir)
	if err != nil {
		return err
	}

	if opts.CSV || opts.HTML {
		if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
			return fmt.Errorf("kunne ikke opprette %s: %w", opts.OutputDir, err)
		}
	}

	if opts.CSV {
		if err := report.WriteCSV(opts.OutputDir, analyses); err != nil {
			return err
		}
		slog.Info("CSV skrevet", "katalog", opts.OutputDir)
	}

	if opts.HTML {
		w, err := report.NewHTMLWriter()
		if err != nil {
			return err
		}
		if err := w.Write(ctx, opts.OutputDir, analyses); err != nil {
			return err
		}
	}

	if export != nil {
		rows := make([]models.ReportRow, 0, len(analyses))
		for _, a := range analyses {
			rows = append(rows, report.BuildRow(a))
		}
		if err := export.ImportRows(ctx, rows, time.Now().UTC()); err != nil {
			return fmt.Errorf("eksport feilet: %w", err)
		}
	}

	LogMemoryStats()
	slog.Info("Rapport ferdig", "varighet", time.Since(start).String())
	return nil
}

func LogMemoryStats() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	slog.Debug("Minnebruk",
		"alloc", ByteSize(m.Alloc),
		"totalAlloc", ByteSize(m.TotalAlloc),
		"sys", ByteSize(m.Sys),
		"numGC", m.NumGC)
}

func ByteSize(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := unit, 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
