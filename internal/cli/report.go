package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jonmartinstorm/reposjekk/internal/bqwriter"
	"github.com/jonmartinstorm/reposjekk/internal/config"
	"github.com/jonmartinstorm/reposjekk/internal/dbwriter"
	"github.com/jonmartinstorm/reposjekk/internal/runner"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newReportCommand(v *viper.Viper, cfgFile *string) *cobra.Command {
	var writeCSV, writeHTML bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Lager CSV- og HTML-rapport fra lagrede analyser",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v, *cfgFile)
			if err != nil {
				return err
			}
			if err := config.ValidateReport(cfg); err != nil {
				return err
			}

			export, err := newRowWriter(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			if export != nil {
				defer func() {
					if cerr := export.Close(); cerr != nil {
						slog.Warn("Klarte ikke å lukke eksport", "error", cerr)
					}
				}()
			}

			return runner.Report(cmd.Context(), runner.ReportOptions{
				CacheDir:  cfg.CacheDir,
				OutputDir: cfg.OutputDir,
				CSV:       writeCSV,
				HTML:      writeHTML,
			}, export)
		},
	}

	flags := cmd.Flags()
	flags.String("output-dir", "output", "katalog for rapportene")
	flags.BoolVar(&writeCSV, "csv", false, "skriv analysis.csv og code_scores.csv")
	flags.BoolVar(&writeHTML, "html", true, "skriv index.html og en side per repo")
	flags.String("storage", "", "eksporter radene til postgres eller bigquery")
	bindFlags(v, flags, map[string]string{
		"output_dir": "output-dir",
		"storage":    "storage",
	})
	return cmd
}

// newRowWriter gir nil når ingen eksport er konfigurert.
func newRowWriter(ctx context.Context, cfg config.Config) (runner.RowWriter, error) {
	switch cfg.Storage {
	case config.StoragePostgres:
		w, err := dbwriter.NewPostgresWriter(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return w, nil
	case config.StorageBigQuery:
		w, err := bqwriter.NewBigQueryWriter(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return w, nil
	case config.StorageNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("ugyldig lagring %q", cfg.Storage)
	}
}
