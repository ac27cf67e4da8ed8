// Package cli bygger kommandotreet for reposjekk.
package cli

import (
	"io"

	"github.com/jonmartinstorm/reposjekk/internal/config"
	"github.com/jonmartinstorm/reposjekk/internal/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// NewRootCommand lager rotkommandoen. Logger skrives til logOut.
func NewRootCommand(logOut io.Writer) *cobra.Command {
	v := config.NewViper()
	var cfgFile string

	root := &cobra.Command{
		Use:           "reposjekk",
		Short:         "Vurderer dokumentasjon og oppsett i GitHub-repos",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.SetupLogger(logOut)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "konfigfil (YAML)")
	flags.String("cache-dir", "cache", "katalog for kloner og analysis.json")
	flags.Bool("debug", false, "debug-logging")
	bindFlags(v, flags, map[string]string{
		"cache_dir": "cache-dir",
		"debug":     "debug",
	})

	root.AddCommand(
		newAnalyzeCommand(v, &cfgFile),
		newReportCommand(v, &cfgFile),
	)
	return root
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		_ = v.BindPFlag(key, flags.Lookup(name))
	}
}

func loadConfig(v *viper.Viper, cfgFile string) (config.Config, error) {
	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return config.Config{}, err
	}
	logger.SetDebug(cfg.Debug)
	return cfg, nil
}
