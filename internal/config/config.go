package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type StorageType string

const (
	StorageNone     StorageType = ""
	StoragePostgres StorageType = "postgres"
	StorageBigQuery StorageType = "bigquery"
)

type ProviderType string

const (
	ProviderAnthropic ProviderType = "anthropic"
	ProviderGemini    ProviderType = "gemini"
)

// KeyDelimiter er byttet ut fordi modellnavn i prislisten inneholder punktum.
const KeyDelimiter = "::"

// Weights er vektene i den samlede kvalitetsscoren.
type Weights struct {
	SetupCompleteness float64 `mapstructure:"setup_completeness"`
	ReadmeQuality     float64 `mapstructure:"readme_quality"`
	APIDocumentation  float64 `mapstructure:"api_documentation"`
	CodeComments      float64 `mapstructure:"code_comments"`
	License           float64 `mapstructure:"license"`
}

// Price er USD per million tokens.
type Price struct {
	InputPerMillion  float64 `mapstructure:"input_per_million"`
	OutputPerMillion float64 `mapstructure:"output_per_million"`
}

type Collector struct {
	MaxCodeFiles   int      `mapstructure:"max_code_files"`
	SampleSeed     uint64   `mapstructure:"sample_seed"`
	ReadmeNames    []string `mapstructure:"readme_names"`
	LicenseNames   []string `mapstructure:"license_names"`
	CodeExtensions []string `mapstructure:"code_extensions"`
}

type Config struct {
	CacheDir  string `mapstructure:"cache_dir"`
	OutputDir string `mapstructure:"output_dir"`
	Debug     bool   `mapstructure:"debug"`

	Token                string `mapstructure:"github_token"`
	AppID                int64  `mapstructure:"github_app_id"`
	AppInstallationID    int64  `mapstructure:"github_app_installation_id"`
	AppPrivateKeyPath    string `mapstructure:"github_app_private_key"`
	UseSSH               bool   `mapstructure:"ssh"`
	GitHubBaseURL        string `mapstructure:"github_base_url"`
	SkipForksAndArchived bool   `mapstructure:"skip_forks_and_archived"`
	IncludePrivate       bool   `mapstructure:"include_private"`

	Provider          ProviderType     `mapstructure:"provider"`
	Model             string           `mapstructure:"model"`
	AnthropicAPIKey   string           `mapstructure:"anthropic_api_key"`
	GeminiAPIKey      string           `mapstructure:"gemini_api_key"`
	MaxTokens         int64            `mapstructure:"max_tokens"`
	RequestsPerMinute int              `mapstructure:"requests_per_minute"`
	CharLimit         int              `mapstructure:"char_limit"`
	Pricing           map[string]Price `mapstructure:"pricing"`

	AnalyzeCode    bool      `mapstructure:"analyze_code"`
	Collector      Collector `mapstructure:"collector"`
	LicensePhrases []string  `mapstructure:"license_phrases"`
	Weights        Weights   `mapstructure:"weights"`

	Storage       StorageType `mapstructure:"storage"`
	PostgresDSN   string      `mapstructure:"postgres_dsn"`
	BQProjectID   string      `mapstructure:"bq_project_id"`
	BQDataset     string      `mapstructure:"bq_dataset"`
	BQTable       string      `mapstructure:"bq_table"`
	BQCredentials string      `mapstructure:"bq_credentials"` // Valgfritt hvis GCP auth skjer automatisk
}

var DefaultWeights = Weights{
	SetupCompleteness: 5,
	ReadmeQuality:     4,
	APIDocumentation:  4,
	CodeComments:      2,
	License:           1,
}

var DefaultPricing = map[string]Price{
	"claude-haiku-4-5":  {InputPerMillion: 1.00, OutputPerMillion: 5.00},
	"claude-sonnet-4-5": {InputPerMillion: 3.00, OutputPerMillion: 15.00},
	"gemini-2.5-flash":  {InputPerMillion: 0.30, OutputPerMillion: 2.50},
	"gemini-2.5-pro":    {InputPerMillion: 1.25, OutputPerMillion: 10.00},
}

var DefaultModels = map[ProviderType]string{
	ProviderAnthropic: "claude-haiku-4-5",
	ProviderGemini:    "gemini-2.5-flash",
}

// envAliases binder nøkler til miljøvariabler uten prefiks.
var envAliases = map[string]string{
	"github_token":               "GITHUB_TOKEN",
	"github_app_id":              "GITHUB_APP_ID",
	"github_app_installation_id": "GITHUB_APP_INSTALLATION_ID",
	"github_app_private_key":     "GITHUB_APP_PRIVATE_KEY",
	"anthropic_api_key":          "ANTHROPIC_API_KEY",
	"gemini_api_key":             "GEMINI_API_KEY",
	"storage":                    "REPO_STORAGE",
	"postgres_dsn":               "POSTGRES_DSN",
	"bq_project_id":              "BQ_PROJECT_ID",
	"bq_dataset":                 "BQ_DATASET",
	"bq_table":                   "BQ_TABLE",
	"bq_credentials":             "BQ_CREDENTIALS",
}

// NewViper lager en viper-instans med standardverdier og miljøbinding.
func NewViper() *viper.Viper {
	v := viper.NewWithOptions(viper.KeyDelimiter(KeyDelimiter))

	v.SetDefault("cache_dir", "cache")
	v.SetDefault("output_dir", "output")
	v.SetDefault("debug", false)
	v.SetDefault("github_token", "")
	v.SetDefault("github_app_id", 0)
	v.SetDefault("github_app_installation_id", 0)
	v.SetDefault("github_app_private_key", "")
	v.SetDefault("ssh", false)
	v.SetDefault("github_base_url", "")
	v.SetDefault("skip_forks_and_archived", true)
	v.SetDefault("include_private", false)
	v.SetDefault("provider", string(ProviderAnthropic))
	v.SetDefault("model", "")
	v.SetDefault("anthropic_api_key", "")
	v.SetDefault("gemini_api_key", "")
	v.SetDefault("max_tokens", 8192)
	v.SetDefault("requests_per_minute", 0)
	v.SetDefault("char_limit", 100000)
	v.SetDefault("pricing", pricingDefaults())
	v.SetDefault("analyze_code", true)
	v.SetDefault("collector::max_code_files", 10)
	v.SetDefault("collector::sample_seed", 42)
	v.SetDefault("collector::readme_names", []string{"README", "README.md", "README.mdown", "README.rst", "README.txt"})
	v.SetDefault("collector::license_names", []string{"LICENSE", "LICENSE.md", "LICENSE.mdown", "LICENSE.txt"})
	v.SetDefault("collector::code_extensions", []string{".py", ".ipynb"})
	v.SetDefault("license_phrases", []string{"BSD 3-Clause License", "BSD-3-Clause", "3-Clause BSD License"})
	v.SetDefault("weights::setup_completeness", DefaultWeights.SetupCompleteness)
	v.SetDefault("weights::readme_quality", DefaultWeights.ReadmeQuality)
	v.SetDefault("weights::api_documentation", DefaultWeights.APIDocumentation)
	v.SetDefault("weights::code_comments", DefaultWeights.CodeComments)
	v.SetDefault("weights::license", DefaultWeights.License)
	v.SetDefault("storage", "")
	v.SetDefault("postgres_dsn", "")
	v.SetDefault("bq_project_id", "")
	v.SetDefault("bq_dataset", "")
	v.SetDefault("bq_table", "repo_scores")
	v.SetDefault("bq_credentials", "")

	v.SetEnvPrefix("REPOSJEKK")
	v.SetEnvKeyReplacer(strings.NewReplacer(KeyDelimiter, "_"))
	v.AutomaticEnv()
	for key, env := range envAliases {
		// Prefiksert variabel vinner over aliaset.
		_ = v.BindEnv(key, "REPOSJEKK_"+strings.ToUpper(key), env)
	}

	return v
}

func pricingDefaults() map[string]any {
	out := map[string]any{}
	for model, p := range DefaultPricing {
		out[model] = map[string]any{
			"input_per_million":  p.InputPerMillion,
			"output_per_million": p.OutputPerMillion,
		}
	}
	return out
}

// Load leser valgfri konfigfil og returnerer ferdig utfylt Config.
func Load(v *viper.Viper, cfgFile string) (Config, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("kunne ikke lese konfigfil %s: %w", cfgFile, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("kunne ikke tolke konfigurasjon: %w", err)
	}

	cfg.Provider = ProviderType(strings.ToLower(string(cfg.Provider)))
	cfg.Storage = StorageType(strings.ToLower(string(cfg.Storage)))
	if cfg.Model == "" {
		cfg.Model = DefaultModels[cfg.Provider]
	}

	return cfg, nil
}

func (c Config) HasAppAuth() bool {
	return c.AppID != 0 && c.AppInstallationID != 0 && c.AppPrivateKeyPath != ""
}

// PriceFor returnerer prisen for modellen, eller null hvis den er ukjent.
func (c Config) PriceFor(model string) Price {
	return c.Pricing[strings.ToLower(model)]
}

// ValidateAnalyze sjekker det som må være satt for å kjøre analyse.
func ValidateAnalyze(cfg Config) error {
	if cfg.Token == "" && !cfg.HasAppAuth() {
		return errors.New("GITHUB_TOKEN må være satt (eller GITHUB_APP_ID, GITHUB_APP_INSTALLATION_ID og GITHUB_APP_PRIVATE_KEY)")
	}
	if cfg.CacheDir == "" {
		return errors.New("cache-katalog må være satt")
	}

	switch cfg.Provider {
	case ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return errors.New("ANTHROPIC_API_KEY må være satt for provider 'anthropic'")
		}
	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return errors.New("GEMINI_API_KEY må være satt for provider 'gemini'")
		}
	default:
		return fmt.Errorf("ugyldig provider %q – må være 'anthropic' eller 'gemini'", cfg.Provider)
	}

	if cfg.Model == "" {
		return errors.New("modell må være satt")
	}
	if cfg.Collector.MaxCodeFiles <= 0 {
		return errors.New("collector::max_code_files må være et positivt heltall")
	}
	if cfg.CharLimit <= 0 {
		return errors.New("char_limit må være et positivt heltall")
	}
	if cfg.RequestsPerMinute < 0 {
		return errors.New("requests_per_minute kan ikke være negativ")
	}
	return validateWeights(cfg.Weights)
}

// ValidateReport sjekker rapportkonfigurasjon og eventuell eksport.
func ValidateReport(cfg Config) error {
	if cfg.CacheDir == "" {
		return errors.New("cache-katalog må være satt")
	}
	if cfg.OutputDir == "" {
		return errors.New("output-katalog må være satt")
	}

	switch cfg.Storage {
	case StorageNone:
	case StoragePostgres:
		if cfg.PostgresDSN == "" {
			return errors.New("POSTGRES_DSN må være satt for postgres-lagring")
		}
	case StorageBigQuery:
		if cfg.BQProjectID == "" || cfg.BQDataset == "" || cfg.BQTable == "" {
			return errors.New("BQ_PROJECT_ID, BQ_DATASET og BQ_TABLE må være satt for bigquery-lagring")
		}
	default:
		return errors.New("ugyldig verdi for REPO_STORAGE – må være 'postgres' eller 'bigquery'")
	}
	return nil
}

func validateWeights(w Weights) error {
	for name, val := range map[string]float64{
		"setup_completeness": w.SetupCompleteness,
		"readme_quality":     w.ReadmeQuality,
		"api_documentation":  w.APIDocumentation,
		"code_comments":      w.CodeComments,
		"license":            w.License,
	} {
		if val < 0 {
			return fmt.Errorf("vekten %s kan ikke være negativ", name)
		}
	}
	if w.SetupCompleteness+w.ReadmeQuality+w.APIDocumentation+w.CodeComments+w.License == 0 {
		return errors.New("minst én vekt må være større enn null")
	}
	return nil
}
