package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jonmartinstorm/reposjekk/internal/config"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestConfig(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Config Suite")
}

func setenv(key, value string) {
	Expect(os.Setenv(key, value)).To(Succeed())
	DeferCleanup(os.Unsetenv, key)
}

var _ = Describe("Load", func() {
	It("should apply defaults", func() {
		cfg, err := config.Load(config.NewViper(), "")
		Expect(err).NotTo(HaveOccurred())

		Expect(cfg.CacheDir).To(Equal("cache"))
		Expect(cfg.OutputDir).To(Equal("output"))
		Expect(cfg.Provider).To(Equal(config.ProviderAnthropic))
		Expect(cfg.Model).To(Equal("claude-haiku-4-5"))
		Expect(cfg.CharLimit).To(Equal(100000))
		Expect(cfg.Collector.MaxCodeFiles).To(Equal(10))
		Expect(cfg.Collector.CodeExtensions).To(ConsistOf(".py", ".ipynb"))
		Expect(cfg.Weights).To(Equal(config.DefaultWeights))
		Expect(cfg.AnalyzeCode).To(BeTrue())
		Expect(cfg.IncludePrivate).To(BeFalse())
	})

	It("slår på private repos fra miljøet", func() {
		setenv("REPOSJEKK_INCLUDE_PRIVATE", "true")

		cfg, err := config.Load(config.NewViper(), "")
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.IncludePrivate).To(BeTrue())
	})

	It("should keep dotted model names in the price table", func() {
		cfg, err := config.Load(config.NewViper(), "")
		Expect(err).NotTo(HaveOccurred())

		Expect(cfg.PriceFor("gemini-2.5-flash").InputPerMillion).To(BeNumerically("~", 0.30))
		Expect(cfg.PriceFor("ukjent-modell")).To(Equal(config.Price{}))
	})

	It("should read tokens from unprefixed env vars", func() {
		setenv("GITHUB_TOKEN", "abc123")
		setenv("REPO_STORAGE", "Postgres")
		setenv("REPOSJEKK_COLLECTOR_MAX_CODE_FILES", "3")

		cfg, err := config.Load(config.NewViper(), "")
		Expect(err).NotTo(HaveOccurred())

		Expect(cfg.Token).To(Equal("abc123"))
		Expect(cfg.Storage).To(Equal(config.StoragePostgres))
		Expect(cfg.Collector.MaxCodeFiles).To(Equal(3))
	})

	It("velger standardmodell for gemini", func() {
		v := config.NewViper()
		v.Set("provider", "gemini")

		cfg, err := config.Load(v, "")
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Model).To(Equal("gemini-2.5-flash"))
	})

	It("leser vekter fra konfigfil", func() {
		path := filepath.Join(GinkgoT().TempDir(), "reposjekk.yaml")
		Expect(os.WriteFile(path, []byte("weights:\n  license: 3\n"), 0o644)).To(Succeed())

		cfg, err := config.Load(config.NewViper(), path)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Weights.License).To(Equal(3.0))
		Expect(cfg.Weights.SetupCompleteness).To(Equal(5.0))
	})
})

var _ = Describe("ValidateAnalyze", func() {
	var cfg config.Config

	BeforeEach(func() {
		var err error
		cfg, err = config.Load(config.NewViper(), "")
		Expect(err).NotTo(HaveOccurred())
		cfg.Token = "t"
		cfg.AnthropicAPIKey = "k"
	})

	It("should pass if all fields are valid", func() {
		Expect(config.ValidateAnalyze(cfg)).To(Succeed())
	})

	It("should return error if token is missing", func() {
		cfg.Token = ""
		err := config.ValidateAnalyze(cfg)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("GITHUB_TOKEN"))
	})

	It("accepts GitHub App auth instead of a token", func() {
		cfg.Token = ""
		cfg.AppID = 1
		cfg.AppInstallationID = 2
		cfg.AppPrivateKeyPath = "/tmp/key.pem"
		Expect(config.ValidateAnalyze(cfg)).To(Succeed())
	})

	It("should return error if the provider key is missing", func() {
		cfg.Provider = config.ProviderGemini
		err := config.ValidateAnalyze(cfg)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("GEMINI_API_KEY"))
	})

	It("should reject unknown providers", func() {
		cfg.Provider = "openai"
		Expect(config.ValidateAnalyze(cfg)).To(MatchError(ContainSubstring("ugyldig provider")))
	})

	It("should reject negative weights", func() {
		cfg.Weights.License = -1
		Expect(config.ValidateAnalyze(cfg)).To(MatchError(ContainSubstring("license")))
	})
})

var _ = Describe("ValidateReport", func() {
	base := config.Config{CacheDir: "cache", OutputDir: "out"}

	It("should pass without storage", func() {
		Expect(config.ValidateReport(base)).To(Succeed())
	})

	It("should return error if DSN is missing", func() {
		cfg := base
		cfg.Storage = config.StoragePostgres
		err := config.ValidateReport(cfg)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("POSTGRES_DSN"))
	})

	It("should return error if bigquery settings are missing", func() {
		cfg := base
		cfg.Storage = config.StorageBigQuery
		cfg.BQProjectID = "p"
		Expect(config.ValidateReport(cfg)).To(MatchError(ContainSubstring("BQ_DATASET")))
	})

	It("should return error for unknown storage", func() {
		cfg := base
		cfg.Storage = "sqlite"
		Expect(config.ValidateReport(cfg)).To(MatchError(ContainSubstring("REPO_STORAGE")))
	})
})
