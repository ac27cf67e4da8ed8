package analyzer_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jonmartinstorm/reposjekk/internal/analyzer"
	"github.com/jonmartinstorm/reposjekk/internal/collector"
	"github.com/jonmartinstorm/reposjekk/internal/config"
	"github.com/jonmartinstorm/reposjekk/internal/extraction"
	"github.com/jonmartinstorm/reposjekk/internal/mocks"
	"github.com/jonmartinstorm/reposjekk/internal/scoring"
	"github.com/stretchr/testify/mock"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestAnalyzer(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Analyzer Suite")
}

func testConfig() config.Config {
	return config.Config{
		Model:          "claude-haiku-4-5",
		CharLimit:      100000,
		Pricing:        map[string]config.Price{"claude-haiku-4-5": {InputPerMillion: 1, OutputPerMillion: 5}},
		Collector:      config.Collector{MaxCodeFiles: 10},
		LicensePhrases: []string{"BSD 3-Clause License", "BSD-3-Clause", "3-Clause BSD License"},
		Weights:        config.DefaultWeights,
	}
}

func fixedClock() time.Time {
	return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
}

const codePayload = `{"filepath":"feil/sti.py","github_commit_hash":"deadbeef","high_level_documentation":true,"code_factored":true,
	"function_analysis":[{"function_name":"run","clear_name":true,"type_annotations":false,"api_documentation":true,"code_comments":false,"explanation":"ok"}]}`

var _ = Describe("Analyzer", func() {
	var (
		ctx     context.Context
		backend *mocks.MockBackend
		scm     *mocks.MockSourceControl
		a       *analyzer.Analyzer
	)

	BeforeEach(func() {
		ctx = context.Background()
		backend = &mocks.MockBackend{}
		scm = &mocks.MockSourceControl{}
		a = analyzer.New(extraction.NewClient(backend, testConfig()), testConfig()).WithClock(fixedClock)
	})

	Describe("AnalyzeReadme", func() {
		It("returnerer nullanalyse uten å kalle modellen når README mangler", func() {
			analysis, cost := a.AnalyzeReadme(ctx, scm, nil)
			Expect(analysis.SetupCompleteness).To(BeZero())
			Expect(analysis.SetupSteps).To(BeEmpty())
			Expect(analysis.GithubCommitHash).To(BeNil())
			Expect(cost).To(BeZero())
			backend.AssertNotCalled(GinkgoT(), "Extract", mock.Anything, mock.Anything)
		})

		It("overskriver commit-hash fra modellen", func() {
			backend.On("Extract", ctx, mock.MatchedBy(func(r extraction.Request) bool {
				return r.Name == "readme_analysis"
			})).Return(extraction.Response{
				Payload:     []byte(`{"github_commit_hash":"fra-modellen","project_name":"demo","setup_steps":[{"description":"installer","command":"pip install ."}],"setup_completeness":4,"readme_quality":5}`),
				InputTokens: 1000,
			}, nil)
			scm.On("CommitHash", ctx, "README.md").Return("abc123", nil)

			analysis, cost := a.AnalyzeReadme(ctx, scm, &collector.File{Path: "README.md", Content: "# demo"})
			Expect(*analysis.GithubCommitHash).To(Equal("abc123"))
			Expect(analysis.SetupSteps).To(HaveLen(1))
			Expect(analysis.Prerequisites).NotTo(BeNil())
			Expect(cost).To(BeNumerically("~", 0.001))
		})

		It("gir nullanalyse når modellen nekter", func() {
			backend.On("Extract", ctx, mock.Anything).Return(extraction.Response{Refusal: "nei"}, nil)

			analysis, _ := a.AnalyzeReadme(ctx, scm, &collector.File{Path: "README.md", Content: "# demo"})
			Expect(analysis.ReadmeQuality).To(BeZero())
			Expect(analysis.GithubCommitHash).To(BeNil())
			scm.AssertNotCalled(GinkgoT(), "CommitHash", mock.Anything, mock.Anything)
		})
	})

	Describe("AnalyzeLicense", func() {
		const fullLicense = `BSD 3-Clause License

Copyright (c) 2026, Howard Hughes Medical Institute
All rights reserved.`

		It("gir full lisensscore for BSD 3-Clause med HHMI og inneværende år", func() {
			scm.On("CommitHash", ctx, "LICENSE").Return("abc", nil)

			l := a.AnalyzeLicense(ctx, scm, &collector.File{Path: "LICENSE", Content: fullLicense})
			Expect(l.HasLicense()).To(BeTrue())
			Expect(l.IsBSD3Clause).To(BeTrue())
			Expect(l.IsCopyrightHHMI).To(BeTrue())
			Expect(l.IsCurrentYear).To(BeTrue())
			Expect(scoring.LicenseScore(l)).To(Equal(5.0))
			backend.AssertNotCalled(GinkgoT(), "Extract", mock.Anything, mock.Anything)
		})

		It("gjenkjenner HHMI som eget ord i copyright-linjen", func() {
			scm.On("CommitHash", ctx, "LICENSE").Return("abc", nil)

			l := a.AnalyzeLicense(ctx, scm, &collector.File{Path: "LICENSE", Content: "SPDX: BSD-3-Clause\n  Copyright 2019 HHMI"})
			Expect(l.IsBSD3Clause).To(BeTrue())
			Expect(l.IsCopyrightHHMI).To(BeTrue())
			Expect(l.IsCurrentYear).To(BeFalse())
		})

		It("krever at HHMI står i en copyright-linje", func() {
			scm.On("CommitHash", ctx, "LICENSE").Return("abc", nil)

			l := a.AnalyzeLicense(ctx, scm, &collector.File{Path: "LICENSE", Content: "MIT License\nMade at HHMI\nCopyright 2026 Someone\nHHMIX"})
			Expect(l.IsBSD3Clause).To(BeFalse())
			Expect(l.IsCopyrightHHMI).To(BeFalse())
			Expect(l.IsCurrentYear).To(BeTrue())
		})

		It("gir tom analyse uten lisensfil", func() {
			l := a.AnalyzeLicense(ctx, scm, nil)
			Expect(l.HasLicense()).To(BeFalse())
			Expect(scoring.LicenseScore(l)).To(BeZero())
		})

		It("regnes fortsatt som lisens når commit-oppslaget feiler", func() {
			scm.On("CommitHash", ctx, "LICENSE").Return("", errors.New("git feilet"))

			l := a.AnalyzeLicense(ctx, scm, &collector.File{Path: "LICENSE", Content: "MIT"})
			Expect(l.HasLicense()).To(BeTrue())
		})
	})

	Describe("AnalyzeCode", func() {
		It("setter filsti og commit lokalt", func() {
			backend.On("Extract", ctx, mock.Anything).Return(extraction.Response{Payload: []byte(codePayload)}, nil)
			scm.On("CommitHash", ctx, "pkg/run.py").Return("c0ffee", nil)

			results, _ := a.AnalyzeCode(ctx, scm, []collector.File{{Path: "pkg/run.py", Content: "def run(): pass"}})
			Expect(results).To(HaveLen(1))
			Expect(results[0].FilePath).To(Equal("pkg/run.py"))
			Expect(*results[0].GithubCommitHash).To(Equal("c0ffee"))
			Expect(results[0].FunctionAnalysis[0].APIDocumentation).To(BeTrue())
		})

		It("hopper over filer som feiler eller blir nektet", func() {
			backend.On("Extract", ctx, mock.MatchedBy(func(r extraction.Request) bool {
				return strings.Contains(r.User, "a.py")
			})).Return(extraction.Response{}, errors.New("nettverksfeil"))
			backend.On("Extract", ctx, mock.MatchedBy(func(r extraction.Request) bool {
				return strings.Contains(r.User, "b.py")
			})).Return(extraction.Response{Refusal: "nei", InputTokens: 1_000_000}, nil)
			backend.On("Extract", ctx, mock.MatchedBy(func(r extraction.Request) bool {
				return strings.Contains(r.User, "c.py")
			})).Return(extraction.Response{Payload: []byte(codePayload)}, nil)
			scm.On("CommitHash", ctx, "c.py").Return("c", nil)

			files := []collector.File{{Path: "a.py"}, {Path: "b.py"}, {Path: "c.py"}}
			results, cost := a.AnalyzeCode(ctx, scm, files)
			Expect(results).To(HaveLen(1))
			Expect(results[0].FilePath).To(Equal("c.py"))
			Expect(cost).To(BeNumerically("~", 1.0))
		})

		It("analyserer alle ti filer i utvalget", func() {
			backend.On("Extract", ctx, mock.Anything).Return(extraction.Response{Payload: []byte(codePayload)}, nil)
			scm.On("CommitHash", ctx, mock.Anything).Return("h", nil)

			var files []collector.File
			for i := range 10 {
				files = append(files, collector.File{Path: fmt.Sprintf("m%02d.py", i)})
			}
			results, _ := a.AnalyzeCode(ctx, scm, files)
			Expect(results).To(HaveLen(10))
			backend.AssertNumberOfCalls(GinkgoT(), "Extract", 10)
		})

		It("stopper ved maks antall filer", func() {
			backend.On("Extract", ctx, mock.Anything).Return(extraction.Response{Payload: []byte(codePayload)}, nil)
			scm.On("CommitHash", ctx, mock.Anything).Return("h", nil)

			var files []collector.File
			for i := range 12 {
				files = append(files, collector.File{Path: fmt.Sprintf("m%02d.py", i)})
			}
			results, _ := a.AnalyzeCode(ctx, scm, files)
			Expect(results).To(HaveLen(10))
			backend.AssertNumberOfCalls(GinkgoT(), "Extract", 10)
		})

		It("returnerer tom liste når ingen filer gir resultat", func() {
			results, cost := a.AnalyzeCode(ctx, scm, nil)
			Expect(results).NotTo(BeNil())
			Expect(results).To(BeEmpty())
			Expect(cost).To(BeZero())
		})
	})
})
