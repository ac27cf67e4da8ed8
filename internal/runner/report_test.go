package runner_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/jonmartinstorm/reposjekk/internal/mocks"
	"github.com/jonmartinstorm/reposjekk/internal/models"
	"github.com/jonmartinstorm/reposjekk/internal/projectcache"
	"github.com/jonmartinstorm/reposjekk/internal/report"
	"github.com/jonmartinstorm/reposjekk/internal/runner"
	"github.com/stretchr/testify/mock"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Report", func() {
	var (
		ctx  context.Context
		opts runner.ReportOptions
	)

	BeforeEach(func() {
		ctx = context.Background()
		opts = runner.ReportOptions{
			CacheDir:  GinkgoT().TempDir(),
			OutputDir: filepath.Join(GinkgoT().TempDir(), "out"),
			HTML:      true,
		}

		for _, name := range []string{"JaneliaSciComp/b", "JaneliaSciComp/a"} {
			p := projectcache.New(opts.CacheDir, name, &mocks.MockGit{})
			Expect(p.Save(models.ProjectAnalysis{
				GithubMetadata: models.GithubMetadata{RepoName: name, Contributors: []string{"adam"}},
				ReadmeAnalysis: models.ZeroReadmeAnalysis(),
				CodeAnalysis:   []models.CodeDocumentationAnalysis{},
			})).To(Succeed())
		}
	})

	It("skriver HTML uten CSV som standard", func() {
		Expect(runner.Report(ctx, opts, nil)).To(Succeed())

		Expect(filepath.Join(opts.OutputDir, report.IndexFile)).To(BeAnExistingFile())
		Expect(filepath.Join(opts.OutputDir, report.PageName("JaneliaSciComp/a"))).To(BeAnExistingFile())
		Expect(filepath.Join(opts.OutputDir, report.AnalysisCSV)).NotTo(BeAnExistingFile())
	})

	It("skriver CSV når det er valgt", func() {
		opts.CSV = true
		opts.HTML = false
		Expect(runner.Report(ctx, opts, nil)).To(Succeed())

		Expect(filepath.Join(opts.OutputDir, report.AnalysisCSV)).To(BeAnExistingFile())
		Expect(filepath.Join(opts.OutputDir, report.CodeScoresCSV)).To(BeAnExistingFile())
		Expect(filepath.Join(opts.OutputDir, report.IndexFile)).NotTo(BeAnExistingFile())
	})

	It("eksporterer radene sortert på repo", func() {
		writer := &mocks.MockRowWriter{}
		writer.On("ImportRows", ctx, mock.MatchedBy(func(rows []models.ReportRow) bool {
			return len(rows) == 2 && rows[0].Repo == "JaneliaSciComp/a" && rows[1].Repo == "JaneliaSciComp/b"
		}), mock.Anything).Return(nil)

		Expect(runner.Report(ctx, opts, writer)).To(Succeed())
		writer.AssertExpectations(GinkgoT())
	})

	It("returnerer feil når eksporten feiler", func() {
		writer := &mocks.MockRowWriter{}
		writer.On("ImportRows", ctx, mock.Anything, mock.Anything).Return(errors.New("db nede"))

		err := runner.Report(ctx, opts, writer)
		Expect(err).To(MatchError(ContainSubstring("db nede")))
	})

	It("takler en tom cache", func() {
		opts.CacheDir = GinkgoT().TempDir()
		Expect(runner.Report(ctx, opts, nil)).To(Succeed())

		_, err := os.Stat(filepath.Join(opts.OutputDir, report.IndexFile))
		Expect(err).NotTo(HaveOccurred())
	})
})
