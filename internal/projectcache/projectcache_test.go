package projectcache_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonmartinstorm/reposjekk/internal/mocks"
	"github.com/jonmartinstorm/reposjekk/internal/models"
	"github.com/jonmartinstorm/reposjekk/internal/projectcache"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestProjectcache(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Projectcache Suite")
}

func sample(name string, normalized float64) models.ProjectAnalysis {
	return models.ProjectAnalysis{
		GithubMetadata: models.GithubMetadata{RepoName: name, RepoURL: "https://github.com/" + name, Contributors: []string{}},
		LastCommitDate: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		AnalysisDate:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		ReadmeAnalysis: models.ZeroReadmeAnalysis(),
		CodeAnalysis:   []models.CodeDocumentationAnalysis{},
		GlobalScores:   models.GlobalQualityScores{Normalized: normalized},
	}
}

var _ = Describe("Project", func() {
	var (
		ctx      context.Context
		cacheDir string
		git      *mocks.MockGit
		project  *projectcache.Project
	)

	BeforeEach(func() {
		ctx = context.Background()
		cacheDir = GinkgoT().TempDir()
		git = &mocks.MockGit{}
		project = projectcache.New(cacheDir, "JaneliaSciComp/demo", git)
	})

	It("legger checkouten under <cache>/<owner>/<repo>/repo", func() {
		Expect(project.RepoPath()).To(Equal(filepath.Join(cacheDir, "JaneliaSciComp", "demo", "repo")))
		Expect(project.AnalysisPath()).To(Equal(filepath.Join(cacheDir, "JaneliaSciComp", "demo", "analysis.json")))
	})

	Describe("CloneOrUpdate", func() {
		It("kloner første gang og melder endring", func() {
			git.On("Clone", ctx, "https://github.com/JaneliaSciComp/demo.git", project.RepoPath()).Return(nil)

			changed, err := project.CloneOrUpdate(ctx, "https://github.com/JaneliaSciComp/demo.git")
			Expect(err).NotTo(HaveOccurred())
			Expect(changed).To(BeTrue())
			git.AssertNotCalled(GinkgoT(), "Pull", ctx, project.RepoPath())
		})

		Context("når checkouten finnes", func() {
			BeforeEach(func() {
				Expect(os.MkdirAll(project.RepoPath(), 0o755)).To(Succeed())
				git.On("Pull", ctx, project.RepoPath()).Return(nil)
			})

			It("melder ingen endring når HEAD står stille", func() {
				git.On("HeadCommit", ctx, project.RepoPath()).Return("aaa", nil)

				changed, err := project.CloneOrUpdate(ctx, "url")
				Expect(err).NotTo(HaveOccurred())
				Expect(changed).To(BeFalse())
				git.AssertNotCalled(GinkgoT(), "Clone", ctx, "url", project.RepoPath())
			})

			It("melder endring når HEAD flytter seg", func() {
				git.On("HeadCommit", ctx, project.RepoPath()).Return("aaa", nil).Once()
				git.On("HeadCommit", ctx, project.RepoPath()).Return("bbb", nil).Once()

				changed, err := project.CloneOrUpdate(ctx, "url")
				Expect(err).NotTo(HaveOccurred())
				Expect(changed).To(BeTrue())
			})

			It("sletter og kloner på nytt når HEAD ikke kan leses", func() {
				leftover := filepath.Join(project.RepoPath(), "halvferdig")
				Expect(os.WriteFile(leftover, []byte("x"), 0o644)).To(Succeed())
				git.On("HeadCommit", ctx, project.RepoPath()).Return("", errors.New("not a git repository"))
				git.On("Clone", ctx, "url", project.RepoPath()).Return(nil)

				changed, err := project.CloneOrUpdate(ctx, "url")
				Expect(err).NotTo(HaveOccurred())
				Expect(changed).To(BeTrue())
				Expect(leftover).NotTo(BeAnExistingFile())
				git.AssertCalled(GinkgoT(), "Clone", ctx, "url", project.RepoPath())
				git.AssertNotCalled(GinkgoT(), "Pull", ctx, project.RepoPath())
			})
		})

		It("returnerer feil når kloning feiler", func() {
			git.On("Clone", ctx, "url", project.RepoPath()).Return(errors.New("nekter"))

			_, err := project.CloneOrUpdate(ctx, "url")
			Expect(err).To(MatchError(ContainSubstring("nekter")))
			Expect(project.RepoPath()).NotTo(BeADirectory())
		})
	})

	It("slår opp commit for filer i checkouten", func() {
		git.On("LastCommit", ctx, project.RepoPath(), "README.md").Return("abc", nil)

		hash, err := project.CommitHash(ctx, "README.md")
		Expect(err).NotTo(HaveOccurred())
		Expect(hash).To(Equal("abc"))
	})

	Describe("lagring", func() {
		It("lagrer og leser tilbake samme dokument", func() {
			Expect(project.Exists()).To(BeFalse())
			Expect(project.Save(sample("JaneliaSciComp/demo", 3.2))).To(Succeed())
			Expect(project.Exists()).To(BeTrue())

			loaded, err := project.Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(Equal(sample("JaneliaSciComp/demo", 3.2)))

			leftovers, _ := filepath.Glob(filepath.Join(project.Dir(), "*.tmp"))
			Expect(leftovers).To(BeEmpty())
		})

		It("skriver innrykket JSON med originale feltnavn", func() {
			Expect(project.Save(sample("JaneliaSciComp/demo", 1))).To(Succeed())
			data, err := os.ReadFile(project.AnalysisPath())
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(ContainSubstring("\n    \"github_metadata\": {"))
			Expect(string(data)).To(ContainSubstring(`"global_scores"`))
		})

		It("gir ErrNoAnalysis når dokumentet mangler", func() {
			_, err := project.Load()
			Expect(errors.Is(err, projectcache.ErrNoAnalysis)).To(BeTrue())
		})

		It("fjerner dokumentet men ikke checkouten", func() {
			Expect(os.MkdirAll(project.RepoPath(), 0o755)).To(Succeed())
			Expect(project.Save(sample("JaneliaSciComp/demo", 1))).To(Succeed())

			Expect(project.Remove()).To(Succeed())
			Expect(project.Exists()).To(BeFalse())
			Expect(project.RepoPath()).To(BeADirectory())
			Expect(project.Remove()).To(Succeed())
		})
	})

	Describe("ShouldSkip", func() {
		It("hopper bare over uendrede, analyserte repo uten force", func() {
			Expect(project.ShouldSkip(false, false)).To(BeFalse())

			Expect(project.Save(sample("JaneliaSciComp/demo", 1))).To(Succeed())
			Expect(project.ShouldSkip(false, false)).To(BeTrue())
			Expect(project.ShouldSkip(true, false)).To(BeFalse())
			Expect(project.ShouldSkip(false, true)).To(BeFalse())
		})
	})
})

var _ = Describe("LoadAll", func() {
	It("leser alle dokumenter sortert og hopper over ødelagte", func() {
		cacheDir := GinkgoT().TempDir()
		Expect(projectcache.New(cacheDir, "org/zeta", nil).Save(sample("org/zeta", 1))).To(Succeed())
		Expect(projectcache.New(cacheDir, "org/alpha", nil).Save(sample("org/alpha", 2))).To(Succeed())

		broken := filepath.Join(cacheDir, "org", "broken")
		Expect(os.MkdirAll(broken, 0o755)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(broken, "analysis.json"), []byte(`{"github_metadata":`), 0o644)).To(Succeed())

		invalid := filepath.Join(cacheDir, "org", "invalid")
		Expect(os.MkdirAll(invalid, 0o755)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(invalid, "analysis.json"), []byte(`{"github_metadata":{"repo_name":""}}`), 0o644)).To(Succeed())

		analyses, err := projectcache.LoadAll(cacheDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(analyses).To(HaveLen(2))
		Expect(analyses[0].GithubMetadata.RepoName).To(Equal("org/alpha"))
		Expect(analyses[1].GithubMetadata.RepoName).To(Equal("org/zeta"))
	})

	It("gir tom liste for tom cache", func() {
		analyses, err := projectcache.LoadAll(GinkgoT().TempDir())
		Expect(err).NotTo(HaveOccurred())
		Expect(analyses).To(BeEmpty())
	})
})
