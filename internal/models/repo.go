package models

// RepoMeta er det vi trenger fra GitHub om et repo før analysen starter.
type RepoMeta struct {
	Owner       string
	Name        string
	FullName    string
	HtmlUrl     string
	CloneURL    string
	SSHURL      string
	Description string
	Stars       int
	Forks       int
	Language    string
	Archived    bool
	IsFork      bool
	Private     bool
}

func (r RepoMeta) Metadata(contributors []string) GithubMetadata {
	return GithubMetadata{
		RepoName:     r.FullName,
		RepoURL:      r.HtmlUrl,
		Description:  optional(r.Description),
		Stars:        r.Stars,
		Forks:        r.Forks,
		Language:     optional(r.Language),
		Contributors: contributors,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
