package git

import (
	"errors"
	"fmt"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/52north/docker-build/internal/model"
)

// shortHashLen is the abbreviated commit hash length, matching the
// git default.
const shortHashLen = 7

// Inspector provides the read-only repository facts for one invocation.
// The build orchestrator depends on this interface rather than on go-git,
// so tests can supply canned facts.
type Inspector interface {
	Facts() (model.RepositoryFacts, error)
}

// RepoInspector reads facts from a local Git repository via go-git.
type RepoInspector struct {
	path string
}

// NewInspector creates an inspector for the repository at path.
// The path is not validated until Facts is called.
func NewInspector(path string) *RepoInspector {
	return &RepoInspector{path: path}
}

// Facts opens the repository and takes a snapshot of its current state.
//
// A directory that is not a Git repository is a configuration error (the
// user pointed the tool at the wrong place); any other failure to read
// repository state is an external error.
func (i *RepoInspector) Facts() (model.RepositoryFacts, error) {
	repo, err := gogit.PlainOpenWithOptions(i.path, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return model.RepositoryFacts{}, model.WrapCLIError(model.ExitConfigError,
				fmt.Sprintf("%q is not a Git repository", i.path), err)
		}
		return model.RepositoryFacts{}, model.WrapCLIError(model.ExitGitError,
			fmt.Sprintf("failed to open repository at %q", i.path), err)
	}

	head, err := repo.Head()
	if err != nil {
		return model.RepositoryFacts{}, model.WrapCLIError(model.ExitGitError,
			"failed to resolve HEAD (does the repository have any commits?)", err)
	}

	hash := head.Hash()
	facts := model.RepositoryFacts{
		CommitFull:  hash.String(),
		CommitShort: hash.String()[:shortHashLen],
	}

	// Detached HEAD has no branch name.
	if head.Name().IsBranch() {
		facts.Branch = model.StringOf(head.Name().Short())
	}

	facts.ExactTag = exactTagAt(repo, hash)
	facts.RemoteURL = originURL(repo)
	facts.Committer = committerOf(repo, hash)

	return facts, nil
}

// exactTagAt returns the name of a tag pointing exactly at the given commit,
// or absent when no such tag exists. Annotated tags are resolved to their
// target commit; the first matching tag in iteration order wins.
func exactTagAt(repo *gogit.Repository, commit plumbing.Hash) model.OptionalString {
	tags, err := repo.Tags()
	if err != nil {
		return model.NoString()
	}
	defer tags.Close()

	result := model.NoString()
	_ = tags.ForEach(func(ref *plumbing.Reference) error {
		target := ref.Hash()
		if tagObj, tagErr := repo.TagObject(ref.Hash()); tagErr == nil {
			target = tagObj.Target
		}
		if target == commit {
			result = model.StringOf(ref.Name().Short())
			return storer.ErrStop
		}
		return nil
	})
	return result
}

// originURL returns the URL of the "origin" remote, or absent when the
// repository has none.
func originURL(repo *gogit.Repository) model.OptionalString {
	remote, err := repo.Remote(gogit.DefaultRemoteName)
	if err != nil {
		return model.NoString()
	}
	urls := remote.Config().URLs
	if len(urls) == 0 || urls[0] == "" {
		return model.NoString()
	}
	return model.StringOf(urls[0])
}

// committerOf returns the committer of the given commit in "Name <email>"
// form, or absent when the commit cannot be read.
func committerOf(repo *gogit.Repository, hash plumbing.Hash) model.OptionalString {
	commit, err := repo.CommitObject(hash)
	if err != nil {
		return model.NoString()
	}
	return model.StringOf(fmt.Sprintf("%s <%s>", commit.Committer.Name, commit.Committer.Email))
}
