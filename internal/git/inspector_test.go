package git

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/52north/docker-build/internal/model"
)

// initTestRepo creates a throwaway repository with a single commit and
// returns the repository, its worktree, and the commit hash.
func initTestRepo(t *testing.T) (*gogit.Repository, *gogit.Worktree, plumbing.Hash) {
	t.Helper()

	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	w, err := repo.Worktree()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "Dockerfile"), []byte("FROM scratch\n"), 0o644))
	_, err = w.Add("Dockerfile")
	require.NoError(t, err)

	sig := &object.Signature{
		Name:  "Jane Doe",
		Email: "jane@example.org",
		When:  time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
	hash, err := w.Commit("initial commit", &gogit.CommitOptions{Author: sig, Committer: sig})
	require.NoError(t, err)

	return repo, w, hash
}

// inspectorFor returns an inspector rooted at the repository's worktree.
func inspectorFor(t *testing.T, repo *gogit.Repository) *RepoInspector {
	t.Helper()
	w, err := repo.Worktree()
	require.NoError(t, err)
	return NewInspector(w.Filesystem.Root())
}

// TestFacts_BasicRepo verifies branch, commit hashes, and committer on a
// fresh repository with no tags or remotes.
func TestFacts_BasicRepo(t *testing.T) {
	repo, _, hash := initTestRepo(t)

	facts, err := inspectorFor(t, repo).Facts()
	require.NoError(t, err)

	assert.Equal(t, "master", facts.Branch.Value())
	assert.Equal(t, hash.String(), facts.CommitFull)
	assert.Equal(t, hash.String()[:7], facts.CommitShort)
	assert.False(t, facts.ExactTag.Present())
	assert.False(t, facts.RemoteURL.Present())
	assert.Equal(t, "Jane Doe <jane@example.org>", facts.Committer.Value())
}

// TestFacts_LightweightTag verifies exact-tag detection for a lightweight
// tag pointing at HEAD.
func TestFacts_LightweightTag(t *testing.T) {
	repo, _, hash := initTestRepo(t)
	_, err := repo.CreateTag("v1.2.3", hash, nil)
	require.NoError(t, err)

	facts, err := inspectorFor(t, repo).Facts()
	require.NoError(t, err)

	assert.Equal(t, "v1.2.3", facts.ExactTag.Value())
}

// TestFacts_AnnotatedTag verifies that annotated tags are resolved to their
// target commit before the exact-match comparison.
func TestFacts_AnnotatedTag(t *testing.T) {
	repo, _, hash := initTestRepo(t)
	_, err := repo.CreateTag("v2.0.0", hash, &gogit.CreateTagOptions{
		Message: "release 2.0.0",
		Tagger: &object.Signature{
			Name:  "Jane Doe",
			Email: "jane@example.org",
			When:  time.Now(),
		},
	})
	require.NoError(t, err)

	facts, err := inspectorFor(t, repo).Facts()
	require.NoError(t, err)

	assert.Equal(t, "v2.0.0", facts.ExactTag.Value())
}

// TestFacts_TagOnOlderCommit verifies that a tag pointing at an ancestor of
// HEAD does not count as an exact tag.
func TestFacts_TagOnOlderCommit(t *testing.T) {
	repo, w, first := initTestRepo(t)
	_, err := repo.CreateTag("v1.0.0", first, nil)
	require.NoError(t, err)

	// Advance HEAD past the tagged commit.
	root := w.Filesystem.Root()
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("docs\n"), 0o644))
	_, err = w.Add("README.md")
	require.NoError(t, err)
	sig := &object.Signature{Name: "Jane Doe", Email: "jane@example.org", When: time.Now()}
	_, err = w.Commit("add readme", &gogit.CommitOptions{Author: sig, Committer: sig})
	require.NoError(t, err)

	facts, err := inspectorFor(t, repo).Facts()
	require.NoError(t, err)

	assert.False(t, facts.ExactTag.Present())
}

// TestFacts_Remote verifies origin URL extraction.
func TestFacts_Remote(t *testing.T) {
	repo, _, _ := initTestRepo(t)
	_, err := repo.CreateRemote(&gitconfig.RemoteConfig{
		Name: "origin",
		URLs: []string{"https://github.com/52North/sos.git"},
	})
	require.NoError(t, err)

	facts, err := inspectorFor(t, repo).Facts()
	require.NoError(t, err)

	assert.Equal(t, "https://github.com/52North/sos.git", facts.RemoteURL.Value())
}

// TestFacts_DetachedHead verifies that a detached HEAD yields an absent
// branch while commit facts remain available.
func TestFacts_DetachedHead(t *testing.T) {
	repo, w, hash := initTestRepo(t)
	require.NoError(t, w.Checkout(&gogit.CheckoutOptions{Hash: hash}))

	facts, err := inspectorFor(t, repo).Facts()
	require.NoError(t, err)

	assert.False(t, facts.Branch.Present())
	assert.Equal(t, hash.String(), facts.CommitFull)
}

// TestFacts_NotARepository verifies that a plain directory is reported as a
// configuration error, not a Git error.
func TestFacts_NotARepository(t *testing.T) {
	_, err := NewInspector(t.TempDir()).Facts()

	require.Error(t, err)
	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitConfigError, cliErr.Code)
}

// TestFacts_EmptyRepository verifies that a repository without commits fails
// with a Git error when resolving HEAD.
func TestFacts_EmptyRepository(t *testing.T) {
	dir := t.TempDir()
	_, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	_, err = NewInspector(dir).Facts()

	require.Error(t, err)
	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitGitError, cliErr.Code)
}
