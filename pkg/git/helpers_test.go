package git

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// setupGitRepo creates an empty non-bare repository in a temp dir.
func setupGitRepo(t *testing.T) (string, *gogit.Repository) {
	t.Helper()
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	return dir, repo
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// commitFile writes name, stages it and commits at baseTime plus offset minutes.
func commitFile(t *testing.T, repo *gogit.Repository, dir, name, content, msg string, offset int) plumbing.Hash {
	t.Helper()
	writeFile(t, dir, name, content)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(name)
	require.NoError(t, err)
	hash, err := wt.Commit(msg, &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  "Test User",
			Email: "test@example.com",
			When:  baseTime.Add(time.Duration(offset) * time.Minute),
		},
	})
	require.NoError(t, err)
	return hash
}

func headBranch(t *testing.T, repo *gogit.Repository) string {
	t.Helper()
	head, err := repo.Head()
	require.NoError(t, err)
	return head.Name().Short()
}

// addOrigin configures an origin remote.
func addOrigin(t *testing.T, repo *gogit.Repository, url string) {
	t.Helper()
	_, err := repo.CreateRemote(&config.RemoteConfig{Name: OriginRemote, URLs: []string{url}})
	require.NoError(t, err)
}

// trackUpstream points refs/remotes/origin/<branch> at upstream and makes the
// current branch track it.
func trackUpstream(t *testing.T, repo *gogit.Repository, upstream plumbing.Hash) {
	t.Helper()
	branch := headBranch(t, repo)
	require.NoError(t, repo.Storer.SetReference(
		plumbing.NewHashReference(plumbing.NewRemoteReferenceName(OriginRemote, branch), upstream)))
	require.NoError(t, repo.CreateBranch(&config.Branch{
		Name:   branch,
		Remote: OriginRemote,
		Merge:  plumbing.NewBranchReferenceName(branch),
	}))
}
