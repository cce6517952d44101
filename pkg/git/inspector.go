package git

import (
	"context"
	"io"

	"github.com/cockroachdb/errors"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/sirupsen/logrus"

	censuserrors "thoreinstein.com/census/pkg/errors"
)

// Inspector runs the read-only repository queries.
type Inspector struct {
	logger *logrus.Entry
}

// NewInspector creates an Inspector. A nil logger discards log output.
func NewInspector(logger *logrus.Entry) *Inspector {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = logrus.NewEntry(l)
	}
	return &Inspector{logger: logger.WithField("component", "inspector")}
}

// Open opens the repository rooted at path. Worktrees (a .git file) and bare
// repositories are supported. The returned release func must be called once
// the caller is done with the repository.
func Open(path string) (*gogit.Repository, func(), error) {
	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		return nil, func() {}, censuserrors.NewRepoError(path, censuserrors.OpOpen, "", err)
	}
	release := func() {
		if closer, ok := repo.Storer.(io.Closer); ok {
			_ = closer.Close()
		}
	}
	return repo, release, nil
}

// Inspect opens the repository at path and runs the origin, unpushed and
// status queries in sequence. Only a failure to open the repository is
// returned as an error; sub-query failures are recorded on their section.
func (i *Inspector) Inspect(ctx context.Context, path string) (*Report, error) {
	repo, release, err := Open(path)
	if err != nil {
		i.logger.WithError(err).WithField("path", path).Warn("repository open failed")
		return nil, err
	}
	defer release()
	i.logger.WithField("path", path).Debug("repository opened")

	report := &Report{Path: path}
	report.Origin = i.origin(path, repo)
	report.Unpushed = i.unpushed(ctx, path, repo)
	report.Status = i.status(path, repo)
	return report, nil
}

func (i *Inspector) origin(path string, repo *gogit.Repository) Origin {
	remote, err := repo.Remote(OriginRemote)
	if errors.Is(err, gogit.ErrRemoteNotFound) {
		return Origin{}
	}
	if err != nil {
		return Origin{Err: censuserrors.NewRepoError(path, censuserrors.OpOrigin, "remote lookup", err)}
	}
	o := Origin{Configured: true}
	if urls := remote.Config().URLs; len(urls) > 0 {
		o.URL = urls[0]
	}
	return o
}

func (i *Inspector) unpushed(ctx context.Context, path string, repo *gogit.Repository) Unpushed {
	head, err := repo.Head()
	if err != nil {
		if !errors.Is(err, plumbing.ErrReferenceNotFound) {
			i.logger.WithError(err).WithField("path", path).Debug("HEAD unresolvable")
		}
		return Unpushed{State: UnpushedNoHead}
	}

	result := Unpushed{}
	if head.Name().IsBranch() {
		result.Branch = head.Name().Short()
	}

	upstream, err := resolveUpstream(repo, head)
	if err != nil {
		i.logger.WithError(err).WithField("path", path).Debug("no upstream")
		result.State = UnpushedNoUpstream
		return result
	}
	result.Upstream = upstream.Name().String()

	commits, err := Difference(ctx, repo.Storer, head.Hash(), upstream.Hash())
	if err != nil {
		result.Err = censuserrors.NewRepoError(path, censuserrors.OpUnpushed, "commit walk", err)
		return result
	}
	result.Commits = make([]CommitRecord, 0, len(commits))
	for _, c := range commits {
		hash := c.Hash.String()
		result.Commits = append(result.Commits, CommitRecord{
			Hash:    hash,
			Short:   ShortHash(hash),
			Summary: Summary(c.Message),
		})
	}
	return result
}

// errNoUpstream is returned by resolveUpstream when HEAD tracks nothing.
var errNoUpstream = errors.New("no upstream configured")

// resolveUpstream finds the reference HEAD's branch is configured to track.
// The branch's merge ref is mapped through the remote's fetch refspecs, with
// refs/remotes/<remote>/<branch> as the fallback; a "." remote tracks a local
// branch directly.
func resolveUpstream(repo *gogit.Repository, head *plumbing.Reference) (*plumbing.Reference, error) {
	if !head.Name().IsBranch() {
		return nil, errNoUpstream
	}
	cfg, err := repo.Config()
	if err != nil {
		return nil, errors.Wrap(err, "read repository config")
	}
	branch, ok := cfg.Branches[head.Name().Short()]
	if !ok || branch.Remote == "" || branch.Merge == "" {
		return nil, errNoUpstream
	}

	name := trackingRefName(cfg, branch)
	ref, err := repo.Reference(name, true)
	if err != nil {
		return nil, errors.Wrapf(errNoUpstream, "tracking reference %s: %v", name, err)
	}
	return ref, nil
}

func trackingRefName(cfg *config.Config, branch *config.Branch) plumbing.ReferenceName {
	if branch.Remote == "." {
		return branch.Merge
	}
	if remote, ok := cfg.Remotes[branch.Remote]; ok {
		for _, spec := range remote.Fetch {
			if spec.Match(branch.Merge) {
				return spec.Dst(branch.Merge)
			}
		}
	}
	return plumbing.NewRemoteReferenceName(branch.Remote, branch.Merge.Short())
}

func (i *Inspector) status(path string, repo *gogit.Repository) WorkingTree {
	wt, err := repo.Worktree()
	if errors.Is(err, gogit.ErrIsBareRepository) {
		return WorkingTree{Bare: true}
	}
	if err != nil {
		return WorkingTree{Err: censuserrors.NewRepoError(path, censuserrors.OpStatus, "open worktree", err)}
	}
	status, err := wt.Status()
	if err != nil {
		return WorkingTree{Err: censuserrors.NewRepoError(path, censuserrors.OpStatus, "worktree status", err)}
	}
	return WorkingTree{Entries: entriesFromStatus(status)}
}
