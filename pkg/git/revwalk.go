package git

import (
	"context"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/object/commitgraph"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// Graph is the commit storage a walk reads from. The Storer of an opened
// repository satisfies it.
type Graph interface {
	storer.EncodedObjectStorer
	storer.ShallowStorer
}

// Difference returns the commits reachable from include but not from exclude,
// in date order: no commit before any of its children, newest committer time
// first otherwise. Commits listed as shallow are walked as if they had no
// parents, so a shallow clone yields its local commits instead of failing at
// the missing boundary objects.
func Difference(ctx context.Context, g Graph, include, exclude plumbing.Hash) ([]*object.Commit, error) {
	boundary, err := shallowSet(g)
	if err != nil {
		return nil, err
	}

	hidden, err := reachable(ctx, g, boundary, exclude)
	if err != nil {
		return nil, err
	}
	if hidden[include] {
		return []*object.Commit{}, nil
	}

	index := &shallowIndex{base: commitgraph.NewObjectCommitNodeIndex(g), shallow: boundary}
	start, err := index.Get(include)
	if err != nil {
		return nil, errors.Wrapf(err, "load commit %s", include)
	}

	iter := commitgraph.NewCommitNodeIterDateOrder(start, hidden, nil)
	defer iter.Close()

	commits := []*object.Commit{}
	err = iter.ForEach(func(node commitgraph.CommitNode) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if hidden[node.ID()] {
			return nil
		}
		c, err := node.Commit()
		if err != nil {
			return errors.Wrapf(err, "load commit %s", node.ID())
		}
		commits = append(commits, c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return commits, nil
}

// reachable returns every commit hash reachable from start, start included.
func reachable(ctx context.Context, g Graph, boundary map[plumbing.Hash]bool, start plumbing.Hash) (map[plumbing.Hash]bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tip, err := object.GetCommit(g, start)
	if err != nil {
		return nil, errors.Wrapf(err, "load commit %s", start)
	}

	seen := map[plumbing.Hash]bool{}
	iter := object.NewCommitPreorderIter(tip, nil, boundaryParents(g, boundary))
	defer iter.Close()

	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		seen[c.Hash] = true
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "walk upstream history")
	}
	return seen, nil
}

func shallowSet(g Graph) (map[plumbing.Hash]bool, error) {
	hashes, err := g.Shallow()
	if err != nil {
		return nil, errors.Wrap(err, "read shallow commits")
	}
	set := make(map[plumbing.Hash]bool, len(hashes))
	for _, h := range hashes {
		set[h] = true
	}
	return set, nil
}

// boundaryParents lists the parents of shallow commits. They are absent from a
// shallow clone, so the upstream walk must never look them up.
func boundaryParents(g Graph, boundary map[plumbing.Hash]bool) []plumbing.Hash {
	var parents []plumbing.Hash
	for h := range boundary {
		c, err := object.GetCommit(g, h)
		if err != nil {
			continue
		}
		parents = append(parents, c.ParentHashes...)
	}
	return parents
}

// shallowIndex hands out commit nodes that stop at the shallow boundary.
type shallowIndex struct {
	base    commitgraph.CommitNodeIndex
	shallow map[plumbing.Hash]bool
}

func (s *shallowIndex) Get(h plumbing.Hash) (commitgraph.CommitNode, error) {
	node, err := s.base.Get(h)
	if err != nil {
		return nil, err
	}
	return &graphNode{CommitNode: node, index: s}, nil
}

// graphNode resolves its parents through the shallow index.
type graphNode struct {
	commitgraph.CommitNode
	index *shallowIndex
}

func (n *graphNode) ParentHashes() []plumbing.Hash {
	if n.index.shallow[n.ID()] {
		return nil
	}
	return n.CommitNode.ParentHashes()
}

func (n *graphNode) NumParents() int {
	return len(n.ParentHashes())
}

func (n *graphNode) ParentNode(i int) (commitgraph.CommitNode, error) {
	parents := n.ParentHashes()
	if i < 0 || i >= len(parents) {
		return nil, object.ErrParentNotFound
	}
	return n.index.Get(parents[i])
}

func (n *graphNode) ParentNodes() commitgraph.CommitNodeIter {
	return &parentIter{node: n}
}

// parentIter iterates a graphNode's parents in order.
type parentIter struct {
	node *graphNode
	i    int
}

func (it *parentIter) Next() (commitgraph.CommitNode, error) {
	parents := it.node.ParentHashes()
	if it.i >= len(parents) {
		return nil, io.EOF
	}
	node, err := it.node.index.Get(parents[it.i])
	if err != nil {
		return nil, err
	}
	it.i++
	return node, nil
}

func (it *parentIter) ForEach(cb func(commitgraph.CommitNode) error) error {
	for {
		node, err := it.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := cb(node); err != nil {
			if errors.Is(err, storer.ErrStop) {
				return nil
			}
			return err
		}
	}
}

func (it *parentIter) Close() {}
