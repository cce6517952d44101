// Package report renders scan events, either as the line-oriented text
// report or as a structured yaml/json document.
package report

import (
	"fmt"
	"io"
	"strings"

	"thoreinstein.com/census/pkg/discovery"
	"thoreinstein.com/census/pkg/git"
)

// Fixed report strings.
const (
	Separator      = "----------------------------------------"
	NoOrigin       = "No 'origin' remote found."
	NoHead         = "no HEAD"
	NoUpstream     = "no upstream configured"
	EverythingPush = "everything is pushed"
	Clean          = "(clean)"
	BareRepository = "(bare repository, no working tree)"
)

const indentUnit = "  "

// Text streams the human-readable report as events arrive.
type Text struct {
	w   io.Writer
	err error
}

var _ discovery.Reporter = (*Text)(nil)

// NewText creates a text reporter writing to w.
func NewText(w io.Writer) *Text {
	return &Text{w: w}
}

// Err returns the first write error, if any.
func (t *Text) Err() error {
	return t.err
}

func (t *Text) line(depth int, format string, args ...any) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, strings.Repeat(indentUnit, depth)+format+"\n", args...)
}

// Directory prints the directory path, annotated with its type for project roots.
func (t *Text) Directory(v discovery.Visit) {
	if v.ProjectRoot() {
		t.line(v.Node.Depth, "%s [%s]", v.Node.Path, v.Type)
		return
	}
	t.line(v.Node.Depth, "%s", v.Node.Path)
}

// Repository prints the origin, unpushed and status blocks.
func (t *Text) Repository(v discovery.Visit, r *git.Report) {
	depth := v.Node.Depth + 1

	t.origin(depth, r.Origin)
	t.line(depth, Separator)
	t.unpushed(depth, r.Unpushed)
	t.line(depth, Separator)
	t.status(depth, r.Status)
}

// RepositoryError prints the backend diagnostic below the directory line.
func (t *Text) RepositoryError(v discovery.Visit, err error) {
	t.line(v.Node.Depth+1, "%v", err)
}

// Fault prints a traversal fault below the directory line.
func (t *Text) Fault(n discovery.Node, err error) {
	t.line(n.Depth+1, "%v", err)
}

// Summary prints the closing totals line.
func (t *Text) Summary(r *discovery.Result) {
	t.line(0, "scanned %d director%s, %d project%s, %d repositor%s inspected, %d fault%s",
		r.Visited, plural(r.Visited, "y", "ies"),
		r.Projects, plural(r.Projects, "", "s"),
		r.Repositories, plural(r.Repositories, "y", "ies"),
		r.Faults, plural(r.Faults, "", "s"))
}

func (t *Text) origin(depth int, o git.Origin) {
	switch {
	case o.Err != nil:
		t.line(depth, "origin: error: %v", o.Err)
	case !o.Configured:
		t.line(depth, NoOrigin)
	default:
		t.line(depth, "origin: %s", o.URL)
	}
}

func (t *Text) unpushed(depth int, u git.Unpushed) {
	switch u.State {
	case git.UnpushedNoHead:
		t.line(depth, NoHead)
		return
	case git.UnpushedNoUpstream:
		t.line(depth, NoUpstream)
		return
	}
	if u.Err != nil {
		t.line(depth, "unpushed commits: error: %v", u.Err)
		return
	}

	t.line(depth, "unpushed commits (%s):", u.Upstream)
	for _, c := range u.Commits {
		t.line(depth+1, "%s %s", c.Short, c.Summary)
	}
	if len(u.Commits) == 0 {
		t.line(depth+1, EverythingPush)
		return
	}
	t.line(depth, "%d unpushed commit(s)", len(u.Commits))
}

func (t *Text) status(depth int, w git.WorkingTree) {
	switch {
	case w.Err != nil:
		t.line(depth, "working tree: error: %v", w.Err)
		return
	case w.Bare:
		t.line(depth, BareRepository)
		return
	}

	t.line(depth, "working tree:")
	for _, e := range w.Entries {
		for _, label := range e.Flags.Labels() {
			t.line(depth+1, "%s  %s", label, e.DisplayPath())
		}
	}
	if len(w.Entries) == 0 {
		t.line(depth+1, Clean)
		return
	}
	t.line(depth, "%d changed path(s)", len(w.Entries))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
