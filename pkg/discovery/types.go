package discovery

import (
	"context"
	"time"

	"thoreinstein.com/census/pkg/git"
	"thoreinstein.com/census/pkg/project"
)

// Node is one directory in the traversal.
type Node struct {
	Path  string
	Depth int
}

// Visit is what the scanner learned about a directory.
type Visit struct {
	Node           Node
	Classification project.Classification
	IsRepo         bool         // directory carries a repository marker
	Type           project.Type // effective type, None when not a project root
}

// ProjectRoot reports whether the directory terminates descent.
func (v Visit) ProjectRoot() bool {
	return v.Type != project.None
}

// StopReason says why a directory is not descended into.
type StopReason int

const (
	NotStopped StopReason = iota
	DepthLimit
	ProjectRoot
	Fault
	Cancelled
)

// Decision is the outcome of visiting one directory: either stop, or the
// children to descend into.
type Decision struct {
	Stop     bool
	Reason   StopReason
	Children []Node
	Err      error // set when the whole scan must end, such as an unreadable root
}

// Reporter receives scan events in traversal order.
type Reporter interface {
	// Directory is called for every visited directory.
	Directory(v Visit)
	// Repository is called after Directory for a project root whose repository was inspected.
	Repository(v Visit, report *git.Report)
	// RepositoryError is called when a project root's repository could not be opened.
	RepositoryError(v Visit, err error)
	// Fault is called when a directory could not be read or classified.
	Fault(n Node, err error)
}

// RepoInspector performs the read-only repository queries.
type RepoInspector interface {
	Inspect(ctx context.Context, path string) (*git.Report, error)
}

// Result summarizes a scan.
type Result struct {
	Visited      int           // Number of directories visited
	Projects     int           // Number of project roots found
	Repositories int           // Number of repositories inspected successfully
	Faults       int           // Traversal faults and repository open failures
	Duration     time.Duration // Time taken to scan
}
