package git

// Report is the result of inspecting one repository. Each section is filled
// independently; a failure in one section is recorded on that section only.
type Report struct {
	Path     string
	Origin   Origin
	Unpushed Unpushed
	Status   WorkingTree
}

// Origin is the result of the origin remote lookup.
type Origin struct {
	Configured bool
	URL        string
	Err        error
}

// UnpushedState describes how far the unpushed-commit query got.
type UnpushedState int

const (
	// UnpushedListed means HEAD and its upstream resolved and Commits is authoritative.
	UnpushedListed UnpushedState = iota
	// UnpushedNoHead means HEAD does not point at a commit (unborn branch).
	UnpushedNoHead
	// UnpushedNoUpstream means HEAD has no upstream tracking reference.
	UnpushedNoUpstream
)

// Unpushed is the result of the unpushed-commit query.
type Unpushed struct {
	State    UnpushedState
	Branch   string // short name of HEAD's branch, empty when detached
	Upstream string // full name of the upstream reference
	Commits  []CommitRecord
	Err      error
}

// Pushed reports whether the query completed with nothing to push.
func (u Unpushed) Pushed() bool {
	return u.Err == nil && u.State == UnpushedListed && len(u.Commits) == 0
}

// CommitRecord is one commit reachable from HEAD but not from its upstream.
type CommitRecord struct {
	Hash    string
	Short   string
	Summary string
}

// WorkingTree is the result of the status query.
type WorkingTree struct {
	Bare    bool
	Entries []StatusEntry
	Err     error
}

// Clean reports whether the query completed with no changed paths.
func (w WorkingTree) Clean() bool {
	return w.Err == nil && !w.Bare && len(w.Entries) == 0
}
