package discovery

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	censuserrors "thoreinstein.com/census/pkg/errors"
	"thoreinstein.com/census/pkg/git"
	"thoreinstein.com/census/pkg/project"
)

// DefaultMaxDepth is used when the caller does not choose a depth.
const DefaultMaxDepth = 3

// DefaultExclusions are directory names never descended into.
func DefaultExclusions() map[string]bool {
	return map[string]bool{
		".git":         true,
		"node_modules": true,
		"vendor":       true,
		".terraform":   true,
		".idea":        true,
		".vscode":      true,
	}
}

// Scanner walks a directory tree looking for project roots
type Scanner struct {
	MaxDepth      int
	Exclusions    map[string]bool
	StrictMarkers bool // marker check failures abort the directory instead of counting as absent

	detector  *project.Detector
	inspector RepoInspector
	logger    *logrus.Entry
	readDir   func(string) ([]fs.DirEntry, error) // For testing; defaults to os.ReadDir
}

// NewScanner creates a new scanner with default exclusions
func NewScanner(depth int, detector *project.Detector, inspector RepoInspector, logger *logrus.Entry) *Scanner {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = logrus.NewEntry(l)
	}
	return &Scanner{
		MaxDepth:   depth,
		Exclusions: DefaultExclusions(),
		detector:   detector,
		inspector:  inspector,
		logger:     logger.WithField("component", "scanner"),
		readDir:    os.ReadDir,
	}
}

// Scan walks root depth-first, reporting every visited directory to r.
// Only an unusable or unreadable root or a cancelled context is returned as an error;
// faults below the root are reported and the scan moves on to siblings.
func (s *Scanner) Scan(ctx context.Context, root string, r Reporter) (*Result, error) {
	start := time.Now()
	root = filepath.Clean(root)

	info, err := os.Stat(root)
	if err != nil {
		return nil, censuserrors.NewScanError(root, censuserrors.OpOpenRoot, err)
	}
	if !info.IsDir() {
		return nil, censuserrors.NewScanError(root, censuserrors.OpOpenRoot, censuserrors.Newf("%s is not a directory", root))
	}

	result := &Result{}
	stack := []Node{{Path: root, Depth: 0}}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		decision := s.visit(ctx, node, r, result)
		if decision.Reason == Cancelled {
			result.Duration = time.Since(start)
			return result, ctx.Err()
		}
		if decision.Err != nil {
			result.Duration = time.Since(start)
			return result, decision.Err
		}
		// Push in reverse so children are visited in directory order.
		for i := len(decision.Children) - 1; i >= 0; i-- {
			stack = append(stack, decision.Children[i])
		}
	}

	result.Duration = time.Since(start)
	return result, nil
}

// visit runs the per-directory state machine and reports what it finds.
func (s *Scanner) visit(ctx context.Context, node Node, r Reporter, result *Result) Decision {
	if ctx.Err() != nil {
		return Decision{Stop: true, Reason: Cancelled}
	}
	if node.Depth >= s.MaxDepth {
		return Decision{Stop: true, Reason: DepthLimit}
	}

	log := s.logger.WithField("path", node.Path)
	v := Visit{
		Node:           node,
		Classification: s.detector.Classify(os.DirFS(node.Path)),
		IsRepo:         git.IsGitRepo(node.Path),
	}
	for _, f := range v.Classification.Faults {
		log.WithError(f.Err).WithField("marker", f.Marker).Debug("marker check failed")
	}
	if s.StrictMarkers && len(v.Classification.Faults) > 0 {
		f := v.Classification.Faults[0]
		result.Faults++
		r.Fault(node, censuserrors.NewScanError(node.Path, censuserrors.OpCheckMarker, censuserrors.Wrapf(f.Err, "marker %s", f.Marker)))
		return Decision{Stop: true, Reason: Fault}
	}
	v.Type = effectiveType(v.Classification, v.IsRepo)

	result.Visited++
	r.Directory(v)
	log.WithField("depth", node.Depth).Debug("directory visited")

	if v.ProjectRoot() {
		result.Projects++
		if v.IsRepo {
			s.inspect(ctx, v, r, result)
		}
		return Decision{Stop: true, Reason: ProjectRoot}
	}

	entries, err := s.readDir(node.Path)
	if err != nil && node.Depth == 0 {
		return Decision{Stop: true, Reason: Fault, Err: censuserrors.NewScanError(node.Path, censuserrors.OpOpenRoot, err)}
	}
	if err != nil {
		log.WithError(err).Warn("cannot read directory")
		result.Faults++
		r.Fault(node, censuserrors.NewScanError(node.Path, censuserrors.OpReadDir, err))
		return Decision{Stop: true, Reason: Fault}
	}
	return Decision{Children: s.childNodes(node, entries)}
}

func (s *Scanner) inspect(ctx context.Context, v Visit, r Reporter, result *Result) {
	report, err := s.inspector.Inspect(ctx, v.Node.Path)
	if err != nil {
		result.Faults++
		r.RepositoryError(v, err)
		return
	}
	result.Repositories++
	r.Repository(v, report)
}

// effectiveType is the project type that decides descent. A repository
// without any recognized marker is still a project root, of unknown type.
func effectiveType(c project.Classification, isRepo bool) project.Type {
	if c.Found() {
		return c.Type
	}
	if isRepo {
		return project.Unknown
	}
	return project.None
}

// childNodes returns the subdirectories of parent worth descending into.
// Symbolic links are not followed.
func (s *Scanner) childNodes(parent Node, entries []fs.DirEntry) []Node {
	var children []Node
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if s.Exclusions[entry.Name()] {
			s.logger.WithField("path", filepath.Join(parent.Path, entry.Name())).Debug("excluded")
			continue
		}
		children = append(children, Node{
			Path:  filepath.Join(parent.Path, entry.Name()),
			Depth: parent.Depth + 1,
		})
	}
	return children
}
