package report

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"go.yaml.in/yaml/v3"

	"thoreinstein.com/census/pkg/discovery"
	"thoreinstein.com/census/pkg/git"
)

// Output formats.
const (
	FormatText = "text"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// ValidFormats is the list of supported output formats.
var ValidFormats = []string{FormatText, FormatYAML, FormatJSON}

// ValidateFormat validates that an output format is supported.
func ValidateFormat(format string) error {
	for _, valid := range ValidFormats {
		if format == valid {
			return nil
		}
	}
	return errors.Newf("invalid format %q: must be one of: %s", format, strings.Join(ValidFormats, ", "))
}

// Document is the structured form of a whole scan.
type Document struct {
	Root        string            `json:"root" yaml:"root"`
	Directories []DirectoryRecord `json:"directories" yaml:"directories"`
	Summary     *SummaryRecord    `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// DirectoryRecord is one visited directory.
type DirectoryRecord struct {
	Path       string            `json:"path" yaml:"path"`
	Depth      int               `json:"depth" yaml:"depth"`
	Type       string            `json:"type,omitempty" yaml:"type,omitempty"`
	Marker     string            `json:"marker,omitempty" yaml:"marker,omitempty"`
	Repository *RepositoryRecord `json:"repository,omitempty" yaml:"repository,omitempty"`
	Error      string            `json:"error,omitempty" yaml:"error,omitempty"`
}

// RepositoryRecord is the structured form of a git.Report.
type RepositoryRecord struct {
	Origin   OriginRecord   `json:"origin" yaml:"origin"`
	Unpushed UnpushedRecord `json:"unpushed" yaml:"unpushed"`
	Status   StatusRecord   `json:"status" yaml:"status"`
}

// OriginRecord is the origin section.
type OriginRecord struct {
	Configured bool   `json:"configured" yaml:"configured"`
	URL        string `json:"url,omitempty" yaml:"url,omitempty"`
	Error      string `json:"error,omitempty" yaml:"error,omitempty"`
}

// UnpushedRecord is the unpushed-commit section.
type UnpushedRecord struct {
	State    string         `json:"state" yaml:"state"` // listed, no-head, no-upstream
	Branch   string         `json:"branch,omitempty" yaml:"branch,omitempty"`
	Upstream string         `json:"upstream,omitempty" yaml:"upstream,omitempty"`
	Count    int            `json:"count" yaml:"count"`
	Commits  []CommitRecord `json:"commits,omitempty" yaml:"commits,omitempty"`
	Error    string         `json:"error,omitempty" yaml:"error,omitempty"`
}

// CommitRecord is one unpushed commit.
type CommitRecord struct {
	Hash    string `json:"hash" yaml:"hash"`
	Summary string `json:"summary" yaml:"summary"`
}

// StatusRecord is the working-tree section.
type StatusRecord struct {
	Bare    bool           `json:"bare,omitempty" yaml:"bare,omitempty"`
	Count   int            `json:"count" yaml:"count"`
	Changes []ChangeRecord `json:"changes,omitempty" yaml:"changes,omitempty"`
	Error   string         `json:"error,omitempty" yaml:"error,omitempty"`
}

// ChangeRecord is one changed path with its labels in report order.
type ChangeRecord struct {
	Path   string   `json:"path" yaml:"path"`
	Labels []string `json:"labels" yaml:"labels"`
	Flags  []string `json:"flags" yaml:"flags"`
}

// SummaryRecord carries the scan totals.
type SummaryRecord struct {
	Visited      int `json:"visited" yaml:"visited"`
	Projects     int `json:"projects" yaml:"projects"`
	Repositories int `json:"repositories" yaml:"repositories"`
	Faults       int `json:"faults" yaml:"faults"`
}

// Collector accumulates scan events into a Document.
type Collector struct {
	doc   Document
	index map[string]int // path -> position in doc.Directories
}

var _ discovery.Reporter = (*Collector)(nil)

// NewCollector creates a collector for a scan of root.
func NewCollector(root string) *Collector {
	return &Collector{
		doc:   Document{Root: root, Directories: []DirectoryRecord{}},
		index: map[string]int{},
	}
}

// Document returns the collected document.
func (c *Collector) Document() Document {
	return c.doc
}

// Directory records a visited directory.
func (c *Collector) Directory(v discovery.Visit) {
	rec := DirectoryRecord{Path: v.Node.Path, Depth: v.Node.Depth}
	if v.ProjectRoot() {
		rec.Type = v.Type.String()
		rec.Marker = v.Classification.Marker
	}
	c.index[rec.Path] = len(c.doc.Directories)
	c.doc.Directories = append(c.doc.Directories, rec)
}

// Repository attaches a repository report to its directory.
func (c *Collector) Repository(v discovery.Visit, r *git.Report) {
	c.record(v.Node).Repository = repositoryRecord(r)
}

// RepositoryError attaches an open failure to its directory.
func (c *Collector) RepositoryError(v discovery.Visit, err error) {
	c.record(v.Node).Error = err.Error()
}

// Fault attaches a traversal fault to its directory.
func (c *Collector) Fault(n discovery.Node, err error) {
	c.record(n).Error = err.Error()
}

// Summary records the scan totals.
func (c *Collector) Summary(r *discovery.Result) {
	c.doc.Summary = &SummaryRecord{
		Visited:      r.Visited,
		Projects:     r.Projects,
		Repositories: r.Repositories,
		Faults:       r.Faults,
	}
}

// record returns the record for n, creating one for directories that failed
// before they were reported.
func (c *Collector) record(n discovery.Node) *DirectoryRecord {
	if i, ok := c.index[n.Path]; ok {
		return &c.doc.Directories[i]
	}
	c.index[n.Path] = len(c.doc.Directories)
	c.doc.Directories = append(c.doc.Directories, DirectoryRecord{Path: n.Path, Depth: n.Depth})
	return &c.doc.Directories[len(c.doc.Directories)-1]
}

func repositoryRecord(r *git.Report) *RepositoryRecord {
	rec := &RepositoryRecord{}

	rec.Origin = OriginRecord{Configured: r.Origin.Configured, URL: r.Origin.URL, Error: errString(r.Origin.Err)}

	u := r.Unpushed
	rec.Unpushed = UnpushedRecord{
		State:    unpushedState(u.State),
		Branch:   u.Branch,
		Upstream: u.Upstream,
		Count:    len(u.Commits),
		Error:    errString(u.Err),
	}
	for _, cm := range u.Commits {
		rec.Unpushed.Commits = append(rec.Unpushed.Commits, CommitRecord{Hash: cm.Short, Summary: cm.Summary})
	}

	s := r.Status
	rec.Status = StatusRecord{Bare: s.Bare, Count: len(s.Entries), Error: errString(s.Err)}
	for _, e := range s.Entries {
		change := ChangeRecord{Path: e.DisplayPath()}
		for _, row := range e.Flags.Active() {
			change.Labels = append(change.Labels, row.Label)
			change.Flags = append(change.Flags, row.Name)
		}
		rec.Status.Changes = append(rec.Status.Changes, change)
	}
	return rec
}

func unpushedState(s git.UnpushedState) string {
	switch s {
	case git.UnpushedNoHead:
		return "no-head"
	case git.UnpushedNoUpstream:
		return "no-upstream"
	default:
		return "listed"
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// Write encodes doc to w in the given structured format.
func Write(w io.Writer, format string, doc Document) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return errors.Wrap(err, "failed to encode yaml report")
		}
		return errors.Wrap(enc.Close(), "failed to flush yaml report")
	case FormatJSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to encode json report")
		}
		_, err = w.Write(append(data, '\n'))
		return errors.Wrap(err, "failed to write json report")
	default:
		return errors.Newf("format %q is not a structured format", format)
	}
}
