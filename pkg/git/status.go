package git

import (
	"sort"

	gogit "github.com/go-git/go-git/v5"
)

// UnknownPath is displayed when an entry carries neither a working-tree nor an index path.
const UnknownPath = "(unknown)"

// Flags is the set of differences recorded for one path.
type Flags struct {
	IndexNew         bool
	IndexModified    bool
	IndexDeleted     bool
	IndexRenamed     bool
	WorktreeNew      bool
	WorktreeModified bool
	WorktreeDeleted  bool
}

// FlagLabel ties a flag to its one-letter report label.
type FlagLabel struct {
	Name  string
	Label string
	isSet func(Flags) bool
}

// flagTable is in report order; a path with several flags prints one line per
// flag in this order.
var flagTable = []FlagLabel{
	{Name: "index-new", Label: "A", isSet: func(f Flags) bool { return f.IndexNew }},
	{Name: "index-modified", Label: "M", isSet: func(f Flags) bool { return f.IndexModified }},
	{Name: "index-deleted", Label: "D", isSet: func(f Flags) bool { return f.IndexDeleted }},
	{Name: "index-renamed", Label: "R", isSet: func(f Flags) bool { return f.IndexRenamed }},
	{Name: "worktree-new", Label: "?", isSet: func(f Flags) bool { return f.WorktreeNew }},
	{Name: "worktree-modified", Label: "m", isSet: func(f Flags) bool { return f.WorktreeModified }},
	{Name: "worktree-deleted", Label: "d", isSet: func(f Flags) bool { return f.WorktreeDeleted }},
}

// FlagTable returns the flag to label mapping in report order.
func FlagTable() []FlagLabel {
	table := make([]FlagLabel, len(flagTable))
	copy(table, flagTable)
	return table
}

// Active returns the table rows set on f, in report order.
func (f Flags) Active() []FlagLabel {
	var active []FlagLabel
	for _, row := range flagTable {
		if row.isSet(f) {
			active = append(active, row)
		}
	}
	return active
}

// Labels returns the labels of the active flags, in report order.
func (f Flags) Labels() []string {
	active := f.Active()
	labels := make([]string, 0, len(active))
	for _, row := range active {
		labels = append(labels, row.Label)
	}
	return labels
}

// Any reports whether at least one flag is set.
func (f Flags) Any() bool {
	return len(f.Active()) > 0
}

func (f Flags) index() bool {
	return f.IndexNew || f.IndexModified || f.IndexDeleted || f.IndexRenamed
}

func (f Flags) worktree() bool {
	return f.WorktreeNew || f.WorktreeModified || f.WorktreeDeleted
}

// StatusEntry is one changed path.
type StatusEntry struct {
	WorkdirPath string
	IndexPath   string
	RenamedFrom string
	Flags       Flags
}

// DisplayPath prefers the working-tree path, then the index path, then UnknownPath.
func (e StatusEntry) DisplayPath() string {
	if e.WorkdirPath != "" {
		return e.WorkdirPath
	}
	if e.IndexPath != "" {
		return e.IndexPath
	}
	return UnknownPath
}

// flagsFromCodes maps a go-git staging/worktree status pair onto Flags.
// Worktree.Status never reports Renamed; a staged move arrives as Deleted
// plus Added. The Renamed case covers statuses built elsewhere.
func flagsFromCodes(staging, worktree gogit.StatusCode) Flags {
	var f Flags
	switch staging {
	case gogit.Added, gogit.Copied:
		f.IndexNew = true
	case gogit.Modified, gogit.UpdatedButUnmerged:
		f.IndexModified = true
	case gogit.Deleted:
		f.IndexDeleted = true
	case gogit.Renamed:
		f.IndexRenamed = true
	}
	switch worktree {
	case gogit.Untracked, gogit.Added:
		f.WorktreeNew = true
	case gogit.Modified, gogit.UpdatedButUnmerged:
		f.WorktreeModified = true
	case gogit.Deleted:
		f.WorktreeDeleted = true
	}
	return f
}

// entriesFromStatus converts a go-git status into entries sorted by display
// path. Paths with no differences are dropped.
func entriesFromStatus(status gogit.Status) []StatusEntry {
	entries := make([]StatusEntry, 0, len(status))
	for path, fs := range status {
		if fs == nil {
			continue
		}
		flags := flagsFromCodes(fs.Staging, fs.Worktree)
		if !flags.Any() {
			continue
		}
		entry := StatusEntry{Flags: flags}
		if flags.worktree() {
			entry.WorkdirPath = path
		}
		if flags.index() {
			entry.IndexPath = path
		}
		if flags.IndexRenamed {
			entry.RenamedFrom = fs.Extra
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].DisplayPath() < entries[j].DisplayPath()
	})
	return entries
}
