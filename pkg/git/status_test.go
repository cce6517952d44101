package git

import (
	"testing"

	gogit "github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
)

func TestFlagTableOrder(t *testing.T) {
	var labels []string
	for _, row := range FlagTable() {
		labels = append(labels, row.Label)
	}
	assert.Equal(t, []string{"A", "M", "D", "R", "?", "m", "d"}, labels)
}

func TestFlagsLabels(t *testing.T) {
	tests := []struct {
		name  string
		flags Flags
		want  []string
	}{
		{name: "untracked", flags: Flags{WorktreeNew: true}, want: []string{"?"}},
		{name: "staged and unstaged modification", flags: Flags{WorktreeModified: true, IndexModified: true}, want: []string{"M", "m"}},
		{name: "renamed", flags: Flags{IndexRenamed: true}, want: []string{"R"}},
		{name: "added then deleted", flags: Flags{IndexNew: true, WorktreeDeleted: true}, want: []string{"A", "d"}},
		{name: "none", flags: Flags{}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.flags.Labels())
			assert.Equal(t, len(tt.want) > 0, tt.flags.Any())
		})
	}
}

func TestFlagsFromCodes(t *testing.T) {
	tests := []struct {
		staging, worktree gogit.StatusCode
		want              Flags
	}{
		{gogit.Untracked, gogit.Untracked, Flags{WorktreeNew: true}},
		{gogit.Added, gogit.Unmodified, Flags{IndexNew: true}},
		{gogit.Copied, gogit.Unmodified, Flags{IndexNew: true}},
		{gogit.Modified, gogit.Modified, Flags{IndexModified: true, WorktreeModified: true}},
		{gogit.Deleted, gogit.Unmodified, Flags{IndexDeleted: true}},
		{gogit.Renamed, gogit.Unmodified, Flags{IndexRenamed: true}},
		{gogit.Unmodified, gogit.Deleted, Flags{WorktreeDeleted: true}},
		{gogit.UpdatedButUnmerged, gogit.UpdatedButUnmerged, Flags{IndexModified: true, WorktreeModified: true}},
		{gogit.Unmodified, gogit.Unmodified, Flags{}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, flagsFromCodes(tt.staging, tt.worktree), "%c%c", tt.staging, tt.worktree)
	}
}

func TestEntriesFromStatus(t *testing.T) {
	status := gogit.Status{
		"z.txt":   {Staging: gogit.Untracked, Worktree: gogit.Untracked},
		"a.txt":   {Staging: gogit.Modified, Worktree: gogit.Unmodified},
		"new.txt": {Staging: gogit.Renamed, Worktree: gogit.Unmodified, Extra: "old.txt"},
		"same":    {Staging: gogit.Unmodified, Worktree: gogit.Unmodified},
		"nil":     nil,
	}

	entries := entriesFromStatus(status)
	if assert.Len(t, entries, 3) {
		assert.Equal(t, "a.txt", entries[0].DisplayPath())
		assert.Equal(t, "a.txt", entries[0].IndexPath)
		assert.Empty(t, entries[0].WorkdirPath)

		assert.Equal(t, "new.txt", entries[1].DisplayPath())
		assert.Equal(t, "old.txt", entries[1].RenamedFrom)

		assert.Equal(t, "z.txt", entries[2].WorkdirPath)
		assert.Empty(t, entries[2].IndexPath)
	}
}

func TestDisplayPathFallback(t *testing.T) {
	assert.Equal(t, "w", StatusEntry{WorkdirPath: "w", IndexPath: "i"}.DisplayPath())
	assert.Equal(t, "i", StatusEntry{IndexPath: "i"}.DisplayPath())
	assert.Equal(t, UnknownPath, StatusEntry{}.DisplayPath())
}
