package git

import (
	"os"
	"path/filepath"
	"strings"
)

// OriginRemote is the conventional name of the upstream remote.
const OriginRemote = "origin"

// IsGitRepo checks if a path carries a git repository marker
func IsGitRepo(path string) bool {
	// Check for .git directory or file (for worktrees)
	gitPath := filepath.Join(path, ".git")
	if info, err := os.Stat(gitPath); err == nil {
		return info.IsDir() || info.Mode().IsRegular()
	}

	return IsBareRepo(path)
}

// IsBareRepo checks if a path looks like a bare repository (contains HEAD, config, objects)
func IsBareRepo(path string) bool {
	headPath := filepath.Join(path, "HEAD")
	configPath := filepath.Join(path, "config")
	objectsPath := filepath.Join(path, "objects")
	if _, err := os.Stat(headPath); err == nil {
		if _, err := os.Stat(configPath); err == nil {
			if info, err := os.Stat(objectsPath); err == nil && info.IsDir() {
				return true
			}
		}
	}
	return false
}

// ShortHash returns the conventional seven character abbreviation of a hash.
func ShortHash(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}

// Summary returns the first line of a commit message.
func Summary(message string) string {
	line, _, _ := strings.Cut(message, "\n")
	return strings.TrimSuffix(line, "\r")
}
