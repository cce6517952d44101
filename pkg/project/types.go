// Package project classifies directories as project roots by the marker
// files they contain.
package project

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Type is a recognized project ecosystem.
type Type int

// Known project types. None means no marker matched.
const (
	None Type = iota
	Zig
	Go
	Elixir
	TypeScript
	JavaScript
	Python
	Ruby
	C
	CPP
	Rust
	Java
	PHP
	Unknown
)

var typeNames = map[Type]string{
	None:       "none",
	Zig:        "zig",
	Go:         "go",
	Elixir:     "elixir",
	TypeScript: "typescript",
	JavaScript: "javascript",
	Python:     "python",
	Ruby:       "ruby",
	C:          "c",
	CPP:        "cpp",
	Rust:       "rust",
	Java:       "java",
	PHP:        "php",
	Unknown:    "unknown",
}

// String returns the lowercase ecosystem name.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "none"
}

// MarshalText lets Type serialize as its name in yaml and json reports.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// ParseType maps a name back to a Type. "none" is not accepted because it is
// not something a marker can produce.
func ParseType(name string) (Type, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for t, n := range typeNames {
		if n == name && t != None {
			return t, nil
		}
	}
	return None, errors.Newf("unknown project type %q", name)
}

// MarkerRule pairs a marker filename with the project type it implies.
type MarkerRule struct {
	Marker string
	Type   Type
}

// defaultRules is the built-in marker table. Order is significant: when a
// directory satisfies several rules the first one wins.
var defaultRules = []MarkerRule{
	{Marker: "build.zig", Type: Zig},
	{Marker: "go.mod", Type: Go},
	{Marker: "mix.exs", Type: Elixir},
	{Marker: "tsconfig.json", Type: TypeScript},
	{Marker: "package.json", Type: JavaScript},
	{Marker: "pyproject.toml", Type: Python},
	{Marker: "setup.py", Type: Python},
	{Marker: "requirements.txt", Type: Python},
	{Marker: "Gemfile", Type: Ruby},
	{Marker: "Cargo.toml", Type: Rust},
	{Marker: "pom.xml", Type: Java},
	{Marker: "build.gradle", Type: Java},
	{Marker: "composer.json", Type: PHP},
	// Generic build-system markers go last.
	{Marker: "CMakeLists.txt", Type: CPP},
	{Marker: "Makefile", Type: C},
}

// DefaultRules returns a copy of the built-in marker table.
func DefaultRules() []MarkerRule {
	rules := make([]MarkerRule, len(defaultRules))
	copy(rules, defaultRules)
	return rules
}
