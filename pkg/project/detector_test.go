package project

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// deniedFS fails Stat with a permission error for the listed names.
type deniedFS struct {
	fstest.MapFS
	denied map[string]bool
}

func (d deniedFS) Stat(name string) (fs.FileInfo, error) {
	if d.denied[name] {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrPermission}
	}
	return d.MapFS.Stat(name)
}

func file() *fstest.MapFile { return &fstest.MapFile{Data: []byte("x")} }

func TestClassify(t *testing.T) {
	d, err := NewDetector()
	require.NoError(t, err)

	tests := []struct {
		name   string
		fsys   fstest.MapFS
		want   Type
		marker string
	}{
		{name: "go", fsys: fstest.MapFS{"go.mod": file()}, want: Go, marker: "go.mod"},
		{name: "zig", fsys: fstest.MapFS{"build.zig": file()}, want: Zig, marker: "build.zig"},
		{name: "javascript", fsys: fstest.MapFS{"package.json": file()}, want: JavaScript, marker: "package.json"},
		{name: "python via requirements", fsys: fstest.MapFS{"requirements.txt": file()}, want: Python, marker: "requirements.txt"},
		{name: "none", fsys: fstest.MapFS{"README.md": file()}, want: None},
		{name: "empty", fsys: fstest.MapFS{}, want: None},
		{name: "nested marker is ignored", fsys: fstest.MapFS{"sub/go.mod": file()}, want: None},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := d.Classify(tt.fsys)
			assert.Equal(t, tt.want, c.Type)
			assert.Equal(t, tt.marker, c.Marker)
			assert.Equal(t, tt.want != None, c.Found())
			assert.Empty(t, c.Faults)
		})
	}
}

func TestClassify_FirstRuleWins(t *testing.T) {
	d, err := NewDetector()
	require.NoError(t, err)

	// Both markers present: build.zig is earlier in the table.
	c := d.Classify(fstest.MapFS{"Cargo.toml": file(), "build.zig": file()})
	assert.Equal(t, Zig, c.Type)

	// typescript is listed before javascript, so a TS project with package.json stays typescript.
	c = d.Classify(fstest.MapFS{"package.json": file(), "tsconfig.json": file()})
	assert.Equal(t, TypeScript, c.Type)

	// Rust projects that also carry a Makefile are still rust.
	c = d.Classify(fstest.MapFS{"Makefile": file(), "Cargo.toml": file()})
	assert.Equal(t, Rust, c.Type)
}

func TestClassify_OrderIndependentOfDisk(t *testing.T) {
	d, err := NewDetector()
	require.NoError(t, err)

	// Create the later marker first so directory order differs from table order.
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module x\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "build.zig"), []byte(""), 0644))

	for i := 0; i < 3; i++ {
		assert.Equal(t, Zig, d.Classify(os.DirFS(dir)).Type)
	}
}

func TestClassify_CheckFailedDegradesToAbsent(t *testing.T) {
	d, err := NewDetector()
	require.NoError(t, err)

	fsys := deniedFS{
		MapFS:  fstest.MapFS{"build.zig": file(), "package.json": file()},
		denied: map[string]bool{"build.zig": true},
	}

	c := d.Classify(fsys)
	assert.Equal(t, JavaScript, c.Type)
	require.Len(t, c.Faults, 1)
	assert.Equal(t, "build.zig", c.Faults[0].Marker)
	assert.ErrorIs(t, c.Faults[0].Err, fs.ErrPermission)
}

func TestCheck(t *testing.T) {
	fsys := deniedFS{
		MapFS:  fstest.MapFS{"go.mod": file()},
		denied: map[string]bool{"secret": true},
	}

	result, err := Check(fsys, "go.mod")
	assert.NoError(t, err)
	assert.Equal(t, Present, result)

	result, err = Check(fsys, "Cargo.toml")
	assert.NoError(t, err)
	assert.Equal(t, Absent, result)

	result, err = Check(fsys, "secret")
	assert.Error(t, err)
	assert.Equal(t, CheckFailed, result)
	assert.Equal(t, "check-failed", result.String())
}

func TestNewDetector_ExtraRules(t *testing.T) {
	d, err := NewDetector(MarkerRule{Marker: "deno.json", Type: TypeScript})
	require.NoError(t, err)

	rules := d.Rules()
	assert.Equal(t, len(DefaultRules())+1, len(rules))
	assert.Equal(t, "deno.json", rules[len(rules)-1].Marker)
	assert.Equal(t, TypeScript, d.Classify(fstest.MapFS{"deno.json": file()}).Type)

	// Extra rules are appended, so a built-in match still wins.
	assert.Equal(t, Go, d.Classify(fstest.MapFS{"deno.json": file(), "go.mod": file()}).Type)
}

func TestNewDetector_RejectsInvalidRules(t *testing.T) {
	for _, r := range []MarkerRule{
		{Marker: "", Type: Go},
		{Marker: "sub/go.mod", Type: Go},
		{Marker: "..", Type: Go},
		{Marker: "go.mod", Type: None},
	} {
		_, err := NewDetector(r)
		assert.Error(t, err, "rule %+v", r)
	}
}

func TestRulesReturnsCopy(t *testing.T) {
	d, err := NewDetector()
	require.NoError(t, err)

	rules := d.Rules()
	rules[0] = MarkerRule{Marker: "hijack", Type: PHP}
	assert.Equal(t, "build.zig", d.Rules()[0].Marker)
}

func TestParseType(t *testing.T) {
	for _, name := range []string{"zig", "go", "elixir", "typescript", "javascript", "python", "ruby", "c", "cpp", "rust", "java", "php", "unknown"} {
		typ, err := ParseType(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, typ.String())
	}

	typ, err := ParseType(" Rust ")
	require.NoError(t, err)
	assert.Equal(t, Rust, typ)

	_, err = ParseType("none")
	assert.Error(t, err)
	_, err = ParseType("cobol")
	assert.Error(t, err)
}

func TestTypeMarshalText(t *testing.T) {
	text, err := Go.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "go", string(text))
	assert.Equal(t, "none", Type(99).String())
}
