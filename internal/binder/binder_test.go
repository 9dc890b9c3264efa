package binder

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/pkgselect/internal/config"
	"github.com/thoreinstein/pkgselect/internal/pkgconfig"
	"github.com/thoreinstein/pkgselect/internal/platform"
)

func writeFile(t *testing.T, path, content string, mode os.FileMode) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), mode))
}

func backends(t *testing.T) []Backend {
	t.Helper()
	out := []Backend{NewCopy()}
	if runtime.GOOS != "windows" {
		out = append(out, Symlink{})
	}
	return out
}

func TestBackends_RoundTrip(t *testing.T) {
	for _, be := range backends(t) {
		t.Run(be.Name(), func(t *testing.T) {
			dir := t.TempDir()
			b := Binding{
				Alias:  filepath.Join(dir, "select", "nested", "ed"),
				Source: filepath.Join(dir, "runner"),
			}
			writeFile(t, b.Source, "#!/bin/sh\n", 0o755)

			assert.False(t, be.Registered(b))

			require.NoError(t, be.Register(b))
			assert.True(t, be.Registered(b))

			require.NoError(t, be.Register(b), "register is idempotent")
			assert.True(t, be.Registered(b))

			require.NoError(t, be.Unregister(b))
			assert.False(t, be.Registered(b))
			_, err := os.Lstat(b.Alias)
			assert.True(t, os.IsNotExist(err))

			require.NoError(t, be.Unregister(b), "unregister of a missing alias")
		})
	}
}

func TestBackends_MissingSource(t *testing.T) {
	for _, be := range backends(t) {
		t.Run(be.Name(), func(t *testing.T) {
			dir := t.TempDir()
			err := be.Register(Binding{Alias: filepath.Join(dir, "ed"), Source: filepath.Join(dir, "missing")})
			assert.ErrorIs(t, err, ErrRunnerNotFound)
		})
	}
}

func TestBackends_ReplaceStaleAlias(t *testing.T) {
	for _, be := range backends(t) {
		t.Run(be.Name(), func(t *testing.T) {
			dir := t.TempDir()
			b := Binding{Alias: filepath.Join(dir, "ed"), Source: filepath.Join(dir, "runner")}
			writeFile(t, b.Source, "new runner", 0o755)
			writeFile(t, b.Alias, "stale", 0o644)

			assert.False(t, be.Registered(b))
			require.NoError(t, be.Register(b))
			assert.True(t, be.Registered(b))
		})
	}
}

func TestSymlink_WrongTarget(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a"), "a", 0o755)
	writeFile(t, filepath.Join(dir, "b"), "b", 0o755)
	alias := filepath.Join(dir, "ed")
	require.NoError(t, os.Symlink(filepath.Join(dir, "a"), alias))

	b := Binding{Alias: alias, Source: filepath.Join(dir, "b")}
	assert.False(t, Symlink{}.Registered(b))
	require.NoError(t, Symlink{}.Register(b))

	target, err := os.Readlink(alias)
	require.NoError(t, err)
	assert.Equal(t, b.Source, target)
}

func TestCopy_ForcesExecutableMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("no POSIX modes on windows")
	}
	dir := t.TempDir()
	b := Binding{Alias: filepath.Join(dir, "ed"), Source: filepath.Join(dir, "runner")}
	writeFile(t, b.Source, "runner", 0o600)

	require.NoError(t, NewCopy().Register(b))

	info, err := os.Stat(b.Alias)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
}

func TestSameContent(t *testing.T) {
	dir := t.TempDir()
	big := make([]byte, chunkSize*2+17)
	for i := range big {
		big[i] = byte(i)
	}
	altered := append([]byte(nil), big...)
	altered[chunkSize+3] ^= 0xff

	tests := []struct {
		name string
		a, b []byte
		want bool
	}{
		{name: "empty", a: nil, b: nil, want: true},
		{name: "identical multi-chunk", a: big, b: big, want: true},
		{name: "differ in second chunk", a: big, b: altered, want: false},
		{name: "prefix is not equal", a: big[:chunkSize], b: big, want: false},
		{name: "short differ", a: []byte("abc"), b: []byte("abd"), want: false},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pa := filepath.Join(dir, "a", string(rune('a'+i)))
			pb := filepath.Join(dir, "b", string(rune('a'+i)))
			writeFile(t, pa, string(tt.a), 0o644)
			writeFile(t, pb, string(tt.b), 0o644)

			got, err := sameContent(pa, pb)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew(t *testing.T) {
	be, err := New(platform.StrategySymlink)
	require.NoError(t, err)
	assert.Equal(t, "symlink", be.Name())

	be, err = New(platform.StrategyCopy)
	require.NoError(t, err)
	assert.Equal(t, "copy", be.Name())

	_, err = New("hardlink")
	assert.Error(t, err)
}

func TestRegistry_Binding(t *testing.T) {
	e := pkgconfig.Entry{Alias: "/opt/select/ed", Executable: "/opt/ed-1.0/ed"}

	runner := NewRegistry(NewCopy(), config.ModeRunner, "/usr/local/bin/pkgselect-runner")
	assert.Equal(t, Binding{Alias: e.Alias, Source: "/usr/local/bin/pkgselect-runner"}, runner.Binding(e))

	direct := NewRegistry(NewCopy(), config.ModeDirect, "/usr/local/bin/pkgselect-runner")
	assert.Equal(t, Binding{Alias: e.Alias, Source: e.Executable}, direct.Binding(e))
}

func TestBackends_AliasIsSource(t *testing.T) {
	for _, be := range backends(t) {
		t.Run(be.Name(), func(t *testing.T) {
			dir := t.TempDir()
			exe := filepath.Join(dir, "ed")
			writeFile(t, exe, "#!/bin/sh\necho real\n", 0o755)

			err := be.Register(Binding{Alias: exe, Source: exe})
			require.ErrorIs(t, err, ErrAliasIsTarget)
			assert.Equal(t, "#!/bin/sh\necho real\n", readFile(t, exe))
		})
	}
}

func TestRegistry_KeepsExecutableAtAliasPath(t *testing.T) {
	dir := t.TempDir()
	exe := filepath.Join(dir, "ed")
	runner := filepath.Join(dir, "runner")
	writeFile(t, exe, "#!/bin/sh\necho real\n", 0o755)
	writeFile(t, runner, "runner", 0o755)
	e := pkgconfig.Entry{Alias: exe, Executable: exe}

	for _, be := range backends(t) {
		t.Run(be.Name(), func(t *testing.T) {
			r := NewRegistry(be, config.ModeRunner, runner)
			require.ErrorIs(t, r.Register(e), ErrAliasIsTarget)
			require.ErrorIs(t, r.Unregister(e), ErrAliasIsTarget)
			assert.Equal(t, "#!/bin/sh\necho real\n", readFile(t, exe))
		})
	}

	if runtime.GOOS == "windows" {
		return
	}
	t.Run("through a linked directory", func(t *testing.T) {
		linked := filepath.Join(t.TempDir(), "select")
		require.NoError(t, os.Symlink(dir, linked))
		r := NewRegistry(NewCopy(), config.ModeRunner, runner)

		err := r.Register(pkgconfig.Entry{Alias: filepath.Join(linked, "ed"), Executable: exe})
		require.ErrorIs(t, err, ErrAliasIsTarget)
		assert.Equal(t, "#!/bin/sh\necho real\n", readFile(t, exe))
	})
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
