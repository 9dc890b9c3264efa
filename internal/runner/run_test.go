package runner

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/pkgselect/internal/logging"
)

func TestMergeEnv(t *testing.T) {
	base := []string{"PATH=/bin", "HOME=/root", "NODE_ENV=dev"}

	tests := []struct {
		name string
		env  map[string]string
		want []string
	}{
		{name: "empty", env: nil, want: base},
		{name: "override", env: map[string]string{"NODE_ENV": "prod"}, want: []string{"PATH=/bin", "HOME=/root", "NODE_ENV=prod"}},
		{name: "append sorted", env: map[string]string{"B": "2", "A": "1"}, want: []string{"PATH=/bin", "HOME=/root", "NODE_ENV=dev", "A=1", "B=2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MergeEnv(base, tt.env))
		})
	}
}

func script(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts")
	}
	path := filepath.Join(t.TempDir(), "tool")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func TestRun(t *testing.T) {
	exe := script(t, `echo "$1 $GREETING"; exit 3`)
	var out bytes.Buffer
	r := &Runner{Stdout: &out, Stderr: &out, Environ: []string{"PATH=/usr/bin:/bin"}}
	ctx := logging.NewContext(t.Context(), logging.ForTest(t))

	code, err := r.Run(ctx, &Target{Executable: exe, Env: map[string]string{"GREETING": "hi"}}, []string{"arg"})
	require.NoError(t, err)
	assert.Equal(t, 3, code)
	assert.Equal(t, "arg hi\n", out.String())
}

func TestRun_Stdin(t *testing.T) {
	exe := script(t, "cat")
	var out bytes.Buffer
	r := &Runner{Stdin: bytes.NewBufferString("piped"), Stdout: &out}

	code, err := r.Run(t.Context(), &Target{Executable: exe}, nil)
	require.NoError(t, err)
	assert.Zero(t, code)
	assert.Equal(t, "piped", out.String())
}

func TestRun_MissingExecutable(t *testing.T) {
	r := &Runner{}
	_, err := r.Run(t.Context(), &Target{Executable: filepath.Join(t.TempDir(), "gone")}, nil)
	assert.Error(t, err)
}
