package main

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/pkgselect/internal/errors"
	"github.com/thoreinstein/pkgselect/internal/pkgconfig"
)

func TestRun(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts")
	}
	root := t.TempDir()
	exeDir := filepath.Join(root, "opt", "tool-1")
	require.NoError(t, os.MkdirAll(exeDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(exeDir, "tool"), []byte("#!/bin/sh\necho \"$TOOL_MODE $*\"\nexit 4\n"), 0o755))

	catalog := filepath.Join(root, "packages.json")
	cfg := &pkgconfig.RuntimeConfig{PackageCategories: []pkgconfig.PackageCategory{{
		Name: "tool",
		Packages: []pkgconfig.RunnablePackage{{
			Name:    "tool-1",
			Envs:    map[string]string{"TOOL_MODE": "fast"},
			Binders: []pkgconfig.TargetBinder{{TargetName: "tool", TargetPath: exeDir, ExecutionPath: filepath.Join(root, "select")}},
		}},
		DefaultPackage: pkgconfig.IntPtr(0),
	}}}
	require.NoError(t, pkgconfig.NewStore(catalog).Save(cfg))

	t.Setenv("PKGSELECT_CATALOG_PATH", catalog)
	t.Chdir(root)

	var out, errOut bytes.Buffer
	code := run(t.Context(), []string{filepath.Join(root, "select", "tool"), "a", "b"}, nil, &out, &errOut)
	assert.Equal(t, 4, code, errOut.String())
	assert.Equal(t, "fast a b\n", out.String())

	code = run(t.Context(), []string{filepath.Join(root, "select", "other")}, nil, &out, &errOut)
	assert.Equal(t, errors.ExitSystem, code)
	assert.Contains(t, errOut.String(), "no binder owns this alias")
}
