package pkgconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeExecutable creates dir/name as an executable script.
func writeExecutable(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("#!/bin/sh\nexit 0\n"), 0o755))
}

// fixture returns a valid two-package "editor" category rooted in a temp
// dir, along with that dir.
func fixture(t *testing.T) (*RuntimeConfig, string) {
	t.Helper()
	root := t.TempDir()
	writeExecutable(t, filepath.Join(root, "opt", "ed-1.0"), "ed")
	writeExecutable(t, filepath.Join(root, "opt", "ed-2.0"), "ed")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "work"), 0o755))

	cfg := &RuntimeConfig{
		PackageCategories: []PackageCategory{{
			Name: "editor",
			Packages: []RunnablePackage{
				{
					Name: "ed-1.0",
					Envs: map[string]string{"ED_VERSION": "1.0"},
					Binders: []TargetBinder{{
						TargetName:    "ed",
						TargetPath:    filepath.Join(root, "opt", "ed-1.0"),
						ExecutionPath: filepath.Join(root, "select"),
					}},
				},
				{
					Name: "ed-2.0",
					Binders: []TargetBinder{{
						TargetName:    "ed",
						TargetPath:    filepath.Join(root, "opt", "ed-2.0"),
						ExecutionPath: filepath.Join(root, "select"),
					}},
					IncludedPaths: []string{filepath.Join(root, "work")},
				},
			},
			DefaultPackage: IntPtr(0),
		}},
	}
	cfg.PackageCategoryHash = MustHash(cfg)
	return cfg, root
}
