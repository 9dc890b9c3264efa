package pkgconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocker(t *testing.T) {
	cfg := Default()
	l := NewLocker(cfg)

	assert.True(t, l.Locked())
	assert.Same(t, cfg, l.Value())
	_, err := l.Mutable()
	require.ErrorIs(t, err, ErrConfigLocked)

	l.Unlock()
	got, err := l.Mutable()
	require.NoError(t, err)
	assert.Same(t, cfg, got)

	l.Lock()
	_, err = l.Mutable()
	assert.ErrorIs(t, err, ErrConfigLocked)
}

func TestCategoryEdits(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.AddCategory("editor"))
	assert.ErrorIs(t, cfg.AddCategory("editor"), ErrCategoryExists)
	require.NoError(t, cfg.RemoveCategory("editor"))
	assert.ErrorIs(t, cfg.RemoveCategory("editor"), ErrCategoryNotFound)
}

func TestPackageEdits_DefaultTracking(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.AddCategory("editor"))
	require.NoError(t, cfg.AddPackage("editor", RunnablePackage{Name: "a"}))
	require.NoError(t, cfg.AddPackage("editor", RunnablePackage{Name: "b"}))
	require.NoError(t, cfg.AddPackage("editor", RunnablePackage{Name: "c"}))
	assert.ErrorIs(t, cfg.AddPackage("editor", RunnablePackage{Name: "a"}), ErrPackageExists)
	assert.ErrorIs(t, cfg.AddPackage("shell", RunnablePackage{Name: "a"}), ErrCategoryNotFound)

	cat := &cfg.PackageCategories[0]
	require.NotNil(t, cat.DefaultPackage)
	assert.Equal(t, 0, *cat.DefaultPackage)
	assert.NotNil(t, cat.Packages[0].Envs)

	require.NoError(t, cfg.SelectDefault("editor", "c"))
	require.NoError(t, cfg.RemovePackage("editor", "a"))
	assert.Equal(t, "c", cat.Default().Name)

	require.NoError(t, cfg.RemovePackage("editor", "c"))
	assert.Equal(t, "b", cat.Default().Name)

	require.NoError(t, cfg.RemovePackage("editor", "b"))
	assert.Nil(t, cat.DefaultPackage)

	assert.ErrorIs(t, cfg.RemovePackage("editor", "b"), ErrPackageNotFound)
	assert.ErrorIs(t, cfg.SelectDefault("editor", "b"), ErrPackageNotFound)
}

func TestBinderAndEnvEdits(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.AddCategory("editor"))
	require.NoError(t, cfg.AddPackage("editor", RunnablePackage{Name: "ed"}))

	b := TargetBinder{TargetName: "ed", TargetPath: "/opt/ed", ExecutionPath: "/opt/select/ed"}
	require.NoError(t, cfg.AddBinder("editor", "ed", b))
	assert.ErrorIs(t, cfg.AddBinder("editor", "ed", b), ErrBinderExists)

	require.NoError(t, cfg.SetEnv("editor", "ed", "TERM", "dumb"))
	p, err := cfg.Package("editor", "ed")
	require.NoError(t, err)
	assert.Equal(t, "dumb", p.Envs["TERM"])

	require.NoError(t, cfg.UnsetEnv("editor", "ed", "TERM"))
	require.NoError(t, cfg.UnsetEnv("editor", "ed", "TERM"))
	assert.NotContains(t, p.Envs, "TERM")

	require.NoError(t, cfg.RemoveBinder("editor", "ed", "ed"))
	assert.ErrorIs(t, cfg.RemoveBinder("editor", "ed", "ed"), ErrBinderNotFound)
	assert.Empty(t, p.Binders)

	_, err = cfg.Package("editor", "vi")
	assert.ErrorIs(t, err, ErrPackageNotFound)
}
