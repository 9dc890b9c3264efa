package pkgconfig

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTargetBinder_Paths(t *testing.T) {
	b := TargetBinder{TargetName: "ed", TargetPath: "/opt/ed-1.0", ExecutionPath: "/opt/select/ed-1.0"}
	assert.Equal(t, filepath.Join("/opt/select/ed-1.0", "ed"), b.AliasPath())
	assert.Equal(t, filepath.Join("/opt/ed-1.0", "ed"), b.ExecutablePath())
}

func TestPackageCategory_Default(t *testing.T) {
	tests := []struct {
		name    string
		def     *int
		wantNil bool
	}{
		{name: "unset", def: nil, wantNil: true},
		{name: "in range", def: IntPtr(1)},
		{name: "negative", def: IntPtr(-1), wantNil: true},
		{name: "past end", def: IntPtr(2), wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := PackageCategory{
				Packages:       []RunnablePackage{{Name: "a"}, {Name: "b"}},
				DefaultPackage: tt.def,
			}
			got := c.Default()
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, "b", got.Name)
		})
	}
}

func TestRuntimeConfig_CloneIsDeep(t *testing.T) {
	cfg, _ := fixture(t)
	clone := cfg.Clone()

	clone.PackageCategories[0].Packages[0].Envs["ED_VERSION"] = "changed"
	clone.PackageCategories[0].Packages[0].Binders[0].TargetName = "vi"
	*clone.PackageCategories[0].DefaultPackage = 1

	assert.Equal(t, "1.0", cfg.PackageCategories[0].Packages[0].Envs["ED_VERSION"])
	assert.Equal(t, "ed", cfg.PackageCategories[0].Packages[0].Binders[0].TargetName)
	assert.Equal(t, 0, *cfg.PackageCategories[0].DefaultPackage)
}

func TestHash(t *testing.T) {
	cfg, _ := fixture(t)

	t.Run("stable", func(t *testing.T) {
		assert.Equal(t, MustHash(cfg), MustHash(cfg.Clone()))
	})

	t.Run("ignores stored hash", func(t *testing.T) {
		other := cfg.Clone()
		other.PackageCategoryHash = "something else"
		assert.Equal(t, MustHash(cfg), MustHash(other))
	})

	t.Run("nil and empty collections agree", func(t *testing.T) {
		a := &RuntimeConfig{PackageCategories: []PackageCategory{{Name: "x"}}}
		b := &RuntimeConfig{PackageCategories: []PackageCategory{{Name: "x", Packages: []RunnablePackage{}}}}
		assert.Equal(t, MustHash(a), MustHash(b))
	})

	t.Run("content change alters hash", func(t *testing.T) {
		other := cfg.Clone()
		other.PackageCategories[0].DefaultPackage = IntPtr(1)
		assert.NotEqual(t, MustHash(cfg), MustHash(other))
	})

	t.Run("dirty", func(t *testing.T) {
		other := cfg.Clone()
		dirty, err := Dirty(other)
		require.NoError(t, err)
		assert.False(t, dirty)

		require.NoError(t, other.AddCategory("shell"))
		dirty, err = Dirty(other)
		require.NoError(t, err)
		assert.True(t, dirty)
	})
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Empty(t, cfg.PackageCategories)
	assert.NotNil(t, cfg.PackageCategories)
	assert.Len(t, cfg.PackageCategoryHash, 64)
}

func TestEntries(t *testing.T) {
	cfg, root := fixture(t)

	t.Run("shared alias resolves to default package", func(t *testing.T) {
		entries, err := cfg.Entries("")
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, filepath.Join(root, "select", "ed"), entries[0].Alias)
		assert.Equal(t, filepath.Join(root, "opt", "ed-1.0", "ed"), entries[0].Executable)
		assert.Equal(t, "ed-1.0", entries[0].Package)
	})

	t.Run("default switch changes executable", func(t *testing.T) {
		other := cfg.Clone()
		require.NoError(t, other.SelectDefault("editor", "ed-2.0"))
		entries, err := other.Entries("editor")
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "ed-2.0", entries[0].Package)
	})

	t.Run("unknown category", func(t *testing.T) {
		_, err := cfg.Entries("shell")
		require.ErrorIs(t, err, ErrCategoryNotFound)
	})

	t.Run("aliases", func(t *testing.T) {
		entries, err := cfg.Entries("")
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(root, "select", "ed")}, Aliases(entries))
	})
}
