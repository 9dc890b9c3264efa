package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/pkgselect/internal/cli/prompt"
	"github.com/thoreinstein/pkgselect/internal/errors"
	"github.com/thoreinstein/pkgselect/internal/pkgconfig"
)

func stagedDefault(t *testing.T, e *testEnv) string {
	t.Helper()
	cfg, ok, err := e.open(t).Staged.LoadIfExists()
	require.NoError(t, err)
	require.True(t, ok, "expected a staged catalog")
	cat, err := cfg.Category("java")
	require.NoError(t, err)
	return cat.Default().Name
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		input string
		fuzzy func(*pkgconfig.PackageCategory) (int, error)
		want  string
	}{
		{name: "explicit package", args: []string{"java", "jdk-21"}, want: "jdk-21"},
		{name: "numbered prompt", args: []string{"java"}, input: "2\n", want: "jdk-21"},
		{name: "prompt keeps default on empty input", args: []string{"java"}, input: "\n", want: "jdk-17"},
		{
			name:  "fuzzy finder",
			args:  []string{"java"},
			fuzzy: func(*pkgconfig.PackageCategory) (int, error) { return 1, nil },
			want:  "jdk-21",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := useTestEnv(t)
			e.javaCatalog(t)

			if tt.fuzzy != nil {
				orig := fuzzyPick
				fuzzyPick = tt.fuzzy
				t.Cleanup(func() { fuzzyPick = orig })
			}

			var buf bytes.Buffer
			selected, err := runSelectWithIO(strings.NewReader(tt.input), &buf, tt.args, tt.fuzzy != nil)
			require.NoError(t, err)
			assert.True(t, selected)
			assert.Contains(t, buf.String(), "java: default is now "+tt.want)
			assert.Contains(t, buf.String(), "staged")
			assert.Equal(t, tt.want, stagedDefault(t, e))
		})
	}
}

func TestSelect_Cancelled(t *testing.T) {
	e := useTestEnv(t)
	e.javaCatalog(t)

	orig := fuzzyPick
	fuzzyPick = func(*pkgconfig.PackageCategory) (int, error) { return 0, prompt.ErrSelectionCancelled }
	t.Cleanup(func() { fuzzyPick = orig })

	var buf bytes.Buffer
	selected, err := runSelectWithIO(strings.NewReader(""), &buf, []string{"java"}, true)
	require.NoError(t, err)
	assert.False(t, selected)
	assert.Contains(t, buf.String(), "Aborted")
	assert.NoFileExists(t, e.open(t).Staged.Path())
}

func TestSelect_Errors(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		input string
	}{
		{"unknown category", []string{"python"}, ""},
		{"unknown package", []string{"java", "jdk-8"}, ""},
		{"out of range", []string{"java"}, "9\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := useTestEnv(t)
			e.javaCatalog(t)

			var buf bytes.Buffer
			selected, err := runSelectWithIO(strings.NewReader(tt.input), &buf, tt.args, false)
			require.Error(t, err)
			assert.False(t, selected)
			assert.Equal(t, errors.ExitUser, errors.ExitCode(err))
		})
	}
}
