package commands

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/pkgselect/internal/errors"
)

func TestShow(t *testing.T) {
	e := useTestEnv(t)
	e.javaCatalog(t)

	tests := []struct {
		name  string
		query string
		check func(t *testing.T, out string)
	}{
		{
			name: "whole document",
			check: func(t *testing.T, out string) {
				assert.True(t, json.Valid([]byte(out)))
				assert.Contains(t, out, `"package_categories"`)
			},
		},
		{
			name:  "scalar",
			query: "package_categories.0.packages.1.name",
			check: func(t *testing.T, out string) { assert.Equal(t, "jdk-21\n", out) },
		},
		{
			name:  "array",
			query: "package_categories.#.name",
			check: func(t *testing.T, out string) {
				var names []string
				require.NoError(t, json.Unmarshal([]byte(out), &names))
				assert.Equal(t, []string{"java"}, names)
			},
		},
		{
			name:  "object",
			query: "package_categories.0.packages.0.envs",
			check: func(t *testing.T, out string) { assert.Contains(t, out, `"JAVA_HOME"`) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, runShowWithWriter(&buf, tt.query, false))
			tt.check(t, buf.String())
		})
	}
}

func TestShow_NoMatch(t *testing.T) {
	e := useTestEnv(t)
	e.javaCatalog(t)

	var buf bytes.Buffer
	err := runShowWithWriter(&buf, "package_categories.9.name", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "matched nothing")
	assert.Equal(t, errors.ExitUser, errors.ExitCode(err))
}

func TestShow_StagedMissing(t *testing.T) {
	e := useTestEnv(t)
	e.javaCatalog(t)

	var buf bytes.Buffer
	err := runShowWithWriter(&buf, "", true)
	require.Error(t, err)
	assert.Equal(t, errors.ExitUser, errors.ExitCode(err))
}
