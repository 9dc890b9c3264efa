package commands

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/pkgselect/internal/errors"
)

func setInteractive(t *testing.T, v bool) {
	t.Helper()
	orig := interactive
	interactive = func(io.Reader) bool { return v }
	t.Cleanup(func() { interactive = orig })
}

func syncedJava(t *testing.T) *testEnv {
	t.Helper()
	e := useTestEnv(t)
	e.javaCatalog(t)
	var buf bytes.Buffer
	require.NoError(t, runSyncWithWriter(t.Context(), &buf, ""))
	require.FileExists(t, e.alias())
	return e
}

func TestPurge_SkipConfirm(t *testing.T) {
	e := syncedJava(t)
	setInteractive(t, false)

	var buf bytes.Buffer
	require.NoError(t, runPurgeWithIO(t.Context(), strings.NewReader(""), &buf, true))
	assert.Contains(t, buf.String(), "purged")

	assert.NoFileExists(t, e.alias())
	assert.NoFileExists(t, e.envFile())

	cfg, err := e.open(t).Store.Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.PackageCategories)
}

func TestPurge_Confirmed(t *testing.T) {
	e := syncedJava(t)
	setInteractive(t, true)

	var buf bytes.Buffer
	require.NoError(t, runPurgeWithIO(t.Context(), strings.NewReader(purgeConfirmWord+"\n"), &buf, false))
	assert.Contains(t, buf.String(), "purged")
	assert.NoFileExists(t, e.alias())
}

func TestPurge_Declined(t *testing.T) {
	e := syncedJava(t)
	setInteractive(t, true)

	var buf bytes.Buffer
	require.NoError(t, runPurgeWithIO(t.Context(), strings.NewReader("yes\n"), &buf, false))
	assert.Contains(t, buf.String(), "Aborted")
	assert.FileExists(t, e.alias())
}

func TestPurge_NeedsTerminal(t *testing.T) {
	e := syncedJava(t)
	setInteractive(t, false)

	var buf bytes.Buffer
	err := runPurgeWithIO(t.Context(), strings.NewReader(purgeConfirmWord+"\n"), &buf, false)
	require.Error(t, err)
	assert.Equal(t, errors.ExitUser, errors.ExitCode(err))
	assert.FileExists(t, e.alias())
}
