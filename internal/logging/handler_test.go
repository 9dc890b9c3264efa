package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHandler_Handle(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	now := time.Now()
	logger.Info("synced category", "category", "tools")

	out := buf.String()
	assert.Contains(t, out, "INFO")
	assert.Contains(t, out, "synced category")
	assert.Contains(t, out, "category=tools")
	assert.Contains(t, out, now.Format(time.Kitchen))
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestHandler_TraceLevelName(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, &slog.HandlerOptions{Level: LevelTrace}))

	logger.Log(t.Context(), LevelTrace, "comparing chunk")

	assert.Contains(t, buf.String(), "TRACE")
}

func TestHandler_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, nil)).With("backend", "profile").WithGroup("path")

	logger.Info("registered", "dir", "/opt/select/ed")

	out := buf.String()
	assert.Contains(t, out, "backend=profile")
	assert.Contains(t, out, "path.dir=/opt/select/ed")
}

func TestHandler_Enabled(t *testing.T) {
	h := NewHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn})

	assert.False(t, h.Enabled(t.Context(), slog.LevelInfo))
	assert.True(t, h.Enabled(t.Context(), slog.LevelWarn))
	assert.True(t, h.Enabled(t.Context(), slog.LevelError))
}

func TestHandler_MasksSecrets(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, nil))

	logger.Info("env", "GITHUB_TOKEN", "abcdefgh1234", "value", "ghp_0123456789")

	out := buf.String()
	assert.NotContains(t, out, "abcdefgh1234")
	assert.NotContains(t, out, "ghp_0123456789")
	assert.Contains(t, out, "****1234")
}

type failingHandler struct {
	slog.Handler
}

func (failingHandler) Handle(_ context.Context, _ slog.Record) error {
	return errors.New("sink closed")
}

func TestMultiHandler(t *testing.T) {
	var a, b bytes.Buffer
	ha := NewHandler(&a, &slog.HandlerOptions{Level: slog.LevelInfo})
	hb := slog.NewJSONHandler(&b, &slog.HandlerOptions{Level: slog.LevelDebug})

	logger := slog.New(NewMultiHandler(ha, hb))
	logger.Debug("debug only in json")
	logger.Info("in both", "k", "v")

	assert.NotContains(t, a.String(), "debug only in json")
	assert.Contains(t, a.String(), "in both")
	assert.Contains(t, b.String(), "debug only in json")
	assert.Contains(t, b.String(), `"k":"v"`)
}

func TestMultiHandler_FirstError(t *testing.T) {
	var buf bytes.Buffer
	ok := NewHandler(&buf, nil)
	bad := failingHandler{Handler: slog.NewTextHandler(&bytes.Buffer{}, nil)}

	h := NewMultiHandler(bad, ok)
	rec := slog.NewRecord(time.Now(), slog.LevelInfo, "x", 0)

	err := h.Handle(t.Context(), rec)
	assert.EqualError(t, err, "sink closed")
	assert.Contains(t, buf.String(), "x")
}
