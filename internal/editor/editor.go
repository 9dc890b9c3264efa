// Package editor launches the user's preferred text editor.
package editor

import (
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/thoreinstein/pkgselect/internal/errors"
)

// Editor runs an interactive editor with the given stdio.
type Editor struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// New returns an Editor attached to the process stdio.
func New() *Editor {
	return &Editor{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Open launches the editor on path and waits for it to exit.
func (e *Editor) Open(ctx context.Context, path string) error {
	// $EDITOR may carry flags, e.g. "code --wait".
	fields := strings.Fields(detectEditor())
	args := append(fields[1:], path)

	cmd := exec.CommandContext(ctx, fields[0], args...)
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "running editor %s", fields[0])
	}
	return nil
}

// Edit writes data to a temporary file with the given extension, opens it
// in the editor, and returns the saved contents.
func (e *Editor) Edit(ctx context.Context, data []byte, ext string) ([]byte, error) {
	f, err := os.CreateTemp("", "pkgselect-*"+ext)
	if err != nil {
		return nil, errors.Wrap(err, "creating temp file")
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.Write(data); err != nil {
		f.Close()
		return nil, errors.Wrap(err, "writing temp file")
	}
	if err := f.Close(); err != nil {
		return nil, errors.Wrap(err, "closing temp file")
	}

	if err := e.Open(ctx, path); err != nil {
		return nil, err
	}

	out, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading edited file")
	}
	return out, nil
}

// detectEditor returns the editor command to use based on environment variables
// and available binaries. Fallback chain: $EDITOR → $VISUAL → nano → vi
func detectEditor() string {
	if editor := strings.TrimSpace(os.Getenv("EDITOR")); editor != "" {
		return editor
	}
	if visual := strings.TrimSpace(os.Getenv("VISUAL")); visual != "" {
		return visual
	}
	if _, err := exec.LookPath("nano"); err == nil {
		return "nano"
	}
	return "vi"
}
