package binder

import (
	"bytes"
	"io"
	"os"
	"runtime"

	"github.com/cockroachdb/errors"
)

const (
	chunkSize      = 4096
	executableMode = 0o755
)

// Copy makes each alias a byte-identical copy of its source.
type Copy struct {
	goos string
}

// NewCopy returns a Copy backend for the running OS.
func NewCopy() Copy {
	return Copy{goos: runtime.GOOS}
}

// Name implements Backend.
func (Copy) Name() string {
	return "copy"
}

// Registered is true when the alias exists and matches the source byte for
// byte.
func (Copy) Registered(b Binding) bool {
	same, err := sameContent(b.Alias, b.Source)
	return err == nil && same
}

// Register implements Backend. Off Windows the copy is made executable.
func (c Copy) Register(b Binding) error {
	if err := prepare(b); err != nil {
		return err
	}
	if !c.Registered(b) {
		if err := remove(b.Alias); err != nil {
			return err
		}
		if err := copyFile(b.Source, b.Alias); err != nil {
			return err
		}
	}
	if c.goos == "windows" {
		return nil
	}
	info, err := os.Stat(b.Alias)
	if err != nil {
		return errors.Wrapf(err, "stating %s", b.Alias)
	}
	if info.Mode().Perm() != executableMode {
		if err := os.Chmod(b.Alias, executableMode); err != nil {
			return errors.Wrapf(err, "setting mode on %s", b.Alias)
		}
	}
	return nil
}

// Unregister implements Backend.
func (Copy) Unregister(b Binding) error {
	return remove(b.Alias)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrapf(err, "opening source file %s", src)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return errors.Wrapf(err, "stating source file %s", src)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return errors.Wrapf(err, "creating %s", dst)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return errors.Wrapf(err, "copying %s to %s", src, dst)
	}
	return errors.Wrapf(out.Close(), "closing %s", dst)
}

// sameContent compares two files in fixed-size chunks. Files of different
// length are never equal.
func sameContent(a, b string) (bool, error) {
	ia, err := os.Stat(a)
	if err != nil {
		return false, err
	}
	ib, err := os.Stat(b)
	if err != nil {
		return false, err
	}
	if !ia.Mode().IsRegular() || !ib.Mode().IsRegular() || ia.Size() != ib.Size() {
		return false, nil
	}

	fa, err := os.Open(a)
	if err != nil {
		return false, err
	}
	defer fa.Close()
	fb, err := os.Open(b)
	if err != nil {
		return false, err
	}
	defer fb.Close()

	bufA := make([]byte, chunkSize)
	bufB := make([]byte, chunkSize)
	for {
		na, errA := io.ReadFull(fa, bufA)
		nb, errB := io.ReadFull(fb, bufB)
		if na != nb || !bytes.Equal(bufA[:na], bufB[:nb]) {
			return false, nil
		}
		doneA := errors.Is(errA, io.EOF) || errors.Is(errA, io.ErrUnexpectedEOF)
		doneB := errors.Is(errB, io.EOF) || errors.Is(errB, io.ErrUnexpectedEOF)
		if doneA || doneB {
			return doneA && doneB, nil
		}
		if errA != nil {
			return false, errA
		}
		if errB != nil {
			return false, errB
		}
	}
}
