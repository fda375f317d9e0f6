package byteio

import (
	"fmt"
	"os"
	"path/filepath"
)

// Writer supports append, truncate, and scoped temp-file output. Its
// temp-file lifecycle is grounded on go-git's ObjectWriter/PackWriter
// (storage/filesystem/internal/dotgit/writers.go): write to a unique file
// under the run's temp root, and either commit it (rename/keep) or let
// Close auto-delete it.
type Writer struct {
	Path string

	f         *os.File
	temporary bool
	committed bool
}

// BeginAppend opens path for appending, creating parent directories as
// needed.
func (w *Writer) BeginAppend(path string) error {
	return w.open(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND)
}

// BeginTruncate opens path for writing, truncating any existing contents.
func (w *Writer) BeginTruncate(path string) error {
	return w.open(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC)
}

func (w *Writer) open(path string, flag int) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("byteio: create parent directory for %s: %w", path, err)
		}
	}
	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		return err
	}
	w.f = f
	w.Path = path
	return nil
}

// BeginTemp creates a unique file in tempRoot and prepares w to write to
// it. Unless Commit is called before Close, the file is removed when
// Close runs.
func (w *Writer) BeginTemp(tempRoot, pattern string) error {
	if err := os.MkdirAll(tempRoot, 0o755); err != nil {
		return fmt.Errorf("byteio: create temp root %s: %w", tempRoot, err)
	}
	f, err := os.CreateTemp(tempRoot, pattern)
	if err != nil {
		return err
	}
	w.f = f
	w.Path = f.Name()
	w.temporary = true
	return nil
}

// Write implements io.Writer.
func (w *Writer) Write(p []byte) (int, error) {
	return w.f.Write(p)
}

// Truncate repositions to size and marks that as the new end-of-file.
func (w *Writer) Truncate(size int64) error {
	if err := w.f.Truncate(size); err != nil {
		return err
	}
	_, err := w.f.Seek(size, 0)
	return err
}

// Commit marks a temp-file Writer's output as wanted, so Close will not
// delete it.
func (w *Writer) Commit() {
	w.committed = true
}

// Close flushes and closes the underlying file. For a temp-file Writer
// that was never Commit-ed, the file is unlinked.
func (w *Writer) Close() error {
	if w.f == nil {
		return nil
	}
	err := w.f.Close()
	w.f = nil
	if w.temporary && !w.committed {
		if rmErr := os.Remove(w.Path); rmErr != nil && err == nil {
			err = rmErr
		}
	}
	return err
}
