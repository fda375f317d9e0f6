package byteio

import (
	"errors"
	"os"
)

// ErrEmptyFile is returned by NewMappedView for a zero-length file: an
// empty file has no contents to map a view over.
var ErrEmptyFile = errors.New("byteio: cannot map an empty file")

// MappedView provides a read-only contiguous view of a non-empty file. No
// memory-mapping library appears anywhere in the example pack's seven
// go.mod files, so this reads the whole file into a single buffer via
// io.ReaderAt instead of mmap(2)/MapViewOfFile — see DESIGN.md's
// stdlib-justification entry for this component.
type MappedView struct {
	data []byte
}

// NewMappedView opens path and reads its full contents into memory.
func NewMappedView(path string) (*MappedView, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() == 0 {
		return nil, ErrEmptyFile
	}

	data := make([]byte, info.Size())
	if _, err := f.ReadAt(data, 0); err != nil {
		return nil, err
	}
	return &MappedView{data: data}, nil
}

// Bytes returns the view's full contents.
func (m *MappedView) Bytes() []byte { return m.data }

// Len reports the view's length.
func (m *MappedView) Len() int { return len(m.data) }
