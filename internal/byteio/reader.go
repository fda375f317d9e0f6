// Package byteio implements the exporter's chunked byte I/O layer.
//
// Reader and Writer are grounded on go-git's temp-file write/rename
// pattern in storage/filesystem/internal/dotgit/writers.go (ObjectWriter,
// PackWriter) and on the scoped-acquisition idiom used throughout go-git
// for file handles. Unlike the original tool's arena-backed buffers, a Go
// Reader borrows its chunk buffer from an *arena.Region so repeated reads
// within one export.Next call reuse scratch space that is cleared at the
// entry's safepoint.
package byteio

import (
	"fmt"
	"io"
	"os"

	"github.com/joaohenggeler/web-cache-exporter-sub001/internal/arena"
)

// DefaultCapacity is used when a Reader's Capacity is left unset.
const DefaultCapacity = 64 * 1024

// Reader yields fixed-capacity chunks of a file's contents at an explicit,
// monotonically increasing Offset.
type Reader struct {
	// Capacity is the chunk size; it defaults to DefaultCapacity.
	Capacity int

	f      *os.File
	region *arena.Region
	buf    []byte

	// Offset is the absolute position in the file after the most recent
	// successful Next call.
	Offset int64
	// Data and Size describe the current chunk.
	Data []byte
	Size int
	// EOF is set once a Next call returns no further bytes.
	EOF bool
}

// Begin opens path for reading and prepares r to read from it, carving its
// chunk buffer from region (arena.Current() if region is nil). The
// starting offset may be set via r.Offset before calling Begin to skip a
// prefix, mirroring the Mozilla parser's use of an explicit seek past
// per-chunk hash data.
func (r *Reader) Begin(path string, region *arena.Region) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	if region == nil {
		region = arena.Current()
	}
	r.f = f
	r.region = region
	if r.Capacity <= 0 {
		r.Capacity = DefaultCapacity
	}
	if r.Offset > 0 {
		if _, err := f.Seek(r.Offset, io.SeekStart); err != nil {
			f.Close() //nolint:errcheck
			return err
		}
	}
	r.buf = region.Alloc(r.Capacity)
	return nil
}

// Next reads the next chunk into r.Data. It returns false once EOF is
// reached; a short final chunk is reported (Size < Capacity) without being
// treated as an error. Once EOF is set the underlying file handle is
// closed; subsequent calls to Next keep returning false.
func (r *Reader) Next() bool {
	if r.EOF {
		return false
	}
	n, err := io.ReadFull(r.f, r.buf)
	switch {
	case err == nil:
		r.Data = r.buf[:n]
		r.Size = n
		r.Offset += int64(n)
		return true
	case err == io.ErrUnexpectedEOF || err == io.EOF:
		r.Data = r.buf[:n]
		r.Size = n
		r.Offset += int64(n)
		r.EOF = true
		r.f.Close() //nolint:errcheck
		r.f = nil
		return n > 0
	default:
		r.EOF = true
		r.f.Close() //nolint:errcheck
		r.f = nil
		r.Data = nil
		r.Size = 0
		return false
	}
}

// End releases r's resources. It is safe to call End more than once and
// after EOF has already closed the file.
func (r *Reader) End() error {
	if r.f == nil {
		return nil
	}
	err := r.f.Close()
	r.f = nil
	return err
}

// ReadFirstChunk opens path, reads up to n bytes from the start, and
// closes it. It is used by signature matching and decompression
// magic-byte detection, which only ever need a small prefix of the file.
func ReadFirstChunk(path string, n int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck

	buf := make([]byte, n)
	read, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("byteio: read first chunk of %s: %w", path, err)
	}
	return buf[:read], nil
}
