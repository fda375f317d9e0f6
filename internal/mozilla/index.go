// Package mozilla implements the exporter's Mozilla cache2 parser:
// per-directory index header, per-entry metadata (versions 1-3), key
// grammar, and browser/profile path recovery.
//
// Binary layout parsing is grounded on go-git's plumbing/format/
// revfile.Decoder (fixed big-endian header fields read via a small
// bufio.Reader-backed decoder) and plumbing/format/packfile.Scanner
// (section-by-section iteration over a container's contents).
package mozilla

import (
	"encoding/binary"
	"fmt"
	"io"
)

// MaxIndexVersion is the highest index version this parser is confident
// reading; higher versions are warned about and accepted as-is.
const MaxIndexVersion = 10

// IndexHeader is cache2's per-directory "index" file header: version,
// last-write time, dirty flag, used cache size (KiB), all big-endian.
type IndexHeader struct {
	Version       uint32
	LastWriteTime uint32
	DirtyFlag     uint32
	UsedCacheSize uint32
}

// Error reports a malformed Mozilla cache2 structure.
type Error struct {
	msg string
}

func (e *Error) Error() string { return "mozilla: " + e.msg }

func newError(format string, args ...any) *Error {
	return &Error{msg: fmt.Sprintf(format, args...)}
}

// ReadIndexHeader decodes the fixed 16-byte index header. A version above
// MaxIndexVersion is accepted (the caller should log a warning); nothing
// else about the header is version-gated.
func ReadIndexHeader(r io.Reader) (IndexHeader, error) {
	var raw [16]byte
	if _, err := io.ReadFull(r, raw[:]); err != nil {
		return IndexHeader{}, newError("truncated index header: %v", err)
	}
	return IndexHeader{
		Version:       binary.BigEndian.Uint32(raw[0:4]),
		LastWriteTime: binary.BigEndian.Uint32(raw[4:8]),
		DirtyFlag:     binary.BigEndian.Uint32(raw[8:12]),
		UsedCacheSize: binary.BigEndian.Uint32(raw[12:16]),
	}, nil
}

// VersionSupported reports whether v is within the range this parser has
// been validated against.
func (h IndexHeader) VersionSupported() bool { return h.Version <= MaxIndexVersion }
