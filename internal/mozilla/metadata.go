package mozilla

import (
	"encoding/binary"
)

// MaxMetadataVersion is the highest metadata header version this parser
// understands. Entries with a version above this are skipped entirely:
// ReadEntry reports them through Entry.Skipped and copies no payload.
const MaxMetadataVersion = 3

// V1ExportUnsupported explains why a recognized v1 entry is parsed but
// not exported: the original tool's v1 exporter is a stub. Parsing the
// header anyway costs nothing, since v1's layout is a strict subset of
// v2's, and lets the run report the entry as "found, not exported"
// instead of silently missing it.
const V1ExportUnsupported = "Mozilla cache version 1 export is unsupported"

// ChunkSize is the cache2 per-chunk hash granularity (256 KiB), used to
// size the hash block skipped before the metadata header.
const ChunkSize = 256 * 1024

// MetadataHeader is the fixed portion of an entry file's trailing
// metadata block, normalized across versions 1-3. Frecency and Flags are
// zero for v1/v2, which do not carry them.
type MetadataHeader struct {
	Version          uint32
	AccessCount      uint32
	LastAccessTime   uint32
	LastModifiedTime uint32
	Frecency         uint32
	ExpiryTime       uint32
	KeyLength        uint32
	Flags            uint32
}

// HashSize returns the number of per-chunk hash bytes preceding the
// metadata header within the metadata block, given the entry's
// metadataOffset (the payload length): 4 bytes plus 2 bytes per chunk
// hashed, rounding the chunk count up.
func HashSize(metadataOffset uint32) int64 {
	var numHashes int64
	if metadataOffset != 0 {
		numHashes = (int64(metadataOffset)-1)/ChunkSize + 1
	}
	return 4 + numHashes*2
}

// ReadMetadataHeader decodes a metadata header from raw, which must start
// at the header's first byte. It returns the header and the number of
// bytes consumed. A version above MaxMetadataVersion is reported as an
// "unsupported metadata version" *Error so the caller can log and skip the
// entry.
func ReadMetadataHeader(raw []byte) (MetadataHeader, int, error) {
	if len(raw) < 4 {
		return MetadataHeader{}, 0, newError("truncated metadata header")
	}
	version := binary.BigEndian.Uint32(raw[0:4])

	switch {
	case version == 1 || version == 2:
		if len(raw) < 24 {
			return MetadataHeader{}, 0, newError("truncated v%d metadata header", version)
		}
		return MetadataHeader{
			Version:          version,
			AccessCount:      binary.BigEndian.Uint32(raw[4:8]),
			LastAccessTime:   binary.BigEndian.Uint32(raw[8:12]),
			LastModifiedTime: binary.BigEndian.Uint32(raw[12:16]),
			ExpiryTime:       binary.BigEndian.Uint32(raw[16:20]),
			KeyLength:        binary.BigEndian.Uint32(raw[20:24]),
		}, 24, nil

	case version == 3:
		if len(raw) < 32 {
			return MetadataHeader{}, 0, newError("truncated v3 metadata header")
		}
		return MetadataHeader{
			Version:          version,
			AccessCount:      binary.BigEndian.Uint32(raw[4:8]),
			LastAccessTime:   binary.BigEndian.Uint32(raw[8:12]),
			LastModifiedTime: binary.BigEndian.Uint32(raw[12:16]),
			Frecency:         binary.BigEndian.Uint32(raw[16:20]),
			ExpiryTime:       binary.BigEndian.Uint32(raw[20:24]),
			KeyLength:        binary.BigEndian.Uint32(raw[24:28]),
			Flags:            binary.BigEndian.Uint32(raw[28:32]),
		}, 32, nil

	default:
		return MetadataHeader{}, 0, newError("unsupported metadata version %d", version)
	}
}

// Elements is the NUL-terminated key/value pair block following an
// entry's key.
type Elements map[string]string

// parseElements splits raw on NUL bytes into alternating key/value pairs.
// A trailing unpaired key (no value before the block's end) is ignored.
func parseElements(raw []byte) Elements {
	e := make(Elements)
	fields := splitNUL(raw)
	for i := 0; i+1 < len(fields); i += 2 {
		if fields[i] == "" {
			continue
		}
		e[fields[i]] = fields[i+1]
	}
	return e
}

func splitNUL(raw []byte) []string {
	var out []string
	start := 0
	for i, b := range raw {
		if b == 0 {
			out = append(out, string(raw[start:i]))
			start = i + 1
		}
	}
	if start < len(raw) {
		out = append(out, string(raw[start:]))
	}
	return out
}

// ResponseHead returns the parsed "response-head" element, if present.
func (e Elements) ResponseHead() (Headers, bool) {
	raw, ok := e["response-head"]
	if !ok {
		return nil, false
	}
	return parseHeaders(raw), true
}

// RequestOrigin returns the "request-origin" element, if present.
func (e Elements) RequestOrigin() (string, bool) {
	v, ok := e["request-origin"]
	return v, ok
}
