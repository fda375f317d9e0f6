// Package shockwave implements director-format chunk classification and
// directory discovery for Adobe/Macromedia Shockwave and Director cache
// files.
//
// Classification is grounded on go-git's plumbing/format/packfile header
// detection style: read a small fixed prefix, compare it against known
// magic values, and dispatch on the match — see packfile.Scanner's
// 4-byte signature check before it starts decoding objects.
package shockwave

import (
	"bytes"
	"encoding/binary"
	"path/filepath"
	"strings"

	"github.com/joaohenggeler/web-cache-exporter-sub001/internal/byteio"
)

const (
	chunkRIFXBigEndian    = "RIFX"
	chunkRIFXLittleEndian = "XFIR"
	chunkRIFFBigEndian    = "RIFF"

	formatDirectorBigEndian    = "MV93"
	formatDirectorLittleEndian = "39VM"
	formatMovieBigEndian       = "FGDM"
	formatMovieLittleEndian    = "MDGF"
	formatCastBigEndian        = "FGDC"
	formatCastLittleEndian     = "CDGF"
	formatXtraPackage          = "PCK2"

	audioMagicOffset = 0x24
	audioMagic       = "MACR"

	prefixSize = audioMagicOffset + len(audioMagic) // 40 bytes
)

// world3DMagic is the 4-byte "IFX." magic at a Shockwave 3D World file's
// start, read big-endian the same way the chunk id is.
var world3DMagic = [4]byte{0x49, 0x46, 0x58, 0x00}

// DirectorFormat classifies path by extension and leading bytes. An empty
// string means the format could not be identified.
func DirectorFormat(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".x32") {
		return "Xtra"
	}

	buf, err := byteio.ReadFirstChunk(path, prefixSize)
	if err != nil {
		return ""
	}

	if len(buf) >= 12 {
		id := string(buf[0:4])
		format := string(buf[8:12])

		switch id {
		case chunkRIFXBigEndian, chunkRIFXLittleEndian:
			switch format {
			case formatDirectorBigEndian, formatDirectorLittleEndian:
				return "Director Movie or Cast"
			case formatMovieBigEndian, formatMovieLittleEndian:
				return "Shockwave Movie"
			case formatCastBigEndian, formatCastLittleEndian:
				return "Shockwave Cast"
			}
		case chunkRIFFBigEndian:
			if format == formatXtraPackage {
				return "Xtra-Package"
			}
		}

		if binary.BigEndian.Uint32(buf[0:4]) == binary.BigEndian.Uint32(world3DMagic[:]) {
			return "Shockwave 3D World"
		}
	}

	if len(buf) >= prefixSize && bytes.Equal(buf[audioMagicOffset:audioMagicOffset+len(audioMagic)], []byte(audioMagic)) {
		return "Shockwave Audio"
	}

	return ""
}

// IsXtra reports whether path is an Xtra module (extension ".x32"), which
// is routed into an "Xtras" output subdirectory instead of "Cache".
func IsXtra(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".x32")
}

// Subdirectory returns the output subdirectory name ("Xtras" or "Cache")
// for a discovered file.
func Subdirectory(path string) string {
	if IsXtra(path) {
		return "Xtras"
	}
	return "Cache"
}
