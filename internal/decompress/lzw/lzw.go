// Package lzw implements a from-scratch decoder for the Unix
// compress/ncompress file format (content-encoding tokens "compress" and
// "x-compress"), ported from original_source/Source/Code/common_decompress.cpp's
// compress_file_decompress. stdlib's compress/lzw does not model the
// ncompress-specific byte-alignment-on-width-change quirk or ncompress's
// block-mode clear code, so this package implements a dedicated decoder.
//
// Dictionary entries are (prefixIndex, value) pairs stored in a flat slice
// and walked via their prefix links to materialize an entry's bytes —
// entries must not be represented as owning byte slices, since the
// algorithm relies on sharing prefixes by index.
package lzw

import (
	"bufio"
	"fmt"
	"io"
)

const (
	minBits = 9
	maxBits = 16

	// noIndex marks a terminal (single-byte) dictionary entry, or "no
	// previous code yet" at stream start / after a dictionary clear.
	noIndex = -1
)

// Error reports a malformed compress(1) stream: bad magic, max_bits out
// of bounds, out-of-range code, or a missing previous code at
// initialization.
type Error struct {
	msg string
}

func (e *Error) Error() string { return "lzw: " + e.msg }

func newError(format string, args ...any) *Error {
	return &Error{msg: fmt.Sprintf(format, args...)}
}

type entry struct {
	prefix int32
	value  byte
}

type decoder struct {
	dict               []entry
	maxDictEntries      int
	initialDictEntries  int
	blockMode          bool
	clearIndex         int

	currentBits        int
	currentMaxEntries  int

	// previousWidth and codesAtWidth implement ncompress's byte-alignment
	// quirk: the encoder pads each run of same-width codes out to a
	// multiple of 8 codes before switching width, so the decoder must skip
	// that many padding bits too.
	previousWidth int
	codesAtWidth  int

	scratch []byte
}

func (d *decoder) resetDict() {
	d.dict = d.dict[:0]
	for i := 0; i < d.initialDictEntries; i++ {
		v := byte(i)
		if d.blockMode && i == d.clearIndex {
			v = 0
		}
		d.dict = append(d.dict, entry{prefix: int32(noIndex), value: v})
	}
}

// entryBytes materializes the byte string for dictionary entry idx into
// d.scratch (reused across calls) and returns it.
func (d *decoder) entryBytes(idx int) []byte {
	d.scratch = d.scratch[:0]
	for i := idx; i != noIndex; i = int(d.dict[i].prefix) {
		d.scratch = append(d.scratch, d.dict[i].value)
	}
	for l, r := 0, len(d.scratch)-1; l < r; l, r = l+1, r-1 {
		d.scratch[l], d.scratch[r] = d.scratch[r], d.scratch[l]
	}
	return d.scratch
}

func (d *decoder) entryAdd(prefix int, value byte) {
	if len(d.dict) >= d.maxDictEntries {
		return
	}
	d.dict = append(d.dict, entry{prefix: int32(prefix), value: value})
	if len(d.dict) >= d.currentMaxEntries && d.currentBits < maxBits {
		d.currentBits++
		d.currentMaxEntries = 1 << d.currentBits
	}
}

// Decode reads a compress(1)-encoded stream from r and writes the
// decompressed bytes to w.
func Decode(r io.Reader, w io.Writer) error {
	br := bufio.NewReader(r)

	var header [3]byte
	if _, err := io.ReadFull(br, header[:]); err != nil {
		return newError("truncated header: %v", err)
	}
	if header[0] != 0x1F || header[1] != 0x9D {
		return newError("bad magic %02X%02X", header[0], header[1])
	}

	maxCompressionBits := int(header[2] & 0x1F)
	blockMode := header[2]&0x80 != 0
	if maxCompressionBits < minBits || maxCompressionBits > maxBits {
		return newError("max_bits %d out of bounds (%d..%d)", maxCompressionBits, minBits, maxBits)
	}

	const minDictEntries = 256
	maxDictEntries := 1 << maxCompressionBits

	d := &decoder{
		maxDictEntries: maxDictEntries,
		blockMode:      blockMode,
	}
	if blockMode {
		d.initialDictEntries = minDictEntries + 1
		d.clearIndex = d.initialDictEntries - 1
	} else {
		d.initialDictEntries = minDictEntries
		d.clearIndex = noIndex
	}
	d.resetDict()
	d.currentBits = minBits
	d.currentMaxEntries = 1 << d.currentBits
	d.previousWidth = d.currentBits

	bits := newBitReader(br)

	previousIndex := noIndex

	for {
		// ncompress byte-alignment quirk: when the code width just grew,
		// skip padding bits so the codes read at the previous width
		// occupy a whole multiple of 8 of them.
		if d.previousWidth != d.currentBits {
			padCodes := (8 - d.codesAtWidth%8) % 8
			if padCodes > 0 {
				if err := bits.SkipBits(padCodes * d.previousWidth); err != nil {
					break
				}
			}
			d.previousWidth = d.currentBits
			d.codesAtWidth = 0
		}

		code, err := bits.ReadCode(d.currentBits)
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			// A trailing partial code is just end-of-stream padding, not
			// an error: the encoder never emits a code it can't fully
			// write, so leftover bits shorter than the current width mean
			// there was nothing more to decode.
			break
		}
		if err != nil {
			return err
		}
		d.codesAtWidth++

		if code < 0 || code > len(d.dict) {
			return newError("code %d out of bounds (0..%d)", code, len(d.dict))
		}

		if previousIndex == noIndex {
			if code > minDictEntries-1 {
				return newError("code %d out of bounds (0..%d) initializing previous code", code, minDictEntries-1)
			}
			if _, err := w.Write([]byte{d.dict[code].value}); err != nil {
				return err
			}
			previousIndex = code
			continue
		}

		if blockMode && code == d.clearIndex {
			d.resetDict()
			d.currentBits = minBits
			d.currentMaxEntries = 1 << d.currentBits
			d.previousWidth = d.currentBits
			d.codesAtWidth = 0
			previousIndex = noIndex
			continue
		}

		if code < len(d.dict) {
			data := d.entryBytes(code)
			first := data[0]
			if _, err := w.Write(data); err != nil {
				return err
			}
			d.entryAdd(previousIndex, first)
		} else {
			// KwKwK: code refers to an entry not yet in the dictionary.
			prev := d.entryBytes(previousIndex)
			first := prev[0]
			out := append(append([]byte(nil), prev...), first)
			d.entryAdd(previousIndex, first)
			if _, err := w.Write(out); err != nil {
				return err
			}
		}

		previousIndex = code
	}

	return nil
}
