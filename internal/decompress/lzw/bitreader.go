package lzw

import "io"

// bitReader extracts fixed-width codes from a byte stream, LSB-first
// within each byte, matching the bit packing ncompress(1) produces.
type bitReader struct {
	r    io.ByteReader
	acc  uint64
	nacc uint // number of valid bits currently held in acc, low bits first
	eof  bool
}

func newBitReader(r io.ByteReader) *bitReader {
	return &bitReader{r: r}
}

func (b *bitReader) fill(n uint) error {
	for b.nacc < n {
		c, err := b.r.ReadByte()
		if err != nil {
			return err
		}
		b.acc |= uint64(c) << b.nacc
		b.nacc += 8
	}
	return nil
}

// ReadCode reads an n-bit code. It returns io.EOF only when no further
// bits are available at all (a clean end of stream); a stream that ends
// mid-code is reported as io.ErrUnexpectedEOF.
func (b *bitReader) ReadCode(n int) (int, error) {
	if err := b.fill(uint(n)); err != nil {
		if b.nacc == 0 {
			return 0, io.EOF
		}
		return 0, io.ErrUnexpectedEOF
	}
	mask := uint64(1)<<uint(n) - 1
	code := b.acc & mask
	b.acc >>= uint(n)
	b.nacc -= uint(n)
	return int(code), nil
}

// SkipBits discards n bits without interpreting them.
func (b *bitReader) SkipBits(n int) error {
	for n > 0 {
		if b.nacc == 0 {
			if err := b.fill(1); err != nil {
				return err
			}
		}
		take := uint(n)
		if take > b.nacc {
			take = b.nacc
		}
		b.acc >>= take
		b.nacc -= take
		n -= int(take)
	}
	return nil
}
