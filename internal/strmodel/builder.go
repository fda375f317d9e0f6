package strmodel

import "strings"

// Builder is a growable buffer of code units. Its final conversion to an
// immutable string (String) is a zero-copy retag: strings.Builder already
// guarantees this via its internal []byte-to-string conversion, so no
// extra copy is wired in here.
type Builder struct {
	b strings.Builder
}

// NewBuilder returns a Builder with its internal buffer pre-sized to hint
// bytes.
func NewBuilder(hint int) *Builder {
	bld := &Builder{}
	if hint > 0 {
		bld.b.Grow(hint)
	}
	return bld
}

// Append appends s's bytes to the builder.
func (b *Builder) Append(s string) *Builder {
	b.b.WriteString(s)
	return b
}

// AppendByte appends a single byte.
func (b *Builder) AppendByte(c byte) *Builder {
	b.b.WriteByte(c) //nolint:errcheck
	return b
}

// Len reports the builder's current length in bytes.
func (b *Builder) Len() int { return b.b.Len() }

// String terminates the builder, returning its contents as an immutable
// string.
func (b *Builder) String() string { return b.b.String() }
