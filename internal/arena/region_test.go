package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocZeroSizeIsUsable(t *testing.T) {
	r := New(0)
	b := r.Alloc(0)
	require.NotNil(t, b)
	assert.Len(t, b, 1)
}

func TestSaveRestoreBalance(t *testing.T) {
	r := New(16)
	r.Alloc(4)
	mark := r.Save()
	r.Alloc(100)
	assert.Greater(t, r.Len(), int(mark))
	r.Restore(mark)
	assert.Equal(t, int(mark), r.Len())
}

func TestScopeRestoresOnPanic(t *testing.T) {
	r := New(16)
	r.Alloc(4)
	before := r.Len()

	func() {
		defer func() { recover() }() //nolint:errcheck
		r.Scope(func(r *Region) {
			r.Alloc(64)
			panic("boom")
		})
	}()

	assert.Equal(t, before, r.Len(), "Scope must restore the mark even when fn panics")
}

func TestNestedMarksInvalidatedByOuterRestore(t *testing.T) {
	r := New(16)
	outer := r.Save()
	r.Alloc(8)
	inner := r.Save()
	r.Alloc(8)

	r.Restore(outer)
	// inner should no longer be reachable as a separate mark; restoring it
	// again must be a no-op relative to outer's position, never growing
	// past it.
	r.Restore(inner)
	assert.Equal(t, int(outer), r.Len(), "restoring a mark taken after an outer restore must not move past the outer mark")
}

func TestBytesAppendGrowsInPlaceWhenLastAllocation(t *testing.T) {
	r := New(4)
	b := r.NewBytes(2)
	copy(b.Slice(), []byte("ab"))

	lenBefore := r.Len()
	b = b.Append([]byte("cd"))
	assert.Equal(t, "abcd", string(b.Slice()))
	assert.Equal(t, lenBefore+2, r.Len(), "expected in-place growth to extend the region by exactly len(p)")
}

func TestBytesAppendCopiesWhenNotLastAllocation(t *testing.T) {
	r := New(8)
	a := r.NewBytes(2)
	copy(a.Slice(), []byte("ab"))
	b := r.NewBytes(2)
	copy(b.Slice(), []byte("xy"))

	a = a.Append([]byte("cd"))
	assert.Equal(t, "abcd", string(a.Slice()))
	assert.Equal(t, "xy", string(b.Slice()), "growing a should not disturb b's untouched bytes")
}
