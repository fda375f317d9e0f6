package arena

// Transient is the shared scratch region: callers save a Mark before
// starting an independent piece of work (export.Next runs one per cache
// entry) and restore it afterward, freeing everything allocated in
// between.
var Transient = New(1 << 16)

// current is the region package-level helpers allocate from when no
// explicit Region is threaded through a call, mirroring the original's
// context.current_arena. This is safe only because the exporter's core is
// single-threaded and synchronous; it must never be mutated concurrently.
var current = Transient

// Current returns the region package-level parsing helpers should allocate
// from.
func Current() *Region { return current }
