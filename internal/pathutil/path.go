// Package pathutil implements path parsing, safety normalization, and
// comparison.
//
// Safe joins under an output root use github.com/cyphar/filepath-securejoin,
// a dependency go-git itself carries transitively (via go-billy) for
// exactly this "join an untrusted path under a root without escaping it via
// symlinks" concern — the export orchestrator's copy-out step is precisely
// that kind of consumer.
package pathutil

import (
	"path/filepath"
	"strings"
)

// Parse splits p into parent, name, stem, and extension, with extension
// being the portion of name after its last '.', empty if none.
func Parse(p string) (parent, name, stem, extension string) {
	p = strings.ReplaceAll(p, "/", string(filepath.Separator))
	parent = filepath.Dir(p)
	name = filepath.Base(p)
	if name == "." || name == string(filepath.Separator) {
		name = ""
	}
	if idx := strings.LastIndexByte(name, '.'); idx > 0 {
		stem = name[:idx]
		extension = name[idx+1:]
	} else {
		stem = name
		extension = ""
	}
	return
}

// EqualPath reports whether a and b name the same path under
// case-insensitive comparison. (Identity via volume-serial + file-index is
// an os-level concern handled by SameFile, not by this lexical
// comparison.)
func EqualPath(a, b string) bool {
	return strings.EqualFold(filepath.Clean(a), filepath.Clean(b))
}

// Absolute resolves p against the process working directory if it is not
// already absolute.
func Absolute(p string) (string, error) {
	return filepath.Abs(p)
}
