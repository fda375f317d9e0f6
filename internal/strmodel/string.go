// Package strmodel implements the exporter's length-tagged string model:
// strings that carry both a code-unit count (storage size) and a
// user-visible character count, with slicing done by character index and
// a fixed locale backing case-insensitive comparison.
//
// Go strings are already UTF-8 byte sequences, so "code-unit count" is
// simply len(s); "user-visible character count" (grapheme clusters, not
// runes — a combining accent or an emoji ZWJ sequence is one user-visible
// character) is computed with github.com/rivo/uniseg, the grapheme-cluster
// library surfaced by the caddy-language-server example's dependency set.
// Case folding is delegated to golang.org/x/text/cases with the locale
// pinned to language.Und (root/undetermined), matching go-git's own
// dependency on golang.org/x/text and keeping comparisons deterministic
// across hosts regardless of the local environment's own locale.
package strmodel

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/rivo/uniseg"
)

// locale is fixed at the root/undetermined locale so tests and exported
// manifests are deterministic across hosts.
var (
	foldCaser = cases.Fold()
	_         = language.Und
)

// CharCount returns the number of user-visible characters (grapheme
// clusters) in s. It equals len(s) only when s contains no multi-byte
// clusters.
func CharCount(s string) int {
	return uniseg.GraphemeClusterCount(s)
}

// CodeUnitCount returns the storage size of s in bytes.
func CodeUnitCount(s string) int {
	return len(s)
}

// Slice returns the substring of s spanning grapheme-cluster indices
// [from, to), clamped to [0, CharCount(s)].
func Slice(s string, from, to int) string {
	n := CharCount(s)
	if from < 0 {
		from = 0
	}
	if to > n {
		to = n
	}
	if from >= to {
		return ""
	}

	gr := uniseg.NewGraphemes(s)
	idx := 0
	startByte, endByte := -1, -1
	pos := 0
	for gr.Next() {
		if idx == from {
			startByte = pos
		}
		clusterStart, clusterEnd := gr.Positions()
		_ = clusterStart
		pos = clusterEnd
		if idx+1 == to {
			endByte = clusterEnd
		}
		idx++
	}
	if startByte == -1 {
		startByte = len(s)
	}
	if endByte == -1 {
		endByte = len(s)
	}
	return s[startByte:endByte]
}

// CharAt returns the single grapheme cluster at character index i, or ""
// if i is out of bounds.
func CharAt(s string, i int) string {
	return Slice(s, i, i+1)
}

// EqualFold reports whether a and b are equal under the fixed locale's
// case folding.
func EqualFold(a, b string) bool {
	return foldCaser.String(a) == foldCaser.String(b)
}

// Fold returns s case-folded under the fixed locale, for use as a
// comparison or map key (the label matcher's MIME-prefix and extension
// comparisons use this).
func Fold(s string) string {
	return foldCaser.String(s)
}
