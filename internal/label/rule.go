// Package label implements the exporter's file/URL classification matcher
// and its rule-file grammar.
//
// Matching is modeled as a plain []Rule slice scanned in declaration order
// — mirroring the domain-segmented, first-match-wins shape of go-git's
// plumbing/format/gitignore.Pattern matcher — rather than an indexed
// lookup structure, since rule order is itself part of the contract: the
// first rule that matches wins, ties included.
package label

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// locale is fixed at the root/undetermined locale, matching strmodel's
// determinism rationale.
var (
	foldCaser = cases.Fold()
	_         = language.Und
)

// Signature is a byte pattern with per-position wildcards: mask[i] == false
// means "match anything" at that offset. Pattern and mask always have equal
// length.
type Signature struct {
	Pattern []byte
	Mask    []bool
}

func (s Signature) matches(data []byte) bool {
	if len(data) < len(s.Pattern) {
		return false
	}
	for i, want := range s.Pattern {
		if s.Mask[i] && data[i] != want {
			return false
		}
	}
	return true
}

// Domain is a URL rule's (host-pattern, path-prefix) pair.
type Domain struct {
	HostPattern string
	PathPrefix  string
}

// Rule is either a file rule (Signatures/MIMETypes/Extensions/
// DefaultExtension set, Domains nil) or a URL rule (Domains set, the file
// fields unused), tagged with the major/minor name pair every label rule
// carries.
type Rule struct {
	MajorName string
	MinorName string
	IsURLRule bool

	Signatures       []Signature
	MIMETypes        []string
	Extensions       []string
	DefaultExtension string

	Domains []Domain
}

// maxSignatureLength reports the longest signature among rules, the number
// of leading bytes a caller needs to have read from a payload before
// calling MatchFile.
func maxSignatureLength(rules []Rule) int {
	max := 0
	for _, r := range rules {
		for _, s := range r.Signatures {
			if len(s.Pattern) > max {
				max = len(s.Pattern)
			}
		}
	}
	return max
}

// MaxSignatureLength exposes maxSignatureLength for callers that need to
// size their read-ahead buffer before invoking MatchFile.
func MaxSignatureLength(rules []Rule) int { return maxSignatureLength(rules) }

// MatchFile matches a file against the rule set: signature match (if
// payload bytes given) beats MIME prefix match (if MIME given) beats
// extension equality, each tested against rules in declaration order with
// first hit winning. It returns the zero Rule and false when nothing
// matches.
func MatchFile(rules []Rule, payload []byte, mime, extension string) (Rule, bool) {
	if len(payload) > 0 {
		for _, r := range rules {
			if r.IsURLRule {
				continue
			}
			for _, sig := range r.Signatures {
				if sig.matches(payload) {
					return r, true
				}
			}
		}
	}

	if mime != "" {
		foldedMIME := foldCaser.String(mime)
		for _, r := range rules {
			if r.IsURLRule {
				continue
			}
			for _, want := range r.MIMETypes {
				if strings.HasPrefix(foldedMIME, foldCaser.String(want)) {
					return r, true
				}
			}
		}
	}

	for _, r := range rules {
		if r.IsURLRule {
			continue
		}
		for _, ext := range r.Extensions {
			if foldCaser.String(ext) == foldCaser.String(extension) {
				return r, true
			}
		}
	}

	return Rule{}, false
}

// MatchURL matches a URL's host and path against the rule set's domain
// patterns, first hit in declaration order wins.
func MatchURL(rules []Rule, host, path string) (Rule, bool) {
	hostLabels := reverseLabels(host)
	trimmedPath := strings.TrimPrefix(path, "/")
	foldedPath := foldCaser.String(trimmedPath)

	for _, r := range rules {
		if !r.IsURLRule {
			continue
		}
		for _, d := range r.Domains {
			if domainMatches(d, hostLabels, foldedPath) {
				return r, true
			}
		}
	}
	return Rule{}, false
}

func domainMatches(d Domain, hostLabels []string, foldedPath string) bool {
	if !hostPatternMatches(d.HostPattern, hostLabels) {
		return false
	}
	if d.PathPrefix == "" {
		return true
	}
	want := foldCaser.String(strings.TrimPrefix(d.PathPrefix, "/"))
	return strings.HasPrefix(foldedPath, want)
}

// hostPatternMatches tests a single host pattern (in its written form, e.g.
// "example.com" or "abc.*") against the input host's reversed label list.
// A wildcard label only counts as a wildcard at reversed position 0 (the
// TLD slot); any other "*" is compared literally. A pattern with more
// labels than the host never matches, but a shorter pattern matches
// freely against the host's extra leading subdomains: "example.com"
// matches both "example.com" and "www.example.com".
//
// A pattern ending in ".*" ("any TLD") gets a second try when the first
// one fails: a wildcard label is inserted ahead of its reversed form and
// the comparison is redone allowing the wildcard at positions 0 and 1.
// This is what lets "abc.*" match a compound TLD like "abc.co.uk" — the
// plain pass only has a slot for one trailing label ("uk"), so without the
// retry "co" would never line up with anything.
func hostPatternMatches(pattern string, hostLabels []string) bool {
	patternLabels := reverseLabels(pattern)
	if len(patternLabels) > len(hostLabels) {
		return false
	}
	if matchReversed(patternLabels, hostLabels, 0) {
		return true
	}
	if strings.HasSuffix(pattern, ".*") {
		retry := append([]string{"*"}, patternLabels...)
		if len(retry) <= len(hostLabels) {
			return matchReversed(retry, hostLabels, 1)
		}
	}
	return false
}

// matchReversed compares patternLabels against hostLabels position by
// position. A "*" label only counts as a wildcard when its index is at
// most maxWildcardPos; beyond that it is compared like any other label
// (and so never matches unless the host literally has a "*" there).
func matchReversed(patternLabels, hostLabels []string, maxWildcardPos int) bool {
	for i, p := range patternLabels {
		if p == "*" && i <= maxWildcardPos {
			continue
		}
		if !strings.EqualFold(p, hostLabels[i]) {
			return false
		}
	}
	return true
}

func reverseLabels(host string) []string {
	labels := strings.Split(host, ".")
	for l, r := 0, len(labels)-1; l < r; l, r = l+1, r-1 {
		labels[l], labels[r] = labels[r], labels[l]
	}
	return labels
}
