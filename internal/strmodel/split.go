package strmodel

import "strings"

// Splitter implements the exporter's stateful string-splitting operation:
// given a delimiter set, an optional maximum token count, a keep-empty
// flag, and a direction, it yields tokens one at a time and, after it is
// exhausted, reports whether a split ever occurred, the last delimiter
// encountered, and the remaining unsplit view.
type Splitter struct {
	s          string
	delims     string
	maxTokens  int
	keepEmpty  bool
	reverse    bool
	emitted    int
	did        bool
	lastDelim  byte
	remainder  string
	done       bool
}

// NewSplitter builds a Splitter over s. maxTokens <= 0 means unbounded.
func NewSplitter(s, delimiters string, maxTokens int, keepEmpty, reverse bool) *Splitter {
	return &Splitter{
		s:         s,
		delims:    delimiters,
		maxTokens: maxTokens,
		keepEmpty: keepEmpty,
		reverse:   reverse,
		remainder: s,
	}
}

// Next returns the next token and true, or "", false once exhausted.
func (sp *Splitter) Next() (string, bool) {
	if sp.done {
		return "", false
	}
	if sp.maxTokens > 0 && sp.emitted >= sp.maxTokens-1 {
		tok := sp.remainder
		sp.remainder = ""
		sp.done = true
		if tok == "" && !sp.keepEmpty && sp.emitted > 0 {
			return sp.Next()
		}
		sp.emitted++
		return tok, true
	}

	idx, delim := sp.indexAny(sp.remainder)
	if idx < 0 {
		tok := sp.remainder
		sp.remainder = ""
		sp.done = true
		if tok == "" && !sp.keepEmpty && sp.emitted > 0 {
			return "", false
		}
		sp.emitted++
		return tok, true
	}

	sp.did = true
	sp.lastDelim = delim

	var tok string
	if sp.reverse {
		tok = sp.remainder[idx+1:]
		sp.remainder = sp.remainder[:idx]
	} else {
		tok = sp.remainder[:idx]
		sp.remainder = sp.remainder[idx+1:]
	}
	sp.emitted++

	if tok == "" && !sp.keepEmpty {
		return sp.Next()
	}
	return tok, true
}

func (sp *Splitter) indexAny(s string) (int, byte) {
	if sp.reverse {
		i := strings.LastIndexAny(s, sp.delims)
		if i < 0 {
			return -1, 0
		}
		return i, s[i]
	}
	i := strings.IndexAny(s, sp.delims)
	if i < 0 {
		return -1, 0
	}
	return i, s[i]
}

// Did reports whether any split occurred.
func (sp *Splitter) Did() bool { return sp.did }

// LastDelimiter reports the last delimiter byte encountered, valid only
// when Did() is true.
func (sp *Splitter) LastDelimiter() byte { return sp.lastDelim }

// Remainder reports the unsplit view left after Next() returns false.
func (sp *Splitter) Remainder() string { return sp.remainder }

// Partition splits s on the first occurrence of any byte in delimiters (the
// last occurrence when reverse is set) and returns (first, delimiter,
// second); with reverse set, first is the text after that delimiter and
// second the text before it. If no delimiter is found, second is
// "" and delimiter is 0. It is defined in terms of Splitter.
func Partition(s, delimiters string, reverse bool) (first string, delimiter byte, second string) {
	sp := NewSplitter(s, delimiters, 2, true, reverse)
	a, _ := sp.Next()
	b, ok := sp.Next()
	if !ok || !sp.Did() {
		return s, 0, ""
	}
	return a, sp.LastDelimiter(), b
}
