// Package fswalk implements the exporter's depth-first directory walker.
//
// It is grounded on aistore's fs/walk.go, which drives
// github.com/karrick/godirwalk for fast, allocation-light directory
// scanning (that dependency is shared by both aistore copies in the
// example pack). Unlike godirwalk.Walk itself, which recurses natively,
// this walker keeps its own explicit stack of pending directories so
// traversal depth is bounded by available memory rather than the native
// call stack.
package fswalk

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/karrick/godirwalk"
)

// Entry describes one visited filesystem object.
type Entry struct {
	Path    string
	Name    string
	IsDir   bool
	Size    int64
	ModTime int64 // Unix nanoseconds
	Depth   int
}

// Options configures a Walk call.
type Options struct {
	// MaxDepth bounds descent: -1 is unbounded, 0 visits only the base
	// directory's immediate children, n descends n levels below the base.
	MaxDepth int
	// Files and Dirs select which entry kinds are yielded. Both default to
	// true when neither is explicitly set (see Walk).
	Files bool
	Dirs  bool
	// Glob, if non-empty, filters entries by filepath.Match against Name.
	Glob string
}

// VisitFunc is called for each entry Walk yields. Returning an error stops
// the walk and propagates the error to Walk's caller.
type VisitFunc func(Entry) error

type pending struct {
	path  string
	depth int
}

// Walk performs a depth-first traversal of root using an explicit stack
// (never recursion), honoring opts.MaxDepth, opts.Files/opts.Dirs, and
// opts.Glob.
func Walk(root string, opts Options, visit VisitFunc) error {
	if !opts.Files && !opts.Dirs {
		opts.Files = true
		opts.Dirs = true
	}

	stack := []pending{{path: root, depth: 0}}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		children, err := readDirSorted(top.path)
		if err != nil {
			return err
		}

		// Push in reverse so children are visited in forward sorted order
		// given the stack's LIFO pop.
		for i := len(children) - 1; i >= 0; i-- {
			c := children[i]
			childDepth := top.depth + 1

			matched := opts.Glob == "" || globMatch(opts.Glob, c.Name())
			isDir := c.IsDir()

			if matched {
				include := (isDir && opts.Dirs) || (!isDir && opts.Files)
				if include {
					entry := Entry{
						Path:  filepath.Join(top.path, c.Name()),
						Name:  c.Name(),
						IsDir: isDir,
						Depth: childDepth,
					}
					if fi, statErr := statEntry(entry.Path); statErr == nil {
						entry.Size = fi.size
						entry.ModTime = fi.modTime
					}
					if err := visit(entry); err != nil {
						return err
					}
				}
			}

			if isDir && (opts.MaxDepth < 0 || childDepth <= opts.MaxDepth) {
				stack = append(stack, pending{path: filepath.Join(top.path, c.Name()), depth: childDepth})
			}
		}
	}
	return nil
}

func readDirSorted(dir string) ([]*godirwalk.Dirent, error) {
	entries, err := godirwalk.ReadDirents(dir, nil)
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

type statResult struct {
	size    int64
	modTime int64
}

func statEntry(path string) (statResult, error) {
	fi, err := os.Lstat(path)
	if err != nil {
		return statResult{}, err
	}
	return statResult{size: fi.Size(), modTime: fi.ModTime().UnixNano()}, nil
}

func globMatch(pattern, name string) bool {
	ok, err := filepath.Match(pattern, name)
	if err != nil {
		return strings.EqualFold(pattern, name)
	}
	return ok
}
