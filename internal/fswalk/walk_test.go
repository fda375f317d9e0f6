package fswalk

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTree(t *testing.T, root string) {
	t.Helper()
	dirs := []string{"a", "a/b", "c"}
	for _, d := range dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(root, d), 0o755))
	}
	files := []string{"f1.txt", "a/f2.txt", "a/b/f3.txt", "c/f4.txt"}
	for _, f := range files {
		require.NoError(t, os.WriteFile(filepath.Join(root, f), []byte("x"), 0o644))
	}
}

func TestWalkMaxDepthZeroVisitsBaseOnly(t *testing.T) {
	root := t.TempDir()
	buildTree(t, root)

	var names []string
	err := Walk(root, Options{MaxDepth: 0}, func(e Entry) error {
		names = append(names, e.Name)
		return nil
	})
	require.NoError(t, err)

	want := map[string]bool{"a": true, "c": true, "f1.txt": true}
	require.Len(t, names, len(want), "expected exactly the base dir's immediate children")
	for _, n := range names {
		assert.True(t, want[n], "unexpected entry %q at depth 0", n)
	}
}

func TestWalkUnboundedVisitsEverything(t *testing.T) {
	root := t.TempDir()
	buildTree(t, root)

	count := 0
	err := Walk(root, Options{MaxDepth: -1}, func(e Entry) error {
		count++
		return nil
	})
	require.NoError(t, err)
	// a, a/b, c (dirs) + f1.txt, a/f2.txt, a/b/f3.txt, c/f4.txt (files) = 7
	assert.Equal(t, 7, count)
}

func TestWalkFilesOnly(t *testing.T) {
	root := t.TempDir()
	buildTree(t, root)

	var sawDir bool
	err := Walk(root, Options{MaxDepth: -1, Files: true, Dirs: false}, func(e Entry) error {
		if e.IsDir {
			sawDir = true
		}
		return nil
	})
	require.NoError(t, err)
	assert.False(t, sawDir, "Files-only walk should not yield directories")
}

func TestWalkGlobFilter(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "mpfoo"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "other"), []byte("x"), 0o644))

	var names []string
	err := Walk(root, Options{MaxDepth: 0, Glob: "mp*"}, func(e Entry) error {
		names = append(names, e.Name)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, names, 1)
	assert.Equal(t, "mpfoo", names[0])
}
