package byteio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joaohenggeler/web-cache-exporter-sub001/internal/arena"
)

func TestReaderYieldsShortFinalChunk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")
	content := []byte("0123456789")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	r := &Reader{Capacity: 4}
	region := arena.New(0)
	require.NoError(t, r.Begin(path, region))
	defer r.End() //nolint:errcheck

	var got []byte
	for r.Next() {
		got = append(got, r.Data...)
	}
	assert.Equal(t, string(content), string(got))
	assert.True(t, r.EOF, "expected EOF to be set")
}

func TestReaderNeverLosesBytesOnNonMultipleSize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")
	content := []byte("abcdefg")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	r := &Reader{Capacity: 3}
	require.NoError(t, r.Begin(path, arena.New(0)))
	var total int
	for r.Next() {
		total += r.Size
	}
	assert.Equal(t, len(content), total)
}

func TestWriterTempFileAutoDeletesWithoutCommit(t *testing.T) {
	dir := t.TempDir()
	w := &Writer{}
	require.NoError(t, w.BeginTemp(dir, "tmp_*"))
	_, err := w.Write([]byte("hello"))
	require.NoError(t, err)
	path := w.Path
	require.NoError(t, w.Close())

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "expected temp file to be removed, stat err = %v", err)
}

func TestWriterTempFileSurvivesCommit(t *testing.T) {
	dir := t.TempDir()
	w := &Writer{}
	require.NoError(t, w.BeginTemp(dir, "tmp_*"))
	path := w.Path
	w.Commit()
	require.NoError(t, w.Close())

	_, err := os.Stat(path)
	assert.NoError(t, err, "committed temp file should survive Close")
}

func TestWriterTruncate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.bin")
	w := &Writer{}
	require.NoError(t, w.BeginTruncate(path))
	_, err := w.Write([]byte("0123456789"))
	require.NoError(t, err)
	require.NoError(t, w.Truncate(4))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "0123", string(data))
}

func TestMappedViewRejectsEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.bin")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	_, err := NewMappedView(path)
	assert.Equal(t, ErrEmptyFile, err)
}
