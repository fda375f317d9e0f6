package decompress

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestDecodeEmptyEncodingCopiesBytes(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "plain.bin", []byte("hello world"))

	var out bytes.Buffer
	require.NoError(t, Decode(path, "", &out))
	assert.Equal(t, "hello world", out.String())
}

func TestDecodeGzip(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	gw.Write([]byte("payload"))
	gw.Close()
	path := writeFile(t, dir, "gz.bin", buf.Bytes())

	var out bytes.Buffer
	require.NoError(t, Decode(path, "gzip", &out))
	assert.Equal(t, "payload", out.String())
}

func TestDecodeDeflateDetectsZlibFraming(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	zw.Write([]byte("zlib framed"))
	zw.Close()
	path := writeFile(t, dir, "deflate.bin", buf.Bytes())

	var out bytes.Buffer
	require.NoError(t, Decode(path, "deflate", &out))
	assert.Equal(t, "zlib framed", out.String())
}

func TestDecodeChainsMultipleEncodingsInReverseOrder(t *testing.T) {
	dir := t.TempDir()

	// The server applied gzip first, then wrapped the result in zlib
	// framing ("deflate"); the stored content-encoding lists them in
	// application order, so Decode must undo "deflate" first.
	var gz bytes.Buffer
	gw := gzip.NewWriter(&gz)
	gw.Write([]byte("nested payload"))
	gw.Close()

	var outer bytes.Buffer
	zw := zlib.NewWriter(&outer)
	zw.Write(gz.Bytes())
	zw.Close()

	path := writeFile(t, dir, "chained.bin", outer.Bytes())

	var out bytes.Buffer
	require.NoError(t, Decode(path, "gzip, deflate", &out))
	assert.Equal(t, "nested payload", out.String())
}

func TestDecodeUnsupportedEncodingIsAnError(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "x.bin", []byte("abc"))

	var out bytes.Buffer
	assert.Error(t, Decode(path, "bogus-encoding", &out), "expected error for unsupported encoding")
}
