package mozilla

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func be32(n uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, n)
	return b
}

// buildEntry assembles a cache2 entry file's bytes: payload, then the
// hash block (zeroed, since nothing reads its contents), then a metadata
// header of the given version, then the NUL-terminated key, then the
// NUL-terminated element pairs, then the trailing metadataOffset.
func buildEntry(t *testing.T, version uint32, payload []byte, key string, elements map[string]string) []byte {
	t.Helper()

	metadataOffset := uint32(len(payload))
	hashSize := int(HashSize(metadataOffset))

	var header []byte
	switch version {
	case 1, 2:
		header = append(header, be32(version)...)
		header = append(header, be32(7)...)   // access count
		header = append(header, be32(100)...) // last access
		header = append(header, be32(200)...) // last modified
		header = append(header, be32(300)...) // expiry
		header = append(header, be32(uint32(len(key)))...)
	case 3:
		header = append(header, be32(version)...)
		header = append(header, be32(7)...)
		header = append(header, be32(100)...)
		header = append(header, be32(200)...)
		header = append(header, be32(50)...) // frecency
		header = append(header, be32(300)...) // expiry
		header = append(header, be32(uint32(len(key)))...)
		header = append(header, be32(0)...) // flags
	}

	var elementBlock []byte
	for k, v := range elements {
		elementBlock = append(elementBlock, []byte(k)...)
		elementBlock = append(elementBlock, 0)
		elementBlock = append(elementBlock, []byte(v)...)
		elementBlock = append(elementBlock, 0)
	}

	var buf bytes.Buffer
	buf.Write(payload)
	buf.Write(make([]byte, hashSize))
	buf.Write(header)
	buf.WriteString(key)
	buf.WriteByte(0)
	buf.Write(elementBlock)
	buf.Write(be32(metadataOffset))
	return buf.Bytes()
}

func TestHashSizeMatchesChunkRounding(t *testing.T) {
	assert.EqualValues(t, 4, HashSize(0), "zero-length payload")
	assert.EqualValues(t, 6, HashSize(13), "13-byte payload")
	assert.EqualValues(t, 6, HashSize(ChunkSize), "exactly one chunk")
	assert.EqualValues(t, 8, HashSize(ChunkSize+1), "just over one chunk")
}

func TestReadMetadataHeaderVersions(t *testing.T) {
	raw := append(be32(2), append(be32(7), append(be32(100), append(be32(200), append(be32(300), be32(5)...)...)...)...)...)
	header, consumed, err := ReadMetadataHeader(raw)
	require.NoError(t, err)
	assert.Equal(t, 24, consumed)
	assert.EqualValues(t, 7, header.AccessCount)
	assert.EqualValues(t, 300, header.ExpiryTime)
	assert.EqualValues(t, 5, header.KeyLength)

	raw3 := append(be32(3), append(be32(7), append(be32(100), append(be32(200), append(be32(50), append(be32(300), append(be32(5), be32(1)...)...)...)...)...)...)...)
	header3, consumed3, err := ReadMetadataHeader(raw3)
	require.NoError(t, err)
	assert.Equal(t, 32, consumed3)
	assert.EqualValues(t, 50, header3.Frecency)
	assert.EqualValues(t, 1, header3.Flags)

	_, _, err = ReadMetadataHeader(be32(9))
	assert.Error(t, err, "expected an error for an unsupported metadata version")
}

func TestReadEntryParsesV2WithResponseHead(t *testing.T) {
	payload := []byte("Hello, world!")
	key := ":https://cdn.example.com/file.ext"
	elements := map[string]string{
		"response-head":  "HTTP/1.1 200 OK\r\ncontent-type: text/html\r\n",
		"request-origin": "https://example.com",
	}
	raw := buildEntry(t, 2, payload, key, elements)

	dir := t.TempDir()
	path := filepath.Join(dir, "entryfile")
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	entry, err := ReadEntry(path, dir)
	require.NoError(t, err)
	assert.Empty(t, entry.Skipped)
	assert.Equal(t, "https://cdn.example.com/file.ext", entry.URL)
	assert.Equal(t, "https://example.com", entry.Origin)

	ct, ok := entry.Headers.Get("content-type")
	require.True(t, ok)
	assert.Equal(t, "text/html", ct)
	assert.EqualValues(t, 7, entry.AccessCount)

	got, err := os.ReadFile(entry.PayloadPath)
	require.NoError(t, err)
	assert.Equal(t, string(payload), string(got))
}

func TestReadEntryV1IsRecognizedButSkipped(t *testing.T) {
	payload := []byte("0123456789012")
	key := ":https://cdn.example.com/file.ext"
	elements := map[string]string{"response-head": "HTTP/1.1 200 OK\r\ncontent-type: text/html\r\n"}
	raw := buildEntry(t, 1, payload, key, elements)

	dir := t.TempDir()
	path := filepath.Join(dir, "entryfile")
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	entry, err := ReadEntry(path, dir)
	require.NoError(t, err)
	assert.Equal(t, V1ExportUnsupported, entry.Skipped)
	assert.Empty(t, entry.PayloadPath, "v1 entry should not produce a payload file")
	assert.Equal(t, "https://cdn.example.com/file.ext", entry.URL, "v1 header should still be parsed for reporting")
}

func TestReadEntryV3WithFrecency(t *testing.T) {
	raw := buildEntry(t, 3, []byte("payload-bytes"), ":http://example.com/a", nil)
	dir := t.TempDir()
	path := filepath.Join(dir, "entryfile")
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	entry, err := ReadEntry(path, dir)
	require.NoError(t, err)
	assert.EqualValues(t, 3, entry.MetadataVersion)
	assert.Equal(t, "http://example.com/a", entry.URL)
}

func TestReadEntryUnsupportedVersionIsSkipped(t *testing.T) {
	raw := buildEntry(t, 2, []byte("xy"), ":http://x", nil)
	// Corrupt the version field within the already-built header to 9.
	metadataOffset := uint32(2)
	hashSize := int(HashSize(metadataOffset))
	headerOffset := int(metadataOffset) + hashSize
	binary.BigEndian.PutUint32(raw[headerOffset:headerOffset+4], 9)

	dir := t.TempDir()
	path := filepath.Join(dir, "entryfile")
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	entry, err := ReadEntry(path, dir)
	require.NoError(t, err)
	assert.NotEmpty(t, entry.Skipped, "expected a skip reason for an unsupported metadata version")
}

func TestRecoverBrowserProfileWithoutSalt(t *testing.T) {
	path := `C:\Users\bob\AppData\Local\Mozilla\Firefox\Profiles\abc123.default\cache2`
	browser, profile := RecoverBrowserProfile(path)
	assert.Equal(t, "Firefox", browser)
	assert.Equal(t, "abc123.default", profile)
}

func TestRecoverBrowserProfileWithSalt(t *testing.T) {
	path := `C:\Users\bob\Application Data\Mozilla\Profiles\abc123.default\a1b2c3d4.slt\Cache`
	browser, profile := RecoverBrowserProfile(path)
	assert.Equal(t, "Mozilla", browser)
	assert.Equal(t, "abc123.default", profile)
}

func TestParseKeyOriginAttributesPartitionKey(t *testing.T) {
	key := ":https://cdn.example.com/a.js,O^partitionKey=%28https%2Cexample.com%29"
	parsed := ParseKey(key)
	assert.Equal(t, "https://cdn.example.com/a.js", parsed.URL)
	assert.Equal(t, "https://example.com", parsed.PartitionKey)
}
