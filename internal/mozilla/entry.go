package mozilla

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joaohenggeler/web-cache-exporter-sub001/internal/byteio"
)

// Entry is one fully-parsed cache2 entry file, ready to hand off to the
// export orchestrator.
type Entry struct {
	Path             string
	URL              string
	Origin           string
	PartitionKey     string
	Headers          Headers
	MetadataVersion  uint32
	AccessCount      uint32
	LastAccessTime   uint32
	LastModifiedTime uint32
	ExpiryTime       uint32

	// PayloadPath names a temp file holding just the entry's payload
	// bytes, with the trailing metadata block truncated off. The caller
	// owns this file and must remove it.
	PayloadPath string

	// Skipped carries a human-readable reason the entry was not fully
	// parsed (unsupported metadata version, malformed key, ...); when
	// non-empty, PayloadPath is left empty and the caller should still
	// report the entry as found-but-unexported.
	Skipped string
}

// ReadEntry parses the cache2 entry file at path: the trailing
// metadataOffset, the per-chunk hash block, the metadata header, the key,
// and the element block, then copies the payload out to a fresh temp file
// under tempRoot.
func ReadEntry(path, tempRoot string) (Entry, error) {
	view, err := byteio.NewMappedView(path)
	if err != nil {
		return Entry{}, err
	}
	data := view.Bytes()
	if len(data) < 4 {
		return Entry{}, newError("entry file %s is too small to carry a metadata offset", path)
	}

	metadataOffset := binary.BigEndian.Uint32(data[len(data)-4:])
	metadataBlockEnd := len(data) - 4
	if int(metadataOffset) > metadataBlockEnd {
		return Entry{}, newError("entry file %s: metadata offset %d exceeds file size", path, metadataOffset)
	}
	metadataBlock := data[metadataOffset:metadataBlockEnd]

	hashSize := HashSize(metadataOffset)
	if hashSize > int64(len(metadataBlock)) {
		return Entry{}, newError("entry file %s: hash block of %d bytes exceeds metadata block", path, hashSize)
	}
	rest := metadataBlock[hashSize:]

	header, consumed, err := ReadMetadataHeader(rest)
	if err != nil {
		return Entry{
			Path:    path,
			Skipped: err.Error(),
		}, nil
	}
	rest = rest[consumed:]

	keyLen := int(header.KeyLength) + 1
	if keyLen > len(rest) {
		return Entry{Path: path, Skipped: "metadata key length exceeds remaining metadata block"}, nil
	}
	rawKey := rest[:keyLen]
	rest = rest[keyLen:]
	key := string(trimNUL(rawKey))

	parsedKey := ParseKey(key)
	elements := parseElements(rest)
	headers, _ := elements.ResponseHead()
	origin, _ := elements.RequestOrigin()

	entry := Entry{
		Path:             path,
		URL:              parsedKey.URL,
		Origin:           origin,
		PartitionKey:     parsedKey.PartitionKey,
		Headers:          headers,
		MetadataVersion:  header.Version,
		AccessCount:      header.AccessCount,
		LastAccessTime:   header.LastAccessTime,
		LastModifiedTime: header.LastModifiedTime,
		ExpiryTime:       header.ExpiryTime,
	}

	if header.Version == 1 {
		entry.Skipped = V1ExportUnsupported
		return entry, nil
	}

	payloadPath, err := copyPayload(path, tempRoot, int64(metadataOffset))
	if err != nil {
		return Entry{}, err
	}
	entry.PayloadPath = payloadPath
	return entry, nil
}

func copyPayload(path, tempRoot string, payloadSize int64) (string, error) {
	src, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer src.Close() //nolint:errcheck

	var w byteio.Writer
	if err := w.BeginTemp(tempRoot, "mozilla-entry-*"); err != nil {
		return "", err
	}

	if _, err := io.CopyN(&w, src, payloadSize); err != nil && err != io.EOF {
		w.Close() //nolint:errcheck
		return "", fmt.Errorf("mozilla: copy payload from %s: %w", path, err)
	}
	w.Commit()
	if err := w.Close(); err != nil {
		return "", err
	}
	return w.Path, nil
}

func trimNUL(b []byte) []byte {
	if i := indexByte(b, 0); i >= 0 {
		return b[:i]
	}
	return b
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}

// RecoverBrowserProfile recovers the browser vendor/name and profile name
// from a cache directory's path, per the directory-layout table documented
// at the top of cache_mozilla.cpp:
//
//	<vendor+browser>/Profiles/<profile>[/<salt>.slt]/<Cache|cache2|NewCache>
//
// Only meaningful in batch mode, where paths describe a foreign machine's
// directory layout rather than one walked live; the caller is expected to
// gate calling this on batch mode.
func RecoverBrowserProfile(cacheDir string) (browser, profile string) {
	profileView := pathComponentEnd(cacheDir, 1)
	salt := strings.HasSuffix(strings.ToLower(profileView), ".slt")

	if salt {
		profileView = pathComponentEnd(cacheDir, 2)
	}
	profile = profileView

	if salt {
		browser = pathComponentEnd(cacheDir, 4)
	} else {
		browser = pathComponentEnd(cacheDir, 3)
	}
	return
}

// pathComponentEnd returns the name of the path component n levels above
// path's final component (n=0 returns path's own base name), splitting on
// either slash style so foreign-machine paths recovered from a batch
// descriptor parse the same regardless of which OS produced them.
func pathComponentEnd(path string, n int) string {
	parts := splitPathComponents(path)
	idx := len(parts) - 1 - n
	if idx < 0 || idx >= len(parts) {
		return ""
	}
	return parts[idx]
}

func splitPathComponents(path string) []string {
	normalized := strings.ReplaceAll(path, "\\", "/")
	var parts []string
	for _, p := range strings.Split(normalized, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}
