// Package decompress implements the exporter's content-encoding pipeline:
// given a file on disk and its (possibly comma-separated, possibly empty)
// content-encoding value, it writes the fully decoded bytes to a caller
// supplied io.Writer.
//
// Grounded on go-git's utils/sync zlib.go (stdlib compress/zlib reader
// pooling) for the zlib/deflate leg, and on
// original_source/Source/Code/common_decompress.cpp's zlib_file_decompress
// for the zlib-vs-raw-deflate magic byte detection and the general
// multi-encoding chaining shape.
package decompress

import (
	"bufio"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/pkg/errors"

	"github.com/joaohenggeler/web-cache-exporter-sub001/internal/byteio"
	"github.com/joaohenggeler/web-cache-exporter-sub001/internal/decompress/lzw"
)

// Error reports a malformed or unsupported content encoding.
type Error struct {
	msg string
}

func (e *Error) Error() string { return "decompress: " + e.msg }

func newError(format string, args ...any) *Error {
	return &Error{msg: fmt.Sprintf(format, args...)}
}

// tokens splits a content-encoding value on commas, trims surrounding
// whitespace from each token, and drops empty tokens (a trailing or
// doubled comma never introduces a phantom encoding step).
func tokens(contentEncoding string) []string {
	var out []string
	for _, part := range strings.Split(contentEncoding, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Decode reads inputPath, applies the encodings named by contentEncoding in
// reverse order (the last token is the outermost wrapper and is undone
// first), and writes the fully decoded bytes to w. An empty or all-blank
// contentEncoding is a byte-for-byte copy.
func Decode(inputPath, contentEncoding string, w io.Writer) error {
	encodings := tokens(contentEncoding)
	if len(encodings) == 0 {
		return copyFile(inputPath, w)
	}

	// Reverse order: the rightmost token was applied last by the origin
	// server, so it must be undone first.
	current := inputPath
	tempFiles := make([]string, 0, len(encodings))
	defer func() {
		for _, p := range tempFiles {
			os.Remove(p)
		}
	}()

	for i := len(encodings) - 1; i >= 0; i-- {
		token := strings.ToLower(encodings[i])

		var dst io.Writer
		var tmp *byteio.Writer
		isLast := i == 0
		if isLast {
			dst = w
		} else {
			tmp = &byteio.Writer{}
			if err := tmp.BeginTemp(os.TempDir(), "wce-decompress-*"); err != nil {
				return errors.Wrap(err, "decompress: allocating intermediate file")
			}
			dst = tmp
		}

		if err := decodeOne(current, token, dst); err != nil {
			if tmp != nil {
				tmp.Close()
			}
			return errors.Wrapf(err, "decompress: applying encoding %q", token)
		}

		if tmp != nil {
			path := tmp.Path
			tmp.Commit()
			if err := tmp.Close(); err != nil {
				return err
			}
			tempFiles = append(tempFiles, path)
			current = path
		}
	}

	return nil
}

func decodeOne(path, encoding string, w io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch encoding {
	case "", "identity":
		_, err := io.Copy(w, f)
		return err
	case "gzip", "x-gzip":
		gr, err := gzip.NewReader(f)
		if err != nil {
			return err
		}
		defer gr.Close()
		_, err = io.Copy(w, gr)
		return err
	case "deflate":
		return deflateDecode(f, w)
	case "br":
		br := brotli.NewReader(f)
		_, err := io.Copy(w, br)
		return err
	case "compress", "x-compress":
		return lzw.Decode(f, w)
	default:
		return newError("unsupported content encoding %q", encoding)
	}
}

// deflateDecode mirrors common_decompress.cpp's zlib_file_decompress: some
// servers label raw DEFLATE streams as "deflate", others wrap them in a
// zlib frame. The zlib header is one of a handful of fixed first bytes
// (0x78 0x01/0x5E/0x9C/0xDA); anything else is treated as raw DEFLATE.
func deflateDecode(r io.Reader, w io.Writer) error {
	br := bufio.NewReader(r)
	peek, err := br.Peek(2)
	if err != nil && err != io.EOF {
		return err
	}

	if looksLikeZlib(peek) {
		zr, err := zlib.NewReader(br)
		if err != nil {
			return err
		}
		defer zr.Close()
		_, err = io.Copy(w, zr)
		return err
	}

	fr := flate.NewReader(br)
	defer fr.Close()
	_, err = io.Copy(w, fr)
	return err
}

func looksLikeZlib(peek []byte) bool {
	if len(peek) < 2 {
		return false
	}
	if peek[0] != 0x78 {
		return false
	}
	switch peek[1] {
	case 0x01, 0x5E, 0x9C, 0xDA:
		return true
	default:
		return false
	}
}

func copyFile(path string, w io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(w, f)
	return err
}
