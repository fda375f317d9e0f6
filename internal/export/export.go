// Package export implements the exporter's per-entry orchestrator
// (export_next): filename synthesis, row population, decompression,
// hashing, labeling, filter decisions, and copy-out with collision and
// long-path handling.
//
// The state-machine shape (idle -> begun -> entry* -> ended -> idle) and
// the balance-assertion discipline it requires is grounded on go-git's
// plumbing/format/packfile.Scanner/Encoder pairing, which the same way
// wraps a sequence of per-object operations between a single Init/Flush.
package export

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/joaohenggeler/web-cache-exporter-sub001/internal/arena"
	"github.com/joaohenggeler/web-cache-exporter-sub001/internal/decompress"
	"github.com/joaohenggeler/web-cache-exporter-sub001/internal/label"
	"github.com/joaohenggeler/web-cache-exporter-sub001/internal/manifest"
	"github.com/joaohenggeler/web-cache-exporter-sub001/internal/pathutil"
	"github.com/joaohenggeler/web-cache-exporter-sub001/internal/urlutil"
)

// Filter selects which exported entries survive the inclusion-decision
// step of the per-entry pipeline.
type Filter struct {
	// Positive, if non-empty, includes an entry iff one of its four label
	// components (file major/minor, URL major/minor) appears in it.
	Positive map[string]bool
	// Negative, if non-empty (and Positive is empty), excludes an entry
	// iff one of its four label components appears in it.
	Negative map[string]bool
	// Ignore holds per-format names that force-include regardless of
	// Positive/Negative.
	Ignore map[string]bool
}

func (f Filter) decide(format string, labels [4]string) bool {
	if f.Ignore[format] {
		return true
	}
	if len(f.Positive) > 0 {
		for _, l := range labels {
			if l != "" && f.Positive[l] {
				return true
			}
		}
		return false
	}
	if len(f.Negative) > 0 {
		for _, l := range labels {
			if l != "" && f.Negative[l] {
				return false
			}
		}
		return true
	}
	return true
}

// FormatState tracks the per-format counters and manifest the state
// machine's "begun" phase owns: the synthesized-filename counter and the
// open manifest writer.
type FormatState struct {
	ShortName    string
	OutputRoot   string
	Manifest     *manifest.Writer
	Rules        []label.Rule
	Filter       Filter
	GroupByOrigin bool
	DecompressEnabled bool

	counter int

	TotalFound    int
	TotalExported int
	TotalExcluded int
}

// Begin opens shortName's manifest under outputRoot/shortName.csv and
// returns a ready FormatState. Pairs with End; the caller must always call
// End once begun, even on error paths, to balance the state machine.
func Begin(outputRoot, shortName string, columns []manifest.Column, rules []label.Rule, filter Filter, groupByOrigin, decompressEnabled bool) (*FormatState, error) {
	if err := os.MkdirAll(outputRoot, 0o755); err != nil {
		return nil, err
	}
	w, err := manifest.Begin(filepath.Join(outputRoot, shortName+".csv"), columns)
	if err != nil {
		return nil, err
	}
	return &FormatState{
		ShortName:         shortName,
		OutputRoot:        outputRoot,
		Manifest:          w,
		Rules:             rules,
		Filter:            filter,
		GroupByOrigin:     groupByOrigin,
		DecompressEnabled: decompressEnabled,
	}, nil
}

// End closes the format's manifest.
func (s *FormatState) End() error {
	return s.Manifest.End()
}

// Entry is the input to Next: one discovered cache item, partially
// populated by its format-specific parser.
type Entry struct {
	// SourcePath is the original on-disk location; Found is true when it
	// still resolves to a readable, extant file.
	SourcePath string
	Found      bool

	URL    string
	Origin string

	Headers map[string]string // lower-cased name -> value; "" key holds the response line.

	// PayloadPath names the file to read the entry's raw payload from,
	// which may differ from SourcePath (e.g. a Mozilla entry's
	// already-truncated temp copy). Empty means no payload.
	PayloadPath string

	Subdirectory string // e.g. "Xtras" vs "Cache" for Shockwave.

	ContentEncoding string

	// Extra carries format-specific manifest columns (timestamps, access
	// count, Shockwave director format, ...) the caller has already
	// computed; Next merges them into the final row without
	// interpretation.
	Extra map[manifest.Column]string

	// TempRoot is where decompression writes its scratch output; the
	// process-wide temp directory is used when this is empty.
	TempRoot string
}

// Next runs the nine-step pipeline for one entry: synthesize a filename,
// populate its manifest row, decompress and hash the payload, label it,
// decide whether it's included, copy it out, emit the manifest row, and
// reset the per-entry arena mark.
func Next(state *FormatState, e Entry) error {
	mark := arena.Transient.Save()
	defer arena.Transient.Restore(mark)

	state.TotalFound++

	filename, extension := synthesizeFilename(state, e)

	row := make(map[manifest.Column]string, len(e.Extra)+12)
	for k, v := range e.Extra {
		row[k] = v
	}
	row[manifest.Filename] = filename
	row[manifest.Extension] = extension
	row[manifest.URL] = e.URL
	row[manifest.Origin] = e.Origin
	row[manifest.InputPath] = e.SourcePath
	row[manifest.Found] = boolCell(e.Found)

	if e.Headers != nil {
		row[manifest.Response] = e.Headers[""]
		row[manifest.Server] = e.Headers["server"]
		row[manifest.CacheControl] = e.Headers["cache-control"]
		row[manifest.Pragma] = e.Headers["pragma"]
		row[manifest.ContentType] = e.Headers["content-type"]
		row[manifest.ContentLength] = e.Headers["content-length"]
		row[manifest.ContentRange] = e.Headers["content-range"]
		row[manifest.ContentEncoding] = e.Headers["content-encoding"]
	}

	inputSize, payloadPath := int64(0), e.PayloadPath
	if payloadPath != "" {
		if info, err := os.Stat(payloadPath); err == nil {
			inputSize = info.Size()
		}
	}
	row[manifest.InputSize] = cellInt(inputSize)

	contentEncoding := e.ContentEncoding
	if contentEncoding == "" {
		contentEncoding = e.Headers["content-encoding"]
	}

	decompressed := false
	if state.DecompressEnabled && contentEncoding != "" && payloadPath != "" && inputSize > 0 {
		tempRoot := e.TempRoot
		if tempRoot == "" {
			tempRoot = os.TempDir()
		}
		decodedPath, err := decodeToTemp(payloadPath, contentEncoding, tempRoot)
		if err == nil {
			payloadPath = decodedPath
			decompressed = true
		}
	}
	row[manifest.Decompressed] = boolCell(decompressed)

	hash, err := hashPayload(payloadPath)
	if err != nil {
		hash = ""
	}
	row[manifest.SHA256] = hash

	var fileLabel, urlLabel, originLabel label.Rule
	var haveFile, haveURL, haveOrigin bool

	if payload, rerr := readAhead(payloadPath, label.MaxSignatureLength(state.Rules)); rerr == nil {
		fileLabel, haveFile = label.MatchFile(state.Rules, payload, e.Headers["content-type"], extension)
	}
	if e.URL != "" {
		parts := urlutil.Parse(e.URL)
		urlLabel, haveURL = label.MatchURL(state.Rules, parts.Host, parts.Path)
	}
	if e.Origin != "" {
		parts := urlutil.Parse(e.Origin)
		originLabel, haveOrigin = label.MatchURL(state.Rules, parts.Host, parts.Path)
	}

	row[manifest.MajorFileLabel], row[manifest.MinorFileLabel] = labelCells(fileLabel, haveFile)
	row[manifest.MajorURLLabel], row[manifest.MinorURLLabel] = labelCells(urlLabel, haveURL)
	row[manifest.MajorOriginLabel], row[manifest.MinorOriginLabel] = labelCells(originLabel, haveOrigin)

	labels := [4]string{row[manifest.MajorFileLabel], row[manifest.MinorFileLabel], row[manifest.MajorURLLabel], row[manifest.MinorURLLabel]}
	include := state.Filter.decide(state.ShortName, labels)

	if !include {
		state.TotalExcluded++
	}

	exported := false
	if include && payloadPath != "" {
		if extension == "" {
			switch {
			case haveFile && fileLabel.DefaultExtension != "":
				extension = fileLabel.DefaultExtension
			case haveFile && len(fileLabel.Extensions) == 1:
				extension = fileLabel.Extensions[0]
			}
			if extension != "" {
				filename = filename + "." + extension
			}
		}
		outputPath, outputSize, copyErr := copyOut(state, e, filename, payloadPath)
		if copyErr == nil {
			exported = true
			row[manifest.OutputPath] = outputPath
			row[manifest.OutputSize] = cellInt(outputSize)
			state.TotalExported++
		}
	}
	row[manifest.Exported] = boolCell(exported)

	// The manifest records every included entry, whether or not its copy
	// succeeded — a failed copy is still reported as found-but-not-
	// exported rather than silently dropped from the report.
	if include {
		if err := state.Manifest.Next(row); err != nil {
			return errors.Wrap(err, "export: write manifest row")
		}
	}
	return nil
}

func synthesizeFilename(state *FormatState, e Entry) (filename, extension string) {
	var base string
	if e.URL != "" {
		parts := urlutil.Parse(e.URL)
		base = lastPathComponent(parts.Path)
	}
	if base == "" {
		_, name, _, _ := pathutil.Parse(e.SourcePath)
		base = name
	}
	if base == "" {
		state.counter++
		base = fmt.Sprintf("~WCE%04d", state.counter)
	}
	_, _, stem, ext := pathutil.Parse(base)
	if stem == "" {
		stem = base
	}
	return base, ext
}

func lastPathComponent(p string) string {
	p = strings.TrimSuffix(p, "/")
	if idx := strings.LastIndexByte(p, '/'); idx >= 0 {
		return p[idx+1:]
	}
	return p
}

func boolCell(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func cellInt(n int64) string {
	return fmt.Sprintf("%d", n)
}

func labelCells(r label.Rule, ok bool) (string, string) {
	if !ok {
		return "", ""
	}
	return r.MajorName, r.MinorName
}

func decodeToTemp(payloadPath, contentEncoding, tempRoot string) (string, error) {
	out, err := os.CreateTemp(tempRoot, "wce-export-*")
	if err != nil {
		return "", err
	}
	defer out.Close() //nolint:errcheck

	if err := decompress.Decode(payloadPath, contentEncoding, out); err != nil {
		os.Remove(out.Name()) //nolint:errcheck
		return "", err
	}
	return out.Name(), nil
}

func hashPayload(payloadPath string) (string, error) {
	if payloadPath == "" {
		return "", nil
	}
	f, err := os.Open(payloadPath)
	if err != nil {
		return "", err
	}
	defer f.Close() //nolint:errcheck

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(h.Sum(nil))), nil
}

func readAhead(path string, n int) ([]byte, error) {
	if path == "" || n <= 0 {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck
	buf := make([]byte, n)
	read, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, err
	}
	return buf[:read], nil
}
