package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/joaohenggeler/web-cache-exporter-sub001/internal/pathutil"
	"github.com/joaohenggeler/web-cache-exporter-sub001/internal/urlutil"
)

// maxPathLength is the conservative cross-platform path-length ceiling a
// destination path falls back from; Windows' legacy MAX_PATH (260) is the
// tightest limit any host in scope might enforce.
const maxPathLength = 260

const maxCollisionAttempts = 1000

// copyOut builds the destination path, copies the payload there (retrying
// on name collision), and falls back to the format's root with a
// synthesized name on repeated failure.
func copyOut(state *FormatState, e Entry, filename, payloadPath string) (outputPath string, outputSize int64, err error) {
	components := []string{state.OutputRoot, state.ShortName}
	if e.Subdirectory != "" {
		components = append(components, e.Subdirectory)
	}
	if state.GroupByOrigin && e.Origin != "" {
		originParts := urlutil.Parse(e.Origin)
		if originParts.Host != "" {
			components = append(components, pathutil.Safe(originParts.Host))
		}
	}
	if e.URL != "" {
		urlParts := urlutil.Parse(e.URL)
		if urlParts.Host != "" {
			components = append(components, pathutil.Safe(urlParts.Host))
		}
		if dir := filepath.Dir(urlParts.Path); dir != "." && dir != "/" && dir != "" {
			for _, seg := range strings.Split(strings.Trim(dir, "/"), "/") {
				if seg != "" {
					components = append(components, pathutil.Safe(seg))
				}
			}
		}
	}

	safeName := pathutil.Safe(filename)
	dest, derr := pathutil.JoinUnderRoot(state.OutputRoot, append(components[1:], safeName)...)
	if derr != nil || len(dest) > maxPathLength {
		dest = ""
	}

	if dest != "" {
		if path, size, ok := tryCopyWithCollisionRetry(dest, payloadPath); ok {
			return path, size, nil
		}
	}

	fallbackComponents := []string{state.ShortName}
	if e.Subdirectory != "" {
		fallbackComponents = append(fallbackComponents, e.Subdirectory)
	}
	fallbackDir, ferr := pathutil.JoinUnderRoot(state.OutputRoot, fallbackComponents...)
	if ferr != nil {
		return "", 0, ferr
	}
	fallbackName := state.nextSyntheticName(filepath.Ext(safeName))
	fallbackDest := filepath.Join(fallbackDir, fallbackName)
	if path, size, ok := tryCopyWithCollisionRetry(fallbackDest, payloadPath); ok {
		return path, size, nil
	}
	return "", 0, fmt.Errorf("export: could not copy %s to any destination under %s", payloadPath, state.OutputRoot)
}

func (s *FormatState) nextSyntheticName(ext string) string {
	s.counter++
	if ext != "" {
		return fmt.Sprintf("~WCE%04d%s", s.counter, ext)
	}
	return fmt.Sprintf("~WCE%04d", s.counter)
}

// tryCopyWithCollisionRetry copies payloadPath to dest. If dest already
// exists, it retries with "~N" appended before the extension, up to
// maxCollisionAttempts times.
func tryCopyWithCollisionRetry(dest, payloadPath string) (string, int64, bool) {
	dir := filepath.Dir(dest)
	ext := filepath.Ext(dest)
	stem := strings.TrimSuffix(filepath.Base(dest), ext)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", 0, false
	}

	candidate := dest
	for attempt := 0; attempt < maxCollisionAttempts; attempt++ {
		size, err := copyFileExclusive(candidate, payloadPath)
		if err == nil {
			return candidate, size, true
		}
		if !os.IsExist(err) {
			return "", 0, false
		}
		candidate = filepath.Join(dir, fmt.Sprintf("%s~%d%s", stem, attempt+1, ext))
	}
	return "", 0, false
}

// copyFileExclusive copies src to dest, failing with a fs.ErrExist-wrapping
// error if dest already exists, so the caller can retry under a new name.
func copyFileExclusive(dest, src string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close() //nolint:errcheck

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, err
	}
	defer out.Close() //nolint:errcheck

	n, err := io.Copy(out, in)
	if err != nil {
		os.Remove(dest) //nolint:errcheck
		return 0, err
	}
	return n, nil
}
