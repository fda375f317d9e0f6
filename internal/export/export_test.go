package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joaohenggeler/web-cache-exporter-sub001/internal/label"
	"github.com/joaohenggeler/web-cache-exporter-sub001/internal/manifest"
)

func htmlRules() []label.Rule {
	return []label.Rule{
		{MajorName: "Text", MinorName: "HTML", MIMETypes: []string{"text/html"}, Extensions: []string{"html", "htm"}},
	}
}

func TestNextExportsEntryAndWritesManifestRow(t *testing.T) {
	outputRoot := t.TempDir()
	payloadDir := t.TempDir()
	payloadPath := filepath.Join(payloadDir, "payload")
	require.NoError(t, os.WriteFile(payloadPath, []byte("Hello, world!"), 0o644))

	state, err := Begin(outputRoot, "mozilla", manifest.MozillaColumns, htmlRules(), Filter{}, false, false)
	require.NoError(t, err)

	entry := Entry{
		SourcePath:  payloadPath,
		Found:       true,
		URL:         "https://cdn.example.com/file.ext",
		PayloadPath: payloadPath,
		Headers:     map[string]string{"": "HTTP/1.1 200 OK", "content-type": "text/html"},
	}

	require.NoError(t, Next(state, entry))
	require.NoError(t, state.End())

	assert.Equal(t, 1, state.TotalExported)

	wantDest := filepath.Join(outputRoot, "mozilla", "cdn.example.com", "file.ext")
	_, err = os.Stat(wantDest)
	assert.NoError(t, err, "expected output file at %s", wantDest)

	data, err := os.ReadFile(filepath.Join(outputRoot, "mozilla.csv"))
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "file.ext")
	assert.Contains(t, content, "https://cdn.example.com/file.ext")
}

func TestNextSkipsCopyWhenFilterExcludes(t *testing.T) {
	outputRoot := t.TempDir()
	payloadDir := t.TempDir()
	payloadPath := filepath.Join(payloadDir, "payload")
	require.NoError(t, os.WriteFile(payloadPath, []byte("data"), 0o644))

	filter := Filter{Positive: map[string]bool{"Image": true}}
	state, err := Begin(outputRoot, "mozilla", manifest.MozillaColumns, htmlRules(), filter, false, false)
	require.NoError(t, err)

	entry := Entry{
		SourcePath:  payloadPath,
		PayloadPath: payloadPath,
		URL:         "https://cdn.example.com/file.html",
		Headers:     map[string]string{"content-type": "text/html"},
	}
	require.NoError(t, Next(state, entry))
	require.NoError(t, state.End())

	assert.Equal(t, 0, state.TotalExported)
	assert.Equal(t, 1, state.TotalExcluded)
}

func TestNextSynthesizesFilenameWhenNoneAvailable(t *testing.T) {
	outputRoot := t.TempDir()
	payloadDir := t.TempDir()
	payloadPath := filepath.Join(payloadDir, "noext")
	require.NoError(t, os.WriteFile(payloadPath, []byte("x"), 0o644))

	state, err := Begin(outputRoot, "shockwave", manifest.ShockwaveColumns, nil, Filter{}, false, false)
	require.NoError(t, err)

	// No URL and no source path at all forces the "~WCE####" synthesis
	// branch (step 1's final fallback); the payload is still supplied
	// separately via PayloadPath.
	entry := Entry{SourcePath: "", PayloadPath: payloadPath}
	require.NoError(t, Next(state, entry))
	require.NoError(t, state.End())
	assert.Equal(t, 1, state.TotalExported)

	entries, err := os.ReadDir(filepath.Join(outputRoot, "shockwave"))
	require.NoError(t, err)
	found := false
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "~WCE") {
			found = true
		}
	}
	assert.True(t, found, "expected a synthesized ~WCE#### filename, got %v", entries)
}
