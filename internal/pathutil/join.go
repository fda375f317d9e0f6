package pathutil

import (
	securejoin "github.com/cyphar/filepath-securejoin"
)

// JoinUnderRoot joins the given components beneath root, rejecting any
// attempt (via symlinks or ".." segments introduced by an untrusted
// filename) to escape root. The export orchestrator uses this to build
// copy-out destinations from untrusted URL paths and synthesized
// filenames.
func JoinUnderRoot(root string, components ...string) (string, error) {
	if len(components) == 0 {
		return securejoin.SecureJoin(root, "")
	}
	rel := components[0]
	for _, c := range components[1:] {
		rel = rel + "/" + c
	}
	return securejoin.SecureJoin(root, rel)
}
