package shockwave

import (
	"path/filepath"

	"github.com/joaohenggeler/web-cache-exporter-sub001/internal/fswalk"
	"github.com/joaohenggeler/web-cache-exporter-sub001/internal/keypaths"
)

// vendors are the two publishers whose installers have shipped a
// Shockwave or Director runtime under a "*Shockwave*"-named support
// directory.
var vendors = []string{"Macromedia", "Adobe"}

// DiscoverSupportDirectories finds every "*Shockwave*"-named directory
// beneath profile's AppData and LocalLowAppData, under each of the two
// vendor prefixes.
func DiscoverSupportDirectories(profile keypaths.Profile) ([]string, error) {
	var bases []keypaths.Path
	if profile.AppData.Set {
		bases = append(bases, profile.AppData)
	}
	if profile.LocalLowAppData.Set {
		bases = append(bases, profile.LocalLowAppData)
	}

	var found []string
	for _, base := range bases {
		for _, vendor := range vendors {
			root := filepath.Join(base.Value, vendor)
			err := fswalk.Walk(root, fswalk.Options{Dirs: true, Glob: "*Shockwave*", MaxDepth: -1}, func(e fswalk.Entry) error {
				if e.IsDir {
					found = append(found, e.Path)
				}
				return nil
			})
			if err != nil {
				continue
			}
		}
	}
	return found, nil
}

// WalkCache walks root recursively, visiting every file under the
// support directory as an export candidate.
func WalkCache(root string, visit fswalk.VisitFunc) error {
	return fswalk.Walk(root, fswalk.Options{Files: true, MaxDepth: -1}, visit)
}

// WalkTemporary walks the temporary directory at depth 0 only, filtering
// by the "mp*" glob Director uses for its scratch movie-player files.
func WalkTemporary(temporary string, visit fswalk.VisitFunc) error {
	return fswalk.Walk(temporary, fswalk.Options{Files: true, MaxDepth: 0, Glob: "mp*"}, visit)
}
