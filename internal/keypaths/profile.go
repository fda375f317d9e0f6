// Package keypaths models the "well-known folders" of a (possibly
// foreign, batch-described) machine: drive, windows, temporary, user,
// appdata, local_appdata, local_low_appdata, and wininet_cache.
package keypaths

import "strings"

// None is the sentinel value a Path carries when the corresponding folder
// is not known on the profile's machine.
const None = "<None>"

// Path is one well-known folder slot: either an absolute path or the
// None sentinel.
type Path struct {
	Set   bool
	Value string
}

// SetPath returns a Path carrying value.
func SetPath(value string) Path { return Path{Set: true, Value: value} }

// String renders the path, or the None sentinel when unset.
func (p Path) String() string {
	if !p.Set {
		return None
	}
	return p.Value
}

// Profile is a named collection of the eight well-known folders.
type Profile struct {
	Name            string
	Drive           Path
	Windows         Path
	Temporary       Path
	User            Path
	AppData         Path
	LocalAppData    Path
	LocalLowAppData Path
	WinINetCache    Path
}

// Validate checks that, if Drive is set, it is a prefix of every other
// set path in the profile.
func (p Profile) Validate() error {
	if !p.Drive.Set {
		return nil
	}
	others := []struct {
		name string
		path Path
	}{
		{"windows", p.Windows},
		{"temporary", p.Temporary},
		{"user", p.User},
		{"appdata", p.AppData},
		{"local_appdata", p.LocalAppData},
		{"local_low_appdata", p.LocalLowAppData},
		{"wininet_cache", p.WinINetCache},
	}
	for _, o := range others {
		if o.path.Set && !strings.HasPrefix(o.path.Value, p.Drive.Value) {
			return newError("profile %q: %s %q is not prefixed by drive %q", p.Name, o.name, o.path.Value, p.Drive.Value)
		}
	}
	return nil
}
