//go:build !windows

package shockwave

// ReadVersionInfo returns an all-empty VersionInfo on non-Windows hosts,
// where no VERSIONINFO resource table can be read.
func ReadVersionInfo(path string) VersionInfo {
	return VersionInfo{}
}
