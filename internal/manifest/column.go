// Package manifest implements the exporter's CSV report sink: per-format
// manifests and the run-wide report, plus an escape/unescape pair that
// makes the CSV round-trip a testable property of this repository.
//
// Column set restored in full from cache_csv.h/.cpp, including the
// report-only columns (Format, Mode, Excluded) and the Shockwave-only
// columns (Director Format, Xtra Description/Version/Copyright).
package manifest

// Column identifies one manifest field, in the original's declaration
// order (CSV_FILENAME..CSV_XTRA_COPYRIGHT).
type Column int

const (
	Filename Column = iota
	Extension

	URL
	Origin

	LastModifiedTime
	CreationTime
	LastWriteTime
	LastAccessTime
	ExpiryTime

	AccessCount

	Response
	Server
	CacheControl
	Pragma
	ContentType
	ContentLength
	ContentRange
	ContentEncoding

	Browser
	Profile
	Version

	Found
	InputPath
	InputSize

	Decompressed
	Exported
	OutputPath
	OutputSize

	MajorFileLabel
	MinorFileLabel
	MajorURLLabel
	MinorURLLabel
	MajorOriginLabel
	MinorOriginLabel

	SHA256

	// Report-only columns.
	Format
	Mode
	Excluded

	// Shockwave-only columns.
	DirectorFormat
	XtraDescription
	XtraVersion
	XtraCopyright

	numColumns
)

// headers mirrors cache_csv.cpp's CSV_COLUMNS table.
var headers = [numColumns]string{
	Filename:  "Filename",
	Extension: "Extension",

	URL:    "URL",
	Origin: "Origin",

	LastModifiedTime: "Last Modified Time",
	CreationTime:     "Creation Time",
	LastWriteTime:    "Last Write Time",
	LastAccessTime:   "Last Access Time",
	ExpiryTime:       "Expiry Time",

	AccessCount: "Access Count",

	Response:        "Response",
	Server:          "Server",
	CacheControl:    "Cache Control",
	Pragma:          "Pragma",
	ContentType:     "Content Type",
	ContentLength:   "Content Length",
	ContentRange:    "Content Range",
	ContentEncoding: "Content Encoding",

	Browser: "Browser",
	Profile: "Profile",
	Version: "Version",

	Found:     "Found",
	InputPath: "Input Path",
	InputSize: "Input Size",

	Decompressed: "Decompressed",
	Exported:     "Exported",
	OutputPath:   "Output Path",
	OutputSize:   "Output Size",

	MajorFileLabel:   "Major File Label",
	MinorFileLabel:   "Minor File Label",
	MajorURLLabel:    "Major URL Label",
	MinorURLLabel:    "Minor URL Label",
	MajorOriginLabel: "Major Origin Label",
	MinorOriginLabel: "Minor Origin Label",

	SHA256: "SHA-256",

	Format:   "Format",
	Mode:     "Mode",
	Excluded: "Excluded",

	DirectorFormat:  "Director Format",
	XtraDescription: "Xtra Description",
	XtraVersion:     "Xtra Version",
	XtraCopyright:   "Xtra Copyright",
}

// Header returns the display name of column c.
func (c Column) Header() string { return headers[c] }

// MozillaColumns is the column set for Mozilla cache2 entries, restored
// from cache_mozilla.cpp's _MOZILLA_COLUMNS table.
var MozillaColumns = []Column{
	Filename, Extension,
	URL, Origin,
	LastModifiedTime, LastAccessTime, ExpiryTime,
	AccessCount,
	Response, Server, CacheControl, Pragma, ContentType, ContentLength, ContentRange, ContentEncoding,
	Browser, Profile, Version,
	Found, InputPath, InputSize,
	Decompressed, Exported, OutputPath, OutputSize,
	MajorFileLabel, MinorFileLabel, MajorURLLabel, MinorURLLabel, MajorOriginLabel, MinorOriginLabel,
	SHA256,
}

// ShockwaveColumns is the column set for Shockwave entries, restored from
// cache_shockwave.cpp's _SHOCKWAVE_COLUMNS table (no URL/origin/HTTP
// columns — Shockwave entries are plain filesystem discoveries, not
// transport-level cache entries).
var ShockwaveColumns = []Column{
	Filename, Extension,
	CreationTime, LastWriteTime, LastAccessTime,
	DirectorFormat, XtraDescription, XtraVersion, XtraCopyright,
	InputPath, InputSize, OutputPath, OutputSize,
	MajorFileLabel, MinorFileLabel, SHA256,
}

// ReportColumns is the run-wide summary report's column set.
var ReportColumns = []Column{Format, Mode, Found, Exported, Excluded}
