//go:build windows

package shockwave

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	modversion              = windows.NewLazySystemDLL("version.dll")
	procGetFileVersionInfoW = modversion.NewProc("GetFileVersionInfoW")
	procGetFileVersionInfoSizeW = modversion.NewProc("GetFileVersionInfoSizeW")
	procVerQueryValueW       = modversion.NewProc("VerQueryValueW")
)

// ReadVersionInfo extracts the VERSIONINFO resource's string table from
// path via GetFileVersionInfo/VerQueryValue. A file with no resource
// table (or any API failure) yields an all-empty VersionInfo rather than
// an error, matching the original tool's best-effort extraction.
func ReadVersionInfo(path string) VersionInfo {
	pathPtr, err := syscall.UTF16PtrFromString(path)
	if err != nil {
		return VersionInfo{}
	}

	size, _, _ := procGetFileVersionInfoSizeW.Call(uintptr(unsafe.Pointer(pathPtr)), 0)
	if size == 0 {
		return VersionInfo{}
	}

	buf := make([]byte, size)
	ok, _, _ := procGetFileVersionInfoW.Call(
		uintptr(unsafe.Pointer(pathPtr)), 0, size, uintptr(unsafe.Pointer(&buf[0])),
	)
	if ok == 0 {
		return VersionInfo{}
	}

	langCodePage, found := queryTranslation(buf)
	if !found {
		langCodePage = "040904E4" // English (US), Windows-1252 — the common default.
	}

	return VersionInfo{
		Comments:         queryString(buf, langCodePage, "Comments"),
		CompanyName:      queryString(buf, langCodePage, "CompanyName"),
		FileDescription:  queryString(buf, langCodePage, "FileDescription"),
		FileVersion:      queryString(buf, langCodePage, "FileVersion"),
		ProductVersion:   queryString(buf, langCodePage, "ProductVersion"),
		LegalCopyright:   queryString(buf, langCodePage, "LegalCopyright"),
		LegalTrademarks:  queryString(buf, langCodePage, "LegalTrademarks"),
		OriginalFilename: queryString(buf, langCodePage, "OriginalFilename"),
		InternalName:     queryString(buf, langCodePage, "InternalName"),
		PrivateBuild:     queryString(buf, langCodePage, "PrivateBuild"),
		SpecialBuild:     queryString(buf, langCodePage, "SpecialBuild"),
		ProductName:      queryString(buf, langCodePage, "ProductName"),
	}
}

func queryTranslation(buf []byte) (string, bool) {
	var ptr uintptr
	var length uint32
	sub, _ := syscall.UTF16PtrFromString(`\VarFileInfo\Translation`)
	ret, _, _ := procVerQueryValueW.Call(
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(unsafe.Pointer(sub)),
		uintptr(unsafe.Pointer(&ptr)),
		uintptr(unsafe.Pointer(&length)),
	)
	if ret == 0 || length < 4 {
		return "", false
	}
	pair := (*[2]uint16)(unsafe.Pointer(ptr))
	return hex16(pair[0]) + hex16(pair[1]), true
}

func hex16(v uint16) string {
	const digits = "0123456789ABCDEF"
	b := make([]byte, 4)
	for i := 3; i >= 0; i-- {
		b[i] = digits[v&0xF]
		v >>= 4
	}
	return string(b)
}

func queryString(buf []byte, langCodePage, name string) string {
	sub := `\StringFileInfo\` + langCodePage + `\` + name
	subPtr, err := syscall.UTF16PtrFromString(sub)
	if err != nil {
		return ""
	}
	var ptr uintptr
	var length uint32
	ret, _, _ := procVerQueryValueW.Call(
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(unsafe.Pointer(subPtr)),
		uintptr(unsafe.Pointer(&ptr)),
		uintptr(unsafe.Pointer(&length)),
	)
	if ret == 0 || length == 0 {
		return ""
	}
	return syscall.UTF16ToString(unsafe.Slice((*uint16)(unsafe.Pointer(ptr)), length))
}
