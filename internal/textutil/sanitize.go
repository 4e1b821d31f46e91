package textutil

import (
	"fmt"
	"path/filepath"
	"strings"
)

var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeFileName replaces filesystem-unsafe characters in a filename.
// Slashes, backslashes, colons, and asterisks become dashes; other unsafe
// characters are removed. The result is trimmed of leading/trailing
// whitespace.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return strings.TrimSpace(fileNameReplacer.Replace(name))
}

// WithCRCSuffix inserts a CRC tag before the extension:
// "/out/Title.mkv" + "A1B2C3D4" -> "/out/Title [A1B2C3D4].mkv".
func WithCRCSuffix(path, crc string) string {
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	return fmt.Sprintf("%s [%s]%s", stem, crc, ext)
}

// StripCRCSuffix removes a trailing bracketed tag from the file stem, if
// present: "/out/Title [A1B2C3D4].mkv" -> "/out/Title.mkv". Paths without a
// bracketed tag are returned unchanged.
func StripCRCSuffix(path string) string {
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	idx := strings.LastIndex(stem, "[")
	if idx <= 0 || !strings.HasSuffix(stem, "]") {
		return path
	}
	return strings.TrimRight(stem[:idx], " ") + ext
}
