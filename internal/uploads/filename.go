package uploads

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// MaxFilenameLength is the longest stored name. It matches the image column
// and common filesystem limits.
const MaxFilenameLength = 255

// AllowedExtensions lists the image types a listing may carry.
var AllowedExtensions = []string{"jpg", "jpeg", "png", "gif"}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// Windows refuses to create files with these base names.
var reservedDeviceNames = map[string]struct{}{
	"CON": {}, "PRN": {}, "AUX": {}, "NUL": {},
	"COM1": {}, "COM2": {}, "COM3": {}, "COM4": {}, "COM5": {}, "COM6": {}, "COM7": {}, "COM8": {}, "COM9": {},
	"LPT1": {}, "LPT2": {}, "LPT3": {}, "LPT4": {}, "LPT5": {}, "LPT6": {}, "LPT7": {}, "LPT8": {}, "LPT9": {},
}

// Sanitize reduces an uploaded filename to a flat name that is safe to use
// as a file in the upload directory and as an object key. Accents are
// decomposed and dropped, path separators and whitespace become
// underscores, everything outside [A-Za-z0-9_.-] is removed and leading or
// trailing dots and underscores are trimmed. The result may be empty.
func Sanitize(name string) string {
	var b strings.Builder
	for _, r := range norm.NFKD.String(name) {
		if r < unicode.MaxASCII {
			b.WriteRune(r)
		}
	}
	s := b.String()

	s = strings.NewReplacer("/", " ", `\`, " ").Replace(s)
	s = strings.Join(strings.Fields(s), "_")
	s = unsafeFilenameChars.ReplaceAllString(s, "")
	s = strings.Trim(s, "._")

	if s != "" {
		base := strings.ToUpper(strings.SplitN(s, ".", 2)[0])
		if _, reserved := reservedDeviceNames[base]; reserved {
			s = "_" + s
		}
	}
	return s
}

// Extension returns the lower-case extension of name without the dot.
func Extension(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

// Allowed reports whether name carries one of AllowedExtensions.
func Allowed(name string) bool {
	ext := Extension(name)
	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
