package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var filenameStrip = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

var windowsDeviceFiles = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true,
	"LPT1": true, "LPT2": true, "LPT3": true,
}

// SecureFilename reduces an uploaded file name to a flat ASCII name that is
// safe to join onto the upload directory. It may return "".
//
//	"My cool movie.mov"    -> "My_cool_movie.mov"
//	"../../../etc/passwd"  -> "etc_passwd"
func SecureFilename(name string) string {
	name = norm.NFKD.String(name)
	name = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, name)

	name = strings.NewReplacer("/", " ", "\\", " ").Replace(name)
	name = strings.Join(strings.Fields(name), "_")
	name = filenameStrip.ReplaceAllString(name, "")
	name = strings.Trim(name, "._")

	if name != "" {
		base := strings.SplitN(name, ".", 2)[0]
		if windowsDeviceFiles[strings.ToUpper(base)] {
			name = "_" + name
		}
	}
	return name
}
