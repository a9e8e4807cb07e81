// Package export converts the rendered raster into named PNG artifacts and
// handles the clipboard paths for the payload text and the raster image.
package export

import (
	"regexp"
	"strings"
	"time"
)

// DefaultBaseName is used when sanitizing leaves nothing of the requested
// name.
const DefaultBaseName = "qr-code"

// swapped in tests to pin the timestamp
var now = time.Now

var disallowed = regexp.MustCompile(`[^A-Za-z0-9_\-\s]+`)

// BuildFilename sanitizes base down to letters, digits, underscore, hyphen
// and whitespace, optionally appends a -MMDD-HHMM local timestamp, and adds
// the .png extension.
func BuildFilename(base string, timestamped bool) string {
	name := strings.TrimSpace(disallowed.ReplaceAllString(base, ""))
	if name == "" {
		name = DefaultBaseName
	}
	if timestamped {
		name += now().Format("-0102-1504")
	}
	return name + ".png"
}
