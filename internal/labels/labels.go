// Package labels provides the static key to string lookup used for
// user-facing messages. The core never branches on these values.
package labels

var table = map[string]string{
	"qr_alt":           "QR code for the entered content",
	"render_failed":    "No QR code could be rendered for this content",
	"download_failed":  "Download failed. Right-click the QR code and choose \"Save image as\" instead.",
	"clipboard_denied": "Copy is not available in this environment",
	"copied":           "Copied",
	"copied_image":     "Image copied",
}

// Get returns the label for key, or the key itself when no label exists so a
// missing entry stays visible instead of rendering as an empty string.
func Get(key string) string {
	if s, ok := table[key]; ok {
		return s
	}
	return key
}
