// Package payload turns tab-scoped form input into the single canonical
// string that gets encoded into the QR code.
package payload

import "strings"

// Mode selects which input tab feeds the payload.
type Mode int

const (
	ModeURL Mode = iota
	ModeText
	ModeContact
)

// ParseMode maps the wire name of a mode to its value. Unknown names fall
// back to ModeURL.
func ParseMode(s string) Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text":
		return ModeText
	case "contact":
		return ModeContact
	default:
		return ModeURL
	}
}

func (m Mode) String() string {
	switch m {
	case ModeText:
		return "text"
	case ModeContact:
		return "contact"
	default:
		return "url"
	}
}

// Contact holds the contact-tab fields. No individual field is required.
type Contact struct {
	FirstName    string
	LastName     string
	Phone        string
	Email        string
	Organization string
	Website      string
}

// Empty reports whether the record counts as empty: first name, last name,
// phone and email all blank. Organization and website do not gate emptiness.
func (c Contact) Empty() bool {
	return strings.TrimSpace(c.FirstName) == "" &&
		strings.TrimSpace(c.LastName) == "" &&
		strings.TrimSpace(c.Phone) == "" &&
		strings.TrimSpace(c.Email) == ""
}

// Encode produces the canonical payload for the active mode. The payload is
// empty exactly when the active mode's input is blank (for contact mode, when
// the record is empty per Contact.Empty).
func Encode(mode Mode, urlInput, textInput string, contact Contact) string {
	switch mode {
	case ModeText:
		return textInput
	case ModeContact:
		if contact.Empty() {
			return ""
		}
		return encodeVCard(contact)
	default:
		return normalizeURL(urlInput)
	}
}

// normalizeURL prefixes https:// when no http/https scheme is present. No
// other validation happens here; malformed hosts pass through.
func normalizeURL(s string) string {
	v := strings.TrimSpace(s)
	if v == "" {
		return ""
	}
	if !strings.HasPrefix(v, "http://") && !strings.HasPrefix(v, "https://") {
		return "https://" + v
	}
	return v
}

// encodeVCard serializes the fixed 8-line vCard 3.0 record. Line order and
// structure are fixed; empty fields still emit their line. Reserved
// characters are not escaped.
func encodeVCard(c Contact) string {
	var b strings.Builder
	b.WriteString("BEGIN:VCARD\n")
	b.WriteString("VERSION:3.0\n")
	b.WriteString("FN:" + c.FirstName + " " + c.LastName + "\n")
	b.WriteString("N:" + c.LastName + ";" + c.FirstName + ";;;\n")
	b.WriteString("ORG:" + c.Organization + "\n")
	b.WriteString("TEL:" + c.Phone + "\n")
	b.WriteString("EMAIL:" + c.Email + "\n")
	b.WriteString("URL:" + c.Website + "\n")
	b.WriteString("END:VCARD")
	return b.String()
}
