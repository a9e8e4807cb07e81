// Package session holds the per-client mutable form state: active input
// mode, field values for every mode, render styling, export naming, the
// center logo asset and the last rendered raster. Field values of inactive
// modes persist across mode switches.
package session

import (
	"image"
	"sync"
	"time"

	"github.com/cristianadrielbraun/qrstudio/internal/payload"
	"github.com/cristianadrielbraun/qrstudio/internal/render"
)

// CopiedFlagDuration is how long the transient "copied" indicators stay set
// after a successful clipboard write.
const CopiedFlagDuration = 2000 * time.Millisecond

const (
	defaultForeground = "#000000"
	defaultBackground = "#ffffff"
)

// Session owns one client's state. All access goes through the mutex; the
// raster and payload are recomputed on every relevant change and never
// persisted.
type Session struct {
	Token string

	mu          sync.Mutex
	mode        payload.Mode
	urlInput    string
	textInput   string
	contact     payload.Contact
	foreground  string
	background  string
	sizePixels  int
	centerImage image.Image
	baseName    string
	timestamped bool
	raster      *render.Raster

	copiedText  TransientFlag
	copiedImage TransientFlag
}

func newSession(token string, sizePixels int) *Session {
	return &Session{
		Token:      token,
		foreground: defaultForeground,
		background: defaultBackground,
		sizePixels: sizePixels,
	}
}

// Update carries the value writes the view layer may apply. Nil fields are
// left untouched.
type Update struct {
	Mode         *string
	URL          *string
	Text         *string
	FirstName    *string
	LastName     *string
	Phone        *string
	Email        *string
	Organization *string
	Website      *string
	Foreground   *string
	Background   *string
	BaseName     *string
	Timestamped  *bool
}

// Apply writes the non-nil fields of u into the session.
func (s *Session) Apply(u Update) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.Mode != nil {
		s.mode = payload.ParseMode(*u.Mode)
	}
	if u.URL != nil {
		s.urlInput = *u.URL
	}
	if u.Text != nil {
		s.textInput = *u.Text
	}
	if u.FirstName != nil {
		s.contact.FirstName = *u.FirstName
	}
	if u.LastName != nil {
		s.contact.LastName = *u.LastName
	}
	if u.Phone != nil {
		s.contact.Phone = *u.Phone
	}
	if u.Email != nil {
		s.contact.Email = *u.Email
	}
	if u.Organization != nil {
		s.contact.Organization = *u.Organization
	}
	if u.Website != nil {
		s.contact.Website = *u.Website
	}
	if u.Foreground != nil {
		s.foreground = *u.Foreground
	}
	if u.Background != nil {
		s.background = *u.Background
	}
	if u.BaseName != nil {
		s.baseName = *u.BaseName
	}
	if u.Timestamped != nil {
		s.timestamped = *u.Timestamped
	}
}

// Payload derives the canonical payload string from the active mode's input.
func (s *Session) Payload() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return payload.Encode(s.mode, s.urlInput, s.textInput, s.contact)
}

// RenderConfig derives the render parameters. The error-correction level is
// H exactly when a center image is set, else M.
func (s *Session) RenderConfig() render.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	lvl := render.LevelM
	if s.centerImage != nil {
		lvl = render.LevelH
	}
	return render.Config{
		Foreground:  s.foreground,
		Background:  s.background,
		Level:       lvl,
		SizePixels:  s.sizePixels,
		CenterImage: s.centerImage,
	}
}

// SetCenterImage installs the decoded logo asset.
func (s *Session) SetCenterImage(img image.Image) {
	s.mu.Lock()
	s.centerImage = img
	s.mu.Unlock()
}

// ClearCenterImage drops the logo asset reference.
func (s *Session) ClearCenterImage() {
	s.mu.Lock()
	s.centerImage = nil
	s.mu.Unlock()
}

// Naming returns the export base name and timestamp toggle.
func (s *Session) Naming() (baseName string, timestamped bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.baseName, s.timestamped
}

// SetRaster replaces the current raster; nil clears it.
func (s *Session) SetRaster(r *render.Raster) {
	s.mu.Lock()
	s.raster = r
	s.mu.Unlock()
}

// Raster returns the currently displayed raster, or nil.
func (s *Session) Raster() *render.Raster {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.raster
}

// SizePixels returns the configured raster side length.
func (s *Session) SizePixels() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sizePixels
}

// Mode returns the active input mode.
func (s *Session) Mode() payload.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Reset returns every field to its initial value, clears the logo asset and
// the raster, and cancels the copied indicators.
func (s *Session) Reset() {
	s.mu.Lock()
	s.mode = payload.ModeURL
	s.urlInput = ""
	s.textInput = ""
	s.contact = payload.Contact{}
	s.foreground = defaultForeground
	s.background = defaultBackground
	s.centerImage = nil
	s.baseName = ""
	s.timestamped = false
	s.raster = nil
	s.mu.Unlock()
	s.copiedText.Stop()
	s.copiedImage.Stop()
}

// TripCopiedText flips the text "copied" indicator for CopiedFlagDuration.
func (s *Session) TripCopiedText() { s.copiedText.Trip(CopiedFlagDuration) }

// TripCopiedImage flips the image "copied" indicator for CopiedFlagDuration.
func (s *Session) TripCopiedImage() { s.copiedImage.Trip(CopiedFlagDuration) }

// CopiedText reports the text indicator state.
func (s *Session) CopiedText() bool { return s.copiedText.Active() }

// CopiedImage reports the image indicator state.
func (s *Session) CopiedImage() bool { return s.copiedImage.Active() }

// Close cancels pending indicator timers. Called when the session is
// removed.
func (s *Session) Close() {
	s.copiedText.Stop()
	s.copiedImage.Stop()
}
