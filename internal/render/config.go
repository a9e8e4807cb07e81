// Package render turns a payload string into a QR raster. It drives a
// primary in-process renderer with two remote image services behind it, in a
// fixed fallback order.
package render

import (
	"image"
	"image/color"
	"strconv"
	"strings"
)

// Level is the QR error-correction level. H tolerates the visual obstruction
// of a center logo; M is the default otherwise.
type Level int

const (
	LevelM Level = iota
	LevelH
)

func (l Level) String() string {
	if l == LevelH {
		return "H"
	}
	return "M"
}

// Config carries the styling and sizing parameters for one render.
// CenterImage, when set, must be paired with LevelH; the session layer
// derives the level so the pairing holds.
type Config struct {
	Foreground  string // "#rrggbb"
	Background  string // "#rrggbb"
	Level       Level
	SizePixels  int
	CenterImage image.Image
}

// ParseHexColor parses a "#rrggbb" string, returning defaultColor on any
// malformed input.
func ParseHexColor(param string, defaultColor color.RGBA) color.RGBA {
	if param == "" {
		return defaultColor
	}

	param = strings.TrimPrefix(param, "#")
	if len(param) != 6 {
		return defaultColor
	}

	r, err1 := strconv.ParseUint(param[0:2], 16, 8)
	g, err2 := strconv.ParseUint(param[2:4], 16, 8)
	b, err3 := strconv.ParseUint(param[4:6], 16, 8)
	if err1 != nil || err2 != nil || err3 != nil {
		return defaultColor
	}

	return color.RGBA{uint8(r), uint8(g), uint8(b), 255}
}
