// Package compose overlays a center logo on a finished QR raster using a
// circular clip and a contrast backing plate. It never modifies the input
// raster: the overlay is built on a copy and returned, so a failed overlay
// leaves the caller's QR intact.
package compose

import (
	"errors"
	"image"
	"image/color"

	"github.com/fogleman/gg"
	xdraw "golang.org/x/image/draw"
)

// DiameterRatio is the overlay diameter as a fraction of the raster side.
// 0.20 keeps enough scannable pattern outside the overlay when paired with
// level-H error correction.
const DiameterRatio = 0.20

const (
	platePadding = 8 // backing plate extends this far past the logo circle
	ringPadding  = 6 // separator ring radius offset from the logo circle
	ringWidth    = 2
)

var errNoLogo = errors.New("compose: no logo image")

// Overlay returns a copy of raster with logo composited at the center. The
// backing plate is filled with background so the logo does not merge with
// adjacent modules; a thin separator ring is drawn in light gray on white
// backgrounds, else white.
func Overlay(raster, logo image.Image, background color.RGBA) (image.Image, error) {
	if logo == nil {
		return nil, errNoLogo
	}
	b := raster.Bounds()
	side := b.Dx()
	if b.Dy() < side {
		side = b.Dy()
	}
	if side <= 0 {
		return nil, errors.New("compose: empty raster")
	}

	d := float64(side) * DiameterRatio
	cx := float64(b.Dx()) / 2
	cy := float64(b.Dy()) / 2

	dc := gg.NewContextForImage(raster)

	// Backing plate.
	dc.SetColor(background)
	dc.DrawCircle(cx, cy, d/2+platePadding)
	dc.Fill()

	// Separator ring.
	dc.SetColor(ringColor(background))
	dc.SetLineWidth(ringWidth)
	dc.DrawCircle(cx, cy, d/2+ringPadding)
	dc.Stroke()

	// Clipped logo, stretched to fill the D×D box with high-quality
	// resampling.
	scaled := scaleLogo(logo, int(d))
	dc.DrawCircle(cx, cy, d/2)
	dc.Clip()
	dc.DrawImageAnchored(scaled, int(cx), int(cy), 0.5, 0.5)
	dc.ResetClip()

	return dc.Image(), nil
}

func scaleLogo(logo image.Image, d int) image.Image {
	if d < 1 {
		d = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, d, d))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), logo, logo.Bounds(), xdraw.Over, nil)
	return dst
}

func ringColor(background color.RGBA) color.RGBA {
	if background.R > 0xf0 && background.G > 0xf0 && background.B > 0xf0 {
		return color.RGBA{0xd1, 0xd5, 0xdb, 0xff}
	}
	return color.RGBA{0xff, 0xff, 0xff, 0xff}
}
