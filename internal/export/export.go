package export

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"github.com/disintegration/imaging"

	"github.com/cristianadrielbraun/qrstudio/internal/render"
)

// ErrDownloadFailed is returned when the raster could not be encoded even
// after the normalization fallback. Callers show a single terminal message
// and do not retry.
var ErrDownloadFailed = errors.New("export: failed to encode raster")

// EncodePNG returns the raster losslessly encoded as PNG. Rasters from the
// remote fallbacks are first redrawn onto a fresh white canvas of
// sizePixels so transparency is normalized; primary rasters encode directly.
// If the direct encode fails, the redraw path is tried once before giving up.
func EncodePNG(r *render.Raster, sizePixels int) ([]byte, error) {
	if r == nil || r.Image == nil {
		return nil, fmt.Errorf("%w: no raster", ErrDownloadFailed)
	}

	img := r.Image
	if r.Source != render.StatePrimary {
		img = normalize(img, sizePixels)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err == nil {
		return buf.Bytes(), nil
	}

	buf.Reset()
	if err := png.Encode(&buf, normalize(r.Image, sizePixels)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}
	return buf.Bytes(), nil
}

// normalize redraws img centered on an opaque white square of the given
// side, rescaling with nearest neighbor to keep module edges sharp.
func normalize(img image.Image, size int) *image.RGBA {
	if size <= 0 {
		size = img.Bounds().Dx()
	}
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	scaled := img
	if img.Bounds().Dx() != size || img.Bounds().Dy() != size {
		scaled = imaging.Resize(img, size, size, imaging.NearestNeighbor)
	}
	draw.Draw(dst, dst.Bounds(), scaled, scaled.Bounds().Min, draw.Over)
	return dst
}
