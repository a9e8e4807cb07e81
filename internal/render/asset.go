package render

import (
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// DecodeLogo decodes an uploaded center-logo file. Raster formats go through
// the image registry; .svg files are rasterized first.
func DecodeLogo(r io.Reader, filename string) (image.Image, error) {
	if strings.EqualFold(filepath.Ext(filename), ".svg") {
		return rasterizeSVG(r)
	}
	img, err := imaging.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode logo image: %v", err)
	}
	return img, nil
}

func rasterizeSVG(r io.Reader) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse SVG logo: %v", err)
	}

	w := int(icon.ViewBox.W)
	h := int(icon.ViewBox.H)
	if w <= 0 || h <= 0 {
		w, h = 256, 256
	}
	icon.SetTarget(0, 0, float64(w), float64(h))

	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, rgba, rgba.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1)
	return rgba, nil
}
