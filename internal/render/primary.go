package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/yeqown/go-qrcode/v2"
	"github.com/yeqown/go-qrcode/writer/standard"
)

// ErrUnavailable marks a primary renderer that failed to initialize or draw.
// It is recovered inside the chain and never reaches callers.
var ErrUnavailable = errors.New("render: primary renderer unavailable")

type primaryRenderer interface {
	Render(payload string, cfg Config) (image.Image, error)
}

// primaryLoad holds the process-wide one-shot initialization of the primary
// renderer: initialized once, many awaiters, never torn down.
var primaryLoad struct {
	once sync.Once
	err  error
}

// matrixRenderer is the in-process primary renderer.
type matrixRenderer struct{}

func (matrixRenderer) ensure() error {
	primaryLoad.once.Do(func() {
		// Probe encode so that a broken encoder surfaces here instead of on
		// the first user render.
		_, primaryLoad.err = encodeMatrixPNG("qrstudio", Config{
			Foreground: "#000000",
			Background: "#ffffff",
			Level:      LevelM,
			SizePixels: 64,
		})
	})
	return primaryLoad.err
}

func (r matrixRenderer) Render(payload string, cfg Config) (image.Image, error) {
	if err := r.ensure(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	img, err := encodeMatrixPNG(payload, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return img, nil
}

// encodeMatrixPNG renders the payload with the configured colors and error
// correction, then rescales to exactly SizePixels using nearest neighbor so
// module edges stay sharp.
func encodeMatrixPNG(payload string, cfg Config) (image.Image, error) {
	lvl := qrcode.ErrorCorrectionMedium
	if cfg.Level == LevelH {
		lvl = qrcode.ErrorCorrectionHighest
	}

	qrc, err := qrcode.NewWith(payload, qrcode.WithErrorCorrectionLevel(lvl))
	if err != nil {
		return nil, fmt.Errorf("failed to create QR code: %v", err)
	}

	var buf bytes.Buffer
	w := standard.NewWithWriter(nopWriteCloser{&buf},
		standard.WithQRWidth(16),
		standard.WithBorderWidth(16),
		standard.WithFgColor(ParseHexColor(cfg.Foreground, color.RGBA{0, 0, 0, 255})),
		standard.WithBgColor(ParseHexColor(cfg.Background, color.RGBA{255, 255, 255, 255})),
		standard.WithBuiltinImageEncoder(standard.PNG_FORMAT),
	)
	if err := qrc.Save(w); err != nil {
		return nil, fmt.Errorf("failed to generate QR image: %v", err)
	}
	_ = w.Close()

	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("failed to decode generated QR: %v", err)
	}

	if size := cfg.SizePixels; size > 0 && img.Bounds().Dx() != size {
		img = imaging.Resize(img, size, size, imaging.NearestNeighbor)
	}
	return img, nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
