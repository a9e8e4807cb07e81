package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	_ "image/gif"
	_ "image/jpeg"

	"github.com/cristianadrielbraun/qrstudio/internal/compose"
	"github.com/cristianadrielbraun/qrstudio/internal/config"
)

// State identifies which renderer in the fallback order produced (or failed
// to produce) the raster.
type State int

const (
	StatePrimary State = iota
	StateFallbackA
	StateFallbackB
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePrimary:
		return "primary"
	case StateFallbackA:
		return "fallback-a"
	case StateFallbackB:
		return "fallback-b"
	default:
		return "failed"
	}
}

// ErrRenderFailed is returned when the primary renderer and both remote
// fallbacks all failed to produce a raster.
var ErrRenderFailed = errors.New("render: all renderers failed")

// Raster is a rendered QR image together with its provenance. SourceURL is
// set only for remote (fallback) rasters.
type Raster struct {
	Image     image.Image
	Source    State
	SourceURL string
}

// Chain renders payloads through the primary renderer with two remote image
// services behind it. Selection is re-evaluated on every call; nothing is
// cached across payload or config changes.
type Chain struct {
	client   *http.Client
	chartURL string
	qrURL    string
	primary  primaryRenderer
	log      *slog.Logger
}

func New(cfg *config.Config, log *slog.Logger) *Chain {
	return &Chain{
		client:   &http.Client{Timeout: 10 * time.Second},
		chartURL: cfg.FallbackChartURL,
		qrURL:    cfg.FallbackQRURL,
		primary:  matrixRenderer{},
		log:      log,
	}
}

// Render produces a raster for payload, or (nil, nil) when payload is empty
// so the caller clears its display. The fallback services ignore color and
// error-correction customization; the returned Source tells callers whether
// styling was honored.
func (c *Chain) Render(ctx context.Context, payload string, cfg Config) (*Raster, error) {
	if payload == "" {
		return nil, nil
	}

	state := StatePrimary
	for {
		switch state {
		case StatePrimary:
			img, err := c.primary.Render(payload, cfg)
			if err == nil {
				return &Raster{Image: c.applyOverlay(img, cfg), Source: StatePrimary}, nil
			}
			c.log.Debug("primary renderer failed, trying remote chart service",
				"err", err, "level", cfg.Level.String())
			state = StateFallbackA
		case StateFallbackA:
			u := c.chartRequestURL(payload, cfg.SizePixels)
			img, err := c.fetchRemote(ctx, u)
			if err == nil {
				return &Raster{Image: img, Source: StateFallbackA, SourceURL: u}, nil
			}
			c.log.Debug("chart service failed, trying QR image service", "err", err)
			state = StateFallbackB
		case StateFallbackB:
			u := c.qrRequestURL(payload, cfg.SizePixels)
			img, err := c.fetchRemote(ctx, u)
			if err == nil {
				return &Raster{Image: img, Source: StateFallbackB, SourceURL: u}, nil
			}
			c.log.Warn("QR image service failed", "err", err)
			state = StateFailed
		default:
			return nil, ErrRenderFailed
		}
	}
}

// applyOverlay composites the center logo on primary-path rasters. A failed
// overlay keeps the plain QR; it never drops the code entirely.
func (c *Chain) applyOverlay(img image.Image, cfg Config) image.Image {
	if cfg.CenterImage == nil {
		return img
	}
	bg := ParseHexColor(cfg.Background, color.RGBA{255, 255, 255, 255})
	out, err := compose.Overlay(img, cfg.CenterImage, bg)
	if err != nil {
		c.log.Warn("logo overlay skipped", "err", err)
		return img
	}
	return out
}

func (c *Chain) chartRequestURL(payload string, size int) string {
	return c.chartURL + "?text=" + url.QueryEscape(payload) + "&size=" + strconv.Itoa(size)
}

func (c *Chain) qrRequestURL(payload string, size int) string {
	s := strconv.Itoa(size)
	return c.qrURL + "?data=" + url.QueryEscape(payload) + "&size=" + s + "x" + s
}

func (c *Chain) fetchRemote(ctx context.Context, rawURL string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid fallback URL: %v", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fallback request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fallback service returned %s", resp.Status)
	}
	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode fallback image: %v", err)
	}
	return img, nil
}
