package handlers

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/cristianadrielbraun/qrstudio/internal/config"
	"github.com/cristianadrielbraun/qrstudio/internal/render"
	"github.com/cristianadrielbraun/qrstudio/internal/session"
)

type fakeClipboard struct {
	text string
	img  []byte
	err  error
}

func (f *fakeClipboard) WriteText(s string) error {
	if f.err != nil {
		return f.err
	}
	f.text = s
	return nil
}

func (f *fakeClipboard) WriteImage(b []byte) error {
	if f.err != nil {
		return f.err
	}
	f.img = b
	return nil
}

func newTestRouter(t *testing.T, clip *fakeClipboard) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		SizePixels:       400,
		FallbackChartURL: "http://invalid.test/qr",
		FallbackQRURL:    "http://invalid.test/create",
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := New(cfg, session.NewManager(cfg.SizePixels), render.New(cfg, log), clip, log)

	r := gin.New()
	api := r.Group("/api")
	api.POST("/session", h.CreateSession)
	api.PUT("/session/:token", h.UpdateSession)
	api.POST("/session/:token/logo", h.UploadLogo)
	api.DELETE("/session/:token/logo", h.RemoveLogo)
	api.POST("/session/:token/reset", h.ResetSession)
	api.GET("/session/:token/qr", h.QRImage)
	api.GET("/session/:token/export", h.Export)
	api.POST("/session/:token/copy/text", h.CopyText)
	api.GET("/session/:token/copy", h.CopyState)
	return r
}

func doForm(r *gin.Engine, method, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createSession(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w := doForm(r, http.MethodPost, "/api/session", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotEmpty(t, body.Token)
	return body.Token
}

func uploadLogo(t *testing.T, r *gin.Engine, token, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("logo", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/session/"+token+"/logo", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func logoPNG(t *testing.T, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func qrCenterColor(t *testing.T, r *gin.Engine, token string) color.RGBA {
	t.Helper()
	w := doForm(r, http.MethodGet, "/api/session/"+token+"/qr", nil)
	require.Equal(t, http.StatusOK, w.Code)
	img, err := png.Decode(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	b := img.Bounds()
	return color.RGBAModel.Convert(img.At(b.Dx()/2, b.Dy()/2)).(color.RGBA)
}

func TestUploadLogoCompositesOverlay(t *testing.T) {
	r := newTestRouter(t, &fakeClipboard{})
	token := createSession(t, r)
	doForm(r, http.MethodPut, "/api/session/"+token, url.Values{"url": {"example.com"}})

	blue := color.RGBA{0, 0, 220, 255}
	w := uploadLogo(t, r, token, "logo.png", logoPNG(t, blue))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"raster":true`)

	// the overlay fills the raster center with the logo
	require.Equal(t, blue, qrCenterColor(t, r, token))

	// removing the logo re-renders a plain QR
	w = doForm(r, http.MethodDelete, "/api/session/"+token+"/logo", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEqual(t, blue, qrCenterColor(t, r, token))
}

func TestUploadLogoSVG(t *testing.T) {
	r := newTestRouter(t, &fakeClipboard{})
	token := createSession(t, r)
	doForm(r, http.MethodPut, "/api/session/"+token, url.Values{"url": {"example.com"}})

	svg := `<svg xmlns="http://www.w3.org/2000/svg" width="64" height="64" viewBox="0 0 64 64"><rect width="64" height="64" fill="#0000dc"/></svg>`
	w := uploadLogo(t, r, token, "logo.svg", []byte(svg))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"raster":true`)
}

func TestUploadLogoGarbageKeepsCurrentAsset(t *testing.T) {
	r := newTestRouter(t, &fakeClipboard{})
	token := createSession(t, r)
	doForm(r, http.MethodPut, "/api/session/"+token, url.Values{"url": {"example.com"}})

	blue := color.RGBA{0, 0, 220, 255}
	w := uploadLogo(t, r, token, "logo.png", logoPNG(t, blue))
	require.Equal(t, http.StatusOK, w.Code)

	w = uploadLogo(t, r, token, "broken.png", []byte("not an image"))
	require.Equal(t, http.StatusBadRequest, w.Code)

	// the failed upload never replaced the installed logo
	require.Equal(t, blue, qrCenterColor(t, r, token))
}

func TestUploadLogoMissingFile(t *testing.T) {
	r := newTestRouter(t, &fakeClipboard{})
	token := createSession(t, r)

	w := doForm(r, http.MethodPost, "/api/session/"+token+"/logo", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessionLifecycle(t *testing.T) {
	r := newTestRouter(t, &fakeClipboard{})
	token := createSession(t, r)

	// empty payload: no raster yet
	w := doForm(r, http.MethodGet, "/api/session/"+token+"/qr", nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	// entering a URL produces a raster
	w = doForm(r, http.MethodPut, "/api/session/"+token, url.Values{"url": {"example.com"}})
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"payload":true`)
	require.Contains(t, w.Body.String(), `"raster":true`)

	w = doForm(r, http.MethodGet, "/api/session/"+token+"/qr", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "image/png", w.Header().Get("Content-Type"))
	require.Equal(t, "primary", w.Header().Get("X-QR-Source"))

	img, err := png.Decode(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	require.Equal(t, 400, img.Bounds().Dx())

	// reset clears everything
	w = doForm(r, http.MethodPost, "/api/session/"+token+"/reset", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doForm(r, http.MethodGet, "/api/session/"+token+"/qr", nil)
	require.Equal(t, http.StatusNoContent, w.Code)
}

func TestExportFilename(t *testing.T) {
	r := newTestRouter(t, &fakeClipboard{})
	token := createSession(t, r)

	doForm(r, http.MethodPut, "/api/session/"+token, url.Values{"url": {"example.com"}})

	w := doForm(r, http.MethodGet, "/api/session/"+token+"/export?name=My%40Cool%23QR%21", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, `attachment; filename="MyCoolQR.png"`, w.Header().Get("Content-Disposition"))
}

func TestCopyTextFlow(t *testing.T) {
	clip := &fakeClipboard{}
	r := newTestRouter(t, clip)
	token := createSession(t, r)

	// nothing to copy yet
	w := doForm(r, http.MethodPost, "/api/session/"+token+"/copy/text", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	doForm(r, http.MethodPut, "/api/session/"+token, url.Values{"url": {"example.com"}})

	w = doForm(r, http.MethodPost, "/api/session/"+token+"/copy/text", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"copied":true`)
	require.Equal(t, "https://example.com", clip.text)

	// the indicator is visible right after the copy
	w = doForm(r, http.MethodGet, "/api/session/"+token+"/copy", nil)
	require.Contains(t, w.Body.String(), `"copiedText":true`)
	require.Contains(t, w.Body.String(), `"copiedImage":false`)
}

func TestCopyTextDenied(t *testing.T) {
	clip := &fakeClipboard{err: io.ErrClosedPipe}
	r := newTestRouter(t, clip)
	token := createSession(t, r)

	doForm(r, http.MethodPut, "/api/session/"+token, url.Values{"url": {"example.com"}})

	// denial is not an HTTP error; the flag simply never flips
	w := doForm(r, http.MethodPost, "/api/session/"+token+"/copy/text", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"copied":false`)
	require.Contains(t, w.Body.String(), "Copy is not available")

	w = doForm(r, http.MethodGet, "/api/session/"+token+"/copy", nil)
	require.Contains(t, w.Body.String(), `"copiedText":false`)
}

func TestUnknownSession(t *testing.T) {
	r := newTestRouter(t, &fakeClipboard{})
	w := doForm(r, http.MethodGet, "/api/session/nope/qr", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}
