package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cristianadrielbraun/qrstudio/internal/export"
	"github.com/cristianadrielbraun/qrstudio/internal/labels"
	"github.com/cristianadrielbraun/qrstudio/internal/render"
	"github.com/cristianadrielbraun/qrstudio/internal/session"
)

// CreateSession registers a new editing session and returns its token.
func (h *Handler) CreateSession(c *gin.Context) {
	s := h.sessions.Create()
	c.JSON(http.StatusOK, gin.H{"token": s.Token})
}

// UpdateSession applies plain value writes from the view layer and
// immediately re-renders the raster. There is no debouncing: every change
// produces one render attempt.
func (h *Handler) UpdateSession(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var u session.Update
	for key, dst := range map[string]**string{
		"mode":         &u.Mode,
		"url":          &u.URL,
		"text":         &u.Text,
		"firstName":    &u.FirstName,
		"lastName":     &u.LastName,
		"phone":        &u.Phone,
		"email":        &u.Email,
		"organization": &u.Organization,
		"website":      &u.Website,
		"fg":           &u.Foreground,
		"bg":           &u.Background,
		"baseName":     &u.BaseName,
	} {
		if v, present := c.GetPostForm(key); present {
			val := v
			*dst = &val
		}
	}
	if v, present := c.GetPostForm("timestamped"); present {
		b := v == "true" || v == "on"
		u.Timestamped = &b
	}
	s.Apply(u)

	h.respondState(c, s, h.renderSession(c, s))
}

// UploadLogo decodes an uploaded center-logo file into the session. Setting
// a logo elevates error correction to level H and triggers a re-render.
func (h *Handler) UploadLogo(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("logo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "logo file is required"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read logo file"})
		return
	}
	defer f.Close()

	img, err := render.DecodeLogo(f, fh.Filename)
	if err != nil {
		// A logo that fails to decode never replaces the current asset.
		h.log.Warn("logo decode failed", "err", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.SetCenterImage(img)

	h.respondState(c, s, h.renderSession(c, s))
}

// RemoveLogo clears the center-logo asset and drops error correction back to
// level M.
func (h *Handler) RemoveLogo(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	s.ClearCenterImage()
	h.respondState(c, s, h.renderSession(c, s))
}

// ResetSession returns the session to its initial state and clears the
// raster.
func (h *Handler) ResetSession(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	s.Reset()
	c.JSON(http.StatusOK, gin.H{"payload": false, "raster": false})
}

// QRImage streams the current raster as PNG. 204 when the payload is empty,
// 502 with a terminal message when every renderer failed.
func (h *Handler) QRImage(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	if err := h.renderSession(c, s); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": labels.Get("render_failed")})
		return
	}
	r := s.Raster()
	if r == nil {
		c.Status(http.StatusNoContent)
		return
	}

	data, err := export.EncodePNG(r, s.SizePixels())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": labels.Get("download_failed")})
		return
	}
	c.Header("X-QR-Alt", labels.Get("qr_alt"))
	c.Header("X-QR-Source", r.Source.String())
	c.Data(http.StatusOK, "image/png", data)
}

// Export streams the raster as an attachment under the built filename. When
// encoding fails for a remote raster, it degrades to redirecting to the
// original image URL, which cannot honor the filename.
func (h *Handler) Export(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	if err := h.renderSession(c, s); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": labels.Get("render_failed")})
		return
	}
	r := s.Raster()
	if r == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to export"})
		return
	}

	base, timestamped := s.Naming()
	if v, present := c.GetQuery("name"); present {
		base = v
	}
	if v, present := c.GetQuery("timestamp"); present {
		timestamped = v == "true"
	}
	filename := export.BuildFilename(base, timestamped)

	data, err := export.EncodePNG(r, s.SizePixels())
	if err != nil {
		if r.SourceURL != "" {
			c.Redirect(http.StatusFound, r.SourceURL)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": labels.Get("download_failed")})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "image/png", data)
}

// CopyText writes the raw payload to the system clipboard and flips the
// transient "copied" indicator.
func (h *Handler) CopyText(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	p := s.Payload()
	if p == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to copy"})
		return
	}
	if err := h.clip.WriteText(p); err != nil {
		h.log.Warn("clipboard text write failed", "err", err)
		c.JSON(http.StatusOK, gin.H{"copied": false, "message": labels.Get("clipboard_denied")})
		return
	}
	s.TripCopiedText()
	c.JSON(http.StatusOK, gin.H{"copied": true, "message": labels.Get("copied")})
}

// CopyImage writes the raster as a PNG clipboard entry and flips the
// transient "copied image" indicator.
func (h *Handler) CopyImage(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	if err := h.renderSession(c, s); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": labels.Get("render_failed")})
		return
	}
	r := s.Raster()
	if r == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to copy"})
		return
	}

	data, err := export.EncodePNG(r, s.SizePixels())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": labels.Get("download_failed")})
		return
	}
	if err := h.clip.WriteImage(data); err != nil {
		h.log.Warn("clipboard image write failed", "err", err)
		c.JSON(http.StatusOK, gin.H{"copied": false, "message": labels.Get("clipboard_denied")})
		return
	}
	s.TripCopiedImage()
	c.JSON(http.StatusOK, gin.H{"copied": true, "message": labels.Get("copied_image")})
}

// CopyState reports the transient indicator states so the view can render
// the buttons.
func (h *Handler) CopyState(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"copiedText":  s.CopiedText(),
		"copiedImage": s.CopiedImage(),
	})
}

// renderSession recomputes the payload and raster. An empty payload clears
// the raster. Only a full-chain failure is returned; it leaves the raster
// cleared rather than pointing at a broken source.
func (h *Handler) renderSession(c *gin.Context, s *session.Session) error {
	p := s.Payload()
	r, err := h.chain.Render(c.Request.Context(), p, s.RenderConfig())
	if err != nil {
		if errors.Is(err, render.ErrRenderFailed) {
			s.SetRaster(nil)
		}
		return err
	}
	s.SetRaster(r)
	return nil
}

func (h *Handler) respondState(c *gin.Context, s *session.Session, renderErr error) {
	if renderErr != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": labels.Get("render_failed")})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"payload": s.Payload() != "",
		"raster":  s.Raster() != nil,
	})
}
