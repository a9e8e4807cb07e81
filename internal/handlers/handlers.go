package handlers

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/cristianadrielbraun/qrstudio/internal/config"
	"github.com/cristianadrielbraun/qrstudio/internal/export"
	"github.com/cristianadrielbraun/qrstudio/internal/render"
	"github.com/cristianadrielbraun/qrstudio/internal/session"
)

// Handler carries the dependencies for the HTTP handlers.
type Handler struct {
	cfg      *config.Config
	sessions *session.Manager
	chain    *render.Chain
	clip     export.Clipboard
	log      *slog.Logger
}

// New returns a new Handler instance.
func New(cfg *config.Config, sessions *session.Manager, chain *render.Chain, clip export.Clipboard, log *slog.Logger) *Handler {
	return &Handler{
		cfg:      cfg,
		sessions: sessions,
		chain:    chain,
		clip:     clip,
		log:      log,
	}
}

// session resolves the :token path parameter, writing a 404 when the session
// does not exist.
func (h *Handler) session(c *gin.Context) (*session.Session, bool) {
	s, ok := h.sessions.Get(c.Param("token"))
	if !ok {
		c.JSON(404, gin.H{"error": "unknown session"})
		return nil, false
	}
	return s, true
}
