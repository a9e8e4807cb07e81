package main

import (
	"github.com/gin-gonic/gin"

	"github.com/cristianadrielbraun/qrstudio/internal/config"
	"github.com/cristianadrielbraun/qrstudio/internal/export"
	"github.com/cristianadrielbraun/qrstudio/internal/handlers"
	"github.com/cristianadrielbraun/qrstudio/internal/logx"
	"github.com/cristianadrielbraun/qrstudio/internal/render"
	"github.com/cristianadrielbraun/qrstudio/internal/session"
)

func main() {
	cfg := config.Load()
	logx.Init(cfg.LogLevel)
	log := logx.L()

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	sessions := session.NewManager(cfg.SizePixels)
	chain := render.New(cfg, log)
	h := handlers.New(cfg, sessions, chain, export.NewSystemClipboard(), log)

	api := r.Group("/api")
	{
		api.POST("/session", h.CreateSession)
		api.PUT("/session/:token", h.UpdateSession)
		api.POST("/session/:token/logo", h.UploadLogo)
		api.DELETE("/session/:token/logo", h.RemoveLogo)
		api.POST("/session/:token/reset", h.ResetSession)
		api.GET("/session/:token/qr", h.QRImage)
		api.GET("/session/:token/export", h.Export)
		api.POST("/session/:token/copy/text", h.CopyText)
		api.POST("/session/:token/copy/image", h.CopyImage)
		api.GET("/session/:token/copy", h.CopyState)
	}

	log.Info("qrstudio listening", "addr", cfg.Addr)
	if err := r.Run(cfg.Addr); err != nil {
		log.Error("server stopped", "err", err)
	}
}
