// Package config loads runtime settings from config.ini with environment
// variable fallbacks, so the service runs with sensible defaults when neither
// is present.
package config

import (
	"log/slog"
	"os"
	"strconv"

	"gopkg.in/ini.v1"
)

// Config holds application configuration.
type Config struct {
	// Server settings
	Addr     string
	LogLevel string

	// Render settings
	SizePixels       int
	FallbackChartURL string
	FallbackQRURL    string
}

const (
	defaultSizePixels       = 400
	defaultFallbackChartURL = "https://quickchart.io/qr"
	defaultFallbackQRURL    = "https://api.qrserver.com/v1/create-qr-code/"
)

// Load builds a Config from defaults, then config.ini if present, then
// environment variables. Later sources take precedence.
func Load() *Config {
	cfg := &Config{
		Addr:             ":8080",
		LogLevel:         "info",
		SizePixels:       defaultSizePixels,
		FallbackChartURL: defaultFallbackChartURL,
		FallbackQRURL:    defaultFallbackQRURL,
	}

	if err := loadFromINI(cfg, "config.ini"); err != nil {
		slog.Warn("config.ini not loaded, using defaults and environment", "err", err)
	}
	loadFromEnv(cfg)
	return cfg
}

func loadFromINI(cfg *Config, path string) error {
	f, err := ini.Load(path)
	if err != nil {
		return err
	}

	if s := f.Section("server"); s != nil {
		if v := s.Key("addr").String(); v != "" {
			cfg.Addr = v
		}
		if v := s.Key("log_level").String(); v != "" {
			cfg.LogLevel = v
		}
	}
	if s := f.Section("render"); s != nil {
		if v, err := s.Key("size_pixels").Int(); err == nil && v > 0 {
			cfg.SizePixels = v
		}
		if v := s.Key("fallback_chart_url").String(); v != "" {
			cfg.FallbackChartURL = v
		}
		if v := s.Key("fallback_qr_url").String(); v != "" {
			cfg.FallbackQRURL = v
		}
	}
	return nil
}

func loadFromEnv(cfg *Config) {
	if port := os.Getenv("PORT"); port != "" {
		cfg.Addr = ":" + port
	}
	if v := os.Getenv("QRSTUDIO_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("QRSTUDIO_SIZE_PIXELS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SizePixels = n
		}
	}
	if v := os.Getenv("QRSTUDIO_FALLBACK_CHART_URL"); v != "" {
		cfg.FallbackChartURL = v
	}
	if v := os.Getenv("QRSTUDIO_FALLBACK_QR_URL"); v != "" {
		cfg.FallbackQRURL = v
	}
}
