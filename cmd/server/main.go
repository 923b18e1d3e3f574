// Command server runs the Telegram entity lookup API.
//
// main stays minimal: read configuration, build the logger, create the
// server, run it. Everything else lives in internal packages.
package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/nkka404/tginfo/internal/config"
	"github.com/nkka404/tginfo/internal/server"
)

func main() {
	cfg, err := config.Load(os.Getenv("TGINFO_CONFIG"))
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))

	if cfg.BotToken == "" {
		// The session is created lazily, so the server still starts; every
		// lookup will degrade and /health will report unhealthy.
		logger.Warn("TGINFO_BOTTOKEN not set — lookups will fail until configured")
	}

	if dir := filepath.Dir(cfg.CachePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Error("failed to create cache directory",
				slog.String("dir", dir),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func logLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
