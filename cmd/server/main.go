package main

import (
	"log/slog"
	"net/http"
	"os"

	"friendbook/internal/config"
	"friendbook/internal/db"
	"friendbook/internal/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	cfg := config.Load()
	if cfg.SessionSecret == config.DefaultSessionSecret {
		logger.Warn("SESSION_SECRET is not set, using the insecure development default; set it before exposing this server")
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("open database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer database.Close()

	srv, err := server.New(cfg, logger, database)
	if err != nil {
		logger.Error("build server", "error", err)
		os.Exit(1)
	}

	logger.Info("listening", "port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, srv); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
