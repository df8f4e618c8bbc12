package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/solestash/solestash/internal/config"
	"github.com/solestash/solestash/internal/db"
	"github.com/solestash/solestash/internal/repo"
	"github.com/solestash/solestash/internal/scheduler"
)

func main() {
	cfg := config.Load()
	setupLogger(cfg)

	if cfg.Env == "prod" && cfg.JWTSecret == "supersecretkey" {
		slog.Error("JWT_SECRET must be set in prod")
		os.Exit(1)
	}

	// A failed connection at startup is the only fatal error.
	database, err := db.Connect(cfg.DSN(), cfg.DBMaxOpenConns, cfg.DBMaxIdleConns)
	if err != nil {
		slog.Error("failed to connect to database", "err", err)
		os.Exit(1)
	}
	defer database.Close()
	slog.Info("connected to database", "host", cfg.DBHost, "db", cfg.DBName)

	if err := db.Run(cfg.DatabaseURL()); err != nil {
		slog.Error("migrations failed", "err", err)
		os.Exit(1)
	}

	// Keep the collection-size gauges fresh.
	stop, err := scheduler.Run(repo.NewUserRepo(database), repo.NewShoeRepo(database), cfg.StatsCron)
	if err != nil {
		slog.Error("stats scheduler failed to start", "err", err)
		os.Exit(1)
	}
	defer stop()

	r := newRouter(database, cfg)

	addr := ":" + cfg.Port
	if cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
		slog.Info("starting server with TLS", "addr", addr)
		err = http.ListenAndServeTLS(addr, cfg.TLSCertFile, cfg.TLSKeyFile, r)
	} else {
		slog.Info("starting server", "addr", addr)
		err = http.ListenAndServe(addr, r)
	}
	if err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func setupLogger(cfg config.Config) {
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, nil)
	} else {
		handler = slog.NewTextHandler(os.Stdout, nil)
	}
	slog.SetDefault(slog.New(handler))
}
