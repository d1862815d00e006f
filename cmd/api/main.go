package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/daylansit/social-blog/internal/config"
	"github.com/daylansit/social-blog/internal/db"
	"github.com/daylansit/social-blog/internal/repo"
	"github.com/daylansit/social-blog/internal/scheduler"
	"github.com/daylansit/social-blog/internal/storage"
)

func main() {
	cfg := config.Load()

	setupLogger(cfg.LogFormat)

	database, err := db.Connect(
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBName,
		cfg.DBUser,
		cfg.DBPass,
	)
	if err != nil {
		slog.Error("connect to database", "error", err)
		os.Exit(1)
	}
	database.SetMaxOpenConns(cfg.DBMaxOpenConns)
	database.SetMaxIdleConns(cfg.DBMaxIdleConns)

	if err := db.Run(db.URL(cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBUser, cfg.DBPass)); err != nil {
		slog.Error("run migrations", "error", err)
		os.Exit(1)
	}

	if cfg.Env == "prod" && cfg.JWTSecret == "supersecretkey" {
		slog.Error("JWT_SECRET must be set in prod")
		os.Exit(1)
	}

	if cfg.SweepCron != "" {
		images := &storage.Images{Dir: cfg.ImageDir}
		if _, err := scheduler.Run(repo.NewPostRepo(database), images, cfg.SweepCron); err != nil {
			slog.Error("start image sweep", "error", err)
			os.Exit(1)
		}
	}

	r := newRouter(database, cfg)

	slog.Info("starting server", "port", cfg.Port, "env", cfg.Env)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func setupLogger(format string) {
	if format == "json" {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
		return
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))
}
