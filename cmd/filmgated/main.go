package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/collapsinghierarchy/filmgate/config"
	"github.com/collapsinghierarchy/filmgate/handler"
	"github.com/collapsinghierarchy/filmgate/ratelimit"
	"github.com/collapsinghierarchy/filmgate/routes"
	"github.com/collapsinghierarchy/filmgate/service"
	"github.com/collapsinghierarchy/filmgate/store/postgres"
	"github.com/collapsinghierarchy/filmgate/token"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(log)

	cfg, err := config.Load()
	if err != nil {
		log.Error("configuration invalid", "err", err)
		os.Exit(1)
	}

	priv, err := token.LoadPrivateKey(cfg.PrivateKey)
	if err != nil {
		log.Error("private key rejected", "err", err)
		os.Exit(1)
	}
	pub, err := token.LoadPublicKey(cfg.PublicKey)
	if err != nil {
		log.Error("public key rejected", "err", err)
		os.Exit(1)
	}
	sessions := token.NewSessionService(priv, pub, log)

	// A missing token file starts the service without submission access;
	// a corrupt one does not start it at all.
	staticTokens, err := token.LoadStaticRegistry(cfg.StaticTokenFile, log)
	if err != nil {
		log.Error("static token file rejected", "err", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	db, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("database connection failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(ctx); err != nil {
		log.Error("database unreachable", "err", err)
		os.Exit(1)
	}

	st := postgres.NewStore(db)
	accounts := service.NewAccount(st, log)
	movies := service.NewMovies(st, log)
	reviews := service.NewReviews(st, movies, log)
	srv := handler.New(accounts, movies, reviews, sessions, log)

	limiter := ratelimit.New(cfg.RequestsPerMin, cfg.BurstCapacity)

	log.Info("filmgate listening", "addr", cfg.Addr, "submission_tokens", staticTokens.Len())
	if err := http.ListenAndServe(cfg.Addr, routes.Setup(srv, limiter, staticTokens, sessions, log)); err != nil {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
