package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vaamonde-rodri/uno-game/internal/cache"
	"github.com/vaamonde-rodri/uno-game/internal/config"
	"github.com/vaamonde-rodri/uno-game/internal/database"
	"github.com/vaamonde-rodri/uno-game/internal/game"
	"github.com/vaamonde-rodri/uno-game/internal/httpapi"
	"github.com/vaamonde-rodri/uno-game/internal/ws"
)

func main() {
	cfg := config.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var history game.ActionLogger
	if cfg.RedisAddr != "" {
		rdb, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.WithError(err).Fatal("redis connection failed")
		}
		defer rdb.Close()
		history = cache.NewHistory(rdb)
		log.WithField("addr", cfg.RedisAddr).Info("action history enabled")
	} else {
		log.Info("action history disabled")
	}

	var results game.ResultSaver
	if cfg.DatabaseURL != "" {
		store, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.WithError(err).Fatal("postgres connection failed")
		}
		defer store.Close()
		results = store
		log.Info("result persistence enabled")
	} else {
		log.Info("result persistence disabled")
	}

	games := game.NewStore(log, history, results)
	api := httpapi.NewServer(games, log)
	sock := ws.NewHandler(games, log)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Router(sock),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.Addr).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("shutdown failed")
	}
}
