package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"shipment-tracker/internal/core/cache"
	"shipment-tracker/internal/core/config"
	"shipment-tracker/internal/core/httpclient"
	"shipment-tracker/internal/core/logger"
	"shipment-tracker/internal/core/server"
	"shipment-tracker/internal/features/tracking/adapters"
	"shipment-tracker/internal/features/tracking/handler"
	"shipment-tracker/internal/features/tracking/ports"
	"shipment-tracker/internal/features/tracking/service"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
	)

	var transport ports.TransportClient
	if cfg.Backend.Configured() {
		client := httpclient.NewClient(cfg.Backend.HTTPTimeout())
		transport = adapters.NewHTTPTransport(cfg.Backend.APIBaseURL, cfg.Backend.WSURL, client)
		l.Info("Backend configured",
			zap.String("api_base", cfg.Backend.APIBaseURL),
			zap.Bool("live_updates", cfg.Backend.WSURL != ""),
		)
	} else {
		l.Warn("No API base URL configured, serving mock shipment data")
		transport = adapters.NewMockTransport()
	}

	if cfg.Cache.RedisURL != "" {
		redisCache, err := cache.NewRedisAdapter(cfg.Cache.RedisURL)
		if err != nil {
			l.Fatal("Failed to initialize response cache", zap.Error(err))
		}
		if err := redisCache.Ping(context.Background()); err != nil {
			l.Fatal("Response cache unreachable", zap.Error(err))
		}
		defer redisCache.Close()

		transport = adapters.NewCachedTransport(transport, redisCache, cfg.Cache.TTL())
		l.Info("Response cache enabled")
	}

	session := service.NewSession(transport, cfg.Updates.PollInterval(), cfg.Backend.Configured())
	defer session.Close()

	sessionHandler := handler.NewSessionHandler(session)

	srv := server.New(cfg)

	// Register Routes
	srv.App.Get("/healthz", sessionHandler.Health)
	srv.App.Get("/session", sessionHandler.GetSession)
	srv.App.Post("/search", sessionHandler.Search)
	srv.App.Post("/select", sessionHandler.Select)

	// Tear down the live-update channel before the listener stops.
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		l.Info("Shutting down")
		session.Close()
		if err := srv.Shutdown(); err != nil {
			l.Error("Server shutdown failed", zap.Error(err))
		}
	}()

	if err := srv.Run(); err != nil {
		l.Fatal("Server failed to start", zap.Error(err))
	}
}
