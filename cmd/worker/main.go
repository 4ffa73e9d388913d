package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"sentrycam-go/internal/api"
	"sentrycam-go/internal/config"
	"sentrycam-go/internal/detector"
	"sentrycam-go/internal/logging"
	"sentrycam-go/internal/services/messaging"
)

func main() {
	// Setup structured logging
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load configuration
	cfg := config.Load()

	// Set log level
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("Invalid log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Console output, optionally teed into the logdy web viewer
	logging.Setup(cfg)

	log.Info().
		Str("worker_id", cfg.WorkerID).
		Str("version", cfg.Version).
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Int("camera_device", cfg.CameraDevice).
		Bool("nats_enabled", cfg.NatsEnabled).
		Msg("Starting SentryCam worker")

	// Optional NATS event publishing
	var events detector.EventPublisher
	var msgSvc *messaging.Service
	if cfg.NatsEnabled {
		msgSvc, err = messaging.NewService(cfg)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to connect to NATS, events will not be published")
		} else {
			events = messaging.NewEvents(msgSvc, cfg)
		}
	}

	// Face classifier is optional; detection runs without head counting if
	// the cascade file is missing.
	faces, err := detector.LoadFaceClassifier(cfg.CascadePath)
	if err != nil {
		log.Warn().Err(err).Str("path", cfg.CascadePath).Msg("Face cascade unavailable, head counting disabled")
		faces = nil
	}

	det, err := detector.New(cfg.DetectorConfig(), detector.Options{
		Device:      cfg.CameraDevice,
		StopTimeout: cfg.StopTimeout,
		Faces:       faces,
		Events:      events,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create detector")
	}

	if msgSvc != nil {
		if _, err := messaging.StartControlListener(msgSvc, cfg, det); err != nil {
			log.Warn().Err(err).Msg("Failed to subscribe control listener")
		}
	}

	// Create and start server
	server := api.NewServer(cfg, det)

	// Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutdown signal received")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	} else {
		log.Info().Msg("Server shutdown complete")
	}

	if msgSvc != nil {
		if err := msgSvc.Shutdown(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to shut down NATS connection")
		}
	}

	if faces != nil {
		if err := faces.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close face classifier")
		}
	}
}
