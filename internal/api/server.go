package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"sentrycam-go/internal/api/handlers"
	"sentrycam-go/internal/api/middleware"
	"sentrycam-go/internal/config"
	"sentrycam-go/internal/detector"
	"sentrycam-go/internal/services/publisher/mjpeg"
)

type Server struct {
	cfg    *config.Config
	router *gin.Engine
	server *http.Server
	det    *detector.Detector

	healthHandler   *handlers.HealthHandler
	detectorHandler *handlers.DetectorHandler
}

func NewServer(cfg *config.Config, det *detector.Detector) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())

	s := &Server{
		cfg:             cfg,
		router:          router,
		det:             det,
		healthHandler:   handlers.NewHealthHandler(cfg),
		detectorHandler: handlers.NewDetectorHandler(det, mjpeg.NewPublisher(cfg, det)),
	}

	s.setupRoutes()
	s.setupSwagger()

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	return s
}

func (s *Server) Start() error {
	log.Info().Int("port", s.cfg.Port).Msg("Starting API server")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the HTTP server, then the detector, so no handler can
// reach a half-torn-down detector.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("Shutting down API server")

	if err := s.server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	return s.det.Stop()
}
