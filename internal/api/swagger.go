package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (s *Server) setupSwagger() {
	s.router.GET("/api/info", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"title":       "SentryCam Worker API",
			"version":     s.cfg.Version,
			"description": "Motion detection worker API for camera capture, face counting, MJPEG streaming, and motion-triggered recording",
			"swagger_ui":  "/docs/index.html",
			"endpoints": gin.H{
				"health":      "/health",
				"worker_info": "/",
				"video_feed":  "/video_feed",
				"status":      "/status",
				"recordings":  "/recordings",
				"start":       "/start",
				"stop":        "/stop",
				"config":      "/config",
			},
			"worker_id": s.cfg.WorkerID,
			"port":      s.cfg.Port,
		})
	})

	s.router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	s.router.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/docs/index.html")
	})
}
