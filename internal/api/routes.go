package api

func (s *Server) setupRoutes() {
	s.router.GET("/", s.healthHandler.WorkerInfo)
	s.router.GET("/health", s.healthHandler.HealthCheck)

	s.router.GET("/video_feed", s.detectorHandler.VideoFeed)
	s.router.GET("/status", s.detectorHandler.Status)
	s.router.GET("/recordings", s.detectorHandler.Recordings)

	s.router.POST("/start", s.detectorHandler.Start)
	s.router.POST("/stop", s.detectorHandler.Stop)

	s.router.GET("/config", s.detectorHandler.GetConfig)
	s.router.POST("/config", s.detectorHandler.UpdateConfig)
}
