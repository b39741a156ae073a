package api

func (s *Server) setupRoutes() {
	s.router.GET("/", s.healthHandler.WorkerInfo)

	api := s.router.Group("/api")
	{
		api.GET("/health", s.healthHandler.HealthCheck)
		api.GET("/stats", s.statsHandler.GetStats)
		api.GET("/stats/:channel", s.statsHandler.GetChannelStats)

		cameras := api.Group("/camera")
		{
			cameras.POST("/start", s.cameraHandler.StartCamera)
			cameras.POST("/stop", s.cameraHandler.StopCamera)
			cameras.GET("/:channel/snapshot", s.cameraHandler.Snapshot)
		}
	}

	s.router.GET("/stream/mjpeg/:channel", s.cameraHandler.StreamMJPEG)

	system := s.router.Group("/system")
	{
		system.GET("/stats", s.systemHandler.GetStats)
	}
}
