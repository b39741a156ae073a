package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "storewatch-worker-go/docs"
)

func (s *Server) setupSwagger() {
	s.router.GET("/api/info", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"title":       "Storewatch Worker API",
			"version":     s.cfg.Version,
			"description": "Camera orchestration worker for RTSP streams with person detection and MJPEG streaming",
			"swagger_ui":  "/docs/index.html",
			"endpoints": gin.H{
				"worker_info": "/",
				"health":      "/api/health",
				"stats":       "/api/stats",
				"camera":      "/api/camera",
				"stream":      "/stream/mjpeg",
				"system":      "/system",
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
