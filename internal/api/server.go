package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"storewatch-worker-go/internal/api/handlers"
	"storewatch-worker-go/internal/api/middleware"
	"storewatch-worker-go/internal/config"
	"storewatch-worker-go/internal/services/camera"
	"storewatch-worker-go/internal/services/detection"
	"storewatch-worker-go/internal/services/publisher/mjpeg"
	"storewatch-worker-go/internal/workerpool"
)

// Deps are the services the HTTP layer exposes.
type Deps struct {
	CameraManager *camera.CameraManager
	Detection     *detection.Service
	Pool          *workerpool.Pool
	MJPEG         *mjpeg.Publisher
}

type Server struct {
	cfg    *config.Config
	router *gin.Engine
	server *http.Server

	cameraHandler *handlers.CameraHandler
	statsHandler  *handlers.StatsHandler
	healthHandler *handlers.HealthHandler
	systemHandler *handlers.SystemHandler
}

func NewServer(cfg *config.Config, deps Deps) (*Server, error) {
	if deps.CameraManager == nil {
		return nil, fmt.Errorf("camera manager is required")
	}

	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		cfg:           cfg,
		router:        gin.New(),
		cameraHandler: handlers.NewCameraHandler(deps.CameraManager, deps.MJPEG),
		statsHandler:  handlers.NewStatsHandler(deps.CameraManager, deps.Pool),
		healthHandler: handlers.NewHealthHandler(cfg.WorkerID, cfg.Version, deps.Detection),
		systemHandler: handlers.NewSystemHandler(cfg.WorkerID),
	}

	s.setupMiddleware()
	s.setupRoutes()
	s.setupSwagger()

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: s.router,
	}

	return s, nil
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID())
	s.router.Use(middleware.RequestContext())
	s.router.Use(middleware.Logger())
	s.router.Use(middleware.Recovery())
	s.router.Use(middleware.CORS())
}

func (s *Server) Start() error {
	log.Info().Int("port", s.cfg.Port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("Stopping HTTP server")
	return s.server.Shutdown(ctx)
}

// Router exposes the gin engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
