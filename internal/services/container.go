package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"storewatch-worker-go/internal/config"
	"storewatch-worker-go/internal/logging"
	"storewatch-worker-go/internal/services/camera"
	"storewatch-worker-go/internal/services/detection"
	"storewatch-worker-go/internal/services/messaging"
	"storewatch-worker-go/internal/services/publisher/mjpeg"
	"storewatch-worker-go/internal/workerpool"
)

// ServiceContainer holds all services
type ServiceContainer struct {
	Config        *config.Config
	DetectionSvc  *detection.Service
	MessagingSvc  *messaging.Service
	Pool          *workerpool.Pool
	MJPEG         *mjpeg.Publisher
	CameraManager *camera.CameraManager
}

// NewServiceContainer wires all services together. A missing NATS broker
// degrades to a warning; the worker runs without event publishing.
func NewServiceContainer(cfg *config.Config) (*ServiceContainer, error) {
	detectionSvc, err := detection.NewService(cfg.DetectionGRPCURL, cfg.DetectImageQuality)
	if err != nil {
		return nil, err
	}

	var messagingSvc *messaging.Service
	if cfg.MessagingEnabled {
		messagingSvc, err = messaging.NewService(cfg)
		if err != nil {
			log.Warn().Err(err).Msg("NATS unavailable, worker events will not be published")
			messagingSvc = nil
		}
	} else {
		log.Info().Msg("Messaging disabled")
	}

	pool := workerpool.New(cfg.PoolWorkers)
	mjpegPub := mjpeg.NewPublisher(cfg)

	cameraManager := camera.NewCameraManager(cfg, detectionSvc, pool).
		WithLogger(logging.NewServiceLogger(cfg, "camera")).
		WithSnapshotSink(mjpegPub)
	if messagingSvc != nil {
		cameraManager.WithEventPublisher(messagingSvc)
	}

	return &ServiceContainer{
		Config:        cfg,
		DetectionSvc:  detectionSvc,
		MessagingSvc:  messagingSvc,
		Pool:          pool,
		MJPEG:         mjpegPub,
		CameraManager: cameraManager,
	}, nil
}

// Shutdown stops all services. Order matters: cameras stop producing work
// before the pool drains, and transports close last.
func (sc *ServiceContainer) Shutdown(ctx context.Context) error {
	if sc.CameraManager != nil {
		if err := sc.CameraManager.Shutdown(ctx); err != nil {
			log.Warn().Err(err).Msg("Camera manager shutdown incomplete")
		}
	}

	if sc.Pool != nil {
		sc.Pool.Shutdown()
	}

	if sc.MJPEG != nil {
		sc.MJPEG.Shutdown()
	}

	if sc.MessagingSvc != nil {
		sc.MessagingSvc.Shutdown(ctx)
	}

	if sc.DetectionSvc != nil {
		sc.DetectionSvc.Shutdown(ctx)
	}

	return nil
}
