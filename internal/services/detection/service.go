package detection

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"storewatch-worker-go/internal/helpers"
	"storewatch-worker-go/internal/models"
	pb "storewatch-worker-go/proto"
)

// Service is the gRPC client for the person detection model. Frames are
// JPEG-encoded before transport; results come back with per-class counts and
// the model-side inference time.
type Service struct {
	grpcURL      string
	imageQuality int

	mu      sync.Mutex
	client  pb.DetectionServiceClient
	conn    *grpc.ClientConn
	healthy int32
}

// NewService connects to the detection model server. An unreachable server is
// not fatal; the connection is retried on the next detection call.
func NewService(grpcURL string, imageQuality int) (*Service, error) {
	log.Info().Str("url", grpcURL).Msg("Initializing detection service")

	service := &Service{
		grpcURL:      grpcURL,
		imageQuality: imageQuality,
	}

	if err := service.connect(); err != nil {
		log.Warn().Err(err).Msg("Detection service not available, will retry later")
	}

	return service, nil
}

func (s *Service) connect() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if atomic.LoadInt32(&s.healthy) == 1 && s.conn != nil {
		return nil
	}
	if s.conn != nil {
		s.conn.Close()
	}

	conn, err := grpc.NewClient(s.grpcURL, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("failed to connect to detection service: %w", err)
	}

	client := pb.NewDetectionServiceClient(conn)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if _, err := client.HealthCheck(ctx, &pb.Empty{}); err != nil {
		conn.Close()
		return fmt.Errorf("detection service health check failed: %w", err)
	}

	s.client = client
	s.conn = conn
	atomic.StoreInt32(&s.healthy, 1)

	log.Info().Msg("Connected to detection service")
	return nil
}

func (s *Service) ensureConnection() error {
	if atomic.LoadInt32(&s.healthy) == 1 {
		return nil
	}
	return s.connect()
}

// Detect runs one frame through the model and maps the response into the
// domain result shape.
func (s *Service) Detect(ctx context.Context, frame *models.RawFrame) (*models.DetectionResult, error) {
	if err := s.ensureConnection(); err != nil {
		return nil, fmt.Errorf("detection service unavailable: %w", err)
	}

	jpeg, err := helpers.ConvertBGRToJPEG(frame.Data, frame.Width, frame.Height, s.imageQuality)
	if err != nil {
		return nil, fmt.Errorf("failed to encode frame for detection: %w", err)
	}

	resp, err := s.client.InferDetection(ctx, &pb.FrameRequest{
		Image:   jpeg,
		Channel: int32(frame.Channel),
		Width:   int32(frame.Width),
		Height:  int32(frame.Height),
	})
	if err != nil {
		atomic.StoreInt32(&s.healthy, 0)
		return nil, err
	}

	result := &models.DetectionResult{
		Detections:    make([]models.Detection, 0, len(resp.Detections)),
		StaffCount:    int(resp.StaffCount),
		CustomerCount: int(resp.CustomerCount),
		ElapsedMs:     float64(resp.InferenceTimeMs),
	}
	for _, det := range resp.Detections {
		result.Detections = append(result.Detections, models.Detection{
			X1:         det.X1,
			Y1:         det.Y1,
			X2:         det.X2,
			Y2:         det.Y2,
			Confidence: det.Confidence,
			ClassID:    int(det.ClassId),
			ClassName:  det.ClassName,
		})
	}

	return result, nil
}

// HealthCheck probes the model server and returns its status, including
// whether the model is loaded and its input resolution.
func (s *Service) HealthCheck(ctx context.Context) (*pb.HealthResponse, error) {
	if err := s.ensureConnection(); err != nil {
		return nil, err
	}

	resp, err := s.client.HealthCheck(ctx, &pb.Empty{})
	if err != nil {
		atomic.StoreInt32(&s.healthy, 0)
		return nil, err
	}
	return resp, nil
}

func (s *Service) IsHealthy() bool {
	return atomic.LoadInt32(&s.healthy) == 1
}

func (s *Service) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != nil {
		log.Info().Msg("Shutting down detection service connection")
		return s.conn.Close()
	}
	return nil
}
