package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	pb "storewatch-worker-go/proto"
)

// DetectionChecker reports the health of the detection model server.
type DetectionChecker interface {
	HealthCheck(ctx context.Context) (*pb.HealthResponse, error)
	IsHealthy() bool
}

type HealthHandler struct {
	WorkerID string
	Version  string
	detector DetectionChecker
}

func NewHealthHandler(workerID, version string, detector DetectionChecker) *HealthHandler {
	return &HealthHandler{
		WorkerID: workerID,
		Version:  version,
		detector: detector,
	}
}

type DetectionHealth struct {
	Connected   bool   `json:"connected" example:"true"`
	ModelLoaded bool   `json:"model_loaded" example:"true"`
	InputWidth  int32  `json:"input_width,omitempty" example:"640"`
	InputHeight int32  `json:"input_height,omitempty" example:"640"`
	Error       string `json:"error,omitempty"`
}

type HealthResponse struct {
	Status    string          `json:"status" example:"healthy"`
	WorkerID  string          `json:"worker_id" example:"worker-1"`
	Version   string          `json:"version" example:"1.0.0"`
	Detection DetectionHealth `json:"detection"`
}

type WorkerInfoResponse struct {
	WorkerID     string   `json:"worker_id" example:"worker-1"`
	Status       string   `json:"status" example:"running"`
	Version      string   `json:"version" example:"1.0.0"`
	Capabilities []string `json:"capabilities"`
}

// @Summary Health check
// @Description Worker health including the state of the detection model server
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /api/health [get]
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	resp := HealthResponse{
		Status:   "healthy",
		WorkerID: h.WorkerID,
		Version:  h.Version,
	}

	if h.detector != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		model, err := h.detector.HealthCheck(ctx)
		if err != nil {
			resp.Status = "degraded"
			resp.Detection = DetectionHealth{Connected: false, Error: err.Error()}
		} else {
			resp.Detection = DetectionHealth{
				Connected:   true,
				ModelLoaded: model.ModelLoaded,
				InputWidth:  model.InputWidth,
				InputHeight: model.InputHeight,
			}
		}
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Worker information
// @Description Basic worker information and capabilities
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} WorkerInfoResponse
// @Router / [get]
func (h *HealthHandler) WorkerInfo(c *gin.Context) {
	c.JSON(http.StatusOK, WorkerInfoResponse{
		WorkerID: h.WorkerID,
		Status:   "running",
		Version:  h.Version,
		Capabilities: []string{
			"rtsp_processing",
			"person_detection",
			"mjpeg_streaming",
		},
	})
}
