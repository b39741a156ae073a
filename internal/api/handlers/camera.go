package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"storewatch-worker-go/internal/logging"
	"storewatch-worker-go/internal/models"
	"storewatch-worker-go/internal/services/camera"
	"storewatch-worker-go/internal/services/publisher/mjpeg"
)

// CameraService is the camera orchestration surface used by the HTTP layer.
type CameraService interface {
	StartCamera(channel int, uri string) (string, error)
	StopCamera(channel int) error
	Snapshot(channel int) ([]byte, error)
	Stats(channel int) (models.CameraStats, error)
	AllStats() []models.CameraStats
}

type CameraHandler struct {
	cameras CameraService
	streams *mjpeg.Publisher
}

func NewCameraHandler(cameras CameraService, streams *mjpeg.Publisher) *CameraHandler {
	return &CameraHandler{
		cameras: cameras,
		streams: streams,
	}
}

// statusForError maps camera errors onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, camera.ErrInvalidChannel):
		return http.StatusBadRequest
	case errors.Is(err, camera.ErrAlreadyRunning):
		return http.StatusConflict
	case errors.Is(err, camera.ErrNotFound), errors.Is(err, camera.ErrNoSnapshot):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func parseChannel(c *gin.Context) (int, bool) {
	channel, err := strconv.Atoi(c.Param("channel"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("invalid channel %q", c.Param("channel"))})
		return 0, false
	}
	return channel, true
}

// StartCamera starts streaming and detection for a channel
// @Summary Start a camera stream
// @Description Register a camera channel and start decoding and person detection
// @Tags cameras
// @Accept json
// @Produce json
// @Param request body models.StartCameraRequest true "Camera channel and optional source URI"
// @Success 200 {object} models.StartCameraResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/camera/start [post]
func (h *CameraHandler) StartCamera(c *gin.Context) {
	var req models.StartCameraRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logging.Warn(c).Err(err).Msg("Invalid start camera request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	uri, err := h.cameras.StartCamera(req.Channel, req.URI)
	if err != nil {
		logging.Error(c).Err(err).Int("channel", req.Channel).Msg("Failed to start camera")
		c.JSON(statusForError(err), ErrorResponse{Error: err.Error()})
		return
	}

	logging.Info(c).Int("channel", req.Channel).Str("uri", uri).Msg("Camera started")

	c.JSON(http.StatusOK, models.StartCameraResponse{
		Success:   true,
		Channel:   req.Channel,
		URI:       uri,
		StreamURL: fmt.Sprintf("/stream/mjpeg/%d", req.Channel),
	})
}

// StopCamera stops streaming for a channel
// @Summary Stop a camera stream
// @Description Stop the camera on the given channel and remove it from the registry
// @Tags cameras
// @Accept json
// @Produce json
// @Param request body models.StopCameraRequest true "Camera channel"
// @Success 200 {object} models.StopCameraResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/camera/stop [post]
func (h *CameraHandler) StopCamera(c *gin.Context) {
	var req models.StopCameraRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logging.Warn(c).Err(err).Msg("Invalid stop camera request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.cameras.StopCamera(req.Channel); err != nil {
		logging.Error(c).Err(err).Int("channel", req.Channel).Msg("Failed to stop camera")
		c.JSON(statusForError(err), ErrorResponse{Error: err.Error()})
		return
	}

	logging.Info(c).Int("channel", req.Channel).Msg("Camera stopped")

	c.JSON(http.StatusOK, models.StopCameraResponse{
		Success: true,
		Channel: req.Channel,
	})
}

// Snapshot returns the latest annotated frame
// @Summary Get camera snapshot
// @Description Latest annotated JPEG snapshot for the channel
// @Tags cameras
// @Produce jpeg
// @Param channel path int true "Camera channel"
// @Success 200 {file} file "JPEG image"
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/camera/{channel}/snapshot [get]
func (h *CameraHandler) Snapshot(c *gin.Context) {
	channel, ok := parseChannel(c)
	if !ok {
		return
	}

	data, err := h.cameras.Snapshot(channel)
	if err != nil {
		c.JSON(statusForError(err), ErrorResponse{Error: err.Error()})
		return
	}

	c.Data(http.StatusOK, "image/jpeg", data)
}

// StreamMJPEG serves the live annotated stream
// @Summary Live MJPEG stream
// @Description Multipart MJPEG stream of annotated frames for the channel
// @Tags cameras
// @Produce octet-stream
// @Param channel path int true "Camera channel"
// @Success 200 {file} file "multipart/x-mixed-replace stream"
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /stream/mjpeg/{channel} [get]
func (h *CameraHandler) StreamMJPEG(c *gin.Context) {
	channel, ok := parseChannel(c)
	if !ok {
		return
	}

	if _, err := h.cameras.Stats(channel); err != nil {
		c.JSON(statusForError(err), ErrorResponse{Error: err.Error()})
		return
	}

	logging.Debug(c).Int("channel", channel).Msg("MJPEG viewer connected")
	h.streams.StreamMJPEGHTTP(c.Writer, c.Request, channel)
}
