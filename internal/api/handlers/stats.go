package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"storewatch-worker-go/internal/models"
	"storewatch-worker-go/internal/workerpool"
)

type StatsHandler struct {
	cameras CameraService
	pool    *workerpool.Pool
}

func NewStatsHandler(cameras CameraService, pool *workerpool.Pool) *StatsHandler {
	return &StatsHandler{
		cameras: cameras,
		pool:    pool,
	}
}

// GetStats returns statistics for all cameras
// @Summary Worker statistics
// @Description Point-in-time statistics for every camera plus aggregate counters
// @Tags stats
// @Produce json
// @Success 200 {object} models.StatsResponse
// @Router /api/stats [get]
func (h *StatsHandler) GetStats(c *gin.Context) {
	cameras := h.cameras.AllStats()

	summary := models.StatsSummary{NumCameras: len(cameras)}
	for _, cam := range cameras {
		summary.TotalStaff += cam.StaffCount
		summary.TotalCustomer += cam.CustomerCount
		summary.TotalFrames += cam.TotalFrames
	}

	resp := models.StatsResponse{
		Cameras:   cameras,
		Summary:   summary,
		Timestamp: time.Now().Unix(),
	}
	if h.pool != nil {
		resp.ThreadPool = models.PoolStats{
			NumWorkers:   h.pool.Workers(),
			PendingTasks: h.pool.Pending(),
		}
	}

	c.JSON(http.StatusOK, resp)
}

// GetChannelStats returns statistics for one camera
// @Summary Camera statistics
// @Description Point-in-time statistics for a single channel
// @Tags stats
// @Produce json
// @Param channel path int true "Camera channel"
// @Success 200 {object} models.CameraStats
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/stats/{channel} [get]
func (h *StatsHandler) GetChannelStats(c *gin.Context) {
	channel, ok := parseChannel(c)
	if !ok {
		return
	}

	stats, err := h.cameras.Stats(channel)
	if err != nil {
		c.JSON(statusForError(err), ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}
