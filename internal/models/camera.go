package models

import (
	"time"
)

// RawFrame represents a single decoded video frame in BGR24 layout
type RawFrame struct {
	Channel   int       `json:"channel"`
	Data      []byte    `json:"-"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	FrameID   int64     `json:"frame_id"`
	Timestamp time.Time `json:"timestamp"`
}

// CameraStats is the point-in-time statistics snapshot for one camera
type CameraStats struct {
	Channel        int     `json:"channel" example:"5"`
	URI            string  `json:"uri" example:"rtsp://192.168.1.3:554/unicast/c5/s0/live"`
	IsRunning      bool    `json:"is_running" example:"true"`
	Width          int     `json:"width" example:"1920"`
	Height         int     `json:"height" example:"1080"`
	FPS            float64 `json:"fps" example:"25"`
	TotalFrames    int64   `json:"total_frames" example:"1532"`
	StaffCount     int     `json:"staff_count" example:"2"`
	CustomerCount  int     `json:"customer_count" example:"7"`
	AvgInferenceMs float64 `json:"avg_inference_ms" example:"42.5"`
}

// StatsSummary aggregates the per-camera stats for the stats endpoint
type StatsSummary struct {
	NumCameras    int   `json:"num_cameras"`
	TotalStaff    int   `json:"total_staff"`
	TotalCustomer int   `json:"total_customer"`
	TotalFrames   int64 `json:"total_frames"`
}

// PoolStats reports the worker pool state for the stats endpoint
type PoolStats struct {
	NumWorkers   int `json:"num_workers"`
	PendingTasks int `json:"pending_tasks"`
}

// StatsResponse is the full payload of GET /api/stats
type StatsResponse struct {
	Cameras    []CameraStats `json:"cameras"`
	Summary    StatsSummary  `json:"summary"`
	ThreadPool PoolStats     `json:"thread_pool"`
	Timestamp  int64         `json:"timestamp"`
}

// StartCameraRequest is the body of POST /api/camera/start. An empty URI
// lets the worker build one from the configured RTSP template.
type StartCameraRequest struct {
	Channel int    `json:"channel" binding:"required" example:"5"`
	URI     string `json:"uri,omitempty" example:"rtsp://192.168.1.3:554/unicast/c5/s0/live"`
}

// StopCameraRequest is the body of POST /api/camera/stop
type StopCameraRequest struct {
	Channel int `json:"channel" binding:"required" example:"5"`
}

// StartCameraResponse confirms a started camera
type StartCameraResponse struct {
	Success   bool   `json:"success"`
	Channel   int    `json:"channel"`
	URI       string `json:"uri"`
	StreamURL string `json:"stream_url"`
}

// StopCameraResponse confirms a stopped camera
type StopCameraResponse struct {
	Success bool `json:"success"`
	Channel int  `json:"channel"`
}
