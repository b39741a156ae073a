package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"storewatch-worker-go/internal/config"
	"storewatch-worker-go/internal/models"
	"storewatch-worker-go/internal/services/camera"
	"storewatch-worker-go/internal/services/publisher/mjpeg"
	"storewatch-worker-go/internal/workerpool"
	pb "storewatch-worker-go/proto"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type fakeCameraService struct {
	stats     map[int]models.CameraStats
	snapshots map[int][]byte
	startErr  error
	stopErr   error
}

func (f *fakeCameraService) StartCamera(channel int, uri string) (string, error) {
	if f.startErr != nil {
		return "", f.startErr
	}
	if uri == "" {
		uri = fmt.Sprintf("rtsp://default/c%d", channel)
	}
	return uri, nil
}

func (f *fakeCameraService) StopCamera(channel int) error {
	return f.stopErr
}

func (f *fakeCameraService) Snapshot(channel int) ([]byte, error) {
	if _, ok := f.stats[channel]; !ok {
		return nil, fmt.Errorf("%w: channel %d", camera.ErrNotFound, channel)
	}
	snap := f.snapshots[channel]
	if len(snap) == 0 {
		return nil, fmt.Errorf("%w: channel %d", camera.ErrNoSnapshot, channel)
	}
	return snap, nil
}

func (f *fakeCameraService) Stats(channel int) (models.CameraStats, error) {
	stats, ok := f.stats[channel]
	if !ok {
		return models.CameraStats{}, fmt.Errorf("%w: channel %d", camera.ErrNotFound, channel)
	}
	return stats, nil
}

func (f *fakeCameraService) AllStats() []models.CameraStats {
	all := make([]models.CameraStats, 0, len(f.stats))
	for _, s := range f.stats {
		all = append(all, s)
	}
	return all
}

type fakeDetectionChecker struct {
	resp *pb.HealthResponse
	err  error
}

func (f *fakeDetectionChecker) HealthCheck(ctx context.Context) (*pb.HealthResponse, error) {
	return f.resp, f.err
}

func (f *fakeDetectionChecker) IsHealthy() bool {
	return f.err == nil
}

func performJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}
}

func TestStartCameraEndpoint(t *testing.T) {
	svc := &fakeCameraService{}
	h := NewCameraHandler(svc, nil)

	router := gin.New()
	router.POST("/api/camera/start", h.StartCamera)

	w := performJSON(t, router, http.MethodPost, "/api/camera/start", models.StartCameraRequest{Channel: 5})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp models.StartCameraResponse
	decodeBody(t, w, &resp)
	if !resp.Success || resp.Channel != 5 {
		t.Errorf("Expected success for channel 5, got %+v", resp)
	}
	if resp.StreamURL != "/stream/mjpeg/5" {
		t.Errorf("Expected stream URL /stream/mjpeg/5, got %s", resp.StreamURL)
	}
	if resp.URI != "rtsp://default/c5" {
		t.Errorf("Expected resolved default URI, got %s", resp.URI)
	}
}

func TestStartCameraValidation(t *testing.T) {
	h := NewCameraHandler(&fakeCameraService{}, nil)

	router := gin.New()
	router.POST("/api/camera/start", h.StartCamera)

	// Missing channel fails binding.
	w := performJSON(t, router, http.MethodPost, "/api/camera/start", map[string]string{"uri": "rtsp://x"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for missing channel, got %d", w.Code)
	}
}

func TestStartCameraErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"conflict", fmt.Errorf("%w: channel 5", camera.ErrAlreadyRunning), http.StatusConflict},
		{"invalid channel", fmt.Errorf("%w: channel 99", camera.ErrInvalidChannel), http.StatusBadRequest},
		{"internal", fmt.Errorf("stream worker exploded"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewCameraHandler(&fakeCameraService{startErr: tc.err}, nil)
			router := gin.New()
			router.POST("/api/camera/start", h.StartCamera)

			w := performJSON(t, router, http.MethodPost, "/api/camera/start", models.StartCameraRequest{Channel: 5})
			if w.Code != tc.want {
				t.Errorf("Expected %d, got %d: %s", tc.want, w.Code, w.Body.String())
			}

			var resp ErrorResponse
			decodeBody(t, w, &resp)
			if resp.Error == "" {
				t.Error("Expected an error message in the body")
			}
		})
	}
}

func TestStopCameraNotFound(t *testing.T) {
	svc := &fakeCameraService{stopErr: fmt.Errorf("%w: channel 9", camera.ErrNotFound)}
	h := NewCameraHandler(svc, nil)

	router := gin.New()
	router.POST("/api/camera/stop", h.StopCamera)

	w := performJSON(t, router, http.MethodPost, "/api/camera/stop", models.StopCameraRequest{Channel: 9})
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
}

func TestSnapshotEndpoint(t *testing.T) {
	svc := &fakeCameraService{
		stats:     map[int]models.CameraStats{3: {Channel: 3}, 4: {Channel: 4}},
		snapshots: map[int][]byte{3: []byte("jpeg-bytes")},
	}
	h := NewCameraHandler(svc, nil)

	router := gin.New()
	router.GET("/api/camera/:channel/snapshot", h.Snapshot)

	w := performJSON(t, router, http.MethodGet, "/api/camera/3/snapshot", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/jpeg" {
		t.Errorf("Expected image/jpeg content type, got %s", ct)
	}
	if w.Body.String() != "jpeg-bytes" {
		t.Errorf("Expected snapshot bytes, got %q", w.Body.String())
	}

	// Registered but no snapshot yet.
	w = performJSON(t, router, http.MethodGet, "/api/camera/4/snapshot", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 before first detection, got %d", w.Code)
	}

	// Unknown channel.
	w = performJSON(t, router, http.MethodGet, "/api/camera/8/snapshot", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown channel, got %d", w.Code)
	}

	// Non-numeric channel.
	w = performJSON(t, router, http.MethodGet, "/api/camera/abc/snapshot", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for non-numeric channel, got %d", w.Code)
	}
}

func TestGetStatsAggregates(t *testing.T) {
	pool := workerpool.New(2)
	t.Cleanup(pool.Shutdown)

	svc := &fakeCameraService{
		stats: map[int]models.CameraStats{
			1: {Channel: 1, StaffCount: 2, CustomerCount: 3, TotalFrames: 100},
			2: {Channel: 2, StaffCount: 1, CustomerCount: 4, TotalFrames: 50},
		},
	}
	h := NewStatsHandler(svc, pool)

	router := gin.New()
	router.GET("/api/stats", h.GetStats)

	w := performJSON(t, router, http.MethodGet, "/api/stats", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var resp models.StatsResponse
	decodeBody(t, w, &resp)

	if len(resp.Cameras) != 2 {
		t.Errorf("Expected 2 cameras, got %d", len(resp.Cameras))
	}
	if resp.Summary.NumCameras != 2 || resp.Summary.TotalStaff != 3 || resp.Summary.TotalCustomer != 7 {
		t.Errorf("Unexpected summary: %+v", resp.Summary)
	}
	if resp.Summary.TotalFrames != 150 {
		t.Errorf("Expected 150 total frames, got %d", resp.Summary.TotalFrames)
	}
	if resp.ThreadPool.NumWorkers != 2 {
		t.Errorf("Expected 2 pool workers, got %d", resp.ThreadPool.NumWorkers)
	}
	if resp.Timestamp == 0 {
		t.Error("Expected a timestamp")
	}
}

func TestGetChannelStats(t *testing.T) {
	svc := &fakeCameraService{
		stats: map[int]models.CameraStats{5: {Channel: 5, URI: "rtsp://x", TotalFrames: 42}},
	}
	h := NewStatsHandler(svc, nil)

	router := gin.New()
	router.GET("/api/stats/:channel", h.GetChannelStats)

	w := performJSON(t, router, http.MethodGet, "/api/stats/5", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var stats models.CameraStats
	decodeBody(t, w, &stats)
	if stats.Channel != 5 || stats.TotalFrames != 42 {
		t.Errorf("Unexpected stats: %+v", stats)
	}

	w = performJSON(t, router, http.MethodGet, "/api/stats/6", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown channel, got %d", w.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		checker := &fakeDetectionChecker{resp: &pb.HealthResponse{Status: "ok", ModelLoaded: true, InputWidth: 640, InputHeight: 640}}
		h := NewHealthHandler("worker-1", "1.0.0", checker)

		router := gin.New()
		router.GET("/api/health", h.HealthCheck)

		w := performJSON(t, router, http.MethodGet, "/api/health", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}

		var resp HealthResponse
		decodeBody(t, w, &resp)
		if resp.Status != "healthy" || !resp.Detection.Connected || !resp.Detection.ModelLoaded {
			t.Errorf("Unexpected health response: %+v", resp)
		}
		if resp.Detection.InputWidth != 640 {
			t.Errorf("Expected model input width 640, got %d", resp.Detection.InputWidth)
		}
	})

	t.Run("degraded", func(t *testing.T) {
		checker := &fakeDetectionChecker{err: fmt.Errorf("connection refused")}
		h := NewHealthHandler("worker-1", "1.0.0", checker)

		router := gin.New()
		router.GET("/api/health", h.HealthCheck)

		w := performJSON(t, router, http.MethodGet, "/api/health", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}

		var resp HealthResponse
		decodeBody(t, w, &resp)
		if resp.Status != "degraded" || resp.Detection.Connected {
			t.Errorf("Expected degraded health, got %+v", resp)
		}
	})
}

func TestWorkerInfo(t *testing.T) {
	h := NewHealthHandler("worker-1", "1.0.0", nil)

	router := gin.New()
	router.GET("/", h.WorkerInfo)

	w := performJSON(t, router, http.MethodGet, "/", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var resp WorkerInfoResponse
	decodeBody(t, w, &resp)
	if resp.WorkerID != "worker-1" || resp.Status != "running" {
		t.Errorf("Unexpected worker info: %+v", resp)
	}
	if len(resp.Capabilities) == 0 {
		t.Error("Expected capabilities to be listed")
	}
}

func TestStreamMJPEGServesFrames(t *testing.T) {
	pub := mjpeg.NewPublisher(&config.Config{})
	pub.Publish(7, []byte("frame-seven"))

	svc := &fakeCameraService{stats: map[int]models.CameraStats{7: {Channel: 7}}}
	h := NewCameraHandler(svc, pub)

	router := gin.New()
	router.GET("/stream/mjpeg/:channel", h.StreamMJPEG)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/stream/mjpeg/7", nil).WithContext(ctx)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		router.ServeHTTP(w, req)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Stream handler did not return after context cancellation")
	}

	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "multipart/x-mixed-replace") {
		t.Errorf("Expected multipart content type, got %s", ct)
	}
	body := w.Body.String()
	if !strings.Contains(body, "--frame") || !strings.Contains(body, "frame-seven") {
		t.Errorf("Expected multipart body with published frame, got %q", body)
	}
}

func TestStreamMJPEGUnknownChannel(t *testing.T) {
	h := NewCameraHandler(&fakeCameraService{}, mjpeg.NewPublisher(&config.Config{}))

	router := gin.New()
	router.GET("/stream/mjpeg/:channel", h.StreamMJPEG)

	w := performJSON(t, router, http.MethodGet, "/stream/mjpeg/3", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unregistered channel, got %d", w.Code)
	}
}
