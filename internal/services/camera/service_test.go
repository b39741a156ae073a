package camera

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"storewatch-worker-go/internal/config"
	"storewatch-worker-go/internal/models"
	"storewatch-worker-go/internal/services/stream"
	"storewatch-worker-go/internal/workerpool"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

// fakeSource serves synthetic frames at a fixed pace. frames < 0 means
// unlimited; otherwise the source reports finalErr (or io.EOF) once all
// frames have been served.
type fakeSource struct {
	channel  int
	frames   int
	interval time.Duration
	openErr  error
	finalErr error
	width    int
	height   int
	fps      float64

	mu      sync.Mutex
	served  int
	closed  bool
	frameID int64
}

func (f *fakeSource) Open(uri string) error {
	return f.openErr
}

func (f *fakeSource) Read() (*models.RawFrame, error) {
	if f.interval > 0 {
		time.Sleep(f.interval)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.frames >= 0 && f.served >= f.frames {
		if f.finalErr != nil {
			return nil, f.finalErr
		}
		return nil, io.EOF
	}
	f.served++
	f.frameID++

	return &models.RawFrame{
		Channel:   f.channel,
		Data:      make([]byte, 16),
		Width:     f.width,
		Height:    f.height,
		FrameID:   f.frameID,
		Timestamp: time.Now(),
	}, nil
}

func (f *fakeSource) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeSource) Width() int   { return f.width }
func (f *fakeSource) Height() int  { return f.height }
func (f *fakeSource) FPS() float64 { return f.fps }

func (f *fakeSource) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// scriptedDetector returns a fixed result and pulls the reported latency from
// the latencies script, repeating the last entry once exhausted. When gate is
// set, Detect blocks until the gate closes or the context expires.
type scriptedDetector struct {
	latencies []float64
	result    models.DetectionResult
	gate      chan struct{}
	calls     int32
}

func (d *scriptedDetector) Detect(ctx context.Context, frame *models.RawFrame) (*models.DetectionResult, error) {
	if d.gate != nil {
		select {
		case <-d.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	n := int(atomic.AddInt32(&d.calls, 1))

	res := d.result
	if len(d.latencies) > 0 {
		idx := n - 1
		if idx >= len(d.latencies) {
			idx = len(d.latencies) - 1
		}
		res.ElapsedMs = d.latencies[idx]
	}
	return &res, nil
}

func (d *scriptedDetector) callCount() int {
	return int(atomic.LoadInt32(&d.calls))
}

type stubAnnotator struct {
	data []byte
}

func (a stubAnnotator) Annotate(frame *models.RawFrame, result *models.DetectionResult, avgInferenceMs float64) ([]byte, error) {
	return a.data, nil
}

// recordingPublisher collects published events for assertions.
type recordingPublisher struct {
	mu     sync.Mutex
	events []models.Event
}

func (p *recordingPublisher) Publish(subject string, data interface{}) error {
	if ev, ok := data.(models.Event); ok {
		p.mu.Lock()
		p.events = append(p.events, ev)
		p.mu.Unlock()
	}
	return nil
}

func (p *recordingPublisher) countByType(t models.EventType) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, ev := range p.events {
		if ev.Type == t {
			n++
		}
	}
	return n
}

func testConfig() *config.Config {
	return &config.Config{
		MaxChannels:         30,
		RTSPURLTemplate:     "fake://camera-%d",
		DetectionInterval:   200 * time.Millisecond,
		FirstFrameWait:      500 * time.Millisecond,
		StopJoinTimeout:     2 * time.Second,
		HealthCheckInterval: time.Hour,
		SnapshotQuality:     85,
		DetectTimeout:       time.Second,
		EventsSubject:       "storewatch.events.test",
	}
}

func defaultDetector() *scriptedDetector {
	return &scriptedDetector{
		latencies: []float64{12.5},
		result: models.DetectionResult{
			Detections: []models.Detection{
				{X1: 10, Y1: 10, X2: 60, Y2: 120, Confidence: 0.91, ClassID: models.ClassStaff, ClassName: "staff"},
				{X1: 80, Y1: 20, X2: 140, Y2: 130, Confidence: 0.84, ClassID: models.ClassCustomer, ClassName: "customer"},
			},
			StaffCount:    1,
			CustomerCount: 1,
		},
	}
}

// newTestManager builds a manager with fake sources. Channels present in the
// sources map use the given fake; any other channel gets an unlimited source.
func newTestManager(t *testing.T, cfg *config.Config, det Detector, pool *workerpool.Pool, sources map[int]*fakeSource) *CameraManager {
	t.Helper()

	mgr := NewCameraManager(cfg, det, pool).
		WithLogger(zerolog.Nop()).
		WithAnnotator(stubAnnotator{data: []byte("annotated-jpeg")}).
		WithSourceFactory(func(channel int) stream.Source {
			if src, ok := sources[channel]; ok {
				return src
			}
			return &fakeSource{channel: channel, frames: -1, interval: 10 * time.Millisecond, width: 640, height: 360, fps: 25}
		})

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mgr.Shutdown(ctx)
	})
	return mgr
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("condition not met within %v: %s", timeout, msg)
}

func TestStartRejectsInvalidChannel(t *testing.T) {
	mgr := newTestManager(t, testConfig(), defaultDetector(), nil, nil)

	for _, channel := range []int{0, -1, 31} {
		if _, err := mgr.StartCamera(channel, ""); !errors.Is(err, ErrInvalidChannel) {
			t.Errorf("Expected ErrInvalidChannel for channel %d, got %v", channel, err)
		}
	}
	if mgr.CameraCount() != 0 {
		t.Errorf("Expected no registered cameras, got %d", mgr.CameraCount())
	}
}

func TestStartDuplicateChannel(t *testing.T) {
	mgr := newTestManager(t, testConfig(), defaultDetector(), nil, nil)

	uri, err := mgr.StartCamera(5, "fake://first")
	if err != nil {
		t.Fatalf("Expected first start to succeed, got %v", err)
	}
	if uri != "fake://first" {
		t.Fatalf("Expected resolved URI fake://first, got %s", uri)
	}

	if _, err := mgr.StartCamera(5, "fake://second"); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("Expected ErrAlreadyRunning, got %v", err)
	}

	stats, err := mgr.Stats(5)
	if err != nil {
		t.Fatalf("Expected stats for channel 5, got %v", err)
	}
	if stats.URI != "fake://first" {
		t.Errorf("Expected original URI to be retained, got %s", stats.URI)
	}
}

func TestStartAppliesURITemplate(t *testing.T) {
	mgr := newTestManager(t, testConfig(), defaultDetector(), nil, nil)

	uri, err := mgr.StartCamera(3, "")
	if err != nil {
		t.Fatalf("Expected start to succeed, got %v", err)
	}
	if uri != "fake://camera-3" {
		t.Errorf("Expected templated URI fake://camera-3, got %s", uri)
	}
}

func TestStopUnknownChannel(t *testing.T) {
	mgr := newTestManager(t, testConfig(), defaultDetector(), nil, nil)

	if err := mgr.StopCamera(7); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestStartStopLifecycle(t *testing.T) {
	src := &fakeSource{channel: 5, frames: -1, interval: 10 * time.Millisecond, width: 640, height: 360, fps: 25}
	mgr := newTestManager(t, testConfig(), defaultDetector(), nil, map[int]*fakeSource{5: src})

	if _, err := mgr.StartCamera(5, ""); err != nil {
		t.Fatalf("Expected start to succeed, got %v", err)
	}

	waitFor(t, 2*time.Second, func() bool { return mgr.IsRunning(5) }, "camera 5 streaming")

	stats, err := mgr.Stats(5)
	if err != nil {
		t.Fatalf("Expected stats, got %v", err)
	}
	if stats.Width != 640 || stats.Height != 360 {
		t.Errorf("Expected dimensions 640x360, got %dx%d", stats.Width, stats.Height)
	}
	if stats.FPS != 25 {
		t.Errorf("Expected 25 fps, got %v", stats.FPS)
	}

	if err := mgr.StopCamera(5); err != nil {
		t.Fatalf("Expected stop to succeed, got %v", err)
	}
	if !src.isClosed() {
		t.Error("Expected source to be closed after stop")
	}
	if mgr.IsRunning(5) {
		t.Error("Expected camera to stop running")
	}
	if _, err := mgr.Stats(5); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after stop, got %v", err)
	}
	if mgr.CameraCount() != 0 {
		t.Errorf("Expected empty registry, got %d cameras", mgr.CameraCount())
	}
}

func TestStatsSingleEntryWithMonotonicFrames(t *testing.T) {
	mgr := newTestManager(t, testConfig(), defaultDetector(), nil, nil)

	if _, err := mgr.StartCamera(9, ""); err != nil {
		t.Fatalf("Expected start to succeed, got %v", err)
	}

	waitFor(t, 2*time.Second, func() bool {
		all := mgr.AllStats()
		return len(all) == 1 && all[0].TotalFrames > 0
	}, "first frames counted")

	first := mgr.AllStats()
	if len(first) != 1 {
		t.Fatalf("Expected exactly one stats entry, got %d", len(first))
	}
	if first[0].Channel != 9 {
		t.Errorf("Expected channel 9, got %d", first[0].Channel)
	}

	waitFor(t, 2*time.Second, func() bool {
		second := mgr.AllStats()
		return len(second) == 1 && second[0].TotalFrames > first[0].TotalFrames
	}, "frame counter advancing")

	second := mgr.AllStats()
	if second[0].TotalFrames < first[0].TotalFrames {
		t.Errorf("Expected total_frames to be non-decreasing, got %d then %d",
			first[0].TotalFrames, second[0].TotalFrames)
	}
}

func TestDetectionThrottle(t *testing.T) {
	src := &fakeSource{channel: 2, frames: 20, interval: 25 * time.Millisecond, width: 320, height: 240, fps: 40}
	det := defaultDetector()
	mgr := newTestManager(t, testConfig(), det, nil, map[int]*fakeSource{2: src})

	if _, err := mgr.StartCamera(2, ""); err != nil {
		t.Fatalf("Expected start to succeed, got %v", err)
	}

	waitFor(t, 5*time.Second, func() bool {
		stats, err := mgr.Stats(2)
		return err == nil && stats.TotalFrames == 20 && !stats.IsRunning
	}, "all 20 frames decoded")

	stats, err := mgr.Stats(2)
	if err != nil {
		t.Fatalf("Expected stats, got %v", err)
	}
	if stats.TotalFrames != 20 {
		t.Errorf("Expected every frame counted, got %d", stats.TotalFrames)
	}

	calls := det.callCount()
	if calls < 1 {
		t.Error("Expected at least one detection pass")
	}
	if calls > 5 {
		t.Errorf("Expected at most 5 detection passes for a 500ms burst with a 200ms window, got %d", calls)
	}
}

func TestInferenceAverage(t *testing.T) {
	run := func(t *testing.T, frames int, latencies []float64, want float64) {
		t.Helper()

		cfg := testConfig()
		cfg.DetectionInterval = 100 * time.Millisecond

		src := &fakeSource{channel: 4, frames: frames, interval: 150 * time.Millisecond, width: 320, height: 240, fps: 7}
		det := &scriptedDetector{latencies: latencies, result: models.DetectionResult{StaffCount: 1}}
		mgr := newTestManager(t, cfg, det, nil, map[int]*fakeSource{4: src})

		if _, err := mgr.StartCamera(4, ""); err != nil {
			t.Fatalf("Expected start to succeed, got %v", err)
		}

		waitFor(t, 5*time.Second, func() bool {
			stats, err := mgr.Stats(4)
			return err == nil && !stats.IsRunning
		}, "stream drained")

		if calls := det.callCount(); calls != frames {
			t.Fatalf("Expected %d detection passes, got %d", frames, calls)
		}

		stats, err := mgr.Stats(4)
		if err != nil {
			t.Fatalf("Expected stats, got %v", err)
		}
		if stats.AvgInferenceMs != want {
			t.Errorf("Expected average inference %v ms, got %v ms", want, stats.AvgInferenceMs)
		}
	}

	t.Run("first sample is taken as-is", func(t *testing.T) {
		run(t, 1, []float64{100}, 100)
	})

	t.Run("second sample is blended at one tenth", func(t *testing.T) {
		run(t, 2, []float64{100, 50}, 0.9*100+0.1*50)
	})
}

func TestSnapshotLifecycle(t *testing.T) {
	if _, err := newTestManager(t, testConfig(), defaultDetector(), nil, nil).Snapshot(12); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for unknown channel, got %v", err)
	}

	gate := make(chan struct{})
	det := defaultDetector()
	det.gate = gate
	mgr := newTestManager(t, testConfig(), det, nil, nil)

	if _, err := mgr.StartCamera(6, ""); err != nil {
		t.Fatalf("Expected start to succeed, got %v", err)
	}

	if _, err := mgr.Snapshot(6); !errors.Is(err, ErrNoSnapshot) {
		t.Fatalf("Expected ErrNoSnapshot before first detection, got %v", err)
	}

	close(gate)

	waitFor(t, 5*time.Second, func() bool {
		snap, err := mgr.Snapshot(6)
		return err == nil && len(snap) > 0
	}, "snapshot produced")

	snap, err := mgr.Snapshot(6)
	if err != nil {
		t.Fatalf("Expected snapshot, got %v", err)
	}
	if string(snap) != "annotated-jpeg" {
		t.Errorf("Expected annotated snapshot bytes, got %q", snap)
	}
}

func TestStopDoesNotBlockStatsReads(t *testing.T) {
	slow := &fakeSource{channel: 1, frames: -1, interval: 300 * time.Millisecond, width: 640, height: 360, fps: 3}
	mgr := newTestManager(t, testConfig(), defaultDetector(), nil, map[int]*fakeSource{1: slow})

	if _, err := mgr.StartCamera(1, ""); err != nil {
		t.Fatalf("Expected start of slow camera to succeed, got %v", err)
	}
	if _, err := mgr.StartCamera(2, ""); err != nil {
		t.Fatalf("Expected start of second camera to succeed, got %v", err)
	}

	stopDone := make(chan error, 1)
	go func() { stopDone <- mgr.StopCamera(1) }()

	// Stats must stay serviceable while the slow decode goroutine is joined.
	start := time.Now()
	if _, err := mgr.Stats(2); err != nil {
		t.Fatalf("Expected stats for channel 2, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 150*time.Millisecond {
		t.Errorf("Expected stats read to finish quickly during stop, took %v", elapsed)
	}

	select {
	case err := <-stopDone:
		if err != nil {
			t.Fatalf("Expected stop to succeed, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not complete")
	}
}

func TestConcurrentStopSingleWinner(t *testing.T) {
	mgr := newTestManager(t, testConfig(), defaultDetector(), nil, nil)

	if _, err := mgr.StartCamera(8, ""); err != nil {
		t.Fatalf("Expected start to succeed, got %v", err)
	}

	errs := make(chan error, 2)
	go func() { errs <- mgr.StopCamera(8) }()
	go func() { errs <- mgr.StopCamera(8) }()

	var okCount, notFoundCount int
	for i := 0; i < 2; i++ {
		switch err := <-errs; {
		case err == nil:
			okCount++
		case errors.Is(err, ErrNotFound):
			notFoundCount++
		default:
			t.Fatalf("Unexpected stop error: %v", err)
		}
	}
	if okCount != 1 || notFoundCount != 1 {
		t.Errorf("Expected exactly one stop to win, got %d ok and %d not found", okCount, notFoundCount)
	}
}

func TestDetectionViaPool(t *testing.T) {
	pool := workerpool.New(2)
	t.Cleanup(pool.Shutdown)

	cfg := testConfig()
	cfg.DetectViaPool = true

	src := &fakeSource{channel: 3, frames: 5, interval: 20 * time.Millisecond, width: 320, height: 240, fps: 50}
	det := defaultDetector()
	mgr := newTestManager(t, cfg, det, pool, map[int]*fakeSource{3: src})

	if _, err := mgr.StartCamera(3, ""); err != nil {
		t.Fatalf("Expected start to succeed, got %v", err)
	}

	waitFor(t, 5*time.Second, func() bool {
		stats, err := mgr.Stats(3)
		return err == nil && stats.TotalFrames == 5 && det.callCount() >= 1 && stats.StaffCount == 1
	}, "pooled detection folded into stats")

	stats, err := mgr.Stats(3)
	if err != nil {
		t.Fatalf("Expected stats, got %v", err)
	}
	if stats.StaffCount != 1 || stats.CustomerCount != 1 {
		t.Errorf("Expected counts 1/1, got %d/%d", stats.StaffCount, stats.CustomerCount)
	}
}

func TestMonitorReportsDownOnce(t *testing.T) {
	cfg := testConfig()
	cfg.HealthCheckInterval = 20 * time.Millisecond

	src := &fakeSource{
		channel:  11,
		frames:   2,
		interval: 10 * time.Millisecond,
		finalErr: fmt.Errorf("%w: synthetic failure", stream.ErrDecode),
		width:    320,
		height:   240,
	}
	pub := &recordingPublisher{}
	mgr := newTestManager(t, cfg, defaultDetector(), nil, map[int]*fakeSource{11: src}).
		WithEventPublisher(pub)

	if _, err := mgr.StartCamera(11, ""); err != nil {
		t.Fatalf("Expected start to succeed, got %v", err)
	}

	if pub.countByType(models.EventCameraStarted) != 1 {
		t.Error("Expected a camera_started event")
	}

	waitFor(t, 3*time.Second, func() bool {
		return pub.countByType(models.EventCameraDown) >= 1
	}, "camera_down reported")

	// The stream stays down; further monitor ticks must not repeat the report.
	time.Sleep(150 * time.Millisecond)
	if n := pub.countByType(models.EventCameraDown); n != 1 {
		t.Errorf("Expected exactly one camera_down event, got %d", n)
	}

	stats, err := mgr.Stats(11)
	if err != nil {
		t.Fatalf("Expected the failed camera to stay registered, got %v", err)
	}
	if stats.IsRunning {
		t.Error("Expected is_running to be false for a failed stream")
	}
}

func TestShutdownStopsEverything(t *testing.T) {
	srcA := &fakeSource{channel: 1, frames: -1, interval: 10 * time.Millisecond, width: 640, height: 360}
	srcB := &fakeSource{channel: 2, frames: -1, interval: 10 * time.Millisecond, width: 640, height: 360}
	mgr := newTestManager(t, testConfig(), defaultDetector(), nil, map[int]*fakeSource{1: srcA, 2: srcB})

	if _, err := mgr.StartCamera(1, ""); err != nil {
		t.Fatalf("Expected start to succeed, got %v", err)
	}
	if _, err := mgr.StartCamera(2, ""); err != nil {
		t.Fatalf("Expected start to succeed, got %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := mgr.Shutdown(ctx); err != nil {
		t.Fatalf("Expected shutdown to succeed, got %v", err)
	}

	if mgr.CameraCount() != 0 {
		t.Errorf("Expected empty registry after shutdown, got %d", mgr.CameraCount())
	}
	if !srcA.isClosed() || !srcB.isClosed() {
		t.Error("Expected all sources to be closed after shutdown")
	}
}
