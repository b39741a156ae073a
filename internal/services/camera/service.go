package camera

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"storewatch-worker-go/internal/config"
	"storewatch-worker-go/internal/logging"
	"storewatch-worker-go/internal/models"
	"storewatch-worker-go/internal/services/stream"
	"storewatch-worker-go/internal/workerpool"
)

var (
	// ErrInvalidChannel is returned when a channel number is outside the configured range.
	ErrInvalidChannel = errors.New("invalid channel")
	// ErrAlreadyRunning is returned when starting a channel that is already registered.
	ErrAlreadyRunning = errors.New("camera already running")
	// ErrNotFound is returned when the channel has no registered camera.
	ErrNotFound = errors.New("camera not found")
	// ErrNoSnapshot is returned when no annotated snapshot has been produced yet.
	ErrNoSnapshot = errors.New("no snapshot available")
)

// Detector runs person detection on a raw frame.
type Detector interface {
	Detect(ctx context.Context, frame *models.RawFrame) (*models.DetectionResult, error)
}

// SnapshotSink receives annotated JPEG snapshots for live distribution.
type SnapshotSink interface {
	Publish(channel int, jpeg []byte)
}

// session tracks one registered camera and its statistics. The stopping flag
// is flipped under the manager lock and checked on the decode path, so frames
// arriving during teardown are dropped without touching session state.
type session struct {
	channel int
	uri     string
	worker  *stream.Worker

	stopping int32

	mu             sync.Mutex
	width          int
	height         int
	fps            float64
	totalFrames    int64
	lastInference  time.Time
	staffCount     int
	customerCount  int
	avgInferenceMs float64
	snapshot       []byte
	downReported   bool
}

// statsSnapshot copies the session counters into the wire shape. isRunning is
// re-derived from the worker at read time rather than cached.
func (s *session) statsSnapshot() models.CameraStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	width, height, fps := s.width, s.height, s.fps
	if width == 0 {
		width, height, fps = s.worker.Dimensions()
	}

	return models.CameraStats{
		Channel:        s.channel,
		URI:            s.uri,
		IsRunning:      s.worker.IsRunning(),
		Width:          width,
		Height:         height,
		FPS:            fps,
		TotalFrames:    s.totalFrames,
		StaffCount:     s.staffCount,
		CustomerCount:  s.customerCount,
		AvgInferenceMs: s.avgInferenceMs,
	}
}

// CameraManager owns the registry of active camera sessions. Each camera gets
// its own decode goroutine; the manager lock only guards the registry map, so
// a slow camera never stalls the others.
type CameraManager struct {
	cfg       *config.Config
	detector  Detector
	annotator Annotator
	pool      *workerpool.Pool
	events    models.EventPublisher
	sink      SnapshotSink
	newSource stream.SourceFactory
	logger    zerolog.Logger

	mu       sync.RWMutex
	sessions map[int]*session

	stopMonitor chan struct{}
	monitorOnce sync.Once
	stopOnce    sync.Once
}

// NewCameraManager creates a camera manager. The event publisher and snapshot
// sink are optional and wired with the With* methods.
func NewCameraManager(cfg *config.Config, detector Detector, pool *workerpool.Pool) *CameraManager {
	cm := &CameraManager{
		cfg:         cfg,
		detector:    detector,
		annotator:   NewAnnotator(cfg.SnapshotQuality),
		pool:        pool,
		newSource:   stream.NewVideoSource,
		logger:      log.Logger,
		sessions:    make(map[int]*session),
		stopMonitor: make(chan struct{}),
	}

	log.Info().
		Int("max_channels", cfg.MaxChannels).
		Dur("detection_interval", cfg.DetectionInterval).
		Bool("detect_via_pool", cfg.DetectViaPool).
		Msg("Camera manager initialized")

	return cm
}

// WithEventPublisher wires an event publisher for lifecycle and detection events.
func (cm *CameraManager) WithEventPublisher(p models.EventPublisher) *CameraManager {
	cm.events = p
	return cm
}

// WithSnapshotSink wires a sink that receives every annotated snapshot.
func (cm *CameraManager) WithSnapshotSink(s SnapshotSink) *CameraManager {
	cm.sink = s
	return cm
}

// WithSourceFactory overrides how stream sources are constructed.
func (cm *CameraManager) WithSourceFactory(f stream.SourceFactory) *CameraManager {
	cm.newSource = f
	return cm
}

// WithAnnotator overrides the snapshot annotator.
func (cm *CameraManager) WithAnnotator(a Annotator) *CameraManager {
	cm.annotator = a
	return cm
}

// WithLogger overrides the manager logger.
func (cm *CameraManager) WithLogger(logger zerolog.Logger) *CameraManager {
	cm.logger = logger
	return cm
}

// StartCamera registers a camera on the given channel and starts its decode
// goroutine. An empty uri falls back to the configured RTSP template. The
// returned string is the resolved URI.
//
// Registration succeeds even when the source fails to open: the session stays
// registered in a failed state and callers observe it through is_running.
func (cm *CameraManager) StartCamera(channel int, uri string) (string, error) {
	if channel < 1 || channel > cm.cfg.MaxChannels {
		return "", fmt.Errorf("%w: channel must be between 1 and %d, got %d", ErrInvalidChannel, cm.cfg.MaxChannels, channel)
	}
	if uri == "" {
		uri = cm.cfg.RTSPURL(channel)
	}

	cm.mu.Lock()
	if _, exists := cm.sessions[channel]; exists {
		cm.mu.Unlock()
		return "", fmt.Errorf("%w: channel %d", ErrAlreadyRunning, channel)
	}

	s := &session{
		channel: channel,
		uri:     uri,
		worker: stream.NewWorker(channel, uri, cm.newSource(channel), cm.cfg.StopJoinTimeout,
			logging.WithChannel(cm.logger, channel)),
	}
	cm.sessions[channel] = s
	cm.mu.Unlock()

	if err := s.worker.Start(func(frame *models.RawFrame) {
		cm.onFrame(s, frame)
	}); err != nil {
		cm.mu.Lock()
		delete(cm.sessions, channel)
		cm.mu.Unlock()
		return "", fmt.Errorf("failed to start stream worker for channel %d: %w", channel, err)
	}

	cm.monitorOnce.Do(func() {
		go cm.runMonitor()
	})

	// Best-effort wait so stats reads right after start usually carry frame
	// dimensions. Zero dimensions until the first frame are acceptable.
	cm.waitForFirstFrame(s)

	if s.worker.State() == stream.StateFailed {
		cm.logger.Warn().
			Int("channel", channel).
			Str("uri", uri).
			Msg("Camera registered but stream failed to open")
	} else {
		cm.logger.Info().
			Int("channel", channel).
			Str("uri", uri).
			Msg("Camera started")
	}

	cm.publishEvent(models.Event{
		Type:      models.EventCameraStarted,
		Channel:   channel,
		URI:       uri,
		Timestamp: time.Now(),
	})

	return uri, nil
}

func (cm *CameraManager) waitForFirstFrame(s *session) {
	deadline := time.Now().Add(cm.cfg.FirstFrameWait)
	for time.Now().Before(deadline) {
		switch s.worker.State() {
		case stream.StateStreaming, stream.StateStopped, stream.StateFailed:
			width, height, fps := s.worker.Dimensions()
			s.mu.Lock()
			if s.width == 0 {
				s.width, s.height, s.fps = width, height, fps
			}
			s.mu.Unlock()
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
}

// StopCamera stops the camera on the given channel and removes it from the
// registry. Teardown is two-phase: the session is marked stopping under the
// lock, the decode goroutine is joined outside the lock, then the entry is
// removed under the lock again.
func (cm *CameraManager) StopCamera(channel int) error {
	cm.mu.Lock()
	s, exists := cm.sessions[channel]
	if !exists || atomic.LoadInt32(&s.stopping) == 1 {
		cm.mu.Unlock()
		return fmt.Errorf("%w: channel %d", ErrNotFound, channel)
	}
	atomic.StoreInt32(&s.stopping, 1)
	cm.mu.Unlock()

	s.worker.Stop()

	cm.mu.Lock()
	delete(cm.sessions, channel)
	cm.mu.Unlock()

	cm.logger.Info().Int("channel", channel).Msg("Camera stopped")

	cm.publishEvent(models.Event{
		Type:      models.EventCameraStopped,
		Channel:   channel,
		URI:       s.uri,
		Timestamp: time.Now(),
	})

	return nil
}

// Snapshot returns the latest annotated JPEG for the channel.
func (cm *CameraManager) Snapshot(channel int) ([]byte, error) {
	cm.mu.RLock()
	s, exists := cm.sessions[channel]
	cm.mu.RUnlock()
	if !exists {
		return nil, fmt.Errorf("%w: channel %d", ErrNotFound, channel)
	}

	s.mu.Lock()
	snap := s.snapshot
	s.mu.Unlock()

	if len(snap) == 0 {
		return nil, fmt.Errorf("%w: channel %d", ErrNoSnapshot, channel)
	}
	return snap, nil
}

// Stats returns a point-in-time copy of the statistics for one channel.
func (cm *CameraManager) Stats(channel int) (models.CameraStats, error) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	s, exists := cm.sessions[channel]
	if !exists {
		return models.CameraStats{}, fmt.Errorf("%w: channel %d", ErrNotFound, channel)
	}
	return s.statsSnapshot(), nil
}

// AllStats returns point-in-time copies for every registered camera, ordered
// by channel.
func (cm *CameraManager) AllStats() []models.CameraStats {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	stats := make([]models.CameraStats, 0, len(cm.sessions))
	for _, s := range cm.sessions {
		stats = append(stats, s.statsSnapshot())
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Channel < stats[j].Channel })
	return stats
}

// IsRunning reports whether the channel is registered and actively streaming.
func (cm *CameraManager) IsRunning(channel int) bool {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	s, exists := cm.sessions[channel]
	return exists && s.worker.IsRunning()
}

// CameraCount returns the number of registered cameras.
func (cm *CameraManager) CameraCount() int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.sessions)
}

// onFrame runs on the decode goroutine for every frame. The frame counter is
// unconditional; detection is throttled to at most one pass per detection
// interval.
func (cm *CameraManager) onFrame(s *session, frame *models.RawFrame) {
	if atomic.LoadInt32(&s.stopping) == 1 {
		return
	}

	s.mu.Lock()
	s.totalFrames++
	if s.width == 0 && frame.Width > 0 {
		s.width = frame.Width
		s.height = frame.Height
	}
	if time.Since(s.lastInference) < cm.cfg.DetectionInterval {
		s.mu.Unlock()
		return
	}
	s.lastInference = time.Now()
	s.mu.Unlock()

	if cm.cfg.DetectViaPool && cm.pool != nil {
		if _, err := cm.pool.Submit(func() (any, error) {
			cm.runDetection(s, frame)
			return nil, nil
		}); err != nil {
			cm.logger.Debug().Err(err).Int("channel", s.channel).Msg("Detection task rejected")
		}
		return
	}

	cm.runDetection(s, frame)
}

// runDetection sends one frame through the detector and folds the result into
// the session: class counts, the inference EWMA and the annotated snapshot.
func (cm *CameraManager) runDetection(s *session, frame *models.RawFrame) {
	ctx, cancel := context.WithTimeout(context.Background(), cm.cfg.DetectTimeout)
	defer cancel()

	result, err := cm.detector.Detect(ctx, frame)
	if err != nil {
		cm.logger.Warn().Err(err).Int("channel", s.channel).Msg("Detection failed")
		return
	}

	s.mu.Lock()
	s.staffCount = result.StaffCount
	s.customerCount = result.CustomerCount
	if s.avgInferenceMs == 0 {
		s.avgInferenceMs = result.ElapsedMs
	} else {
		s.avgInferenceMs = 0.9*s.avgInferenceMs + 0.1*result.ElapsedMs
	}
	avg := s.avgInferenceMs
	s.mu.Unlock()

	annotated, err := cm.annotator.Annotate(frame, result, avg)
	if err != nil {
		cm.logger.Warn().Err(err).Int("channel", s.channel).Msg("Snapshot annotation failed")
	} else {
		s.mu.Lock()
		s.snapshot = annotated
		s.mu.Unlock()

		if cm.sink != nil {
			cm.sink.Publish(s.channel, annotated)
		}
	}

	cm.publishEvent(models.Event{
		Type:          models.EventDetection,
		Channel:       s.channel,
		StaffCount:    result.StaffCount,
		CustomerCount: result.CustomerCount,
		InferenceMs:   result.ElapsedMs,
		Timestamp:     time.Now(),
	})
}

// publishEvent hands the event to the worker pool so a slow broker never
// blocks the decode path. Falls back to inline publishing when the pool is
// unavailable.
func (cm *CameraManager) publishEvent(event models.Event) {
	if cm.events == nil {
		return
	}

	publish := func() (any, error) {
		if err := cm.events.Publish(cm.cfg.EventsSubject, event); err != nil {
			return nil, fmt.Errorf("failed to publish %s event: %w", event.Type, err)
		}
		return nil, nil
	}

	if cm.pool != nil {
		if _, err := cm.pool.Submit(publish); err == nil {
			return
		}
	}

	if _, err := publish(); err != nil {
		cm.logger.Debug().Err(err).Str("type", string(event.Type)).Msg("Event publish failed")
	}
}

// Shutdown stops every camera and clears the registry. Stops run off the
// registry lock and the whole teardown is bounded by the context.
func (cm *CameraManager) Shutdown(ctx context.Context) error {
	cm.stopOnce.Do(func() { close(cm.stopMonitor) })

	cm.mu.Lock()
	workers := make([]*stream.Worker, 0, len(cm.sessions))
	for _, s := range cm.sessions {
		atomic.StoreInt32(&s.stopping, 1)
		workers = append(workers, s.worker)
	}
	cm.sessions = make(map[int]*session)
	cm.mu.Unlock()

	done := make(chan struct{})
	go func() {
		for _, w := range workers {
			w.Stop()
		}
		close(done)
	}()

	select {
	case <-done:
		cm.logger.Info().Int("cameras", len(workers)).Msg("All cameras stopped")
		return nil
	case <-ctx.Done():
		cm.logger.Warn().Msg("Camera manager shutdown interrupted")
		return ctx.Err()
	}
}
