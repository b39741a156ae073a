package stream

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"storewatch-worker-go/internal/models"
)

// State is the lifecycle state of a stream worker.
type State int32

const (
	StateIdle State = iota
	StateOpening
	StateStreaming
	StateStopped
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateOpening:
		return "opening"
	case StateStreaming:
		return "streaming"
	case StateStopped:
		return "stopped"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// FrameCallback receives every decoded frame, invoked synchronously on the
// decode goroutine. A slow callback therefore gates decode throughput.
type FrameCallback func(frame *models.RawFrame)

// Worker owns the decode goroutine for one camera. It moves through
// Idle -> Opening -> Streaming and ends in Stopped or Failed; a worker is
// single-use and never restarts itself. Callers detect a dead stream by
// polling IsRunning.
type Worker struct {
	channel int
	uri     string
	source  Source
	logger  zerolog.Logger

	state         int32
	stopRequested int32
	done          chan struct{}

	joinTimeout time.Duration

	frameMu sync.Mutex
	latest  *models.RawFrame
	width   int
	height  int
	fps     float64
}

// NewWorker builds a worker for channel reading from source. joinTimeout
// bounds how long Stop waits for the decode goroutine.
func NewWorker(channel int, uri string, source Source, joinTimeout time.Duration, logger zerolog.Logger) *Worker {
	return &Worker{
		channel:     channel,
		uri:         uri,
		source:      source,
		logger:      logger,
		done:        make(chan struct{}),
		joinTimeout: joinTimeout,
	}
}

// Start spawns the decode goroutine. It fails if the worker has already
// been started or stopped.
func (w *Worker) Start(callback FrameCallback) error {
	if !atomic.CompareAndSwapInt32(&w.state, int32(StateIdle), int32(StateOpening)) {
		return fmt.Errorf("stream worker for channel %d cannot start from state %s", w.channel, w.State())
	}
	go w.run(callback)
	return nil
}

func (w *Worker) run(callback FrameCallback) {
	defer close(w.done)
	defer func() {
		if r := recover(); r != nil {
			w.setState(StateFailed)
			w.logger.Error().Interface("panic", r).Msg("Stream worker panicked")
		}
	}()

	if err := w.source.Open(w.uri); err != nil {
		w.setState(StateFailed)
		w.logger.Error().Err(err).Str("uri", w.uri).Msg("Failed to open stream source")
		return
	}
	defer w.source.Close()

	w.frameMu.Lock()
	w.width = w.source.Width()
	w.height = w.source.Height()
	w.fps = w.source.FPS()
	w.frameMu.Unlock()

	w.setState(StateStreaming)
	w.logger.Info().
		Int("width", w.source.Width()).
		Int("height", w.source.Height()).
		Float64("fps", w.source.FPS()).
		Msg("Stream opened")

	for atomic.LoadInt32(&w.stopRequested) == 0 {
		frame, err := w.source.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				w.setState(StateStopped)
				w.logger.Info().Msg("End of stream")
			} else {
				w.setState(StateFailed)
				w.logger.Error().Err(err).Msg("Stream decode failed")
			}
			return
		}

		w.frameMu.Lock()
		w.latest = frame
		w.frameMu.Unlock()

		callback(frame)
	}

	w.setState(StateStopped)
	w.logger.Debug().Msg("Stream worker stopped")
}

// Stop requests a cooperative exit and waits for the decode goroutine,
// bounded by the join timeout. On timeout it logs and returns; the
// goroutine still exits once its current read completes.
func (w *Worker) Stop() {
	atomic.StoreInt32(&w.stopRequested, 1)

	// A never-started worker has no goroutine to join.
	if atomic.CompareAndSwapInt32(&w.state, int32(StateIdle), int32(StateStopped)) {
		return
	}

	select {
	case <-w.done:
	case <-time.After(w.joinTimeout):
		w.logger.Warn().
			Dur("timeout", w.joinTimeout).
			Msg("Stream worker did not exit within join timeout")
	}
}

// LatestFrame returns the most recently decoded frame, if any.
func (w *Worker) LatestFrame() (*models.RawFrame, bool) {
	w.frameMu.Lock()
	defer w.frameMu.Unlock()
	if w.latest == nil {
		return nil, false
	}
	return w.latest, true
}

// Dimensions reports the source geometry recorded at open time. Zero until
// the worker reaches Streaming.
func (w *Worker) Dimensions() (width, height int, fps float64) {
	w.frameMu.Lock()
	defer w.frameMu.Unlock()
	return w.width, w.height, w.fps
}

func (w *Worker) State() State {
	return State(atomic.LoadInt32(&w.state))
}

func (w *Worker) setState(s State) {
	atomic.StoreInt32(&w.state, int32(s))
}

// IsRunning reports whether the worker is actively streaming.
func (w *Worker) IsRunning() bool {
	return w.State() == StateStreaming
}

// Channel returns the camera channel this worker serves.
func (w *Worker) Channel() int { return w.channel }

// URI returns the stream source location.
func (w *Worker) URI() string { return w.uri }
