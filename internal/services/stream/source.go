package stream

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"storewatch-worker-go/internal/models"
)

var (
	// ErrSourceOpen marks a failure to connect to or open a stream.
	ErrSourceOpen = errors.New("failed to open stream source")
	// ErrDecode marks a persistent read or decode failure on an open stream.
	ErrDecode = errors.New("stream decode error")
)

// Source supplies decoded frames for a single camera stream. Read returns
// io.EOF on a clean end of stream and an ErrDecode-wrapped error on
// persistent failure. Implementations are used by exactly one decode
// goroutine and need not be safe for concurrent use.
type Source interface {
	Open(uri string) error
	Read() (*models.RawFrame, error)
	Close() error
	Width() int
	Height() int
	FPS() float64
}

// SourceFactory builds the Source for a channel. Injected so tests can
// substitute synthetic streams.
type SourceFactory func(channel int) Source

const maxConsecutiveReadErrors = 10

var ffmpegOptionsOnce sync.Once

// configureFFmpegOptions sets OpenCV's FFmpeg capture options for low
// latency RTSP. Applied process-wide before the first capture is opened.
func configureFFmpegOptions() {
	options := []string{
		"rtsp_transport;tcp",
		"max_delay;500000",
		"stimeout;5000000",
		"reorder_queue_size;0",
		"buffer_size;1024000",
	}
	os.Setenv("OPENCV_FFMPEG_CAPTURE_OPTIONS", strings.Join(options, "|"))
}

// videoSource decodes frames from an RTSP or file source through gocv's
// FFmpeg backend.
type videoSource struct {
	channel int
	capture *gocv.VideoCapture
	mat     gocv.Mat
	width   int
	height  int
	fps     float64
	frameID int64
}

// NewVideoSource returns a gocv-backed Source for the given channel.
func NewVideoSource(channel int) Source {
	return &videoSource{channel: channel}
}

func (s *videoSource) Open(uri string) error {
	ffmpegOptionsOnce.Do(configureFFmpegOptions)

	capture, err := gocv.OpenVideoCaptureWithAPI(uri, gocv.VideoCaptureFFmpeg)
	if err != nil {
		return fmt.Errorf("%w: channel %d: %v", ErrSourceOpen, s.channel, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return fmt.Errorf("%w: channel %d: capture not opened", ErrSourceOpen, s.channel)
	}

	// Keep the driver-side buffer minimal so reads track the live stream.
	capture.Set(gocv.VideoCaptureBufferSize, 1)

	s.capture = capture
	s.mat = gocv.NewMat()
	s.width = int(capture.Get(gocv.VideoCaptureFrameWidth))
	s.height = int(capture.Get(gocv.VideoCaptureFrameHeight))
	s.fps = capture.Get(gocv.VideoCaptureFPS)
	return nil
}

func (s *videoSource) Read() (*models.RawFrame, error) {
	if s.capture == nil {
		return nil, fmt.Errorf("%w: channel %d: source not open", ErrDecode, s.channel)
	}

	for attempt := 0; attempt < maxConsecutiveReadErrors; attempt++ {
		if ok := s.capture.Read(&s.mat); !ok || s.mat.Empty() {
			// Progressive delay between retries, as the stream may just
			// be between keyframes.
			time.Sleep(time.Duration(attempt+1) * 50 * time.Millisecond)
			continue
		}

		data, err := s.mat.ToBytes()
		if err != nil {
			return nil, fmt.Errorf("%w: channel %d: %v", ErrDecode, s.channel, err)
		}

		s.frameID++
		return &models.RawFrame{
			Channel:   s.channel,
			Data:      data,
			Width:     s.mat.Cols(),
			Height:    s.mat.Rows(),
			FrameID:   s.frameID,
			Timestamp: time.Now(),
		}, nil
	}

	return nil, fmt.Errorf("%w: channel %d: %d consecutive read failures", ErrDecode, s.channel, maxConsecutiveReadErrors)
}

func (s *videoSource) Close() error {
	if s.mat.Ptr() != nil {
		s.mat.Close()
	}
	if s.capture != nil {
		err := s.capture.Close()
		s.capture = nil
		return err
	}
	return nil
}

func (s *videoSource) Width() int   { return s.width }
func (s *videoSource) Height() int  { return s.height }
func (s *videoSource) FPS() float64 { return s.fps }
