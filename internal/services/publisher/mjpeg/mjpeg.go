package mjpeg

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"gocv.io/x/gocv"

	"storewatch-worker-go/internal/config"
)

// Publisher fans annotated JPEG snapshots out to HTTP viewers as
// multipart/x-mixed-replace streams. Each viewer gets its own notify channel
// so a slow client only drops its own frames.
type Publisher struct {
	cfg *config.Config

	jpegMu     sync.RWMutex
	latestJPEG map[int][]byte

	subMu sync.Mutex
	subs  map[int]map[chan struct{}]struct{}
}

func NewPublisher(cfg *config.Config) *Publisher {
	return &Publisher{
		cfg:        cfg,
		latestJPEG: make(map[int][]byte),
		subs:       make(map[int]map[chan struct{}]struct{}),
	}
}

// Publish stores the latest snapshot for the channel and wakes its viewers.
func (p *Publisher) Publish(channel int, jpeg []byte) {
	if len(jpeg) == 0 {
		return
	}

	p.jpegMu.Lock()
	p.latestJPEG[channel] = jpeg
	p.jpegMu.Unlock()

	p.subMu.Lock()
	for notify := range p.subs[channel] {
		select {
		case notify <- struct{}{}:
		default:
		}
	}
	p.subMu.Unlock()
}

func (p *Publisher) subscribe(channel int) chan struct{} {
	notify := make(chan struct{}, 5)

	p.subMu.Lock()
	if p.subs[channel] == nil {
		p.subs[channel] = make(map[chan struct{}]struct{})
	}
	p.subs[channel][notify] = struct{}{}
	p.subMu.Unlock()

	return notify
}

func (p *Publisher) unsubscribe(channel int, notify chan struct{}) {
	p.subMu.Lock()
	if viewers, ok := p.subs[channel]; ok {
		delete(viewers, notify)
		if len(viewers) == 0 {
			delete(p.subs, channel)
		}
	}
	p.subMu.Unlock()
}

func (p *Publisher) latest(channel int) []byte {
	p.jpegMu.RLock()
	defer p.jpegMu.RUnlock()
	return p.latestJPEG[channel]
}

// StreamMJPEGHTTP serves the live MJPEG stream for one channel until the
// client disconnects. Viewers joining before the first snapshot get a
// placeholder frame.
func (p *Publisher) StreamMJPEGHTTP(w http.ResponseWriter, r *http.Request, channel int) {
	boundary := "frame"
	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary="+boundary)
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	notify := p.subscribe(channel)
	defer p.unsubscribe(channel, notify)

	writePart := func(jpeg []byte) bool {
		if _, err := io.WriteString(w, "--"+boundary+"\r\n"); err != nil {
			return false
		}
		if _, err := io.WriteString(w, "Content-Type: image/jpeg\r\n"); err != nil {
			return false
		}
		if _, err := io.WriteString(w, fmt.Sprintf("Content-Length: %d\r\n\r\n", len(jpeg))); err != nil {
			return false
		}
		if _, err := w.Write(jpeg); err != nil {
			return false
		}
		if _, err := io.WriteString(w, "\r\n"); err != nil {
			return false
		}
		flusher.Flush()
		return true
	}

	first := p.latest(channel)
	if len(first) == 0 {
		first = placeholderJPEG(channel, p.placeholderQuality())
	}
	if len(first) > 0 {
		if !writePart(first) {
			return
		}
	}

	keepaliveTicker := time.NewTicker(2 * time.Second)
	defer keepaliveTicker.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-notify:
			if buf := p.latest(channel); len(buf) > 0 {
				if !writePart(buf) {
					return
				}
			}
		case <-keepaliveTicker.C:
			if buf := p.latest(channel); len(buf) > 0 {
				if !writePart(buf) {
					return
				}
			}
		}
	}
}

func (p *Publisher) placeholderQuality() int {
	if p.cfg != nil && p.cfg.SnapshotQuality > 0 {
		return p.cfg.SnapshotQuality
	}
	return 90
}

// placeholderJPEG renders a gray frame shown until the first snapshot lands.
func placeholderJPEG(channel int, quality int) []byte {
	placeholder := gocv.NewMatWithSize(360, 640, gocv.MatTypeCV8UC3)
	defer placeholder.Close()

	placeholder.SetTo(gocv.Scalar{Val1: 64, Val2: 64, Val3: 64, Val4: 0})

	textColor := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	gocv.PutText(&placeholder, fmt.Sprintf("Channel: %d", channel),
		image.Pt(20, 180), gocv.FontHersheySimplex, 1.0, textColor, 2)
	gocv.PutText(&placeholder, "Initializing...",
		image.Pt(20, 220), gocv.FontHersheySimplex, 0.8, textColor, 2)

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, placeholder, []int{gocv.IMWriteJpegQuality, quality})
	if err != nil {
		return nil
	}
	defer buf.Close()

	jpeg := make([]byte, buf.Len())
	copy(jpeg, buf.GetBytes())
	return jpeg
}

func (p *Publisher) Shutdown() {
	log.Info().Msg("MJPEG publisher shutting down")
}
