package camera

import (
	"sync/atomic"
	"time"

	"storewatch-worker-go/internal/models"
)

// runMonitor periodically checks stream health for every registered camera.
// Cameras are never restarted automatically; a dead stream is reported once
// and stays registered until the client stops it.
func (cm *CameraManager) runMonitor() {
	ticker := time.NewTicker(cm.cfg.HealthCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-cm.stopMonitor:
			return
		case <-ticker.C:
			cm.checkCameraHealth()
		}
	}
}

func (cm *CameraManager) checkCameraHealth() {
	cm.mu.RLock()
	sessions := make([]*session, 0, len(cm.sessions))
	for _, s := range cm.sessions {
		sessions = append(sessions, s)
	}
	cm.mu.RUnlock()

	for _, s := range sessions {
		if atomic.LoadInt32(&s.stopping) == 1 {
			continue
		}

		running := s.worker.IsRunning()

		s.mu.Lock()
		report := !running && !s.downReported
		if report {
			s.downReported = true
		} else if running {
			s.downReported = false
		}
		s.mu.Unlock()

		if !report {
			continue
		}

		cm.logger.Warn().
			Int("channel", s.channel).
			Str("state", s.worker.State().String()).
			Msg("Camera stream is down")

		cm.publishEvent(models.Event{
			Type:      models.EventCameraDown,
			Channel:   s.channel,
			URI:       s.uri,
			Timestamp: time.Now(),
		})
	}
}
