package models

import (
	"time"
)

// Detection class ids as reported by the detection model
const (
	ClassStaff    = 0
	ClassCustomer = 1
)

// Detection represents one detected person with pixel-space box corners
type Detection struct {
	X1         float32 `json:"x1"`
	Y1         float32 `json:"y1"`
	X2         float32 `json:"x2"`
	Y2         float32 `json:"y2"`
	Confidence float32 `json:"confidence"`
	ClassID    int     `json:"class_id"`
	ClassName  string  `json:"class_name"`
}

// DetectionResult represents the outcome of one detector pass over a frame
type DetectionResult struct {
	Detections    []Detection `json:"detections"`
	StaffCount    int         `json:"staff_count"`
	CustomerCount int         `json:"customer_count"`
	ElapsedMs     float64     `json:"inference_time_ms"`
}

// EventType labels the events published to the messaging bus
type EventType string

const (
	EventDetection     EventType = "detection"
	EventCameraStarted EventType = "camera_started"
	EventCameraStopped EventType = "camera_stopped"
	EventCameraDown    EventType = "camera_down"
)

// Event is the JSON payload published for camera lifecycle and detection
// activity
type Event struct {
	Type          EventType `json:"type"`
	Channel       int       `json:"channel"`
	URI           string    `json:"uri,omitempty"`
	StaffCount    int       `json:"staff_count,omitempty"`
	CustomerCount int       `json:"customer_count,omitempty"`
	InferenceMs   float64   `json:"inference_ms,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// EventPublisher is the narrow publishing contract the camera manager
// depends on; the messaging service implements it.
type EventPublisher interface {
	Publish(subject string, data interface{}) error
}
