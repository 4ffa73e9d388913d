package models

import (
	"fmt"
	"time"
)

// DetectorStatus represents the detector's operational status
type DetectorStatus string

const (
	StatusMonitoring DetectorStatus = "Monitoring"
	StatusRecording  DetectorStatus = "RECORDING"
)

// String returns the string representation of DetectorStatus
func (s DetectorStatus) String() string {
	return string(s)
}

// MotionStatus represents the most recent motion analysis outcome
type MotionStatus string

const (
	MotionNone     MotionStatus = "No Motion"
	MotionDetected MotionStatus = "MOTION DETECTED!"
)

// String returns the string representation of MotionStatus
func (m MotionStatus) String() string {
	return string(m)
}

// DetectorConfig holds the tunable detection parameters. A copy is taken
// once per processing cycle, so updates apply between cycles, never mid-frame.
type DetectorConfig struct {
	MotionThreshold          int           `json:"motion_threshold"`
	MinContourArea           int           `json:"min_contour_area"`
	RecordSecondsAfterMotion time.Duration `json:"-"`
	OutputFolder             string        `json:"output_folder"`
	FPS                      int           `json:"fps"`
	FrameWidth               int           `json:"frame_width"`
	FrameHeight              int           `json:"frame_height"`
}

// DefaultDetectorConfig returns the stock configuration.
func DefaultDetectorConfig() DetectorConfig {
	return DetectorConfig{
		MotionThreshold:          25,
		MinContourArea:           2000,
		RecordSecondsAfterMotion: 2 * time.Second,
		OutputFolder:             "motion_recordings",
		FPS:                      20,
		FrameWidth:               640,
		FrameHeight:              480,
	}
}

// Validate checks the invariants from the data model: positive dimensions
// and frame rate, non-negative thresholds.
func (c DetectorConfig) Validate() error {
	if c.FrameWidth <= 0 || c.FrameHeight <= 0 {
		return fmt.Errorf("frame dimensions must be positive, got %dx%d", c.FrameWidth, c.FrameHeight)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", c.FPS)
	}
	if c.MotionThreshold < 0 {
		return fmt.Errorf("motion_threshold must not be negative, got %d", c.MotionThreshold)
	}
	if c.MinContourArea < 0 {
		return fmt.Errorf("min_contour_area must not be negative, got %d", c.MinContourArea)
	}
	if c.RecordSecondsAfterMotion < 0 {
		return fmt.Errorf("record_seconds_after_motion must not be negative, got %s", c.RecordSecondsAfterMotion)
	}
	if c.OutputFolder == "" {
		return fmt.Errorf("output_folder must not be empty")
	}
	return nil
}

// FrameInterval returns the per-cycle sleep for the target frame rate.
// A non-positive FPS degrades to one frame per second instead of dividing
// by zero; Validate rejects such configs before they ever land here.
func (c DetectorConfig) FrameInterval() time.Duration {
	if c.FPS <= 0 {
		return time.Second
	}
	return time.Second / time.Duration(c.FPS)
}

// ConfigUpdate carries a partial configuration change. Nil fields are left
// untouched (merge-overwrite); unknown JSON keys are silently ignored by
// the typed binding.
type ConfigUpdate struct {
	MotionThreshold          *int    `json:"motion_threshold,omitempty"`
	MinContourArea           *int    `json:"min_contour_area,omitempty"`
	RecordSecondsAfterMotion *int    `json:"record_seconds_after_motion,omitempty"`
	OutputFolder             *string `json:"output_folder,omitempty"`
	FPS                      *int    `json:"fps,omitempty"`
	FrameWidth               *int    `json:"frame_width,omitempty"`
	FrameHeight              *int    `json:"frame_height,omitempty"`
}

// Merge applies the update on top of the receiver and returns the result.
// The receiver is not modified.
func (c DetectorConfig) Merge(u ConfigUpdate) DetectorConfig {
	merged := c
	if u.MotionThreshold != nil {
		merged.MotionThreshold = *u.MotionThreshold
	}
	if u.MinContourArea != nil {
		merged.MinContourArea = *u.MinContourArea
	}
	if u.RecordSecondsAfterMotion != nil {
		merged.RecordSecondsAfterMotion = time.Duration(*u.RecordSecondsAfterMotion) * time.Second
	}
	if u.OutputFolder != nil {
		merged.OutputFolder = *u.OutputFolder
	}
	if u.FPS != nil {
		merged.FPS = *u.FPS
	}
	if u.FrameWidth != nil {
		merged.FrameWidth = *u.FrameWidth
	}
	if u.FrameHeight != nil {
		merged.FrameHeight = *u.FrameHeight
	}
	return merged
}

// ConfigResponse is the JSON shape returned by the config endpoint.
type ConfigResponse struct {
	MotionThreshold          int    `json:"motion_threshold"`
	MinContourArea           int    `json:"min_contour_area"`
	RecordSecondsAfterMotion int    `json:"record_seconds_after_motion"`
	OutputFolder             string `json:"output_folder"`
	FPS                      int    `json:"fps"`
	FrameWidth               int    `json:"frame_width"`
	FrameHeight              int    `json:"frame_height"`
}

// ToResponse converts the config to its wire representation.
func (c DetectorConfig) ToResponse() ConfigResponse {
	return ConfigResponse{
		MotionThreshold:          c.MotionThreshold,
		MinContourArea:           c.MinContourArea,
		RecordSecondsAfterMotion: int(c.RecordSecondsAfterMotion / time.Second),
		OutputFolder:             c.OutputFolder,
		FPS:                      c.FPS,
		FrameWidth:               c.FrameWidth,
		FrameHeight:              c.FrameHeight,
	}
}

// Frame is a BGR24 frame buffer with its dimensions. Data is always an
// owned copy; callers may hold it indefinitely.
type Frame struct {
	Data      []byte
	Width     int
	Height    int
	Timestamp time.Time
}

// StatusResponse is the tear-free scalar snapshot returned by get_status.
type StatusResponse struct {
	Recording    bool           `json:"recording"`
	HeadCount    int            `json:"headCount"`
	Status       DetectorStatus `json:"status"`
	MotionStatus MotionStatus   `json:"motionStatus"`
}

// MotionEvent is published over NATS when motion rises or falls.
type MotionEvent struct {
	SessionID string    `json:"session_id,omitempty"`
	Detected  bool      `json:"detected"`
	Area      float64   `json:"area,omitempty"`
	HeadCount int       `json:"head_count"`
	Timestamp time.Time `json:"timestamp"`
}

// RecordingEvent is published over NATS when a clip is flushed to disk.
type RecordingEvent struct {
	SessionID  string    `json:"session_id"`
	Filename   string    `json:"filename"`
	Path       string    `json:"path"`
	StartedAt  time.Time `json:"started_at"`
	ClosedAt   time.Time `json:"closed_at"`
	FrameCount int64     `json:"frame_count"`
}
