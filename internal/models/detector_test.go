package models

import (
	"testing"
	"time"
)

// TestMergePartialUpdate verifies that only fields present in the update
// are overwritten.
func TestMergePartialUpdate(t *testing.T) {
	cfg := DefaultDetectorConfig()

	threshold := 40
	merged := cfg.Merge(ConfigUpdate{MotionThreshold: &threshold})

	if merged.MotionThreshold != 40 {
		t.Errorf("Expected motion threshold 40, got %d", merged.MotionThreshold)
	}
	if merged.MinContourArea != cfg.MinContourArea {
		t.Errorf("Expected min contour area unchanged, got %d", merged.MinContourArea)
	}
	if merged.OutputFolder != cfg.OutputFolder {
		t.Errorf("Expected output folder unchanged, got %s", merged.OutputFolder)
	}
	if merged.FPS != cfg.FPS {
		t.Errorf("Expected fps unchanged, got %d", merged.FPS)
	}
}

// TestMergeCooldownSeconds verifies the wire value is in whole seconds.
func TestMergeCooldownSeconds(t *testing.T) {
	cfg := DefaultDetectorConfig()

	seconds := 5
	merged := cfg.Merge(ConfigUpdate{RecordSecondsAfterMotion: &seconds})

	if merged.RecordSecondsAfterMotion != 5*time.Second {
		t.Errorf("Expected cooldown 5s, got %s", merged.RecordSecondsAfterMotion)
	}
}

// TestMergeDoesNotMutateReceiver verifies Merge returns a copy.
func TestMergeDoesNotMutateReceiver(t *testing.T) {
	cfg := DefaultDetectorConfig()

	folder := "elsewhere"
	cfg.Merge(ConfigUpdate{OutputFolder: &folder})

	if cfg.OutputFolder != DefaultDetectorConfig().OutputFolder {
		t.Errorf("Receiver was mutated, output folder is now %s", cfg.OutputFolder)
	}
}

func TestValidateDefaults(t *testing.T) {
	if err := DefaultDetectorConfig().Validate(); err != nil {
		t.Fatalf("Default config failed validation: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*DetectorConfig)
	}{
		{"zero width", func(c *DetectorConfig) { c.FrameWidth = 0 }},
		{"negative height", func(c *DetectorConfig) { c.FrameHeight = -1 }},
		{"zero fps", func(c *DetectorConfig) { c.FPS = 0 }},
		{"negative threshold", func(c *DetectorConfig) { c.MotionThreshold = -1 }},
		{"negative contour area", func(c *DetectorConfig) { c.MinContourArea = -5 }},
		{"negative cooldown", func(c *DetectorConfig) { c.RecordSecondsAfterMotion = -time.Second }},
		{"empty output folder", func(c *DetectorConfig) { c.OutputFolder = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultDetectorConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation error, got nil")
			}
		})
	}
}

func TestFrameInterval(t *testing.T) {
	cfg := DefaultDetectorConfig()
	cfg.FPS = 20
	if got := cfg.FrameInterval(); got != 50*time.Millisecond {
		t.Errorf("Expected 50ms at 20fps, got %s", got)
	}

	cfg.FPS = 0
	if got := cfg.FrameInterval(); got != time.Second {
		t.Errorf("Expected 1s fallback at 0fps, got %s", got)
	}
}

// TestToResponseCooldownSeconds verifies the response carries the cooldown
// as whole seconds, matching the update format.
func TestToResponseCooldownSeconds(t *testing.T) {
	cfg := DefaultDetectorConfig()
	cfg.RecordSecondsAfterMotion = 3 * time.Second

	resp := cfg.ToResponse()
	if resp.RecordSecondsAfterMotion != 3 {
		t.Errorf("Expected cooldown 3, got %d", resp.RecordSecondsAfterMotion)
	}
}
