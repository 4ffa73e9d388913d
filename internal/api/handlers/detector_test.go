package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"sentrycam-go/internal/config"
	"sentrycam-go/internal/detector"
	"sentrycam-go/internal/models"
	"sentrycam-go/internal/services/publisher/mjpeg"
)

func testRouter(t *testing.T) (*gin.Engine, *detector.Detector) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := models.DefaultDetectorConfig()
	cfg.OutputFolder = t.TempDir()

	det, err := detector.New(cfg, detector.Options{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	streamCfg := &config.Config{
		StreamPollInterval: 10 * time.Millisecond,
		StreamJPEGQuality:  90,
	}
	h := NewDetectorHandler(det, mjpeg.NewPublisher(streamCfg, det))

	router := gin.New()
	router.GET("/status", h.Status)
	router.GET("/recordings", h.Recordings)
	router.GET("/config", h.GetConfig)
	router.POST("/config", h.UpdateConfig)
	return router, det
}

func TestStatusIdle(t *testing.T) {
	router, _ := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var status models.StatusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil {
		t.Fatalf("Invalid status JSON: %v", err)
	}
	if status.Recording {
		t.Error("Expected not recording")
	}
	if status.Status != models.StatusMonitoring {
		t.Errorf("Expected status %q, got %q", models.StatusMonitoring, status.Status)
	}
	if status.MotionStatus != models.MotionNone {
		t.Errorf("Expected motion status %q, got %q", models.MotionNone, status.MotionStatus)
	}
}

func TestRecordingsEmpty(t *testing.T) {
	router, _ := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/recordings", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if got := strings.TrimSpace(w.Body.String()); got != "[]" {
		t.Errorf("Expected empty JSON array, got %s", got)
	}
}

func TestUpdateConfigAppliesField(t *testing.T) {
	router, det := testRouter(t)

	body := strings.NewReader(`{"motion_threshold": 60}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/config", body)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if got := det.GetConfig().MotionThreshold; got != 60 {
		t.Errorf("Expected threshold 60, got %d", got)
	}
}

// TestUpdateConfigIgnoresUnknownKeys verifies unrecognized keys are dropped
// rather than rejected.
func TestUpdateConfigIgnoresUnknownKeys(t *testing.T) {
	router, det := testRouter(t)

	body := strings.NewReader(`{"fps": 30, "sensitivity": "high"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/config", body)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if got := det.GetConfig().FPS; got != 30 {
		t.Errorf("Expected fps 30, got %d", got)
	}
}

func TestUpdateConfigRejectsInvalid(t *testing.T) {
	router, det := testRouter(t)
	before := det.GetConfig()

	body := strings.NewReader(`{"frame_width": 0}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/config", body)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if got := det.GetConfig(); got != before {
		t.Errorf("Expected config unchanged after rejected update, got %+v", got)
	}
}

func TestGetConfigWireShape(t *testing.T) {
	router, _ := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/config", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var resp models.ConfigResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Invalid config JSON: %v", err)
	}
	if resp.RecordSecondsAfterMotion != 2 {
		t.Errorf("Expected cooldown 2 seconds on the wire, got %d", resp.RecordSecondsAfterMotion)
	}
	if resp.MotionThreshold != 25 {
		t.Errorf("Expected default threshold 25, got %d", resp.MotionThreshold)
	}
}
