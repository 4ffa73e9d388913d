package detector

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"sentrycam-go/internal/models"
)

type fakeSink struct {
	writes int
	closed bool
}

func (f *fakeSink) Write(frame gocv.Mat) error {
	f.writes++
	return nil
}

func (f *fakeSink) Close() error {
	f.closed = true
	return nil
}

type fakeSinkOpener struct {
	sinks []*fakeSink
	paths []string
	fail  bool
}

func (f *fakeSinkOpener) open(path string, fps float64, width, height int) (VideoSink, error) {
	if f.fail {
		return nil, errors.New("sink unavailable")
	}
	sink := &fakeSink{}
	f.sinks = append(f.sinks, sink)
	f.paths = append(f.paths, path)
	return sink, nil
}

func testRecorderConfig(t *testing.T) models.DetectorConfig {
	t.Helper()
	cfg := models.DefaultDetectorConfig()
	cfg.OutputFolder = t.TempDir()
	cfg.RecordSecondsAfterMotion = 2 * time.Second
	return cfg
}

func TestTransitionOpensOnRisingEdge(t *testing.T) {
	cfg := testRecorderConfig(t)
	opener := &fakeSinkOpener{}
	rec := newRecorder(opener.open)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	rec.Transition(true, cfg, now)

	if !rec.Recording() {
		t.Fatal("Expected recording after motion while idle")
	}
	if len(opener.paths) != 1 {
		t.Fatalf("Expected 1 clip opened, got %d", len(opener.paths))
	}

	name := filepath.Base(opener.paths[0])
	if !strings.HasPrefix(name, "motion_") || !strings.HasSuffix(name, RecordingExt) {
		t.Errorf("Unexpected clip filename %s", name)
	}
	if rec.SessionID() == "" {
		t.Error("Expected non-empty session ID")
	}
}

func TestNoMotionNeverOpens(t *testing.T) {
	cfg := testRecorderConfig(t)
	opener := &fakeSinkOpener{}
	rec := newRecorder(opener.open)
	now := time.Now()

	rec.Transition(false, cfg, now)
	rec.Transition(false, cfg, now.Add(time.Second))

	if rec.Recording() {
		t.Error("Expected recorder to stay idle without motion")
	}
	if len(opener.paths) != 0 {
		t.Errorf("Expected no clips opened, got %d", len(opener.paths))
	}
}

// TestRetriggerExtendsWindow verifies motion during a session refreshes the
// cooldown instead of opening a second clip.
func TestRetriggerExtendsWindow(t *testing.T) {
	cfg := testRecorderConfig(t)
	opener := &fakeSinkOpener{}
	rec := newRecorder(opener.open)
	start := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	rec.Transition(true, cfg, start)
	if ev := rec.MaybeClose(cfg, start.Add(time.Second)); ev != nil {
		t.Fatal("Session closed before cooldown elapsed")
	}

	// Motion again at +1s pushes the close deadline to +3s.
	rec.Transition(true, cfg, start.Add(time.Second))
	if ev := rec.MaybeClose(cfg, start.Add(2500*time.Millisecond)); ev != nil {
		t.Fatal("Session closed despite refreshed cooldown")
	}

	ev := rec.MaybeClose(cfg, start.Add(3500*time.Millisecond))
	if ev == nil {
		t.Fatal("Expected session to close after cooldown")
	}
	if len(opener.paths) != 1 {
		t.Errorf("Expected a single clip, got %d", len(opener.paths))
	}
	if !opener.sinks[0].closed {
		t.Error("Expected sink flushed on close")
	}
	if rec.Recording() {
		t.Error("Expected recorder idle after close")
	}
	if ev := rec.MaybeClose(cfg, start.Add(4*time.Second)); ev != nil {
		t.Error("Expected no event from an idle recorder")
	}
}

func TestOpenFailureLeavesIdle(t *testing.T) {
	cfg := testRecorderConfig(t)
	opener := &fakeSinkOpener{fail: true}
	rec := newRecorder(opener.open)

	rec.Transition(true, cfg, time.Now())
	if rec.Recording() {
		t.Fatal("Expected recorder idle after open failure")
	}

	// The next motion cycle retries the open.
	opener.fail = false
	rec.Transition(true, cfg, time.Now())
	if !rec.Recording() {
		t.Error("Expected recording after open recovered")
	}
}

// TestCloseSessionFlushes covers the stop path: an open session must be
// flushed and reported regardless of the cooldown.
func TestCloseSessionFlushes(t *testing.T) {
	cfg := testRecorderConfig(t)
	opener := &fakeSinkOpener{}
	rec := newRecorder(opener.open)
	start := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	rec.Transition(true, cfg, start)
	frame := gocv.NewMat()
	defer frame.Close()
	rec.WriteFrame(frame)
	rec.WriteFrame(frame)

	ev := rec.CloseSession(start.Add(time.Second))
	if ev == nil {
		t.Fatal("Expected recording event on forced close")
	}
	if ev.FrameCount != 2 {
		t.Errorf("Expected 2 frames recorded, got %d", ev.FrameCount)
	}
	if ev.Filename != filepath.Base(opener.paths[0]) {
		t.Errorf("Expected filename %s, got %s", filepath.Base(opener.paths[0]), ev.Filename)
	}
	if !opener.sinks[0].closed {
		t.Error("Expected sink flushed on forced close")
	}
	if ev.StartedAt != start {
		t.Errorf("Expected start %s, got %s", start, ev.StartedAt)
	}
}
