package detector

import (
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gocv.io/x/gocv"

	"sentrycam-go/internal/models"
)

const (
	recordingCodec = "XVID"
	// RecordingExt is the container extension for motion clips; the
	// recordings listing filters on it.
	RecordingExt = ".avi"
)

// VideoSink is the contract with the clip writer. Close flushes.
type VideoSink interface {
	Write(frame gocv.Mat) error
	Close() error
}

// SinkOpener opens a new clip at path with the given rate and dimensions.
type SinkOpener func(path string, fps float64, width, height int) (VideoSink, error)

type videoWriterSink struct {
	writer *gocv.VideoWriter
}

// OpenVideoWriter opens an XVID clip writer through OpenCV.
func OpenVideoWriter(path string, fps float64, width, height int) (VideoSink, error) {
	writer, err := gocv.VideoWriterFile(path, recordingCodec, fps, width, height, true)
	if err != nil {
		return nil, errors.Wrapf(err, "opening video writer %s", path)
	}
	if !writer.IsOpened() {
		writer.Close()
		return nil, errors.Errorf("video writer %s did not open", path)
	}
	return &videoWriterSink{writer: writer}, nil
}

func (v *videoWriterSink) Write(frame gocv.Mat) error {
	return v.writer.Write(frame)
}

func (v *videoWriterSink) Close() error {
	return v.writer.Close()
}

// session is an open recording. At most one exists at a time.
type session struct {
	id         string
	path       string
	sink       VideoSink
	startedAt  time.Time
	lastMotion time.Time
	frames     int64
}

// recorder drives the Idle/Recording state machine: a session opens on a
// motion rising edge while idle, motion during a session only refreshes
// the last-motion timestamp, and the session closes once the cooldown
// elapses with no motion.
type recorder struct {
	openSink SinkOpener
	session  *session
}

func newRecorder(openSink SinkOpener) *recorder {
	return &recorder{openSink: openSink}
}

// Recording reports whether a session is open.
func (r *recorder) Recording() bool {
	return r.session != nil
}

// SessionID returns the active session's ID, or "" when idle.
func (r *recorder) SessionID() string {
	if r.session == nil {
		return ""
	}
	return r.session.id
}

// Transition applies the motion observation for this cycle. A clip-open
// failure is logged and leaves the recorder idle; losing one clip is
// preferable to losing monitoring.
func (r *recorder) Transition(motion bool, cfg models.DetectorConfig, now time.Time) {
	if !motion {
		return
	}
	if r.session != nil {
		// Re-triggered motion extends the recording window.
		r.session.lastMotion = now
		return
	}

	if err := os.MkdirAll(cfg.OutputFolder, 0755); err != nil {
		log.Error().Err(err).Str("output_folder", cfg.OutputFolder).Msg("Failed to create output folder")
		return
	}

	filename := "motion_" + now.Format("20060102_150405") + RecordingExt
	path := filepath.Join(cfg.OutputFolder, filename)

	sink, err := r.openSink(path, float64(cfg.FPS), cfg.FrameWidth, cfg.FrameHeight)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("Failed to open recording sink")
		return
	}

	r.session = &session{
		id:         uuid.NewString(),
		path:       path,
		sink:       sink,
		startedAt:  now,
		lastMotion: now,
	}

	log.Info().
		Str("session_id", r.session.id).
		Str("path", path).
		Int("fps", cfg.FPS).
		Msg("Recording started")
}

// WriteFrame appends the annotated frame to the open session. Write errors
// are non-fatal: logged, counted nowhere, loop continues.
func (r *recorder) WriteFrame(frame gocv.Mat) {
	if r.session == nil {
		return
	}
	if err := r.session.sink.Write(frame); err != nil {
		log.Warn().
			Err(err).
			Str("session_id", r.session.id).
			Str("path", r.session.path).
			Msg("Failed to write recording frame")
		return
	}
	r.session.frames++
}

// CooldownElapsed reports whether the open session has gone the full
// cooldown without motion. Always false when idle.
func (r *recorder) CooldownElapsed(cfg models.DetectorConfig, now time.Time) bool {
	return r.session != nil && now.Sub(r.session.lastMotion) >= cfg.RecordSecondsAfterMotion
}

// MaybeClose closes the session once the cooldown has elapsed since the
// last motion. Returns the recording event when a clip was flushed.
func (r *recorder) MaybeClose(cfg models.DetectorConfig, now time.Time) *models.RecordingEvent {
	if !r.CooldownElapsed(cfg, now) {
		return nil
	}
	return r.close(now)
}

// CloseSession force-closes any open session; used on detector stop so no
// partial clip is left dangling.
func (r *recorder) CloseSession(now time.Time) *models.RecordingEvent {
	if r.session == nil {
		return nil
	}
	return r.close(now)
}

func (r *recorder) close(now time.Time) *models.RecordingEvent {
	s := r.session
	r.session = nil

	if err := s.sink.Close(); err != nil {
		log.Warn().Err(err).Str("path", s.path).Msg("Failed to close recording sink")
	}

	log.Info().
		Str("session_id", s.id).
		Str("path", s.path).
		Int64("frames", s.frames).
		Dur("duration", now.Sub(s.startedAt)).
		Msg("Recording saved")

	return &models.RecordingEvent{
		SessionID:  s.id,
		Filename:   filepath.Base(s.path),
		Path:       s.path,
		StartedAt:  s.startedAt,
		ClosedAt:   now,
		FrameCount: s.frames,
	}
}
