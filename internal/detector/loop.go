package detector

import (
	"image"
	"time"

	"github.com/rs/zerolog/log"
	"gocv.io/x/gocv"

	"sentrycam-go/internal/models"
)

const captureRetryDelay = 100 * time.Millisecond

// run is the capture/processing loop. It owns the camera handle and all
// working mats; everything it shares with consumers goes through the
// snapshot. On exit it flushes any open recording and releases the camera
// before signalling done, so Stop can wait on a fully clean state.
func (d *Detector) run(cam CaptureSource) {
	pipeline := newMotionPipeline()
	rec := newRecorder(d.openSink)

	frame := gocv.NewMat()
	resized := gocv.NewMat()

	defer func() {
		if ev := rec.CloseSession(d.now()); ev != nil {
			d.publishRecording(*ev)
		}

		frame.Close()
		resized.Close()
		pipeline.Close()

		if err := cam.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to release camera")
		}

		d.mu.Lock()
		d.snap.recording = false
		d.snap.status = models.StatusMonitoring
		d.snap.motionStatus = models.MotionNone
		d.mu.Unlock()

		close(d.loopDone)
		log.Debug().Msg("Detector loop exited")
	}()

	for {
		select {
		case <-d.stopCh:
			return
		default:
		}

		cfg := d.configSnapshot()

		if ok := cam.Read(&frame); !ok || frame.Empty() {
			// Transient capture failure; back off briefly and keep going.
			log.Warn().Msg("Failed to capture frame from camera")
			time.Sleep(captureRetryDelay)
			continue
		}

		if frame.Cols() != cfg.FrameWidth || frame.Rows() != cfg.FrameHeight {
			gocv.Resize(frame, &resized, image.Pt(cfg.FrameWidth, cfg.FrameHeight), 0, 0, gocv.InterpolationLinear)
		} else {
			frame.CopyTo(&resized)
		}

		d.processFrame(&resized, pipeline, rec, cfg)

		time.Sleep(cfg.FrameInterval())
	}
}

// processFrame runs one cycle: motion differencing, recording transitions,
// face counting, overlay, clip write, snapshot publish.
func (d *Detector) processFrame(frame *gocv.Mat, pipeline *motionPipeline, rec *recorder, cfg models.DetectorConfig) {
	now := d.now()

	res := pipeline.Process(*frame, cfg.MotionThreshold, cfg.MinContourArea)
	if !res.Analyzed {
		// Bootstrap cycle: reference stored, no state changes.
		return
	}

	rec.Transition(res.Detected, cfg, now)

	var faces []image.Rectangle
	if d.faces != nil {
		faces = d.faces.Detect(res.Gray)
	}

	// Decide the close before drawing, so the overlay text on the
	// cooldown-expiry frame matches the status the snapshot reports.
	closing := rec.CooldownElapsed(cfg, now)

	status := models.StatusMonitoring
	if rec.Recording() && !closing {
		status = models.StatusRecording
	}

	drawOverlay(frame, res, faces, status, now)

	if rec.Recording() {
		rec.WriteFrame(*frame)
		if ev := rec.MaybeClose(cfg, now); ev != nil {
			d.publishRecording(*ev)
		}
	}

	motionStatus := models.MotionNone
	if res.Detected {
		motionStatus = models.MotionDetected
	}

	if res.Detected != d.prevMotion {
		d.prevMotion = res.Detected
		d.publishMotion(models.MotionEvent{
			SessionID: rec.SessionID(),
			Detected:  res.Detected,
			Area:      res.Area,
			HeadCount: len(faces),
			Timestamp: now,
		})
	}

	d.publishSnapshot(snapshot{
		frame:        frame.ToBytes(),
		width:        frame.Cols(),
		height:       frame.Rows(),
		recording:    rec.Recording(),
		headCount:    len(faces),
		status:       status,
		motionStatus: motionStatus,
		timestamp:    now,
	})
}
