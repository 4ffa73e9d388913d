package detector

import (
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"sentrycam-go/internal/models"
)

// EventPublisher receives motion edges and saved-recording notifications.
// Delivery is best-effort; the processing loop never blocks on it.
type EventPublisher interface {
	MotionChanged(models.MotionEvent)
	RecordingSaved(models.RecordingEvent)
}

// snapshot is the published state: the latest annotated frame plus the
// scalar fields, overwritten once per processed frame by the loop and
// copied out to consumers.
type snapshot struct {
	frame        []byte
	width        int
	height       int
	recording    bool
	headCount    int
	status       models.DetectorStatus
	motionStatus models.MotionStatus
	timestamp    time.Time
}

// Options configures a Detector. Zero-value collaborator fields fall back
// to the gocv-backed defaults.
type Options struct {
	Device      int
	StopTimeout time.Duration
	OpenCapture CaptureOpener
	OpenSink    SinkOpener
	Faces       FaceClassifier
	Events      EventPublisher
	Now         func() time.Time
}

// Detector owns the camera, runs the capture/processing loop on a single
// background goroutine, and publishes a synchronized snapshot read by any
// number of concurrent consumers. The one mutex guards snapshot and
// configuration only; it is never held across camera or file I/O.
type Detector struct {
	mu   sync.Mutex
	cfg  models.DetectorConfig
	snap snapshot

	// lifecycle serializes Start and Stop, so a stop arriving while a
	// start is still opening the camera cannot observe a half-initialized
	// detector.
	lifecycle sync.Mutex
	running   int32
	stopCh    chan struct{}
	loopDone  chan struct{}

	device      int
	stopTimeout time.Duration

	openCapture CaptureOpener
	openSink    SinkOpener
	faces       FaceClassifier
	events      EventPublisher
	now         func() time.Time

	// Loop-owned; tracked across cycles for motion edge events.
	prevMotion bool
}

// New validates the configuration and builds a stopped detector.
func New(cfg models.DetectorConfig, opts Options) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(ErrInvalidConfig, err.Error())
	}

	d := &Detector{
		cfg: cfg,
		snap: snapshot{
			status:       models.StatusMonitoring,
			motionStatus: models.MotionNone,
		},
		device:      opts.Device,
		stopTimeout: opts.StopTimeout,
		openCapture: opts.OpenCapture,
		openSink:    opts.OpenSink,
		faces:       opts.Faces,
		events:      opts.Events,
		now:         opts.Now,
	}
	if d.stopTimeout <= 0 {
		d.stopTimeout = 5 * time.Second
	}
	if d.openCapture == nil {
		d.openCapture = OpenDeviceCapture
	}
	if d.openSink == nil {
		d.openSink = OpenVideoWriter
	}
	if d.now == nil {
		d.now = time.Now
	}

	if err := os.MkdirAll(cfg.OutputFolder, 0755); err != nil {
		return nil, errors.Wrapf(err, "creating output folder %s", cfg.OutputFolder)
	}

	return d, nil
}

// Start opens the camera and launches the processing loop. Calling Start
// while already running is a no-op. A camera that cannot be opened fails
// with ErrCameraUnavailable and leaves the detector stopped. The running
// flag flips only after the camera is open and the channels exist, so a
// concurrent Stop sees either a fully stopped or a fully started detector.
func (d *Detector) Start() error {
	d.lifecycle.Lock()
	defer d.lifecycle.Unlock()

	if atomic.LoadInt32(&d.running) == 1 {
		log.Debug().Msg("Detector already running, start ignored")
		return nil
	}

	cam, err := d.openCapture(d.device)
	if err != nil {
		return errors.Wrap(err, "starting detector")
	}

	d.stopCh = make(chan struct{})
	d.loopDone = make(chan struct{})
	d.prevMotion = false
	atomic.StoreInt32(&d.running, 1)

	go d.run(cam)

	log.Info().Int("device", d.device).Msg("Detector started")
	return nil
}

// Stop signals the loop and waits, bounded, for it to flush any open
// recording and release the camera. Stopping a detector that is not
// running is a no-op. Holds the lifecycle lock for the wait, so a Start
// racing a Stop queues behind it instead of reacquiring a busy camera.
func (d *Detector) Stop() error {
	d.lifecycle.Lock()
	defer d.lifecycle.Unlock()

	if atomic.LoadInt32(&d.running) == 0 {
		return nil
	}
	atomic.StoreInt32(&d.running, 0)

	close(d.stopCh)

	select {
	case <-d.loopDone:
		log.Info().Msg("Detector stopped")
		return nil
	case <-time.After(d.stopTimeout):
		log.Warn().Dur("timeout", d.stopTimeout).Msg("Detector loop did not confirm shutdown")
		return ErrStopTimeout
	}
}

// Running reports whether the processing loop is active.
func (d *Detector) Running() bool {
	return atomic.LoadInt32(&d.running) == 1
}

// GetStatus returns a tear-free copy of the scalar snapshot fields.
func (d *Detector) GetStatus() models.StatusResponse {
	d.mu.Lock()
	defer d.mu.Unlock()
	return models.StatusResponse{
		Recording:    d.snap.recording,
		HeadCount:    d.snap.headCount,
		Status:       d.snap.status,
		MotionStatus: d.snap.motionStatus,
	}
}

// GetFrame returns a copy of the latest annotated frame, or a blank frame
// of the configured dimensions if none has been produced yet.
func (d *Detector) GetFrame() models.Frame {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.snap.frame == nil {
		return models.Frame{
			Data:      make([]byte, d.cfg.FrameWidth*d.cfg.FrameHeight*3),
			Width:     d.cfg.FrameWidth,
			Height:    d.cfg.FrameHeight,
			Timestamp: d.snap.timestamp,
		}
	}

	data := make([]byte, len(d.snap.frame))
	copy(data, d.snap.frame)
	return models.Frame{
		Data:      data,
		Width:     d.snap.width,
		Height:    d.snap.height,
		Timestamp: d.snap.timestamp,
	}
}

// GetConfig returns a copy of the current configuration.
func (d *Detector) GetConfig() models.DetectorConfig {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cfg
}

// UpdateConfig merges the partial update onto the current configuration.
// An update that fails validation is rejected wholesale and the previous
// configuration is retained. The merged configuration takes effect at the
// next cycle boundary.
func (d *Detector) UpdateConfig(u models.ConfigUpdate) error {
	d.mu.Lock()
	merged := d.cfg.Merge(u)
	if err := merged.Validate(); err != nil {
		d.mu.Unlock()
		return errors.Wrap(ErrInvalidConfig, err.Error())
	}
	d.cfg = merged
	folder := merged.OutputFolder
	d.mu.Unlock()

	if err := os.MkdirAll(folder, 0755); err != nil {
		log.Warn().Err(err).Str("output_folder", folder).Msg("Failed to create output folder")
	}

	log.Info().
		Int("motion_threshold", merged.MotionThreshold).
		Int("min_contour_area", merged.MinContourArea).
		Dur("cooldown", merged.RecordSecondsAfterMotion).
		Int("fps", merged.FPS).
		Int("width", merged.FrameWidth).
		Int("height", merged.FrameHeight).
		Msg("Detector configuration updated")
	return nil
}

// ListRecordings returns clip filenames in the output folder, newest
// first. A missing folder yields an empty list, never an error.
func (d *Detector) ListRecordings() ([]string, error) {
	d.mu.Lock()
	folder := d.cfg.OutputFolder
	d.mu.Unlock()

	entries, err := os.ReadDir(folder)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, errors.Wrapf(err, "listing recordings in %s", folder)
	}

	recordings := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), RecordingExt) {
			continue
		}
		recordings = append(recordings, entry.Name())
	}

	// Timestamp-embedded names sort reverse-chronologically.
	sort.Sort(sort.Reverse(sort.StringSlice(recordings)))
	return recordings, nil
}

// configSnapshot copies the configuration for one processing cycle.
func (d *Detector) configSnapshot() models.DetectorConfig {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cfg
}

func (d *Detector) publishSnapshot(s snapshot) {
	d.mu.Lock()
	d.snap = s
	d.mu.Unlock()
}

func (d *Detector) publishMotion(ev models.MotionEvent) {
	if d.events != nil {
		d.events.MotionChanged(ev)
	}
}

func (d *Detector) publishRecording(ev models.RecordingEvent) {
	if d.events != nil {
		d.events.RecordingSaved(ev)
	}
}
