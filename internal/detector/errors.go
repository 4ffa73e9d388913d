package detector

import "github.com/pkg/errors"

var (
	// ErrCameraUnavailable means the capture device could not be opened.
	// Start fails with this error and the processing loop never runs.
	ErrCameraUnavailable = errors.New("camera unavailable")

	// ErrInvalidConfig means a configuration update was rejected; the
	// previous configuration remains in effect.
	ErrInvalidConfig = errors.New("invalid detector configuration")

	// ErrStopTimeout means the processing loop did not confirm exit within
	// the bounded stop wait. The camera may still be held by a blocking
	// read; a subsequent Start can fail until the device is freed.
	ErrStopTimeout = errors.New("detector loop did not stop in time")
)
