package detector

import (
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// CaptureSource is the contract the processing loop has with the camera.
// The default implementation wraps gocv.VideoCapture; tests substitute a
// synthetic source.
type CaptureSource interface {
	Read(dst *gocv.Mat) bool
	IsOpened() bool
	Close() error
}

// CaptureOpener opens the capture device with the given index.
type CaptureOpener func(device int) (CaptureSource, error)

type deviceCapture struct {
	cap *gocv.VideoCapture
}

// OpenDeviceCapture opens a local capture device through OpenCV.
func OpenDeviceCapture(device int) (CaptureSource, error) {
	cap, err := gocv.OpenVideoCapture(device)
	if err != nil {
		return nil, errors.Wrapf(ErrCameraUnavailable, "opening device %d: %v", device, err)
	}
	if !cap.IsOpened() {
		cap.Close()
		return nil, errors.Wrapf(ErrCameraUnavailable, "device %d did not open", device)
	}
	return &deviceCapture{cap: cap}, nil
}

func (d *deviceCapture) Read(dst *gocv.Mat) bool {
	return d.cap.Read(dst)
}

func (d *deviceCapture) IsOpened() bool {
	return d.cap.IsOpened()
}

func (d *deviceCapture) Close() error {
	return d.cap.Close()
}
