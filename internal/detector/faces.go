package detector

import (
	"image"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// Cascade parameters are fixed configuration inputs, not re-derived per frame.
const (
	cascadeScaleFactor  = 1.1
	cascadeMinNeighbors = 5
	cascadeMinSize      = 30
)

// FaceClassifier counts faces in a grayscale frame. No identity, no
// tracking across frames; a pure per-frame detection.
type FaceClassifier interface {
	Detect(gray gocv.Mat) []image.Rectangle
	Close() error
}

type haarClassifier struct {
	classifier gocv.CascadeClassifier
}

// LoadFaceClassifier loads a Haar cascade from the given XML file.
func LoadFaceClassifier(path string) (FaceClassifier, error) {
	classifier := gocv.NewCascadeClassifier()
	if !classifier.Load(path) {
		classifier.Close()
		return nil, errors.Errorf("loading cascade from %s", path)
	}
	return &haarClassifier{classifier: classifier}, nil
}

func (h *haarClassifier) Detect(gray gocv.Mat) []image.Rectangle {
	return h.classifier.DetectMultiScaleWithParams(
		gray,
		cascadeScaleFactor,
		cascadeMinNeighbors,
		0,
		image.Pt(cascadeMinSize, cascadeMinSize),
		image.Point{},
	)
}

func (h *haarClassifier) Close() error {
	return h.classifier.Close()
}
