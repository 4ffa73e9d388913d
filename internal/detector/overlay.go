package detector

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"gocv.io/x/gocv"

	"sentrycam-go/internal/models"
)

var (
	motionBoxColor = color.RGBA{G: 255}
	faceBoxColor   = color.RGBA{B: 255}
	statusColor    = color.RGBA{G: 255}
	headCountColor = color.RGBA{G: 255, B: 255}
	timestampColor = color.RGBA{R: 255, G: 255, B: 255}
	bannerColor    = color.RGBA{R: 255}
)

// drawOverlay composites the annotation layer onto the frame: motion and
// face bounding boxes, status line, head count, timestamp, and the motion
// banner.
func drawOverlay(frame *gocv.Mat, res motionResult, faces []image.Rectangle, status models.DetectorStatus, now time.Time) {
	if res.Detected {
		gocv.Rectangle(frame, res.Bounds, motionBoxColor, 2)
	}
	for _, face := range faces {
		gocv.Rectangle(frame, face, faceBoxColor, 2)
	}

	gocv.PutText(frame, fmt.Sprintf("Status: %s", status),
		image.Pt(10, 30), gocv.FontHersheySimplex, 0.7, statusColor, 2)
	gocv.PutText(frame, fmt.Sprintf("Heads detected: %d", len(faces)),
		image.Pt(10, 60), gocv.FontHersheySimplex, 0.7, headCountColor, 2)
	gocv.PutText(frame, now.Format("2006-01-02 15:04:05"),
		image.Pt(10, 90), gocv.FontHersheySimplex, 0.6, timestampColor, 1)

	if res.Detected {
		gocv.PutText(frame, "MOTION DETECTED!",
			image.Pt(10, 120), gocv.FontHersheySimplex, 0.7, bannerColor, 2)
	}
}
