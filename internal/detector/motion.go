package detector

import (
	"image"

	"gocv.io/x/gocv"
)

const blurKernelSize = 21

// motionResult is the outcome of one differencing cycle. Gray is the
// unblurred grayscale of the current frame and stays valid until the next
// Process call.
type motionResult struct {
	Analyzed bool
	Detected bool
	Area     float64
	Bounds   image.Rectangle
	Gray     gocv.Mat
}

// motionPipeline implements frame-differencing motion detection: grayscale,
// blur, absolute difference against the previous reference, binary
// threshold, dilation, then largest-contour selection. The reference is
// replaced every cycle regardless of the motion outcome, so gradual
// lighting drift is absorbed at the cost of missing very slow movers.
type motionPipeline struct {
	reference gocv.Mat
	hasRef    bool

	gray    gocv.Mat
	blurred gocv.Mat
	diff    gocv.Mat
	thresh  gocv.Mat
	kernel  gocv.Mat
}

func newMotionPipeline() *motionPipeline {
	return &motionPipeline{
		reference: gocv.NewMat(),
		gray:      gocv.NewMat(),
		blurred:   gocv.NewMat(),
		diff:      gocv.NewMat(),
		thresh:    gocv.NewMat(),
		kernel:    gocv.GetStructuringElement(gocv.MorphRect, image.Pt(3, 3)),
	}
}

// Process runs one differencing cycle. The first frame becomes the
// reference; that bootstrap cycle reports Analyzed=false and must not
// drive any recording or motion state change.
func (p *motionPipeline) Process(frame gocv.Mat, threshold, minArea int) motionResult {
	gocv.CvtColor(frame, &p.gray, gocv.ColorBGRToGray)
	gocv.GaussianBlur(p.gray, &p.blurred, image.Pt(blurKernelSize, blurKernelSize), 0, 0, gocv.BorderDefault)

	if !p.hasRef {
		p.blurred.CopyTo(&p.reference)
		p.hasRef = true
		return motionResult{Gray: p.gray}
	}

	gocv.AbsDiff(p.reference, p.blurred, &p.diff)
	gocv.Threshold(p.diff, &p.thresh, float32(threshold), 255, gocv.ThresholdBinary)

	// Two dilation passes, so nearby sub-threshold blobs merge into one
	// qualifying contour instead of staying separate.
	gocv.Dilate(p.thresh, &p.thresh, p.kernel)
	gocv.Dilate(p.thresh, &p.thresh, p.kernel)

	res := motionResult{Analyzed: true, Gray: p.gray}

	contours := gocv.FindContours(p.thresh, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	for i := 0; i < contours.Size(); i++ {
		contour := contours.At(i)
		area := gocv.ContourArea(contour)
		if area > res.Area && area > float64(minArea) {
			res.Detected = true
			res.Area = area
			res.Bounds = gocv.BoundingRect(contour)
		}
	}
	contours.Close()

	// Always replace the reference, motion or not.
	p.blurred.CopyTo(&p.reference)

	return res
}

// Reset drops the reference so the next frame becomes a fresh baseline.
func (p *motionPipeline) Reset() {
	p.hasRef = false
}

func (p *motionPipeline) Close() {
	p.reference.Close()
	p.gray.Close()
	p.blurred.Close()
	p.diff.Close()
	p.thresh.Close()
	p.kernel.Close()
}
