package mjpeg

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"gocv.io/x/gocv"

	"sentrycam-go/internal/config"
	"sentrycam-go/internal/models"
)

// FrameSource supplies the latest annotated frame; the detector satisfies
// it. A source with nothing to show yet returns a blank frame, so the
// stream always has something to write.
type FrameSource interface {
	GetFrame() models.Frame
}

// Publisher serves the annotated feed as a multipart MJPEG stream. It
// polls the snapshot at a fixed interval, fully decoupled from the
// processing loop's frame rate.
type Publisher struct {
	cfg    *config.Config
	source FrameSource
}

func NewPublisher(cfg *config.Config, source FrameSource) *Publisher {
	return &Publisher{cfg: cfg, source: source}
}

// StreamMJPEGHTTP writes multipart JPEG parts until the client goes away.
func (p *Publisher) StreamMJPEGHTTP(w http.ResponseWriter, r *http.Request) {
	boundary := "frame"
	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary="+boundary)
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	writePart := func(jpeg []byte) bool {
		if _, err := io.WriteString(w, "--"+boundary+"\r\n"); err != nil {
			return false
		}
		if _, err := io.WriteString(w, "Content-Type: image/jpeg\r\n"); err != nil {
			return false
		}
		if _, err := io.WriteString(w, fmt.Sprintf("Content-Length: %d\r\n\r\n", len(jpeg))); err != nil {
			return false
		}
		if _, err := w.Write(jpeg); err != nil {
			return false
		}
		if _, err := io.WriteString(w, "\r\n"); err != nil {
			return false
		}
		flusher.Flush()
		return true
	}

	ticker := time.NewTicker(p.cfg.StreamPollInterval)
	defer ticker.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			jpeg, err := p.encodeLatest()
			if err != nil {
				// Tolerate a bad frame; the next poll retries.
				continue
			}
			if !writePart(jpeg) {
				return
			}
		}
	}
}

func (p *Publisher) encodeLatest() ([]byte, error) {
	frame := p.source.GetFrame()
	if len(frame.Data) == 0 {
		return nil, fmt.Errorf("no frame available")
	}

	mat, err := gocv.NewMatFromBytes(frame.Height, frame.Width, gocv.MatTypeCV8UC3, frame.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to create Mat from frame data: %w", err)
	}
	defer mat.Close()

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, mat, []int{gocv.IMWriteJpegQuality, p.cfg.StreamJPEGQuality})
	if err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}
	defer buf.Close()

	b := buf.GetBytes()
	jpegCopy := make([]byte, len(b))
	copy(jpegCopy, b)
	return jpegCopy, nil
}
