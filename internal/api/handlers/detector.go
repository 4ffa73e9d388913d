package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"sentrycam-go/internal/detector"
	"sentrycam-go/internal/models"
	"sentrycam-go/internal/services/publisher/mjpeg"
)

type DetectorHandler struct {
	det       *detector.Detector
	publisher *mjpeg.Publisher
}

func NewDetectorHandler(det *detector.Detector, publisher *mjpeg.Publisher) *DetectorHandler {
	return &DetectorHandler{
		det:       det,
		publisher: publisher,
	}
}

// Start starts the detection loop
// @Summary Start detection
// @Description Start the motion detection loop; a no-op if already running
// @Tags detector
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /start [post]
func (h *DetectorHandler) Start(c *gin.Context) {
	if err := h.det.Start(); err != nil {
		log.Error().Err(err).Msg("Failed to start detection")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Detection started"})
}

// Stop stops the detection loop
// @Summary Stop detection
// @Description Stop the motion detection loop, flushing any open recording
// @Tags detector
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /stop [post]
func (h *DetectorHandler) Stop(c *gin.Context) {
	if err := h.det.Stop(); err != nil {
		log.Error().Err(err).Msg("Failed to stop detection")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Detection stopped"})
}

// Status returns the current detector status
// @Summary Detector status
// @Description Get the recording flag, head count, status and motion status
// @Tags detector
// @Produce json
// @Success 200 {object} models.StatusResponse
// @Router /status [get]
func (h *DetectorHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.det.GetStatus())
}

// Recordings lists recorded clips
// @Summary List recordings
// @Description List recorded clip filenames, newest first
// @Tags detector
// @Produce json
// @Success 200 {array} string
// @Failure 500 {object} map[string]interface{}
// @Router /recordings [get]
func (h *DetectorHandler) Recordings(c *gin.Context) {
	recordings, err := h.det.ListRecordings()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list recordings")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, recordings)
}

// GetConfig returns the current detector configuration
// @Summary Get configuration
// @Tags detector
// @Produce json
// @Success 200 {object} models.ConfigResponse
// @Router /config [get]
func (h *DetectorHandler) GetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, h.det.GetConfig().ToResponse())
}

// UpdateConfig applies a partial configuration update
// @Summary Update configuration
// @Description Merge a partial configuration update; unknown keys are ignored, invalid values reject the whole update
// @Tags detector
// @Accept json
// @Produce json
// @Param request body models.ConfigUpdate true "Partial configuration"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /config [post]
func (h *DetectorHandler) UpdateConfig(c *gin.Context) {
	var update models.ConfigUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		log.Error().Err(err).Msg("Invalid config request body")
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	if err := h.det.UpdateConfig(update); err != nil {
		if errors.Is(err, detector.ErrInvalidConfig) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		log.Error().Err(err).Msg("Failed to update configuration")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Configuration updated"})
}

// VideoFeed streams the annotated feed as MJPEG
// @Summary Video feed
// @Description Stream the annotated camera feed as multipart MJPEG
// @Tags detector
// @Produce mpfd
// @Success 200
// @Router /video_feed [get]
func (h *DetectorHandler) VideoFeed(c *gin.Context) {
	h.publisher.StreamMJPEGHTTP(c.Writer, c.Request)
}
