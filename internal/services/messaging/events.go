package messaging

import (
	"github.com/rs/zerolog/log"

	"sentrycam-go/internal/config"
	"sentrycam-go/internal/models"
)

// Events forwards detector events to NATS. Publishing is best-effort:
// failures are logged and never reach the processing loop.
type Events struct {
	svc *Service
	cfg *config.Config
}

func NewEvents(svc *Service, cfg *config.Config) *Events {
	return &Events{svc: svc, cfg: cfg}
}

func (e *Events) MotionChanged(ev models.MotionEvent) {
	if err := e.svc.Publish(e.cfg.MotionSubject, ev); err != nil {
		log.Warn().Err(err).Str("subject", e.cfg.MotionSubject).Msg("Failed to publish motion event")
	}
}

func (e *Events) RecordingSaved(ev models.RecordingEvent) {
	if err := e.svc.Publish(e.cfg.RecordingsSubject, ev); err != nil {
		log.Warn().Err(err).Str("subject", e.cfg.RecordingsSubject).Msg("Failed to publish recording event")
		return
	}
	log.Info().
		Str("subject", e.cfg.RecordingsSubject).
		Str("filename", ev.Filename).
		Int64("frames", ev.FrameCount).
		Msg("Published recording event")
}
