package messaging

import (
	"encoding/json"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"sentrycam-go/internal/config"
)

// DetectorControl is the slice of the detector the control subject can
// drive. Both operations are idempotent.
type DetectorControl interface {
	Start() error
	Stop() error
}

type controlCommand struct {
	Action string `json:"action"`
}

// StartControlListener subscribes to the control subject and dispatches
// start/stop commands to the detector, so a fleet controller can toggle
// monitoring without going through the HTTP API.
func StartControlListener(svc *Service, cfg *config.Config, det DetectorControl) (*nats.Subscription, error) {
	sub, err := svc.Subscribe(cfg.ControlSubject, func(data []byte) {
		dispatchControl(det, data)
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("subject", cfg.ControlSubject).Msg("Control listener subscribed")
	return sub, nil
}

func dispatchControl(det DetectorControl, data []byte) {
	var cmd controlCommand
	if err := json.Unmarshal(data, &cmd); err != nil {
		log.Warn().Err(err).Msg("Discarding malformed control command")
		return
	}

	switch cmd.Action {
	case "start":
		if err := det.Start(); err != nil {
			log.Error().Err(err).Msg("Control start failed")
		}
	case "stop":
		if err := det.Stop(); err != nil {
			log.Error().Err(err).Msg("Control stop failed")
		}
	default:
		log.Warn().Str("action", cmd.Action).Msg("Unknown control action")
	}
}
