package logging

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"sentrycam-go/internal/config"

	"github.com/logdyhq/logdy-core/logdy"
)

type logdyWriter struct {
	logger logdy.Logdy
}

func (w *logdyWriter) Write(p []byte) (n int, err error) {
	// Forward raw line to Logdy UI
	w.logger.LogString(string(p))
	return len(p), nil
}

// Setup points the global logger at the console, teed into the embedded
// Logdy web viewer when enabled.
func Setup(cfg *config.Config) {
	console := zerolog.ConsoleWriter{Out: os.Stderr}
	if !cfg.LogdyEnabled {
		log.Logger = log.Output(console)
		return
	}

	port := strconv.Itoa(cfg.LogdyPort)
	ld := logdy.InitializeLogdy(logdy.Config{
		ServerIp:   cfg.LogdyHost,
		ServerPort: port,
	}, nil)

	log.Logger = log.Output(io.MultiWriter(console, &logdyWriter{logger: ld}))
	log.Info().
		Str("url", fmt.Sprintf("http://%s:%s", cfg.LogdyHost, port)).
		Msg("Logdy web log viewer available")
}
