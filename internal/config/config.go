package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"sentrycam-go/internal/models"
)

type Config struct {
	// Application
	Version     string
	Environment string
	WorkerID    string
	Port        int
	LogLevel    string

	// Logdy (lightweight web log viewer)
	LogdyEnabled bool
	LogdyHost    string
	LogdyPort    int

	// NATS (for motion and recording events)
	NatsEnabled        bool
	NatsURL            string
	NatsConnectTimeout time.Duration
	NatsReconnectWait  time.Duration
	NatsMaxReconnects  int

	// Messaging subjects
	MotionSubject     string
	RecordingsSubject string
	ControlSubject    string

	// Camera
	CameraDevice int
	CascadePath  string

	// Detector defaults (runtime-updatable via the config endpoint)
	MotionThreshold          int
	MinContourArea           int
	RecordSecondsAfterMotion time.Duration
	OutputFolder             string
	TargetFPS                int
	FrameWidth               int
	FrameHeight              int

	// Streaming
	StreamPollInterval time.Duration
	StreamJPEGQuality  int

	// Detector stop wait (loop may be stuck in a blocking camera read)
	StopTimeout time.Duration

	// Graceful Shutdown
	ShutdownTimeout time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("No .env file found, using environment variables and defaults")
	} else {
		log.Info().Msg("Loaded configuration from .env file")
	}

	return &Config{
		// Application
		Version:     getEnv("VERSION", "1.0.0"),
		Environment: getEnv("ENVIRONMENT", "development"),
		WorkerID:    getEnv("WORKER_ID", "sentrycam-1"),
		Port:        getEnvInt("PORT", 8000),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		// Logdy (lightweight web log viewer)
		LogdyEnabled: getEnvBool("LOGDY_ENABLED", false),
		LogdyHost:    getEnv("LOGDY_HOST", "localhost"),
		LogdyPort:    getEnvInt("LOGDY_PORT", 8080),

		// NATS
		NatsEnabled:        getEnvBool("NATS_ENABLED", false),
		NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
		NatsConnectTimeout: getEnvDuration("NATS_CONNECT_TIMEOUT", 10*time.Second),
		NatsReconnectWait:  getEnvDuration("NATS_RECONNECT_WAIT", 2*time.Second),
		NatsMaxReconnects:  getEnvInt("NATS_MAX_RECONNECTS", -1), // -1 = unlimited

		// Messaging subjects
		MotionSubject:     getEnv("MOTION_SUBJECT", "detector.motion"),
		RecordingsSubject: getEnv("RECORDINGS_SUBJECT", "detector.recordings"),
		ControlSubject:    getEnv("CONTROL_SUBJECT", "detector.control"),

		// Camera
		CameraDevice: getEnvInt("CAMERA_DEVICE", 0),
		CascadePath:  getEnv("CASCADE_PATH", "haarcascade_frontalface_default.xml"),

		// Detector defaults
		MotionThreshold:          getEnvInt("MOTION_THRESHOLD", 25),
		MinContourArea:           getEnvInt("MIN_CONTOUR_AREA", 2000),
		RecordSecondsAfterMotion: getEnvDuration("RECORD_SECONDS_AFTER_MOTION", 2*time.Second),
		OutputFolder:             getEnv("OUTPUT_FOLDER", "motion_recordings"),
		TargetFPS:                getEnvInt("TARGET_FPS", 20),
		FrameWidth:               getEnvInt("FRAME_WIDTH", 640),
		FrameHeight:              getEnvInt("FRAME_HEIGHT", 480),

		// Streaming
		StreamPollInterval: getEnvDuration("STREAM_POLL_INTERVAL", 33*time.Millisecond),
		StreamJPEGQuality:  getEnvInt("STREAM_JPEG_QUALITY", 90),

		// Detector stop wait
		StopTimeout: getEnvDuration("STOP_TIMEOUT", 5*time.Second),

		// Graceful Shutdown
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
	}
}

// DetectorConfig assembles the initial runtime configuration for the detector.
func (c *Config) DetectorConfig() models.DetectorConfig {
	return models.DetectorConfig{
		MotionThreshold:          c.MotionThreshold,
		MinContourArea:           c.MinContourArea,
		RecordSecondsAfterMotion: c.RecordSecondsAfterMotion,
		OutputFolder:             c.OutputFolder,
		FPS:                      c.TargetFPS,
		FrameWidth:               c.FrameWidth,
		FrameHeight:              c.FrameHeight,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
