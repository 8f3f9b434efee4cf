package impulse

import (
	"os"

	"github.com/impulsehq/impulse/pkg/logger"
	"github.com/impulsehq/impulse/pkg/logger/zerolog"
)

// DefaultLog is the process-wide logger used when callers do not inject
// their own
var DefaultLog logger.Logger

const (
	defaultLogLevel      = "info"
	defaultLogTimeFormat = "2006-01-02 15:04:05"
)

// Environment variable names
const (
	envLogLevel      = "IMPULSE_LOG_LEVEL"
	envLogTimeFormat = "IMPULSE_LOG_TIME_FORMAT"
)

func init() {
	log, err := zerolog.New(
		getEnvWithDefault(envLogLevel, defaultLogLevel),
		getEnvWithDefault(envLogTimeFormat, defaultLogTimeFormat),
		true,
	)
	if err != nil {
		panic(err)
	}

	DefaultLog = log
}

// getEnvWithDefault returns the value of the environment variable or the default if not set
func getEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
