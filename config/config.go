package config

import (
	"os"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Configuration variables. These aren't user facing but useful for tuning
// the server. The tick period is fixed.
var (
	MaxSessions = getEnvInt("SNAKE_MAX_SESSIONS", 100)
	MaxFrames   = getEnvInt("SNAKE_MAX_FRAMES", 5000)
	InputRate   = rate.Limit(getEnvInt("SNAKE_INPUT_RPS", 20))
	InputBurst  = getEnvInt("SNAKE_INPUT_BURST", 5)
	CellSize    = getEnvInt("SNAKE_CELL_SIZE", 25)
	LogLevel    = getEnvString("SNAKE_LOG_LEVEL", "info")
	// SessionIdle is how long a game nobody watches or steers is kept.
	SessionIdle = time.Duration(getEnvInt("SNAKE_SESSION_IDLE_SECONDS", 30)) * time.Second
)

// SetupLogging applies LogLevel to the standard logrus logger.
func SetupLogging() {
	lvl, err := log.ParseLevel(LogLevel)
	if err != nil {
		log.WithError(err).WithField("level", LogLevel).Warn("invalid log level, using info")
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
}

func getEnvInt(varName string, defaults int) int {
	val := os.Getenv(varName)
	if val == "" {
		return defaults
	}
	intVal, err := strconv.ParseInt(val, 10, 32)
	if err != nil {
		return defaults
	}
	return int(intVal)
}

func getEnvString(varName string, defaults string) string {
	if val := os.Getenv(varName); val != "" {
		return val
	}
	return defaults
}
