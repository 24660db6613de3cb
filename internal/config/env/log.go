package env

import (
	"fmt"
	"os"
	"strconv"

	"haunted_slot/internal/config"
)

const (
	logModeEnvName  = "LOG_MODE"
	logLevelEnvName = "LOG_LEVEL"
	logAppEnvName   = "LOG_APP"
	logDirEnvName   = "LOG_DIR"
	logFileEnvName  = "LOG_FILE"
)

type logConfig struct {
	mode  string
	level string
	app   string
	dir   string
	file  bool
}

// NewLogConfig все переменные необязательные
func NewLogConfig() (config.LogConfig, error) {
	cfg := &logConfig{
		mode:  getenv(logModeEnvName, "dev"),
		level: getenv(logLevelEnvName, "info"),
		app:   getenv(logAppEnvName, "haunted_slot"),
		dir:   getenv(logDirEnvName, "logs"),
	}
	switch cfg.mode {
	case "dev", "prod":
	default:
		return nil, fmt.Errorf("invalid log mode %q", cfg.mode)
	}

	if v := os.Getenv(logFileEnvName); v != "" {
		file, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", logFileEnvName, err)
		}
		cfg.file = file
	}
	return cfg, nil
}

func getenv(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

func (cfg *logConfig) Mode() string {
	return cfg.mode
}

func (cfg *logConfig) Level() string {
	return cfg.level
}

func (cfg *logConfig) App() string {
	return cfg.app
}

func (cfg *logConfig) Dir() string {
	return cfg.dir
}

func (cfg *logConfig) File() bool {
	return cfg.file
}
