package env

import (
	"fmt"
	"os"
	"strconv"

	"haunted_slot/internal/config"
)

const (
	statsTargetRTPEnvName = "STATS_TARGET_RTP"
	statsWindowEnvName    = "STATS_WINDOW"

	defaultTargetRTP = 95.0
	defaultWindow    = 500
)

type statsConfig struct {
	targetRTP float64
	window    int
}

func NewStatsConfig() (config.StatsConfig, error) {
	cfg := &statsConfig{targetRTP: defaultTargetRTP, window: defaultWindow}
	if v := os.Getenv(statsTargetRTPEnvName); v != "" {
		rtp, err := strconv.ParseFloat(v, 64)
		if err != nil || rtp <= 0 {
			return nil, fmt.Errorf("invalid %s: %q", statsTargetRTPEnvName, v)
		}
		cfg.targetRTP = rtp
	}
	if v := os.Getenv(statsWindowEnvName); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid %s: %q", statsWindowEnvName, v)
		}
		cfg.window = n
	}
	return cfg, nil
}

func (cfg *statsConfig) TargetRTP() float64 {
	return cfg.targetRTP
}

func (cfg *statsConfig) WindowSize() int {
	return cfg.window
}
