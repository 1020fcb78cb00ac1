// Package veritumnode holds the process-level configuration shared by the
// veritum-cli entry point, following node/config.go's Config/Default/
// Validate shape.
package veritumnode

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config is the full set of process-level knobs: where cubes live on disk,
// how much proof-of-work a cube must carry, and how verbose logging is.
// There is no network configuration — Verity's wire transport is out of
// scope for this core (spec §1's "deliberately out of scope").
type Config struct {
	DataDir    string `json:"data_dir"`
	Difficulty int    `json:"difficulty"`
	LogLevel   string `json:"log_level"`
}

var allowedLogLevels = map[string]struct{}{
	"debug": {},
	"info":  {},
	"warn":  {},
	"error": {},
}

// DefaultDataDir mirrors the teacher's home-directory fallback.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".verity"
	}
	return filepath.Join(home, ".verity")
}

func DefaultConfig() Config {
	return Config{
		DataDir:    DefaultDataDir(),
		Difficulty: 0,
		LogLevel:   "info",
	}
}

func ValidateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.DataDir) == "" {
		return errors.New("data_dir is required")
	}
	if cfg.Difficulty < 0 || cfg.Difficulty > 256 {
		return fmt.Errorf("difficulty %d out of range [0,256]", cfg.Difficulty)
	}
	logLevel := strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if _, ok := allowedLogLevels[logLevel]; !ok {
		return fmt.Errorf("invalid log_level %q", cfg.LogLevel)
	}
	return nil
}
