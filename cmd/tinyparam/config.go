package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tailscale/hujson"
)

// Config holds CLI configuration options. The file is JSONC; comments and
// trailing commas are allowed.
type Config struct {
	// File is the default parameter file opened by 'repl' when no argument
	// is given.
	File string `json:"file,omitempty"`

	// HistoryFile is where the REPL stores its input history.
	HistoryFile string `json:"history_file,omitempty"` //nolint:tagliatelle // snake_case for config file
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	cfg := Config{}

	if home, err := os.UserHomeDir(); err == nil {
		cfg.HistoryFile = filepath.Join(home, ".tinyparam_history")
	}

	return cfg
}

// configFilePath returns the path to the user config file.
// Uses $XDG_CONFIG_HOME/tinyparam/config.json if set, otherwise
// ~/.config/tinyparam/config.json. Returns empty string if the home
// directory cannot be determined.
func configFilePath(env []string) string {
	for _, e := range env {
		if after, ok := strings.CutPrefix(e, "XDG_CONFIG_HOME="); ok && after != "" {
			return filepath.Join(after, "tinyparam", "config.json")
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		return filepath.Join(home, ".config", "tinyparam", "config.json")
	}

	return ""
}

// LoadConfig loads configuration with the following precedence (highest wins):
// 1. Defaults
// 2. User config file (optional)
// 3. Explicit config file via configPath (must exist when given).
func LoadConfig(configPath string, env []string) (Config, error) {
	cfg := DefaultConfig()

	userPath := configFilePath(env)
	if userPath != "" {
		userCfg, loaded, err := loadConfigFile(userPath, false)
		if err != nil {
			return Config{}, err
		}

		if loaded {
			cfg = mergeConfig(cfg, userCfg)
		}
	}

	if configPath != "" {
		explicitCfg, _, err := loadConfigFile(configPath, true)
		if err != nil {
			return Config{}, err
		}

		cfg = mergeConfig(cfg, explicitCfg)
	}

	return cfg, nil
}

// loadConfigFile loads one config file. If mustExist is false, a missing file
// returns (zero, false, nil).
func loadConfigFile(path string, mustExist bool) (Config, bool, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is intentionally user-controlled
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return Config{}, false, nil
		}

		return Config{}, false, fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	cfg, parseErr := parseConfig(data)
	if parseErr != nil {
		return Config{}, false, fmt.Errorf("invalid config file %s: %w", path, parseErr)
	}

	return cfg, true, nil
}

func parseConfig(data []byte) (Config, error) {
	// Standardize JSONC to JSON
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config

	unmarshalErr := json.Unmarshal(standardized, &cfg)
	if unmarshalErr != nil {
		return Config{}, fmt.Errorf("invalid JSON: %w", unmarshalErr)
	}

	return cfg, nil
}

func mergeConfig(base, overlay Config) Config {
	if overlay.File != "" {
		base.File = overlay.File
	}

	if overlay.HistoryFile != "" {
		base.HistoryFile = overlay.HistoryFile
	}

	return base
}
