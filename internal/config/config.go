package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Load reads configuration from standard locations with environment
// overrides. Search order: ~/.strumrc, $XDG_CONFIG_HOME/strum/config.toml,
// ~/.config/strum/config.toml. A missing file is not an error: first
// run gets the defaults.
func Load() (*Config, error) {
	cfg := &Config{}

	path := findConfigFile()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, err
		}
	}

	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)

	return cfg, nil
}

// LoadFrom reads configuration from a specific file path.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)
	return cfg, nil
}

// Dir returns the strum config directory, creating nothing.
func Dir() string {
	xdg := os.Getenv("XDG_CONFIG_HOME")
	if xdg == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "."
		}
		xdg = filepath.Join(home, ".config")
	}
	return filepath.Join(xdg, "strum")
}

// StatePath returns the default location of the persisted session
// state file.
func StatePath() string {
	return filepath.Join(Dir(), "state.toml")
}

// findConfigFile returns the first existing config file path.
func findConfigFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	paths := []string{
		filepath.Join(home, ".strumrc"),
		filepath.Join(Dir(), "config.toml"),
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("STRUM_MUSIC_DIR"); v != "" {
		cfg.Library.MusicDir = v
	}
	if v := os.Getenv("STRUM_PLAYLIST_DIR"); v != "" {
		cfg.Library.PlaylistDir = v
	}

	if v := os.Getenv("STRUM_VOLUME"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Player.Volume = i
		}
	}

	if v := os.Getenv("STRUM_TUI_REFRESH_INTERVAL"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.TUI.RefreshInterval = i
		}
	}

	if v := os.Getenv("STRUM_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("STRUM_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}
