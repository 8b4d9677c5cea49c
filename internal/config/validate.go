package config

import (
	"errors"
	"fmt"
)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Player.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("player: %w", err))
	}
	if err := c.TUI.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("tui: %w", err))
	}
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("log: %w", err))
	}

	return errors.Join(errs...)
}

// Validate checks PlayerConfig for errors.
func (c *PlayerConfig) Validate() error {
	if c.Volume < 0 || c.Volume > 100 {
		return errors.New("volume must be between 0 and 100")
	}
	switch c.Repeat {
	case "", "off", "one", "all":
		// valid
	default:
		return fmt.Errorf("invalid repeat mode: %s (must be off, one, or all)", c.Repeat)
	}
	if c.SeekBy < 0 {
		return errors.New("seek_by must be non-negative")
	}
	return nil
}

// Validate checks TUIConfig for errors.
func (c *TUIConfig) Validate() error {
	if c.RefreshInterval < 0 {
		return errors.New("refresh_interval must be non-negative")
	}
	return nil
}

// Validate checks LogConfig for errors.
func (c *LogConfig) Validate() error {
	switch c.Level {
	case "", "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Level)
	}
	return nil
}

// Normalize clamps persisted state back into valid ranges. A state
// file written by a newer build or edited by hand must never crash the
// player: out-of-range values are clamped, an invalid repeat mode
// falls back to off, and a cursor outside the playlist is clamped to
// its last entry.
func (s *State) Normalize() {
	if s.Volume < 0 {
		s.Volume = 0
	}
	if s.Volume > 100 {
		s.Volume = 100
	}
	switch s.Repeat {
	case "off", "one", "all":
	default:
		s.Repeat = "off"
	}
	if len(s.Playlist) == 0 {
		s.Cursor = -1
		return
	}
	if s.Cursor < 0 {
		s.Cursor = 0
	}
	if s.Cursor >= len(s.Playlist) {
		s.Cursor = len(s.Playlist) - 1
	}
}
