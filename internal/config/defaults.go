package config

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Player: PlayerConfig{
			Volume: 80,
			Repeat: "off",
			SeekBy: 5,
		},
		TUI: TUIConfig{
			RefreshInterval: 500,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// ApplyDefaults fills in zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	d := Default()

	if c.Player.Volume == 0 {
		c.Player.Volume = d.Player.Volume
	}
	if c.Player.Repeat == "" {
		c.Player.Repeat = d.Player.Repeat
	}
	if c.Player.SeekBy == 0 {
		c.Player.SeekBy = d.Player.SeekBy
	}

	if c.TUI.RefreshInterval == 0 {
		c.TUI.RefreshInterval = d.TUI.RefreshInterval
	}

	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.MaxSizeMB == 0 {
		c.Log.MaxSizeMB = d.Log.MaxSizeMB
	}
	if c.Log.MaxBackups == 0 {
		c.Log.MaxBackups = d.Log.MaxBackups
	}
}

// DefaultState returns the session state used on first run, seeded
// from the player defaults.
func (c *Config) DefaultState() State {
	return State{
		Volume:  c.Player.Volume,
		Repeat:  c.Player.Repeat,
		Shuffle: c.Player.Shuffle,
		Cursor:  -1,
	}
}
