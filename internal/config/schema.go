package config

// Config is the root configuration structure.
type Config struct {
	Library LibraryConfig `toml:"library"`
	Player  PlayerConfig  `toml:"player"`
	TUI     TUIConfig     `toml:"tui"`
	Log     LogConfig     `toml:"log"`
}

// LibraryConfig holds filesystem locations.
type LibraryConfig struct {
	MusicDir    string `toml:"music_dir"`
	PlaylistDir string `toml:"playlist_dir"`
}

// PlayerConfig holds default playback settings applied on first run,
// before any session state has been persisted.
type PlayerConfig struct {
	Volume  int    `toml:"volume"`
	Shuffle bool   `toml:"shuffle"`
	Repeat  string `toml:"repeat"`
	SeekBy  int    `toml:"seek_by"` // seconds per seek keypress
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	RefreshInterval int `toml:"refresh_interval"` // milliseconds
}

// LogConfig holds logging settings. An empty file disables logging;
// a TUI process has no stdout to log to.
type LogConfig struct {
	Level      string `toml:"level"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
}

// State is the persisted session record: restored at startup, written
// on a debounced interval and on clean shutdown. It is user-preference
// state, not durable data; a crash loses at most the last unsaved
// change.
type State struct {
	Volume        int      `toml:"volume"`
	Muted         bool     `toml:"muted"`
	Repeat        string   `toml:"repeat"`
	Shuffle       bool     `toml:"shuffle"`
	Playlist      []string `toml:"playlist"`
	Cursor        int      `toml:"cursor"`
	LastDirectory string   `toml:"last_directory"`
}
