package core

import (
	"path/filepath"
	"strings"
	"time"
)

// Placeholder values used when tag lookup fails or a field is absent.
const (
	UnknownArtist = "Unknown Artist"
	UnknownAlbum  = "Unknown Album"
)

// Track represents a playable audio file plus its cached metadata.
// Path is the only required field; everything else degrades to a
// placeholder. Duration is filled lazily by the audio backend once the
// file has been decoded.
type Track struct {
	Path     string        `json:"path"`
	Title    string        `json:"title"`
	Artist   string        `json:"artist"`
	Album    string        `json:"album"`
	Year     int           `json:"year"`
	Duration time.Duration `json:"duration"`

	// Unplayable is set when the backend failed to decode this file.
	// The session skips unplayable tracks when auto-advancing.
	Unplayable bool `json:"-"`
}

// Metadata holds the fields a tag reader can provide for a file.
type Metadata struct {
	Title  string
	Artist string
	Album  string
	Year   int
}

// FilenameTitle derives a display title from a path: the base name
// without its extension.
func FilenameTitle(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// DisplayName returns "Artist — Title" when the artist is known,
// otherwise just the title.
func (t Track) DisplayName() string {
	title := t.Title
	if title == "" {
		title = FilenameTitle(t.Path)
	}
	if t.Artist == "" || t.Artist == UnknownArtist {
		return title
	}
	return t.Artist + " — " + title
}
