// Package meta reads tags from audio files.
package meta

import (
	"os"

	"github.com/dhowden/tag"

	"github.com/strumapp/strum/internal/core"
)

// Reader implements core.MetadataReader on dhowden/tag. It never
// fails: unreadable files or missing tags degrade to placeholders.
type Reader struct{}

// New creates a Reader.
func New() Reader { return Reader{} }

// Read returns the file's tags, with placeholder fallbacks for
// anything missing. The fallback title is the filename without its
// extension.
func (Reader) Read(path string) core.Metadata {
	md := core.Metadata{
		Title:  core.FilenameTitle(path),
		Artist: core.UnknownArtist,
		Album:  core.UnknownAlbum,
	}

	f, err := os.Open(path)
	if err != nil {
		return md
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return md
	}

	if t := m.Title(); t != "" {
		md.Title = t
	}
	if a := m.Artist(); a != "" {
		md.Artist = a
	}
	if a := m.Album(); a != "" {
		md.Album = a
	}
	md.Year = m.Year()

	return md
}

// Track builds a core.Track for path with its tags filled in.
func Track(r core.MetadataReader, path string) core.Track {
	md := r.Read(path)
	return core.Track{
		Path:   path,
		Title:  md.Title,
		Artist: md.Artist,
		Album:  md.Album,
		Year:   md.Year,
	}
}

var _ core.MetadataReader = Reader{}
