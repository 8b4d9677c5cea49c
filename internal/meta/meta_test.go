package meta

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/strumapp/strum/internal/core"
)

func TestReadFallsBackToPlaceholders(t *testing.T) {
	// A file with no parseable tags degrades to filename title and
	// unknown artist/album instead of failing.
	dir := t.TempDir()
	path := filepath.Join(dir, "03 - Some Song.mp3")
	if err := os.WriteFile(path, []byte("not real audio"), 0o644); err != nil {
		t.Fatal(err)
	}

	md := New().Read(path)
	if md.Title != "03 - Some Song" {
		t.Errorf("Title = %q, want filename-derived title", md.Title)
	}
	if md.Artist != core.UnknownArtist {
		t.Errorf("Artist = %q, want %q", md.Artist, core.UnknownArtist)
	}
	if md.Album != core.UnknownAlbum {
		t.Errorf("Album = %q, want %q", md.Album, core.UnknownAlbum)
	}
}

func TestReadMissingFile(t *testing.T) {
	md := New().Read(filepath.Join(t.TempDir(), "missing.mp3"))
	if md.Title != "missing" {
		t.Errorf("Title = %q, want missing", md.Title)
	}
	if md.Artist != core.UnknownArtist {
		t.Errorf("Artist = %q, want %q", md.Artist, core.UnknownArtist)
	}
}

func TestTrackBuildsFromReader(t *testing.T) {
	tr := Track(New(), filepath.Join(t.TempDir(), "song.flac"))
	if tr.Path == "" || tr.Title != "song" {
		t.Errorf("Track = %+v", tr)
	}
	if tr.Artist != core.UnknownArtist {
		t.Errorf("Artist = %q, want placeholder", tr.Artist)
	}
}
