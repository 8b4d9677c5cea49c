// Package browser navigates the filesystem for tracks and playlists.
package browser

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/strumapp/strum/internal/core"
	"github.com/strumapp/strum/internal/meta"
	"github.com/strumapp/strum/internal/playlist"
)

// scanBatchSize is how many tracks a library scan groups per send.
// Batching keeps channel traffic low on big libraries while still
// streaming results before the walk finishes.
const scanBatchSize = 50

var audioExts = map[string]bool{
	".mp3":  true,
	".flac": true,
	".wav":  true,
	".ogg":  true,
	".oga":  true,
}

// IsAudioPath reports whether path has a playable audio extension.
func IsAudioPath(path string) bool {
	return audioExts[strings.ToLower(filepath.Ext(path))]
}

// Entry is one row of a directory listing.
type Entry struct {
	Name  string
	Path  string
	IsDir bool
}

// Browser is a cursor over one directory at a time. Directories sort
// before files, each group alphabetically; only audio files and
// playlists are shown.
type Browser struct {
	dir      string
	entries  []Entry
	selected int
}

// New creates a browser rooted at dir and reads its listing. An
// unreadable dir falls back to the user's home directory, then to the
// filesystem root.
func New(dir string) *Browser {
	b := &Browser{}
	if err := b.SetDir(dir); err != nil {
		home, herr := os.UserHomeDir()
		if herr != nil || b.SetDir(home) != nil {
			_ = b.SetDir(string(filepath.Separator))
		}
	}
	return b
}

// Dir returns the directory currently listed.
func (b *Browser) Dir() string { return b.dir }

// Entries returns the current listing.
func (b *Browser) Entries() []Entry { return b.entries }

// Selected returns the index of the highlighted entry.
func (b *Browser) Selected() int { return b.selected }

// SelectedEntry returns the highlighted entry, or nil for an empty
// directory.
func (b *Browser) SelectedEntry() *Entry {
	if b.selected < 0 || b.selected >= len(b.entries) {
		return nil
	}
	return &b.entries[b.selected]
}

// SetDir switches to dir and rereads the listing. On failure the
// browser keeps its previous directory.
func (b *Browser) SetDir(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	entries, err := readDir(abs)
	if err != nil {
		return err
	}
	b.dir = abs
	b.entries = entries
	b.selected = 0
	return nil
}

// Refresh rereads the current directory, keeping the selection in
// range.
func (b *Browser) Refresh() error {
	entries, err := readDir(b.dir)
	if err != nil {
		return err
	}
	b.entries = entries
	if b.selected >= len(b.entries) {
		b.selected = len(b.entries) - 1
	}
	if b.selected < 0 {
		b.selected = 0
	}
	return nil
}

// SelectNext moves the highlight down one entry.
func (b *Browser) SelectNext() {
	if b.selected < len(b.entries)-1 {
		b.selected++
	}
}

// SelectPrev moves the highlight up one entry.
func (b *Browser) SelectPrev() {
	if b.selected > 0 {
		b.selected--
	}
}

// Enter descends into the highlighted directory. It reports whether a
// descent happened; file entries are the caller's to handle.
func (b *Browser) Enter() bool {
	e := b.SelectedEntry()
	if e == nil || !e.IsDir {
		return false
	}
	return b.SetDir(e.Path) == nil
}

// Up moves to the parent directory, highlighting the directory just
// left.
func (b *Browser) Up() {
	prev := b.dir
	parent := filepath.Dir(b.dir)
	if parent == b.dir {
		return
	}
	if b.SetDir(parent) != nil {
		return
	}
	if _, i, ok := lo.FindIndexOf(b.entries, func(e Entry) bool { return e.Path == prev }); ok {
		b.selected = i
	}
}

func readDir(dir string) ([]Entry, error) {
	items, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	entries := lo.FilterMap(items, func(it fs.DirEntry, _ int) (Entry, bool) {
		name := it.Name()
		if strings.HasPrefix(name, ".") {
			return Entry{}, false
		}
		if !it.IsDir() && !IsAudioPath(name) && !playlist.IsM3U(name) {
			return Entry{}, false
		}
		return Entry{
			Name:  name,
			Path:  filepath.Join(dir, name),
			IsDir: it.IsDir(),
		}, true
	})

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].IsDir != entries[j].IsDir {
			return entries[i].IsDir
		}
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})
	return entries, nil
}

// ScanAudio walks root recursively and streams batches of tracks for
// every audio file found, so a large library starts appearing in the
// playlist before the walk completes. The returned channel closes when
// the walk finishes or ctx is canceled. Unreadable subtrees are
// skipped.
func ScanAudio(ctx context.Context, root string, read core.MetadataReader) <-chan []core.Track {
	out := make(chan []core.Track, 1)
	go func() {
		defer close(out)

		batch := make([]core.Track, 0, scanBatchSize)
		flush := func() bool {
			if len(batch) == 0 {
				return true
			}
			select {
			case out <- batch:
				batch = make([]core.Track, 0, scanBatchSize)
				return true
			case <-ctx.Done():
				return false
			}
		}

		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if ctx.Err() != nil {
				return filepath.SkipAll
			}
			if err != nil {
				return nil
			}
			if d.IsDir() {
				if strings.HasPrefix(d.Name(), ".") && path != root {
					return filepath.SkipDir
				}
				return nil
			}
			if !IsAudioPath(path) {
				return nil
			}

			t := core.Track{Path: path, Title: core.FilenameTitle(path)}
			if read != nil {
				t = meta.Track(read, path)
			}
			batch = append(batch, t)
			if len(batch) >= scanBatchSize && !flush() {
				return filepath.SkipAll
			}
			return nil
		})
		flush()
	}()
	return out
}
