package session

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/strumapp/strum/internal/core"
	strumerrors "github.com/strumapp/strum/internal/errors"
	"github.com/strumapp/strum/internal/history"
	"github.com/strumapp/strum/internal/playlist"
)

// command is a state mutation or query executed on the session
// goroutine. apply runs with exclusive access to all session state.
type command interface {
	apply(s *Session)
}

// post queues a command for the session loop. The channel is buffered;
// a full buffer blocks the caller rather than dropping input.
func (s *Session) post(c command) { s.cmds <- c }

// --- playback transport ---

type cmdPlayPause struct{}

func (cmdPlayPause) apply(s *Session) {
	if s.pl.Len() == 0 {
		s.message = "playlist is empty"
		return
	}
	switch s.status {
	case core.Playing:
		s.backend.Pause()
		s.playedAccum += s.now().Sub(s.resumedAt)
		s.status = core.Paused
		s.message = "Paused"
		s.emit(Event{Type: EventPause, Track: s.pl.Current()})
	case core.Paused:
		if !s.loaded {
			s.loadCurrent(true)
			return
		}
		s.backend.Play()
		s.resumedAt = s.now()
		s.status = core.Playing
		s.message = "Playing"
		s.emit(Event{Type: EventResume, Track: s.pl.Current()})
	default: // Stopped
		s.loadCurrent(true)
	}
}

// PlayPause toggles between playing and paused. From stopped it starts
// the cursor's track from the beginning.
func (s *Session) PlayPause() { s.post(cmdPlayPause{}) }

type cmdNext struct{}

func (cmdNext) apply(s *Session) {
	if s.pl.Len() == 0 {
		s.message = "playlist is empty"
		return
	}
	s.recordCurrent(s.playedSoFar())

	wasActive := s.status != core.Stopped
	switch s.pl.Advance(playlist.Next) {
	case playlist.AdvanceOK:
		if wasActive {
			s.loadCurrent(s.status == core.Playing)
		} else {
			// Stopped: just move the selection.
			s.message = ""
		}
	case playlist.AdvanceEnd:
		s.stopPlayback()
		s.message = "end of playlist"
		s.emit(Event{Type: EventStop})
	}
}

// Next advances to the following track. At the end of the playlist
// with repeat off, playback stops.
func (s *Session) Next() { s.post(cmdNext{}) }

type cmdPrevious struct{}

func (cmdPrevious) apply(s *Session) {
	if s.pl.Len() == 0 {
		s.message = "playlist is empty"
		return
	}

	if s.loaded && s.backend.Position() >= smartPreviousThreshold {
		// Deep into the track: restart it rather than leave it.
		s.backend.Seek(0)
		s.position = 0
		s.playedAccum = 0
		s.resumedAt = s.now()
		s.message = "restarted"
		return
	}

	s.recordCurrent(s.playedSoFar())

	wasActive := s.status != core.Stopped
	if s.pl.Advance(playlist.Previous) == playlist.AdvanceOK {
		if wasActive {
			s.loadCurrent(s.status == core.Playing)
		} else {
			s.message = ""
		}
	}
}

// Previous restarts the current track when more than a few seconds in,
// otherwise moves to the prior track. At the start of the playlist
// with repeat off it restarts the first track.
func (s *Session) Previous() { s.post(cmdPrevious{}) }

type cmdSeekBy struct{ delta time.Duration }

func (c cmdSeekBy) apply(s *Session) {
	if !s.loaded || s.status == core.Stopped {
		return
	}
	pos := s.backend.Position() + c.delta
	if pos < 0 {
		pos = 0
	}
	if s.duration > 0 && pos > s.duration {
		pos = s.duration
	}
	s.backend.Seek(pos)
	s.position = pos
}

// SeekBy moves the playback position by delta, clamped to the track.
// Ignored while stopped.
func (s *Session) SeekBy(delta time.Duration) { s.post(cmdSeekBy{delta}) }

// --- volume ---

type cmdVolumeBy struct{ delta int }

func (c cmdVolumeBy) apply(s *Session) {
	s.volume = clampVolume(s.volume + c.delta)
	if !s.muted {
		s.backend.SetVolume(s.volume)
	}
	s.message = fmt.Sprintf("volume %d%%", s.volume)
	s.emit(Event{Type: EventVolume, Volume: s.volume})
}

// VolumeBy adjusts the stored volume by delta percentage points,
// clamped to [0,100]. While muted the output stays silent; the stored
// value is what unmuting restores.
func (s *Session) VolumeBy(delta int) { s.post(cmdVolumeBy{delta}) }

type cmdToggleMute struct{}

func (cmdToggleMute) apply(s *Session) {
	s.muted = !s.muted
	s.backend.SetVolume(s.outputVolume())
	if s.muted {
		s.message = "muted"
	} else {
		s.message = fmt.Sprintf("volume %d%%", s.volume)
	}
	s.emit(Event{Type: EventVolume, Volume: s.outputVolume()})
}

// ToggleMute silences output without losing the stored volume.
func (s *Session) ToggleMute() { s.post(cmdToggleMute{}) }

// --- playback modes ---

type cmdToggleShuffle struct{}

func (cmdToggleShuffle) apply(s *Session) {
	if s.pl.ToggleShuffle() {
		s.message = "shuffle on"
	} else {
		s.message = "shuffle off"
	}
}

// ToggleShuffle flips shuffle mode. The current track keeps playing.
func (s *Session) ToggleShuffle() { s.post(cmdToggleShuffle{}) }

type cmdCycleRepeat struct{}

func (cmdCycleRepeat) apply(s *Session) {
	s.message = "repeat " + s.pl.CycleRepeat().String()
}

// CycleRepeat steps repeat mode off -> one -> all -> off.
func (s *Session) CycleRepeat() { s.post(cmdCycleRepeat{}) }

// --- playlist editing ---

type cmdAddTracks struct{ tracks []core.Track }

func (c cmdAddTracks) apply(s *Session) {
	s.pl.Add(c.tracks...)
	s.message = fmt.Sprintf("added %d tracks", len(c.tracks))
}

// AddTracks appends tracks to the playlist.
func (s *Session) AddTracks(tracks []core.Track) { s.post(cmdAddTracks{tracks}) }

type cmdPlayIndex struct{ index int }

func (c cmdPlayIndex) apply(s *Session) {
	s.recordCurrent(s.playedSoFar())
	if err := s.pl.SetCursor(c.index); err != nil {
		s.message = strumerrors.Format(err)
		return
	}
	s.loadCurrent(true)
}

// PlayIndex jumps to the track at index and plays it from the start.
func (s *Session) PlayIndex(index int) { s.post(cmdPlayIndex{index}) }

type cmdRemoveAt struct{ index int }

func (c cmdRemoveAt) apply(s *Session) {
	removingCurrent := c.index == s.pl.Cursor()
	if removingCurrent {
		s.recordCurrent(s.playedSoFar())
	}
	wasPlaying := s.status == core.Playing

	if err := s.pl.Remove(c.index); err != nil {
		s.message = strumerrors.Format(err)
		return
	}

	if removingCurrent && s.loaded {
		s.backend.Stop()
		s.loaded = false
		if wasPlaying && s.pl.Len() > 0 {
			// The cursor already points at the successor.
			s.loadCurrent(true)
		} else {
			s.stopPlayback()
		}
	}
	s.message = "removed"
}

// RemoveAt deletes the track at index. Removing the playing track
// advances to its successor; removing the current track while paused
// stops playback instead, since there is no active play to carry over.
func (s *Session) RemoveAt(index int) { s.post(cmdRemoveAt{index}) }

type cmdClear struct{}

func (cmdClear) apply(s *Session) {
	s.recordCurrent(s.playedSoFar())
	s.stopPlayback()
	s.pl.Clear()
	s.message = "playlist cleared"
	s.emit(Event{Type: EventStop})
}

// Clear stops playback and empties the playlist. History is kept.
func (s *Session) Clear() { s.post(cmdClear{}) }

type cmdSavePlaylist struct {
	path  string
	reply chan error
}

func (c cmdSavePlaylist) apply(s *Session) {
	err := playlist.SaveM3U(c.path, s.pl.Tracks())
	if err != nil {
		s.log.Warn("playlist save failed", zap.String("path", c.path), zap.Error(err))
		s.message = fmt.Sprintf("could not save playlist: %v", err)
	} else {
		s.message = "saved " + c.path
	}
	c.reply <- err
}

// SavePlaylist writes the playlist to an M3U file and reports the
// result.
func (s *Session) SavePlaylist(path string) error {
	reply := make(chan error, 1)
	s.post(cmdSavePlaylist{path: path, reply: reply})
	return <-reply
}

// --- history ---

type cmdPlayHistory struct{ track core.Track }

func (c cmdPlayHistory) apply(s *Session) {
	s.recordCurrent(s.playedSoFar())

	i := s.pl.IndexOf(c.track.Path)
	if i < 0 {
		s.pl.Add(c.track)
		i = s.pl.Len() - 1
	}
	if err := s.pl.SetCursor(i); err != nil {
		s.message = strumerrors.Format(err)
		return
	}
	s.loadCurrent(true)
}

// PlayHistoryEntry replays a history entry's track: jumps to it when it
// is still in the playlist, otherwise appends it, then plays it from
// the start.
func (s *Session) PlayHistoryEntry(track core.Track) { s.post(cmdPlayHistory{track}) }

type cmdClearHistory struct{}

func (cmdClearHistory) apply(s *Session) {
	s.hist.Clear()
	s.message = "history cleared"
}

// ClearHistory empties the play history.
func (s *Session) ClearHistory() { s.post(cmdClearHistory{}) }

// --- misc state ---

type cmdSetLastDir struct{ dir string }

func (c cmdSetLastDir) apply(s *Session) { s.lastDir = c.dir }

// SetLastDirectory records the browser's directory for restoring on
// the next start.
func (s *Session) SetLastDirectory(dir string) { s.post(cmdSetLastDir{dir}) }

// --- queries ---

type cmdSnapshot struct{ reply chan core.PlaybackState }

func (c cmdSnapshot) apply(s *Session) { c.reply <- s.snapshot() }

// Snapshot returns a copy of the current playback state.
func (s *Session) Snapshot() core.PlaybackState {
	reply := make(chan core.PlaybackState, 1)
	s.post(cmdSnapshot{reply})
	return <-reply
}

type cmdTracks struct{ reply chan []core.Track }

func (c cmdTracks) apply(s *Session) { c.reply <- s.pl.Tracks() }

// PlaylistTracks returns a copy of the playlist in natural order.
func (s *Session) PlaylistTracks() []core.Track {
	reply := make(chan []core.Track, 1)
	s.post(cmdTracks{reply})
	return <-reply
}

type cmdHistoryEntries struct{ reply chan []history.Entry }

func (c cmdHistoryEntries) apply(s *Session) { c.reply <- s.hist.Entries() }

// HistoryEntries returns the play history, most recent first.
func (s *Session) HistoryEntries() []history.Entry {
	reply := make(chan []history.Entry, 1)
	s.post(cmdHistoryEntries{reply})
	return <-reply
}
