// Package session owns the authoritative playback state: what is
// playing, what plays next, and what has played.
//
// All mutation happens on a single goroutine (Run). User commands,
// backend completion signals, and the position-sampling tick are
// funneled through one channel, so the playlist, history, and session
// state need no locks.
package session

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/strumapp/strum/internal/config"
	"github.com/strumapp/strum/internal/core"
	strumerrors "github.com/strumapp/strum/internal/errors"
	"github.com/strumapp/strum/internal/history"
	"github.com/strumapp/strum/internal/playlist"
)

// smartPreviousThreshold is the position at or beyond which Previous
// restarts the current track instead of moving to the prior one.
// Exactly 3.0s restarts.
const smartPreviousThreshold = 3 * time.Second

// Options configures a Session.
type Options struct {
	Backend core.Backend
	Logger  *zap.Logger
	Store   *config.Store // nil disables persistence

	PollInterval time.Duration // position sampling period
	SaveInterval time.Duration // debounced state persistence period

	// Initial state, typically restored from config.Store.
	Volume  int
	Muted   bool
	Shuffle bool
	Repeat  core.RepeatMode
	LastDir string
}

// Session is the playback state machine. Construct with New, seed the
// playlist before calling Run, then drive it only through the
// dispatcher methods in commands.go.
type Session struct {
	backend core.Backend
	pl      *playlist.Playlist
	hist    *history.Log
	store   *config.Store
	log     *zap.Logger

	status   core.Status
	volume   int
	muted    bool
	position time.Duration
	duration time.Duration
	message  string
	lastDir  string

	// gen is the backend generation of the currently loaded track;
	// completion signals with any other generation are stale.
	gen    int
	loaded bool

	// Continuous-play accumulator for the history threshold. Pausing
	// stops the clock; loading a track resets it.
	playedAccum time.Duration
	resumedAt   time.Time

	now func() time.Time

	cmds   chan command
	events chan Event

	pollInterval time.Duration
	saveInterval time.Duration
}

// New creates a Session. The playlist starts empty; seed it with
// Playlist().Add before Run, or via the AddTracks command after.
func New(opts Options) *Session {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	poll := opts.PollInterval
	if poll == 0 {
		poll = 500 * time.Millisecond
	}
	save := opts.SaveInterval
	if save == 0 {
		save = 30 * time.Second
	}

	s := &Session{
		backend:      opts.Backend,
		pl:           playlist.New(),
		hist:         history.New(),
		store:        opts.Store,
		log:          log,
		status:       core.Stopped,
		volume:       clampVolume(opts.Volume),
		muted:        opts.Muted,
		lastDir:      opts.LastDir,
		now:          time.Now,
		cmds:         make(chan command, 64),
		events:       make(chan Event, 16),
		pollInterval: poll,
		saveInterval: save,
	}

	if opts.Shuffle {
		s.pl.ToggleShuffle()
	}
	s.pl.SetRepeat(opts.Repeat)

	s.backend.SetVolume(s.outputVolume())
	return s
}

// Playlist exposes the playlist for seeding before Run starts. Once
// Run is consuming commands, all access must go through the
// dispatcher.
func (s *Session) Playlist() *playlist.Playlist { return s.pl }

// History exposes the history log for the same seeding window.
func (s *Session) History() *history.Log { return s.hist }

// SetClock overrides the time source. Tests use this.
func (s *Session) SetClock(now func() time.Time) { s.now = now }

// Run consumes commands, backend signals, and ticks until ctx is
// canceled. On shutdown the current play is recorded (quitting counts
// as advancing away) and state is persisted.
func (s *Session) Run(ctx context.Context) {
	tick := time.NewTicker(s.pollInterval)
	defer tick.Stop()
	save := time.NewTicker(s.saveInterval)
	defer save.Stop()

	for {
		select {
		case <-ctx.Done():
			s.recordCurrent(s.playedSoFar())
			s.persist()
			return

		case cmd := <-s.cmds:
			cmd.apply(s)

		case gen := <-s.backend.Finished():
			s.onFinished(gen)

		case <-tick.C:
			s.samplePosition()

		case <-save.C:
			s.persist()
		}
	}
}

// onFinished handles the backend's completion signal. A generation
// mismatch means the signal belongs to a track that has already been
// replaced; dropping it is what prevents a double advance when a Next
// command races the natural end of the same track.
func (s *Session) onFinished(gen int) {
	if !s.loaded || gen != s.gen {
		s.log.Debug("stale completion signal", zap.Int("gen", gen))
		return
	}

	// Natural completion: the full track played, so the qualifying
	// check runs against its duration (or the play clock when the
	// duration is unknown).
	played := s.duration
	if played == 0 {
		played = s.playedSoFar()
	}
	s.recordCurrent(played)

	s.loaded = false
	switch s.pl.Advance(playlist.Next) {
	case playlist.AdvanceOK:
		s.loadCurrent(true)
	default:
		s.stopPlayback()
		s.emit(Event{Type: EventStop})
	}
}

// samplePosition refreshes the cached position from the backend. This
// is the periodic tick; it must stay cheap.
func (s *Session) samplePosition() {
	if !s.loaded {
		return
	}
	s.position = s.backend.Position()
	if s.duration == 0 {
		if d := s.backend.Duration(); d > 0 {
			s.duration = d
			s.pl.SetTrackDuration(s.pl.Cursor(), d)
		}
	}
}

// loadCurrent loads the cursor's track into the backend at position
// zero. Decode failures mark the track unplayable and advance; only
// when nothing in the playlist is playable does playback stop with one
// aggregated error instead of one per track. Running off the end while
// skipping broken files stops with a plain end-of-playlist message.
func (s *Session) loadCurrent(play bool) {
	for attempts := 0; attempts < s.pl.Len(); attempts++ {
		cur := s.pl.Current()
		if cur == nil {
			s.stopPlayback()
			return
		}

		gen, err := s.backend.Load(cur.Path)
		if err != nil {
			s.log.Warn("track unplayable", zap.String("path", cur.Path), zap.Error(err))
			s.pl.MarkUnplayable(s.pl.Cursor())
			s.emit(Event{Type: EventError, Track: cur, Err: err})

			// Repeat-one never advances, so retrying would spin on
			// the same broken file.
			if s.pl.Repeat() == core.RepeatOne {
				s.stopPlayback()
				s.message = "cannot play " + cur.DisplayName()
				return
			}
			if s.pl.Advance(playlist.Next) != playlist.AdvanceOK {
				break
			}
			continue
		}

		s.gen = gen
		s.loaded = true
		s.position = 0
		s.duration = s.backend.Duration()
		if s.duration > 0 {
			s.pl.SetTrackDuration(s.pl.Cursor(), s.duration)
		}
		s.playedAccum = 0
		s.resumedAt = s.now()

		if play {
			s.status = core.Playing
		} else {
			s.backend.Pause()
			s.status = core.Paused
		}

		s.message = "Playing: " + cur.DisplayName()
		s.emit(Event{Type: EventTrackChange, Track: s.pl.Current()})
		return
	}

	s.stopPlayback()
	if s.pl.AllUnplayable() {
		s.message = strumerrors.ErrAllUnplayable.Error()
		s.emit(Event{Type: EventError, Err: strumerrors.ErrAllUnplayable})
		return
	}

	// Traversal hit the end while skipping broken files; earlier tracks
	// may still be fine.
	s.message = "end of playlist"
	s.emit(Event{Type: EventStop})
}

// stopPlayback stops the backend and resets per-track state. The
// cursor is left where traversal ended.
func (s *Session) stopPlayback() {
	s.backend.Stop()
	s.status = core.Stopped
	s.loaded = false
	s.position = 0
	s.duration = 0
	s.playedAccum = 0
}

// recordCurrent logs the current track as played if it qualifies.
func (s *Session) recordCurrent(played time.Duration) {
	cur := s.pl.Current()
	if cur == nil {
		return
	}
	if s.hist.Record(*cur, played) {
		s.log.Debug("history recorded",
			zap.String("path", cur.Path),
			zap.Duration("played", played))
	}
}

// playedSoFar returns how long the current track has played
// continuously, excluding paused time.
func (s *Session) playedSoFar() time.Duration {
	if !s.loaded {
		return 0
	}
	played := s.playedAccum
	if s.status == core.Playing {
		played += s.now().Sub(s.resumedAt)
	}
	return played
}

// outputVolume is what the backend should actually output: zero while
// muted, the stored volume otherwise.
func (s *Session) outputVolume() int {
	if s.muted {
		return 0
	}
	return s.volume
}

// persist writes the session state through the store. Failures are
// reported, never fatal; in-memory state is untouched.
func (s *Session) persist() {
	if s.store == nil {
		return
	}
	st := config.State{
		Volume:        s.volume,
		Muted:         s.muted,
		Repeat:        s.pl.Repeat().String(),
		Shuffle:       s.pl.Shuffled(),
		Playlist:      s.pl.Paths(),
		Cursor:        s.pl.Cursor(),
		LastDirectory: s.lastDir,
	}
	wrote, err := s.store.SaveState(st)
	if err != nil {
		s.log.Warn("state save failed", zap.Error(err))
		s.message = fmt.Sprintf("could not save state: %v", err)
		return
	}
	if wrote {
		s.log.Debug("state saved", zap.String("path", s.store.Path()))
	}
}

// snapshot builds the immutable state copy handed to readers.
func (s *Session) snapshot() core.PlaybackState {
	st := core.PlaybackState{
		Status:   s.status,
		Index:    s.pl.Cursor(),
		Position: s.position,
		Duration: s.duration,
		Volume:   s.volume,
		Muted:    s.muted,
		Shuffle:  s.pl.Shuffled(),
		Repeat:   s.pl.Repeat(),
		Revision: s.pl.Revision(),
		Message:  s.message,
	}
	if cur := s.pl.Current(); cur != nil {
		t := *cur
		st.Track = &t
	}
	return st
}

func clampVolume(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
