package session

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/strumapp/strum/internal/config"
	"github.com/strumapp/strum/internal/core"
	strumerrors "github.com/strumapp/strum/internal/errors"
	"github.com/strumapp/strum/internal/history"
	"github.com/strumapp/strum/internal/playlist"
)

// fakeBackend is a controllable core.Backend. Tests set pos to steer
// smart-previous and send on finished to simulate track completion.
type fakeBackend struct {
	mu sync.Mutex

	loads    []string
	gen      int
	failPath map[string]bool

	pos    time.Duration
	dur    time.Duration
	volume int
	paused bool
	stops  int
	seeks  []time.Duration

	finished chan int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		dur:      3 * time.Minute,
		failPath: make(map[string]bool),
		finished: make(chan int, 4),
	}
}

func (f *fakeBackend) Load(path string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPath[path] {
		return 0, strumerrors.ErrDecode
	}
	f.gen++
	f.loads = append(f.loads, path)
	f.pos = 0
	f.paused = false
	return f.gen, nil
}

func (f *fakeBackend) Play()  { f.mu.Lock(); f.paused = false; f.mu.Unlock() }
func (f *fakeBackend) Pause() { f.mu.Lock(); f.paused = true; f.mu.Unlock() }
func (f *fakeBackend) Stop()  { f.mu.Lock(); f.stops++; f.mu.Unlock() }

func (f *fakeBackend) Seek(pos time.Duration) {
	f.mu.Lock()
	f.seeks = append(f.seeks, pos)
	f.pos = pos
	f.mu.Unlock()
}

func (f *fakeBackend) SetVolume(percent int) {
	f.mu.Lock()
	f.volume = percent
	f.mu.Unlock()
}

func (f *fakeBackend) Position() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pos
}

func (f *fakeBackend) Duration() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dur
}

func (f *fakeBackend) Finished() <-chan int { return f.finished }
func (f *fakeBackend) Close()               {}

func (f *fakeBackend) setPos(d time.Duration) {
	f.mu.Lock()
	f.pos = d
	f.mu.Unlock()
}

func (f *fakeBackend) getVolume() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.volume
}

func (f *fakeBackend) loadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.loads)
}

func tracks(paths ...string) []core.Track {
	out := make([]core.Track, len(paths))
	for i, p := range paths {
		out[i] = core.Track{Path: p, Title: p}
	}
	return out
}

// newTestSession builds a session with a fake backend and a seeded
// playlist. Commands are applied directly in these tests; the loop is
// only exercised where serialization itself is under test.
func newTestSession(t *testing.T, paths ...string) (*Session, *fakeBackend) {
	t.Helper()
	fake := newFakeBackend()
	s := New(Options{Backend: fake, Volume: 50})
	s.pl.Add(tracks(paths...)...)
	return s, fake
}

func TestPlayPauseLifecycle(t *testing.T) {
	s, fake := newTestSession(t, "a.mp3", "b.mp3")

	cmdPlayPause{}.apply(s)
	if s.status != core.Playing {
		t.Fatalf("status = %v, want playing", s.status)
	}
	if fake.loadCount() != 1 || fake.loads[0] != "a.mp3" {
		t.Fatalf("loads = %v, want [a.mp3]", fake.loads)
	}

	cmdPlayPause{}.apply(s)
	if s.status != core.Paused {
		t.Fatalf("status = %v, want paused", s.status)
	}

	cmdPlayPause{}.apply(s)
	if s.status != core.Playing {
		t.Fatalf("status = %v, want playing after resume", s.status)
	}
	// Resume must not reload the track.
	if fake.loadCount() != 1 {
		t.Errorf("loads = %d, want 1", fake.loadCount())
	}
}

func TestEmptyPlaylistCommandsAreNoOps(t *testing.T) {
	s, fake := newTestSession(t)

	cmdPlayPause{}.apply(s)
	cmdNext{}.apply(s)
	cmdPrevious{}.apply(s)

	if s.status != core.Stopped {
		t.Errorf("status = %v, want stopped", s.status)
	}
	if fake.loadCount() != 0 {
		t.Errorf("loads = %d, want 0", fake.loadCount())
	}
	if s.message == "" {
		t.Error("expected a status message for empty playlist")
	}
}

func TestNextAdvancesAndStopsAtEnd(t *testing.T) {
	s, _ := newTestSession(t, "a.mp3", "b.mp3")

	cmdPlayPause{}.apply(s)
	cmdNext{}.apply(s)
	if s.pl.Cursor() != 1 || s.status != core.Playing {
		t.Fatalf("cursor = %d, status = %v, want 1/playing", s.pl.Cursor(), s.status)
	}

	cmdNext{}.apply(s)
	if s.status != core.Stopped {
		t.Errorf("status at end = %v, want stopped", s.status)
	}
	if s.pl.Cursor() != 1 {
		t.Errorf("cursor after end = %d, want 1", s.pl.Cursor())
	}
}

func TestNextWhileStoppedMovesSelectionOnly(t *testing.T) {
	s, fake := newTestSession(t, "a.mp3", "b.mp3")

	cmdNext{}.apply(s)
	if s.pl.Cursor() != 1 {
		t.Errorf("cursor = %d, want 1", s.pl.Cursor())
	}
	if fake.loadCount() != 0 {
		t.Errorf("loads = %d, want 0 while stopped", fake.loadCount())
	}
}

func TestSmartPrevious(t *testing.T) {
	tests := []struct {
		name        string
		pos         time.Duration
		wantCursor  int
		wantRestart bool
	}{
		{"under threshold goes back", 2900 * time.Millisecond, 0, false},
		{"exactly at threshold restarts", 3 * time.Second, 1, true},
		{"over threshold restarts", 3100 * time.Millisecond, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, fake := newTestSession(t, "a.mp3", "b.mp3")
			cmdPlayPause{}.apply(s)
			cmdNext{}.apply(s)
			if s.pl.Cursor() != 1 {
				t.Fatalf("setup: cursor = %d, want 1", s.pl.Cursor())
			}

			fake.setPos(tt.pos)
			loadsBefore := fake.loadCount()
			cmdPrevious{}.apply(s)

			if s.pl.Cursor() != tt.wantCursor {
				t.Errorf("cursor = %d, want %d", s.pl.Cursor(), tt.wantCursor)
			}
			if tt.wantRestart {
				if len(fake.seeks) == 0 || fake.seeks[len(fake.seeks)-1] != 0 {
					t.Errorf("seeks = %v, want seek to 0", fake.seeks)
				}
				if fake.loadCount() != loadsBefore {
					t.Errorf("restart reloaded the track")
				}
			} else {
				if fake.loadCount() != loadsBefore+1 {
					t.Errorf("loads = %d, want %d", fake.loadCount(), loadsBefore+1)
				}
			}
		})
	}
}

func TestPreviousAtFirstTrackRestarts(t *testing.T) {
	s, fake := newTestSession(t, "a.mp3", "b.mp3")
	cmdPlayPause{}.apply(s)
	fake.setPos(time.Second)

	cmdPrevious{}.apply(s)
	if s.pl.Cursor() != 0 {
		t.Errorf("cursor = %d, want 0", s.pl.Cursor())
	}
	// Reloaded from zero: Advance stays put and the session reloads.
	if fake.loadCount() != 2 {
		t.Errorf("loads = %d, want 2", fake.loadCount())
	}
	if s.status != core.Playing {
		t.Errorf("status = %v, want playing", s.status)
	}
}

func TestVolumeClamping(t *testing.T) {
	s, fake := newTestSession(t, "a.mp3")

	cmdVolumeBy{delta: 1000}.apply(s)
	if s.volume != 100 {
		t.Errorf("volume = %d, want 100", s.volume)
	}
	if fake.getVolume() != 100 {
		t.Errorf("backend volume = %d, want 100", fake.getVolume())
	}

	cmdVolumeBy{delta: -1000}.apply(s)
	if s.volume != 0 {
		t.Errorf("volume = %d, want 0", s.volume)
	}
}

func TestMutePreservesStoredVolume(t *testing.T) {
	s, fake := newTestSession(t, "a.mp3")

	cmdToggleMute{}.apply(s)
	if !s.muted || fake.getVolume() != 0 {
		t.Fatalf("muted = %v, backend volume = %d, want true/0", s.muted, fake.getVolume())
	}

	// Adjusting while muted updates the stored value only.
	cmdVolumeBy{delta: 10}.apply(s)
	if s.volume != 60 {
		t.Errorf("stored volume = %d, want 60", s.volume)
	}
	if fake.getVolume() != 0 {
		t.Errorf("backend volume while muted = %d, want 0", fake.getVolume())
	}

	cmdToggleMute{}.apply(s)
	if fake.getVolume() != 60 {
		t.Errorf("backend volume after unmute = %d, want 60", fake.getVolume())
	}
}

func TestStaleFinishedSignalIgnored(t *testing.T) {
	s, _ := newTestSession(t, "a.mp3", "b.mp3", "c.mp3")

	cmdPlayPause{}.apply(s) // gen 1
	cmdNext{}.apply(s)      // gen 2, cursor 1

	// The finished signal for the replaced track arrives late.
	s.onFinished(1)
	if s.pl.Cursor() != 1 {
		t.Fatalf("cursor = %d after stale signal, want 1", s.pl.Cursor())
	}
	if s.status != core.Playing {
		t.Fatalf("status = %v after stale signal, want playing", s.status)
	}

	// The current track's signal advances exactly once.
	s.onFinished(2)
	if s.pl.Cursor() != 2 {
		t.Errorf("cursor = %d, want 2", s.pl.Cursor())
	}
}

func TestNaturalCompletionAtEndStops(t *testing.T) {
	s, _ := newTestSession(t, "a.mp3")

	cmdPlayPause{}.apply(s)
	s.onFinished(1)

	if s.status != core.Stopped {
		t.Errorf("status = %v, want stopped", s.status)
	}
	if s.pl.Cursor() != 0 {
		t.Errorf("cursor = %d, want 0", s.pl.Cursor())
	}
}

func TestNaturalCompletionRepeatAllWraps(t *testing.T) {
	s, _ := newTestSession(t, "a.mp3", "b.mp3")
	s.pl.SetRepeat(core.RepeatAll)

	cmdPlayPause{}.apply(s)
	cmdNext{}.apply(s)
	s.onFinished(2)

	if s.pl.Cursor() != 0 {
		t.Errorf("cursor = %d, want 0 (wrapped)", s.pl.Cursor())
	}
	if s.status != core.Playing {
		t.Errorf("status = %v, want playing", s.status)
	}
}

func TestUnplayableTrackSkipped(t *testing.T) {
	s, fake := newTestSession(t, "bad.mp3", "good.mp3")
	fake.failPath["bad.mp3"] = true

	cmdPlayPause{}.apply(s)

	if s.status != core.Playing {
		t.Fatalf("status = %v, want playing", s.status)
	}
	if s.pl.Cursor() != 1 {
		t.Errorf("cursor = %d, want 1 (skipped bad track)", s.pl.Cursor())
	}
	if tr := s.pl.Track(0); tr == nil || !tr.Unplayable {
		t.Error("bad track not marked unplayable")
	}
}

func TestUnplayableTailStopsWithEndMessage(t *testing.T) {
	// Only the remainder of the traversal is broken; that is the end of
	// the playlist, not an all-unplayable condition.
	s, fake := newTestSession(t, "a.mp3", "bad.mp3")
	fake.failPath["bad.mp3"] = true

	cmdPlayPause{}.apply(s)
	cmdNext{}.apply(s)

	if s.status != core.Stopped {
		t.Fatalf("status = %v, want stopped", s.status)
	}
	if s.message == strumerrors.ErrAllUnplayable.Error() {
		t.Errorf("message = %q with a playable track still queued", s.message)
	}
	if s.message != "end of playlist" {
		t.Errorf("message = %q, want end of playlist", s.message)
	}
}

func TestRepeatOneUnplayableStopsWithoutAllUnplayable(t *testing.T) {
	s, fake := newTestSession(t, "bad.mp3", "good.mp3")
	fake.failPath["bad.mp3"] = true
	s.pl.SetRepeat(core.RepeatOne)

	cmdPlayPause{}.apply(s)

	if s.status != core.Stopped {
		t.Errorf("status = %v, want stopped", s.status)
	}
	if s.pl.Cursor() != 0 {
		t.Errorf("cursor = %d, want 0 (repeat one never advances)", s.pl.Cursor())
	}
	if s.message == strumerrors.ErrAllUnplayable.Error() {
		t.Errorf("message = %q, want a single-track failure message", s.message)
	}
}

func TestAllUnplayableStops(t *testing.T) {
	s, fake := newTestSession(t, "bad1.mp3", "bad2.mp3")
	fake.failPath["bad1.mp3"] = true
	fake.failPath["bad2.mp3"] = true

	cmdPlayPause{}.apply(s)

	if s.status != core.Stopped {
		t.Errorf("status = %v, want stopped", s.status)
	}
	if s.message != strumerrors.ErrAllUnplayable.Error() {
		t.Errorf("message = %q, want %q", s.message, strumerrors.ErrAllUnplayable.Error())
	}
}

func TestSeekByClamped(t *testing.T) {
	s, fake := newTestSession(t, "a.mp3")
	cmdPlayPause{}.apply(s)

	fake.setPos(10 * time.Second)
	cmdSeekBy{delta: -time.Minute}.apply(s)
	if got := fake.seeks[len(fake.seeks)-1]; got != 0 {
		t.Errorf("seek = %v, want 0 (clamped)", got)
	}

	fake.setPos(s.duration - time.Second)
	cmdSeekBy{delta: time.Minute}.apply(s)
	if got := fake.seeks[len(fake.seeks)-1]; got != s.duration {
		t.Errorf("seek = %v, want %v (clamped to duration)", got, s.duration)
	}
}

func TestSeekIgnoredWhileStopped(t *testing.T) {
	s, fake := newTestSession(t, "a.mp3")
	cmdSeekBy{delta: time.Second}.apply(s)
	if len(fake.seeks) != 0 {
		t.Errorf("seeks = %v, want none while stopped", fake.seeks)
	}
}

func TestRemoveCurrentWhilePlayingAdvances(t *testing.T) {
	s, fake := newTestSession(t, "a.mp3", "b.mp3", "c.mp3")
	cmdPlayPause{}.apply(s)

	cmdRemoveAt{index: 0}.apply(s)
	if s.pl.Len() != 2 {
		t.Fatalf("len = %d, want 2", s.pl.Len())
	}
	if s.pl.Current().Path != "b.mp3" {
		t.Errorf("current = %q, want b.mp3", s.pl.Current().Path)
	}
	if s.status != core.Playing {
		t.Errorf("status = %v, want playing", s.status)
	}
	if fake.loads[len(fake.loads)-1] != "b.mp3" {
		t.Errorf("last load = %q, want b.mp3", fake.loads[len(fake.loads)-1])
	}
}

func TestRemoveCurrentWhilePausedStops(t *testing.T) {
	// Only active playback carries across removing the current track;
	// paused has no play in flight, so the session stops.
	s, fake := newTestSession(t, "a.mp3", "b.mp3")
	cmdPlayPause{}.apply(s) // play
	cmdPlayPause{}.apply(s) // pause
	loads := fake.loadCount()

	cmdRemoveAt{index: 0}.apply(s)
	if s.status != core.Stopped {
		t.Errorf("status = %v, want stopped", s.status)
	}
	if fake.loadCount() != loads {
		t.Errorf("loads = %d, want %d (no successor loaded while paused)", fake.loadCount(), loads)
	}
	if s.pl.Current().Path != "b.mp3" {
		t.Errorf("current = %q, want b.mp3", s.pl.Current().Path)
	}
}

func TestRemoveOtherTrackKeepsPlayback(t *testing.T) {
	s, fake := newTestSession(t, "a.mp3", "b.mp3")
	cmdPlayPause{}.apply(s)
	loads := fake.loadCount()

	cmdRemoveAt{index: 1}.apply(s)
	if s.status != core.Playing {
		t.Errorf("status = %v, want playing", s.status)
	}
	if fake.loadCount() != loads {
		t.Errorf("removal of another track reloaded the current one")
	}
}

func TestClearStopsAndEmptiesPlaylistOnly(t *testing.T) {
	s, _ := newTestSession(t, "a.mp3", "b.mp3")
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.SetClock(func() time.Time { return clock })

	cmdPlayPause{}.apply(s)
	clock = clock.Add(time.Minute) // qualifies for history
	cmdNext{}.apply(s)

	cmdClear{}.apply(s)
	if s.pl.Len() != 0 || s.status != core.Stopped {
		t.Errorf("len = %d, status = %v, want 0/stopped", s.pl.Len(), s.status)
	}
	if s.hist.Len() == 0 {
		t.Error("clearing the playlist wiped history")
	}
}

func TestHistoryRecordedOnSkipAfterThreshold(t *testing.T) {
	tests := []struct {
		name    string
		playFor time.Duration
		want    int
	}{
		{"under threshold", 14 * time.Second, 0},
		{"at threshold", history.MinPlayTime, 1},
		{"over threshold", time.Minute, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestSession(t, "a.mp3", "b.mp3")
			clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
			s.SetClock(func() time.Time { return clock })

			cmdPlayPause{}.apply(s)
			clock = clock.Add(tt.playFor)
			cmdNext{}.apply(s)

			if s.hist.Len() != tt.want {
				t.Errorf("history len = %d, want %d", s.hist.Len(), tt.want)
			}
		})
	}
}

func TestPausedTimeDoesNotCount(t *testing.T) {
	s, _ := newTestSession(t, "a.mp3", "b.mp3")
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.SetClock(func() time.Time { return clock })

	cmdPlayPause{}.apply(s) // play
	clock = clock.Add(10 * time.Second)
	cmdPlayPause{}.apply(s) // pause
	clock = clock.Add(time.Hour)
	cmdPlayPause{}.apply(s) // resume
	clock = clock.Add(4 * time.Second)
	cmdNext{}.apply(s)

	// 14s of actual play despite the hour on the wall clock.
	if s.hist.Len() != 0 {
		t.Errorf("history len = %d, want 0 (paused time counted)", s.hist.Len())
	}
}

func TestNaturalCompletionRecordsByDuration(t *testing.T) {
	s, _ := newTestSession(t, "a.mp3", "b.mp3")

	cmdPlayPause{}.apply(s)
	s.onFinished(1) // fake duration is 3 minutes

	if s.hist.Len() != 1 {
		t.Fatalf("history len = %d, want 1", s.hist.Len())
	}
	if got := s.hist.Entries()[0].Track.Path; got != "a.mp3" {
		t.Errorf("recorded = %q, want a.mp3", got)
	}
}

func TestPlayHistoryEntryJumpsToQueuedTrack(t *testing.T) {
	s, fake := newTestSession(t, "a.mp3", "b.mp3")
	cmdPlayPause{}.apply(s)
	cmdNext{}.apply(s)
	if s.pl.Cursor() != 1 {
		t.Fatalf("setup: cursor = %d, want 1", s.pl.Cursor())
	}

	cmdPlayHistory{track: core.Track{Path: "a.mp3", Title: "a.mp3"}}.apply(s)

	if s.pl.Cursor() != 0 {
		t.Errorf("cursor = %d, want 0 (jumped to queued track)", s.pl.Cursor())
	}
	if s.pl.Len() != 2 {
		t.Errorf("len = %d, want 2 (no duplicate appended)", s.pl.Len())
	}
	if s.status != core.Playing {
		t.Errorf("status = %v, want playing", s.status)
	}
	if fake.loads[len(fake.loads)-1] != "a.mp3" {
		t.Errorf("last load = %q, want a.mp3", fake.loads[len(fake.loads)-1])
	}
}

func TestPlayHistoryEntryAppendsMissingTrack(t *testing.T) {
	s, fake := newTestSession(t, "a.mp3")
	cmdPlayPause{}.apply(s)

	gone := core.Track{Path: "gone.mp3", Title: "gone.mp3"}
	cmdPlayHistory{track: gone}.apply(s)

	if s.pl.Len() != 2 {
		t.Fatalf("len = %d, want 2 (entry appended)", s.pl.Len())
	}
	if s.pl.Cursor() != 1 || s.pl.Current().Path != "gone.mp3" {
		t.Errorf("cursor = %d current = %v, want the appended track", s.pl.Cursor(), s.pl.Current())
	}
	if s.status != core.Playing {
		t.Errorf("status = %v, want playing", s.status)
	}
	if fake.loads[len(fake.loads)-1] != "gone.mp3" {
		t.Errorf("last load = %q, want gone.mp3", fake.loads[len(fake.loads)-1])
	}
}

func TestDispatcherSerializesCommands(t *testing.T) {
	fake := newFakeBackend()
	store := config.NewStore(filepath.Join(t.TempDir(), "state.toml"))
	s := New(Options{
		Backend:      fake,
		Store:        store,
		Volume:       70,
		PollInterval: time.Hour,
		SaveInterval: time.Hour,
	})
	s.pl.Add(tracks("a.mp3", "b.mp3")...)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Run(ctx)
	}()

	s.PlayPause()
	s.VolumeBy(-20)
	s.Next()

	// Snapshot round-trips the command channel, so everything posted
	// above has been applied when it returns.
	st := s.Snapshot()
	if st.Status != core.Playing {
		t.Errorf("status = %v, want playing", st.Status)
	}
	if st.Index != 1 {
		t.Errorf("index = %d, want 1", st.Index)
	}
	if st.Volume != 50 {
		t.Errorf("volume = %d, want 50", st.Volume)
	}

	got := s.PlaylistTracks()
	if len(got) != 2 {
		t.Errorf("tracks = %d, want 2", len(got))
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("session loop did not exit")
	}

	// Shutdown persisted the state.
	restored := store.LoadState(config.State{Cursor: -1})
	if restored.Volume != 50 {
		t.Errorf("persisted volume = %d, want 50", restored.Volume)
	}
	if len(restored.Playlist) != 2 || restored.Cursor != 1 {
		t.Errorf("persisted playlist = %v cursor = %d, want 2 entries/cursor 1",
			restored.Playlist, restored.Cursor)
	}
}

func TestSavePlaylistCommand(t *testing.T) {
	fake := newFakeBackend()
	s := New(Options{Backend: fake, PollInterval: time.Hour, SaveInterval: time.Hour})
	s.pl.Add(tracks("/music/a.mp3", "/music/b.mp3")...)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Run(ctx)
	}()

	path := filepath.Join(t.TempDir(), "out.m3u")
	if err := s.SavePlaylist(path); err != nil {
		t.Fatalf("SavePlaylist() error = %v", err)
	}

	paths, err := playlist.LoadM3U(path)
	if err != nil {
		t.Fatalf("LoadM3U() error = %v", err)
	}
	if len(paths) != 2 || paths[0] != "/music/a.mp3" {
		t.Errorf("saved paths = %v", paths)
	}

	cancel()
	<-done
}

func TestEventsEmittedOnTrackChange(t *testing.T) {
	s, _ := newTestSession(t, "a.mp3")

	cmdPlayPause{}.apply(s)

	select {
	case ev := <-s.Events():
		if ev.Type != EventTrackChange {
			t.Errorf("event type = %v, want EventTrackChange", ev.Type)
		}
		if ev.Track == nil || ev.Track.Path != "a.mp3" {
			t.Errorf("event track = %v, want a.mp3", ev.Track)
		}
	default:
		t.Fatal("no event emitted")
	}
}

func TestSlowEventConsumerDoesNotBlock(t *testing.T) {
	s, _ := newTestSession(t, "a.mp3", "b.mp3")

	// Nobody drains the event channel; far more events than its
	// capacity must not deadlock.
	cmdPlayPause{}.apply(s)
	for i := 0; i < 100; i++ {
		cmdVolumeBy{delta: 1}.apply(s)
		cmdVolumeBy{delta: -1}.apply(s)
	}

	if s.status != core.Playing {
		t.Errorf("status = %v, want playing", s.status)
	}
}
