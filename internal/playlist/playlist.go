// Package playlist manages the ordered track list: cursor tracking,
// shuffle traversal, repeat modes, and M3U serialization.
package playlist

import (
	"math/rand"
	"time"

	"github.com/strumapp/strum/internal/core"
	strumerrors "github.com/strumapp/strum/internal/errors"
)

// Direction selects which way Advance traverses the playlist.
type Direction int

const (
	Next Direction = iota
	Previous
)

// Outcome reports what Advance did.
type Outcome int

const (
	// AdvanceOK means the cursor now points at the track to play. The
	// cursor may be unchanged (repeat-one, previous at the first
	// position): the track still restarts from zero.
	AdvanceOK Outcome = iota
	// AdvanceEmpty means there is nothing to play.
	AdvanceEmpty
	// AdvanceEnd means traversal hit the end with repeat off; playback
	// should stop. The cursor is left at its terminal position.
	AdvanceEnd
)

// Playlist is an ordered sequence of tracks with a cursor and an
// optional shuffle permutation over its indices.
//
// Not safe for concurrent use: the session goroutine is the single
// owner.
type Playlist struct {
	tracks []core.Track
	cursor int // -1 when empty

	shuffle bool
	order   []int // permutation of indices, nil when shuffle is off
	stale   bool  // order must be regenerated before the next traversal

	repeat   core.RepeatMode
	revision uint64

	rng *rand.Rand
}

// New creates an empty playlist.
func New() *Playlist {
	return &Playlist{cursor: -1}
}

// SetRand sets a deterministic random source for shuffle. Tests use
// this; production code leaves the default global source.
func (p *Playlist) SetRand(rng *rand.Rand) {
	p.rng = rng
}

// Len returns the number of tracks.
func (p *Playlist) Len() int { return len(p.tracks) }

// Revision increments on every mutation, letting readers detect stale
// copies of the track list without comparing contents.
func (p *Playlist) Revision() uint64 { return p.revision }

// Cursor returns the index of the current track, or -1 when empty.
func (p *Playlist) Cursor() int { return p.cursor }

// Current returns the current track, or nil when the playlist is empty.
func (p *Playlist) Current() *core.Track {
	if p.cursor < 0 || p.cursor >= len(p.tracks) {
		return nil
	}
	return &p.tracks[p.cursor]
}

// Track returns the track at index i, or nil if out of range.
func (p *Playlist) Track(i int) *core.Track {
	if i < 0 || i >= len(p.tracks) {
		return nil
	}
	return &p.tracks[i]
}

// Tracks returns a copy of the track sequence in storage order.
func (p *Playlist) Tracks() []core.Track {
	out := make([]core.Track, len(p.tracks))
	copy(out, p.tracks)
	return out
}

// IndexOf returns the index of the first track with the given path, or
// -1 when absent.
func (p *Playlist) IndexOf(path string) int {
	for i, t := range p.tracks {
		if t.Path == path {
			return i
		}
	}
	return -1
}

// Paths returns the track paths in storage order.
func (p *Playlist) Paths() []string {
	out := make([]string, len(p.tracks))
	for i, t := range p.tracks {
		out[i] = t.Path
	}
	return out
}

// Add appends tracks. Duplicate paths are kept as distinct entries;
// identity is positional. The first add into an empty playlist places
// the cursor on the first new track.
func (p *Playlist) Add(tracks ...core.Track) {
	if len(tracks) == 0 {
		return
	}
	wasEmpty := len(p.tracks) == 0
	p.tracks = append(p.tracks, tracks...)
	if wasEmpty {
		p.cursor = 0
	}
	p.invalidate()
}

// Remove deletes the entry at index i. If i was the cursor, the cursor
// moves to the entry that slid into the same position, clamped to the
// last entry, or -1 when the playlist becomes empty.
func (p *Playlist) Remove(i int) error {
	if i < 0 || i >= len(p.tracks) {
		return strumerrors.ErrOutOfRange
	}
	p.tracks = append(p.tracks[:i], p.tracks[i+1:]...)

	switch {
	case len(p.tracks) == 0:
		p.cursor = -1
	case i < p.cursor:
		p.cursor--
	case p.cursor >= len(p.tracks):
		p.cursor = len(p.tracks) - 1
	}

	p.invalidate()
	return nil
}

// Clear empties the playlist. History is untouched; that belongs to
// the history log.
func (p *Playlist) Clear() {
	p.tracks = p.tracks[:0]
	p.cursor = -1
	p.invalidate()
}

// SetCursor jumps the cursor to index i.
func (p *Playlist) SetCursor(i int) error {
	if i < 0 || i >= len(p.tracks) {
		return strumerrors.ErrOutOfRange
	}
	p.cursor = i
	p.revision++
	return nil
}

// MarkUnplayable flags the track at index i as undecodable.
func (p *Playlist) MarkUnplayable(i int) {
	if i >= 0 && i < len(p.tracks) {
		p.tracks[i].Unplayable = true
		p.revision++
	}
}

// SetTrackDuration caches the backend-reported duration on the track
// at index i once the file has been decoded.
func (p *Playlist) SetTrackDuration(i int, d time.Duration) {
	if i >= 0 && i < len(p.tracks) && p.tracks[i].Duration != d {
		p.tracks[i].Duration = d
		p.revision++
	}
}

// AllUnplayable reports whether every track has failed to decode.
// False for an empty playlist.
func (p *Playlist) AllUnplayable() bool {
	if len(p.tracks) == 0 {
		return false
	}
	for _, t := range p.tracks {
		if !t.Unplayable {
			return false
		}
	}
	return true
}

// Shuffled returns whether shuffle is enabled.
func (p *Playlist) Shuffled() bool { return p.shuffle }

// ToggleShuffle flips shuffle and returns the new state. Turning it on
// marks the permutation for lazy generation; turning it off discards
// it, restoring sequence order for traversal.
func (p *Playlist) ToggleShuffle() bool {
	p.shuffle = !p.shuffle
	p.order = nil
	p.stale = p.shuffle
	p.revision++
	return p.shuffle
}

// Repeat returns the current repeat mode.
func (p *Playlist) Repeat() core.RepeatMode { return p.repeat }

// SetRepeat sets the repeat mode directly (used when restoring state).
func (p *Playlist) SetRepeat(mode core.RepeatMode) {
	p.repeat = mode
	p.revision++
}

// CycleRepeat advances the repeat mode Off -> One -> All -> Off.
func (p *Playlist) CycleRepeat() core.RepeatMode {
	switch p.repeat {
	case core.RepeatOff:
		p.repeat = core.RepeatOne
	case core.RepeatOne:
		p.repeat = core.RepeatAll
	default:
		p.repeat = core.RepeatOff
	}
	p.revision++
	return p.repeat
}

// Advance moves the cursor per the current shuffle and repeat state
// and reports the outcome. It never loops: at most one step is taken.
func (p *Playlist) Advance(dir Direction) Outcome {
	if len(p.tracks) == 0 {
		return AdvanceEmpty
	}

	// Repeat-one replays the current track regardless of direction.
	if p.repeat == core.RepeatOne {
		return AdvanceOK
	}

	order := p.traversalOrder()
	pos := p.orderPos(order)

	switch dir {
	case Next:
		if pos+1 < len(order) {
			p.cursor = order[pos+1]
			p.revision++
			return AdvanceOK
		}
		if p.repeat == core.RepeatAll {
			p.cursor = order[0]
			p.revision++
			return AdvanceOK
		}
		return AdvanceEnd

	default: // Previous
		if pos > 0 {
			p.cursor = order[pos-1]
			p.revision++
			return AdvanceOK
		}
		if p.repeat == core.RepeatAll {
			p.cursor = order[len(order)-1]
			p.revision++
			return AdvanceOK
		}
		// At the first position without wrap: stay put. The session
		// restarts the track from zero.
		return AdvanceOK
	}
}

// traversalOrder returns the index order used for Advance, generating
// the shuffle permutation lazily if it was invalidated.
func (p *Playlist) traversalOrder() []int {
	if !p.shuffle {
		order := make([]int, len(p.tracks))
		for i := range order {
			order[i] = i
		}
		return order
	}
	if p.stale || len(p.order) != len(p.tracks) {
		p.generateOrder()
	}
	return p.order
}

// generateOrder builds a uniform permutation of indices that places
// the cursor's track first, so enabling shuffle never jumps to an
// unrelated track mid-listen.
func (p *Playlist) generateOrder() {
	n := len(p.tracks)
	first := p.cursor
	if first < 0 {
		first = 0
	}

	rest := make([]int, 0, n-1)
	for i := 0; i < n; i++ {
		if i != first {
			rest = append(rest, i)
		}
	}
	p.shuffleInts(rest)

	p.order = make([]int, 0, n)
	p.order = append(p.order, first)
	p.order = append(p.order, rest...)
	p.stale = false
}

func (p *Playlist) shuffleInts(s []int) {
	swap := func(i, j int) { s[i], s[j] = s[j], s[i] }
	if p.rng != nil {
		p.rng.Shuffle(len(s), swap)
	} else {
		rand.Shuffle(len(s), swap)
	}
}

// orderPos finds the cursor's position within the traversal order.
func (p *Playlist) orderPos(order []int) int {
	for pos, idx := range order {
		if idx == p.cursor {
			return pos
		}
	}
	return 0
}

// invalidate marks the shuffle order stale and bumps the revision.
// Called on every structural mutation.
func (p *Playlist) invalidate() {
	p.order = nil
	p.stale = p.shuffle
	p.revision++
}
