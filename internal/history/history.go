// Package history keeps a bounded log of completed plays.
package history

import (
	"time"

	"github.com/strumapp/strum/internal/core"
)

const (
	// MinPlayTime is how long a track must have played continuously
	// before advancing away from it for the play to qualify.
	MinPlayTime = 15 * time.Second

	// MaxEntries caps the log; inserting beyond it evicts the oldest.
	MaxEntries = 50
)

// Entry is a snapshot of a qualifying play. Entries are never mutated,
// only evicted.
type Entry struct {
	Track    core.Track
	PlayedAt time.Time
}

// Log is an append-only play log with FIFO eviction. Entries are
// stored oldest-first; Entries() reverses for display.
//
// Not safe for concurrent use: the session goroutine is the single
// owner.
type Log struct {
	entries []Entry
	now     func() time.Time
}

// New creates an empty log.
func New() *Log {
	return &Log{now: time.Now}
}

// SetClock overrides the timestamp source. Tests use this.
func (l *Log) SetClock(now func() time.Time) {
	l.now = now
}

// Record appends a play if it qualifies: the track played for at least
// MinPlayTime, and it is not an immediate repeat of the newest entry.
// Returns true if an entry was added.
func (l *Log) Record(track core.Track, played time.Duration) bool {
	if played < MinPlayTime {
		return false
	}
	if n := len(l.entries); n > 0 && l.entries[n-1].Track.Path == track.Path {
		return false
	}

	l.entries = append(l.entries, Entry{Track: track, PlayedAt: l.now()})
	if len(l.entries) > MaxEntries {
		l.entries = l.entries[len(l.entries)-MaxEntries:]
	}
	return true
}

// Entries returns a copy of the log, most recent first.
func (l *Log) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	for i, e := range l.entries {
		out[len(l.entries)-1-i] = e
	}
	return out
}

// Len returns the number of entries.
func (l *Log) Len() int { return len(l.entries) }

// Clear empties the log. Only an explicit history-clear action calls
// this; clearing the playlist does not.
func (l *Log) Clear() {
	l.entries = l.entries[:0]
}
