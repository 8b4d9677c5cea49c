package core

import (
	"fmt"
	"time"
)

// Status represents the playback status of the session.
type Status int

const (
	Stopped Status = iota
	Playing
	Paused
)

func (s Status) String() string {
	switch s {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "stopped"
	}
}

// RepeatMode controls what happens at the end of playlist traversal.
type RepeatMode int

const (
	RepeatOff RepeatMode = iota
	RepeatOne
	RepeatAll
)

func (r RepeatMode) String() string {
	switch r {
	case RepeatOne:
		return "one"
	case RepeatAll:
		return "all"
	default:
		return "off"
	}
}

// ParseRepeatMode converts a persisted repeat string back to a mode.
// Unrecognized values fall back to RepeatOff.
func ParseRepeatMode(s string) (RepeatMode, error) {
	switch s {
	case "", "off":
		return RepeatOff, nil
	case "one":
		return RepeatOne, nil
	case "all":
		return RepeatAll, nil
	default:
		return RepeatOff, fmt.Errorf("invalid repeat mode: %q", s)
	}
}

// PlaybackState is an immutable snapshot of the session, handed out to
// readers so they never touch session-owned state directly.
type PlaybackState struct {
	Status   Status
	Track    *Track
	Index    int // playlist index of the current track, -1 if none
	Position time.Duration
	Duration time.Duration
	Volume   int
	Muted    bool
	Shuffle  bool
	Repeat   RepeatMode

	// Revision increments on every playlist mutation; readers use it to
	// detect when their copy of the track list is stale.
	Revision uint64

	// Message is the most recent status-line text (benign errors,
	// confirmations), empty when there is nothing to show.
	Message string
}

// HasTrack returns true if there is a current track.
func (s PlaybackState) HasTrack() bool {
	return s.Track != nil
}

// ProgressPercent returns playback progress as a percentage (0-100).
func (s PlaybackState) ProgressPercent() float64 {
	if s.Track == nil || s.Duration == 0 {
		return 0
	}
	p := float64(s.Position) / float64(s.Duration) * 100
	if p > 100 {
		p = 100
	}
	return p
}
