package session

import "github.com/strumapp/strum/internal/core"

// EventType classifies session events.
type EventType int

const (
	EventTrackChange EventType = iota
	EventPause
	EventResume
	EventStop
	EventVolume
	EventError
)

// String returns a short name for the event type.
func (t EventType) String() string {
	switch t {
	case EventTrackChange:
		return "track"
	case EventPause:
		return "pause"
	case EventResume:
		return "resume"
	case EventStop:
		return "stop"
	case EventVolume:
		return "volume"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// Event is a notification of a session state change. Track is set for
// track-related events, Volume for volume changes, Err for errors.
type Event struct {
	Type   EventType
	Track  *core.Track
	Volume int
	Err    error
}

// Events returns the event stream. A slow consumer loses events rather
// than stalling the session loop; the next snapshot carries the full
// state regardless.
func (s *Session) Events() <-chan Event { return s.events }

func (s *Session) emit(ev Event) {
	select {
	case s.events <- ev:
	default:
	}
}
