package core

import "time"

// Backend is the audio decode/output collaborator. The session issues
// fire-and-forget commands and never shares mutable state with it; the
// only signal flowing back is the Finished channel.
//
// Load begins decoding and playing the file asynchronously and returns
// a generation number identifying that load. The Finished channel
// carries the generation of the load that completed, so a completion
// signal for a track that has already been replaced can be told apart
// from one for the current track.
type Backend interface {
	Load(path string) (gen int, err error)
	Play()
	Pause()
	Stop()
	Seek(pos time.Duration)
	SetVolume(percent int)
	Position() time.Duration
	Duration() time.Duration
	Finished() <-chan int
	Close()
}

// MetadataReader reads tags from an audio file. It never fails:
// missing or unreadable tags degrade to placeholder values.
type MetadataReader interface {
	Read(path string) Metadata
}
