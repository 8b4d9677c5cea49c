package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error types for common failure scenarios.
var (
	// Input errors: benign, surfaced as a status message and a no-op.
	ErrEmptyPlaylist = errors.New("playlist is empty")
	ErrOutOfRange    = errors.New("index out of range")
	ErrNoHistory     = errors.New("history is empty")

	// Decode errors: recoverable at the session level.
	ErrDecode        = errors.New("cannot decode file")
	ErrUnsupported   = errors.New("unsupported audio format")
	ErrUnplayable    = errors.New("track is unplayable")
	ErrAllUnplayable = errors.New("no playable tracks in playlist")

	// Persistence errors: degrade to defaults on load, report on save.
	ErrConfigNotFound = errors.New("config file not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// StrumError wraps an error with a user-friendly suggestion.
type StrumError struct {
	Err        error
	Suggestion string
}

func (e *StrumError) Error() string {
	return e.Err.Error()
}

func (e *StrumError) Unwrap() error {
	return e.Err
}

// WithSuggestion wraps an error with a helpful suggestion.
func WithSuggestion(err error, suggestion string) error {
	return &StrumError{
		Err:        err,
		Suggestion: suggestion,
	}
}

// IsInput reports whether err is a benign input error that should be
// surfaced as a status message rather than propagated.
func IsInput(err error) bool {
	return errors.Is(err, ErrEmptyPlaylist) ||
		errors.Is(err, ErrOutOfRange) ||
		errors.Is(err, ErrNoHistory)
}

// GetSuggestion returns a suggestion for the given error.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	var strumErr *StrumError
	if errors.As(err, &strumErr) && strumErr.Suggestion != "" {
		return strumErr.Suggestion
	}

	errStr := strings.ToLower(err.Error())

	if errors.Is(err, ErrEmptyPlaylist) {
		return "Add tracks with the file browser (Tab) or pass files on the command line"
	}

	if errors.Is(err, ErrDecode) || errors.Is(err, ErrUnsupported) ||
		strings.Contains(errStr, "decode") {
		return "Supported formats: mp3, flac, wav, ogg"
	}

	if errors.Is(err, ErrAllUnplayable) {
		return "None of the playlist entries could be decoded; check that the files still exist"
	}

	if errors.Is(err, ErrConfigNotFound) || errors.Is(err, ErrInvalidConfig) ||
		strings.Contains(errStr, "config") {
		return "Check ~/.strumrc or ~/.config/strum/config.toml"
	}

	return ""
}

// Format returns a formatted error message with suggestion if available.
func Format(err error) string {
	if err == nil {
		return ""
	}

	suggestion := GetSuggestion(err)
	if suggestion != "" {
		return fmt.Sprintf("Error: %s\n\nSuggestion: %s", err.Error(), suggestion)
	}

	return fmt.Sprintf("Error: %s", err.Error())
}
