package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/strumapp/strum/internal/core"
	"github.com/strumapp/strum/internal/tui/styles"
)

// PlayerBar displays the current track, transport state, and progress.
type PlayerBar struct{}

// NewPlayerBar creates a PlayerBar component.
func NewPlayerBar() *PlayerBar {
	return &PlayerBar{}
}

// Render renders the player panel.
func (p *PlayerBar) Render(state core.PlaybackState, width, height int, focused bool) string {
	title := styles.PanelTitle("Player", focused)

	var content string
	if !state.HasTrack() || state.Status == core.Stopped {
		content = styles.Muted.Render("Nothing playing")
	} else {
		content = p.renderTrack(state, width-4)
	}

	panel := styles.Panel(focused).
		Width(width).
		Height(height)

	return panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		content,
	))
}

func (p *PlayerBar) renderTrack(state core.PlaybackState, width int) string {
	track := state.Track

	icon := styles.StatusIcon(state.Status == core.Playing)
	title := styles.Title.Width(width - 4).Render(styles.Truncate(track.Title, width-4))
	artist := styles.Subtitle.Render(styles.Truncate(track.Artist, width-4))
	album := styles.Dim.Render(styles.Truncate(track.Album, width-4))

	progressWidth := width - 14 // time stamps on either side
	if progressWidth < 10 {
		progressWidth = 10
	}
	bar := styles.ProgressBar(state.ProgressPercent(), progressWidth)
	progress := fmt.Sprintf("%s %s %s",
		FormatDuration(state.Position),
		bar,
		FormatDuration(state.Duration))

	return lipgloss.JoinVertical(lipgloss.Left,
		icon+" "+title,
		"  "+artist,
		"  "+album,
		"",
		progress,
		"",
		p.renderModes(state),
	)
}

func (p *PlayerBar) renderModes(state core.PlaybackState) string {
	vol := fmt.Sprintf("vol %d%%", state.Volume)
	if state.Muted {
		vol = "muted"
	}

	shuffle := "shuffle off"
	if state.Shuffle {
		shuffle = "shuffle on"
	}

	return styles.Muted.Render(fmt.Sprintf("%s  %s  repeat %s", vol, shuffle, state.Repeat))
}

// FormatDuration renders a duration as m:ss.
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	m := d / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%d:%02d", m, s)
}
