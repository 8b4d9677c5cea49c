package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/strumapp/strum/internal/core"
	"github.com/strumapp/strum/internal/tui/styles"
)

// PlaylistView displays the playlist with a movable selection.
type PlaylistView struct {
	offset   int
	selected int
}

// NewPlaylistView creates a PlaylistView component.
func NewPlaylistView() *PlaylistView {
	return &PlaylistView{}
}

// Selected returns the selected index.
func (v *PlaylistView) Selected() int { return v.selected }

// SelectNext moves the selection down one row.
func (v *PlaylistView) SelectNext(n int) {
	if v.selected < n-1 {
		v.selected++
	}
}

// SelectPrev moves the selection up one row.
func (v *PlaylistView) SelectPrev() {
	if v.selected > 0 {
		v.selected--
	}
}

// Clamp keeps the selection valid after the playlist changed size.
func (v *PlaylistView) Clamp(n int) {
	if v.selected >= n {
		v.selected = n - 1
	}
	if v.selected < 0 {
		v.selected = 0
	}
}

// Render renders the playlist panel. playing is the cursor index of
// the track currently loaded, or -1.
func (v *PlaylistView) Render(tracks []core.Track, playing int, width, height int, focused bool) string {
	title := styles.PanelTitle(fmt.Sprintf("Playlist (%d)", len(tracks)), focused)

	var content string
	if len(tracks) == 0 {
		content = styles.Muted.Render("Playlist is empty")
	} else {
		content = v.renderTracks(tracks, playing, width-4, height-4)
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

func (v *PlaylistView) renderTracks(tracks []core.Track, playing, width, maxLines int) string {
	v.Clamp(len(tracks))

	visible := maxLines - 1 // room for the "more" indicator
	if visible < 1 {
		visible = 1
	}

	// Keep the selection inside the window.
	if v.selected < v.offset {
		v.offset = v.selected
	}
	if v.selected >= v.offset+visible {
		v.offset = v.selected - visible + 1
	}

	start := v.offset
	end := start + visible
	if end > len(tracks) {
		end = len(tracks)
	}

	lines := make([]string, 0, end-start+1)
	for i := start; i < end; i++ {
		track := tracks[i]
		num := fmt.Sprintf("%3d.", i+1)

		marker := "  "
		if i == playing {
			marker = styles.Playing.Render("▶ ")
		}

		name := styles.Truncate(track.DisplayName(), width-10)
		if track.Unplayable {
			name = styles.ErrorText.Render(name + " (unplayable)")
		}

		line := fmt.Sprintf("%s %s%s", styles.Dim.Render(num), marker, name)
		if i == v.selected {
			line = styles.Selected.Render(fmt.Sprintf("%s %s%s", num, marker, name))
		} else if i == playing {
			line = styles.Playing.Render(fmt.Sprintf("%s ▶ %s", num, styles.Truncate(track.DisplayName(), width-10)))
		}

		lines = append(lines, line)
	}

	if end < len(tracks) {
		lines = append(lines, styles.Dim.Render(fmt.Sprintf("     ... and %d more", len(tracks)-end)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
