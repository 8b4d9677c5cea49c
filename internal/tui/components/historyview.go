package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/strumapp/strum/internal/history"
	"github.com/strumapp/strum/internal/tui/styles"
)

// HistoryView displays recently played tracks, most recent first, with
// a movable selection for replaying an entry.
type HistoryView struct {
	offset   int
	selected int
}

// NewHistoryView creates a HistoryView component.
func NewHistoryView() *HistoryView {
	return &HistoryView{}
}

// Selected returns the selected index.
func (h *HistoryView) Selected() int { return h.selected }

// SelectNext moves the selection down one row.
func (h *HistoryView) SelectNext(n int) {
	if h.selected < n-1 {
		h.selected++
	}
}

// SelectPrev moves the selection up one row.
func (h *HistoryView) SelectPrev() {
	if h.selected > 0 {
		h.selected--
	}
}

// Clamp keeps the selection valid after the log changed size.
func (h *HistoryView) Clamp(n int) {
	if h.selected >= n {
		h.selected = n - 1
	}
	if h.selected < 0 {
		h.selected = 0
	}
}

// Render renders the history panel.
func (h *HistoryView) Render(entries []history.Entry, width, height int, focused bool) string {
	title := styles.PanelTitle("History", focused)

	var content string
	if len(entries) == 0 {
		content = styles.Muted.Render("No history yet")
	} else {
		content = h.renderEntries(entries, width-4, height-4, focused)
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

func (h *HistoryView) renderEntries(entries []history.Entry, width, maxLines int, focused bool) string {
	h.Clamp(len(entries))

	visible := maxLines
	if visible < 1 {
		visible = 1
	}

	// Keep the selection inside the window.
	if h.selected < h.offset {
		h.offset = h.selected
	}
	if h.selected >= h.offset+visible {
		h.offset = h.selected - visible + 1
	}

	start := h.offset
	end := start + visible
	if end > len(entries) {
		end = len(entries)
	}

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		entry := entries[i]

		ago := humanize.Time(entry.PlayedAt)
		agoWidth := len(ago)

		name := styles.Truncate(entry.Track.DisplayName(), width-agoWidth-4)

		padding := width - 2 - len(name) - agoWidth
		if padding < 1 {
			padding = 1
		}

		if focused && i == h.selected {
			lines = append(lines, styles.Selected.Render(
				"✓ "+name+strings.Repeat(" ", padding)+ago))
			continue
		}

		lines = append(lines, fmt.Sprintf("%s %s%s%s",
			styles.Dim.Render("✓"),
			name,
			lipgloss.NewStyle().Width(padding).Render(""),
			styles.Dim.Render(ago)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
