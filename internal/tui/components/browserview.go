package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/strumapp/strum/internal/browser"
	"github.com/strumapp/strum/internal/tui/styles"
)

// BrowserView displays the file browser listing.
type BrowserView struct {
	offset int
}

// NewBrowserView creates a BrowserView component.
func NewBrowserView() *BrowserView {
	return &BrowserView{}
}

// Render renders the browser panel.
func (v *BrowserView) Render(b *browser.Browser, width, height int, focused bool) string {
	title := styles.PanelTitle("Files", focused)
	dir := styles.Dim.Render(styles.Truncate(b.Dir(), width-4))

	var content string
	if len(b.Entries()) == 0 {
		content = styles.Muted.Render("No audio files here")
	} else {
		content = v.renderEntries(b, width-4, height-5)
	}

	panel := styles.Panel(focused).
		Width(width).
		Height(height)

	return panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		title,
		dir,
		"",
		content,
	))
}

func (v *BrowserView) renderEntries(b *browser.Browser, width, maxLines int) string {
	entries := b.Entries()
	selected := b.Selected()

	visible := maxLines - 1
	if visible < 1 {
		visible = 1
	}
	if selected < v.offset {
		v.offset = selected
	}
	if selected >= v.offset+visible {
		v.offset = selected - visible + 1
	}

	start := v.offset
	end := start + visible
	if end > len(entries) {
		end = len(entries)
	}

	lines := lo.Map(entries[start:end], func(e browser.Entry, i int) string {
		name := e.Name
		if e.IsDir {
			name += "/"
		}
		name = styles.Truncate(name, width-4)

		if start+i == selected {
			return styles.Selected.Render("> " + name)
		}
		if e.IsDir {
			return styles.Highlight.Render("  " + name)
		}
		return "  " + name
	})

	if end < len(entries) {
		lines = append(lines, styles.Dim.Render(fmt.Sprintf("  ... and %d more", len(entries)-end)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
