// Package tui is the terminal interface. It renders snapshots of the
// playback session and translates key presses into session commands;
// it holds no playback state of its own.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/strumapp/strum/internal/browser"
	"github.com/strumapp/strum/internal/core"
	"github.com/strumapp/strum/internal/history"
	"github.com/strumapp/strum/internal/meta"
	"github.com/strumapp/strum/internal/playlist"
	"github.com/strumapp/strum/internal/session"
	"github.com/strumapp/strum/internal/tui/components"
	"github.com/strumapp/strum/internal/tui/styles"
)

// Panel identifies which panel has keyboard focus.
type Panel int

const (
	PanelPlaylist Panel = iota
	PanelFiles
	PanelHistory

	panelCount = 3
)

// App wires the TUI to the playback session.
type App struct {
	session *session.Session
	reader  core.MetadataReader
	refresh time.Duration
	seekBy  time.Duration
}

// NewApp creates the TUI application.
func NewApp(s *session.Session, reader core.MetadataReader, refresh, seekBy time.Duration) *App {
	return &App{
		session: s,
		reader:  reader,
		refresh: refresh,
		seekBy:  seekBy,
	}
}

// Model is the bubbletea model.
type Model struct {
	app          *App
	width        int
	height       int
	focusedPanel Panel

	// State snapshots
	state   core.PlaybackState
	tracks  []core.Track
	history []history.Entry

	// Components
	playerBar    *components.PlayerBar
	playlistView *components.PlaylistView
	browserView  *components.BrowserView
	historyView  *components.HistoryView

	files *browser.Browser

	// Library scan in flight, nil when idle.
	scan    <-chan []core.Track
	scanned int

	// Overlays
	showHelp  bool
	showSave  bool
	saveInput textinput.Model

	quitting bool
}

// NewModel creates the TUI model with the browser rooted at startDir.
func NewModel(app *App, startDir string) Model {
	ti := textinput.New()
	ti.Placeholder = "playlist.m3u"
	ti.CharLimit = 200
	ti.Width = 50

	return Model{
		app:          app,
		focusedPanel: PanelPlaylist,
		playerBar:    components.NewPlayerBar(),
		playlistView: components.NewPlaylistView(),
		browserView:  components.NewBrowserView(),
		historyView:  components.NewHistoryView(),
		files:        browser.New(startDir),
		saveInput:    ti,
	}
}

// Messages
type tickMsg time.Time
type stateMsg core.PlaybackState
type tracksMsg []core.Track
type historyMsg []history.Entry
type eventMsg session.Event
type scanBatchMsg []core.Track
type scanDoneMsg struct{}
type savedMsg struct{ err error }

// Commands
func (m Model) tick() tea.Cmd {
	return tea.Tick(m.app.refresh, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) fetchState() tea.Cmd {
	return func() tea.Msg {
		return stateMsg(m.app.session.Snapshot())
	}
}

func (m Model) fetchTracks() tea.Cmd {
	return func() tea.Msg {
		return tracksMsg(m.app.session.PlaylistTracks())
	}
}

func (m Model) fetchHistory() tea.Cmd {
	return func() tea.Msg {
		return historyMsg(m.app.session.HistoryEntries())
	}
}

// waitForEvent blocks on the session event stream. Re-armed after
// every event so the stream is always drained.
func (m Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.app.session.Events()
		if !ok {
			return nil
		}
		return eventMsg(ev)
	}
}

// waitForScanBatch receives the next batch from a running library
// scan.
func (m Model) waitForScanBatch() tea.Cmd {
	scan := m.scan
	return func() tea.Msg {
		batch, ok := <-scan
		if !ok {
			return scanDoneMsg{}
		}
		return scanBatchMsg(batch)
	}
}

func (m Model) savePlaylist(path string) tea.Cmd {
	return func() tea.Msg {
		return savedMsg{err: m.app.session.SavePlaylist(path)}
	}
}

// addPath resolves the browser selection into tracks: an m3u expands
// to its entries, an audio file becomes a single tagged track.
func (m Model) addPath(path string) tea.Cmd {
	reader := m.app.reader
	s := m.app.session
	return func() tea.Msg {
		var tracks []core.Track
		if playlist.IsM3U(path) {
			paths, err := playlist.LoadM3U(path)
			if err != nil {
				return nil
			}
			tracks = lo.Map(paths, func(p string, _ int) core.Track {
				return meta.Track(reader, p)
			})
		} else {
			tracks = []core.Track{meta.Track(reader, path)}
		}
		s.AddTracks(tracks)
		return tracksMsg(s.PlaylistTracks())
	}
}

// Init starts the refresh loop and event subscription.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.tick(),
		m.fetchState(),
		m.fetchTracks(),
		m.fetchHistory(),
		m.waitForEvent(),
	)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.tick(), m.fetchState())

	case stateMsg:
		m.state = core.PlaybackState(msg)
		return m, nil

	case tracksMsg:
		m.tracks = msg
		m.playlistView.Clamp(len(m.tracks))
		return m, nil

	case historyMsg:
		m.history = msg
		m.historyView.Clamp(len(m.history))
		return m, nil

	case eventMsg:
		// Any session event can change the playlist or history view.
		return m, tea.Batch(
			m.waitForEvent(),
			m.fetchState(),
			m.fetchTracks(),
			m.fetchHistory(),
		)

	case scanBatchMsg:
		m.scanned += len(msg)
		m.app.session.AddTracks(msg)
		return m, tea.Batch(m.waitForScanBatch(), m.fetchTracks())

	case scanDoneMsg:
		m.scan = nil
		return m, m.fetchTracks()

	case savedMsg:
		m.showSave = false
		m.saveInput.Blur()
		return m, m.fetchState()
	}

	if m.showSave {
		var cmd tea.Cmd
		m.saveInput, cmd = m.saveInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	if m.showHelp {
		switch msg.String() {
		case "?", "esc", "q":
			m.showHelp = false
		}
		return m, nil
	}

	if m.showSave {
		return m.handleSaveKeyPress(msg)
	}

	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit

	case "?":
		m.showHelp = true
		return m, nil

	case "tab":
		m.focusedPanel = (m.focusedPanel + 1) % panelCount
		return m, nil

	case "shift+tab":
		m.focusedPanel = (m.focusedPanel + panelCount - 1) % panelCount
		return m, nil

	case " ":
		m.app.session.PlayPause()
		return m, m.fetchState()

	case "n":
		m.app.session.Next()
		return m, m.fetchState()

	case "p":
		m.app.session.Previous()
		return m, m.fetchState()

	case "left":
		m.app.session.SeekBy(-m.app.seekBy)
		return m, m.fetchState()

	case "right":
		m.app.session.SeekBy(m.app.seekBy)
		return m, m.fetchState()

	case "+", "=":
		m.app.session.VolumeBy(5)
		return m, m.fetchState()

	case "-":
		m.app.session.VolumeBy(-5)
		return m, m.fetchState()

	case "m":
		m.app.session.ToggleMute()
		return m, m.fetchState()

	case "s":
		m.app.session.ToggleShuffle()
		return m, m.fetchState()

	case "r":
		m.app.session.CycleRepeat()
		return m, m.fetchState()

	case "c":
		m.app.session.Clear()
		return m, tea.Batch(m.fetchState(), m.fetchTracks())

	case "ctrl+s":
		m.showSave = true
		m.saveInput.SetValue("")
		m.saveInput.Focus()
		return m, textinput.Blink
	}

	switch m.focusedPanel {
	case PanelPlaylist:
		return m.handlePlaylistKeyPress(msg)
	case PanelFiles:
		return m.handleFilesKeyPress(msg)
	case PanelHistory:
		return m.handleHistoryKeyPress(msg)
	}

	return m, nil
}

func (m Model) handleHistoryKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		m.historyView.SelectNext(len(m.history))
	case "k", "up":
		m.historyView.SelectPrev()
	case "enter":
		if len(m.history) > 0 {
			m.app.session.PlayHistoryEntry(m.history[m.historyView.Selected()].Track)
			return m, tea.Batch(m.fetchState(), m.fetchTracks())
		}
	case "x":
		m.app.session.ClearHistory()
		return m, m.fetchHistory()
	}
	return m, nil
}

func (m Model) handlePlaylistKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		m.playlistView.SelectNext(len(m.tracks))
	case "k", "up":
		m.playlistView.SelectPrev()
	case "enter":
		if len(m.tracks) > 0 {
			m.app.session.PlayIndex(m.playlistView.Selected())
			return m, m.fetchState()
		}
	case "x", "delete":
		if len(m.tracks) > 0 {
			m.app.session.RemoveAt(m.playlistView.Selected())
			return m, tea.Batch(m.fetchState(), m.fetchTracks())
		}
	}
	return m, nil
}

func (m Model) handleFilesKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		m.files.SelectNext()
	case "k", "up":
		m.files.SelectPrev()
	case "h", "backspace":
		m.files.Up()
		m.app.session.SetLastDirectory(m.files.Dir())
	case "enter", "l":
		e := m.files.SelectedEntry()
		if e == nil {
			return m, nil
		}
		if e.IsDir {
			if m.files.Enter() {
				m.app.session.SetLastDirectory(m.files.Dir())
			}
			return m, nil
		}
		return m, m.addPath(e.Path)
	case "a":
		// Recursive add: selected directory, or the whole current one.
		if m.scan != nil {
			return m, nil
		}
		root := m.files.Dir()
		if e := m.files.SelectedEntry(); e != nil && e.IsDir {
			root = e.Path
		}
		m.scan = browser.ScanAudio(context.Background(), root, m.app.reader)
		m.scanned = 0
		return m, m.waitForScanBatch()
	}
	return m, nil
}

func (m Model) handleSaveKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.showSave = false
		m.saveInput.Blur()
		return m, nil

	case "enter":
		path := strings.TrimSpace(m.saveInput.Value())
		if path == "" {
			return m, nil
		}
		if !playlist.IsM3U(path) {
			path += ".m3u"
		}
		return m, m.savePlaylist(path)
	}

	var cmd tea.Cmd
	m.saveInput, cmd = m.saveInput.Update(msg)
	return m, cmd
}

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}
	if m.showSave {
		return m.renderSave()
	}

	// Layout: player bar across the top, playlist on the left, files
	// and history stacked on the right, status bar at the bottom.
	playerHeight := 11
	bodyHeight := m.height - playerHeight - 3
	if bodyHeight < 6 {
		bodyHeight = 6
	}

	leftWidth := m.width * 55 / 100
	rightWidth := m.width - leftWidth - 2
	filesHeight := bodyHeight * 60 / 100
	historyHeight := bodyHeight - filesHeight

	player := m.playerBar.Render(m.state, m.width-2, playerHeight-2, false)
	playlistView := m.playlistView.Render(m.tracks, m.state.Index, leftWidth-2, bodyHeight, m.focusedPanel == PanelPlaylist)
	filesView := m.browserView.Render(m.files, rightWidth-2, filesHeight, m.focusedPanel == PanelFiles)
	historyView := m.historyView.Render(m.history, rightWidth-2, historyHeight, m.focusedPanel == PanelHistory)

	rightCol := lipgloss.JoinVertical(lipgloss.Left, filesView, historyView)
	body := lipgloss.JoinHorizontal(lipgloss.Top, playlistView, rightCol)

	return lipgloss.JoinVertical(lipgloss.Left, player, body, m.renderStatusBar())
}

func (m Model) renderStatusBar() string {
	status := styles.Dim.Render("q:quit  ?:help  space:play/pause  n/p:track  s:shuffle  r:repeat  tab:panel")

	if m.scan != nil {
		status = styles.Muted.Render(fmt.Sprintf("Scanning... %d tracks added", m.scanned))
	} else if m.state.Message != "" {
		status = styles.Muted.Render(m.state.Message)
	}

	return lipgloss.NewStyle().
		Width(m.width).
		Padding(0, 1).
		Render(status)
}

func (m Model) renderHelp() string {
	title := "strum - Keyboard Shortcuts"
	divider := strings.Repeat("═", len(title))

	help := `
  ` + title + `
  ` + divider + `

  Global
  ──────
  q, Ctrl+C    Quit
  ?            Toggle help
  Tab          Next panel
  Shift+Tab    Previous panel

  Playback
  ────────
  Space        Play/Pause
  n            Next track
  p            Previous / restart
  ←/→          Seek
  +/=, -       Volume up / down
  m            Mute
  s            Shuffle
  r            Repeat (off/one/all)

  Playlist Panel
  ──────────────
  j/↓, k/↑     Move selection
  Enter        Play selected
  x, Delete    Remove selected
  c            Clear playlist
  Ctrl+S       Save as .m3u

  Files Panel
  ───────────
  j/↓, k/↑     Move selection
  Enter, l     Open dir / add file
  h, Backspace Parent directory
  a            Add directory recursively

  History Panel
  ─────────────
  j/↓, k/↑     Move selection
  Enter        Replay selected
  x            Clear history

  Press ? or Esc to close
`

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(styles.BorderStyle.Render(help))
}

func (m Model) renderSave() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Save playlist"))
	b.WriteString("\n\n")
	b.WriteString(m.saveInput.View())
	b.WriteString("\n\n")
	b.WriteString(styles.Dim.Render("Enter:save  Esc:cancel"))

	content := lipgloss.NewStyle().
		Width(60).
		Padding(1, 2).
		Render(b.String())

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(styles.FocusedBorder.Render(content))
}

// Run starts the TUI and blocks until it exits.
func Run(app *App, startDir string) error {
	model := NewModel(app, startDir)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
