// pattern: Imperative Shell

package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"notebench/internal/canvas"
	"notebench/internal/events"
	"notebench/internal/logging"
)

// doubleCtrlCWindow is the maximum time between two ctrl+c presses to quit.
const doubleCtrlCWindow = 500 * time.Millisecond

// logEntryMsg delivers one log entry from the logging channel.
type logEntryMsg struct {
	entry logging.LogEntry
}

// clearStatusMsg clears the status bar after a timed delay.
type clearStatusMsg struct{}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLogViewport()
		return m, nil

	case spinner.TickMsg:
		if m.backendState == "starting" {
			var cmd tea.Cmd
			m.statusSpinner, cmd = m.statusSpinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case logEntryMsg:
		m.logEntries = append(m.logEntries, msg.entry)
		if len(m.logEntries) > maxLogEntries {
			m.logEntries = m.logEntries[len(m.logEntries)-maxLogEntries:]
		}
		if m.logPanelOpen && m.logReady {
			m.updateLogViewportContent()
		}
		return m, m.listenLogs()

	case clearStatusMsg:
		m.clearStatus()
		return m, nil

	case events.WebCommandMsg:
		if msg.WorkspaceID == m.workspaces.Active() {
			m.applyCommand(msg.Command)
			m.setStatus(StatusInfo, "applied "+string(msg.Command.Kind)+" from web")
			return m, m.clearStatusLater()
		}
		return m, nil

	case events.WorkspaceReloadedMsg:
		m.ensureFocus()
		m.setStatus(StatusInfo, "workspace reloaded from disk")
		return m, m.clearStatusLater()

	case events.WebListenURLMsg:
		m.webURL = msg.URL
		return m, nil

	case events.BackendStateMsg:
		m.backendState = msg.State
		if msg.State == "failed" && msg.Err != nil {
			m.setStatus(StatusError, "backend: "+msg.Err.Error())
			return m, nil
		}
		if msg.State == "starting" {
			return m, m.statusSpinner.Tick
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Quit shortcuts run before any overlay.
	if msg.Type == tea.KeyCtrlD {
		return m, tea.Quit
	}
	if msg.Type == tea.KeyCtrlC {
		now := time.Now()
		if !m.lastCtrlCTime.IsZero() && now.Sub(m.lastCtrlCTime) <= doubleCtrlCWindow {
			return m, tea.Quit
		}
		m.lastCtrlCTime = now
		m.setStatus(StatusInfo, "press ctrl+c again to quit")
		return m, m.clearStatusLater()
	}

	if m.wsPickerOpen {
		return m.handleWorkspacePickerKey(msg)
	}
	if m.menuOpen {
		return m.handleMenuKey(msg)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "esc":
		m.clearStatus()
		return m, nil

	case "tab":
		m.cycleFocus()
		return m, nil

	case "o":
		m.openMenu(menuActionOpen)
		return m, nil

	case "v":
		m.openMenu(menuActionSetView)
		return m, nil

	case "s":
		m.openMenu(menuActionSplitVertical)
		return m, nil

	case "S":
		m.openMenu(menuActionSplitHorizontal)
		return m, nil

	case "x":
		m.applyCommand(canvas.Command{Kind: canvas.CommandClose, PanelID: m.focusID})
		return m, nil

	case "c":
		m.applyCommand(canvas.Command{Kind: canvas.CommandNavigateChat})
		return m, nil

	case "l":
		m.logPanelOpen = !m.logPanelOpen
		m.resizeLogViewport()
		return m, nil

	case "w":
		m.wsPickerOpen = true
		m.wsInput.SetValue("")
		m.wsInput.Focus()
		return m, nil
	}

	return m, nil
}

func (m *Model) openMenu(action menuAction) {
	m.menuOpen = true
	m.menuAction = action
	m.menuIndex = 0
}

func (m Model) handleMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	kinds := canvas.Kinds()

	switch msg.String() {
	case "esc":
		m.menuOpen = false
		return m, nil

	case "up", "k":
		m.menuIndex--
		if m.menuIndex < 0 {
			m.menuIndex = len(kinds) - 1
		}
		return m, nil

	case "down", "j":
		m.menuIndex = (m.menuIndex + 1) % len(kinds)
		return m, nil

	case "enter":
		view := kinds[m.menuIndex]
		m.menuOpen = false
		m.applyCommand(m.menuCommand(view))
		return m, nil
	}

	return m, nil
}

// menuCommand builds the layout command for the chosen view kind.
func (m Model) menuCommand(view canvas.ViewKind) canvas.Command {
	switch m.menuAction {
	case menuActionSetView:
		return canvas.Command{Kind: canvas.CommandSetView, PanelID: m.focusID, View: view}
	case menuActionSplitVertical:
		return canvas.Command{Kind: canvas.CommandSplit, PanelID: m.focusID, View: view, Direction: canvas.DirectionVertical}
	case menuActionSplitHorizontal:
		return canvas.Command{Kind: canvas.CommandSplit, PanelID: m.focusID, View: view, Direction: canvas.DirectionHorizontal}
	default:
		return canvas.Command{Kind: canvas.CommandOpen, View: view}
	}
}

func (m Model) handleWorkspacePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.wsPickerOpen = false
		m.wsInput.Blur()
		return m, nil

	case "enter":
		id := m.wsInput.Value()
		m.wsPickerOpen = false
		m.wsInput.Blur()
		if id != "" && id != m.workspaces.Active() {
			m.workspaces.Switch(id)
			m.focusID = canvas.FirstLeafID(m.workspaces.Tree())
			m.setStatus(StatusInfo, "switched to workspace "+id)
			return m, m.clearStatusLater()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.wsInput, cmd = m.wsInput.Update(msg)
	return m, cmd
}

// applyCommand funnels every keyboard mutation through the workspace
// manager's reducer and repairs panel focus afterwards.
func (m *Model) applyCommand(cmd canvas.Command) {
	before := m.workspaces.Tree()
	after := m.workspaces.Apply(cmd)
	m.ensureFocus()

	if cmd.Kind == canvas.CommandSplit || cmd.Kind == canvas.CommandOpen {
		// Focus the freshly minted panel when one appeared.
		if canvas.CountLeaves(after) > canvas.CountLeaves(before) {
			ids := canvas.LeafIDs(after)
			known := make(map[string]bool)
			for _, id := range canvas.LeafIDs(before) {
				known[id] = true
			}
			for _, id := range ids {
				if !known[id] {
					m.focusID = id
					break
				}
			}
		}
	}
}

func (m Model) clearStatusLater() tea.Cmd {
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

func (m *Model) resizeLogViewport() {
	if !m.logPanelOpen || m.width == 0 {
		return
	}
	chrome := ComputeChrome(m.width, m.height, true)
	if !m.logReady {
		m.logViewport = viewport.New(chrome.Logs.Width, chrome.Logs.Height)
		m.logReady = true
	} else {
		m.logViewport.Width = chrome.Logs.Width
		m.logViewport.Height = chrome.Logs.Height
	}
	m.updateLogViewportContent()
}

func (m *Model) updateLogViewportContent() {
	lines := make([]string, 0, len(m.logEntries))
	for _, entry := range m.logEntries {
		lines = append(lines, entry.String())
	}
	content := ""
	for i, line := range lines {
		if i > 0 {
			content += "\n"
		}
		content += line
	}
	m.logViewport.SetContent(content)
	m.logViewport.GotoBottom()
}
