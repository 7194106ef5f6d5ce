package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"notebench/internal/canvas"
	"notebench/internal/config"
	"notebench/internal/logging"
	"notebench/internal/workspace"
)

// maxLogEntries bounds the in-memory log panel buffer.
const maxLogEntries = 500

// StatusLevel describes the kind of message shown in the status bar.
type StatusLevel int

const (
	StatusNone StatusLevel = iota
	StatusInfo
	StatusError
)

// menuAction identifies what the view menu will do with the chosen kind.
type menuAction int

const (
	menuActionOpen menuAction = iota
	menuActionSetView
	menuActionSplitVertical
	menuActionSplitHorizontal
)

// Model is the TUI application state. The canvas tree itself lives in the
// workspace manager; the model holds presentation state around it.
type Model struct {
	width     int
	height    int
	themeName string
	styles    *Styles

	cfg        *config.Config
	workspaces *workspace.Manager
	logger     *logging.ScopedLogger
	logCh      <-chan logging.LogEntry

	focusID string

	menuOpen   bool
	menuAction menuAction
	menuIndex  int

	wsPickerOpen bool
	wsInput      textinput.Model

	logPanelOpen bool
	logViewport  viewport.Model
	logReady     bool
	logEntries   []logging.LogEntry

	statusMsg     string
	statusLevel   StatusLevel
	statusSpinner spinner.Model
	backendState  string
	webURL        string

	lastCtrlCTime time.Time
}

// NewModel creates the TUI model. entries is the logging channel feeding the
// log panel; it may be nil in tests that do not exercise it.
func NewModel(cfg *config.Config, workspaces *workspace.Manager, logProvider logging.LoggerProvider, entries <-chan logging.LogEntry) Model {
	styles := NewStyles(cfg.Theme)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(styles.flavor.Teal().Hex))

	wsInput := textinput.New()
	wsInput.Placeholder = "workspace id"
	wsInput.CharLimit = 64

	return Model{
		themeName:     cfg.Theme,
		styles:        styles,
		cfg:           cfg,
		workspaces:    workspaces,
		logger:        logProvider.For("tui"),
		logCh:         entries,
		focusID:       canvas.FirstLeafID(workspaces.Tree()),
		wsInput:       wsInput,
		statusSpinner: sp,
	}
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.listenLogs(),
		m.statusSpinner.Tick,
	)
}

// listenLogs waits for the next log entry from the channel sink.
func (m Model) listenLogs() tea.Cmd {
	if m.logCh == nil {
		return nil
	}
	ch := m.logCh
	return func() tea.Msg {
		entry, ok := <-ch
		if !ok {
			return nil
		}
		return logEntryMsg{entry: entry}
	}
}

// Tree returns the current layout tree.
func (m Model) Tree() canvas.Node {
	return m.workspaces.Tree()
}

// FocusedPanel returns the id of the focused panel.
func (m Model) FocusedPanel() string {
	return m.focusID
}

// ensureFocus repairs the focus after the tree changed: a vanished panel
// hands focus to the primary leaf.
func (m *Model) ensureFocus() {
	tree := m.workspaces.Tree()
	if canvas.FindLeaf(tree, m.focusID) == nil {
		m.focusID = canvas.FirstLeafID(tree)
	}
}

// cycleFocus moves focus to the next leaf in traversal order.
func (m *Model) cycleFocus() {
	ids := canvas.LeafIDs(m.workspaces.Tree())
	for i, id := range ids {
		if id == m.focusID {
			m.focusID = ids[(i+1)%len(ids)]
			return
		}
	}
	if len(ids) > 0 {
		m.focusID = ids[0]
	}
}

func (m *Model) setStatus(level StatusLevel, msg string) {
	m.statusLevel = level
	m.statusMsg = msg
}

func (m *Model) clearStatus() {
	m.statusLevel = StatusNone
	m.statusMsg = ""
}
