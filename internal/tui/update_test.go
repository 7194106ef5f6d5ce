package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"notebench/internal/canvas"
	"notebench/internal/config"
	"notebench/internal/events"
	"notebench/internal/logging"
	"notebench/internal/workspace"
)

func newTestModel(t *testing.T) Model {
	t.Helper()

	store, err := workspace.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	lm := logging.NewTestManager(t)
	mgr := workspace.NewManager(store, "test", canvas.ViewChat, 0, lm.For("workspace"))

	cfg := config.DefaultConfig()
	m := NewModel(&cfg, mgr, lm, nil)
	sized, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return sized.(Model)
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestUpdateWindowSize(t *testing.T) {
	m := newTestModel(t)
	if m.width != 100 || m.height != 30 {
		t.Errorf("size = %dx%d, want 100x30", m.width, m.height)
	}
}

func TestInitialFocusIsPrimary(t *testing.T) {
	m := newTestModel(t)
	if m.FocusedPanel() != canvas.PrimaryPanelID {
		t.Errorf("focus = %q, want %q", m.FocusedPanel(), canvas.PrimaryPanelID)
	}
}

func TestOpenMenuCreatesPanelAndMovesFocus(t *testing.T) {
	m := newTestModel(t)

	next, _ := m.Update(keyRune('o'))
	m = next.(Model)
	if !m.menuOpen {
		t.Fatal("menu should open on o")
	}

	// Move to the second entry (timeline) and select it.
	next, _ = m.Update(keyRune('j'))
	m = next.(Model)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	if m.menuOpen {
		t.Error("menu should close after selection")
	}
	if got := canvas.CountLeaves(m.Tree()); got != 2 {
		t.Fatalf("leaves = %d, want 2 after open", got)
	}
	if m.FocusedPanel() == canvas.PrimaryPanelID {
		t.Error("focus should move to the new panel")
	}
	focused := canvas.FindLeaf(m.Tree(), m.FocusedPanel())
	if focused == nil || focused.View != canvas.ViewTimeline {
		t.Errorf("focused panel = %+v, want timeline", focused)
	}
}

func TestSplitMenuUsesDirection(t *testing.T) {
	tests := []struct {
		name string
		key  rune
		want canvas.Direction
	}{
		{"lowercase splits vertically", 's', canvas.DirectionVertical},
		{"uppercase splits horizontally", 'S', canvas.DirectionHorizontal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t)

			next, _ := m.Update(keyRune(tt.key))
			m = next.(Model)
			next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
			m = next.(Model)

			split, ok := m.Tree().(*canvas.Split)
			if !ok {
				t.Fatalf("root = %T, want split", m.Tree())
			}
			if split.Direction != tt.want {
				t.Errorf("direction = %q, want %q", split.Direction, tt.want)
			}
		})
	}
}

func TestCloseFocusedPanel(t *testing.T) {
	m := newTestModel(t)

	next, _ := m.Update(keyRune('o'))
	m = next.(Model)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	if canvas.CountLeaves(m.Tree()) != 2 {
		t.Fatal("setup: expected two panels")
	}

	next, _ = m.Update(keyRune('x'))
	m = next.(Model)

	if got := canvas.CountLeaves(m.Tree()); got != 1 {
		t.Errorf("leaves = %d, want 1 after close", got)
	}
	if m.FocusedPanel() != canvas.PrimaryPanelID {
		t.Errorf("focus = %q, want primary after closing focused panel", m.FocusedPanel())
	}
}

func TestCloseLastPanelRestoresDefault(t *testing.T) {
	m := newTestModel(t)

	next, _ := m.Update(keyRune('x'))
	m = next.(Model)

	if !canvas.Equal(m.Tree(), canvas.DefaultTree()) {
		t.Error("closing the last panel should restore the default tree")
	}
	if m.FocusedPanel() != canvas.PrimaryPanelID {
		t.Errorf("focus = %q, want primary", m.FocusedPanel())
	}
}

func TestTabCyclesFocus(t *testing.T) {
	m := newTestModel(t)

	next, _ := m.Update(keyRune('o'))
	m = next.(Model)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	opened := m.FocusedPanel()
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(Model)
	if m.FocusedPanel() == opened {
		t.Error("tab should move focus to the other panel")
	}
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(Model)
	if m.FocusedPanel() != opened {
		t.Error("tab should cycle back")
	}
}

func TestNavigateChatKeyIsIdempotent(t *testing.T) {
	m := newTestModel(t)

	before := m.Tree()
	next, _ := m.Update(keyRune('c'))
	m = next.(Model)

	if !canvas.Equal(before, m.Tree()) {
		t.Error("navigate-chat on a chat tree should not change it")
	}
}

func TestWebCommandAppliesToActiveWorkspace(t *testing.T) {
	m := newTestModel(t)

	next, _ := m.Update(events.WebCommandMsg{
		WorkspaceID: "test",
		Command:     canvas.Command{Kind: canvas.CommandOpen, View: canvas.ViewFindings},
	})
	m = next.(Model)

	if got := canvas.CountLeaves(m.Tree()); got != 2 {
		t.Errorf("leaves = %d, want 2 after web open", got)
	}
}

func TestWebCommandIgnoredForOtherWorkspace(t *testing.T) {
	m := newTestModel(t)

	next, _ := m.Update(events.WebCommandMsg{
		WorkspaceID: "other",
		Command:     canvas.Command{Kind: canvas.CommandOpen, View: canvas.ViewFindings},
	})
	m = next.(Model)

	if got := canvas.CountLeaves(m.Tree()); got != 1 {
		t.Errorf("leaves = %d, want 1 when workspace does not match", got)
	}
}

func TestEscClosesMenu(t *testing.T) {
	m := newTestModel(t)

	next, _ := m.Update(keyRune('o'))
	m = next.(Model)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)

	if m.menuOpen {
		t.Error("esc should close the menu")
	}
	if got := canvas.CountLeaves(m.Tree()); got != 1 {
		t.Errorf("leaves = %d, cancelled menu must not mutate the tree", got)
	}
}

func TestDoubleCtrlCQuits(t *testing.T) {
	m := newTestModel(t)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	m = next.(Model)
	if m.lastCtrlCTime.IsZero() {
		t.Fatal("first ctrl+c should arm the quit window")
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("second ctrl+c should produce a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("second ctrl+c = %T, want QuitMsg", cmd())
	}
}

func TestLogPanelToggle(t *testing.T) {
	m := newTestModel(t)

	next, _ := m.Update(keyRune('l'))
	m = next.(Model)
	if !m.logPanelOpen {
		t.Error("l should open the log panel")
	}
	if !m.logReady {
		t.Error("opening the log panel should initialize the viewport")
	}

	next, _ = m.Update(keyRune('l'))
	m = next.(Model)
	if m.logPanelOpen {
		t.Error("l should close the log panel again")
	}
}

func TestBackendStateMessages(t *testing.T) {
	m := newTestModel(t)

	next, _ := m.Update(events.BackendStateMsg{State: "ready"})
	m = next.(Model)
	if m.backendState != "ready" {
		t.Errorf("backendState = %q, want ready", m.backendState)
	}
}
