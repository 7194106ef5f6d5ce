// pattern: Imperative Shell

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"notebench/internal/canvas"
)

// View renders the full frame: header, canvas (or an overlay), the optional
// log panel, and the status bar.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "loading..."
	}

	chrome := ComputeChrome(m.width, m.height, m.logPanelOpen)

	var b strings.Builder
	b.WriteString(m.renderHeader(chrome.Header))
	b.WriteString("\n")
	b.WriteString(m.renderCanvasRegion(chrome.Canvas))
	b.WriteString("\n")

	if m.logPanelOpen {
		b.WriteString(m.renderSeparator(chrome.Separator))
		b.WriteString("\n")
		b.WriteString(m.renderLogs(chrome.Logs))
		b.WriteString("\n")
	}

	b.WriteString(m.renderStatusBar(chrome.StatusBar))
	return b.String()
}

func (m Model) renderHeader(region Region) string {
	title := m.styles.TitleStyle().Render("notebench")

	parts := []string{
		"workspace " + m.workspaces.Active(),
		fmt.Sprintf("%d/%d panels", canvas.CountLeaves(m.Tree()), canvas.MaxPanels),
	}
	if m.webURL != "" {
		parts = append(parts, "web "+m.webURL)
	}
	switch m.backendState {
	case "starting":
		parts = append(parts, m.statusSpinner.View()+" backend starting")
	case "ready":
		parts = append(parts, "backend ready")
	case "failed":
		parts = append(parts, m.styles.ErrorStyle().Render("backend down"))
	}
	subtitle := m.styles.SubtitleStyle().Render(strings.Join(parts, "  ·  "))

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle)
}

func (m Model) renderCanvasRegion(region Region) string {
	if m.menuOpen {
		return m.renderOverlay(region, m.renderMenu())
	}
	if m.wsPickerOpen {
		return m.renderOverlay(region, m.renderWorkspacePicker())
	}
	return RenderTree(m.Tree(), region.Width, region.Height, m.focusID, m.styles)
}

func (m Model) renderOverlay(region Region, box string) string {
	return lipgloss.Place(region.Width, region.Height, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) renderMenu() string {
	var title string
	switch m.menuAction {
	case menuActionSetView:
		title = "Set panel view"
	case menuActionSplitVertical:
		title = "Split right with"
	case menuActionSplitHorizontal:
		title = "Split below with"
	default:
		title = "Open panel"
	}

	lines := []string{m.styles.TitleStyle().Render(title), ""}
	for i, kind := range canvas.Kinds() {
		label := viewTitle(kind)
		if i == m.menuIndex {
			lines = append(lines, m.styles.MenuSelectedStyle().Render("> "+label))
		} else {
			lines = append(lines, m.styles.InfoStyle().Render("  "+label))
		}
	}
	lines = append(lines, "", m.styles.MutedStyle().Render("enter select · esc cancel"))

	return m.styles.MenuBoxStyle().Render(strings.Join(lines, "\n"))
}

func (m Model) renderWorkspacePicker() string {
	lines := []string{
		m.styles.TitleStyle().Render("Switch workspace"),
		"",
		m.wsInput.View(),
		"",
	}
	known := m.workspaces.List()
	if len(known) > 0 {
		lines = append(lines, m.styles.MutedStyle().Render("known: "+strings.Join(known, ", ")))
	}
	lines = append(lines, m.styles.MutedStyle().Render("enter switch · esc cancel"))

	return m.styles.MenuBoxStyle().Render(strings.Join(lines, "\n"))
}

func (m Model) renderSeparator(region Region) string {
	return m.styles.MutedStyle().Render(strings.Repeat("─", max(region.Width, 0)))
}

func (m Model) renderLogs(region Region) string {
	if !m.logReady {
		return m.styles.MutedStyle().Render("no log output yet")
	}
	return m.logViewport.View()
}

func (m Model) renderStatusBar(region Region) string {
	if m.statusLevel != StatusNone {
		style := m.styles.InfoStyle()
		if m.statusLevel == StatusError {
			style = m.styles.ErrorStyle()
		}
		return style.Render(m.statusMsg)
	}

	hints := "tab focus · o open · s/S split · v view · x close · c chat · w workspace · l logs · q quit"
	return m.styles.MutedStyle().Render(hints)
}
