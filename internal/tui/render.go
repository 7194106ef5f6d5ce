// pattern: Functional Core

package tui

import (
	"github.com/charmbracelet/lipgloss"

	"notebench/internal/canvas"
)

// RenderTree draws a layout tree into a width x height cell. Splits carve the
// region by their advisory percentages; leaves become bordered panels. The
// focused leaf gets the accent border.
func RenderTree(node canvas.Node, width, height int, focusID string, styles *Styles) string {
	switch n := node.(type) {
	case *canvas.Leaf:
		return renderPanel(n, width, height, n.ID == focusID, styles)
	case *canvas.Split:
		return renderSplit(n, width, height, focusID, styles)
	}
	return ""
}

func renderSplit(n *canvas.Split, width, height int, focusID string, styles *Styles) string {
	first, second := apportion(splitExtent(n, width, height), n.Sizes)

	if n.Direction == canvas.DirectionVertical {
		left := RenderTree(n.Children[0], first, height, focusID, styles)
		right := RenderTree(n.Children[1], second, height, focusID, styles)
		return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	}

	top := RenderTree(n.Children[0], width, first, focusID, styles)
	bottom := RenderTree(n.Children[1], width, second, focusID, styles)
	return lipgloss.JoinVertical(lipgloss.Left, top, bottom)
}

// splitExtent picks the axis a split divides: width for side-by-side
// children, height for stacked ones.
func splitExtent(n *canvas.Split, width, height int) int {
	if n.Direction == canvas.DirectionVertical {
		return width
	}
	return height
}

// apportion divides extent cells by the advisory percentages. Sizes are not
// guaranteed to sum to 100, so the second child takes the remainder and both
// shares are clamped to at least one cell.
func apportion(extent int, sizes [2]int) (int, int) {
	total := sizes[0] + sizes[1]
	if total <= 0 {
		total = 100
		sizes = [2]int{50, 50}
	}
	first := extent * sizes[0] / total
	if first < 1 {
		first = 1
	}
	if first > extent-1 {
		first = extent - 1
	}
	return first, extent - first
}

func renderPanel(leaf *canvas.Leaf, width, height int, focused bool, styles *Styles) string {
	if width < 2 || height < 2 {
		return ""
	}

	inner := width - 2
	title := styles.PanelTitleStyle(focused).Render(viewTitle(leaf.View) + " · " + leaf.ID)
	body := renderViewBody(leaf, inner, styles)

	content := lipgloss.JoinVertical(lipgloss.Left, title, body)
	return styles.PanelStyle(focused).
		Width(inner).
		Height(height - 2).
		Render(content)
}
