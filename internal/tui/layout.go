// pattern: Functional Core

package tui

// Region defines a rectangular area within the terminal.
type Region struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Chrome holds computed regions for the fixed UI furniture around the
// canvas. The canvas region itself is carved up recursively by the layout
// tree, not here.
type Chrome struct {
	Header    Region // title + workspace line (2 lines)
	Canvas    Region // panel area (dynamic)
	Separator Region // divider above the log panel (1 line when open)
	Logs      Region // log panel when open (60% of the dynamic area)
	StatusBar Region // status bar (1 line)
}

const (
	headerHeight    = 2
	statusBarHeight = 1
	separatorHeight = 1
)

// ComputeChrome calculates fixed regions from the terminal size. When the
// log panel is open the dynamic area splits 40/60 (canvas/logs).
func ComputeChrome(width, height int, logPanelOpen bool) Chrome {
	fixed := headerHeight + statusBarHeight
	if logPanelOpen {
		fixed += separatorHeight
	}
	available := height - fixed
	if available < 4 {
		available = 4
	}

	var canvasHeight, logsHeight int
	if logPanelOpen {
		canvasHeight = int(float64(available) * 0.4)
		logsHeight = available - canvasHeight
	} else {
		canvasHeight = available
	}

	y := 0
	header := Region{X: 0, Y: y, Width: width, Height: headerHeight}
	y += headerHeight

	canvas := Region{X: 0, Y: y, Width: width, Height: canvasHeight}
	y += canvasHeight

	var separator, logs Region
	if logPanelOpen {
		separator = Region{X: 0, Y: y, Width: width, Height: separatorHeight}
		y += separatorHeight
		logs = Region{X: 0, Y: y, Width: width, Height: logsHeight}
		y += logsHeight
	}

	statusBar := Region{X: 0, Y: y, Width: width, Height: statusBarHeight}

	return Chrome{
		Header:    header,
		Canvas:    canvas,
		Separator: separator,
		Logs:      logs,
		StatusBar: statusBar,
	}
}
