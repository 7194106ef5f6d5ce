// Package events contains message types shared between the web, backend and
// tui packages, plus the change-notification broker that fans layout updates
// out to observers. Cross-component signalling goes through these explicit
// types; there are no ambient global listeners.
package events

import "notebench/internal/canvas"

// WebCommandMsg carries a layout command submitted over the web API. It is
// delivered to the TUI program so the reduction happens on the UI loop,
// preserving single-writer ordering.
type WebCommandMsg struct {
	WorkspaceID string
	Command     canvas.Command
}

// WebListenURLMsg is sent when the web server starts listening.
type WebListenURLMsg struct{ URL string }

// WorkspaceReloadedMsg is sent when the active workspace's layout file was
// rewritten outside the process and reloaded.
type WorkspaceReloadedMsg struct{ WorkspaceID string }

// BackendStateMsg reports a research-backend lifecycle transition.
type BackendStateMsg struct {
	State string // "starting", "ready", "stopped", "failed"
	Err   error
}
