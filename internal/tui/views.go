package tui

import (
	"fmt"

	"notebench/internal/canvas"
)

// viewTitle maps a view kind to its panel heading.
func viewTitle(view canvas.ViewKind) string {
	switch view {
	case canvas.ViewChat:
		return "Chat"
	case canvas.ViewTimeline:
		return "Timeline"
	case canvas.ViewConstellation:
		return "Constellation"
	case canvas.ViewFindings:
		return "Findings"
	case canvas.ViewCurator:
		return "Curator"
	case canvas.ViewSources:
		return "Sources"
	case canvas.ViewSettings:
		return "Settings"
	}
	return string(view)
}

// renderViewBody renders the placeholder body for a panel. Real content is
// fetched from the backend by each view; until a session is attached the body
// describes what the panel will show and which props it carries.
func renderViewBody(leaf *canvas.Leaf, width int, styles *Styles) string {
	muted := styles.MutedStyle().Width(width)

	switch props := leaf.Props.(type) {
	case canvas.ChatProps:
		if props.SessionID != "" {
			return muted.Render("session " + props.SessionID)
		}
		return muted.Render("start typing to open a research conversation")

	case canvas.TimelineProps:
		line := "chronology of collected events"
		if props.PersonID != "" {
			line = "events for " + props.PersonID
		}
		if props.Range != "" {
			line += " (" + props.Range + ")"
		}
		return muted.Render(line)

	case canvas.ConstellationProps:
		if props.FocusNodeID != "" {
			return muted.Render(fmt.Sprintf("map centered on %s, depth %d", props.FocusNodeID, props.Depth))
		}
		return muted.Render("knowledge map of people, places and claims")

	case canvas.FindingsProps:
		if props.Filter != "" {
			return muted.Render("findings matching " + props.Filter)
		}
		return muted.Render("confirmed findings and open leads")

	case canvas.SourcesProps:
		if props.SourceID != "" {
			return muted.Render("source " + props.SourceID)
		}
		return muted.Render("documents, archives and citations")
	}

	switch leaf.View {
	case canvas.ViewCurator:
		return muted.Render("suggested next steps from the curator")
	case canvas.ViewSettings:
		return muted.Render("theme, data directory and backend settings")
	case canvas.ViewChat:
		return muted.Render("start typing to open a research conversation")
	case canvas.ViewTimeline:
		return muted.Render("chronology of collected events")
	case canvas.ViewConstellation:
		return muted.Render("knowledge map of people, places and claims")
	case canvas.ViewFindings:
		return muted.Render("confirmed findings and open leads")
	case canvas.ViewSources:
		return muted.Render("documents, archives and citations")
	}
	return ""
}
