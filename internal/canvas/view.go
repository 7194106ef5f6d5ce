// pattern: Functional Core

package canvas

import "fmt"

// ViewKind identifies which content component a leaf hosts. The engine treats
// kinds as opaque identifiers; adding a kind means adding a constant here and
// a factory entry in the renderer, nothing in the tree algebra changes.
type ViewKind string

const (
	ViewChat          ViewKind = "chat"
	ViewTimeline      ViewKind = "timeline"
	ViewConstellation ViewKind = "constellation"
	ViewFindings      ViewKind = "findings"
	ViewCurator       ViewKind = "curator"
	ViewSources       ViewKind = "sources"
	ViewSettings      ViewKind = "settings"
)

// Kinds returns all known view kinds in display order.
func Kinds() []ViewKind {
	return []ViewKind{
		ViewChat,
		ViewTimeline,
		ViewConstellation,
		ViewFindings,
		ViewCurator,
		ViewSources,
		ViewSettings,
	}
}

// Valid reports whether v is a known view kind.
func (v ViewKind) Valid() bool {
	switch v {
	case ViewChat, ViewTimeline, ViewConstellation, ViewFindings,
		ViewCurator, ViewSources, ViewSettings:
		return true
	}
	return false
}

// ParseViewKind converts a string to a ViewKind, rejecting unknown values.
func ParseViewKind(s string) (ViewKind, error) {
	v := ViewKind(s)
	if !v.Valid() {
		return "", fmt.Errorf("unknown view kind %q", s)
	}
	return v, nil
}

// Props is the closed set of per-view payloads a leaf can carry. The engine
// never inspects a payload beyond handing it to the view host; each variant
// exists so the parameter shape of a view is statically known.
type Props interface {
	isProps()
}

// ChatProps parameterizes a chat panel.
type ChatProps struct {
	SessionID string `json:"session_id,omitempty"`
}

// TimelineProps parameterizes a timeline panel.
type TimelineProps struct {
	Range    string `json:"range,omitempty"`
	PersonID string `json:"person_id,omitempty"`
}

// ConstellationProps parameterizes the knowledge-map panel.
type ConstellationProps struct {
	FocusNodeID string `json:"focus_node_id,omitempty"`
	Depth       int    `json:"depth,omitempty"`
}

// FindingsProps parameterizes a findings panel.
type FindingsProps struct {
	Filter string `json:"filter,omitempty"`
}

// SourcesProps parameterizes a sources panel.
type SourcesProps struct {
	SourceID string `json:"source_id,omitempty"`
}

func (ChatProps) isProps()          {}
func (TimelineProps) isProps()      {}
func (ConstellationProps) isProps() {}
func (FindingsProps) isProps()      {}
func (SourcesProps) isProps()       {}
