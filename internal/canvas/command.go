// pattern: Functional Core

package canvas

import (
	"encoding/json"
	"fmt"
)

// CommandKind enumerates the layout mutations. Every writer — keyboard
// handler or web API — expresses its intent as a Command and funnels it
// through Apply, so there is exactly one reducer over the tree.
type CommandKind string

const (
	CommandOpen         CommandKind = "open"
	CommandSplit        CommandKind = "split"
	CommandClose        CommandKind = "close"
	CommandSetView      CommandKind = "set-view"
	CommandNavigateChat CommandKind = "navigate-chat"
)

// Command is one layout mutation. Fields are interpreted per kind:
//
//	open:          View, Props
//	split:         PanelID, Direction (default vertical), View
//	close:         PanelID
//	set-view:      PanelID, View, Props
//	navigate-chat: (none)
type Command struct {
	Kind      CommandKind     `json:"kind"`
	PanelID   string          `json:"panel_id,omitempty"`
	View      ViewKind        `json:"view,omitempty"`
	Direction Direction       `json:"direction,omitempty"`
	Props     json.RawMessage `json:"props,omitempty"`
}

// Validate checks that the command is well formed enough to apply. Apply
// itself never fails; Validate exists so transport layers can reject garbage
// before it reaches the reducer.
func (c Command) Validate() error {
	switch c.Kind {
	case CommandOpen:
		if !c.View.Valid() {
			return fmt.Errorf("open: unknown view kind %q", c.View)
		}
	case CommandSplit:
		if c.PanelID == "" {
			return fmt.Errorf("split: panel_id is required")
		}
		if !c.View.Valid() {
			return fmt.Errorf("split: unknown view kind %q", c.View)
		}
		if c.Direction != "" && !c.Direction.Valid() {
			return fmt.Errorf("split: unknown direction %q", c.Direction)
		}
	case CommandClose:
		if c.PanelID == "" {
			return fmt.Errorf("close: panel_id is required")
		}
	case CommandSetView:
		if c.PanelID == "" {
			return fmt.Errorf("set-view: panel_id is required")
		}
		if !c.View.Valid() {
			return fmt.Errorf("set-view: unknown view kind %q", c.View)
		}
	case CommandNavigateChat:
	default:
		return fmt.Errorf("unknown command kind %q", c.Kind)
	}
	if len(c.Props) > 0 {
		if _, err := decodeProps(c.View, c.Props); err != nil {
			return fmt.Errorf("props: %w", err)
		}
	}
	return nil
}

// Apply reduces a command against the tree. Malformed commands and invalid
// targets leave the tree unchanged — the reducer is total.
func Apply(tree Node, cmd Command) Node {
	return ApplyWith(tree, cmd, defaultIDSource)
}

// ApplyWith is Apply with an explicit id source for minted panels.
func ApplyWith(tree Node, cmd Command, mint IDSource) Node {
	if err := cmd.Validate(); err != nil {
		return tree
	}
	props, _ := decodeProps(cmd.View, cmd.Props)

	switch cmd.Kind {
	case CommandOpen:
		return OpenPanelWith(tree, cmd.View, props, mint)
	case CommandSplit:
		dir := cmd.Direction
		if dir == "" {
			dir = DirectionVertical
		}
		return SplitPanelWith(tree, cmd.PanelID, dir, cmd.View, mint)
	case CommandClose:
		return ClosePanel(tree, cmd.PanelID)
	case CommandSetView:
		return ChangePanelView(tree, cmd.PanelID, cmd.View, props)
	case CommandNavigateChat:
		return NavigateToChat(tree)
	}
	return tree
}
